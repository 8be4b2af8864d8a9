// Package repository implements all persistence and the booking engine for
// the club. Sentinel errors defined here are the typed outcomes the
// handlers translate into HTTP responses; infrastructure failures are
// returned as-is and map to 500.
package repository

import "errors"

// Not-found outcomes for the individual entity kinds.
var (
	ErrWorkoutTypeNotFound  = errors.New("workout type not found")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrNewsNotFound         = errors.New("news item not found")
)

// Input validation outcomes for session management.
var (
	// ErrNotTrainer is returned when the user assigned as instructor does
	// not hold the TRAINER role.
	ErrNotTrainer = errors.New("assigned user is not a trainer")
	// ErrPastStartTime is returned when a session is created with a start
	// time that is not strictly in the future. Existing sessions whose
	// start time has since passed remain valid.
	ErrPastStartTime = errors.New("start time must be in the future")
	// ErrNegativeSlots is returned when a capacity below zero is submitted.
	ErrNegativeSlots = errors.New("slot count cannot be negative")
	// ErrInvalidDuration is returned when a workout type is submitted with a
	// duration below one minute.
	ErrInvalidDuration = errors.New("duration must be at least one minute")
)

// Booking outcomes. These are the contract of Book and Cancel; the
// storage-level duplicate key error is translated into ErrAlreadyBooked so
// callers never see a raw driver error for a lost race.
var (
	ErrOwnSession       = errors.New("cannot book own session")
	ErrSessionStarted   = errors.New("session already started")
	ErrAlreadyBooked    = errors.New("already booked for this session")
	ErrNoSlotsAvailable = errors.New("no slots available")
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as cancelling another member's booking or
// listing the subscribers of another trainer's session. Handlers translate
// it into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned on registration when the email is taken.
var ErrEmailExists = errors.New("email already exists")
