package model

import "time"

// SessionStatus is a derived state, computed from start_time and
// available_slots at read time. It is never persisted, so it cannot drift
// from the ground-truth columns.
type SessionStatus string

const (
	SessionOpen SessionStatus = "OPEN"
	SessionFull SessionStatus = "FULL"
	SessionPast SessionStatus = "PAST"
)

// Session is one scheduled occurrence of a workout type, run by exactly
// one trainer, with a fixed capacity. available_slots is mutated only by
// the booking transaction (book: -1, cancel: +1) and by the resize
// recomputation; it is never copied from user input.
type Session struct {
	ID             uint64    `json:"id"`
	WorkoutTypeID  uint64    `json:"workout_type_id"`
	TrainerID      uint64    `json:"trainer_id"`
	StartTime      time.Time `json:"start_time"`
	TotalSlots     int       `json:"total_slots"`
	AvailableSlots int       `json:"available_slots"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BookedSlots returns the number of slots consumed by live subscriptions.
func (s *Session) BookedSlots() int { return s.TotalSlots - s.AvailableSlots }

// IsFull reports whether no slots remain.
func (s *Session) IsFull() bool { return s.AvailableSlots <= 0 }

// IsPast reports whether the session started at or before now.
func (s *Session) IsPast(now time.Time) bool { return !s.StartTime.After(now) }

// Status derives the session state at the given instant. A started
// session is PAST regardless of remaining capacity.
func (s *Session) Status(now time.Time) SessionStatus {
	switch {
	case s.IsPast(now):
		return SessionPast
	case s.IsFull():
		return SessionFull
	default:
		return SessionOpen
	}
}

// SessionDetail is a session joined with its workout type and trainer,
// as returned by the schedule listing.
type SessionDetail struct {
	ID              uint64    `json:"id"`
	WorkoutTypeID   uint64    `json:"workout_type_id"`
	WorkoutTitle    string    `json:"workout_title"`
	DurationMinutes int       `json:"duration_minutes"`
	TrainerID       uint64    `json:"trainer_id"`
	TrainerName     string    `json:"trainer_name"`
	StartTime       time.Time `json:"start_time"`
	TotalSlots      int       `json:"total_slots"`
	AvailableSlots  int       `json:"available_slots"`
}
