// Package queue defines the booking events exchanged over the message
// broker and the background consumer that records them.
package queue

// BookingConfirmedEvent is published after a booking transaction commits.
// It carries enough detail for downstream consumers to log or notify
// without querying the primary database.
type BookingConfirmedEvent struct {
	SubscriptionID uint64 `json:"subscription_id"`
	UserID         uint64 `json:"user_id"`
	UserEmail      string `json:"user_email"`
	SessionID      uint64 `json:"session_id"`
	WorkoutTitle   string `json:"workout_title"`
	TrainerName    string `json:"trainer_name"`
	StartsAt       string `json:"starts_at"`
	ConfirmedAt    string `json:"confirmed_at"`
}
