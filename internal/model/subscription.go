package model

import "time"

// Subscription is a member's reservation of one slot in one session.
// At most one subscription may exist per (user, session) pair; the
// subscriptions table enforces this with a unique key.
type Subscription struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	SessionID uint64    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SubscriptionDetail is a subscription joined with its session, workout
// type and trainer, as shown on the member's "my workouts" page.
type SubscriptionDetail struct {
	ID              uint64    `json:"id"`
	SessionID       uint64    `json:"session_id"`
	WorkoutTypeID   uint64    `json:"workout_type_id"`
	WorkoutTitle    string    `json:"workout_title"`
	DurationMinutes int       `json:"duration_minutes"`
	TrainerName     string    `json:"trainer_name"`
	StartTime       time.Time `json:"start_time"`
	CreatedAt       time.Time `json:"created_at"`
}
