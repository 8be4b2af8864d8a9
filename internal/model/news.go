package model

import "time"

// News is a club announcement shown on the home feed, newest first.
type News struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	PublishDate time.Time `json:"publish_date"`
}

// WorkoutPopularity counts subscriptions per workout type for the admin
// dashboard, ordered most popular first.
type WorkoutPopularity struct {
	WorkoutTypeID uint64 `json:"workout_type_id"`
	Title         string `json:"title"`
	Subscriptions int64  `json:"subscriptions"`
}

// DashboardStats aggregates the admin dashboard figures.
type DashboardStats struct {
	TotalUsers             int64               `json:"total_users"`
	NewUsersLast7Days      int64               `json:"new_users_last_7_days"`
	AverageWorkoutDuration float64             `json:"average_workout_duration"`
	WorkoutPopularity      []WorkoutPopularity `json:"workout_popularity"`
}
