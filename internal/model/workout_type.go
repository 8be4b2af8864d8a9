package model

// WorkoutType is a reusable activity template. Sessions reference a type
// by ID; deleting a type cascades to its sessions and their subscriptions
// (handled explicitly by the repository, not by DB cascade rules).
type WorkoutType struct {
	ID              uint64 `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes"`
}
