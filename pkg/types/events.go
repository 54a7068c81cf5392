package types

// WorkoutLoggedEvent is published by the API when a user logs a workout or
// edits demographics, and consumed by the score pipeline. RecomputeOnly skips
// the record step and just re-runs aggregation and synchronization.
type WorkoutLoggedEvent struct {
	UserID        string           `json:"user_id"`
	LoggedAt      string           `json:"logged_at"` // ISO 8601
	Exercises     []LoggedExercise `json:"exercises,omitempty"`
	RecomputeOnly bool             `json:"recompute_only,omitempty"`
}
