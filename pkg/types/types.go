package types

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender validates a gender string from client input.
func ParseGender(s string) (Gender, bool) {
	switch Gender(s) {
	case GenderMale, GenderFemale:
		return Gender(s), true
	}
	return "", false
}

type MuscleGroup string

const (
	MuscleGroupChest     MuscleGroup = "chest"
	MuscleGroupBack      MuscleGroup = "back"
	MuscleGroupShoulders MuscleGroup = "shoulders"
	MuscleGroupArms      MuscleGroup = "arms"
	MuscleGroupLegs      MuscleGroup = "legs"
	MuscleGroupCore      MuscleGroup = "core"
)

// AllMuscleGroups is the fixed aggregation order. Iterating this slice instead
// of a map keeps floating-point summation deterministic across runs.
var AllMuscleGroups = []MuscleGroup{
	MuscleGroupChest,
	MuscleGroupBack,
	MuscleGroupShoulders,
	MuscleGroupArms,
	MuscleGroupLegs,
	MuscleGroupCore,
}

// CategoryOverall keys the weighted roll-up of the muscle groups.
const CategoryOverall = "overall"

// Demographics is the private per-user profile read fresh on every score
// computation. It is never cached across calls.
type Demographics struct {
	BodyweightLb float64 `json:"bodyweight_lb"`
	AgeYears     float64 `json:"age_years"`
	Gender       Gender  `json:"gender"`
}

// LoggedExercise is one entry of a workout log submission.
type LoggedExercise struct {
	Name     string  `json:"name"`
	Sets     int     `json:"sets"`
	Reps     int     `json:"reps"`
	WeightLb float64 `json:"weight"`
}

// ExerciseStat is the per-user, per-exercise history inside the private
// workout document. TotalSets is append-only; entries are never pruned, the
// aggregator filters them to its rolling window transiently.
type ExerciseStat struct {
	TotalSets []time.Time `json:"total_sets"`
	RepMax    float64     `json:"rep_max"`
	Score     float64     `json:"score"`
	Change    float64     `json:"change"`
}

// CategoryScore is a score with the signed delta from its previous value.
type CategoryScore struct {
	Score  float64 `json:"score"`
	Change float64 `json:"change"`
}

// WorkoutDoc is the private workout document, one per user.
// Overall is nil until the first aggregation pass runs.
type WorkoutDoc struct {
	Exercises map[string]*ExerciseStat `json:"exercises"`
	Overall   map[string]CategoryScore `json:"overall,omitempty"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// IsEmpty reports whether the document holds no data yet, i.e. it was just
// materialized by a read-modify-write against an absent document.
func (w *WorkoutDoc) IsEmpty() bool {
	return len(w.Exercises) == 0 && len(w.Overall) == 0
}

// DisplayScore is the world-readable mirror of a user's overall scores,
// written only by the score synchronizer. It may lag the private document
// until synchronization runs.
type DisplayScore struct {
	UserID   string                   `json:"user_id"`
	Scores   map[string]CategoryScore `json:"scores"`
	SyncedAt time.Time                `json:"synced_at"`
}

// Overall returns the overall category score, or zero if absent.
func (d *DisplayScore) Overall() float64 {
	return d.Scores[CategoryOverall].Score
}

type ExecutionStatus string

const (
	StatusStarted ExecutionStatus = "STATUS_STARTED"
	StatusSuccess ExecutionStatus = "STATUS_SUCCESS"
	StatusFailed  ExecutionStatus = "STATUS_FAILED"
)

// ExecutionRecord is an audit entry for one function invocation.
type ExecutionRecord struct {
	ExecutionID  string
	Service      string
	Status       ExecutionStatus
	UserID       string
	TriggerType  string
	StartTime    time.Time
	EndTime      time.Time
	ErrorMessage string
}
