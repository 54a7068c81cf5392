package types

import "errors"

var (
	// ErrExerciseNotModeled means the exercise has no percentile-model entry.
	// Recoverable: callers skip that exercise's score contribution.
	ErrExerciseNotModeled = errors.New("exercise not modeled")

	// ErrInvalidInput means a degenerate numeric input (e.g. reps outside
	// [1,36] would make the 1RM denominator zero or negative). Validated up
	// front rather than surfacing as NaN/Inf in persisted scores.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingData means a dependent document does not exist yet. Fatal to
	// the current operation; no retry.
	ErrMissingData = errors.New("missing data")

	// ErrStoreUnavailable wraps document-store failures. The operation aborts
	// at that step with no partial persistence of in-memory mutations.
	ErrStoreUnavailable = errors.New("store unavailable")
)
