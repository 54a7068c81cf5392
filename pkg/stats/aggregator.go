// Package stats maintains the per-user workout statistics document: per
// exercise set history and scores, and the rolling per-muscle-group and
// overall aggregates derived from them.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	shared "github.com/brandonlee4284/liftx-server/pkg"
	"github.com/brandonlee4284/liftx-server/pkg/model"
	"github.com/brandonlee4284/liftx-server/pkg/strength"
	"github.com/brandonlee4284/liftx-server/pkg/types"
)

// RollingWindow is the trailing window sets count toward group aggregation.
const RollingWindow = 30 * 24 * time.Hour

// OverallWeights is the fixed linear combination rolling group scores into
// the overall score. Core is tracked and displayed but carries zero weight;
// that quirk is load-bearing product behavior and must not be "fixed".
var OverallWeights = map[types.MuscleGroup]float64{
	types.MuscleGroupChest:     0.10,
	types.MuscleGroupBack:      0.25,
	types.MuscleGroupShoulders: 0.10,
	types.MuscleGroupArms:      0.25,
	types.MuscleGroupLegs:      0.30,
	types.MuscleGroupCore:      0.00,
}

type Aggregator struct {
	db     shared.Database
	model  *model.Model
	logger *slog.Logger

	// Now is the clock, overridable in tests.
	Now func() time.Time
}

func NewAggregator(db shared.Database, m *model.Model, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		db:     db,
		model:  m,
		logger: logger,
		Now:    time.Now,
	}
}

// RecordSets folds a batch of logged exercises into the user's workout
// document. Demographics are read fresh on every call. Per-exercise failures
// (unmodeled exercise, degenerate reps or weight) are logged and skipped
// without aborting the batch; every set logged in one batch shares a single
// timestamp. The document mutation is a transactional read-modify-write.
func (a *Aggregator) RecordSets(ctx context.Context, userID string, logged []types.LoggedExercise) error {
	if len(logged) == 0 {
		return nil
	}

	demo, err := a.db.GetDemographics(ctx, userID)
	if err != nil {
		return fmt.Errorf("load demographics: %w", err)
	}

	loggedAt := a.Now()

	return a.db.UpdateWorkout(ctx, userID, func(w *types.WorkoutDoc) error {
		if w.Exercises == nil {
			w.Exercises = make(map[string]*types.ExerciseStat)
		}

		for _, le := range logged {
			if le.Sets < 1 {
				a.logger.Warn("skipping exercise with no sets", "exercise", le.Name, "sets", le.Sets)
				continue
			}

			name := model.NormalizeName(le.Name)
			repMax, score, err := strength.Score(a.model, name, *demo, le.WeightLb, le.Reps)
			if err != nil {
				// Unmodeled exercises may be logged for display upstream but
				// contribute no stats.
				a.logger.Warn("skipping exercise", "exercise", le.Name, "error", err)
				continue
			}

			stat, exists := w.Exercises[name]
			if !exists {
				stat = &types.ExerciseStat{}
				w.Exercises[name] = stat
			}
			for i := 0; i < le.Sets; i++ {
				stat.TotalSets = append(stat.TotalSets, loggedAt)
			}
			if exists {
				stat.Change = score - stat.Score
			} else {
				stat.Change = 0
			}
			stat.RepMax = repMax
			stat.Score = score
		}

		w.UpdatedAt = loggedAt
		return nil
	})
}

// RecomputeOverallScores performs a full aggregation pass: for every muscle
// group, the sets-weighted average of member exercise scores over sets
// strictly within the trailing 30-day window, then the fixed-weight overall
// roll-up. It rescans every stat and timestamp rather than updating
// incrementally; cost is bounded by realistic workout frequency.
func (a *Aggregator) RecomputeOverallScores(ctx context.Context, userID string) error {
	now := a.Now()
	cutoff := now.Add(-RollingWindow)

	return a.db.UpdateWorkout(ctx, userID, func(w *types.WorkoutDoc) error {
		if w.IsEmpty() {
			return fmt.Errorf("workout stats for user %s: %w", userID, types.ErrMissingData)
		}
		if w.Overall == nil {
			w.Overall = make(map[string]types.CategoryScore)
		}

		groupScores := make(map[types.MuscleGroup]float64, len(types.AllMuscleGroups))
		for _, group := range types.AllMuscleGroups {
			var weighted, setCount float64
			for name, stat := range w.Exercises {
				mg, err := a.model.MuscleGroup(name)
				if err != nil || mg != group {
					continue
				}
				n := setsInWindow(stat.TotalSets, cutoff)
				if n == 0 {
					continue
				}
				weighted += stat.Score * float64(n)
				setCount += float64(n)
			}

			var groupScore float64
			if setCount > 0 {
				groupScore = weighted / setCount
			}

			prev := w.Overall[string(group)]
			w.Overall[string(group)] = types.CategoryScore{
				Score:  groupScore,
				Change: groupScore - prev.Score,
			}
			groupScores[group] = groupScore
		}

		// Fixed iteration order keeps the summation deterministic.
		var overall float64
		for _, group := range types.AllMuscleGroups {
			overall += OverallWeights[group] * groupScores[group]
		}
		prev := w.Overall[types.CategoryOverall]
		w.Overall[types.CategoryOverall] = types.CategoryScore{
			Score:  overall,
			Change: overall - prev.Score,
		}

		w.UpdatedAt = now
		return nil
	})
}

// setsInWindow counts timestamps strictly after the cutoff. A set exactly 30
// days old is excluded; that boundary behavior is intentional.
func setsInWindow(sets []time.Time, cutoff time.Time) int {
	n := 0
	for _, t := range sets {
		if t.After(cutoff) {
			n++
		}
	}
	return n
}
