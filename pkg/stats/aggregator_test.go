package stats_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandonlee4284/liftx-server/pkg/model"
	"github.com/brandonlee4284/liftx-server/pkg/stats"
	"github.com/brandonlee4284/liftx-server/pkg/testing/mocks"
	"github.com/brandonlee4284/liftx-server/pkg/types"
)

const userID = "user-1"

var demoMale = &types.Demographics{
	BodyweightLb: 180,
	AgeYears:     25,
	Gender:       types.GenderMale,
}

func newAggregator(t *testing.T, db *mocks.InMemoryDatabase, now time.Time) *stats.Aggregator {
	t.Helper()
	m, err := model.Load()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	agg := stats.NewAggregator(db, m, logger)
	agg.Now = func() time.Time { return now }
	return agg
}

func seedDemographics(t *testing.T, db *mocks.InMemoryDatabase) {
	t.Helper()
	require.NoError(t, db.SetDemographics(context.Background(), userID, demoMale))
}

func TestRecordSets_CreatesStat(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewInMemoryDatabase()
	seedDemographics(t, db)
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	agg := newAggregator(t, db, now)

	err := agg.RecordSets(ctx, userID, []types.LoggedExercise{
		{Name: "bench press", Sets: 3, Reps: 12, WeightLb: 135},
	})
	require.NoError(t, err)

	workout, err := db.GetWorkout(ctx, userID)
	require.NoError(t, err)

	stat := workout.Exercises["bench press"]
	require.NotNil(t, stat)
	require.Len(t, stat.TotalSets, 3)
	for _, ts := range stat.TotalSets {
		assert.True(t, ts.Equal(now), "all sets in one batch share the log timestamp")
	}
	assert.InDelta(t, 194.4, stat.RepMax, 1e-9)
	assert.Greater(t, stat.Score, 0.0)
	assert.Equal(t, 0.0, stat.Change, "first log of an exercise has zero change")
}

func TestRecordSets_UpdatesExistingStat(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewInMemoryDatabase()
	seedDemographics(t, db)
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	agg := newAggregator(t, db, now)

	require.NoError(t, agg.RecordSets(ctx, userID, []types.LoggedExercise{
		{Name: "bench press", Sets: 3, Reps: 12, WeightLb: 135},
	}))
	first, err := db.GetWorkout(ctx, userID)
	require.NoError(t, err)
	firstScore := first.Exercises["bench press"].Score

	agg.Now = func() time.Time { return now.Add(48 * time.Hour) }
	require.NoError(t, agg.RecordSets(ctx, userID, []types.LoggedExercise{
		{Name: "bench press", Sets: 2, Reps: 8, WeightLb: 155},
	}))

	workout, err := db.GetWorkout(ctx, userID)
	require.NoError(t, err)
	stat := workout.Exercises["bench press"]
	require.Len(t, stat.TotalSets, 5, "set history is append-only")
	assert.InDelta(t, stat.Score-firstScore, stat.Change, 1e-9)
}

func TestRecordSets_NormalizesExerciseNames(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewInMemoryDatabase()
	seedDemographics(t, db)
	agg := newAggregator(t, db, time.Now())

	require.NoError(t, agg.RecordSets(ctx, userID, []types.LoggedExercise{
		{Name: "Bench Press", Sets: 1, Reps: 5, WeightLb: 185},
		{Name: "bench press", Sets: 1, Reps: 5, WeightLb: 185},
	}))

	workout, err := db.GetWorkout(ctx, userID)
	require.NoError(t, err)
	require.Len(t, workout.Exercises, 1)
	assert.Len(t, workout.Exercises["bench press"].TotalSets, 2)
}

func TestRecordSets_SkipsFailuresWithoutAbortingBatch(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewInMemoryDatabase()
	seedDemographics(t, db)
	agg := newAggregator(t, db, time.Now())

	err := agg.RecordSets(ctx, userID, []types.LoggedExercise{
		{Name: "my custom movement", Sets: 3, Reps: 10, WeightLb: 45}, // unmodeled
		{Name: "bench press", Sets: 3, Reps: 37, WeightLb: 135},       // reps out of range
		{Name: "squat", Sets: 2, Reps: 5, WeightLb: 225},              // fine
		{Name: "deadlift", Sets: 0, Reps: 5, WeightLb: 315},           // no sets
	})
	require.NoError(t, err)

	workout, err := db.GetWorkout(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, workout.Exercises, 1, "only the valid modeled exercise is recorded")
	assert.Contains(t, workout.Exercises, "squat")
}

func TestRecordSets_MissingDemographics(t *testing.T) {
	db := mocks.NewInMemoryDatabase()
	agg := newAggregator(t, db, time.Now())

	err := agg.RecordSets(context.Background(), userID, []types.LoggedExercise{
		{Name: "bench press", Sets: 3, Reps: 12, WeightLb: 135},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrMissingData))
}

func TestRecordSets_EmptyBatchIsNoop(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewInMemoryDatabase()
	agg := newAggregator(t, db, time.Now())

	require.NoError(t, agg.RecordSets(ctx, userID, nil))
	_, err := db.GetWorkout(ctx, userID)
	assert.True(t, errors.Is(err, types.ErrMissingData), "no document should be created")
}

// seedGroupScores writes one exercise per muscle group with the given score
// and a single set at the given time.
func seedGroupScores(t *testing.T, db *mocks.InMemoryDatabase, score float64, at time.Time) {
	t.Helper()
	byGroup := map[string]string{
		"bench press":    "chest",
		"barbell row":    "back",
		"overhead press": "shoulders",
		"bicep curl":     "arms",
		"squat":          "legs",
		"cable crunch":   "core",
	}
	err := db.UpdateWorkout(context.Background(), userID, func(w *types.WorkoutDoc) error {
		for name := range byGroup {
			w.Exercises[name] = &types.ExerciseStat{
				TotalSets: []time.Time{at},
				RepMax:    score,
				Score:     score,
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestRecomputeOverallScores_WeightsSumToOne(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewInMemoryDatabase()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	agg := newAggregator(t, db, now)
	seedGroupScores(t, db, 100, now.Add(-time.Hour))

	require.NoError(t, agg.RecomputeOverallScores(ctx, userID))

	workout, err := db.GetWorkout(ctx, userID)
	require.NoError(t, err)
	for _, group := range types.AllMuscleGroups {
		assert.InDelta(t, 100, workout.Overall[string(group)].Score, 1e-9, "group %s", group)
	}
	assert.InDelta(t, 100, workout.Overall[types.CategoryOverall].Score, 1e-9)
}

func TestRecomputeOverallScores_CoreExcludedFromOverall(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewInMemoryDatabase()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	agg := newAggregator(t, db, now)
	seedGroupScores(t, db, 100, now.Add(-time.Hour))

	// Inflate the core exercise's score; the overall must not move.
	err := db.UpdateWorkout(ctx, userID, func(w *types.WorkoutDoc) error {
		w.Exercises["cable crunch"].Score = 700
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, agg.RecomputeOverallScores(ctx, userID))

	workout, err := db.GetWorkout(ctx, userID)
	require.NoError(t, err)
	assert.InDelta(t, 700, workout.Overall[string(types.MuscleGroupCore)].Score, 1e-9)
	assert.InDelta(t, 100, workout.Overall[types.CategoryOverall].Score, 1e-9)
}

func TestRecomputeOverallScores_SetsWeightedAverage(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewInMemoryDatabase()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	agg := newAggregator(t, db, now)

	recent := now.Add(-time.Hour)
	err := db.UpdateWorkout(ctx, userID, func(w *types.WorkoutDoc) error {
		w.Exercises["bench press"] = &types.ExerciseStat{
			TotalSets: []time.Time{recent, recent, recent},
			Score:     100,
		}
		w.Exercises["incline bench press"] = &types.ExerciseStat{
			TotalSets: []time.Time{recent},
			Score:     200,
		}
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, agg.RecomputeOverallScores(ctx, userID))

	workout, err := db.GetWorkout(ctx, userID)
	require.NoError(t, err)
	// (100*3 + 200*1) / 4
	assert.InDelta(t, 125, workout.Overall[string(types.MuscleGroupChest)].Score, 1e-9)
}

func TestRecomputeOverallScores_WindowBoundary(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewInMemoryDatabase()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	agg := newAggregator(t, db, now)

	cutoff := now.Add(-stats.RollingWindow)
	err := db.UpdateWorkout(ctx, userID, func(w *types.WorkoutDoc) error {
		// Exactly 30 days old: excluded under the strict after comparison.
		w.Exercises["bench press"] = &types.ExerciseStat{
			TotalSets: []time.Time{cutoff},
			Score:     100,
		}
		// One second inside the window: included.
		w.Exercises["squat"] = &types.ExerciseStat{
			TotalSets: []time.Time{cutoff.Add(time.Second)},
			Score:     300,
		}
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, agg.RecomputeOverallScores(ctx, userID))

	workout, err := db.GetWorkout(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, workout.Overall[string(types.MuscleGroupChest)].Score)
	assert.InDelta(t, 300, workout.Overall[string(types.MuscleGroupLegs)].Score, 1e-9)
}

func TestRecomputeOverallScores_EmptyWindowZeroesGroupWithChange(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewInMemoryDatabase()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	agg := newAggregator(t, db, now)
	seedGroupScores(t, db, 100, now.Add(-time.Hour))

	require.NoError(t, agg.RecomputeOverallScores(ctx, userID))

	// A month later every set has aged out of the window.
	agg.Now = func() time.Time { return now.Add(31 * 24 * time.Hour) }
	require.NoError(t, agg.RecomputeOverallScores(ctx, userID))

	workout, err := db.GetWorkout(ctx, userID)
	require.NoError(t, err)
	chest := workout.Overall[string(types.MuscleGroupChest)]
	assert.Equal(t, 0.0, chest.Score)
	assert.InDelta(t, -100, chest.Change, 1e-9, "change records the drop to zero")
	assert.Equal(t, 0.0, workout.Overall[types.CategoryOverall].Score)
}

func TestRecomputeOverallScores_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := mocks.NewInMemoryDatabase()
	now := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	agg := newAggregator(t, db, now)
	seedGroupScores(t, db, 100, now.Add(-time.Hour))

	require.NoError(t, agg.RecomputeOverallScores(ctx, userID))
	first, err := db.GetWorkout(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, agg.RecomputeOverallScores(ctx, userID))
	second, err := db.GetWorkout(ctx, userID)
	require.NoError(t, err)

	for category, cs := range second.Overall {
		assert.InDelta(t, first.Overall[category].Score, cs.Score, 1e-9, "category %s stays stable", category)
		assert.Equal(t, 0.0, cs.Change, "category %s has zero change on an unchanged recompute", category)
	}
}

func TestRecomputeOverallScores_MissingWorkout(t *testing.T) {
	db := mocks.NewInMemoryDatabase()
	agg := newAggregator(t, db, time.Now())

	err := agg.RecomputeOverallScores(context.Background(), userID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrMissingData))
}
