// Package scoresync copies a user's derived overall scores from the private
// workout document into the public display document. This is the only write
// path that makes score data visible to other users; until it runs the two
// partitions may diverge, which callers accept by invoking it as the last
// step of every scoring sequence.
package scoresync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	shared "github.com/brandonlee4284/liftx-server/pkg"
	"github.com/brandonlee4284/liftx-server/pkg/types"
)

type Synchronizer struct {
	db     shared.Database
	logger *slog.Logger

	// Now is the clock, overridable in tests.
	Now func() time.Time
}

func NewSynchronizer(db shared.Database, logger *slog.Logger) *Synchronizer {
	return &Synchronizer{
		db:     db,
		logger: logger,
		Now:    time.Now,
	}
}

// SyncScores mirrors every overall category of the private workout document
// into the user's public display document. Fails with ErrMissingData if the
// overall scores have not been computed yet.
func (s *Synchronizer) SyncScores(ctx context.Context, userID string) error {
	workout, err := s.db.GetWorkout(ctx, userID)
	if err != nil {
		return fmt.Errorf("read workout: %w", err)
	}
	if len(workout.Overall) == 0 {
		return fmt.Errorf("overall scores for user %s not computed: %w", userID, types.ErrMissingData)
	}

	display := &types.DisplayScore{
		UserID:   userID,
		Scores:   make(map[string]types.CategoryScore, len(workout.Overall)),
		SyncedAt: s.Now(),
	}
	for category, score := range workout.Overall {
		display.Scores[category] = score
	}

	if err := s.db.SetDisplayScore(ctx, userID, display); err != nil {
		return fmt.Errorf("write display score: %w", err)
	}

	s.logger.Info("Display scores synchronized", "user_id", userID, "overall", display.Overall())
	return nil
}
