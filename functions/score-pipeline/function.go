// Package scorepipeline is the CloudEvent function executing the scoring
// sequence for one user after a workout is logged: record the sets, recompute
// the rolling group and overall scores, and mirror them into the public
// display document. Each step is an independent read-modify-write; a failing
// step aborts and leaves downstream state as it was, so the whole event is
// retried as a unit.
package scorepipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/brandonlee4284/liftx-server/pkg/bootstrap"
	"github.com/brandonlee4284/liftx-server/pkg/framework"
	"github.com/brandonlee4284/liftx-server/pkg/scoresync"
	"github.com/brandonlee4284/liftx-server/pkg/stats"
	"github.com/brandonlee4284/liftx-server/pkg/types"
)

var (
	svc     *bootstrap.Service
	svcOnce sync.Once
	svcErr  error
)

func init() {
	functions.CloudEvent("ProcessWorkoutScores", ProcessWorkoutScores)
}

func initService(ctx context.Context) (*bootstrap.Service, error) {
	if svc != nil {
		return svc, nil
	}
	svcOnce.Do(func() {
		baseSvc, err := bootstrap.NewService(ctx)
		if err != nil {
			slog.Error("Failed to initialize service", "error", err)
			svcErr = err
			return
		}
		svc = baseSvc
	})
	return svc, svcErr
}

// ProcessWorkoutScores is the entry point
func ProcessWorkoutScores(ctx context.Context, e event.Event) error {
	svc, err := initService(ctx)
	if err != nil {
		return fmt.Errorf("service init failed: %v", err)
	}
	return framework.WrapCloudEvent("score-pipeline", svc, PipelineHandler())(ctx, e)
}

// PipelineHandler contains the business logic.
func PipelineHandler() framework.HandlerFunc {
	return func(ctx context.Context, e event.Event, fwCtx *framework.FrameworkContext) (interface{}, error) {
		var msg types.PubSubMessage
		if err := e.DataAs(&msg); err != nil {
			return nil, fmt.Errorf("event.DataAs: %v", err)
		}

		var evt types.WorkoutLoggedEvent
		if err := json.Unmarshal(msg.Message.Data, &evt); err != nil {
			return nil, fmt.Errorf("unmarshal workout event: %v", err)
		}
		if evt.UserID == "" {
			return nil, fmt.Errorf("workout event without user_id")
		}

		aggregator := stats.NewAggregator(fwCtx.Service.DB, fwCtx.Service.Model, fwCtx.Logger)
		synchronizer := scoresync.NewSynchronizer(fwCtx.Service.DB, fwCtx.Logger)

		logged := 0
		if !evt.RecomputeOnly && len(evt.Exercises) > 0 {
			fwCtx.Logger.Info("Recording sets", "exercises", len(evt.Exercises))
			if err := aggregator.RecordSets(ctx, evt.UserID, evt.Exercises); err != nil {
				return nil, fmt.Errorf("record sets: %w", err)
			}
			logged = len(evt.Exercises)
		}

		if err := aggregator.RecomputeOverallScores(ctx, evt.UserID); err != nil {
			return nil, fmt.Errorf("recompute overall scores: %w", err)
		}

		if err := synchronizer.SyncScores(ctx, evt.UserID); err != nil {
			return nil, fmt.Errorf("sync scores: %w", err)
		}

		return map[string]interface{}{
			"user_id":          evt.UserID,
			"exercises_logged": logged,
			"recompute_only":   evt.RecomputeOnly,
		}, nil
	}
}
