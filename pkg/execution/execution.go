// Package execution writes per-invocation audit records for pipeline runs so
// failures are visible and retryable from the operator side.
package execution

import (
	"context"
	"time"

	"github.com/google/uuid"

	shared "github.com/brandonlee4284/liftx-server/pkg"
	"github.com/brandonlee4284/liftx-server/pkg/types"
)

type Options struct {
	UserID      string
	TriggerType string
}

// LogStart records the beginning of an execution and returns its ID.
func LogStart(ctx context.Context, db shared.Database, service string, opts Options) (string, error) {
	id := uuid.New().String()
	record := &types.ExecutionRecord{
		ExecutionID: id,
		Service:     service,
		Status:      types.StatusStarted,
		UserID:      opts.UserID,
		TriggerType: opts.TriggerType,
		StartTime:   time.Now(),
	}
	if err := db.SetExecution(ctx, record); err != nil {
		return id, err
	}
	return id, nil
}

// LogSuccess marks an execution as completed.
func LogSuccess(ctx context.Context, db shared.Database, id string) error {
	return db.UpdateExecution(ctx, id, map[string]interface{}{
		"status":   string(types.StatusSuccess),
		"end_time": time.Now(),
	})
}

// LogFailure marks an execution as failed with the error message.
func LogFailure(ctx context.Context, db shared.Database, id string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return db.UpdateExecution(ctx, id, map[string]interface{}{
		"status":        string(types.StatusFailed),
		"end_time":      time.Now(),
		"error_message": msg,
	})
}
