package shared

import (
	"context"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/brandonlee4284/liftx-server/pkg/types"
)

// --- Persistence Interfaces ---

type Database interface {
	SetExecution(ctx context.Context, record *types.ExecutionRecord) error
	UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error

	// Demographics (private partition)
	GetDemographics(ctx context.Context, userID string) (*types.Demographics, error)
	SetDemographics(ctx context.Context, userID string, d *types.Demographics) error

	// Workout document (private partition)
	GetWorkout(ctx context.Context, userID string) (*types.WorkoutDoc, error)
	// UpdateWorkout runs mutate inside a transactional read-modify-write of
	// the user's workout document. An absent document is materialized as an
	// empty one; if mutate errors nothing is persisted.
	UpdateWorkout(ctx context.Context, userID string, mutate func(*types.WorkoutDoc) error) error

	// Display scores (public partition, written only by the synchronizer)
	GetDisplayScore(ctx context.Context, userID string) (*types.DisplayScore, error)
	SetDisplayScore(ctx context.Context, userID string, s *types.DisplayScore) error
	ListDisplayScores(ctx context.Context, userIDs []string) ([]*types.DisplayScore, error)
}

// --- Messaging Interfaces ---

type Publisher interface {
	PublishCloudEvent(ctx context.Context, topic string, e event.Event) (string, error)
}

// --- Storage Interfaces ---

type BlobStore interface {
	Write(ctx context.Context, bucket, object string, data []byte) error
	Read(ctx context.Context, bucket, object string) ([]byte, error)
}

// --- Identity Interfaces ---

type TokenVerifier interface {
	// VerifyIDToken validates a client ID token and returns the user ID.
	VerifyIDToken(ctx context.Context, idToken string) (string, error)
}
