package database

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	storage "github.com/brandonlee4284/liftx-server/pkg/storage/firestore"
	"github.com/brandonlee4284/liftx-server/pkg/types"
)

// FirestoreAdapter provides database operations using Firestore.
// It wraps our typed storage client and maps store failures onto the domain
// error taxonomy: NotFound becomes ErrMissingData, anything else becomes
// ErrStoreUnavailable.
type FirestoreAdapter struct {
	Client  *firestore.Client
	storage *storage.Client
}

func NewFirestoreAdapter(client *firestore.Client) *FirestoreAdapter {
	return &FirestoreAdapter{
		Client:  client,
		storage: storage.NewClient(client),
	}
}

func (a *FirestoreAdapter) SetExecution(ctx context.Context, record *types.ExecutionRecord) error {
	return a.storage.Executions().Doc(record.ExecutionID).Set(ctx, record)
}

func (a *FirestoreAdapter) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	return a.storage.Executions().Doc(id).Update(ctx, data)
}

func (a *FirestoreAdapter) GetDemographics(ctx context.Context, userID string) (*types.Demographics, error) {
	doc, err := a.storage.Demographics(userID).Get(ctx)
	if err != nil {
		return nil, mapStoreErr("demographics", userID, err)
	}
	return doc, nil
}

func (a *FirestoreAdapter) SetDemographics(ctx context.Context, userID string, d *types.Demographics) error {
	if err := a.storage.Demographics(userID).Set(ctx, d); err != nil {
		return mapStoreErr("demographics", userID, err)
	}
	return nil
}

func (a *FirestoreAdapter) GetWorkout(ctx context.Context, userID string) (*types.WorkoutDoc, error) {
	doc, err := a.storage.Workout(userID).Get(ctx)
	if err != nil {
		return nil, mapStoreErr("workout", userID, err)
	}
	return doc, nil
}

// UpdateWorkout runs mutate inside a Firestore transaction so that two
// concurrent pipeline runs for the same user cannot silently clobber each
// other's read-modify-write. An absent document is materialized as an empty
// one; a mutate error aborts the transaction with nothing written.
func (a *FirestoreAdapter) UpdateWorkout(ctx context.Context, userID string, mutate func(*types.WorkoutDoc) error) error {
	ref := a.storage.Workout(userID)
	err := a.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := ref.GetTx(tx)
		if err != nil {
			if status.Code(err) != codes.NotFound {
				return err
			}
			doc = &types.WorkoutDoc{Exercises: make(map[string]*types.ExerciseStat)}
		}
		if err := mutate(doc); err != nil {
			return err
		}
		return ref.SetTx(tx, doc)
	})
	if err != nil {
		// Domain errors raised by mutate pass through untouched.
		if errors.Is(err, types.ErrMissingData) || errors.Is(err, types.ErrInvalidInput) {
			return err
		}
		return mapStoreErr("workout", userID, err)
	}
	return nil
}

func (a *FirestoreAdapter) GetDisplayScore(ctx context.Context, userID string) (*types.DisplayScore, error) {
	doc, err := a.storage.DisplayScore(userID).Get(ctx)
	if err != nil {
		return nil, mapStoreErr("display score", userID, err)
	}
	return doc, nil
}

func (a *FirestoreAdapter) SetDisplayScore(ctx context.Context, userID string, s *types.DisplayScore) error {
	if err := a.storage.DisplayScore(userID).Set(ctx, s); err != nil {
		return mapStoreErr("display score", userID, err)
	}
	return nil
}

// ListDisplayScores fetches the public display documents for a set of users.
// Users without a synchronized score yet are skipped rather than failing the
// whole listing.
func (a *FirestoreAdapter) ListDisplayScores(ctx context.Context, userIDs []string) ([]*types.DisplayScore, error) {
	out := make([]*types.DisplayScore, 0, len(userIDs))
	for _, id := range userIDs {
		doc, err := a.GetDisplayScore(ctx, id)
		if err != nil {
			if errors.Is(err, types.ErrMissingData) {
				continue
			}
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func mapStoreErr(what, userID string, err error) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s for user %s: %w", what, userID, types.ErrMissingData)
	}
	return fmt.Errorf("%s for user %s: %w: %v", what, userID, types.ErrStoreUnavailable, err)
}
