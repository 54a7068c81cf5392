package firestore

import (
	"cloud.google.com/go/firestore"

	shared "github.com/brandonlee4284/liftx-server/pkg"
	"github.com/brandonlee4284/liftx-server/pkg/types"
)

type Client struct {
	fs *firestore.Client
}

func NewClient(client *firestore.Client) *Client {
	return &Client{fs: client}
}

func (c *Client) Close() error {
	return c.fs.Close()
}

// Demographics lives in the private partition: users/{uid}/private/demographics
func (c *Client) Demographics(userID string) *DocumentRef[types.Demographics] {
	return &DocumentRef[types.Demographics]{
		Ref:           c.privateDoc(userID, shared.DocDemographics),
		ToFirestore:   DemographicsToFirestore,
		FromFirestore: FirestoreToDemographics,
	}
}

// Workout is the private stats document: users/{uid}/private/workout
func (c *Client) Workout(userID string) *DocumentRef[types.WorkoutDoc] {
	return &DocumentRef[types.WorkoutDoc]{
		Ref:           c.privateDoc(userID, shared.DocWorkout),
		ToFirestore:   WorkoutToFirestore,
		FromFirestore: FirestoreToWorkout,
	}
}

// DisplayScore is the world-readable partition: users/{uid}/public/display
// Written only by the score synchronizer.
func (c *Client) DisplayScore(userID string) *DocumentRef[types.DisplayScore] {
	return &DocumentRef[types.DisplayScore]{
		Ref:           c.fs.Collection(shared.CollectionUsers).Doc(userID).Collection(shared.SubcollectionPublic).Doc(shared.DocDisplay),
		ToFirestore:   DisplayScoreToFirestore,
		FromFirestore: FirestoreToDisplayScore,
	}
}

func (c *Client) Executions() *Collection[types.ExecutionRecord] {
	return &Collection[types.ExecutionRecord]{
		Ref:           c.fs.Collection(shared.CollectionExecutions),
		ToFirestore:   ExecutionToFirestore,
		FromFirestore: FirestoreToExecution,
	}
}

func (c *Client) privateDoc(userID, doc string) *firestore.DocumentRef {
	return c.fs.Collection(shared.CollectionUsers).Doc(userID).Collection(shared.SubcollectionPrivate).Doc(doc)
}
