package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/brandonlee4284/liftx-server/pkg/types"
)

// --- Mock Database ---

type MockDatabase struct {
	SetExecutionFunc      func(ctx context.Context, record *types.ExecutionRecord) error
	UpdateExecutionFunc   func(ctx context.Context, id string, data map[string]interface{}) error
	GetDemographicsFunc   func(ctx context.Context, userID string) (*types.Demographics, error)
	SetDemographicsFunc   func(ctx context.Context, userID string, d *types.Demographics) error
	GetWorkoutFunc        func(ctx context.Context, userID string) (*types.WorkoutDoc, error)
	UpdateWorkoutFunc     func(ctx context.Context, userID string, mutate func(*types.WorkoutDoc) error) error
	GetDisplayScoreFunc   func(ctx context.Context, userID string) (*types.DisplayScore, error)
	SetDisplayScoreFunc   func(ctx context.Context, userID string, s *types.DisplayScore) error
	ListDisplayScoresFunc func(ctx context.Context, userIDs []string) ([]*types.DisplayScore, error)
}

func (m *MockDatabase) SetExecution(ctx context.Context, record *types.ExecutionRecord) error {
	if m.SetExecutionFunc != nil {
		return m.SetExecutionFunc(ctx, record)
	}
	return nil
}

func (m *MockDatabase) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	if m.UpdateExecutionFunc != nil {
		return m.UpdateExecutionFunc(ctx, id, data)
	}
	return nil
}

func (m *MockDatabase) GetDemographics(ctx context.Context, userID string) (*types.Demographics, error) {
	if m.GetDemographicsFunc != nil {
		return m.GetDemographicsFunc(ctx, userID)
	}
	return nil, fmt.Errorf("demographics for user %s: %w", userID, types.ErrMissingData)
}

func (m *MockDatabase) SetDemographics(ctx context.Context, userID string, d *types.Demographics) error {
	if m.SetDemographicsFunc != nil {
		return m.SetDemographicsFunc(ctx, userID, d)
	}
	return nil
}

func (m *MockDatabase) GetWorkout(ctx context.Context, userID string) (*types.WorkoutDoc, error) {
	if m.GetWorkoutFunc != nil {
		return m.GetWorkoutFunc(ctx, userID)
	}
	return nil, fmt.Errorf("workout for user %s: %w", userID, types.ErrMissingData)
}

func (m *MockDatabase) UpdateWorkout(ctx context.Context, userID string, mutate func(*types.WorkoutDoc) error) error {
	if m.UpdateWorkoutFunc != nil {
		return m.UpdateWorkoutFunc(ctx, userID, mutate)
	}
	return nil
}

func (m *MockDatabase) GetDisplayScore(ctx context.Context, userID string) (*types.DisplayScore, error) {
	if m.GetDisplayScoreFunc != nil {
		return m.GetDisplayScoreFunc(ctx, userID)
	}
	return nil, fmt.Errorf("display score for user %s: %w", userID, types.ErrMissingData)
}

func (m *MockDatabase) SetDisplayScore(ctx context.Context, userID string, s *types.DisplayScore) error {
	if m.SetDisplayScoreFunc != nil {
		return m.SetDisplayScoreFunc(ctx, userID, s)
	}
	return nil
}

func (m *MockDatabase) ListDisplayScores(ctx context.Context, userIDs []string) ([]*types.DisplayScore, error) {
	if m.ListDisplayScoresFunc != nil {
		return m.ListDisplayScoresFunc(ctx, userIDs)
	}
	return nil, nil
}

// --- In-memory Database ---

// InMemoryDatabase implements the Database port over maps, with the same
// semantics the Firestore adapter provides: absent documents surface as
// ErrMissingData, UpdateWorkout materializes an empty document and persists
// nothing when mutate errors.
type InMemoryDatabase struct {
	mu            sync.Mutex
	Executions    map[string]*types.ExecutionRecord
	Demographics  map[string]*types.Demographics
	Workouts      map[string]*types.WorkoutDoc
	DisplayScores map[string]*types.DisplayScore
}

func NewInMemoryDatabase() *InMemoryDatabase {
	return &InMemoryDatabase{
		Executions:    make(map[string]*types.ExecutionRecord),
		Demographics:  make(map[string]*types.Demographics),
		Workouts:      make(map[string]*types.WorkoutDoc),
		DisplayScores: make(map[string]*types.DisplayScore),
	}
}

func (db *InMemoryDatabase) SetExecution(ctx context.Context, record *types.ExecutionRecord) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.Executions[record.ExecutionID] = record
	return nil
}

func (db *InMemoryDatabase) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	record, ok := db.Executions[id]
	if !ok {
		return fmt.Errorf("execution %s: %w", id, types.ErrMissingData)
	}
	if s, ok := data["status"].(string); ok {
		record.Status = types.ExecutionStatus(s)
	}
	if msg, ok := data["error_message"].(string); ok {
		record.ErrorMessage = msg
	}
	return nil
}

func (db *InMemoryDatabase) GetDemographics(ctx context.Context, userID string) (*types.Demographics, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	d, ok := db.Demographics[userID]
	if !ok {
		return nil, fmt.Errorf("demographics for user %s: %w", userID, types.ErrMissingData)
	}
	copied := *d
	return &copied, nil
}

func (db *InMemoryDatabase) SetDemographics(ctx context.Context, userID string, d *types.Demographics) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	copied := *d
	db.Demographics[userID] = &copied
	return nil
}

func (db *InMemoryDatabase) GetWorkout(ctx context.Context, userID string) (*types.WorkoutDoc, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	w, ok := db.Workouts[userID]
	if !ok {
		return nil, fmt.Errorf("workout for user %s: %w", userID, types.ErrMissingData)
	}
	return copyWorkout(w), nil
}

func (db *InMemoryDatabase) UpdateWorkout(ctx context.Context, userID string, mutate func(*types.WorkoutDoc) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	var working *types.WorkoutDoc
	if w, ok := db.Workouts[userID]; ok {
		working = copyWorkout(w)
	} else {
		working = &types.WorkoutDoc{Exercises: make(map[string]*types.ExerciseStat)}
	}
	if err := mutate(working); err != nil {
		return err
	}
	db.Workouts[userID] = working
	return nil
}

func (db *InMemoryDatabase) GetDisplayScore(ctx context.Context, userID string) (*types.DisplayScore, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	s, ok := db.DisplayScores[userID]
	if !ok {
		return nil, fmt.Errorf("display score for user %s: %w", userID, types.ErrMissingData)
	}
	copied := *s
	return &copied, nil
}

func (db *InMemoryDatabase) SetDisplayScore(ctx context.Context, userID string, s *types.DisplayScore) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	copied := *s
	db.DisplayScores[userID] = &copied
	return nil
}

func (db *InMemoryDatabase) ListDisplayScores(ctx context.Context, userIDs []string) ([]*types.DisplayScore, error) {
	out := make([]*types.DisplayScore, 0, len(userIDs))
	for _, id := range userIDs {
		s, err := db.GetDisplayScore(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func copyWorkout(w *types.WorkoutDoc) *types.WorkoutDoc {
	out := &types.WorkoutDoc{
		Exercises: make(map[string]*types.ExerciseStat, len(w.Exercises)),
		UpdatedAt: w.UpdatedAt,
	}
	for name, stat := range w.Exercises {
		copied := *stat
		copied.TotalSets = append([]time.Time(nil), stat.TotalSets...)
		out.Exercises[name] = &copied
	}
	if w.Overall != nil {
		out.Overall = make(map[string]types.CategoryScore, len(w.Overall))
		for k, v := range w.Overall {
			out.Overall[k] = v
		}
	}
	return out
}

// --- Mock Publisher ---

type MockPublisher struct {
	PublishCloudEventFunc func(ctx context.Context, topic string, e event.Event) (string, error)

	mu        sync.Mutex
	Published []event.Event
}

func (m *MockPublisher) PublishCloudEvent(ctx context.Context, topic string, e event.Event) (string, error) {
	m.mu.Lock()
	m.Published = append(m.Published, e)
	m.mu.Unlock()
	if m.PublishCloudEventFunc != nil {
		return m.PublishCloudEventFunc(ctx, topic, e)
	}
	return "msg-id", nil
}

// --- Mock Storage ---

type MockBlobStore struct {
	WriteFunc func(ctx context.Context, bucket, object string, data []byte) error
	ReadFunc  func(ctx context.Context, bucket, object string) ([]byte, error)
}

func (m *MockBlobStore) Write(ctx context.Context, bucket, object string, data []byte) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, bucket, object, data)
	}
	return nil
}

func (m *MockBlobStore) Read(ctx context.Context, bucket, object string) ([]byte, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(ctx, bucket, object)
	}
	return []byte("mock-data"), nil
}

// --- Mock Token Verifier ---

type MockTokenVerifier struct {
	VerifyIDTokenFunc func(ctx context.Context, idToken string) (string, error)
}

func (m *MockTokenVerifier) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	if m.VerifyIDTokenFunc != nil {
		return m.VerifyIDTokenFunc(ctx, idToken)
	}
	return "mock-user", nil
}
