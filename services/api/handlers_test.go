package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandonlee4284/liftx-server/pkg/bootstrap"
	"github.com/brandonlee4284/liftx-server/pkg/model"
	"github.com/brandonlee4284/liftx-server/pkg/testing/mocks"
	"github.com/brandonlee4284/liftx-server/pkg/types"
)

type testAPI struct {
	router *chi.Mux
	db     *mocks.InMemoryDatabase
	pub    *mocks.MockPublisher
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	m, err := model.Load()
	require.NoError(t, err)

	db := mocks.NewInMemoryDatabase()
	pub := &mocks.MockPublisher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := &Handlers{
		Svc:    &bootstrap.Service{DB: db, Pub: pub, Model: m},
		Logger: logger,
	}
	verifier := &mocks.MockTokenVerifier{
		VerifyIDTokenFunc: func(ctx context.Context, idToken string) (string, error) {
			if idToken == "good-token" {
				return "user-1", nil
			}
			return "", fmt.Errorf("unknown token")
		},
	}

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Use(RequireAuth(verifier, logger))
		r.Post("/workouts", h.LogWorkout)
		r.Put("/me/demographics", h.UpdateDemographics)
		r.Get("/users/{userID}/score", h.GetDisplayScore)
		r.Get("/leaderboard", h.Leaderboard)
	})

	return &testAPI{router: r, db: db, pub: pub}
}

func (a *testAPI) do(method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func TestLogWorkout_PublishesEvent(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/v1/workouts",
		`{"exercises":[{"name":"bench press","sets":3,"reps":12,"weight":135}]}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp logWorkoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "accepted", resp.Status)
	assert.Empty(t, resp.Unmodeled)

	require.Len(t, api.pub.Published, 1)
	var evt types.WorkoutLoggedEvent
	require.NoError(t, json.Unmarshal(api.pub.Published[0].Data(), &evt))
	assert.Equal(t, "user-1", evt.UserID, "user ID comes from the verified token, not the body")
	assert.False(t, evt.RecomputeOnly)
	require.Len(t, evt.Exercises, 1)
	assert.Equal(t, 135.0, evt.Exercises[0].WeightLb)
}

func TestLogWorkout_ReportsUnmodeledExercises(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/v1/workouts",
		`{"exercises":[{"name":"hip thrust","sets":3,"reps":10,"weight":185},{"name":"squat","sets":3,"reps":5,"weight":225}]}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp logWorkoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"hip thrust"}, resp.Unmodeled)
	assert.Len(t, api.pub.Published, 1, "unmodeled exercises are still accepted and published")
}

func TestLogWorkout_Validation(t *testing.T) {
	api := newTestAPI(t)

	for name, body := range map[string]string{
		"empty batch":  `{"exercises":[]}`,
		"missing name": `{"exercises":[{"name":"","sets":3,"reps":10,"weight":100}]}`,
		"zero sets":    `{"exercises":[{"name":"squat","sets":0,"reps":10,"weight":100}]}`,
		"zero reps":    `{"exercises":[{"name":"squat","sets":3,"reps":0,"weight":100}]}`,
		"bad weight":   `{"exercises":[{"name":"squat","sets":3,"reps":10,"weight":-5}]}`,
		"malformed":    `{"exercises":`,
	} {
		rec := api.do(http.MethodPost, "/v1/workouts", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "case %q", name)
	}
	assert.Empty(t, api.pub.Published, "rejected requests publish nothing")
}

func TestLogWorkout_RequiresAuth(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/workouts", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/workouts", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer bad-token")
	rec = httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateDemographics(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPut, "/v1/me/demographics",
		`{"bodyweight_lb":180,"age_years":25,"gender":"male"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	d := api.db.Demographics["user-1"]
	require.NotNil(t, d)
	assert.Equal(t, 180.0, d.BodyweightLb)
	assert.Equal(t, types.GenderMale, d.Gender)

	require.Len(t, api.pub.Published, 1)
	var evt types.WorkoutLoggedEvent
	require.NoError(t, json.Unmarshal(api.pub.Published[0].Data(), &evt))
	assert.True(t, evt.RecomputeOnly, "a demographics edit queues a recompute")
}

func TestUpdateDemographics_Validation(t *testing.T) {
	api := newTestAPI(t)

	for name, body := range map[string]string{
		"bad gender":   `{"bodyweight_lb":180,"age_years":25,"gender":"other"}`,
		"zero weight":  `{"bodyweight_lb":0,"age_years":25,"gender":"male"}`,
		"negative age": `{"bodyweight_lb":180,"age_years":-1,"gender":"female"}`,
	} {
		rec := api.do(http.MethodPut, "/v1/me/demographics", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "case %q", name)
	}
}

func TestGetDisplayScore(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	require.NoError(t, api.db.SetDisplayScore(ctx, "user-2", &types.DisplayScore{
		UserID: "user-2",
		Scores: map[string]types.CategoryScore{
			types.CategoryOverall: {Score: 87.5, Change: 2.5},
		},
		SyncedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}))

	rec := api.do(http.MethodGet, "/v1/users/user-2/score", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got types.DisplayScore
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "user-2", got.UserID)
	assert.InDelta(t, 87.5, got.Overall(), 1e-9)

	rec = api.do(http.MethodGet, "/v1/users/nobody/score", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeaderboard_SortsByOverallDescending(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	for uid, score := range map[string]float64{"a": 50, "b": 90, "c": 70} {
		require.NoError(t, api.db.SetDisplayScore(ctx, uid, &types.DisplayScore{
			UserID: uid,
			Scores: map[string]types.CategoryScore{types.CategoryOverall: {Score: score}},
		}))
	}

	rec := api.do(http.MethodGet, "/v1/leaderboard?users=a,b,c,missing", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []*types.DisplayScore
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 3, "users without display scores are skipped")
	assert.Equal(t, "b", got[0].UserID)
	assert.Equal(t, "c", got[1].UserID)
	assert.Equal(t, "a", got[2].UserID)

	rec = api.do(http.MethodGet, "/v1/leaderboard", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
