package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	shared "github.com/brandonlee4284/liftx-server/pkg"
	"github.com/brandonlee4284/liftx-server/pkg/bootstrap"
	infrapubsub "github.com/brandonlee4284/liftx-server/pkg/infrastructure/pubsub"
	"github.com/brandonlee4284/liftx-server/pkg/types"
)

// maxLeaderboardUsers caps how many display scores one listing fetches.
const maxLeaderboardUsers = 50

type Handlers struct {
	Svc    *bootstrap.Service
	Logger *slog.Logger
}

type logWorkoutRequest struct {
	Exercises []types.LoggedExercise `json:"exercises"`
}

type logWorkoutResponse struct {
	Status    string   `json:"status"`
	Unmodeled []string `json:"unmodeled,omitempty"`
}

// LogWorkout accepts a workout log and publishes it to the score pipeline.
// Unmodeled exercises are accepted (they still show in the client's workout
// history) but reported back so the client can warn the user they won't be
// scored.
func (h *Handlers) LogWorkout(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	var req logWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Exercises) == 0 {
		http.Error(w, "no exercises logged", http.StatusBadRequest)
		return
	}
	for _, ex := range req.Exercises {
		if ex.Name == "" || ex.Sets < 1 || ex.Reps < 1 || ex.WeightLb < 0 {
			http.Error(w, "exercise entries need a name, sets >= 1, reps >= 1 and weight >= 0", http.StatusBadRequest)
			return
		}
	}

	var unmodeled []string
	for _, ex := range req.Exercises {
		if !h.Svc.Model.Has(ex.Name) {
			unmodeled = append(unmodeled, ex.Name)
		}
	}

	evt := types.WorkoutLoggedEvent{
		UserID:    userID,
		LoggedAt:  time.Now().UTC().Format(time.RFC3339),
		Exercises: req.Exercises,
	}
	if err := h.publishWorkoutEvent(r, evt); err != nil {
		h.Logger.Error("Failed to publish workout event", "user_id", userID, "error", err)
		http.Error(w, "failed to queue workout", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusAccepted, logWorkoutResponse{
		Status:    "accepted",
		Unmodeled: unmodeled,
	})
}

type demographicsRequest struct {
	BodyweightLb float64 `json:"bodyweight_lb"`
	AgeYears     float64 `json:"age_years"`
	Gender       string  `json:"gender"`
}

// UpdateDemographics persists the user's demographics and queues a score
// recomputation, since the rolling aggregates should refresh after a
// bodyweight or age edit.
func (h *Handlers) UpdateDemographics(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	var req demographicsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	gender, ok := types.ParseGender(req.Gender)
	if !ok {
		http.Error(w, "gender must be male or female", http.StatusBadRequest)
		return
	}
	if req.BodyweightLb <= 0 || req.AgeYears <= 0 {
		http.Error(w, "bodyweight and age must be positive", http.StatusBadRequest)
		return
	}

	d := &types.Demographics{
		BodyweightLb: req.BodyweightLb,
		AgeYears:     req.AgeYears,
		Gender:       gender,
	}
	if err := h.Svc.DB.SetDemographics(r.Context(), userID, d); err != nil {
		h.Logger.Error("Failed to save demographics", "user_id", userID, "error", err)
		http.Error(w, "failed to save demographics", http.StatusInternalServerError)
		return
	}

	evt := types.WorkoutLoggedEvent{
		UserID:        userID,
		LoggedAt:      time.Now().UTC().Format(time.RFC3339),
		RecomputeOnly: true,
	}
	if err := h.publishWorkoutEvent(r, evt); err != nil {
		// Demographics are saved; the refresh will happen on the next logged
		// workout. Surface nothing worse than a log line.
		h.Logger.Warn("Failed to queue score recompute", "user_id", userID, "error", err)
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetDisplayScore returns a user's public display scores.
func (h *Handlers) GetDisplayScore(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	score, err := h.Svc.DB.GetDisplayScore(r.Context(), userID)
	if err != nil {
		if errors.Is(err, types.ErrMissingData) {
			http.Error(w, "no scores for user", http.StatusNotFound)
			return
		}
		h.Logger.Error("Failed to read display score", "user_id", userID, "error", err)
		http.Error(w, "failed to read scores", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, score)
}

// Leaderboard returns display scores for the requested users, sorted by
// overall score descending. The client passes its friend list; friend-graph
// bookkeeping lives elsewhere.
func (h *Handlers) Leaderboard(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("users")
	if raw == "" {
		http.Error(w, "users query parameter required", http.StatusBadRequest)
		return
	}
	userIDs := strings.Split(raw, ",")
	if len(userIDs) > maxLeaderboardUsers {
		userIDs = userIDs[:maxLeaderboardUsers]
	}

	scores, err := h.Svc.DB.ListDisplayScores(r.Context(), userIDs)
	if err != nil {
		h.Logger.Error("Failed to list display scores", "error", err)
		http.Error(w, "failed to read scores", http.StatusInternalServerError)
		return
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Overall() > scores[j].Overall()
	})

	writeJSON(w, http.StatusOK, scores)
}

func (h *Handlers) publishWorkoutEvent(r *http.Request, evt types.WorkoutLoggedEvent) error {
	ce, err := infrapubsub.NewCloudEvent(infrapubsub.EventSourceAPI, infrapubsub.EventTypeWorkoutLogged, evt)
	if err != nil {
		return err
	}
	_, err = h.Svc.Pub.PublishCloudEvent(r.Context(), shared.TopicWorkoutLogged, ce)
	return err
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
