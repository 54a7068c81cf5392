// The api service is the HTTP surface the mobile client talks to: logging
// workouts, editing demographics, and reading public display scores. Score
// computation itself happens asynchronously in the score-pipeline function,
// fed by events this service publishes.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/brandonlee4284/liftx-server/pkg/bootstrap"
	infrasentry "github.com/brandonlee4284/liftx-server/pkg/infrastructure/sentry"
)

func main() {
	ctx := context.Background()

	svc, err := bootstrap.NewService(ctx)
	if err != nil {
		slog.Error("Service init failed", "error", err)
		os.Exit(1)
	}

	logger := bootstrap.NewLogger("api")

	if err := infrasentry.Init(infrasentry.Config{
		DSN:         os.Getenv("SENTRY_DSN"),
		Environment: os.Getenv("SENTRY_ENVIRONMENT"),
		Release:     os.Getenv("SENTRY_RELEASE"),
		ServerName:  "api",
	}, logger); err != nil {
		logger.Warn("Sentry init failed, continuing without error tracking", "error", err)
	}
	defer infrasentry.Flush(2 * time.Second)

	h := &Handlers{Svc: svc, Logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(RequireAuth(svc.Auth, logger))
		r.Post("/workouts", h.LogWorkout)
		r.Put("/me/demographics", h.UpdateDemographics)
		r.Get("/users/{userID}/score", h.GetDisplayScore)
		r.Get("/leaderboard", h.Leaderboard)
	})

	addr := ":" + svc.Config.Port
	logger.Info("API listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
