package main

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	shared "github.com/brandonlee4284/liftx-server/pkg"
)

type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth verifies the Bearer ID token on every request and stores the
// resolved user ID in the request context. Handlers never trust a
// client-supplied user ID for writes.
func RequireAuth(verifier shared.TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			userID, err := verifier.VerifyIDToken(r.Context(), token)
			if err != nil {
				logger.Warn("Token verification failed", "error", err)
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user ID set by RequireAuth.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
