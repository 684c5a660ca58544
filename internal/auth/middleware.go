package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	apperrors "edushare/internal/errors"
)

type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

type errorResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Middleware rejects requests without a valid bearer token and stores the
// verified identity in the request context.
func Middleware(verifier Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeUnauthorized(w, "No token provided", logger)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if token == "" {
				writeUnauthorized(w, "No token provided", logger)
				return
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				if _, ok := apperrors.IsUnauthorizedError(err); ok {
					writeUnauthorized(w, "Invalid token", logger)
					return
				}
				logger.Warn("token verification failed", zap.Error(err))
				writeUnauthorized(w, "Authentication failed", logger)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), *identity)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(errorResponse{Success: false, Code: "UNAUTHORIZED", Message: message}); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}
