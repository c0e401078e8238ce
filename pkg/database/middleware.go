package database

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/auth"
)

// WithOwnerContext creates middleware that sets up an owner-scoped DB connection.
// It runs AFTER auth middleware and uses the subject of the JWT claims as owner id.
// The connection is automatically cleaned up after the handler returns.
func WithOwnerContext(db *DB, logger *zap.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.GetClaims(r.Context())
			if !ok || claims.Subject == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
				return
			}

			scope, err := db.WithOwner(r.Context(), claims.Subject)
			if err != nil {
				logger.Error("Failed to acquire owner connection",
					zap.String("owner_id", claims.Subject),
					zap.Error(err))
				writeError(w, http.StatusInternalServerError, "database_error", "Database connection error")
				return
			}
			defer scope.Close()

			ctx := SetOwnerScope(r.Context(), scope)
			next(w, r.WithContext(ctx))
		}
	}
}

// writeError writes a JSON error response in the API envelope.
func writeError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
		"code":    errorCode,
	})
}
