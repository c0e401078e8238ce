package auth

import (
	"context"
	"fmt"

	"github.com/ekaya-inc/ekaya-blueprint/pkg/apperrors"
)

// GetUserIDFromContext extracts the user ID from JWT claims in the context.
// Returns empty string if not authenticated or claims are missing.
func GetUserIDFromContext(ctx context.Context) string {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return ""
	}
	return claims.Subject
}

// RequireUserIDFromContext extracts the user ID from context and returns an error if not found.
// The user ID is the owner id of every project the caller can see.
func RequireUserIDFromContext(ctx context.Context) (string, error) {
	userID := GetUserIDFromContext(ctx)
	if userID == "" {
		return "", fmt.Errorf("%w: user ID not found in context", apperrors.ErrUnauthenticated)
	}
	return userID, nil
}

// GetEmailFromContext returns the caller's email claim, if any.
func GetEmailFromContext(ctx context.Context) string {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return ""
	}
	return claims.Email
}
