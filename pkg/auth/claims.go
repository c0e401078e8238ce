// Package auth provides JWT-based authentication for ekaya-blueprint.
// It validates bearer tokens issued by the identity provider using JWKS
// endpoints. The token subject is the owner of every project a request
// touches.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClaimsKey is the context key for storing JWT claims.
	ClaimsKey contextKey = "claims"
	// TokenKey is the context key for storing the raw JWT token string.
	TokenKey contextKey = "token"
)

// Claims represents the JWT claims accepted by the service.
// It embeds RegisteredClaims for standard JWT fields (sub, iss, aud, exp, etc.).
type Claims struct {
	jwt.RegisteredClaims
	Email string   `json:"email,omitempty"` // User email address
	Name  string   `json:"name,omitempty"`  // Display name
	Roles []string `json:"roles,omitempty"`
}

// GetClaims retrieves JWT claims from the request context.
// Returns nil and false if claims are not present.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}

// GetToken retrieves the raw JWT token string from the request context.
// Returns empty string and false if token is not present.
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}

// WithClaims returns a copy of ctx carrying claims and the raw token.
func WithClaims(ctx context.Context, claims *Claims, token string) context.Context {
	ctx = context.WithValue(ctx, ClaimsKey, claims)
	return context.WithValue(ctx, TokenKey, token)
}
