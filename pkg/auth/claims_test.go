package auth

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestGetClaims_Missing(t *testing.T) {
	claims, ok := GetClaims(context.Background())
	if ok || claims != nil {
		t.Errorf("expected no claims, got %v", claims)
	}

	token, ok := GetToken(context.Background())
	if ok || token != "" {
		t.Errorf("expected no token, got %q", token)
	}
}

func TestWithClaims(t *testing.T) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
		Email:            "user@example.com",
	}

	ctx := WithClaims(context.Background(), claims, "raw-token")

	got, ok := GetClaims(ctx)
	if !ok || got != claims {
		t.Fatalf("expected stored claims, got %v", got)
	}
	token, ok := GetToken(ctx)
	if !ok || token != "raw-token" {
		t.Errorf("expected raw-token, got %q", token)
	}
}
