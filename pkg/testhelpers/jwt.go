// Package testhelpers provides utilities for testing ekaya-blueprint components.
package testhelpers

import (
	"encoding/base64"
	"fmt"
)

// TestAudience is the aud claim GenerateTestJWT stamps on every token.
const TestAudience = "blueprint"

// GenerateTestJWT creates a test JWT token for use when verification is disabled.
// The token has a valid structure but no signature (alg: none).
// The subject becomes the owner of any project created with the token.
func GenerateTestJWT(sub, email string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))

	payload := fmt.Sprintf(`{"aud":%q`, TestAudience)
	if sub != "" {
		payload += fmt.Sprintf(`,"sub":%q`, sub)
	}
	if email != "" {
		payload += fmt.Sprintf(`,"email":%q`, email)
	}
	payload += "}"

	encodedPayload := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return fmt.Sprintf("%s.%s.", header, encodedPayload)
}

// GenerateTestJWTWithBearer returns token with "Bearer " prefix for Authorization header.
func GenerateTestJWTWithBearer(sub, email string) string {
	return "Bearer " + GenerateTestJWT(sub, email)
}
