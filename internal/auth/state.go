package auth

import (
	"crypto/rand"
	"encoding/base64"

	"golang.org/x/oauth2"
)

const stateTokenLen = 32

// GenerateStateToken generates a random state token for CSRF protection.
func GenerateStateToken() (string, error) {
	b := make([]byte, stateTokenLen)
	if _, err := rand.Read(b); err != nil {
		return "", err //nolint:wrapcheck
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateVerifier generates a PKCE code verifier.
func GenerateVerifier() string {
	return oauth2.GenerateVerifier()
}
