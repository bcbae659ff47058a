package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/clay-auth/clay-auth/internal/config"
	"github.com/clay-auth/clay-auth/internal/db/models"
	"github.com/clay-auth/clay-auth/internal/users"
)

// API key modes.
const (
	// APIKeyModeMaster accepts the single configured access key.
	APIKeyModeMaster = "master"
	// APIKeyModeUser accepts "<user key>.<secret>" tokens checked against the user's hash.
	APIKeyModeUser = "user"
)

// APIKeyUsername is the username of the identity resolved from the master key.
const APIKeyUsername = "apikey"

var authorizationSchemes = []string{"Token ", "Bearer "} //nolint:gochecknoglobals

// TokenFromHeader extracts the api key of an Authorization header value.
func TokenFromHeader(header string) (string, bool) {
	for _, scheme := range authorizationSchemes {
		if len(header) > len(scheme) && strings.EqualFold(header[:len(scheme)], scheme) {
			token := strings.TrimSpace(header[len(scheme):])

			return token, token != ""
		}
	}

	return "", false
}

// APIKeyVerifier resolves api keys to ephemeral identities.
type APIKeyVerifier struct {
	mode      string
	accessKey string
	disabled  bool
	repo      *users.Repository
}

// NewAPIKeyVerifier returns a verifier for cfg. repo is only used in user mode.
func NewAPIKeyVerifier(cfg config.APIKey, repo *users.Repository) *APIKeyVerifier {
	return &APIKeyVerifier{
		mode:      cfg.Mode,
		accessKey: cfg.AccessKey,
		disabled:  cfg.DisableGlobal,
		repo:      repo,
	}
}

// Verify returns the identity of token or ErrInvalidAPIKey.
func (v *APIKeyVerifier) Verify(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrInvalidAPIKey
	}

	if v.mode == APIKeyModeUser {
		return v.verifyUserKey(ctx, token)
	}

	if v.disabled || v.accessKey == "" {
		return nil, ErrInvalidAPIKey
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(v.accessKey)) != 1 {
		return nil, ErrInvalidAPIKey
	}

	return &models.User{Username: APIKeyUsername, Provider: TypeAPIKey, Auth: models.AuthAdmin}, nil
}

func (v *APIKeyVerifier) verifyUserKey(ctx context.Context, token string) (*models.User, error) {
	key, secret, ok := strings.Cut(token, ".")
	if !ok || key == "" || secret == "" {
		return nil, ErrInvalidAPIKey
	}

	u, err := v.repo.Get(ctx, key)
	if errors.Is(err, users.ErrNotFound) {
		return nil, ErrInvalidAPIKey
	}

	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if !u.VerifyAPIKey(secret) {
		return nil, ErrInvalidAPIKey
	}

	return u, nil
}
