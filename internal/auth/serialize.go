package auth

import (
	"context"
	"errors"

	"github.com/clay-auth/clay-auth/internal/db/models"
	"github.com/clay-auth/clay-auth/internal/users"
)

// Serialize returns the session identity of u.
func Serialize(u *models.User) string {
	return users.DeriveKey(u.Username, u.Provider)
}

// Deserialize reads the record of a session identity from the store on every call.
func Deserialize(ctx context.Context, repo *users.Repository, uid string) (*models.User, error) {
	u, err := repo.Get(ctx, uid)
	if errors.Is(err, users.ErrNotFound) {
		return nil, ErrUserNotFound
	}

	return u, err //nolint:wrapcheck
}
