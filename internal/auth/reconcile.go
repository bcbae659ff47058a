package auth

import (
	"context"
	"errors"
	"fmt"

	"dario.cat/mergo"
	"github.com/rs/zerolog/log"

	"github.com/clay-auth/clay-auth/internal/config"
	"github.com/clay-auth/clay-auth/internal/db/models"
	"github.com/clay-auth/clay-auth/internal/users"
)

// Reconciler turns provider profiles into persisted user records.
type Reconciler struct {
	repo *users.Repository
}

// NewReconciler returns a reconciler over repo.
func NewReconciler(repo *users.Repository) *Reconciler {
	return &Reconciler{repo: repo}
}

// Reconcile authenticates profile from provider against the stored record.
//
// Without a session user the record is fetched, its empty image url and name are
// filled from the profile and it is written back before the password is checked.
// With a session user the record is only fetched and checked.
//
// A missing username in profile is a *MissingUsernameError. Soft failures are
// ErrUserNotFound and ErrInvalidPassword, anything else is a store error.
//
// Two first logins of the same identity race: both may miss the record and the
// last write wins.
func (r *Reconciler) Reconcile(
	ctx context.Context,
	provider string,
	mapping config.Mapping,
	sessionUser *models.User,
	profile Profile,
) (*models.User, error) {
	username, ok := profile.Lookup(mapping.Username)
	if !ok {
		return nil, &MissingUsernameError{Field: mapping.Username}
	}

	key := users.DeriveKey(username, provider)

	if sessionUser != nil {
		u, err := r.fetch(ctx, key)
		if err != nil {
			return nil, err
		}

		return checkPassword(u, mapping, profile)
	}

	u, err := r.fetch(ctx, key)

	switch {
	case errors.Is(err, ErrUserNotFound) && mapping.AutoCreate:
		u = &models.User{Username: username, Provider: provider, Auth: mapping.DefaultAuth}

		log.Info().Str("user", username).Str("provider", provider).Str("auth", u.Auth).
			Msg("creating user on first login")
	case err != nil:
		return nil, err
	}

	if err := mergo.Merge(u, models.User{
		ImageURL: profile.String(mapping.ImageURL),
		Name:     profile.String(mapping.Name),
	}); err != nil {
		return nil, fmt.Errorf("failed to merge profile of %s: %w", username, err)
	}

	if _, err := r.repo.Put(ctx, u); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return checkPassword(u, mapping, profile)
}

func (r *Reconciler) fetch(ctx context.Context, key string) (*models.User, error) {
	u, err := r.repo.Get(ctx, key)
	if errors.Is(err, users.ErrNotFound) {
		return nil, ErrUserNotFound
	}

	return u, err //nolint:wrapcheck
}

// checkPassword verifies the mapped profile password against the stored hash.
// Mappings without a password field skip the check.
func checkPassword(u *models.User, mapping config.Mapping, profile Profile) (*models.User, error) {
	if mapping.Password == "" {
		return u, nil
	}

	if !u.VerifyPassword(profile.String(mapping.Password)) {
		return nil, ErrInvalidPassword
	}

	return u, nil
}
