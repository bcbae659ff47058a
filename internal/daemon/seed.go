package daemon

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/clay-auth/clay-auth/internal/auth"
	"github.com/clay-auth/clay-auth/internal/config"
	"github.com/clay-auth/clay-auth/internal/db/models"
	"github.com/clay-auth/clay-auth/internal/users"
)

// seed creates the configured initial user unless it exists. A local user
// without password could never log in and is skipped.
func seed(ctx context.Context, s config.Seed, svc *users.Service) error {
	if s.Username == "" {
		return nil
	}

	if s.Provider == "" {
		s.Provider = auth.TypeLocal
	}

	if s.Auth == "" {
		s.Auth = models.AuthAdmin
	}

	if s.Provider == auth.TypeLocal && s.Password == "" {
		log.Warn().Str("user", s.Username).Msg("seed user has no password, set [Seed] Password or CLAY_SEED_PASSWORD")

		return nil
	}

	exists, err := svc.Exists(ctx, s.Username, s.Provider)
	if err != nil {
		return fmt.Errorf("failed to look up seed user: %w", err)
	}

	if exists {
		log.Debug().Str("user", s.Username).Str("provider", s.Provider).Msg("seed user exists")

		return nil
	}

	if _, err := svc.Save(ctx, &users.Payload{
		Username: s.Username,
		Provider: s.Provider,
		Auth:     s.Auth,
		Password: s.Password,
	}); err != nil {
		return fmt.Errorf("failed to seed user %s: %w", s.Username, err)
	}

	log.Info().Str("user", s.Username).Str("provider", s.Provider).Str("auth", s.Auth).Msg("seeded initial user")

	return nil
}
