package logout

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/clay-auth/clay-auth/internal/site"
	"github.com/clay-auth/clay-auth/internal/web/handler"
	authmw "github.com/clay-auth/clay-auth/internal/web/middleware/auth"
	sitemw "github.com/clay-auth/clay-auth/internal/web/middleware/site"
)

// Path is the path of the logout route below the site path.
const Path = handler.AuthPath + "/logout"

// Service is the logout handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(router fiber.Router, path string, deps *handler.Deps) error {
	if router == nil || deps == nil {
		return handler.ErrNilDeps
	}

	s.deps = deps

	router.Get(Path, sitemw.RequirePath(path), s.Logout)

	return nil
}

// Logout destroys the session and redirects to the login page of the site.
func (s *Service) Logout(c *fiber.Ctx) error {
	st, ok := sitemw.From(c)
	if !ok {
		return fiber.ErrNotFound
	}

	if u := authmw.CurrentUser(c); u != nil {
		log.Info().Str("user", u.Username).Str("provider", u.Provider).Msg("logout")
	}

	if err := s.deps.Sessions.Logout(c); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}

	return c.Redirect(site.LoginURL(st))
}
