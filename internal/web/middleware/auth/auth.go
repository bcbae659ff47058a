package auth

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/clay-auth/clay-auth/internal/auth"
	"github.com/clay-auth/clay-auth/internal/db/models"
	"github.com/clay-auth/clay-auth/internal/site"
	"github.com/clay-auth/clay-auth/internal/users"
	sitemw "github.com/clay-auth/clay-auth/internal/web/middleware/site"
	"github.com/clay-auth/clay-auth/internal/web/responses"
	"github.com/clay-auth/clay-auth/internal/web/session"
)

// LocalUser is the Locals key holding the current *models.User.
const LocalUser = "user"

// Middleware authenticates requests.
type Middleware struct {
	sessions *session.Manager
	repo     *users.Repository
	apikeys  *auth.APIKeyVerifier
}

// New returns the auth middleware.
func New(sessions *session.Manager, repo *users.Repository, apikeys *auth.APIKeyVerifier) *Middleware {
	return &Middleware{
		sessions: sessions,
		repo:     repo,
		apikeys:  apikeys,
	}
}

// Deserialize loads the session user. A session whose user can not be loaded is
// destroyed and the request redirected to the login page.
func (m *Middleware) Deserialize(c *fiber.Ctx) error {
	uid, err := m.sessions.UID(c)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	if uid == "" {
		return c.Next()
	}

	user, err := auth.Deserialize(c.UserContext(), m.repo, uid)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			log.Info().Str("uid", uid).Msg("session user no longer exists, logging out")
		} else {
			log.Error().Err(err).Str("uid", uid).Msg("failed to load session user, logging out")
		}

		if errLogout := m.sessions.Logout(c); errLogout != nil {
			return fmt.Errorf("failed to destroy session: %w", errLogout)
		}

		return redirectToLogin(c)
	}

	c.Locals(LocalUser, user)

	if err := m.sessions.Touch(c); err != nil {
		log.Warn().Err(err).Msg("failed to refresh session")
	}

	return c.Next()
}

// Protect authenticates protected requests and passes the rest.
func (m *Middleware) Protect(c *fiber.Ctx) error {
	if !auth.IsProtectedRoute(c.Method(), c.OriginalURL(), c.Query("edit") != "") {
		return c.Next()
	}

	return m.IsAuthenticated(c)
}

// IsAuthenticated requires a session user or a valid api key.
// Requests without either are redirected to the login page, failed api keys get 401.
func (m *Middleware) IsAuthenticated(c *fiber.Ctx) error {
	if CurrentUser(c) != nil {
		return c.Next()
	}

	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		return m.authenticateAPIKey(c, header)
	}

	if err := m.sessions.SetReturnTo(c, c.OriginalURL()); err != nil {
		return fmt.Errorf("failed to store return url: %w", err)
	}

	return redirectToLogin(c)
}

func (m *Middleware) authenticateAPIKey(c *fiber.Ctx, header string) error {
	var (
		user *models.User
		err  = auth.ErrInvalidAPIKey
	)

	if token, ok := auth.TokenFromHeader(header); ok {
		user, err = m.apikeys.Verify(c.UserContext(), token)
	}

	auth.RecordLogin(auth.TypeAPIKey, err)

	if errors.Is(err, auth.ErrInvalidAPIKey) {
		log.Info().Str("path", c.Path()).Msg("api key rejected")

		return responses.Unauthorized(c)
	}

	if err != nil {
		return err
	}

	c.Locals(LocalUser, user)

	return c.Next()
}

// WithAuthLevel allows users whose level satisfies level.
// A user without level is a server error, insufficient levels get 401.
func WithAuthLevel(level string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var userLevel string
		if u := CurrentUser(c); u != nil {
			userLevel = u.Auth
		}

		allowed, err := auth.Allowed(userLevel, level)
		if err != nil {
			return fmt.Errorf("%s %s: %w", c.Method(), c.Path(), err)
		}

		if !allowed {
			return responses.Unauthorized(c)
		}

		return c.Next()
	}
}

// CurrentUser returns the authenticated user of the request or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(LocalUser).(*models.User)

	return u
}

func redirectToLogin(c *fiber.Ctx) error {
	s, ok := sitemw.From(c)
	if !ok {
		return fiber.ErrNotFound
	}

	return c.Redirect(site.LoginURL(s))
}
