package login

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/clay-auth/clay-auth/internal/auth"
	"github.com/clay-auth/clay-auth/internal/site"
	"github.com/clay-auth/clay-auth/internal/web/handler"
	authmw "github.com/clay-auth/clay-auth/internal/web/middleware/auth"
	sitemw "github.com/clay-auth/clay-auth/internal/web/middleware/site"
	"github.com/clay-auth/clay-auth/internal/web/responses"
)

const (
	// Path is the path to the login page below the site path.
	Path = handler.AuthPath + "/login"

	// Template is the name of the login page template.
	Template = "login"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(router fiber.Router, path string, deps *handler.Deps) error {
	if router == nil || deps == nil {
		return handler.ErrNilDeps
	}

	s.deps = deps

	router.Get(Path, sitemw.RequirePath(path), s.Get)

	return nil
}

// Get renders the login page. Right after a denied login it answers with a
// basic auth challenge instead.
func (s *Service) Get(c *fiber.Ctx) error {
	st, ok := sitemw.From(c)
	if !ok {
		return ErrNoSite
	}

	flash, err := s.deps.Sessions.PopFlash(c)
	if err != nil {
		return fmt.Errorf("failed to read flash message: %w", err)
	}

	if strings.Contains(flash, handler.MsgInvalidCredentials) {
		return responses.BasicChallenge(c, handler.RealmIncorrectCredentials)
	}

	authURL := site.AuthURL(st)

	return c.Render(Template, fiber.Map{
		"title":        s.deps.Config.Title,
		"site":         st,
		"providers":    site.Providers(st),
		"local":        st.HasProvider(auth.TypeLocal),
		"local_action": authURL + "/" + auth.TypeLocal,
		"logout_url":   authURL + "/logout",
		"user":         authmw.CurrentUser(c),
		"error":        flash,
	})
}
