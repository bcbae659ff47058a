package strategy

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/clay-auth/clay-auth/internal/auth"
	"github.com/clay-auth/clay-auth/internal/db/models"
	"github.com/clay-auth/clay-auth/internal/site"
	"github.com/clay-auth/clay-auth/internal/web/handler"
	authmw "github.com/clay-auth/clay-auth/internal/web/middleware/auth"
	sitemw "github.com/clay-auth/clay-auth/internal/web/middleware/site"
	"github.com/clay-auth/clay-auth/internal/web/responses"
)

const (
	// Path is the login route of a provider below the site path.
	Path = handler.AuthPath + "/:provider"

	// CallbackPath receives the authorization code of redirect providers.
	CallbackPath = Path + "/callback"

	// MsgAuthorizationFailed is flashed when a redirect login can't be completed.
	MsgAuthorizationFailed = "Login failed, please try again"
)

// Service is the provider login handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the provider login handler.
var Handler = Service{}

// Init initializes the provider routes.
func (s *Service) Init(router fiber.Router, path string, deps *handler.Deps) error {
	if router == nil || deps == nil {
		return handler.ErrNilDeps
	}

	s.deps = deps
	only := sitemw.RequirePath(path)

	router.Get(CallbackPath, only, s.Callback)
	router.Post(CallbackPath, only, s.Callback)
	router.Get(Path, only, s.Begin)
	router.Post(Path, only, s.Credentials)

	return nil
}

// Begin starts a login. Redirect providers send the browser to the
// authorization server, credential providers require basic auth.
func (s *Service) Begin(c *fiber.Ctx) error {
	st, p, err := s.provider(c)
	if err != nil {
		return err
	}

	switch p := p.(type) {
	case auth.RedirectProvider:
		state, err := auth.GenerateStateToken()
		if err != nil {
			return fmt.Errorf("failed to generate state token: %w", err)
		}

		verifier := auth.GenerateVerifier()

		if err := s.deps.Sessions.SetOAuth(c, state, verifier); err != nil {
			return fmt.Errorf("failed to store oauth state: %w", err)
		}

		return c.Redirect(p.AuthCodeURL(state, verifier, site.CallbackURL(st, p.Name())))
	case auth.CredentialProvider:
		username, password, ok := basicCredentials(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return responses.BasicChallenge(c, site.StrategyName(p.Name(), st))
		}

		profile, err := p.Authenticate(c.UserContext(), username, password)

		return s.finish(c, st, p, profile, err)
	}

	return fiber.ErrNotFound
}

// Credentials handles the username and password form of credential providers.
func (s *Service) Credentials(c *fiber.Ctx) error {
	st, p, err := s.provider(c)
	if err != nil {
		return err
	}

	cp, ok := p.(auth.CredentialProvider)
	if !ok {
		return fiber.ErrMethodNotAllowed
	}

	username, password := c.FormValue("username"), c.FormValue("password")
	if username == "" || password == "" {
		return s.finish(c, st, p, nil, auth.ErrMissingCredentials)
	}

	profile, err := cp.Authenticate(c.UserContext(), username, password)

	return s.finish(c, st, p, profile, err)
}

// Callback completes a redirect login.
func (s *Service) Callback(c *fiber.Ctx) error {
	st, p, err := s.provider(c)
	if err != nil {
		return err
	}

	rp, ok := p.(auth.RedirectProvider)
	if !ok {
		return fiber.ErrNotFound
	}

	state, verifier, err := s.deps.Sessions.PopOAuth(c)
	if err != nil {
		return fmt.Errorf("failed to read oauth state: %w", err)
	}

	strategy := site.StrategyName(p.Name(), st)

	if idpErr := param(c, "error"); idpErr != "" {
		log.Info().Str("strategy", strategy).Str("error", idpErr).
			Str("description", param(c, "error_description")).Msg("authorization denied by provider")

		return s.fail(c, st, strategy, MsgAuthorizationFailed)
	}

	if state == "" || subtle.ConstantTimeCompare([]byte(param(c, "state")), []byte(state)) != 1 {
		auth.RecordLogin(strategy, auth.ErrInvalidState)
		log.Warn().Str("strategy", strategy).Err(auth.ErrInvalidState).Msg("login denied")

		return s.fail(c, st, strategy, MsgAuthorizationFailed)
	}

	code := param(c, "code")
	if code == "" {
		auth.RecordLogin(strategy, auth.ErrMissingCode)
		log.Warn().Str("strategy", strategy).Err(auth.ErrMissingCode).Msg("login denied")

		return s.fail(c, st, strategy, MsgAuthorizationFailed)
	}

	profile, err := rp.Exchange(c.UserContext(), code, verifier, site.CallbackURL(st, p.Name()))

	return s.finish(c, st, p, profile, err)
}

// finish reconciles profile and establishes the session.
func (s *Service) finish(c *fiber.Ctx, st site.Site, p auth.Provider, profile auth.Profile, err error) error {
	strategy := site.StrategyName(p.Name(), st)

	var u *models.User
	if err == nil {
		u, err = s.deps.Reconciler.Reconcile(c.UserContext(), p.Name(), p.Mapping(), authmw.CurrentUser(c), profile)
	}

	auth.RecordLogin(strategy, err)

	if auth.IsSoftFailure(err) {
		log.Info().Str("strategy", strategy).Str("outcome", auth.Outcome(err)).Msg("login denied")

		return s.fail(c, st, strategy, handler.MsgInvalidCredentials)
	}

	if err != nil {
		return fmt.Errorf("%s: %w", strategy, err)
	}

	returnTo, err := s.deps.Sessions.Login(c, auth.Serialize(u))
	if err != nil {
		return fmt.Errorf("failed to establish session: %w", err)
	}

	if returnTo == "" {
		returnTo = site.PathOrBase(st)
	}

	log.Info().Str("strategy", strategy).Str("user", u.Username).Str("auth", u.Auth).Msg("login")

	return c.Redirect(returnTo)
}

func (s *Service) fail(c *fiber.Ctx, st site.Site, strategy, msg string) error {
	if err := s.deps.Sessions.Flash(c, msg); err != nil {
		return fmt.Errorf("%s: failed to store flash message: %w", strategy, err)
	}

	return c.Redirect(site.LoginURL(st))
}

// provider returns the provider of the route if the site enables it.
func (s *Service) provider(c *fiber.Ctx) (site.Site, auth.Provider, error) {
	st, ok := sitemw.From(c)
	if !ok {
		return site.Site{}, nil, fiber.ErrNotFound
	}

	name := c.Params("provider")
	if name == auth.TypeAPIKey || !st.HasProvider(name) {
		return st, nil, fiber.ErrNotFound
	}

	p, ok := s.deps.Providers.Get(name)
	if !ok {
		return st, nil, fiber.ErrNotFound
	}

	return st, p, nil
}

func param(c *fiber.Ctx, key string) string {
	if v := c.Query(key); v != "" {
		return v
	}

	return c.FormValue(key)
}

// basicCredentials decodes a "Basic" Authorization header value.
func basicCredentials(header string) (string, string, bool) {
	const scheme = "Basic "

	if len(header) <= len(scheme) || !strings.EqualFold(header[:len(scheme)], scheme) {
		return "", "", false
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(header[len(scheme):]))
	if err != nil {
		return "", "", false
	}

	username, password, ok := strings.Cut(string(raw), ":")

	return username, password, ok && username != ""
}
