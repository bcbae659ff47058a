// Package handlertest runs handlers against in-memory stores for tests.
package handlertest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/clay-auth/clay-auth/internal/auth"
	"github.com/clay-auth/clay-auth/internal/bus/bustest"
	"github.com/clay-auth/clay-auth/internal/config"
	"github.com/clay-auth/clay-auth/internal/db/kv"
	"github.com/clay-auth/clay-auth/internal/db/models"
	"github.com/clay-auth/clay-auth/internal/db/rdb/rdbtest"
	"github.com/clay-auth/clay-auth/internal/site"
	"github.com/clay-auth/clay-auth/internal/users"
	"github.com/clay-auth/clay-auth/internal/web/handler"
	authmw "github.com/clay-auth/clay-auth/internal/web/middleware/auth"
	sitemw "github.com/clay-auth/clay-auth/internal/web/middleware/site"
	"github.com/clay-auth/clay-auth/internal/web/responses"
	"github.com/clay-auth/clay-auth/internal/web/session"
)

// AccessKey is the master api key of the test config.
const AccessKey = "test-access-key"

const loginPath = "/_test/login"

// Views is a minimal Fiber Views engine.
// It writes the "error" field of the provided fiber.Map if set, the template name otherwise.
type Views struct{}

// Load implements fiber.Views.
func (Views) Load() error { return nil }

// Render implements fiber.Views.
func (Views) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	if m, ok := data.(fiber.Map); ok {
		if v, ok := m["error"].(string); ok && v != "" {
			_, _ = io.WriteString(w, v)

			return nil
		}
	}

	_, _ = io.WriteString(w, name)

	return nil
}

// Config returns a config with one root site on example.com enabling providers.
func Config(providers ...string) *config.Config {
	return &config.Config{
		DevMode: true,
		Title:   "clay",
		APIKey:  config.APIKey{Mode: auth.APIKeyModeMaster, AccessKey: AccessKey},
		Sites: []config.Site{
			{Slug: "example", Host: "example.com", Providers: providers},
		},
	}
}

// Env is a fiber app with handlers mounted like in production.
type Env struct {
	t      *testing.T
	App    *fiber.App
	Deps   *handler.Deps
	Bus    *bustest.Recorder
	cookie *http.Cookie
}

// New mounts services for every site path of cfg.
func New(t *testing.T, cfg *config.Config, providers *auth.Registry, services ...handler.Service) *Env {
	t.Helper()

	var (
		rec      = &bustest.Recorder{}
		repo     = users.NewRepository(kv.NewRedis(rdbtest.New(), ""))
		sessions = session.New(nil, cfg.Session, cfg.DevMode)
		sites    = make([]site.Site, 0, len(cfg.Sites))
	)

	for _, sc := range cfg.Sites {
		sites = append(sites, site.New(sc, 80))
	}

	resolver := site.NewResolver(sites)
	mw := authmw.New(sessions, repo, auth.NewAPIKeyVerifier(cfg.APIKey, repo))

	deps := &handler.Deps{
		Config:     cfg,
		Sessions:   sessions,
		Users:      users.NewService(repo, rec),
		Providers:  providers,
		Reconciler: auth.NewReconciler(repo),
		Auth:       mw,
	}

	app := fiber.New(fiber.Config{Views: Views{}, ErrorHandler: responses.ErrorHandler})
	app.Use(sitemw.New(resolver))
	app.Get(loginPath, func(c *fiber.Ctx) error {
		_, err := sessions.Login(c, c.Query("uid"))

		return err //nolint:wrapcheck
	})
	app.Use(mw.Deserialize, mw.Protect)

	for _, prefix := range resolver.RoutePrefixes() {
		router := app.Group(prefix)

		for _, svc := range services {
			require.NoError(t, svc.Init(router, prefix, deps))
		}
	}

	return &Env{t: t, App: app, Deps: deps, Bus: rec}
}

// Request is a test request against host example.com.
type Request struct {
	Method string
	Path   string
	Body   string
	Header map[string]string
}

// Do sends req with the session cookie of previous responses.
func (e *Env) Do(req Request) (*http.Response, string) {
	e.t.Helper()

	if req.Method == "" {
		req.Method = http.MethodGet
	}

	var body io.Reader
	if req.Body != "" {
		body = strings.NewReader(req.Body)
	}

	r := httptest.NewRequest(req.Method, "http://example.com"+req.Path, body)
	for k, v := range req.Header {
		r.Header.Set(k, v)
	}

	if e.cookie != nil {
		r.AddCookie(e.cookie)
	}

	resp, err := e.App.Test(r, -1)
	require.NoError(e.t, err)

	defer func() { _ = resp.Body.Close() }()

	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			e.cookie = c
		}
	}

	b, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)

	return resp, string(b)
}

// Get is a shortcut for a GET request.
func (e *Env) Get(path string) (*http.Response, string) {
	e.t.Helper()

	return e.Do(Request{Path: path})
}

// AddUser stores u.
func (e *Env) AddUser(u *models.User) string {
	e.t.Helper()

	key, err := e.Deps.Users.Repository().Put(context.Background(), u)
	require.NoError(e.t, err)

	return key
}

// LoginAs stores u and establishes a session for it.
func (e *Env) LoginAs(u *models.User) {
	e.t.Helper()

	key := e.AddUser(u)

	resp, _ := e.Get(loginPath + "?uid=" + key)
	require.Equal(e.t, fiber.StatusOK, resp.StatusCode)
}

// ClearSession forgets the session cookie.
func (e *Env) ClearSession() {
	e.cookie = nil
}

// APIKeyHeader returns the Authorization header of the master api key.
func APIKeyHeader() map[string]string {
	return map[string]string{fiber.HeaderAuthorization: "Token " + AccessKey}
}
