// Package user serves the users REST api of a site.
package user

import (
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/clay-auth/clay-auth/internal/db/models"
	"github.com/clay-auth/clay-auth/internal/users"
	"github.com/clay-auth/clay-auth/internal/web/handler"
	authmw "github.com/clay-auth/clay-auth/internal/web/middleware/auth"
	sitemw "github.com/clay-auth/clay-auth/internal/web/middleware/site"
	"github.com/clay-auth/clay-auth/internal/web/responses"
)

const (
	// CollectionPath lists and creates users.
	CollectionPath = handler.UsersPath + handler.RouterRootPath

	// ItemPath reads, replaces and deletes a single user.
	ItemPath = handler.UsersPath + "/:name"

	// MsgTrailingSlash rejects ids followed by a slash.
	MsgTrailingSlash = "Trailing slash on RESTful id in URL is not acceptable"

	allowCollection = "GET, POST"
	allowItem       = "GET, PUT, DELETE"
)

// Service is the users api handler service.
type Service struct {
	handler.Service
	deps *handler.Deps
}

// Handler is the users api handler.
var Handler = Service{}

// Init registers the users api routes.
func (s *Service) Init(router fiber.Router, sitePath string, deps *handler.Deps) error {
	if router == nil || deps == nil {
		return handler.ErrNilDeps
	}

	s.deps = deps

	var (
		only    = sitemw.RequirePath(sitePath)
		authn   = deps.Auth.IsAuthenticated
		admin   = authmw.WithAuthLevel(models.AuthAdmin)
		collect = []fiber.Handler{only, vary, acceptJSON}
		item    = []fiber.Handler{only, vary, noTrailingSlash, acceptJSON}
	)

	router.Get(CollectionPath, with(collect, authn, admin, s.List)...)
	router.Post(CollectionPath, with(collect, authn, admin, s.Create)...)
	router.All(CollectionPath, only, vary, methodNotAllowed(allowCollection))

	router.Get(ItemPath, with(item, authn, s.Get)...)
	router.Put(ItemPath, with(item, authn, admin, s.Replace)...)
	router.Delete(ItemPath, with(item, authn, admin, s.Delete)...)
	router.All(ItemPath, only, vary, noTrailingSlash, methodNotAllowed(allowItem))

	return nil
}

// List returns the uris of all users.
func (s *Service) List(c *fiber.Ctx) error {
	st, ok := sitemw.From(c)
	if !ok {
		return fiber.ErrNotFound
	}

	uris, err := s.deps.Users.List(c.UserContext(), st.Prefix())
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(uris)
}

// Create stores a new user. A generated api key is only returned here.
func (s *Service) Create(c *fiber.Ctx) error {
	p, err := users.DecodePayload(c.Body())
	if err != nil {
		return err //nolint:wrapcheck
	}

	u, err := s.deps.Users.Save(c.UserContext(), p)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if st, ok := sitemw.From(c); ok {
		c.Location(st.Path + u.Ref)
	}

	return c.Status(fiber.StatusCreated).JSON(u)
}

// Get returns a user without password and api key hashes.
func (s *Service) Get(c *fiber.Ctx) error {
	u, err := s.deps.Users.Get(c.UserContext(), c.Params("name"))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(u)
}

// Replace creates or replaces the user of the url.
func (s *Service) Replace(c *fiber.Ctx) error {
	p, err := users.DecodePayload(c.Body())
	if err != nil {
		return err //nolint:wrapcheck
	}

	u, err := s.deps.Users.Replace(c.UserContext(), c.Params("name"), p)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(u)
}

// Delete removes a user and returns the removed record.
func (s *Service) Delete(c *fiber.Ctx) error {
	u, err := s.deps.Users.Delete(c.UserContext(), c.Params("name"))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(u)
}

func with(chain []fiber.Handler, handlers ...fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(chain)+len(handlers))
	out = append(out, chain...)

	return append(out, handlers...)
}

// vary marks responses as negotiated unless the url names a file.
func vary(c *fiber.Ctx) error {
	if path.Ext(c.Path()) == "" {
		c.Vary(fiber.HeaderAccept)
	}

	return c.Next()
}

func acceptJSON(c *fiber.Ctx) error {
	if c.Accepts(fiber.MIMEApplicationJSON) == "" {
		c.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)

		return fiber.ErrNotAcceptable
	}

	return c.Next()
}

func noTrailingSlash(c *fiber.Ctx) error {
	if strings.HasSuffix(c.Path(), "/") {
		return responses.NewClientError(MsgTrailingSlash)
	}

	return c.Next()
}

func methodNotAllowed(allow string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAllow, allow)

		return fiber.ErrMethodNotAllowed
	}
}
