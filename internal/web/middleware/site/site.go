// Package site resolves the site of every request.
package site

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clay-auth/clay-auth/internal/site"
)

// Locals keys.
const (
	// LocalSite holds the resolved site.Site.
	LocalSite = "currentSite"
	// LocalSlug holds the site slug as string, used by the access log.
	LocalSlug = "site"
)

// New returns a middleware resolving the site by host and path. Unknown sites are 404.
func New(r *site.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, ok := r.Resolve(c.Hostname(), c.Path())
		if !ok {
			return fiber.ErrNotFound
		}

		c.Locals(LocalSite, s)
		c.Locals(LocalSlug, s.Slug)

		return c.Next()
	}
}

// RequirePath rejects requests whose site is mounted at another path.
// Routes are registered once per path, sites of different hosts share them.
func RequirePath(path string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, ok := From(c)
		if !ok || s.Path != path {
			return fiber.ErrNotFound
		}

		return c.Next()
	}
}

// From returns the site of the request.
func From(c *fiber.Ctx) (site.Site, bool) {
	s, ok := c.Locals(LocalSite).(site.Site)

	return s, ok
}
