package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clay-auth/clay-auth/internal/auth"
	"github.com/clay-auth/clay-auth/internal/config"
	"github.com/clay-auth/clay-auth/internal/users"
	authmw "github.com/clay-auth/clay-auth/internal/web/middleware/auth"
	"github.com/clay-auth/clay-auth/internal/web/session"
)

// Deps holds the collaborators shared by the web handlers.
type Deps struct {
	Config     *config.Config
	Sessions   *session.Manager
	Users      *users.Service
	Providers  *auth.Registry
	Reconciler *auth.Reconciler
	Auth       *authmw.Middleware
}

// Service is the interface for a web handler service.
type Service interface {
	// Init registers the routes of the sites mounted at path on router.
	Init(router fiber.Router, path string, deps *Deps) error
}
