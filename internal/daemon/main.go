// Package daemon wires the stores, providers and the web service.
package daemon

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/clay-auth/clay-auth/internal/auth"
	"github.com/clay-auth/clay-auth/internal/config"
	"github.com/clay-auth/clay-auth/internal/site"
	"github.com/clay-auth/clay-auth/internal/web"
	"github.com/clay-auth/clay-auth/internal/web/handler"
	authmw "github.com/clay-auth/clay-auth/internal/web/middleware/auth"
	"github.com/clay-auth/clay-auth/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	*Stores
	webService *web.Service
}

// Start runs the web service until shutdown and releases the stores afterwards.
func (d *Daemon) Start() error {
	defer d.Close()

	return d.webService.Start() //nolint:wrapcheck
}

// New creates a new Daemon instance with the provided configuration.
// ctx has to outlive the daemon, oidc providers refresh their keys with it.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	stores, err := OpenStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	d := &Daemon{Stores: stores}

	if d.webService, err = d.init(ctx, cfg); err != nil {
		d.Close()

		return nil, err
	}

	return d, nil
}

func (d *Daemon) init(ctx context.Context, cfg *config.Config) (*web.Service, error) {
	storage, err := session.NewStorage(cfg, d.Client)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	registry, err := auth.NewRegistry(ctx, cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to set up auth providers: %w", err)
	}

	sites := make([]site.Site, 0, len(cfg.Sites))

	for _, sc := range cfg.Sites {
		if err := registry.Check(sc.Providers); err != nil {
			return nil, fmt.Errorf("site %s: %w", sc.Slug, err)
		}

		sites = append(sites, site.New(sc, cfg.Webserver.Port))
	}

	checkLDAP(registry)

	userService := d.Users()
	repo := userService.Repository()

	if err := seed(ctx, cfg.Seed, userService); err != nil {
		return nil, err
	}

	sessions := session.New(storage, cfg.Session, cfg.DevMode)

	deps := &handler.Deps{
		Config:     cfg,
		Sessions:   sessions,
		Users:      userService,
		Providers:  registry,
		Reconciler: auth.NewReconciler(repo),
		Auth:       authmw.New(sessions, repo, auth.NewAPIKeyVerifier(cfg.APIKey, repo)),
	}

	return web.New(cfg, deps, site.NewResolver(sites)) //nolint:wrapcheck
}

// checkLDAP logs unreachable directories. Logins against them fail until they are back.
func checkLDAP(registry *auth.Registry) {
	for _, name := range registry.Names() {
		p, _ := registry.Get(name)

		ldapProvider, ok := p.(*auth.LDAPProvider)
		if !ok {
			continue
		}

		if err := ldapProvider.TestConnection(); err != nil {
			log.Warn().Err(err).Str("provider", name).Str("url", ldapProvider.URL()).Msg("LDAP connection test failed")

			continue
		}

		log.Info().Str("provider", name).Str("url", ldapProvider.URL()).Msg("LDAP connection test succeeded")
	}
}
