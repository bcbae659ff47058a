package auth

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/clay-auth/clay-auth/internal/config"
)

// Registry holds the configured providers by name.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry builds every provider of cfg. OIDC issuers are discovered here.
func NewRegistry(ctx context.Context, cfg config.Auth) (*Registry, error) {
	r := &Registry{providers: make(map[string]Provider, len(cfg.Providers))}

	for name, pc := range cfg.Providers {
		p, err := newProvider(ctx, name, pc)
		if err != nil {
			return nil, err
		}

		r.providers[name] = p

		log.Debug().Str("provider", name).Str("type", p.Type()).Msg("auth provider registered")
	}

	return r, nil
}

// NewRegistryOf returns a registry of already built providers.
func NewRegistryOf(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}

	return r
}

func newProvider(ctx context.Context, name string, pc config.Provider) (Provider, error) {
	switch pc.Type {
	case TypeOIDC:
		return NewOIDCProvider(ctx, name, pc)
	case TypeOAuth2:
		return NewOAuth2Provider(name, pc)
	case TypeLDAP:
		return NewLDAPProvider(name, pc.LDAP, pc.Mapping)
	case TypeLocal:
		return NewLocalProvider(name, pc.Mapping)
	default:
		return nil, fmt.Errorf("provider %s: %w %q", name, ErrUnsupportedProviderType, pc.Type)
	}
}

// Get returns the provider called name.
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[name]

	return p, ok
}

// Names returns the sorted provider names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for n := range r.providers {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

// Check returns an *UnknownProviderError for the first name without a provider.
// The api key provider is always available.
func (r *Registry) Check(names []string) error {
	for _, n := range names {
		if n == TypeAPIKey {
			continue
		}

		if _, ok := r.providers[n]; !ok {
			return &UnknownProviderError{Name: n}
		}
	}

	return nil
}
