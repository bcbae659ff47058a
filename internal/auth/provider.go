package auth

import (
	"context"

	"github.com/clay-auth/clay-auth/internal/config"
)

// Provider is a configured identity source.
type Provider interface {
	// Name is the configured provider name, also the provider of its user records.
	Name() string
	// Type is one of the Type constants.
	Type() string
	// Mapping maps profile fields to user record fields.
	Mapping() config.Mapping
}

// CredentialProvider resolves a profile from a username and password.
type CredentialProvider interface {
	Provider
	Authenticate(ctx context.Context, username, password string) (Profile, error)
}

// RedirectProvider resolves a profile by redirecting to an authorization server.
type RedirectProvider interface {
	Provider
	// AuthCodeURL returns the authorization url for state and the PKCE verifier.
	AuthCodeURL(state, verifier, redirectURL string) string
	// Exchange trades the callback code for the user's profile.
	Exchange(ctx context.Context, code, verifier, redirectURL string) (Profile, error)
}

type base struct {
	name    string
	typ     string
	mapping config.Mapping
}

func newBase(name, typ string, m config.Mapping) (base, error) {
	mapping, err := MappingFor(name, typ, m)
	if err != nil {
		return base{}, err
	}

	return base{name: name, typ: typ, mapping: mapping}, nil
}

func (b base) Name() string            { return b.name }
func (b base) Type() string            { return b.typ }
func (b base) Mapping() config.Mapping { return b.mapping }
