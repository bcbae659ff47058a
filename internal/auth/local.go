package auth

import (
	"context"

	"github.com/clay-auth/clay-auth/internal/config"
)

// LocalProvider handles username and password logins against the stored password hash.
// The password check itself happens during reconciliation.
type LocalProvider struct {
	base
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(name string, m config.Mapping) (*LocalProvider, error) {
	b, err := newBase(name, TypeLocal, m)
	if err != nil {
		return nil, err
	}

	return &LocalProvider{base: b}, nil
}

// Authenticate returns the submitted credentials as profile.
func (p *LocalProvider) Authenticate(_ context.Context, username, password string) (Profile, error) {
	return Profile{
		p.mapping.Username: username,
		p.mapping.Password: password,
	}, nil
}
