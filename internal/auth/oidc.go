package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/clay-auth/clay-auth/internal/config"
)

// OIDCProvider handles OpenID Connect logins (google, cognito, okta, slack, ...).
type OIDCProvider struct {
	base
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
	oauth2   oauth2.Config
}

// NewOIDCProvider creates a new OIDC provider. The issuer is discovered on creation.
func NewOIDCProvider(ctx context.Context, name string, cfg config.Provider) (*OIDCProvider, error) {
	b, err := newBase(name, TypeOIDC, cfg.Mapping)
	if err != nil {
		return nil, err
	}

	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider %s: %w", name, err)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	return &OIDCProvider{
		base:     b,
		provider: provider,
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauth2: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     provider.Endpoint(),
			Scopes:       scopes,
		},
	}, nil
}

// AuthCodeURL returns the OIDC authorization URL with state token and PKCE challenge.
func (p *OIDCProvider) AuthCodeURL(state, verifier, redirectURL string) string {
	c := p.config(redirectURL)

	return c.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// Exchange exchanges the code, verifies the ID token and returns its claims.
// When the claims lack the mapped username the userinfo endpoint is consulted.
func (p *OIDCProvider) Exchange(ctx context.Context, code, verifier, redirectURL string) (Profile, error) {
	c := p.config(redirectURL)

	token, err := c.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, ErrNoIDToken
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify ID token: %w", err)
	}

	profile := Profile{}
	if err = idToken.Claims(&profile); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}

	if _, ok := profile.Lookup(p.mapping.Username); !ok {
		p.mergeUserInfo(ctx, token, profile)
	}

	return profile, nil
}

// mergeUserInfo adds userinfo claims missing from profile.
func (p *OIDCProvider) mergeUserInfo(ctx context.Context, token *oauth2.Token, profile Profile) {
	info, err := p.provider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		log.Warn().Err(err).Str("provider", p.name).Msg("failed to fetch userinfo")
		return
	}

	var claims map[string]any
	if err := info.Claims(&claims); err != nil {
		log.Warn().Err(err).Str("provider", p.name).Msg("failed to parse userinfo")
		return
	}

	for k, v := range claims {
		if _, ok := profile[k]; !ok {
			profile[k] = v
		}
	}
}

func (p *OIDCProvider) config(redirectURL string) oauth2.Config {
	c := p.oauth2
	c.RedirectURL = redirectURL

	return c
}
