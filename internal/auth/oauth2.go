package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"

	"github.com/clay-auth/clay-auth/internal/config"
	"github.com/clay-auth/clay-auth/internal/logger/adapter/stdlogger"
)

const userInfoTimeout = 10 * time.Second

// OAuth2Provider handles plain OAuth2 logins whose profile comes from a userinfo url (twitter, ...).
type OAuth2Provider struct {
	base
	oauth2      oauth2.Config
	userInfoURL string
	client      *resty.Client
}

// NewOAuth2Provider creates a new OAuth2 provider.
func NewOAuth2Provider(name string, cfg config.Provider) (*OAuth2Provider, error) {
	if cfg.AuthURL == "" || cfg.TokenURL == "" || cfg.UserInfoURL == "" {
		return nil, fmt.Errorf("provider %s: %w", name, ErrIncompleteOAuth2Config)
	}

	b, err := newBase(name, TypeOAuth2, cfg.Mapping)
	if err != nil {
		return nil, err
	}

	client := resty.New().
		SetTimeout(userInfoTimeout).
		SetLogger(stdlogger.New("resty")).
		SetHeader("Accept", "application/json")

	return &OAuth2Provider{
		base: b,
		oauth2: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     oauth2.Endpoint{AuthURL: cfg.AuthURL, TokenURL: cfg.TokenURL},
			Scopes:       cfg.Scopes,
		},
		userInfoURL: cfg.UserInfoURL,
		client:      client,
	}, nil
}

// AuthCodeURL returns the authorization URL with state token and PKCE challenge.
func (p *OAuth2Provider) AuthCodeURL(state, verifier, redirectURL string) string {
	c := p.config(redirectURL)

	return c.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

// Exchange exchanges the code and fetches the userinfo document as profile.
func (p *OAuth2Provider) Exchange(ctx context.Context, code, verifier, redirectURL string) (Profile, error) {
	c := p.config(redirectURL)

	token, err := c.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange token: %w", err)
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetAuthToken(token.AccessToken).
		Get(p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("%w: userinfo returned %s", ErrUserInfo, resp.Status())
	}

	profile := Profile{}
	if err := json.Unmarshal(resp.Body(), &profile); err != nil {
		return nil, fmt.Errorf("failed to parse userinfo: %w", err)
	}

	return profile, nil
}

func (p *OAuth2Provider) config(redirectURL string) oauth2.Config {
	c := p.oauth2
	c.RedirectURL = redirectURL

	return c
}
