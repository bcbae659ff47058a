package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrNoIDToken is returned when the OAuth2 token response doesn't contain an ID token.
	// This typically indicates a misconfigured OIDC provider or an incomplete authentication flow.
	ErrNoIDToken = errors.New("no id_token in token response")

	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserNotFound is returned when no user record exists for the identity.
	ErrUserNotFound = errors.New("user not found")

	// ErrMultipleUsersFound is returned when a query expected one user but found multiple.
	// This typically indicates a misconfigured LDAP filter or duplicate entries.
	ErrMultipleUsersFound = errors.New("multiple users found")

	// ErrMissingCredentials is returned when a login form lacks the username or the password.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrMissingUsername is returned when the provider profile lacks the mapped username field.
	ErrMissingUsername = errors.New("provider hasn't given a username")

	// ErrNoAuthLevel is returned when an authenticated user has no authorization level.
	ErrNoAuthLevel = errors.New("user has no auth level")

	// ErrUnknownProvider is returned for a provider name without configuration.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrUnsupportedProviderType is returned for an unknown provider type.
	ErrUnsupportedProviderType = errors.New("unsupported provider type")

	// ErrInvalidAPIKey is returned when an api key doesn't resolve to an identity.
	ErrInvalidAPIKey = errors.New("invalid api key")

	// ErrInvalidState is returned when the oauth state of a callback doesn't match the session.
	ErrInvalidState = errors.New("invalid oauth state")

	// ErrMissingCode is returned when an oauth callback has no authorization code.
	ErrMissingCode = errors.New("missing authorization code")

	// ErrIncompleteOAuth2Config is returned when an oauth2 provider lacks one of its urls.
	ErrIncompleteOAuth2Config = errors.New("oauth2 provider requires AuthURL, TokenURL and UserInfoURL")

	// ErrUserInfo is returned when the userinfo endpoint answers with an error status.
	ErrUserInfo = errors.New("userinfo request failed")
)

// MissingUsernameError names the profile field that was expected to hold the username.
type MissingUsernameError struct {
	Field string
}

func (e *MissingUsernameError) Error() string {
	return fmt.Sprintf("Provider hasn't given a username at %s", e.Field)
}

// Is makes errors.Is(err, ErrMissingUsername) match.
func (e *MissingUsernameError) Is(target error) bool {
	return target == ErrMissingUsername
}

// UnknownProviderError names a site provider without configuration.
type UnknownProviderError struct {
	Name string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("Unknown provider: %s!", e.Name)
}

// Is makes errors.Is(err, ErrUnknownProvider) match.
func (e *UnknownProviderError) Is(target error) bool {
	return target == ErrUnknownProvider
}
