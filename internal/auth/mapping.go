package auth

import (
	"dario.cat/mergo"

	"github.com/clay-auth/clay-auth/internal/config"
)

// Provider types.
const (
	TypeOIDC   = "oidc"
	TypeOAuth2 = "oauth2"
	TypeLDAP   = "ldap"
	TypeLocal  = "local"
	TypeAPIKey = "apikey"
)

//nolint:gochecknoglobals
var (
	namedMappings = map[string]config.Mapping{
		"google":  {Username: "email", ImageURL: "picture", Name: "name"},
		"cognito": {Username: "email", ImageURL: "picture", Name: "preferred_username"},
		"okta":    {Username: "email", Name: "name"},
		"slack":   {Username: "email", ImageURL: "picture", Name: "name"},
		"twitter": {Username: "data.username", ImageURL: "data.profile_image_url", Name: "data.name"},
	}

	typeMappings = map[string]config.Mapping{
		TypeOIDC:   {Username: "email", ImageURL: "picture", Name: "name"},
		TypeOAuth2: {Username: "username", ImageURL: "picture", Name: "name"},
		TypeLDAP:   {Username: "sAMAccountName", Name: "displayName"},
		TypeLocal:  {Username: "username", Password: "password"},
	}
)

// MappingFor fills the empty fields of m with the defaults of the provider name, then of its type.
func MappingFor(name, providerType string, m config.Mapping) (config.Mapping, error) {
	if d, ok := namedMappings[name]; ok {
		if err := mergo.Merge(&m, d); err != nil {
			return m, err //nolint:wrapcheck
		}
	}

	if d, ok := typeMappings[providerType]; ok {
		if err := mergo.Merge(&m, d); err != nil {
			return m, err //nolint:wrapcheck
		}
	}

	return m, nil
}
