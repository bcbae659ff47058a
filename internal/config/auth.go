package config

// Mapping declares which profile fields feed a user record.
type Mapping struct {
	Username string
	ImageURL string
	Name     string
	Password string

	// AutoCreate creates a missing user record on first login instead of rejecting it.
	AutoCreate  bool
	DefaultAuth string
}

// LDAP holds LDAP/Active Directory settings.
type LDAP struct {
	Host         string
	Port         int
	UseSSL       bool
	UseTLS       bool
	SkipVerify   bool
	BindDN       string
	BindPassword string
	BaseDN       string
	UserFilter   string // e.g. "(sAMAccountName={username})"
	Attributes   []string
	Timeout      int
}

// Provider configures a single identity provider.
type Provider struct {
	Type string // oidc, oauth2, ldap or local

	// oidc and oauth2
	IssuerURL    string
	ClientID     string
	ClientSecret string
	Scopes       []string

	// oauth2 only
	AuthURL     string
	TokenURL    string
	UserInfoURL string

	LDAP    LDAP
	Mapping Mapping
}

// Auth holds the configured identity providers keyed by provider name.
type Auth struct {
	Providers map[string]Provider
}

// Site is a tenant served by this instance.
type Site struct {
	Slug      string
	Host      string
	Path      string
	Protocol  string
	Port      int
	Providers []string
}
