package auth

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog/log"

	"github.com/clay-auth/clay-auth/internal/config"
)

const (
	defaultLDAPTimeout    = 10
	defaultLDAPUserFilter = "(sAMAccountName={username})"
	ldapDNAttr            = "dn"
)

// LDAPProvider handles LDAP and Active Directory logins.
type LDAPProvider struct {
	base
	config config.LDAP
}

// NewLDAPProvider creates a new LDAP provider.
func NewLDAPProvider(name string, cfg config.LDAP, m config.Mapping) (*LDAPProvider, error) {
	b, err := newBase(name, TypeLDAP, m)
	if err != nil {
		return nil, err
	}

	if cfg.UserFilter == "" {
		cfg.UserFilter = defaultLDAPUserFilter
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = defaultLDAPTimeout
	}

	if cfg.Port == 0 {
		cfg.Port = 389
		if cfg.UseSSL {
			cfg.Port = 636
		}
	}

	return &LDAPProvider{base: b, config: cfg}, nil
}

// URL returns the server url.
func (p *LDAPProvider) URL() string {
	hostPort := net.JoinHostPort(p.config.Host, strconv.Itoa(p.config.Port))

	if p.config.UseSSL {
		return "ldaps://" + hostPort
	}

	return "ldap://" + hostPort
}

// Connect establishes a connection to the LDAP server.
func (p *LDAPProvider) Connect() (*ldap.Conn, error) {
	var tlsConfig *tls.Config
	if p.config.UseSSL || p.config.UseTLS {
		tlsConfig = &tls.Config{
			InsecureSkipVerify: p.config.SkipVerify, //nolint:gosec // skipping verifying tls is ok
			ServerName:         p.config.Host,
		}
	}

	conn, err := ldap.DialURL(p.URL(), ldap.DialWithTLSConfig(tlsConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to LDAP server: %w", err)
	}

	// Upgrade to TLS if requested (for non-SSL connections)
	if !p.config.UseSSL && p.config.UseTLS {
		if errStartTLS := conn.StartTLS(tlsConfig); errStartTLS != nil {
			if errClose := conn.Close(); errClose != nil {
				log.Error().Err(errClose).Msg("failed to close LDAP connection")
			}

			return nil, fmt.Errorf("failed to start TLS: %w", errStartTLS)
		}
	}

	conn.SetTimeout(time.Duration(p.config.Timeout) * time.Second)

	return conn, nil
}

// Authenticate searches the user, binds as the user and returns the entry attributes as profile.
// A missing entry is ErrUserNotFound, rejected credentials are ErrInvalidPassword.
func (p *LDAPProvider) Authenticate(_ context.Context, username, password string) (Profile, error) {
	// an empty password would be an unauthenticated bind
	if password == "" {
		return nil, ErrInvalidPassword
	}

	conn, err := p.Connect()
	if err != nil {
		return nil, err
	}

	defer func() {
		if errClose := conn.Close(); errClose != nil {
			log.Warn().Err(errClose).Msg("failed to close LDAP connection")
		}
	}()

	if errBindService := p.bindService(conn); errBindService != nil {
		return nil, errBindService
	}

	entry, errSearch := p.searchUserEntry(conn, username)
	if errSearch != nil {
		return nil, errSearch
	}

	if errBind := conn.Bind(entry.DN, password); errBind != nil {
		if ldap.IsErrorWithCode(errBind, ldap.LDAPResultInvalidCredentials) {
			return nil, ErrInvalidPassword
		}

		return nil, fmt.Errorf("authentication failed: %w", errBind)
	}

	return profileFromEntry(entry), nil
}

// TestConnection tests the LDAP server connection and bind credentials.
func (p *LDAPProvider) TestConnection() error {
	conn, err := p.Connect()
	if err != nil {
		return err
	}

	defer func() {
		if errClose := conn.Close(); errClose != nil {
			log.Warn().Err(errClose).Msg("failed to close LDAP connection")
		}
	}()

	return p.bindService(conn)
}

// bindService binds with the configured service account (if provided) to perform the user search.
func (p *LDAPProvider) bindService(conn *ldap.Conn) error {
	if p.config.BindDN == "" {
		return nil
	}

	if err := conn.Bind(p.config.BindDN, p.config.BindPassword); err != nil {
		return fmt.Errorf("failed to bind with service account: %w", err)
	}

	return nil
}

// searchUserEntry searches LDAP for the given username and returns a single entry.
func (p *LDAPProvider) searchUserEntry(conn *ldap.Conn, username string) (*ldap.Entry, error) {
	searchResult, err := conn.Search(p.searchRequest(username))
	if err != nil {
		if ldap.IsErrorWithCode(err, ldap.LDAPResultNoSuchObject) {
			return nil, ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to search for user: %w", err)
	}

	switch len(searchResult.Entries) {
	case 0:
		return nil, ErrUserNotFound
	case 1:
		return searchResult.Entries[0], nil
	default:
		return nil, ErrMultipleUsersFound
	}
}

func (p *LDAPProvider) searchRequest(username string) *ldap.SearchRequest {
	return ldap.NewSearchRequest(
		p.config.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, // Size limit
		p.config.Timeout,
		false,
		strings.ReplaceAll(p.config.UserFilter, "{username}", ldap.EscapeFilter(username)),
		p.attributes(),
		nil,
	)
}

// attributes returns the mapped attributes plus the configured extra ones.
func (p *LDAPProvider) attributes() []string {
	seen := map[string]bool{}
	attrs := []string{ldapDNAttr}

	for _, a := range append([]string{p.mapping.Username, p.mapping.Name, p.mapping.ImageURL}, p.config.Attributes...) {
		if a != "" && !seen[a] {
			seen[a] = true
			attrs = append(attrs, a)
		}
	}

	return attrs
}

// profileFromEntry returns the first value of every attribute.
func profileFromEntry(entry *ldap.Entry) Profile {
	profile := Profile{ldapDNAttr: entry.DN}

	for _, attr := range entry.Attributes {
		if len(attr.Values) == 0 {
			continue
		}

		profile[attr.Name] = attr.Values[0]
	}

	return profile
}
