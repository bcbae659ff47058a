// Package site models the tenants served by one instance and builds their urls.
package site

import (
	"net"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/clay-auth/clay-auth/internal/config"
)

// Site is a tenant identified by host and path prefix.
type Site struct {
	Slug      string
	Host      string
	Path      string // "" or a path starting with "/" and without trailing slash
	Protocol  string
	Port      int
	Providers []string
}

// New converts the site config and normalizes the path.
func New(c config.Site, defaultPort int) Site {
	port := c.Port
	if port == 0 {
		port = defaultPort
	}

	return Site{
		Slug:      c.Slug,
		Host:      strings.ToLower(c.Host),
		Path:      NormalizePath(c.Path),
		Protocol:  c.Protocol,
		Port:      port,
		Providers: c.Providers,
	}
}

// NormalizePath turns "/", "" and "blog/" into "" and "/blog".
func NormalizePath(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}

	return "/" + p
}

// Prefix is host plus path, e.g. "example.com/blog".
func (s Site) Prefix() string {
	return s.Host + s.Path
}

// URIToURL applies protocol and port to a host+path uri.
// The protocol defaults to http, the port is dropped for http:80 and https:443.
func URIToURL(uri, protocol string, port int) string {
	if protocol == "" {
		protocol = "http"
	}

	host, path, _ := strings.Cut(uri, "/")

	if port != 0 && !(protocol == "http" && port == 80) && !(protocol == "https" && port == 443) { //nolint:mnd
		host = net.JoinHostPort(host, strconv.Itoa(port))
	}

	u := url.URL{Scheme: protocol, Host: host, Path: "/" + path}

	return u.String()
}

// AuthURL is the absolute base url of the auth routes of s.
func AuthURL(s Site) string {
	base := URIToURL(s.Prefix(), s.Protocol, s.Port)

	if strings.HasSuffix(base, "/") {
		return base + "_auth"
	}

	return base + "/_auth"
}

// LoginURL is the absolute url of the login page.
func LoginURL(s Site) string {
	return AuthURL(s) + "/login"
}

// CallbackURL is the redirect url registered with an oauth provider.
func CallbackURL(s Site, provider string) string {
	return AuthURL(s) + "/" + provider + "/callback"
}

// PathOrBase returns the site path, "/" for root sites.
func PathOrBase(s Site) string {
	if s.Path == "" {
		return "/"
	}

	return s.Path
}

// StrategyName identifies a provider instance of a site.
func StrategyName(provider string, s Site) string {
	return provider + "-" + s.Slug
}

// LoginProvider is a provider link on the login page.
type LoginProvider struct {
	Name  string
	URL   string
	Title string
}

// Providers lists the redirecting providers of s for the login page.
// The apikey and local providers have no login link.
func Providers(s Site) []LoginProvider {
	out := make([]LoginProvider, 0, len(s.Providers))

	for _, p := range s.Providers {
		if p == "apikey" || p == "local" {
			continue
		}

		out = append(out, LoginProvider{
			Name:  p,
			URL:   AuthURL(s) + "/" + p,
			Title: "Log in with " + capitalize(p),
		})
	}

	return out
}

// HasProvider reports whether provider is enabled for s.
func (s Site) HasProvider(provider string) bool {
	for _, p := range s.Providers {
		if p == provider {
			return true
		}
	}

	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	s = strings.ToLower(s)

	return strings.ToUpper(s[:1]) + s[1:]
}

// Resolver finds the site of a request by host and longest path prefix.
type Resolver struct {
	sites []Site
}

// NewResolver returns a resolver over sites.
func NewResolver(sites []Site) *Resolver {
	sorted := append([]Site(nil), sites...)

	// longest path first so the first match wins
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Path) > len(sorted[j].Path)
	})

	return &Resolver{sites: sorted}
}

// Resolve returns the site serving host and path.
func (r *Resolver) Resolve(host, path string) (Site, bool) {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}

	host = strings.ToLower(host)

	for _, s := range r.sites {
		if s.Host != host {
			continue
		}

		if s.Path == "" || path == s.Path || strings.HasPrefix(path, s.Path+"/") {
			return s, true
		}
	}

	return Site{}, false
}

// Sites returns all sites, longest path first.
func (r *Resolver) Sites() []Site {
	return append([]Site(nil), r.sites...)
}

// RoutePrefixes returns the distinct site paths, used to mount routes once per path.
func (r *Resolver) RoutePrefixes() []string {
	seen := make(map[string]bool)

	var out []string

	for _, s := range r.sites {
		if !seen[s.Path] {
			seen[s.Path] = true
			out = append(out, s.Path)
		}
	}

	return out
}
