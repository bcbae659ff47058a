// Package login renders the login page of a site.
package login

import "errors"

// ErrNoSite is returned when the login page is requested outside a site.
var ErrNoSite = errors.New("login page requested without site")
