// Package strategy serves the login routes of the configured identity providers.
//
// Every provider enabled for a site is reachable below the site's auth path:
//
//	GET      /_auth/<provider>           start a login
//	POST     /_auth/<provider>           username and password form of credential providers
//	GET|POST /_auth/<provider>/callback  authorization code callback of redirect providers
//
// Redirect providers (oidc, oauth2) store a state token and a PKCE verifier in the
// session and send the browser to the authorization server. Credential providers
// (ldap, local) read basic auth credentials on GET and form fields on POST.
//
// Every profile is reconciled with the user store. Denied logins flash a generic
// message and go back to the login page, successful ones go to the url stored
// before the login or to the site root.
package strategy
