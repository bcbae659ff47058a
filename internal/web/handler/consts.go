package handler

import "errors"

const (
	// AuthPath is the route prefix of the login routes.
	AuthPath = "/_auth"

	// UsersPath is the route prefix of the users api.
	UsersPath = "/_users"

	// RouterRootPath is the root path of a route group.
	RouterRootPath = "/"

	// MsgInvalidCredentials is flashed for every denied login.
	MsgInvalidCredentials = "Invalid username/password"

	// RealmIncorrectCredentials is the basic auth realm sent after a denied login.
	RealmIncorrectCredentials = "Incorrect Credentials"
)

// ErrNilDeps is returned by Init when router or deps are missing.
var ErrNilDeps = errors.New("router or deps is nil")
