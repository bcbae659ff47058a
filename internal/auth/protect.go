package auth

import (
	"net/http"
	"strings"
)

// authPath marks requests to the login routes.
const authPath = "/_auth"

// IsProtectedRoute reports whether a request needs an authenticated user.
// Edit mode is always protected, other requests are protected when they
// change state outside of the login routes. OPTIONS is never protected.
func IsProtectedRoute(method, originalURL string, edit bool) bool {
	if method == http.MethodOptions {
		return false
	}

	return edit || (!strings.Contains(originalURL, authPath) && method != http.MethodGet)
}
