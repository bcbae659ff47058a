package auth

import "github.com/clay-auth/clay-auth/internal/db/models"

// Levels lists the known authorization levels.
var Levels = []string{models.AuthAdmin, models.AuthWrite} //nolint:gochecknoglobals

// Allowed reports whether userLevel satisfies required.
// Admin satisfies every requirement, any other level only itself.
// An empty userLevel is ErrNoAuthLevel.
func Allowed(userLevel, required string) (bool, error) {
	if userLevel == "" {
		return false, ErrNoAuthLevel
	}

	return userLevel == models.AuthAdmin || userLevel == required, nil
}
