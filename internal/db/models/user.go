package models

import (
	"errors"
	"strings"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// Authorization levels.
const (
	// AuthAdmin satisfies every level requirement.
	AuthAdmin = "admin"
	// AuthWrite is the standard editing level.
	AuthWrite = "write"
)

// ErrEmptySecret is returned when hashing an empty password or api key.
var ErrEmptySecret = errors.New("can not hash an empty secret")

// User is the record stored for every (username, provider) identity.
// Password and APIKey only ever hold hashes.
type User struct {
	Username string `json:"username"`
	Provider string `json:"provider"`
	Auth     string `json:"auth,omitempty"`
	Password string `json:"password,omitempty"`
	APIKey   string `json:"apikey,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	Name     string `json:"name,omitempty"`

	// Ref is the storage key, set on in-memory copies and never persisted.
	Ref string `json:"_ref,omitempty"`
}

// Public returns a copy without password and api key hashes.
func (u User) Public() User {
	u.Password = ""
	u.APIKey = ""

	return u
}

// HashPassword hashes a plaintext secret using the Argon2id algorithm.
func HashPassword(secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	return argon2id.CreateHash(secret, argon2id.DefaultParams) //nolint:wrapcheck
}

// IsHash reports whether s decodes as an argon2id or bcrypt hash.
func IsHash(s string) bool {
	if isBcrypt(s) {
		_, err := bcrypt.Cost([]byte(s))
		return err == nil
	}

	_, _, _, err := argon2id.DecodeHash(s)

	return err == nil
}

// VerifyHash compares a plaintext secret with a stored hash.
// Argon2id hashes and bcrypt hashes of migrated records are supported.
func VerifyHash(hash, secret string) bool {
	if hash == "" || secret == "" {
		return false
	}

	if isBcrypt(hash) {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
	}

	match, err := argon2id.ComparePasswordAndHash(secret, hash)
	if err != nil {
		log.Error().Err(err).Msg("failed to verify hash")
		return false
	}

	return match
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
func (u *User) VerifyPassword(password string) bool {
	return VerifyHash(u.Password, password)
}

// VerifyAPIKey verifies a plaintext api key secret against the stored hash.
func (u *User) VerifyAPIKey(secret string) bool {
	return VerifyHash(u.APIKey, secret)
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
