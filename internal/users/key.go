// Package users stores user records in the key value store and implements their administration.
package users

import (
	"encoding/base64"
	"strings"
)

// Prefix is the key prefix of every user record.
const Prefix = "/_users/"

// DeriveKey returns the identity key of (username, provider).
// The username is case folded, the provider is kept as is.
func DeriveKey(username, provider string) string {
	return base64.URLEncoding.EncodeToString([]byte(strings.ToLower(username) + "@" + provider))
}

// StoreKey returns the key value store key of an identity key.
func StoreKey(key string) string {
	return Prefix + key
}

// SiteURI returns the fully qualified uri of a user under a site prefix.
func SiteURI(sitePrefix, key string) string {
	return sitePrefix + Prefix + key
}
