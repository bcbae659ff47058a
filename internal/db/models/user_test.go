package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.NotContains(t, hash, "s3cret")
	assert.True(t, IsHash(hash))

	_, err = HashPassword("")
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestIsHash(t *testing.T) {
	argon, err := HashPassword("s3cret")
	require.NoError(t, err)

	legacy, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	testCases := []struct {
		name string
		in   string
		want bool
	}{
		{name: "argon2id", in: argon, want: true},
		{name: "bcrypt", in: string(legacy), want: true},
		{name: "bcrypt prefix only", in: "$2a$mysecret", want: false},
		{name: "argon2id prefix only", in: "$argon2id$mysecret", want: false},
		{name: "plaintext", in: "mysecret", want: false},
		{name: "empty", in: "", want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsHash(tc.in))
		})
	}
}

func TestVerifyHash(t *testing.T) {
	argon, err := HashPassword("s3cret")
	require.NoError(t, err)

	legacy, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	testCases := []struct {
		name   string
		hash   string
		secret string
		want   bool
	}{
		{name: "argon2id match", hash: argon, secret: "s3cret", want: true},
		{name: "argon2id mismatch", hash: argon, secret: "wrong", want: false},
		{name: "bcrypt match", hash: string(legacy), secret: "s3cret", want: true},
		{name: "bcrypt mismatch", hash: string(legacy), secret: "wrong", want: false},
		{name: "empty hash", hash: "", secret: "s3cret", want: false},
		{name: "empty secret", hash: argon, secret: "", want: false},
		{name: "garbage hash", hash: "plaintext", secret: "plaintext", want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, VerifyHash(tc.hash, tc.secret))
		})
	}
}

func TestUser_VerifyPasswordAndAPIKey(t *testing.T) {
	pw, err := HashPassword("pw")
	require.NoError(t, err)

	key, err := HashPassword("key")
	require.NoError(t, err)

	u := &User{Username: "jdoe", Provider: "local", Password: pw, APIKey: key}

	assert.True(t, u.VerifyPassword("pw"))
	assert.False(t, u.VerifyPassword("key"))
	assert.True(t, u.VerifyAPIKey("key"))
	assert.False(t, u.VerifyAPIKey("pw"))
}

func TestUser_Public(t *testing.T) {
	u := User{Username: "jdoe", Provider: "local", Auth: AuthAdmin, Password: "hash", APIKey: "hash", Name: "J"}

	p := u.Public()

	assert.Empty(t, p.Password)
	assert.Empty(t, p.APIKey)
	assert.Equal(t, "J", p.Name)
	assert.Equal(t, "hash", u.Password, "original must stay untouched")
}
