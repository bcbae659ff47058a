// Package main provides the entry point of clay-auth, the authentication
// service of clay sites. It serves per site login routes for local, LDAP,
// OIDC and OAuth2 providers, keeps sessions in memory, redis or SQL storage,
// verifies api keys and exposes a JSON api managing the user records kept in
// a key value store.
package main
