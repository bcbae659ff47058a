// Package auth turns provider logins into user records and decides who may do what.
//
// # Providers
//
// Every configured provider implements Provider plus one capability:
//   - CredentialProvider resolves a profile from a username and password
//     (LocalProvider, LDAPProvider)
//   - RedirectProvider sends the browser to an authorization server and resolves
//     the profile on the callback (OIDCProvider, OAuth2Provider)
//
// The api key provider is implicit and handled by APIKeyVerifier.
//
// # Reconciliation
//
// Reconciler maps a profile onto the stored record of (username, provider):
//   - the mapped username is required, its absence is a *MissingUsernameError
//   - a missing record is ErrUserNotFound unless the mapping enables AutoCreate
//   - image url and name are only filled in when empty
//   - a mapped password is verified against the stored hash
//
// # Sessions and levels
//
// Serialize stores only the identity key in the session, Deserialize re-reads
// the record on every request so edits and deletions apply immediately.
// IsProtectedRoute decides which requests need a user, Allowed compares levels.
//
// Example usage:
//
//	registry, err := auth.NewRegistry(ctx, cfg.Auth)
//	reconciler := auth.NewReconciler(users.NewRepository(store))
//
//	p, _ := registry.Get("local")
//	profile, err := p.(auth.CredentialProvider).Authenticate(ctx, username, password)
//	user, err := reconciler.Reconcile(ctx, p.Name(), p.Mapping(), nil, profile)
package auth
