// Package auth provides authentication middleware for the web application.
//
// The middleware handles session validation, user authentication checks,
// and automatic redirection for unauthenticated requests. It also adds
// the current user to the request context for use in handlers and templates.
//
// The middleware performs the following tasks:
//   - Deserialize re-reads the session user from the store on every request
//     and logs out sessions whose user was deleted
//   - Protect sends protected requests through IsAuthenticated
//   - IsAuthenticated accepts a session user or an api key, otherwise it
//     remembers the url and redirects to the login page of the site
//   - WithAuthLevel compares the user's level with the level of a route
//
// Usage:
//
//	mw := authmiddleware.New(sessions, repo, apikeys)
//	app.Use(mw.Deserialize, mw.Protect)
//	app.Get("/_users/", mw.IsAuthenticated, authmiddleware.WithAuthLevel("admin"), handler)
//
// The middleware expects the site middleware to run first.
package auth
