// Package session wraps the fiber session store with the keys used by the login flow.
package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/clay-auth/clay-auth/internal/config"
)

// Session keys.
const (
	KeyUID      = "uid"
	KeyReturnTo = "returnTo"
	KeyFlash    = "flash"
	KeyState    = "oauth_state"
	KeyVerifier = "oauth_verifier"
)

// CookieName is the name of the session cookie.
const CookieName = "clay-session"

// DefaultExpiration is the session lifetime when none is configured.
const DefaultExpiration = 7 * 24 * time.Hour

// Manager reads and writes the login state of a request.
// Every call loads the session and saves it again, the fiber session is released on save.
type Manager struct {
	store   *session.Store
	rolling bool
}

// New returns a manager. A nil storage keeps sessions in memory.
func New(storage fiber.Storage, cfg config.Session, devMode bool) *Manager {
	exp := cfg.Expiration
	if exp == 0 {
		exp = DefaultExpiration
	}

	return &Manager{
		store: session.New(session.Config{
			Storage:        storage,
			Expiration:     exp,
			KeyLookup:      "cookie:" + CookieName,
			CookiePath:     "/",
			CookieSecure:   !devMode,
			CookieHTTPOnly: true,
			CookieSameSite: fiber.CookieSameSiteLaxMode,
		}),
		rolling: cfg.Rolling,
	}
}

// UID returns the session identity or "".
func (m *Manager) UID(c *fiber.Ctx) (string, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	uid, _ := sess.Get(KeyUID).(string)

	return uid, nil
}

// Touch saves an existing session to refresh its expiry when rolling sessions are enabled.
func (m *Manager) Touch(c *fiber.Ctx) error {
	if !m.rolling {
		return nil
	}

	sess, err := m.store.Get(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if sess.Fresh() {
		return nil
	}

	return sess.Save() //nolint:wrapcheck
}

// Login stores uid in a new session id and returns the pending return target.
func (m *Manager) Login(c *fiber.Ctx, uid string) (string, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	returnTo, _ := sess.Get(KeyReturnTo).(string)

	if err := sess.Regenerate(); err != nil {
		return "", err //nolint:wrapcheck
	}

	sess.Delete(KeyReturnTo)
	sess.Delete(KeyState)
	sess.Delete(KeyVerifier)
	sess.Set(KeyUID, uid)

	return returnTo, sess.Save() //nolint:wrapcheck
}

// Logout destroys the session.
func (m *Manager) Logout(c *fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return sess.Destroy() //nolint:wrapcheck
}

// SetReturnTo stores the url to redirect to after login.
func (m *Manager) SetReturnTo(c *fiber.Ctx, url string) error {
	return m.set(c, KeyReturnTo, url)
}

// Flash stores a message for the next login page.
func (m *Manager) Flash(c *fiber.Ctx, msg string) error {
	return m.set(c, KeyFlash, msg)
}

// PopFlash returns and clears the flash message.
func (m *Manager) PopFlash(c *fiber.Ctx) (string, error) {
	return m.pop(c, KeyFlash)
}

// SetOAuth stores the state and PKCE verifier of a pending authorization.
func (m *Manager) SetOAuth(c *fiber.Ctx, state, verifier string) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	sess.Set(KeyState, state)
	sess.Set(KeyVerifier, verifier)

	return sess.Save() //nolint:wrapcheck
}

// PopOAuth returns and clears the pending state and verifier.
func (m *Manager) PopOAuth(c *fiber.Ctx) (string, string, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return "", "", err //nolint:wrapcheck
	}

	state, _ := sess.Get(KeyState).(string)
	verifier, _ := sess.Get(KeyVerifier).(string)

	if state == "" && verifier == "" {
		return "", "", nil
	}

	sess.Delete(KeyState)
	sess.Delete(KeyVerifier)

	return state, verifier, sess.Save() //nolint:wrapcheck
}

func (m *Manager) set(c *fiber.Ctx, key, value string) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return err //nolint:wrapcheck
	}

	sess.Set(key, value)

	return sess.Save() //nolint:wrapcheck
}

func (m *Manager) pop(c *fiber.Ctx, key string) (string, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return "", err //nolint:wrapcheck
	}

	v, _ := sess.Get(key).(string)
	if v == "" {
		return "", nil
	}

	sess.Delete(key)

	return v, sess.Save() //nolint:wrapcheck
}
