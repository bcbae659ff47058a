package responses

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clay-auth/clay-auth/internal/auth"
	"github.com/clay-auth/clay-auth/internal/users"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{name: "fiber error", err: fiber.NewError(fiber.StatusMethodNotAllowed, "Method Not Allowed"), wantCode: 405, wantMsg: "Method Not Allowed"},
		{name: "client error", err: NewClientError("Trailing slash"), wantCode: 400, wantMsg: "Trailing slash"},
		{name: "validation error", err: &users.ValidationError{Message: "bad payload"}, wantCode: 400, wantMsg: "bad payload"},
		{name: "wrapped not found", err: fmt.Errorf("get: %w", users.ErrNotFound), wantCode: 404, wantMsg: MsgNotFound},
		{name: "auth not found", err: auth.ErrUserNotFound, wantCode: 404, wantMsg: MsgNotFound},
		{name: "missing auth level", err: auth.ErrNoAuthLevel, wantCode: 500, wantMsg: MsgServerError},
		{name: "missing username", err: &auth.MissingUsernameError{Field: "email"}, wantCode: 500, wantMsg: MsgServerError},
		{name: "store error", err: errors.New("dial tcp 10.0.0.1:6379: connection refused"), wantCode: 500, wantMsg: MsgServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := Classify(tc.err)
			assert.Equal(t, tc.wantCode, code)
			assert.Equal(t, tc.wantMsg, msg)
		})
	}
}

func TestErrorHandler_Negotiation(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/", func(_ *fiber.Ctx) error {
		return errors.New("secret backend detail")
	})

	testCases := []struct {
		accept      string
		wantType    string
		wantBody    string
		wantExactly bool
	}{
		{accept: "application/json", wantType: fiber.MIMEApplicationJSON, wantBody: `{"code":500,"message":"Server Error"}`, wantExactly: true},
		{accept: "", wantType: fiber.MIMEApplicationJSON, wantBody: `{"code":500,"message":"Server Error"}`, wantExactly: true},
		{accept: "text/html", wantType: fiber.MIMETextHTMLCharsetUTF8, wantBody: "<h1>Server Error</h1>"},
		{accept: "text/plain", wantType: fiber.MIMETextPlainCharsetUTF8, wantBody: "Server Error", wantExactly: true},
	}

	for _, tc := range testCases {
		t.Run(tc.accept, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.accept != "" {
				req.Header.Set("Accept", tc.accept)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)

			defer func() { _ = resp.Body.Close() }()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			assert.Equal(t, tc.wantType, resp.Header.Get("Content-Type"))
			assert.NotContains(t, string(body), "secret backend detail")

			if tc.wantExactly {
				assert.Equal(t, tc.wantBody, string(body))
			} else {
				assert.Contains(t, string(body), tc.wantBody)
			}
		})
	}
}

func TestUnauthorizedAndChallenge(t *testing.T) {
	app := fiber.New()
	app.Get("/json", Unauthorized)
	app.Get("/basic", func(c *fiber.Ctx) error { return BasicChallenge(c, "Incorrect Credentials") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/json", nil), -1)
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"code":401,"message":"Unauthorized request"}`, string(body))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/basic", nil), -1)
	require.NoError(t, err)

	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, `Basic realm="Incorrect Credentials"`, resp.Header.Get("WWW-Authenticate"))
	assert.Equal(t, MsgAccessDenied, string(body))
}
