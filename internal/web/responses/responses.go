// Package responses translates errors into http responses.
package responses

import (
	"errors"
	"html"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/clay-auth/clay-auth/internal/auth"
	"github.com/clay-auth/clay-auth/internal/db/kv"
	"github.com/clay-auth/clay-auth/internal/users"
)

// Messages sent to clients.
const (
	MsgNotFound     = "Not Found"
	MsgServerError  = "Server Error"
	MsgUnauthorized = "Unauthorized request"
	MsgAccessDenied = "Access denied"
)

// ClientError is implemented by errors caused by the request itself.
type ClientError interface {
	ClientError() bool
}

// Message is the JSON body of every error response.
type Message struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type clientError struct {
	msg string
}

func (e *clientError) Error() string     { return e.msg }
func (e *clientError) ClientError() bool { return true }

// NewClientError returns an error answered with 400 and msg.
func NewClientError(msg string) error {
	return &clientError{msg: msg}
}

// Classify maps err to a status code and a message safe to show to clients.
func Classify(err error) (int, string) {
	var (
		fe *fiber.Error
		ce ClientError
	)

	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.As(err, &ce) && ce.ClientError():
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, users.ErrNotFound), errors.Is(err, auth.ErrUserNotFound), errors.Is(err, kv.ErrNotFound):
		return fiber.StatusNotFound, MsgNotFound
	default:
		return fiber.StatusInternalServerError, MsgServerError
	}
}

// ErrorHandler is the fiber error handler. Server errors are logged with their
// details, clients only see the category message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code, msg := Classify(err)

	switch {
	case code >= fiber.StatusInternalServerError:
		log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("request failed")
	case code == fiber.StatusNotFound:
		log.Debug().Err(err).Str("path", c.Path()).Msg("not found")
	default:
		log.Warn().Err(err).Str("path", c.Path()).Int("status", code).Msg("client error")
	}

	return Send(c, code, msg)
}

// Send writes code and msg in the representation the client accepts.
func Send(c *fiber.Ctx, code int, msg string) error {
	c.Status(code)

	switch c.Accepts(fiber.MIMEApplicationJSON, fiber.MIMETextHTML, fiber.MIMETextPlain) {
	case fiber.MIMETextHTML:
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)

		return c.SendString("<!DOCTYPE html><html><body><h1>" + html.EscapeString(msg) + "</h1></body></html>")
	case fiber.MIMETextPlain:
		return c.SendString(msg)
	default:
		return c.JSON(Message{Code: code, Message: msg})
	}
}

// Unauthorized answers 401 with the generic message.
func Unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(Message{Code: fiber.StatusUnauthorized, Message: MsgUnauthorized})
}

// BasicChallenge answers 401 asking for basic credentials.
func BasicChallenge(c *fiber.Ctx, realm string) error {
	c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="`+realm+`"`)

	return c.Status(fiber.StatusUnauthorized).SendString(MsgAccessDenied)
}
