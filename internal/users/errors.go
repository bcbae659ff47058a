package users

import "errors"

var (
	// ErrNotFound is returned when no record exists for an identity.
	ErrNotFound = errors.New("user not found")
	// ErrKeyEmpty is returned for an empty identity key.
	ErrKeyEmpty = errors.New("user key cannot be empty")
)

// ValidationError is a client error caused by an invalid payload.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ClientError marks the error as caused by the request.
func (e *ValidationError) ClientError() bool {
	return true
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
