package logger

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrAppNameIsEmpty is returned when [Log] AppName is not set.
	ErrAppNameIsEmpty = errors.New("[Log] AppName can not be empty")

	// ErrServiceNameIsEmpty is returned when [Log] ServiceName is not set. It labels the log counter.
	ErrServiceNameIsEmpty = errors.New("[Log] ServiceName can not be empty")
)

// ErrorHandler reports events zerolog failed to write, e.g. to a full disk or a closed pipe.
func ErrorHandler(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "clay-auth: dropped log event: %v\n", err)
}
