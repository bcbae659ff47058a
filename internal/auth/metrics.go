package auth

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Login outcomes.
const (
	OutcomeSuccess         = "success"
	OutcomeNotFound        = "not_found"
	OutcomeInvalidPassword = "invalid_password"
	OutcomeMissing         = "missing_credentials"
	OutcomeError           = "error"
)

//nolint:gochecknoglobals
var loginCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auth_login_total",
		Help: "Number of login attempts, differentiated by provider and outcome.",
	},
	[]string{"provider", "outcome"},
)

// Outcome classifies a reconciliation result.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrUserNotFound):
		return OutcomeNotFound
	case errors.Is(err, ErrInvalidPassword), errors.Is(err, ErrInvalidAPIKey):
		return OutcomeInvalidPassword
	case errors.Is(err, ErrMissingCredentials):
		return OutcomeMissing
	default:
		return OutcomeError
	}
}

// IsSoftFailure reports whether err denies a login without being a server error.
func IsSoftFailure(err error) bool {
	o := Outcome(err)

	return o == OutcomeNotFound || o == OutcomeInvalidPassword || o == OutcomeMissing
}

// RecordLogin counts a login attempt of strategy.
func RecordLogin(strategy string, err error) {
	loginCounter.WithLabelValues(strategy, Outcome(err)).Inc()
}
