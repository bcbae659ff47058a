package users

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse describes a single failed payload field.
type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       any
}

// XValidator validates payload structs.
type XValidator struct {
	validator *validator.Validate
}

// NewValidator returns a validator for user payloads.
func NewValidator() XValidator {
	return XValidator{validator: validator.New()}
}

// Validate validates data and returns the failed fields.
func (v XValidator) Validate(data any) []ErrorResponse {
	var validationErrors []ErrorResponse

	err := v.validator.Struct(data)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []ErrorResponse{{Tag: err.Error()}}
	}

	for _, fe := range errs {
		validationErrors = append(validationErrors, ErrorResponse{
			FailedField: fe.Field(),
			Tag:         fe.Tag(),
			Value:       fe.Value(),
		})
	}

	return validationErrors
}
