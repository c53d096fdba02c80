// Package validator adapts go-playground/validator to echo's Validator interface.
package validator

import (
	validatorlib "github.com/go-playground/validator/v10"

	domainerrors "quill/internal/domain/errors"
)

// echoValidator wraps a validator instance for echo.
type echoValidator struct {
	validate *validatorlib.Validate
}

// New creates an echo-compatible request validator.
func New() *echoValidator {
	return &echoValidator{validate: validatorlib.New()}
}

// Validate validates a bound request struct against its validate tags.
// Failures surface as the domain's validation error so the error handler
// renders them uniformly.
func (v *echoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
