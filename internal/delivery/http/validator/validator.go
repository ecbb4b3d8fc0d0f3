// Package validator adapts go-playground/validator to Echo's Validator hook.
package validator

import (
	domainerrors "estate/internal/domain/errors"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// RequestValidator validates bound request DTOs against their struct tags.
type RequestValidator struct {
	validate *validator.Validate
}

// New is the constructor for RequestValidator.
func New() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// Validate implements echo.Validator. Tag violations surface as the
// domain-level validation error so the error handler maps them to 400.
func (v *RequestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return errors.Wrap(domainerrors.ErrValidationFailed, err.Error())
	}

	return nil
}
