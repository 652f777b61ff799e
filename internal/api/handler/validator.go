package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// requestValidator adapts go-playground/validator to the echo.Validator
// interface so handlers can call c.Validate(req) on bound payloads.
type requestValidator struct {
	v *validator.Validate
}

// NewValidator builds the validator assigned to echo.Echo.Validator.
func NewValidator() *requestValidator {
	return &requestValidator{v: validator.New()}
}

// Validate satisfies echo.Validator. Struct tag failures are flattened into
// a single readable message so the error envelope stays a plain string.
func (rv *requestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	var b strings.Builder
	for i, fe := range ve {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(tagMessage(fe))
	}
	return errors.New(b.String())
}

func tagMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
