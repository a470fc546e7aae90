package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type VoteInput struct {
	Name        string `validate:"required"`
	Email       string `validate:"required,email"`
	CountryCode string
}

// Normalize trims surrounding whitespace from every field.
func (in VoteInput) Normalize() VoteInput {
	return VoteInput{
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		CountryCode: strings.TrimSpace(in.CountryCode),
	}
}

// Validate reports the first failing field wrapped in ErrInvalidInput.
// Unknown country codes are left to the reference lookup.
func (in VoteInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", ErrInvalidInput, field)
	case "email":
		return fmt.Errorf("%w: %s is not a valid address", ErrInvalidInput, field)
	default:
		return fmt.Errorf("%w: %s failed %s", ErrInvalidInput, field, fe.Tag())
	}
}
