package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/accesshub/accesshub-api/internal/core/domain"
)

var validate = validator.New()

// checkVar validates a single value against a validator tag and turns a
// failure into a domain validation error naming the field.
func checkVar(field string, value any, tag string) error {
	err := validate.Var(value, tag)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return fmt.Errorf("validate %s: %w", field, err)
	}

	fe := ve[0]
	switch fe.Tag() {
	case "required":
		return domain.Errorf(domain.ErrValidation, "%s is required", field)
	case "email":
		return domain.Errorf(domain.ErrValidation, "%s must be a valid email", field)
	case "min":
		return domain.Errorf(domain.ErrValidation, "%s must be at least %s characters", field, fe.Param())
	case "max":
		return domain.Errorf(domain.ErrValidation, "%s cannot exceed %s characters", field, fe.Param())
	case "oneof":
		return domain.Errorf(domain.ErrValidation, "%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return domain.Errorf(domain.ErrValidation, "%s must be a valid URL", field)
	default:
		return domain.Errorf(domain.ErrValidation, "%s is invalid", field)
	}
}

func oneOf(values []string) string {
	return "oneof=" + strings.Join(values, " ")
}
