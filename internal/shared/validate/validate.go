// Package validate checks usecase inputs against their struct tags and turns the
// first violation into an apperr validation error with a readable message.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"foodie/internal/shared/apperr"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	// Messages use the `field` tag so they match the form field names.
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := strings.SplitN(f.Tag.Get("field"), ",", 2)[0]; name != "" {
			return name
		}
		return f.Name
	})
	return val
}

// Struct validates s and returns an apperr.ErrValidation error describing the first
// failing field, or nil.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation("invalid input")
	}
	return apperr.Validation("%s", message(verrs[0]))
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "eqfield":
		return "passwords must match"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
