// Package validate wires go-playground/validator as echo's request validator
// and translates field failures into the 422 details map of the API envelope.
package validate

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/beatworks/beatotheque/internal/apperr"
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields under their json names so 422 details line up with the
	// request payload
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// previewUrl accepts a full URL or a "/"-prefixed path such as
	// /uploads/track.mp3.
	_ = v.RegisterValidation("previewurl", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if strings.HasPrefix(s, "/") {
			return true
		}
		u, err := url.Parse(s)
		return err == nil && u.Scheme != "" && u.Host != ""
	})

	return &Validator{validate: v}
}

// Validate implements echo.Validator. Failures come back as a tagged
// validation error carrying one message list per field.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return invalid
	}

	details := map[string][]string{}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			name := fieldName(fe)
			details[name] = append(details[name], message(fe))
		}
	}
	return apperr.Validation(details)
}

func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	return strings.ToLower(name[:1]) + name[1:]
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "previewurl":
		return "must be a full URL or a path starting with /"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
