// Package validation turns struct-tag validation failures into domain errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"planet-beauty/internal/model"

	"github.com/go-playground/validator/v10"
)

// Validator checks request payloads against their `validate` tags.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator that reports fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates s and returns an INVALID_INPUT DomainError naming the first bad field.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return model.Invalid("Invalid request")
	}
	return model.Invalid("%s", describe(verrs[0]))
}

// Email reports whether s is a syntactically valid email address.
func (v *Validator) Email(s string) bool {
	return v.v.Var(s, "required,email") == nil
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must match %s", field, layoutHint(fe.Param()))
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}

func layoutHint(layout string) string {
	switch layout {
	case model.DateLayout:
		return "YYYY-MM-DD"
	case model.TimeLayout:
		return "HH:MM"
	}
	return layout
}
