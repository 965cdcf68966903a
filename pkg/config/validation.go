package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by the environment variable that sets them
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// FieldError is one environment variable that failed validation
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors lists every failing variable of one or more config sections
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Error())
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Section is a config struct that can check itself
type Section interface {
	Validate() ValidationErrors
}

// ValidateAll validates every section and returns their failures together,
// or nil when all of them pass.
func ValidateAll(sections ...Section) error {
	var all ValidationErrors
	for _, s := range sections {
		all = append(all, s.Validate()...)
	}
	if len(all) == 0 {
		return nil
	}
	return all
}

// checkStruct runs the validate tags of s
func checkStruct(s any) ValidationErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: fmt.Sprintf("%T", s), Message: err.Error()}}
	}

	errs := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return errs
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "url":
		return "must be an absolute URL with a scheme"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gt":
		return fmt.Sprintf("must be positive, got %v", fe.Value())
	default:
		return fmt.Sprintf("failed the %s check", fe.Tag())
	}
}
