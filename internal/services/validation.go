package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports a request that is missing required fields or
// carries an out-of-range value. Message is safe to show to clients.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput checks input against its validate tags. Any missing field
// yields requiredMessage; otherwise the first invalid field is named.
func validateInput(input any, requiredMessage string) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate input: %w", err)
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return &ValidationError{Message: requiredMessage}
		}
	}
	return &ValidationError{Message: fmt.Sprintf("Invalid %s", fieldErrs[0].Field())}
}
