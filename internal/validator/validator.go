package validator

import (
	"reflect"
	"strings"
	"sync"

	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// NewValidator returns the shared validator. Field errors are reported under
// the json name of the field.
func NewValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidateRequest checks the validate tags of req
func ValidateRequest(req interface{}) error {
	err := NewValidator().Struct(req)
	if err == nil {
		return nil
	}

	details := make(map[string]any)
	var fieldErrs validator.ValidationErrors
	if ierr.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			details[fe.Field()] = fe.Tag()
		}
	}
	return ierr.WithError(err).
		WithHint("Request validation failed").
		WithReportableDetails(details).
		Mark(ierr.ErrValidation)
}
