package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// QueryValidator checks normalized query structs.
type QueryValidator struct {
	validator *validator.Validate
}

func NewQueryValidator() *QueryValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("query"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &QueryValidator{validator: v}
}

// Validate returns an *Error of kind InvalidParameter describing the first
// failing field.
func (qv *QueryValidator) Validate(i any) error {
	err := qv.validator.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return &Error{Kind: KindInvalidParameter, Message: err.Error(), Err: err}
	}

	e := validationErrors[0]
	return &Error{
		Kind:    KindInvalidParameter,
		Field:   e.Field(),
		Message: formatFieldError(e),
		Err:     err,
	}
}

func formatFieldError(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return field + " must be at most " + e.Param() + " characters"
	case "gte":
		return field + " must be greater than or equal to " + e.Param()
	case "lte":
		return field + " must be less than or equal to " + e.Param()
	default:
		return field + " is invalid"
	}
}
