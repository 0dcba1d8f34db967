// Package validate adapts validator/v10 struct validation to the repository's
// FieldErrors shape, so facade input problems render like any other
// validation failure.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/orenshv/flightsdb/internal/domain"
)

// New builds a validator that reports fields by their json names.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Fields validates input and converts any failures into FieldErrors. Returns
// nil when the input is valid.
func Fields(v *validator.Validate, input any) domain.FieldErrors {
	err := v.Struct(input)
	if err == nil {
		return nil
	}

	ferrs := domain.FieldErrors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		ferrs.Add(domain.NonFieldErrors, err.Error())
		return ferrs
	}
	for _, fe := range verrs {
		ferrs.Add(fe.Field(), message(fe))
	}
	return ferrs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "gt":
		if fe.Param() == "0" {
			return "must be a positive number"
		}
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gtfield":
		return fmt.Sprintf("must be later than %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", fe.Param())
	case "alphanum":
		return "must contain only letters and digits"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
