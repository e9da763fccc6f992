// Package validation wraps go-playground/validator with the storefront's
// custom rules and turns validation failures into per-field messages.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// TagPhone validates a shipping phone number.
const TagPhone = "shipphone"

type FieldErrors map[string]string

// New returns a validator that reads `validate` tags and reports fields by
// their json name.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	configure(v)
	return v
}

// ConfigureGin applies the same rules to gin's binding validator, which reads
// `binding` tags.
func ConfigureGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("validation: unexpected gin validator engine")
	}
	configure(v)
	return nil
}

func configure(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonName)
	_ = v.RegisterValidation(TagPhone, func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
}

func jsonName(f reflect.StructField) string {
	name := f.Tag.Get("json")
	if i := strings.Index(name, ","); i >= 0 {
		name = name[:i]
	}
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// FromError maps a validation or bind error to field -> message.
func FromError(err error) FieldErrors {
	out := FieldErrors{}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fe.Field()] = messageForTag(fe.Tag(), fe.Param())
		}
		return out
	}

	// other bind failures (malformed json, type mismatch)
	out["_"] = "The submitted data is invalid."
	return out
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case TagPhone:
		return "Enter a valid phone number, e.g. 0612345678 or +33612345678."
	case "min":
		return "Must be at least " + param + "."
	case "max":
		return "Must be at most " + param + "."
	case "gte":
		return "Must be " + param + " or more."
	case "lte":
		return "Must be " + param + " or less."
	case "oneof":
		return "Must be one of: " + param + "."
	default:
		return "Invalid value."
	}
}
