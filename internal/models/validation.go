package models

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator with the user field rules registered.
// Field names in errors are reported by their json tag.
func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return ValidUsername(fl.Field().String())
	})
	_ = v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		return Gender(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("project", func(fl validator.FieldLevel) bool {
		return ProjectID(fl.Field().Int()).Valid()
	})

	return v
}

// FieldMessage renders a single validation failure for API clients.
func FieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "username":
		return "must be between 1 and 50 characters and not blank"
	case "gender":
		return "must be one of: male, female"
	case "project":
		return "must be one of: 1, 2, 3"
	}
	return "failed on the '" + fe.Tag() + "' rule"
}
