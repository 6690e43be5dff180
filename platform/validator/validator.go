// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"vitrine_backend/platform/apperr"

	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// embeddedSegment names untagged embedded structs in a namespace so their
// fields report at the parent level, as encoding/json flattens them.
const embeddedSegment = "^"

// Validator wraps the go-playground validator for structured validation.
type Validator struct {
	v        *validator.Validate
	messages map[string]string
}

// New creates a Validator that reports JSON field names and knows the "slug" tag.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" && fld.Anonymous {
			return embeddedSegment
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})

	return &Validator{v: v, messages: map[string]string{}}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s any) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field any, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

// RegisterRule registers a custom tag together with the message reported when it fails.
func (val *Validator) RegisterRule(tag string, fn func(string) bool, msg string) error {
	if err := val.v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String())
	}); err != nil {
		return err
	}
	val.messages[tag] = msg
	return nil
}

// Check validates s and converts failures into an apperr validation error
// whose details are a field -> message map.
func (val *Validator) Check(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation(err.Error())
	}
	fields := FieldErrors(verrs)
	for _, fe := range verrs {
		if msg, ok := val.messages[fe.Tag()]; ok {
			fields[trimRoot(fe.Namespace())] = msg
		}
	}
	return apperr.ValidationFields(fields)
}

// FieldErrors flattens validator errors into a map keyed by JSON path
// ("features[2].label"), dropping the top-level struct name.
func FieldErrors(verrs validator.ValidationErrors) apperr.FieldErrors {
	fields := make(apperr.FieldErrors, len(verrs))
	for _, fe := range verrs {
		path := trimRoot(fe.Namespace())
		if _, exists := fields[path]; !exists {
			fields[path] = message(fe)
		}
	}
	return fields
}

func trimRoot(namespace string) string {
	namespace = strings.ReplaceAll(namespace, embeddedSegment+".", "")
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "slug":
		return "must contain only lowercase letters, digits and dashes"
	case "min":
		if isNumeric(fe.Kind()) {
			return fmt.Sprintf("must be at least %s", fe.Param())
		}
		return fmt.Sprintf("must contain at least %s characters or items", fe.Param())
	case "max":
		if isNumeric(fe.Kind()) {
			return fmt.Sprintf("must be at most %s", fe.Param())
		}
		return fmt.Sprintf("must contain at most %s characters or items", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
