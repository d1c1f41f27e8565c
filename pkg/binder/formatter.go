package binder

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/segmentio/encoding/json"
)

const (
	email    = "email"
	gt       = "gt"
	gte      = "gte"
	mx       = "max"
	mn       = "min"
	oneof    = "oneof"
	required = "required"
	slugTag  = "slug"
	urlTag   = "url"
)

func formatUnmarshalTypeError(err *json.UnmarshalTypeError) string {
	return fmt.Sprintf("%q should be of type %s", strings.Trim(err.Field, "."), err.Type)
}

func formatSchemaConversionError(err schema.ConversionError) string {
	return fmt.Sprintf("%q should be of type %s", err.Key, err.Type)
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case required:
		return fmt.Sprintf("%q is required", field)
	case email:
		return fmt.Sprintf("%q is not a valid email", field)
	case slugTag:
		return fmt.Sprintf("%q may only contain lowercase letters, digits and dashes", field)
	case urlTag:
		return fmt.Sprintf("%q must be an http(s) URL or an absolute path", field)
	case oneof:
		valid := strings.Fields(err.Param())
		for i, v := range valid {
			valid[i] = fmt.Sprintf("%q", v)
		}
		return fmt.Sprintf("%q must be one of the following: %s", field, strings.Join(valid, ", "))
	case gt:
		return fmt.Sprintf("%q must be greater than %s", field, err.Param())
	case gte:
		return fmt.Sprintf("%q must be greater than or equal to %s", field, err.Param())
	case mn:
		return formatBound(field, err, "greater than or equal to")
	case mx:
		return formatBound(field, err, "less than or equal to")
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}

// formatBound words min/max for numbers as a value bound and for strings and
// slices as a length bound.
func formatBound(field string, err validator.FieldError, relation string) string {
	param := err.Param()

	var unit string
	//exhaustive:ignore
	switch err.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%q must be %s %s", field, relation, param)
	case reflect.Slice, reflect.Map:
		unit = "element"
	default:
		unit = "character"
	}
	if param != "1" {
		unit += "s"
	}
	return fmt.Sprintf("%q length must be %s %s %s", field, relation, param, unit)
}
