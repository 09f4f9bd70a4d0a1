package binder

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/lyflibrary/catalog/pkg/models"
	"github.com/segmentio/encoding/json"
)

const (
	date     = "date"
	length   = "len"
	status   = "loanstatus"
	mx       = "max"
	mn       = "min"
	oneof    = "oneof"
	required = "required"
)

func formatUnmarshalTypeError(err *json.UnmarshalTypeError) string {
	return fmt.Sprintf("%q should be of type %s", strings.Trim(err.Field, "."), err.Type)
}

func formatSchemaConversionError(err schema.ConversionError) string {
	return fmt.Sprintf("%q should be of type %s", err.Key, err.Type)
}

func quoted(values []string) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(out, ", ")
}

// unit names what a length bound counts: characters for strings, elements
// for slices, and nothing for numbers.
func unit(kind reflect.Kind, param string) (string, bool) {
	var u string
	//exhaustive:ignore
	switch kind {
	case reflect.String:
		u = "character"
	case reflect.Slice, reflect.Array:
		u = "element"
	default:
		return "", false
	}
	if param != "1" {
		u += "s"
	}
	return u, true
}

func formatBound(field string, err validator.FieldError, comparison string) string {
	if u, ok := unit(err.Kind(), err.Param()); ok {
		return fmt.Sprintf("%q length must be %s %s %s", field, comparison, err.Param(), u)
	}
	return fmt.Sprintf("%q must be %s %s", field, comparison, err.Param())
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case date:
		return fmt.Sprintf("%q should be in the format of YYYY-MM-DD", field)
	case length:
		return formatBound(field, err, "exactly")
	case status:
		codes := make([]string, len(models.LoanStatuses))
		for i, s := range models.LoanStatuses {
			codes[i] = string(s)
		}
		return fmt.Sprintf("%q must be one of the following: %s", field, quoted(codes))
	case mx:
		return formatBound(field, err, "less than or equal to")
	case mn:
		return formatBound(field, err, "greater than or equal to")
	case oneof:
		return fmt.Sprintf("%q must be one of the following: %s", field, quoted(strings.Fields(err.Param())))
	case required:
		return fmt.Sprintf("%q is required", field)
	default:
		return fmt.Sprintf("%q failed the %q check", field, err.Tag())
	}
}
