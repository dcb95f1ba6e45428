package validation

import (
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required": "{field} is required",
		"notblank": "{field} is required",
		"gte":      "{field} must be greater than or equal to {param}",
		"lte":      "{field} must be less than or equal to {param}",
		"oneof":    "{field} must be one of {param}",
		"max":      "{field} must be at most {param} characters",
		"min":      "{field} must be at least {param} characters",
		"email":    "{field} must be a valid email address",
		"hhmm":     "{field} must be a time in HH:MM format",
		"unique":   "{field} must not contain duplicates",
	}

	// collections count entries, not characters
	sliceMessages = map[string]string{
		"max": "{field} must have at most {param} entries",
		"min": "{field} must have at least {param} entries",
	}
)

func message(valErr val.FieldError, field string) string {
	msg := messages[valErr.Tag()]
	if k := valErr.Kind(); k == reflect.Slice || k == reflect.Array {
		if m, ok := sliceMessages[valErr.Tag()]; ok {
			msg = m
		}
	}
	if msg == "" {
		return valErr.Error()
	}
	msg = strings.ReplaceAll(msg, "{field}", field)
	msg = strings.ReplaceAll(msg, "{param}", valErr.Param())
	return msg
}
