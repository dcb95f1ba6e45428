// Package validation turns struct tag validation into user-visible field
// errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	val "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Error is a user-visible validation failure for a single field.
type Error struct {
	Field   string `json:"field"`
	Message string `json:"error"`
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func New(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

// AsError extracts a validation error from err.
func AsError(err error) (*Error, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// TimeSlotsRule accepts a non-empty list of distinct HH:MM start times.
const TimeSlotsRule = "required,min=1,unique,dive,hhmm"

var (
	validate    *val.Validate
	hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// decimals validate as numbers
	validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		d, ok := v.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		f, _ := d.Float64()
		return f
	}, decimal.Decimal{})

	if err := validate.RegisterValidation("hhmm", func(fl val.FieldLevel) bool {
		return hhmmPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	if err := validate.RegisterValidation("notblank", func(fl val.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}
}

// Struct validates data and returns the first failing field as *Error.
func Struct(data interface{}) error {
	if err := validate.Struct(data); err != nil {
		return toError(err, "")
	}
	return nil
}

// Var validates a single value under the given field name.
func Var(field string, value interface{}, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		return toError(err, field)
	}
	return nil
}

func toError(err error, field string) error {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		return err
	}
	for _, valErr := range valErrors {
		name := field
		if name == "" {
			name = valErr.Field()
		}
		return New(name, message(valErr, name))
	}
	return New(field, valErrors.Error())
}
