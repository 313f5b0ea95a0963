package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by all handlers; validator caches struct metadata.
// Field errors report JSON names so messages match the request body.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Errors returned by DecodeJSON.
var (
	ErrEmptyBody     = errors.New("request body is empty")
	ErrMalformedBody = errors.New("malformed request body")
	ErrBodyTooLarge  = errors.New("request body too large")
)

// DecodeJSON decodes the request body into v. Unknown fields are rejected and
// trailing data after the first JSON value is an error.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return ErrEmptyBody
		case errors.As(err, &maxBytesErr):
			return fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, maxBytesErr.Limit)
		default:
			return fmt.Errorf("%w: %w", ErrMalformedBody, err)
		}
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON body", ErrMalformedBody)
	}
	return nil
}

// ValidateRequest validates v with its Validate method if it has one,
// otherwise with its struct tags.
func ValidateRequest(v any) error {
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}
	return validate.Struct(v)
}
