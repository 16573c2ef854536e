package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"reflect"
	"slices"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes caps JSON request bodies. ID tokens are a couple of KB.
const maxBodyBytes = 64 << 10

// validate is safe for concurrent use and caches struct metadata.
var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("nocontrol", noControl)
	return v
}

// noControl rejects strings carrying control characters (newlines, escapes,
// NUL). Values that end up in line-oriented files must be single line.
func noControl(fl validator.FieldLevel) bool {
	return strings.IndexFunc(fl.Field().String(), unicode.IsControl) < 0
}

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, e.Fields[field])
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

// DecodeJSON reads a JSON body into dst and runs its `validate` tags.
// An empty body decodes as {} so optional-only payloads still validate.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode body: %w", err)
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return newValidationError(verrs)
		}
		return err
	}
	return nil
}

func newValidationError(errs validator.ValidationErrors) *ValidationError {
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = fe.Field() + " is required"
		case "max":
			fields[fe.Field()] = fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		case "ip":
			fields[fe.Field()] = fe.Field() + " must be an IP address"
		case "nocontrol":
			fields[fe.Field()] = fe.Field() + " must not contain control characters"
		default:
			fields[fe.Field()] = fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
		}
	}
	return &ValidationError{Fields: fields}
}
