package schema

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Validation error kinds. FieldError wraps one of these so callers can
// both errors.Is against the kind and recover the offending field name.
var (
	ErrMissingRequiredField     = errors.New("missing required field")
	ErrFieldConstraintViolation = errors.New("field constraint violation")
	ErrInvalidChoice            = errors.New("invalid choice")
)

// FieldError is a validation failure for a single attribute.
type FieldError struct {
	Field  string
	Kind   error
	Detail string
}

func (e *FieldError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Field, e.Kind, e.Detail)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// kindName maps an error kind to its wire name so API clients can branch
// on the taxonomy instead of parsing messages.
func kindName(err error) string {
	switch {
	case errors.Is(err, ErrMissingRequiredField):
		return "MissingRequiredField"
	case errors.Is(err, ErrInvalidChoice):
		return "InvalidChoice"
	case errors.Is(err, ErrFieldConstraintViolation):
		return "FieldConstraintViolation"
	case err != nil:
		return err.Error()
	default:
		return ""
	}
}

// MarshalJSON emits the kind as its taxonomy name. The error value itself
// has no exported fields and would otherwise marshal as an empty object.
func (e *FieldError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Field  string `json:"field"`
		Kind   string `json:"kind"`
		Detail string `json:"detail,omitempty"`
	}{e.Field, kindName(e.Kind), e.Detail})
}

// Result collects the outcome of validating a payload against a schema.
type Result struct {
	Errors []*FieldError
}

func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Err flattens the result into a single error, or nil when valid.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, fe := range r.Errors {
		errs[i] = fe
	}
	return errors.Join(errs...)
}
