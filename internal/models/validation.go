package models

import (
	"errors"
	"strconv"
	"strings"
)

// ValidationError is one rejected field of an emission or set. Field is a
// dotted path such as "emissions[2].start_offset_ms".
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (v ValidationError) Error() string {
	if v.Field == "" {
		return v.Message
	}
	return v.Field + ": " + v.Message
}

// ValidationErrors collects every problem found by Validate so callers can
// report them together instead of one at a time.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Add records err under field. Errors that are themselves ValidationErrors
// are flattened with field as the prefix of each nested path.
func (v *ValidationErrors) Add(field string, err error) {
	if err == nil {
		return
	}
	var nested *ValidationErrors
	if !errors.As(err, &nested) {
		v.Errors = append(v.Errors, ValidationError{Field: field, Message: err.Error(), Cause: err})
		return
	}
	for _, sub := range nested.Errors {
		sub.Field = fieldPath(field, sub.Field)
		v.Errors = append(v.Errors, sub)
	}
}

// AddMessage records a failure that has no sentinel error behind it.
func (v *ValidationErrors) AddMessage(field, message string) {
	if message == "" {
		return
	}
	v.Errors = append(v.Errors, ValidationError{Field: field, Message: message})
}

// AddEmission nests the result of validating the i-th emission of a set.
func (v *ValidationErrors) AddEmission(i int, err error) {
	v.Add(EmissionField(i), err)
}

// AddEmissionMessage records a failure for the i-th emission slot itself.
func (v *ValidationErrors) AddEmissionMessage(i int, message string) {
	v.AddMessage(EmissionField(i), message)
}

// Err returns v as an error, or nil when nothing was recorded.
func (v *ValidationErrors) Err() error {
	if v == nil || len(v.Errors) == 0 {
		return nil
	}
	return v
}

func (v *ValidationErrors) Error() string {
	if v == nil || len(v.Errors) == 0 {
		return "invalid emission set"
	}
	parts := make([]string, len(v.Errors))
	for i, err := range v.Errors {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "; ")
}

// Is reports whether any recorded cause matches target, so
// errors.Is(set.Validate(), ErrNegativeOffset) works through nesting.
func (v *ValidationErrors) Is(target error) bool {
	if v == nil {
		return false
	}
	for _, err := range v.Errors {
		if err.Cause != nil && errors.Is(err.Cause, target) {
			return true
		}
	}
	return false
}

// EmissionField is the path prefix used for the i-th emission of a set.
func EmissionField(i int) string {
	return "emissions[" + strconv.Itoa(i) + "]"
}

func fieldPath(prefix, field string) string {
	if prefix == "" {
		return field
	}
	if field == "" {
		return prefix
	}
	return prefix + "." + field
}
