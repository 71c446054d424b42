package schema

import (
	"fmt"
	"strings"

	"github.com/roach88/soql/internal/naming"
)

// Validation error codes (E200-E299)
const (
	ErrNoFields        = "E201" // object declares no fields
	ErrDuplicateField  = "E202" // field listed twice
	ErrDuplicateObject = "E203" // object names collide case-insensitively
	ErrInvalidName     = "E204" // name is empty or contains quoting/whitespace
)

// ValidationError represents an object definition problem.
type ValidationError struct {
	Object  string `json:"object"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s.%s: %s", e.Code, e.Object, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Object, e.Message)
}

// Validate checks loaded objects. Returns all errors found (does not
// fail-fast).
func Validate(objects []Object) []ValidationError {
	var errs []ValidationError
	seen := map[string]string{}

	for _, obj := range objects {
		if !validName(obj.Name) {
			errs = append(errs, ValidationError{
				Object:  obj.Name,
				Message: "object name must be a bare identifier",
				Code:    ErrInvalidName,
			})
		}

		key := naming.Fold(obj.Name)
		if prev, ok := seen[key]; ok {
			errs = append(errs, ValidationError{
				Object:  obj.Name,
				Message: fmt.Sprintf("collides with object %q", prev),
				Code:    ErrDuplicateObject,
			})
		}
		seen[key] = obj.Name

		if len(obj.Fields) == 0 {
			errs = append(errs, ValidationError{
				Object:  obj.Name,
				Message: "at least one field is required",
				Code:    ErrNoFields,
			})
		}

		fields := map[string]bool{}
		for _, f := range obj.Fields {
			if !validName(f) {
				errs = append(errs, ValidationError{
					Object:  obj.Name,
					Field:   f,
					Message: "field name must be a bare identifier",
					Code:    ErrInvalidName,
				})
			}
			k := naming.Fold(f)
			if fields[k] {
				errs = append(errs, ValidationError{
					Object:  obj.Name,
					Field:   f,
					Message: "duplicate field",
					Code:    ErrDuplicateField,
				})
			}
			fields[k] = true
		}
	}

	return errs
}

// validName rejects names the dialect cannot express: empty, quoted, or
// containing whitespace or commas. Dotted relationship paths are allowed.
func validName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, "`'\" \t\n,()")
}
