// Package schema loads object descriptions from CUE files.
//
// An object definition lists the fields a relationship subquery selects
// when no explicit subset is requested:
//
//	object: Account: fields: ["Id", "Name", "Industry"]
//	object: Contact: {
//		fields: ["Id", "Email"]
//		label:  "Contact"
//		plural: "Contacts"
//	}
//
// plural overrides the relationship name produced by the pluralizer.
package schema

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Object is one described remote object.
type Object struct {
	Name   string   `json:"name"`
	Label  string   `json:"label,omitempty"`
	Plural string   `json:"plural,omitempty"`
	Fields []string `json:"fields"`
}

// CompileObject parses a CUE value into an Object.
//
// The CUE value should be the object struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`object: Account: fields: ["Id"]`)
//	obj, err := CompileObject(v.LookupPath(cue.ParsePath("object.Account")))
func CompileObject(v cue.Value) (*Object, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	obj := &Object{}

	labels := v.Path().Selectors()
	if len(labels) > 0 {
		obj.Name = labels[len(labels)-1].Unquoted()
	}

	fieldsVal := v.LookupPath(cue.ParsePath("fields"))
	if !fieldsVal.Exists() {
		return nil, &CompileError{
			Field:   "fields",
			Message: "fields is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := fieldsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	obj.Fields = []string{}
	for iter.Next() {
		name, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{
				Field:   "fields",
				Message: fmt.Sprintf("field names must be strings: %v", err),
				Pos:     iter.Value().Pos(),
			}
		}
		obj.Fields = append(obj.Fields, name)
	}

	if obj.Label, err = optionalString(v, "label"); err != nil {
		return nil, err
	}
	if obj.Plural, err = optionalString(v, "plural"); err != nil {
		return nil, err
	}

	return obj, nil
}

func optionalString(v cue.Value, path string) (string, error) {
	sv := v.LookupPath(cue.ParsePath(path))
	if !sv.Exists() {
		return "", nil
	}
	s, err := sv.String()
	if err != nil {
		return "", &CompileError{
			Field:   path,
			Message: fmt.Sprintf("%s must be a string", path),
			Pos:     sv.Pos(),
		}
	}
	return s, nil
}

// CompileError is an object definition error with its CUE position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
