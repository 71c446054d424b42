package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Clean(t *testing.T) {
	errs := Validate([]Object{
		{Name: "Account", Fields: []string{"Id", "Name", "Owner.Name"}},
		{Name: "Contact", Fields: []string{"Id", "Email"}},
	})
	assert.Empty(t, errs)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		object Object
		code   string
	}{
		{"no fields", Object{Name: "Note"}, ErrNoFields},
		{"duplicate field", Object{Name: "Lead", Fields: []string{"Id", "id"}}, ErrDuplicateField},
		{"quoted field", Object{Name: "Lead", Fields: []string{"`Id`"}}, ErrInvalidName},
		{"spaced object", Object{Name: "My Lead", Fields: []string{"Id"}}, ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate([]Object{tt.object})
			require.Len(t, errs, 1)
			assert.Equal(t, tt.code, errs[0].Code)
		})
	}
}

func TestValidate_DuplicateObject(t *testing.T) {
	errs := Validate([]Object{
		{Name: "Account", Fields: []string{"Id"}},
		{Name: "ACCOUNT", Fields: []string{"Id"}},
	})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrDuplicateObject, errs[0].Code)
	assert.Contains(t, errs[0].Error(), `collides with object "Account"`)
}

func TestValidationError_Format(t *testing.T) {
	e := ValidationError{Object: "Lead", Field: "Id", Message: "duplicate field", Code: ErrDuplicateField}
	assert.Equal(t, "[E202] Lead.Id: duplicate field", e.Error())

	e = ValidationError{Object: "Note", Message: "at least one field is required", Code: ErrNoFields}
	assert.Equal(t, "[E201] Note: at least one field is required", e.Error())
}
