// Package binding substitutes bound values into compiled dialect text.
//
// The grammar emits every bound value as the quoted placeholder '?' and
// records where each one lands. Bind replaces the tokens at those offsets,
// producing text the remote query API accepts directly. Literal text that
// happens to read '?' is never touched.
package binding

import (
	"fmt"
	"strings"

	"github.com/roach88/soql/internal/ir"
)

const placeholder = "'?'"

// MismatchError reports a placeholder/value count disagreement.
type MismatchError struct {
	Placeholders int
	Values       int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("binding mismatch: %d placeholders, %d values", e.Placeholders, e.Values)
}

// PositionError reports an offset that does not point at a placeholder.
type PositionError struct {
	Offset int
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("binding: no placeholder at offset %d", e.Offset)
}

// Bind replaces the placeholder at each offset with the matching value:
// strings, numbers and booleans become '<text>', null replaces the whole
// token with null, arrays become a parenthesized literal list.
//
// Offsets must be ascending, as returned by the compiler.
func Bind(soql string, positions []int, values []ir.Value) (string, error) {
	if len(positions) != len(values) {
		return "", &MismatchError{Placeholders: len(positions), Values: len(values)}
	}
	if len(positions) == 0 {
		return soql, nil
	}

	var b strings.Builder
	b.Grow(len(soql))
	last := 0
	for i, pos := range positions {
		if pos < last || pos > len(soql) || !strings.HasPrefix(soql[pos:], placeholder) {
			return "", &PositionError{Offset: pos}
		}
		b.WriteString(soql[last:pos])
		b.WriteString(render(values[i]))
		last = pos + len(placeholder)
	}
	b.WriteString(soql[last:])
	return b.String(), nil
}

func render(v ir.Value) string {
	switch v.(type) {
	case nil, ir.Null:
		return "null"
	case ir.Array:
		return ir.Literal(v)
	default:
		return "'" + ir.Text(v) + "'"
	}
}
