package ir

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// literalEscaper escapes the characters the dialect reserves inside
// single-quoted string literals.
var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	"\b", `\b`,
	"\f", `\f`,
)

// Text renders the body of a value as it appears between the quotes of a
// string literal. Strings are NFC-normalized and escaped; other scalars use
// their plain textual form. Arrays render as a comma separated list of
// literals.
func Text(v Value) string {
	switch val := v.(type) {
	case nil, Null:
		return "null"
	case String:
		return literalEscaper.Replace(norm.NFC.String(string(val)))
	case Int:
		return fmt.Sprintf("%d", int64(val))
	case Number:
		return string(val)
	case Bool:
		if val {
			return "true"
		}
		return "false"
	case Array:
		parts := make([]string, len(val))
		for i, elem := range val {
			parts[i] = Literal(elem)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Literal renders a value using the dialect's own literal syntax: strings
// are single quoted, numbers and booleans are bare, null is the keyword and
// arrays are parenthesized lists.
func Literal(v Value) string {
	switch val := v.(type) {
	case String:
		return "'" + Text(val) + "'"
	case Array:
		return "(" + Text(val) + ")"
	default:
		return Text(v)
	}
}
