package querysoql

import "strings"

// identifierQuote is the quoting character standard grammars wrap
// identifiers in. The dialect has no quoted identifier syntax.
const identifierQuote = "`"

// Format returns the emitted form of an identifier. The dialect needs no
// quoting, so this is the identity.
func Format(name string) string {
	return name
}

// Unformat removes every identifier quote from text.
func Unformat(text string) string {
	return strings.ReplaceAll(text, identifierQuote, "")
}

// columnize renders a column list with ", " separators. An empty list is
// the wildcard.
func columnize(columns []string) string {
	if len(columns) == 0 {
		return "*"
	}
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = Format(col)
	}
	return strings.Join(parts, ", ")
}
