package querysoql

import "strings"

// AssembleWhere joins conjunction-prefixed predicate fragments into a where
// clause, dropping the redundant leading conjunction. It is never called
// for an empty list.
func AssembleWhere(fragments []string) string {
	return assemble("where", textFragments(fragments)).SQL
}

// AssembleHaving mirrors AssembleWhere for the having clause. Having
// predicates use the same dialect path as where predicates, so bound
// values appear as the quoted placeholder '?' here too rather than a bare
// ? marker.
func AssembleHaving(fragments []string) string {
	return assemble("having", textFragments(fragments)).SQL
}

// assemble joins fragments after keyword, keeping placeholder offsets.
func assemble(keyword string, fragments []Fragment) Fragment {
	return trimLeadingBoolean(joinFragments(fragments, " ")).prefix(keyword + " ")
}

func textFragments(fragments []string) []Fragment {
	out := make([]Fragment, len(fragments))
	for i, f := range fragments {
		out[i] = Fragment{SQL: f}
	}
	return out
}

// trimLeadingBoolean drops one leading conjunction from f.
func trimLeadingBoolean(f Fragment) Fragment {
	trimmed := removeLeadingBoolean(f.SQL)
	return Fragment{SQL: trimmed, Bindings: f.Bindings, Placeholders: shift(f.Placeholders, len(trimmed)-len(f.SQL))}
}

// removeLeadingBoolean strips one leading "and " or "or " (any case).
func removeLeadingBoolean(s string) string {
	lower := strings.ToLower(s)
	for _, kw := range []string{"and ", "or "} {
		if strings.HasPrefix(lower, kw) {
			return s[len(kw):]
		}
	}
	return s
}
