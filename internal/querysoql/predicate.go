package querysoql

import (
	"fmt"
	"strings"

	"github.com/roach88/soql/internal/ir"
	"github.com/roach88/soql/internal/queryir"
)

// Placeholder is the quoted placeholder marker emitted for every bound
// value. The dialect needs string-literal syntax around the position the
// binding step fills, whatever the value's type.
const Placeholder = "'?'"

// negatedLike is matched case-insensitively as a substring of the
// operator to select prefix-negation rendering.
const negatedLike = "not like"

// CompilePredicate renders one predicate without its conjunction and
// returns the values bound to its placeholders, in placeholder order.
// A nil predicate renders as the empty string.
func (c *Compiler) CompilePredicate(q queryir.Query, p queryir.Predicate) (string, []ir.Value) {
	f := c.predicate(q, p)
	return f.SQL, f.Bindings
}

func (c *Compiler) predicate(q queryir.Query, p queryir.Predicate) Fragment {
	if isNilPredicate(p) {
		return Fragment{}
	}

	switch pred := p.(type) {
	case queryir.Basic:
		return c.compileBasic(pred)
	case *queryir.Basic:
		return c.compileBasic(*pred)
	case queryir.In:
		return c.compileIn(pred)
	case *queryir.In:
		return c.compileIn(*pred)
	case queryir.Null:
		return Fragment{SQL: compileNull(pred)}
	case *queryir.Null:
		return Fragment{SQL: compileNull(*pred)}
	case queryir.Nested:
		return c.compileNested(q, pred)
	case *queryir.Nested:
		return c.compileNested(q, *pred)
	case queryir.Raw:
		return Fragment{SQL: pred.SQL}
	case *queryir.Raw:
		return Fragment{SQL: pred.SQL}
	default:
		return Fragment{}
	}
}

// IsNegatedLike reports whether op selects the prefix-negation path.
func IsNegatedLike(op queryir.Operator) bool {
	return strings.Contains(strings.ToLower(string(op)), negatedLike)
}

// compileBasic renders column/operator/value comparisons.
//
// Negated pattern matches become (not <column> like <value>) with the
// value inlined as a dialect literal. Every other operator is rendered
// as <column> <operator> '?'.
func (c *Compiler) compileBasic(b queryir.Basic) Fragment {
	if IsNegatedLike(b.Operator) {
		return Fragment{SQL: fmt.Sprintf("(not %s like %s)", Format(b.Column), formatInline(b.Value))}
	}

	op := strings.TrimSpace(string(b.Operator))
	return renderOperand(b.Value).prefix(Unformat(b.Column) + " " + op + " ")
}

// compileIn renders membership tests with one placeholder per value.
func (c *Compiler) compileIn(in queryir.In) Fragment {
	keyword := "in"
	if in.Not {
		keyword = "not in"
	}

	parts := make([]Fragment, 0, len(in.Values))
	for _, v := range in.Values {
		parts = append(parts, renderOperand(v))
	}

	return joinFragments(parts, ", ").prefix(Unformat(in.Column) + " " + keyword + " (").suffix(")")
}

// compileNull renders the dialect's null comparison.
func compileNull(n queryir.Null) string {
	if n.Not {
		return Unformat(n.Column) + " != null"
	}
	return Unformat(n.Column) + " = null"
}

// compileNested renders a parenthesized predicate group. A group with
// nothing inside renders as nothing.
func (c *Compiler) compileNested(q queryir.Query, n queryir.Nested) Fragment {
	inner := c.compilePredicateList(q, n.Predicates)
	if len(inner) == 0 {
		return Fragment{}
	}
	return trimLeadingBoolean(joinFragments(inner, " ")).prefix("(").suffix(")")
}

// compilePredicateList renders each predicate prefixed with its
// conjunction keyword, e.g. "and Name = '?'". Predicates that render
// empty are dropped.
func (c *Compiler) compilePredicateList(q queryir.Query, preds []queryir.Predicate) []Fragment {
	fragments := make([]Fragment, 0, len(preds))
	for _, p := range preds {
		if isNilPredicate(p) {
			continue
		}
		f := c.predicate(q, p)
		if f.SQL == "" {
			continue
		}
		fragments = append(fragments, f.prefix(p.Conjunction().Keyword()+" "))
	}
	return fragments
}

// renderOperand renders the right-hand side on the standard path.
func renderOperand(op queryir.Operand) Fragment {
	switch v := op.(type) {
	case queryir.Param:
		return placeholderFragment(v.Value)
	case *queryir.Param:
		if v != nil {
			return placeholderFragment(v.Value)
		}
	case queryir.Literal:
		return Fragment{SQL: Unformat(string(v))}
	case *queryir.Literal:
		if v != nil {
			return Fragment{SQL: Unformat(string(*v))}
		}
	}
	// Missing operand: bind null so placeholder and binding counts agree.
	return placeholderFragment(ir.Null{})
}

// formatInline renders the right-hand side on the negated-pattern path.
// Params are inlined as literals; nothing is bound.
func formatInline(op queryir.Operand) string {
	switch v := op.(type) {
	case queryir.Param:
		return Format(ir.Literal(v.Value))
	case *queryir.Param:
		if v != nil {
			return Format(ir.Literal(v.Value))
		}
	case queryir.Literal:
		return Format(string(v))
	case *queryir.Literal:
		if v != nil {
			return Format(string(*v))
		}
	}
	return "null"
}

// isNilPredicate reports a nil interface or a typed nil pointer.
func isNilPredicate(p queryir.Predicate) bool {
	switch v := p.(type) {
	case nil:
		return true
	case *queryir.Basic:
		return v == nil
	case *queryir.In:
		return v == nil
	case *queryir.Null:
		return v == nil
	case *queryir.Nested:
		return v == nil
	case *queryir.Raw:
		return v == nil
	default:
		return false
	}
}

// findNilPredicate returns the path of the first nil predicate, or "".
func findNilPredicate(preds []queryir.Predicate, path string) string {
	for i, p := range preds {
		here := fmt.Sprintf("%s[%d]", path, i)
		if isNilPredicate(p) {
			return here
		}
		var inner []queryir.Predicate
		switch n := p.(type) {
		case queryir.Nested:
			inner = n.Predicates
		case *queryir.Nested:
			inner = n.Predicates
		}
		if found := findNilPredicate(inner, here); found != "" {
			return found
		}
	}
	return ""
}
