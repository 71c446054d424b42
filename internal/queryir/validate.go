package queryir

import (
	"fmt"
	"strings"
)

// ValidationResult contains the dialect lint of a query.
type ValidationResult struct {
	// IsPortable indicates the query compiles to text the dialect accepts
	// without surprises. True means no warnings were raised.
	IsPortable bool

	// Warnings lists dialect hazards found in the query.
	// Empty when IsPortable is true.
	Warnings []string
}

// Validate checks a query for constructs the dialect handles differently
// from standard SQL.
//
// Lint rules:
//  1. From is required
//  2. Operators outside KnownOperators are rendered verbatim
//  3. Distinct only applies to aggregates
//  4. The lock flag is ignored
//  5. Limit and Offset must be non-negative
//  6. Joins need a related object name
//  7. In lists should not be empty
//
// Queries with warnings still compile. Validate is a pure function with no
// side effects.
func Validate(query Query) ValidationResult {
	v := &validator{
		warnings: []string{},
	}
	v.validateQuery(query)

	return ValidationResult{
		IsPortable: len(v.warnings) == 0,
		Warnings:   v.warnings,
	}
}

// validator accumulates warnings during traversal.
type validator struct {
	warnings []string
}

// addWarning appends a warning message.
func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	if strings.TrimSpace(q.From) == "" {
		v.addWarning("Missing from object - the dialect requires a from clause")
	}

	if q.Distinct && q.Aggregate == nil {
		v.addWarning("Distinct without aggregate - the dialect has no select distinct")
	}

	if q.Lock {
		v.addWarning("Lock requested - the dialect ignores row locks")
	}

	if q.Limit != nil && *q.Limit < 0 {
		v.addWarning("Negative limit %d", *q.Limit)
	}
	if q.Offset != nil && *q.Offset < 0 {
		v.addWarning("Negative offset %d", *q.Offset)
	}

	for i, join := range q.Joins {
		if strings.TrimSpace(join.Table) == "" {
			v.addWarning("Join %d has no related object", i)
		}
	}

	for _, pred := range q.Wheres {
		v.validatePredicate(pred)
	}
	for _, pred := range q.Havings {
		v.validatePredicate(pred)
	}
}

// validatePredicate recursively validates a predicate node.
func (v *validator) validatePredicate(p Predicate) {
	if p == nil {
		v.addWarning("nil predicate")
		return
	}

	switch pred := p.(type) {
	case Basic:
		v.validateBasic(pred)
	case *Basic:
		v.validateBasic(*pred)
	case In:
		v.validateIn(pred)
	case *In:
		v.validateIn(*pred)
	case Nested:
		v.validateNested(pred)
	case *Nested:
		v.validateNested(*pred)
	case Null, *Null, Raw, *Raw:
		// Always accepted
	default:
		v.addWarning("Unknown predicate type: %T", p)
	}
}

func (v *validator) validateBasic(b Basic) {
	op := Operator(strings.ToLower(strings.TrimSpace(string(b.Operator))))
	if !KnownOperators[op] {
		v.addWarning("Field '%s' uses unknown operator %q - rendered verbatim", b.Column, b.Operator)
	}
	if b.Value == nil {
		v.addWarning("Field '%s' has no value", b.Column)
	}
}

func (v *validator) validateIn(in In) {
	if len(in.Values) == 0 {
		v.addWarning("Field '%s' compared against an empty list", in.Column)
	}
}

func (v *validator) validateNested(n Nested) {
	if len(n.Predicates) == 0 {
		v.addWarning("Empty nested predicate group is dropped")
	}
	for _, sub := range n.Predicates {
		v.validatePredicate(sub)
	}
}
