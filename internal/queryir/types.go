package queryir

import "github.com/roach88/soql/internal/ir"

// Query is the root structure handed to the grammar by a query builder.
//
// Attribute absence is meaningful: a nil Aggregate, Limit or Offset and an
// empty slice all mean "this clause is not present", which is different from
// a present-but-trivial value (Limit of 0 still renders "limit 0").
//
// The grammar treats a Query as read-only for the duration of one
// compilation and never retains it afterwards.
//
// Example (conceptual dialect translation):
//
//	Query{
//	  From:    "Account",
//	  Columns: []string{"Id", "Name"},
//	  Joins:   []Join{{Table: "Contact"}},
//	  Wheres: []Predicate{
//	    Basic{Column: "Name", Operator: OpNotLike, Value: Param{Value: ir.String("%Corp%")}},
//	  },
//	}
//
// Translates to:
//
//	select Id, Name , (select Id,Email from Contacts) from Account where (not Name like '%Corp%')
type Query struct {
	From      string      // Object name (e.g., "Account")
	Distinct  bool        // Row distinctness; only honored by aggregates
	Aggregate *Aggregate  // Aggregate selection (nil = plain select)
	Columns   []string    // Selected columns (empty = all)
	Joins     []Join      // Child relationships, rendered as subqueries
	Wheres    []Predicate // Filter predicates in declaration order
	Groups    []string    // Group-by columns
	Havings   []Predicate // Having predicates
	Orders    []Order     // Sort specification
	Limit     *int        // Row limit (nil = none)
	Offset    *int        // Row offset (nil = none)
	Lock      bool        // Row lock request; the dialect ignores it
}

// Aggregate describes a single aggregate-function selection.
type Aggregate struct {
	Function string   // count, sum, avg, max, min, ...
	Columns  []string // Columns to aggregate ("*" = all columns)
}

// Join describes a child relationship to expand.
//
// The dialect has no join syntax at the top level; every Join becomes a
// correlated subquery selecting the related object's fields.
type Join struct {
	Table   string   // Related object name (e.g., "Contact")
	Columns []string // Explicit field subset (empty = all fields)
}

// Order describes one sort key.
type Order struct {
	Column    string
	Direction Direction
	Nulls     NullsOrder
}

// Direction is the sort direction of an Order.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// NullsOrder places nulls first or last. Empty leaves the dialect default.
type NullsOrder string

const (
	NullsFirst NullsOrder = "first"
	NullsLast  NullsOrder = "last"
)

// Boolean is the conjunction joining a predicate to the one before it.
// The zero value is treated as And.
type Boolean string

const (
	And Boolean = "and"
	Or  Boolean = "or"
)

// Keyword returns the rendered conjunction, defaulting to "and".
func (b Boolean) Keyword() string {
	if b == "" {
		return string(And)
	}
	return string(b)
}

// Operator is a comparison operator as supplied by the query builder.
// Operators are rendered verbatim; unknown operators are not rejected.
type Operator string

const (
	OpEQ       Operator = "="
	OpNEQ      Operator = "!="
	OpLTGT     Operator = "<>"
	OpLT       Operator = "<"
	OpLTE      Operator = "<="
	OpGT       Operator = ">"
	OpGTE      Operator = ">="
	OpLike     Operator = "like"
	OpNotLike  Operator = "not like"
	OpIncludes Operator = "includes"
	OpExcludes Operator = "excludes"
)

// KnownOperators is the fixed operator set recognized by Validate.
var KnownOperators = map[Operator]bool{
	OpEQ: true, OpNEQ: true, OpLTGT: true,
	OpLT: true, OpLTE: true, OpGT: true, OpGTE: true,
	OpLike: true, OpNotLike: true,
	OpIncludes: true, OpExcludes: true,
}

// Predicate represents a filter condition in a where or having list.
//
// This is a sealed interface - only types in this package implement it.
// Every predicate carries its own Boolean conjunction, which is used only
// when predicates are concatenated.
//
// Predicate types:
//   - Basic: column <operator> value
//   - In: column [not] in (values)
//   - Null: column = null / column != null
//   - Nested: parenthesized predicate group
//   - Raw: verbatim text
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
	Conjunction() Boolean
}

// Basic is a column/operator/value comparison.
type Basic struct {
	Column   string
	Operator Operator
	Value    Operand
	Boolean  Boolean
}

func (Basic) predicateNode() {}

// Conjunction returns the predicate's boolean conjunction.
func (p Basic) Conjunction() Boolean { return p.Boolean }

// In is a membership test against a value list.
type In struct {
	Column  string
	Values  []Operand
	Not     bool
	Boolean Boolean
}

func (In) predicateNode() {}

// Conjunction returns the predicate's boolean conjunction.
func (p In) Conjunction() Boolean { return p.Boolean }

// Null compares a column with null.
type Null struct {
	Column  string
	Not     bool
	Boolean Boolean
}

func (Null) predicateNode() {}

// Conjunction returns the predicate's boolean conjunction.
func (p Null) Conjunction() Boolean { return p.Boolean }

// Nested groups predicates inside parentheses.
type Nested struct {
	Predicates []Predicate
	Boolean    Boolean
}

func (Nested) predicateNode() {}

// Conjunction returns the predicate's boolean conjunction.
func (p Nested) Conjunction() Boolean { return p.Boolean }

// Raw is emitted verbatim.
type Raw struct {
	SQL     string
	Boolean Boolean
}

func (Raw) predicateNode() {}

// Conjunction returns the predicate's boolean conjunction.
func (p Raw) Conjunction() Boolean { return p.Boolean }

// Operand is the right-hand side of a predicate.
//
// This is a sealed interface:
//   - Param: a bound value, rendered as a placeholder marker
//   - Literal: text emitted verbatim
type Operand interface {
	operandNode() // Marker method - seals interface to this package
}

// Param is a bound value. The grammar emits the placeholder marker in its
// place and returns the value as a binding.
type Param struct {
	Value ir.Value
}

func (Param) operandNode() {}

// Literal is dialect text emitted verbatim (e.g., "TODAY" or "'%Corp%'").
type Literal string

func (Literal) operandNode() {}

// IntPtr returns a pointer to n. Convenience for Limit and Offset.
func IntPtr(n int) *int {
	return &n
}
