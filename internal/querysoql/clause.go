package querysoql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/soql/internal/ir"
	"github.com/roach88/soql/internal/metadata"
	"github.com/roach88/soql/internal/queryir"
)

// ClauseKind names one clause of a compiled query.
type ClauseKind int

const (
	ClauseAggregate ClauseKind = iota
	ClauseColumns
	ClauseJoins
	ClauseFrom
	ClauseWheres
	ClauseGroups
	ClauseHavings
	ClauseOrders
	ClauseLimit
	ClauseOffset
	ClauseLock
)

// ClauseOrder is the fixed dialect order. Reordering it produces invalid
// queries.
var ClauseOrder = []ClauseKind{
	ClauseAggregate,
	ClauseColumns,
	ClauseJoins,
	ClauseFrom,
	ClauseWheres,
	ClauseGroups,
	ClauseHavings,
	ClauseOrders,
	ClauseLimit,
	ClauseOffset,
	ClauseLock,
}

var clauseNames = [...]string{
	ClauseAggregate: "aggregate",
	ClauseColumns:   "columns",
	ClauseJoins:     "joins",
	ClauseFrom:      "from",
	ClauseWheres:    "wheres",
	ClauseGroups:    "groups",
	ClauseHavings:   "havings",
	ClauseOrders:    "orders",
	ClauseLimit:     "limit",
	ClauseOffset:    "offset",
	ClauseLock:      "lock",
}

// String returns the clause name.
func (k ClauseKind) String() string {
	if k >= 0 && int(k) < len(clauseNames) {
		return clauseNames[k]
	}
	return "clause(" + strconv.Itoa(int(k)) + ")"
}

// present reports whether the query attribute behind a clause is set.
// Columns are implied unless an aggregate replaces the select list.
func present(kind ClauseKind, q queryir.Query) bool {
	switch kind {
	case ClauseAggregate:
		return q.Aggregate != nil
	case ClauseColumns:
		return q.Aggregate == nil
	case ClauseJoins:
		return len(q.Joins) > 0
	case ClauseFrom:
		return q.From != ""
	case ClauseWheres:
		return len(q.Wheres) > 0
	case ClauseGroups:
		return len(q.Groups) > 0
	case ClauseHavings:
		return len(q.Havings) > 0
	case ClauseOrders:
		return len(q.Orders) > 0
	case ClauseLimit:
		return q.Limit != nil
	case ClauseOffset:
		return q.Offset != nil
	case ClauseLock:
		return q.Lock
	default:
		return false
	}
}

// Fragment is the output of one clause strategy. Placeholders holds the
// byte offset in SQL of each placeholder token, one per binding and in the
// same order.
type Fragment struct {
	SQL          string
	Bindings     []ir.Value
	Placeholders []int
}

// placeholderFragment is a lone placeholder bound to v.
func placeholderFragment(v ir.Value) Fragment {
	return Fragment{SQL: Placeholder, Bindings: []ir.Value{v}, Placeholders: []int{0}}
}

// prefix returns f with s written in front of it.
func (f Fragment) prefix(s string) Fragment {
	return Fragment{SQL: s + f.SQL, Bindings: f.Bindings, Placeholders: shift(f.Placeholders, len(s))}
}

// suffix returns f with s appended.
func (f Fragment) suffix(s string) Fragment {
	f.SQL += s
	return f
}

// joinFragments joins fragments with sep, carrying bindings and
// placeholder offsets along.
func joinFragments(frags []Fragment, sep string) Fragment {
	var out Fragment
	var b strings.Builder
	for i, f := range frags {
		if i > 0 {
			b.WriteString(sep)
		}
		out.Placeholders = append(out.Placeholders, shift(f.Placeholders, b.Len())...)
		out.Bindings = append(out.Bindings, f.Bindings...)
		b.WriteString(f.SQL)
	}
	out.SQL = b.String()
	return out
}

func shift(offsets []int, n int) []int {
	if len(offsets) == 0 {
		return nil
	}
	out := make([]int, len(offsets))
	for i, o := range offsets {
		out[i] = o + n
	}
	return out
}

// checkPlaceholders verifies that every recorded offset points at a
// placeholder token and that each binding has exactly one.
func checkPlaceholders(f Fragment) error {
	if len(f.Placeholders) != len(f.Bindings) {
		return fmt.Errorf("%d bindings for %d placeholders", len(f.Bindings), len(f.Placeholders))
	}
	prev := -1
	for _, o := range f.Placeholders {
		if o <= prev || o+len(Placeholder) > len(f.SQL) || f.SQL[o:o+len(Placeholder)] != Placeholder {
			return fmt.Errorf("no placeholder at offset %d", o)
		}
		prev = o
	}
	return nil
}

// ClauseCompiler renders one clause. It is only called when the clause's
// query attribute is present. An empty SQL contributes nothing.
type ClauseCompiler interface {
	CompileClause(ctx context.Context, c *Compiler, q queryir.Query) (Fragment, error)
}

// ClauseFunc adapts an ordinary function to the ClauseCompiler interface.
type ClauseFunc func(ctx context.Context, c *Compiler, q queryir.Query) (Fragment, error)

// CompileClause calls f(ctx, c, q).
func (f ClauseFunc) CompileClause(ctx context.Context, c *Compiler, q queryir.Query) (Fragment, error) {
	return f(ctx, c, q)
}

// defaultClauses returns the strategy table: dialect strategies for
// aggregate, joins, wheres and havings; standard-like for the rest.
func defaultClauses() map[ClauseKind]ClauseCompiler {
	return map[ClauseKind]ClauseCompiler{
		ClauseAggregate: ClauseFunc(aggregateClause),
		ClauseColumns:   ClauseFunc(columnsClause),
		ClauseJoins:     ClauseFunc(joinsClause),
		ClauseFrom:      ClauseFunc(fromClause),
		ClauseWheres:    ClauseFunc(wheresClause),
		ClauseGroups:    ClauseFunc(groupsClause),
		ClauseHavings:   ClauseFunc(havingsClause),
		ClauseOrders:    ClauseFunc(ordersClause),
		ClauseLimit:     ClauseFunc(limitClause),
		ClauseOffset:    ClauseFunc(offsetClause),
		ClauseLock:      ClauseFunc(lockClause),
	}
}

func aggregateClause(_ context.Context, c *Compiler, q queryir.Query) (Fragment, error) {
	return Fragment{SQL: c.CompileAggregate(q, *q.Aggregate)}, nil
}

func columnsClause(ctx context.Context, c *Compiler, q queryir.Query) (Fragment, error) {
	columns := q.Columns
	if c.expandWildcard && metadata.IsWildcard(columns) && q.From != "" && c.resolver != nil {
		fields, err := c.resolver.Fields(ctx, Format(q.From), []string{metadata.Wildcard})
		if err != nil {
			return Fragment{}, &CompileError{
				Code:    CodeMetadataUnresolved,
				Clause:  ClauseColumns,
				Message: fmt.Sprintf("expand fields of %s", q.From),
				Err:     err,
			}
		}
		columns = fields
	}

	selectKw := "select "
	if q.Distinct {
		selectKw = "select distinct "
	}
	return Fragment{SQL: selectKw + columnize(columns)}, nil
}

func joinsClause(ctx context.Context, c *Compiler, q queryir.Query) (Fragment, error) {
	sql, err := c.CompileJoins(ctx, q, q.Joins)
	if err != nil {
		return Fragment{}, err
	}
	return Fragment{SQL: sql}, nil
}

func fromClause(_ context.Context, _ *Compiler, q queryir.Query) (Fragment, error) {
	return Fragment{SQL: "from " + Format(q.From)}, nil
}

func wheresClause(_ context.Context, c *Compiler, q queryir.Query) (Fragment, error) {
	fragments := c.compilePredicateList(q, q.Wheres)
	if len(fragments) == 0 {
		return Fragment{}, nil
	}
	return assemble("where", fragments), nil
}

func groupsClause(_ context.Context, _ *Compiler, q queryir.Query) (Fragment, error) {
	return Fragment{SQL: "group by " + columnize(q.Groups)}, nil
}

func havingsClause(_ context.Context, c *Compiler, q queryir.Query) (Fragment, error) {
	fragments := c.compilePredicateList(q, q.Havings)
	if len(fragments) == 0 {
		return Fragment{}, nil
	}
	return assemble("having", fragments), nil
}

func ordersClause(_ context.Context, _ *Compiler, q queryir.Query) (Fragment, error) {
	parts := make([]string, 0, len(q.Orders))
	for _, o := range q.Orders {
		dir := o.Direction
		if dir == "" {
			dir = queryir.Asc
		}
		part := Format(o.Column) + " " + strings.ToLower(string(dir))
		if o.Nulls != "" {
			part += " nulls " + strings.ToLower(string(o.Nulls))
		}
		parts = append(parts, part)
	}
	return Fragment{SQL: "order by " + strings.Join(parts, ", ")}, nil
}

func limitClause(_ context.Context, _ *Compiler, q queryir.Query) (Fragment, error) {
	return Fragment{SQL: "limit " + strconv.Itoa(*q.Limit)}, nil
}

func offsetClause(_ context.Context, _ *Compiler, q queryir.Query) (Fragment, error) {
	return Fragment{SQL: "offset " + strconv.Itoa(*q.Offset)}, nil
}

// lockClause contributes nothing: the dialect has no row locks.
func lockClause(context.Context, *Compiler, queryir.Query) (Fragment, error) {
	return Fragment{}, nil
}
