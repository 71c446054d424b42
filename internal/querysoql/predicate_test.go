package querysoql

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/soql/internal/ir"
	"github.com/roach88/soql/internal/queryir"
)

func TestCompilePredicate(t *testing.T) {
	c := newTestCompiler()
	q := queryir.Query{From: "Account"}

	tests := []struct {
		name     string
		pred     queryir.Predicate
		want     string
		bindings []ir.Value
	}{
		{
			name: "negated like inlines param",
			pred: queryir.Basic{Column: "Name", Operator: queryir.OpNotLike, Value: param(ir.String("%Corp%"))},
			want: "(not Name like '%Corp%')",
		},
		{
			name: "negated like is case-insensitive",
			pred: queryir.Basic{Column: "Name", Operator: "NOT LIKE", Value: queryir.Literal("'%Corp%'")},
			want: "(not Name like '%Corp%')",
		},
		{
			name: "negated like substring",
			pred: queryir.Basic{Column: "Name", Operator: "Not Like Binary", Value: param(ir.String("a"))},
			want: "(not Name like 'a')",
		},
		{
			name:     "equality",
			pred:     queryir.Basic{Column: "`Name`", Operator: queryir.OpEQ, Value: param(ir.String("Acme"))},
			want:     "Name = '?'",
			bindings: []ir.Value{ir.String("Acme")},
		},
		{
			name:     "numeric values are still quoted",
			pred:     &queryir.Basic{Column: "Amount", Operator: queryir.OpGT, Value: param(ir.Int(1000))},
			want:     "Amount > '?'",
			bindings: []ir.Value{ir.Int(1000)},
		},
		{
			name:     "like",
			pred:     queryir.Basic{Column: "Name", Operator: queryir.OpLike, Value: param(ir.String("A%"))},
			want:     "Name like '?'",
			bindings: []ir.Value{ir.String("A%")},
		},
		{
			name: "literal operand",
			pred: queryir.Basic{Column: "CloseDate", Operator: queryir.OpEQ, Value: queryir.Literal("TODAY")},
			want: "CloseDate = TODAY",
		},
		{
			name:     "missing operand binds null",
			pred:     queryir.Basic{Column: "Name", Operator: queryir.OpEQ},
			want:     "Name = '?'",
			bindings: []ir.Value{ir.Null{}},
		},
		{
			name:     "in",
			pred:     queryir.In{Column: "Id", Values: []queryir.Operand{param(ir.String("001")), param(ir.String("002"))}},
			want:     "Id in ('?', '?')",
			bindings: []ir.Value{ir.String("001"), ir.String("002")},
		},
		{
			name:     "not in",
			pred:     &queryir.In{Column: "`Id`", Not: true, Values: []queryir.Operand{param(ir.Int(1))}},
			want:     "Id not in ('?')",
			bindings: []ir.Value{ir.Int(1)},
		},
		{
			name: "empty in",
			pred: queryir.In{Column: "Id"},
			want: "Id in ()",
		},
		{
			name: "null",
			pred: queryir.Null{Column: "Email"},
			want: "Email = null",
		},
		{
			name: "not null",
			pred: &queryir.Null{Column: "Email", Not: true},
			want: "Email != null",
		},
		{
			name: "nested",
			pred: queryir.Nested{Predicates: []queryir.Predicate{
				queryir.Basic{Column: "Industry", Operator: queryir.OpEQ, Value: param(ir.String("Energy"))},
				queryir.Basic{Column: "Industry", Operator: queryir.OpEQ, Value: param(ir.String("Media")), Boolean: queryir.Or},
			}},
			want:     "(Industry = '?' or Industry = '?')",
			bindings: []ir.Value{ir.String("Energy"), ir.String("Media")},
		},
		{
			name: "empty nested",
			pred: queryir.Nested{},
			want: "",
		},
		{
			name: "raw",
			pred: queryir.Raw{SQL: "CALENDAR_YEAR(CreatedDate) = 2024"},
			want: "CALENDAR_YEAR(CreatedDate) = 2024",
		},
		{
			name: "nil",
			pred: nil,
			want: "",
		},
		{
			name: "typed nil",
			pred: (*queryir.Basic)(nil),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, bindings := c.CompilePredicate(q, tt.pred)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.bindings, bindings)
		})
	}
}

func TestCompilePredicate_NegatedLikeShape(t *testing.T) {
	c := newTestCompiler()

	for _, op := range []queryir.Operator{"not like", "NOT LIKE", "Not Like", "not likE"} {
		for _, col := range []string{"Name", "Owner.Name", "Description"} {
			p := queryir.Basic{Column: col, Operator: op, Value: queryir.Literal("'x%'")}
			got, bindings := c.CompilePredicate(queryir.Query{}, p)

			assert.Equal(t, fmt.Sprintf("(not %s like %s)", Format(col), Format("'x%'")), got)
			assert.Empty(t, bindings)
		}
	}
}

func TestCompilePredicate_StandardPathQuoting(t *testing.T) {
	c := newTestCompiler()
	values := []ir.Value{ir.String("a"), ir.Int(1), ir.Number("2.5"), ir.Bool(true), ir.Null{}}

	for _, op := range []queryir.Operator{"=", "!=", "<>", "<", "<=", ">", ">=", "like", "includes", "excludes"} {
		for _, v := range values {
			p := queryir.Basic{Column: "`Field`", Operator: op, Value: param(v)}
			got, bindings := c.CompilePredicate(queryir.Query{}, p)

			assert.NotContains(t, got, "`")
			assert.Equal(t, strings.Count(got, "?"), strings.Count(got, Placeholder), "every placeholder quoted in %q", got)
			assert.Len(t, bindings, 1)
		}
	}
}

func TestIsNegatedLike(t *testing.T) {
	assert.True(t, IsNegatedLike("not like"))
	assert.True(t, IsNegatedLike("NOT LIKE"))
	assert.False(t, IsNegatedLike("like"))
	assert.False(t, IsNegatedLike("not  like"))
	assert.False(t, IsNegatedLike("!="))
}

func TestAssembleWhere(t *testing.T) {
	tests := []struct {
		name      string
		fragments []string
		want      string
	}{
		{"single", []string{"and Name = '?'"}, "where Name = '?'"},
		{"leading or", []string{"or Name = '?'", "and Id = '?'"}, "where Name = '?' and Id = '?'"},
		{"upper case", []string{"AND Name = '?'"}, "where Name = '?'"},
		{"no conjunction", []string{"Name = '?'"}, "where Name = '?'"},
		{"keeps later conjunctions", []string{"and A = '?'", "or B = '?'", "and C = null"}, "where A = '?' or B = '?' and C = null"},
		{"word prefix is not a conjunction", []string{"Android = '?'"}, "where Android = '?'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AssembleWhere(tt.fragments))
		})
	}
}

func TestAssembleWhere_NeverStartsWithConjunction(t *testing.T) {
	for n := 1; n <= 5; n++ {
		fragments := make([]string, n)
		for i := range fragments {
			kw := "and"
			if i%2 == 1 {
				kw = "or"
			}
			fragments[i] = fmt.Sprintf("%s F%d = '?'", kw, i)
		}

		got := AssembleWhere(fragments)
		rest := strings.TrimPrefix(got, "where ")
		assert.False(t, strings.HasPrefix(rest, "and "), got)
		assert.False(t, strings.HasPrefix(rest, "or "), got)
	}
}

func TestAssembleHaving(t *testing.T) {
	assert.Equal(t, "having count(Id) > '?'", AssembleHaving([]string{"and count(Id) > '?'"}))
}
