package queryfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/soql/internal/ir"
	"github.com/roach88/soql/internal/queryir"
)

const accountQuery = `
from: Account
columns: [Id, Name]
joins:
  - table: Contact
  - table: Opportunity
    columns: [Name, Amount]
wheres:
  - column: Name
    operator: not like
    value: "%Corp%"
  - type: in
    column: Industry
    values: [Energy, Media]
    boolean: or
  - type: nested
    wheres:
      - column: AnnualRevenue
        operator: ">"
        value: 1000000
      - column: Rating
        value: null
        boolean: or
  - column: CreatedDate
    operator: ">"
    literal: LAST_YEAR
orders:
  - column: Name
  - column: CreatedDate
    direction: DESC
    nulls: last
limit: 10
offset: 5
lock: true
`

func TestParse_Query(t *testing.T) {
	f, err := Parse([]byte(accountQuery))
	require.NoError(t, err)

	q, err := f.Query()
	require.NoError(t, err)

	assert.Equal(t, "Account", q.From)
	assert.Equal(t, []string{"Id", "Name"}, q.Columns)
	assert.Equal(t, []queryir.Join{
		{Table: "Contact"},
		{Table: "Opportunity", Columns: []string{"Name", "Amount"}},
	}, q.Joins)

	require.Len(t, q.Wheres, 4)
	assert.Equal(t, queryir.Basic{
		Column:   "Name",
		Operator: queryir.OpNotLike,
		Value:    queryir.Param{Value: ir.String("%Corp%")},
	}, q.Wheres[0])
	assert.Equal(t, queryir.In{
		Column:  "Industry",
		Values:  []queryir.Operand{queryir.Param{Value: ir.String("Energy")}, queryir.Param{Value: ir.String("Media")}},
		Boolean: queryir.Or,
	}, q.Wheres[1])
	assert.Equal(t, queryir.Nested{Predicates: []queryir.Predicate{
		queryir.Basic{Column: "AnnualRevenue", Operator: queryir.OpGT, Value: queryir.Param{Value: ir.Int(1000000)}},
		queryir.Null{Column: "Rating", Boolean: queryir.Or},
	}}, q.Wheres[2])
	assert.Equal(t, queryir.Basic{
		Column:   "CreatedDate",
		Operator: queryir.OpGT,
		Value:    queryir.Literal("LAST_YEAR"),
	}, q.Wheres[3])

	assert.Equal(t, []queryir.Order{
		{Column: "Name"},
		{Column: "CreatedDate", Direction: queryir.Desc, Nulls: queryir.NullsLast},
	}, q.Orders)
	assert.Equal(t, 10, *q.Limit)
	assert.Equal(t, 5, *q.Offset)
	assert.True(t, q.Lock)
}

func TestParse_Aggregate(t *testing.T) {
	f, err := Parse([]byte(`
from: Opportunity
distinct: true
aggregate:
  function: sum
  columns: [Amount]
groups: [StageName]
havings:
  - column: sum(Amount)
    operator: ">"
    value: 2.5
`))
	require.NoError(t, err)

	q, err := f.Query()
	require.NoError(t, err)

	assert.True(t, q.Distinct)
	assert.Equal(t, &queryir.Aggregate{Function: "sum", Columns: []string{"Amount"}}, q.Aggregate)
	assert.Equal(t, []string{"StageName"}, q.Groups)
	require.Len(t, q.Havings, 1)
	assert.Equal(t, queryir.Param{Value: ir.Number("2.5")}, q.Havings[0].(queryir.Basic).Value)
	assert.Nil(t, q.Limit)
}

func TestQuery_NullNormalization(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want queryir.Predicate
	}{
		{"equals null", "column: Email\nvalue: null", queryir.Null{Column: "Email"}},
		{"missing value", "column: Email", queryir.Null{Column: "Email"}},
		{"not equals null", "column: Email\noperator: \"!=\"", queryir.Null{Column: "Email", Not: true}},
		{"ltgt null", "column: Email\noperator: <>", queryir.Null{Column: "Email", Not: true}},
		{"explicit null type", "type: \"null\"\ncolumn: Email\nnot: true", queryir.Null{Column: "Email", Not: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte("from: Contact\nwheres:\n  - " + indent(tt.yaml)))
			require.NoError(t, err)
			q, err := f.Query()
			require.NoError(t, err)
			require.Len(t, q.Wheres, 1)
			assert.Equal(t, tt.want, q.Wheres[0])
		})
	}
}

func TestQuery_Errors(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"null with like", "from: A\nwheres:\n  - column: Name\n    operator: like", "wheres[0].value"},
		{"missing column", "from: A\nwheres:\n  - operator: \"=\"\n    value: 1", "wheres[0].column"},
		{"unknown type", "from: A\nwheres:\n  - type: exists\n    column: Id", "wheres[0].type"},
		{"bad boolean", "from: A\nwheres:\n  - column: Id\n    value: 1\n    boolean: xor", "wheres[0].boolean"},
		{"empty raw", "from: A\nwheres:\n  - type: raw", "wheres[0].raw"},
		{"nested error path", "from: A\nwheres:\n  - type: nested\n    wheres:\n      - type: in", "wheres[0].wheres[0].column"},
		{"bad value", "from: A\nwheres:\n  - column: Id\n    value: {a: 1}", "wheres[0].value"},
		{"bad in value", "from: A\nwheres:\n  - type: in\n    column: Id\n    values: [[1], {a: 1}]", "wheres[0].values[1]"},
		{"join table", "from: A\njoins:\n  - columns: [Id]", "joins[0].table"},
		{"aggregate function", "from: A\naggregate:\n  columns: [Id]", "aggregate.function"},
		{"order direction", "from: A\norders:\n  - column: Id\n    direction: up", "orders[0].direction"},
		{"order nulls", "from: A\norders:\n  - column: Id\n    nulls: middle", "orders[0].nulls"},
		{"order column", "from: A\norders:\n  - direction: asc", "orders[0].column"},
		{"having", "from: A\nhavings:\n  - type: \"null\"", "havings[0].column"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			_, err = f.Query()
			require.Error(t, err)

			var qe *Error
			require.True(t, errors.As(err, &qe))
			assert.Equal(t, tt.field, qe.Field)
		})
	}
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("from: Account\nwhere: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.yaml")
	require.NoError(t, os.WriteFile(path, []byte(accountQuery), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Account", f.From)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("from: [unclosed"), 0o644))
	_, err = Load(path)
	require.Error(t, err)

	var qe *Error
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, path, qe.Path)
}

func TestError_Format(t *testing.T) {
	err := &Error{Path: "q.yaml", Field: "wheres[0].type", Message: `unknown where type "x"`}
	assert.Equal(t, `query file q.yaml: wheres[0].type: unknown where type "x"`, err.Error())

	err = &Error{Message: "failed to parse YAML", Err: errors.New("boom")}
	assert.Equal(t, "query file: failed to parse YAML: boom", err.Error())
}

// indent continues a YAML list item on following lines.
func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n    ")
}
