// Package queryfile reads YAML query descriptions and builds queryir
// queries from them. It stands in for a fluent query builder on the
// command line and in test scenarios.
//
//	from: Account
//	columns: [Id, Name]
//	joins:
//	  - table: Contact
//	wheres:
//	  - column: Name
//	    operator: not like
//	    value: "%Corp%"
//	limit: 10
package queryfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/soql/internal/ir"
	"github.com/roach88/soql/internal/queryir"
)

// Where types.
const (
	TypeBasic  = "basic"
	TypeIn     = "in"
	TypeNull   = "null"
	TypeNested = "nested"
	TypeRaw    = "raw"
)

// File is the YAML form of a query.
type File struct {
	From      string     `yaml:"from"`
	Distinct  bool       `yaml:"distinct,omitempty"`
	Columns   []string   `yaml:"columns,omitempty"`
	Aggregate *Aggregate `yaml:"aggregate,omitempty"`
	Joins     []Join     `yaml:"joins,omitempty"`
	Wheres    []Where    `yaml:"wheres,omitempty"`
	Groups    []string   `yaml:"groups,omitempty"`
	Havings   []Where    `yaml:"havings,omitempty"`
	Orders    []Order    `yaml:"orders,omitempty"`
	Limit     *int       `yaml:"limit,omitempty"`
	Offset    *int       `yaml:"offset,omitempty"`
	Lock      bool       `yaml:"lock,omitempty"`
}

// Aggregate is the YAML form of an aggregate selection.
type Aggregate struct {
	Function string   `yaml:"function"`
	Columns  []string `yaml:"columns,omitempty"`
}

// Join is the YAML form of a relationship.
type Join struct {
	Table   string   `yaml:"table"`
	Columns []string `yaml:"columns,omitempty"`
}

// Order is the YAML form of a sort key.
type Order struct {
	Column    string `yaml:"column"`
	Direction string `yaml:"direction,omitempty"`
	Nulls     string `yaml:"nulls,omitempty"`
}

// Where is the YAML form of a predicate. Type defaults to basic.
type Where struct {
	Type     string  `yaml:"type,omitempty"`
	Column   string  `yaml:"column,omitempty"`
	Operator string  `yaml:"operator,omitempty"`
	Value    any     `yaml:"value,omitempty"`
	Literal  *string `yaml:"literal,omitempty"`
	Values   []any   `yaml:"values,omitempty"`
	Raw      string  `yaml:"raw,omitempty"`
	Boolean  string  `yaml:"boolean,omitempty"`
	Not      bool    `yaml:"not,omitempty"`
	Wheres   []Where `yaml:"wheres,omitempty"`
}

// Error reports an invalid query file.
type Error struct {
	Path    string // file path, empty for in-memory input
	Field   string // e.g. "wheres[1].operator"
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("query file")
	if e.Path != "" {
		b.WriteString(" " + e.Path)
	}
	if e.Field != "" {
		b.WriteString(": " + e.Field)
	}
	b.WriteString(": " + e.Message)
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Load reads and parses a query file. Unknown keys are rejected.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Message: "failed to read query file", Err: err}
	}
	f, err := Parse(data)
	if err != nil {
		var qe *Error
		if errors.As(err, &qe) {
			qe.Path = path
		}
		return nil, err
	}
	return f, nil
}

// Parse parses YAML query text. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, &Error{Message: "failed to parse YAML", Err: err}
	}
	return &f, nil
}

// Query builds the queryir form. The file itself is not modified.
func (f *File) Query() (queryir.Query, error) {
	q := queryir.Query{
		From:     f.From,
		Distinct: f.Distinct,
		Columns:  f.Columns,
		Groups:   f.Groups,
		Limit:    f.Limit,
		Offset:   f.Offset,
		Lock:     f.Lock,
	}

	if f.Aggregate != nil {
		if f.Aggregate.Function == "" {
			return queryir.Query{}, &Error{Field: "aggregate.function", Message: "function is required"}
		}
		q.Aggregate = &queryir.Aggregate{
			Function: f.Aggregate.Function,
			Columns:  f.Aggregate.Columns,
		}
	}

	for i, j := range f.Joins {
		if j.Table == "" {
			return queryir.Query{}, &Error{Field: fmt.Sprintf("joins[%d].table", i), Message: "table is required"}
		}
		q.Joins = append(q.Joins, queryir.Join{Table: j.Table, Columns: j.Columns})
	}

	var err error
	if q.Wheres, err = buildPredicates(f.Wheres, "wheres"); err != nil {
		return queryir.Query{}, err
	}
	if q.Havings, err = buildPredicates(f.Havings, "havings"); err != nil {
		return queryir.Query{}, err
	}

	for i, o := range f.Orders {
		order, err := buildOrder(o, fmt.Sprintf("orders[%d]", i))
		if err != nil {
			return queryir.Query{}, err
		}
		q.Orders = append(q.Orders, order)
	}

	return q, nil
}

func buildOrder(o Order, field string) (queryir.Order, error) {
	if o.Column == "" {
		return queryir.Order{}, &Error{Field: field + ".column", Message: "column is required"}
	}

	order := queryir.Order{Column: o.Column}
	switch dir := queryir.Direction(strings.ToLower(o.Direction)); dir {
	case "", queryir.Asc, queryir.Desc:
		order.Direction = dir
	default:
		return queryir.Order{}, &Error{Field: field + ".direction", Message: fmt.Sprintf("unknown direction %q", o.Direction)}
	}
	switch nulls := queryir.NullsOrder(strings.ToLower(o.Nulls)); nulls {
	case "", queryir.NullsFirst, queryir.NullsLast:
		order.Nulls = nulls
	default:
		return queryir.Order{}, &Error{Field: field + ".nulls", Message: fmt.Sprintf("unknown nulls order %q", o.Nulls)}
	}
	return order, nil
}

func buildPredicates(wheres []Where, field string) ([]queryir.Predicate, error) {
	if len(wheres) == 0 {
		return nil, nil
	}
	preds := make([]queryir.Predicate, 0, len(wheres))
	for i, w := range wheres {
		p, err := buildPredicate(w, fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		preds = append(preds, p)
	}
	return preds, nil
}

func buildPredicate(w Where, field string) (queryir.Predicate, error) {
	boolean, err := parseBoolean(w.Boolean, field)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(w.Type) {
	case "", TypeBasic:
		return buildBasic(w, boolean, field)

	case TypeIn:
		if w.Column == "" {
			return nil, &Error{Field: field + ".column", Message: "column is required"}
		}
		operands := make([]queryir.Operand, 0, len(w.Values))
		for i, raw := range w.Values {
			v, err := ir.FromAny(raw)
			if err != nil {
				return nil, &Error{Field: fmt.Sprintf("%s.values[%d]", field, i), Message: "unsupported value", Err: err}
			}
			operands = append(operands, queryir.Param{Value: v})
		}
		return queryir.In{Column: w.Column, Values: operands, Not: w.Not, Boolean: boolean}, nil

	case TypeNull:
		if w.Column == "" {
			return nil, &Error{Field: field + ".column", Message: "column is required"}
		}
		return queryir.Null{Column: w.Column, Not: w.Not, Boolean: boolean}, nil

	case TypeNested:
		inner, err := buildPredicates(w.Wheres, field+".wheres")
		if err != nil {
			return nil, err
		}
		return queryir.Nested{Predicates: inner, Boolean: boolean}, nil

	case TypeRaw:
		if w.Raw == "" {
			return nil, &Error{Field: field + ".raw", Message: "raw text is required"}
		}
		return queryir.Raw{SQL: w.Raw, Boolean: boolean}, nil

	default:
		return nil, &Error{Field: field + ".type", Message: fmt.Sprintf("unknown where type %q", w.Type)}
	}
}

// buildBasic builds a comparison. A null value with = becomes a null test
// and with != or <> a not-null test; other operators cannot take null.
func buildBasic(w Where, boolean queryir.Boolean, field string) (queryir.Predicate, error) {
	if w.Column == "" {
		return nil, &Error{Field: field + ".column", Message: "column is required"}
	}

	op := strings.TrimSpace(w.Operator)
	if op == "" {
		op = string(queryir.OpEQ)
	}

	if w.Literal != nil {
		return queryir.Basic{Column: w.Column, Operator: queryir.Operator(op), Value: queryir.Literal(*w.Literal), Boolean: boolean}, nil
	}

	if w.Value == nil {
		switch queryir.Operator(op) {
		case queryir.OpEQ:
			return queryir.Null{Column: w.Column, Boolean: boolean}, nil
		case queryir.OpNEQ, queryir.OpLTGT:
			return queryir.Null{Column: w.Column, Not: true, Boolean: boolean}, nil
		default:
			return nil, &Error{Field: field + ".value", Message: fmt.Sprintf("operator %q cannot compare with null", op)}
		}
	}

	v, err := ir.FromAny(w.Value)
	if err != nil {
		return nil, &Error{Field: field + ".value", Message: "unsupported value", Err: err}
	}
	return queryir.Basic{Column: w.Column, Operator: queryir.Operator(op), Value: queryir.Param{Value: v}, Boolean: boolean}, nil
}

func parseBoolean(s, field string) (queryir.Boolean, error) {
	switch b := queryir.Boolean(strings.ToLower(strings.TrimSpace(s))); b {
	case "", queryir.And, queryir.Or:
		return b, nil
	default:
		return "", &Error{Field: field + ".boolean", Message: fmt.Sprintf("unknown boolean %q", s)}
	}
}
