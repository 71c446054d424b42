package querysoql

import (
	"fmt"

	"github.com/roach88/soql/internal/queryir"
)

// CompileAggregate renders a single aggregate selection. Distinct applies
// only when the aggregated expression is not the wildcard. The trailing
// "aggregate" names the result field for result mapping.
func (c *Compiler) CompileAggregate(q queryir.Query, agg queryir.Aggregate) string {
	column := columnize(agg.Columns)
	if q.Distinct && column != "*" {
		column = "distinct " + column
	}
	return fmt.Sprintf("select %s(%s) aggregate", agg.Function, column)
}
