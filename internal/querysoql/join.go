package querysoql

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/soql/internal/metadata"
	"github.com/roach88/soql/internal/queryir"
)

// CompileJoins expands each join into a relationship subquery:
//
//	, (select Id,Email from Contacts)
//
// Fields come from the metadata resolver (all fields unless the join names
// a subset) and are comma-joined without spaces. The relationship path is
// the pluralized object name. Fragments keep input order and are joined by
// single spaces. A resolver failure aborts with CodeMetadataUnresolved.
func (c *Compiler) CompileJoins(ctx context.Context, q queryir.Query, joins []queryir.Join) (string, error) {
	fragments := make([]string, 0, len(joins))
	for _, join := range joins {
		frag, err := c.compileJoin(ctx, join)
		if err != nil {
			return "", err
		}
		fragments = append(fragments, frag)
	}
	return strings.Join(fragments, " "), nil
}

func (c *Compiler) compileJoin(ctx context.Context, join queryir.Join) (string, error) {
	subset := join.Columns
	if len(subset) == 0 {
		subset = []string{metadata.Wildcard}
	}

	if c.resolver == nil {
		return "", &CompileError{
			Code:    CodeMetadataUnresolved,
			Clause:  ClauseJoins,
			Message: fmt.Sprintf("resolve fields of %s", join.Table),
			Err:     ErrNoResolver,
		}
	}

	table := Format(join.Table)
	fields, err := c.resolver.Fields(ctx, table, subset)
	if err != nil {
		return "", &CompileError{
			Code:    CodeMetadataUnresolved,
			Clause:  ClauseJoins,
			Message: fmt.Sprintf("resolve fields of %s", join.Table),
			Err:     err,
		}
	}

	columns := strings.Join(fields, ",")
	path := Unformat(c.pluralizer.Pluralize(table))

	c.logger.Debug("expanded relationship",
		"object", join.Table,
		"path", path,
		"fields", len(fields))

	return strings.TrimSpace(fmt.Sprintf(", (select %s from %s)", columns, path)), nil
}
