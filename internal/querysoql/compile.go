package querysoql

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/soql/internal/ir"
	"github.com/roach88/soql/internal/metadata"
	"github.com/roach88/soql/internal/naming"
	"github.com/roach88/soql/internal/queryir"
)

// Compiler compiles queries to dialect text.
//
// The zero value is not usable; construct with New. A Compiler is
// immutable after construction and safe for concurrent use.
type Compiler struct {
	resolver       metadata.Resolver
	pluralizer     naming.Pluralizer
	logger         *slog.Logger
	expandWildcard bool
	clauses        map[ClauseKind]ClauseCompiler
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithResolver sets the metadata resolver used for relationship expansion.
func WithResolver(r metadata.Resolver) Option {
	return func(c *Compiler) { c.resolver = r }
}

// WithPluralizer sets the relationship-name pluralizer. Defaults to
// English inflection.
func WithPluralizer(p naming.Pluralizer) Option {
	return func(c *Compiler) { c.pluralizer = p }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Compiler) { c.logger = l }
}

// WithWildcardExpansion resolves an empty or "*" column list into the
// From object's fields through the resolver.
func WithWildcardExpansion() Option {
	return func(c *Compiler) { c.expandWildcard = true }
}

// WithClause replaces the strategy for one clause kind.
func WithClause(kind ClauseKind, cc ClauseCompiler) Option {
	return func(c *Compiler) { c.clauses[kind] = cc }
}

// New creates a Compiler with the dialect strategies installed.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		clauses: defaultClauses(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.pluralizer == nil {
		c.pluralizer = naming.NewInflect(nil)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Statement is a compiled query. Placeholders holds the byte offset in
// SOQL of each placeholder token, aligned with Bindings.
type Statement struct {
	SOQL         string
	Bindings     []ir.Value
	Placeholders []int
}

// Compile converts a query to dialect text.
// Returns (soql, bindings, error); bindings are in placeholder order.
func (c *Compiler) Compile(ctx context.Context, q queryir.Query) (string, []ir.Value, error) {
	stmt, err := c.CompileStatement(ctx, q)
	if err != nil {
		return "", nil, err
	}
	return stmt.SOQL, stmt.Bindings, nil
}

// CompileStatement is Compile with placeholder positions.
//
// Each clause runs in ClauseOrder when its attribute is present, and the
// non-empty fragments are joined with single spaces. Any clause error
// aborts compilation; no partial string is returned.
func (c *Compiler) CompileStatement(ctx context.Context, q queryir.Query) (*Statement, error) {
	if path := findNilPredicate(q.Wheres, "wheres"); path != "" {
		return nil, &CompileError{Code: CodeUnsupportedPredicate, Clause: ClauseWheres, Message: "nil predicate at " + path}
	}
	if path := findNilPredicate(q.Havings, "havings"); path != "" {
		return nil, &CompileError{Code: CodeUnsupportedPredicate, Clause: ClauseHavings, Message: "nil predicate at " + path}
	}

	parts := make([]Fragment, 0, len(ClauseOrder))

	for _, kind := range ClauseOrder {
		if !present(kind, q) {
			continue
		}
		cc, ok := c.clauses[kind]
		if !ok || cc == nil {
			continue
		}

		frag, err := cc.CompileClause(ctx, c, q)
		if err != nil {
			return nil, clauseError(kind, err)
		}
		if err := checkPlaceholders(frag); err != nil {
			return nil, clauseError(kind, err)
		}

		c.logger.Debug("compiled clause", "clause", kind.String(), "sql", frag.SQL)

		if frag.SQL != "" {
			parts = append(parts, frag)
		}
	}

	joined := joinFragments(parts, " ")
	stmt := &Statement{SOQL: joined.SQL, Bindings: joined.Bindings, Placeholders: joined.Placeholders}
	if stmt.Bindings == nil {
		stmt.Bindings = []ir.Value{}
	}
	return stmt, nil
}

// clauseError passes CompileErrors through and wraps anything else.
func clauseError(kind ClauseKind, err error) error {
	var ce *CompileError
	if errors.As(err, &ce) {
		return err
	}
	return &CompileError{Code: CodeClauseFailed, Clause: kind, Message: "clause strategy failed", Err: err}
}
