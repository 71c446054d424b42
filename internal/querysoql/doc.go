// Package querysoql compiles queryir.Query values to the text syntax of the
// SOQL-like object query dialect.
//
// The dialect resembles SQL but diverges in ways a standard grammar gets
// wrong:
//   - identifiers are never quoted
//   - bound values are written as quoted placeholders ('?') and substituted
//     positionally by a later binding step
//   - negated pattern matches use prefix negation: (not Name like 'x')
//   - relationships are expanded into nested subqueries over the
//     pluralized relationship name, never into JOIN
//
// # Composition
//
// A Compiler holds one ClauseCompiler per ClauseKind and runs them in the
// fixed dialect order:
//
//	aggregate → columns → joins → from → wheres → groups → havings → orders → limit → offset → lock
//
// A clause runs only when its query attribute is present. Its fragment is
// dropped when empty, and the rest are joined with single spaces. Standard-like
// strategies cover most clauses; dialect strategies are registered for
// predicates, relationship expansion and aggregates. WithClause replaces a
// strategy.
//
// # Errors
//
// Compilation either returns a complete string or a *CompileError. The
// only external failure is the metadata resolver, reported with code
// METADATA_UNRESOLVED and unwrappable to the resolver's error.
//
// A Compiler is immutable after New and safe for concurrent use.
package querysoql
