// Package queryir provides the abstract query structure consumed by the
// dialect grammar.
//
// The structure is produced by a generic query builder (fluent API, query
// files, tests) and handed to querysoql for compilation:
//
//	[builder / query file] → [queryir.Query] → [querysoql.Compiler] → dialect text
//
// This package owns no behavior beyond construction helpers and a lint
// pass. It performs no I/O and never consults schema metadata.
//
// SEALED INTERFACES:
//
// Predicate and Operand are sealed interfaces using the marker method
// pattern. Only types in this package can implement them, which lets the
// grammar use exhaustive type switches:
//
//	switch p := pred.(type) {
//	case Basic:
//	    // column <op> value
//	case In, Null, Nested, Raw:
//	    // ...
//	default:
//	    // Impossible - compiler knows all Predicate types
//	}
//
// Both value and pointer forms of each node are accepted by consumers.
//
// CONJUNCTIONS:
//
// Each predicate carries the Boolean that links it to the predicate before
// it. The first predicate's conjunction is redundant and is dropped by the
// grammar when the list is assembled.
//
// LINTING:
//
// Validate reports dialect hazards (unknown operators, ignored lock flag,
// distinct plain selects) as warnings. The grammar itself never rejects a
// query on these grounds; it performs pure syntactic assembly.
package queryir
