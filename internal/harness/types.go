package harness

import (
	"github.com/roach88/soql/internal/ir"
	"github.com/roach88/soql/internal/testutil"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all expect clauses match.
	Pass bool `json:"pass"`

	// SOQL is the compiled dialect text. Empty when compilation failed.
	SOQL string `json:"soql"`

	// Bindings are the compiled bindings in placeholder order.
	Bindings ir.Values `json:"bindings"`

	// Bound is the text after binding substitution, when requested.
	Bound string `json:"bound,omitempty"`

	// Error is the query build, compile or bind error, if any.
	Error string `json:"error,omitempty"`

	// Warnings are the lint warnings for the query.
	Warnings []string `json:"warnings"`

	// Lookups are the metadata lookups made during compilation, in order.
	Lookups []testutil.Lookup `json:"lookups"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Bindings: ir.Values{},
		Warnings: []string{},
		Lookups:  []testutil.Lookup{},
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
