package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/roach88/soql/internal/binding"
	"github.com/roach88/soql/internal/ir"
	"github.com/roach88/soql/internal/metadata"
	"github.com/roach88/soql/internal/naming"
	"github.com/roach88/soql/internal/queryir"
	"github.com/roach88/soql/internal/querysoql"
	"github.com/roach88/soql/internal/schema"
	"github.com/roach88/soql/internal/store"
	"github.com/roach88/soql/internal/testutil"
)

// Harness is the test execution engine for one scenario.
// Metadata flows through the same describe cache the CLI uses, backed by a
// fresh in-memory database.
type Harness struct {
	store    *store.Store
	resolver *testutil.RecordingResolver
	compiler *querysoql.Compiler
	logger   *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory describe cache
// 2. Load the object catalog from schema files and inline objects
// 3. Build the query from the scenario's query file
// 4. Compile, lint and optionally bind
// 5. Compare against the expect clause
//
// A returned error means the scenario itself could not be set up. Query
// and compile failures are reported in Result.Error instead.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	catalog, plurals, err := loadCatalog(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to load objects: %w", err)
	}

	// Suppress logs in tests
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cached := metadata.NewCached(st, metadata.NewStatic(catalog))
	cached.Logger = logger
	recorder := testutil.NewRecordingResolver(cached)

	for k, v := range scenario.Plurals {
		plurals[k] = v
	}

	opts := []querysoql.Option{
		querysoql.WithResolver(recorder),
		querysoql.WithPluralizer(naming.WithOverrides(naming.NewInflect(nil), plurals)),
		querysoql.WithLogger(logger),
	}
	if scenario.ExpandWildcard {
		opts = append(opts, querysoql.WithWildcardExpansion())
	}

	h := &Harness{
		store:    st,
		resolver: recorder,
		compiler: querysoql.New(opts...),
		logger:   logger,
	}

	result := NewResult()
	h.execute(context.Background(), scenario, result)
	result.Lookups = append(result.Lookups, recorder.Lookups()...)

	if scenario.Expect != nil {
		for _, msg := range checkExpect(scenario.Expect, result) {
			result.AddError(msg)
		}
	}

	return result, nil
}

// execute builds, compiles and binds the scenario query.
func (h *Harness) execute(ctx context.Context, scenario *Scenario, result *Result) {
	q, err := scenario.Query.Query()
	if err != nil {
		result.Error = err.Error()
		return
	}

	result.Warnings = append(result.Warnings, queryir.Validate(q).Warnings...)

	stmt, err := h.compiler.CompileStatement(ctx, q)
	if err != nil {
		result.Error = err.Error()
		return
	}
	result.SOQL = stmt.SOQL
	result.Bindings = ir.Values(stmt.Bindings)

	h.logger.Info("scenario compiled", "scenario", scenario.Name, "bindings", len(stmt.Bindings))

	if !scenario.Bind {
		return
	}
	bound, err := binding.Bind(stmt.SOQL, stmt.Placeholders, stmt.Bindings)
	if err != nil {
		result.Error = err.Error()
		return
	}
	result.Bound = bound
}

// loadCatalog merges schema files and inline objects into one catalog.
// Plurals declared by schema objects are returned alongside.
func loadCatalog(scenario *Scenario) (map[string][]string, map[string]string, error) {
	catalog := make(map[string][]string)
	var objects []schema.Object

	for _, path := range scenario.Schema {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		loaded, err := schema.LoadString(string(src), path)
		if err != nil {
			return nil, nil, err
		}
		objects = append(objects, loaded...)
	}

	if errs := schema.Validate(objects); len(errs) > 0 {
		return nil, nil, errs[0]
	}

	for _, obj := range objects {
		catalog[obj.Name] = obj.Fields
	}
	for name, fields := range scenario.Objects {
		catalog[name] = fields
	}

	return catalog, schema.Plurals(objects), nil
}

// checkExpect compares a result with the scenario's expect clause and
// returns one message per mismatch.
func checkExpect(expect *Expect, result *Result) []string {
	var errs []string

	if expect.Error != "" {
		if result.Error == "" {
			errs = append(errs, fmt.Sprintf("expected error containing %q, compilation succeeded", expect.Error))
		} else if !strings.Contains(result.Error, expect.Error) {
			errs = append(errs, fmt.Sprintf("expected error containing %q, got %q", expect.Error, result.Error))
		}
	} else if result.Error != "" {
		errs = append(errs, fmt.Sprintf("unexpected error: %s", result.Error))
	}

	if expect.SOQL != "" && expect.SOQL != result.SOQL {
		errs = append(errs, fmt.Sprintf("soql mismatch:\n  want: %s\n  got:  %s", expect.SOQL, result.SOQL))
	}

	if expect.Bound != "" && expect.Bound != result.Bound {
		errs = append(errs, fmt.Sprintf("bound mismatch:\n  want: %s\n  got:  %s", expect.Bound, result.Bound))
	}

	if expect.Bindings != nil {
		if msg := compareBindings(expect.Bindings, result.Bindings); msg != "" {
			errs = append(errs, msg)
		}
	}

	if expect.Warnings != nil && !slices.Equal(expect.Warnings, result.Warnings) {
		errs = append(errs, fmt.Sprintf("warnings mismatch:\n  want: %q\n  got:  %q", expect.Warnings, result.Warnings))
	}

	return errs
}

// compareBindings compares expected YAML values with compiled bindings by
// their JSON encoding.
func compareBindings(want []any, got ir.Values) string {
	wantValues := make(ir.Values, len(want))
	for i, v := range want {
		val, err := ir.FromAny(v)
		if err != nil {
			return fmt.Sprintf("expect.bindings[%d]: %v", i, err)
		}
		wantValues[i] = val
	}

	wantJSON, err := json.Marshal(wantValues)
	if err != nil {
		return fmt.Sprintf("expect.bindings: %v", err)
	}
	gotJSON, err := json.Marshal(got)
	if err != nil {
		return fmt.Sprintf("bindings: %v", err)
	}

	if string(wantJSON) != string(gotJSON) {
		return fmt.Sprintf("bindings mismatch:\n  want: %s\n  got:  %s", wantJSON, gotJSON)
	}
	return ""
}
