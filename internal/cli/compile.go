package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/soql/internal/binding"
	"github.com/roach88/soql/internal/ir"
	"github.com/roach88/soql/internal/queryir"
	"github.com/roach88/soql/internal/querysoql"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	SchemaDir string // overrides schema_dir
	CachePath string // overrides cache_path
	Bind      bool   // substitute bindings into the text
	Expand    bool   // expand select * from metadata
}

// CompilationResult is the compile command's payload.
type CompilationResult struct {
	SOQL     string    `json:"soql"`
	Bindings ir.Values `json:"bindings"`
	Bound    string    `json:"bound,omitempty"`
	Warnings []string  `json:"warnings,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <query.yaml>",
		Short: "Compile a query file to SOQL",
		Long: `Compile a YAML query description to SOQL text.

Relationship subqueries are expanded from the CUE object schema and the
SQLite describe cache. Bound values are returned separately in placeholder
order unless --bind substitutes them into the text.

Examples:
  soql compile query.yaml --schema ./objects
  soql compile query.yaml --cache describe.db --bind
  soql compile query.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.SchemaDir, "schema", "", "CUE object schema directory")
	cmd.Flags().StringVar(&opts.CachePath, "cache", "", "SQLite describe cache path")
	cmd.Flags().BoolVar(&opts.Bind, "bind", false, "substitute bindings into the output")
	cmd.Flags().BoolVar(&opts.Expand, "expand", false, "expand select * from object metadata")

	return cmd
}

func runCompile(opts *CompileOptions, queryPath string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.settings()
	if err != nil {
		return outputCompileError(formatter, ErrCodeConfig, fmt.Sprintf("loading config: %v", err))
	}

	q, err := LoadQuery(queryPath)
	if err != nil {
		return commandError(formatter, err, ErrCodeQueryFile)
	}

	env, err := LoadEnv(cfg, firstNonEmpty(opts.SchemaDir, cfg.SchemaDir), firstNonEmpty(opts.CachePath, cfg.CachePath), opts.logger())
	if err != nil {
		return commandError(formatter, err, ErrCodeLoad)
	}
	defer env.Close()

	formatter.VerboseLog("Loaded %d object(s)", len(env.Objects))

	compilerOpts := []querysoql.Option{
		querysoql.WithResolver(env.Resolver),
		querysoql.WithPluralizer(env.Pluralizer),
		querysoql.WithLogger(opts.logger()),
	}
	if opts.Expand || cfg.ExpandWildcard {
		compilerOpts = append(compilerOpts, querysoql.WithWildcardExpansion())
	}

	stmt, err := querysoql.New(compilerOpts...).CompileStatement(context.Background(), q)
	if err != nil {
		code := ErrCodeCompile
		if querysoql.IsMetadataError(err) {
			code = ErrCodeMetadata
		}
		return outputCompileError(formatter, code, err.Error())
	}

	result := CompilationResult{
		SOQL:     stmt.SOQL,
		Bindings: ir.Values(stmt.Bindings),
		Warnings: queryir.Validate(q).Warnings,
	}

	if opts.Bind {
		bound, err := binding.Bind(stmt.SOQL, stmt.Placeholders, stmt.Bindings)
		if err != nil {
			return outputCompileError(formatter, ErrCodeBind, err.Error())
		}
		result.Bound = bound
	}

	opts.logger().Debug("compiled query", "trace_id", formatter.TraceID, "file", queryPath, "bindings", len(stmt.Bindings))

	return outputCompileSuccess(formatter, result)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// outputCompileSuccess prints the compiled text. Text output is the bound
// text when binding was requested, otherwise the SOQL followed by one
// binding per line.
func outputCompileSuccess(formatter *OutputFormatter, result CompilationResult) error {
	for _, w := range result.Warnings {
		formatter.VerboseLog("warning: %s", w)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	if result.Bound != "" {
		fmt.Fprintln(w, result.Bound)
		return nil
	}

	fmt.Fprintln(w, result.SOQL)
	for i, v := range result.Bindings {
		fmt.Fprintf(w, "  $%d = %s\n", i+1, ir.Literal(v))
	}
	return nil
}

// outputCompileError outputs a compile error.
func outputCompileError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, strings.TrimSpace(message)))
}
