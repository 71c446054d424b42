package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/soql/internal/queryir"
	"github.com/roach88/soql/internal/schema"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                     `json:"valid"`
	Objects  int                      `json:"objects,omitempty"`
	Warnings []string                 `json:"warnings,omitempty"`
	Errors   []schema.ValidationError `json:"errors,omitempty"`
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	SchemaDir string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate [query.yaml]",
		Short: "Lint a query file or check an object schema",
		Long: `Lint a YAML query for constructs SOQL handles differently from SQL,
and check CUE object definitions when --schema is given.

Lint warnings never stop compilation, but validate exits 1 when any are
found so that it can gate CI.

Exit codes:
  0 - No warnings or schema errors
  1 - Warnings or schema errors found
  2 - Command error (invalid paths, unreadable files)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			queryPath := ""
			if len(args) == 1 {
				queryPath = args[0]
			}
			return runValidate(opts, queryPath, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.SchemaDir, "schema", "", "CUE object schema directory")

	return cmd
}

func runValidate(opts *ValidateOptions, queryPath string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if queryPath == "" && opts.SchemaDir == "" {
		return outputValidateError(formatter, ErrCodeGeneric, "nothing to validate: pass a query file or --schema")
	}

	result := ValidationResult{Valid: true}

	if opts.SchemaDir != "" {
		objects, errs, err := validateSchemaDir(opts.SchemaDir)
		if err != nil {
			return commandError(formatter, err, ErrCodeLoad)
		}
		formatter.VerboseLog("Checked %d object(s) in %s", len(objects), opts.SchemaDir)
		result.Objects = len(objects)
		result.Errors = errs
	}

	if queryPath != "" {
		q, err := LoadQuery(queryPath)
		if err != nil {
			return commandError(formatter, err, ErrCodeQueryFile)
		}
		lint := queryir.Validate(q)
		result.Warnings = lint.Warnings
	}

	result.Valid = len(result.Errors) == 0 && len(result.Warnings) == 0
	if result.Valid {
		return outputValidateSuccess(formatter, result)
	}
	return outputValidationFailures(formatter, result)
}

// validateSchemaDir loads objects and reports validation errors instead
// of stopping at the first one. Load failures are command errors.
func validateSchemaDir(dir string) ([]schema.Object, []schema.ValidationError, error) {
	objects, err := loadSchemaObjects(dir)
	if err != nil {
		return nil, nil, err
	}
	return objects, schema.Validate(objects), nil
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintln(formatter.Writer, "✓ No problems found")
	return nil
}

// outputValidateError outputs a single command error.
func outputValidateError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationFailures outputs lint warnings and schema errors.
func outputValidationFailures(formatter *OutputFormatter, result ValidationResult) error {
	count := len(result.Warnings) + len(result.Errors)

	if formatter.Format == "json" {
		cliErr := &CLIError{Code: ErrCodeLint, Message: fmt.Sprintf("%d problem(s) found", count)}
		if len(result.Errors) > 0 {
			cliErr = &CLIError{Code: result.Errors[0].Code, Message: result.Errors[0].Message}
		}
		if err := formatter.Encode(CLIResponse{Status: "error", Data: result, Error: cliErr}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d problem(s)", count))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range result.Errors {
		fmt.Fprintf(formatter.Writer, "  %s\n", err.Error())
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(formatter.Writer, "  warning: %s\n", w)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d problem(s)", count))
}
