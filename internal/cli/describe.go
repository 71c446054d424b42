package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/soql/internal/metadata"
)

// DescribeOptions holds flags for the describe command.
type DescribeOptions struct {
	*RootOptions
	SchemaDir string
	CachePath string
	Fields    []string
}

// DescribeResult is the describe command's payload.
type DescribeResult struct {
	Object       string   `json:"object"`
	Relationship string   `json:"relationship"`
	Fields       []string `json:"fields"`
}

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DescribeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "describe <object>",
		Short: "Show the fields a relationship subquery would select",
		Long: `Resolve an object's fields through the same metadata chain compile
uses: the in-memory memo, the SQLite describe cache, then the CUE schema.
A schema hit is written to the cache when --cache is set.

Examples:
  soql describe Contact --schema ./objects
  soql describe Contact --cache describe.db --fields Id,Email`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.SchemaDir, "schema", "", "CUE object schema directory")
	cmd.Flags().StringVar(&opts.CachePath, "cache", "", "SQLite describe cache path")
	cmd.Flags().StringSliceVar(&opts.Fields, "fields", nil, "field subset to request (default all)")

	return cmd
}

func runDescribe(opts *DescribeOptions, object string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.settings()
	if err != nil {
		return outputDescribeError(formatter, ErrCodeConfig, fmt.Sprintf("loading config: %v", err))
	}

	env, err := LoadEnv(cfg, firstNonEmpty(opts.SchemaDir, cfg.SchemaDir), firstNonEmpty(opts.CachePath, cfg.CachePath), opts.logger())
	if err != nil {
		return commandError(formatter, err, ErrCodeLoad)
	}
	defer env.Close()

	subset := opts.Fields
	if len(subset) == 0 {
		subset = []string{metadata.Wildcard}
	}

	fields, err := env.Resolver.Fields(context.Background(), object, subset)
	if err != nil {
		return outputDescribeError(formatter, ErrCodeMetadata, err.Error())
	}

	result := DescribeResult{
		Object:       object,
		Relationship: env.Pluralizer.Pluralize(object),
		Fields:       fields,
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "%s (%s)\n", result.Object, result.Relationship)
	fmt.Fprintf(w, "  %s\n", strings.Join(result.Fields, "\n  "))
	return nil
}

func outputDescribeError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
