package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/soql/internal/store"
)

// CacheOptions holds flags shared by the cache subcommands.
type CacheOptions struct {
	*RootOptions
	CachePath string
	SchemaDir string
}

// CacheEntry is one cached object in command output.
type CacheEntry struct {
	Object   string   `json:"object"`
	Fields   []string `json:"fields"`
	Revision int64    `json:"revision"`
}

// NewCacheCommand creates the cache command and its subcommands.
func NewCacheCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CacheOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the describe cache",
		Long: `Inspect and maintain the SQLite describe cache that stores object
field lists between runs.

Examples:
  soql cache list --cache describe.db
  soql cache warm --cache describe.db --schema ./objects
  soql cache clear Contact --cache describe.db`,
	}

	cmd.PersistentFlags().StringVar(&opts.CachePath, "cache", "", "SQLite describe cache path")

	list := &cobra.Command{
		Use:           "list",
		Short:         "List cached objects",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheList(opts, cmd)
		},
	}

	warm := &cobra.Command{
		Use:           "warm",
		Short:         "Describe every schema object into the cache",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheWarm(opts, cmd)
		},
	}
	warm.Flags().StringVar(&opts.SchemaDir, "schema", "", "CUE object schema directory")

	clearCmd := &cobra.Command{
		Use:           "clear <object>",
		Short:         "Drop one object from the cache",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheClear(opts, args[0], cmd)
		},
	}

	cmd.AddCommand(list, warm, clearCmd)
	return cmd
}

// openCache resolves the cache path from flags or config and opens it.
func (o *CacheOptions) openCache() (*store.Store, error) {
	cfg, err := o.settings()
	if err != nil {
		return nil, &LoadError{Code: ErrCodeConfig, Message: "loading config", Err: err}
	}
	path := firstNonEmpty(o.CachePath, cfg.CachePath)
	if path == "" {
		return nil, &LoadError{Code: ErrCodeCache, Message: "no describe cache configured: pass --cache or set cache_path"}
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeCache, Message: fmt.Sprintf("opening describe cache %s", path), Err: err}
	}
	return st, nil
}

func runCacheList(opts *CacheOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	st, err := opts.openCache()
	if err != nil {
		return commandError(formatter, err, ErrCodeCache)
	}
	defer st.Close()

	entries, err := st.Objects(context.Background())
	if err != nil {
		return outputCacheError(formatter, ErrCodeCache, err.Error())
	}

	out := make([]CacheEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, CacheEntry{Object: e.Name, Fields: e.Fields, Revision: e.Revision})
	}

	if formatter.Format == "json" {
		return formatter.Success(out)
	}

	if len(out) == 0 {
		fmt.Fprintln(formatter.Writer, "Cache is empty.")
		return nil
	}
	for _, e := range out {
		fmt.Fprintf(formatter.Writer, "%s\t%d field(s)\trev %d\n", e.Object, len(e.Fields), e.Revision)
	}
	return nil
}

func runCacheWarm(opts *CacheOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.settings()
	if err != nil {
		return outputCacheError(formatter, ErrCodeConfig, fmt.Sprintf("loading config: %v", err))
	}
	cachePath := firstNonEmpty(opts.CachePath, cfg.CachePath)
	schemaDir := firstNonEmpty(opts.SchemaDir, cfg.SchemaDir)
	if cachePath == "" || schemaDir == "" {
		return outputCacheError(formatter, ErrCodeCache, "cache warm needs both a cache path and a schema directory")
	}

	env, err := LoadEnv(cfg, schemaDir, cachePath, opts.logger())
	if err != nil {
		return commandError(formatter, err, ErrCodeLoad)
	}
	defer env.Close()

	names := make([]string, 0, len(env.Objects))
	for _, obj := range env.Objects {
		names = append(names, obj.Name)
	}

	if err := env.Cache.Warm(context.Background(), names); err != nil {
		return outputCacheError(formatter, ErrCodeCache, err.Error())
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{"warmed": names})
	}
	fmt.Fprintf(formatter.Writer, "✓ Cached %d object(s)\n", len(names))
	return nil
}

func runCacheClear(opts *CacheOptions, object string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	st, err := opts.openCache()
	if err != nil {
		return commandError(formatter, err, ErrCodeCache)
	}
	defer st.Close()

	removed, err := st.Invalidate(context.Background(), object)
	if err != nil {
		return outputCacheError(formatter, ErrCodeCache, err.Error())
	}
	if !removed {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("%s is not cached", object), nil)
		return NewExitError(ExitFailure, fmt.Sprintf("%s: %s is not cached", ErrCodeNotFound, object))
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{"cleared": object})
	}
	fmt.Fprintf(formatter.Writer, "✓ Cleared %s\n", object)
	return nil
}

func outputCacheError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
