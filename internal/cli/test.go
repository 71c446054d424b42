package cli

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/soql/internal/harness"
)

// Golden file states reported per scenario.
const (
	goldenMatched  = "matched"
	goldenUpdated  = "updated"
	goldenMismatch = "mismatch"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // glob over scenario file names, without extension
}

// ScenarioResult is the outcome of one scenario file.
type ScenarioResult struct {
	Name   string   `json:"name"`
	File   string   `json:"file"`
	Pass   bool     `json:"pass"`
	SOQL   string   `json:"soql,omitempty"`
	Golden string   `json:"golden,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

func (r ScenarioResult) fail(format string, args ...any) ScenarioResult {
	r.Pass = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	return r
}

// TestResult summarizes a scenario run.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

func (t *TestResult) add(r ScenarioResult) {
	t.Scenarios = append(t.Scenarios, r)
	t.Total++
	if r.Pass {
		t.Passed++
	} else {
		t.Failed++
	}
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run query scenarios",
		Long: `Compile every scenario under a directory and check its expect block.

When golden/<scenario>.golden exists next to a scenario file, the snapshot
(SOQL, bindings, warnings and metadata lookups) must match it byte for byte.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  soql test ./scenarios
  soql test ./scenarios --filter "account_*"
  soql test ./scenarios --update
  soql test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, dir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	w := cmd.OutOrStdout()
	text := opts.Format != "json"

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return commandError(formatter, &LoadError{Code: ErrCodeNotFound, Message: "scenarios directory not found: " + dir}, ErrCodeNotFound)
	}

	files, err := scenarioFiles(dir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}
	if len(files) == 0 && text {
		fmt.Fprintln(w, "No scenarios found.")
		return nil
	}

	result := TestResult{Scenarios: make([]ScenarioResult, 0, len(files))}
	for _, file := range files {
		r := opts.runScenario(file)
		result.add(r)
		if text {
			printScenario(w, r)
		}
	}

	opts.logger().Debug("scenarios finished", "trace_id", formatter.TraceID, "passed", result.Passed, "failed", result.Failed)

	if !text {
		return outputTestJSON(formatter, result)
	}
	return outputTestText(w, result)
}

// scenarioFiles lists .yaml/.yml files under dir whose base name matches
// filter.
func scenarioFiles(dir, filter string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			matched, err := filepath.Match(filter, strings.TrimSuffix(d.Name(), ext))
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

// runScenario loads, compiles and checks one scenario file, then compares
// or rewrites its golden snapshot.
func (o *TestOptions) runScenario(file string) ScenarioResult {
	r := ScenarioResult{Name: filepath.Base(file), File: file}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return r.fail("Load error: %v", err)
	}
	r.Name = scenario.Name

	res, err := harness.Run(scenario)
	if err != nil {
		return r.fail("Execution error: %v", err)
	}
	r.SOQL = res.SOQL
	r.Pass = res.Pass
	r.Errors = append(r.Errors, res.Errors...)

	snapshot, err := harness.Snapshot(scenario.Name, res)
	if err != nil {
		return r.fail("Snapshot error: %v", err)
	}

	path := goldenFilePath(file)
	if o.Update {
		if err := writeGolden(path, snapshot); err != nil {
			return r.fail("Golden update error: %v", err)
		}
		r.Golden = goldenUpdated
		return r
	}

	want, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Expect block only.
	case err != nil:
		return r.fail("Golden comparison error: %v", err)
	case bytes.Equal(want, snapshot):
		r.Golden = goldenMatched
	default:
		r.Golden = goldenMismatch
		r = r.fail("Golden file mismatch (run with --update to regenerate)")
	}
	return r
}

// goldenFilePath maps dir/name.yaml to dir/golden/name.golden.
func goldenFilePath(scenarioFile string) string {
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(scenarioFile), "golden", name+".golden")
}

func writeGolden(path string, snapshot []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, snapshot, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

func printScenario(w io.Writer, r ScenarioResult) {
	mark := "✓"
	if !r.Pass {
		mark = "✗"
	}
	if r.Golden == goldenUpdated {
		fmt.Fprintf(w, "%s %s (golden updated)\n", mark, r.Name)
	} else {
		fmt.Fprintf(w, "%s %s\n", mark, r.Name)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}

func outputTestJSON(formatter *OutputFormatter, result TestResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{Code: ErrCodeScenario, Message: fmt.Sprintf("%d scenario(s) failed", result.Failed)}
	}
	if err := formatter.Encode(response); err != nil {
		return err
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

func outputTestText(w io.Writer, result TestResult) error {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
