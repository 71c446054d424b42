package cli

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/roach88/soql/internal/config"
	"github.com/roach88/soql/internal/testutil"
)

const testTraceID = "trace-test-0001"

var (
	objectsDir  = filepath.Join("testdata", "objects")
	queriesDir  = filepath.Join("testdata", "queries")
	scenarioDir = filepath.Join("testdata", "scenarios")
)

// testRootOptions returns options with a default config, a fixed trace
// ID, and a discarded logger.
func testRootOptions(format string) *RootOptions {
	return &RootOptions{
		Format: format,
		Config: config.Default(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		IDs:    testutil.NewFixedIDGenerator(testTraceID),
	}
}

// execute runs cmd with args and returns stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func query(name string) string {
	return filepath.Join(queriesDir, name)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}
