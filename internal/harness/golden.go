package harness

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders a result as the line-oriented text stored in golden
// files. Empty sections are omitted so that golden files stay short:
//
//	scenario: account_contacts
//	soql: select * , (select Id,Email from Contacts) from Account
//	bindings: []
//	lookups:
//	  - 1 Contact *
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", scenarioName)

	if result.Error != "" {
		fmt.Fprintf(&b, "error: %s\n", result.Error)
	} else {
		bindings, err := json.Marshal(result.Bindings)
		if err != nil {
			return nil, fmt.Errorf("marshal bindings: %w", err)
		}
		fmt.Fprintf(&b, "soql: %s\n", result.SOQL)
		fmt.Fprintf(&b, "bindings: %s\n", bindings)
		if result.Bound != "" {
			fmt.Fprintf(&b, "bound: %s\n", result.Bound)
		}
	}

	if len(result.Warnings) > 0 {
		b.WriteString("warnings:\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "  - %s\n", w)
		}
	}

	if len(result.Lookups) > 0 {
		b.WriteString("lookups:\n")
		for _, l := range result.Lookups {
			subset := "*"
			if len(l.Subset) > 0 {
				subset = strings.Join(l.Subset, ",")
			}
			fmt.Fprintf(&b, "  - %d %s %s", l.Seq, l.Object, subset)
			if l.Err != "" {
				fmt.Fprintf(&b, " (error: %s)", l.Err)
			}
			b.WriteString("\n")
		}
	}

	return []byte(b.String()), nil
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file. The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, snapshot)

	return nil
}
