package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/soql/internal/queryfile"
)

// Scenario defines a conformance test scenario.
// Scenarios compile one query against a fixed object catalog and assert on
// the resulting dialect text, bindings and error.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Schema lists paths to CUE object definitions to load.
	// Paths are relative to the scenario file location.
	Schema []string `yaml:"schema,omitempty"`

	// Objects declares object fields inline. Entries here win over Schema.
	Objects map[string][]string `yaml:"objects,omitempty"`

	// Plurals overrides relationship names for specific objects.
	Plurals map[string]string `yaml:"plurals,omitempty"`

	// ExpandWildcard resolves "select *" into the From object's fields.
	ExpandWildcard bool `yaml:"expand_wildcard,omitempty"`

	// Query is the query to compile.
	Query queryfile.File `yaml:"query"`

	// Bind substitutes bindings into the compiled text.
	Bind bool `yaml:"bind,omitempty"`

	// Expect validates the outcome. If nil, only the golden file applies.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies the expected compilation outcome.
type Expect struct {
	// SOQL is the exact compiled text.
	SOQL string `yaml:"soql,omitempty"`

	// Bindings are the expected values in placeholder order.
	// Compared by their JSON encoding; nil skips the check.
	Bindings []any `yaml:"bindings,omitempty"`

	// Bound is the exact text after binding substitution.
	Bound string `yaml:"bound,omitempty"`

	// Error is a substring of the expected error. Empty means success.
	Error string `yaml:"error,omitempty"`

	// Warnings are the exact lint warnings, in order.
	Warnings []string `yaml:"warnings,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Schema paths are resolved relative to the file's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving schema paths relative to the provided base path.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expects:" vs "expect:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve schema paths relative to base path BEFORE validation
	for i, schemaPath := range scenario.Schema {
		if !filepath.IsAbs(schemaPath) && basePath != "" {
			scenario.Schema[i] = filepath.Join(basePath, schemaPath)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Query.From == "" {
		return fmt.Errorf("query.from is required")
	}

	for _, schemaPath := range s.Schema {
		if _, err := os.Stat(schemaPath); os.IsNotExist(err) {
			return fmt.Errorf("schema file not found: %s", schemaPath)
		}
	}

	for name, fields := range s.Objects {
		if len(fields) == 0 {
			return fmt.Errorf("objects.%s: at least one field is required", name)
		}
	}

	if s.Expect != nil && s.Expect.Error != "" && (s.Expect.SOQL != "" || s.Expect.Bound != "") {
		return fmt.Errorf("expect: error cannot be combined with soql or bound")
	}

	if s.Expect != nil && s.Expect.Bound != "" && !s.Bind {
		return fmt.Errorf("expect.bound requires bind: true")
	}

	return nil
}
