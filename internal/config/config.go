// Package config handles soql configuration files.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/roach88/soql/internal/metadata"
	"github.com/roach88/soql/internal/naming"
)

// EnvPath names the environment variable that points at a config file.
const EnvPath = "SOQL_CONFIG"

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "soql.toml"

// Config is the soql configuration.
type Config struct {
	// SchemaDir is the directory of CUE object definitions.
	SchemaDir string `toml:"schema_dir"`

	// CachePath is the SQLite describe cache file. Empty disables the cache.
	CachePath string `toml:"cache_path"`

	// Pluralizer selects relationship-name pluralization: inflect or suffix.
	Pluralizer string `toml:"pluralizer"`

	// PluralSuffix is appended by the suffix pluralizer.
	PluralSuffix string `toml:"plural_suffix"`

	// Plurals maps object names to explicit relationship names.
	Plurals map[string]string `toml:"plurals"`

	// ExpandWildcard resolves "select *" into the From object's fields.
	ExpandWildcard bool `toml:"expand_wildcard"`

	// MemoSize bounds the in-memory metadata memo.
	MemoSize int `toml:"memo_size"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Pluralizer:   "inflect",
		PluralSuffix: "s",
		MemoSize:     metadata.DefaultMemoSize,
	}
}

// Load loads the configuration from $SOQL_CONFIG, or ./soql.toml when the
// variable is unset. Returns the default config if ./soql.toml doesn't
// exist; a missing $SOQL_CONFIG file is an error.
func Load() (*Config, error) {
	if path := os.Getenv(EnvPath); path != "" {
		return LoadFrom(path)
	}

	if _, err := os.Stat(DefaultFile); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	return LoadFrom(DefaultFile)
}

// LoadFrom loads the configuration from a specific path. Keys missing from
// the file keep their default values.
func LoadFrom(path string) (*Config, error) {
	config := Default()
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Validate checks option values.
func (c *Config) Validate() error {
	if _, ok := naming.ForName(c.Pluralizer, c.PluralSuffix); !ok {
		return fmt.Errorf("unknown pluralizer %q (want inflect or suffix)", c.Pluralizer)
	}
	if c.MemoSize < 0 {
		return fmt.Errorf("memo_size must be non-negative, got %d", c.MemoSize)
	}
	return nil
}

// NewPluralizer builds the configured pluralizer. Overrides from the config
// file win over extra, which wins over the pluralization rules.
func (c *Config) NewPluralizer(extra map[string]string) (naming.Pluralizer, error) {
	p, ok := naming.ForName(c.Pluralizer, c.PluralSuffix)
	if !ok {
		return nil, fmt.Errorf("unknown pluralizer %q", c.Pluralizer)
	}

	overrides := make(map[string]string, len(extra)+len(c.Plurals))
	for k, v := range extra {
		overrides[k] = v
	}
	for k, v := range c.Plurals {
		overrides[k] = v
	}
	return naming.WithOverrides(p, overrides), nil
}
