package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "soql.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFrom(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
schema_dir = "objects"
cache_path = "describe.db"
pluralizer = "suffix"
plural_suffix = "s__r"
expand_wildcard = true
memo_size = 32

[plurals]
Person = "People"
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "objects", cfg.SchemaDir)
	assert.Equal(t, "describe.db", cfg.CachePath)
	assert.Equal(t, "suffix", cfg.Pluralizer)
	assert.Equal(t, "s__r", cfg.PluralSuffix)
	assert.True(t, cfg.ExpandWildcard)
	assert.Equal(t, 32, cfg.MemoSize)
	assert.Equal(t, map[string]string{"Person": "People"}, cfg.Plurals)
}

func TestLoadFrom_KeepsDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `schema_dir = "objects"`+"\n")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "inflect", cfg.Pluralizer)
	assert.Equal(t, "s", cfg.PluralSuffix)
	assert.Equal(t, Default().MemoSize, cfg.MemoSize)
}

func TestLoadFrom_Errors(t *testing.T) {
	t.Run("invalid toml", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "schema_dir = [")
		_, err := LoadFrom(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config")
	})

	t.Run("unknown pluralizer", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), `pluralizer = "latin"`+"\n")
		_, err := LoadFrom(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown pluralizer")
	})

	t.Run("negative memo", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "memo_size = -1\n")
		_, err := LoadFrom(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "memo_size")
	})
}

func TestLoad_EnvPath(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `cache_path = "env.db"`+"\n")
	t.Setenv(EnvPath, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "env.db", cfg.CachePath)
}

func TestLoad_MissingEnvPathIsError(t *testing.T) {
	t.Setenv(EnvPath, filepath.Join(t.TempDir(), "missing.toml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_DefaultWhenAbsent(t *testing.T) {
	t.Setenv(EnvPath, "")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_WorkingDirectoryFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `schema_dir = "here"`+"\n")
	t.Setenv(EnvPath, "")
	t.Chdir(dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "here", cfg.SchemaDir)
}

func TestNewPluralizer(t *testing.T) {
	cfg := Default()
	cfg.Plurals = map[string]string{"Contact": "Contacts__r"}

	p, err := cfg.NewPluralizer(map[string]string{"Contact": "ignored", "Person": "People"})
	require.NoError(t, err)

	assert.Equal(t, "Contacts__r", p.Pluralize("Contact"))
	assert.Equal(t, "People", p.Pluralize("Person"))
	assert.Equal(t, "Accounts", p.Pluralize("Account"))

	cfg.Pluralizer = "suffix"
	cfg.PluralSuffix = "__r"
	p, err = cfg.NewPluralizer(nil)
	require.NoError(t, err)
	assert.Equal(t, "Account__r", p.Pluralize("Account"))

	cfg.Pluralizer = "bogus"
	_, err = cfg.NewPluralizer(nil)
	assert.Error(t, err)
}
