package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Config System:
// - Default() returns valid configuration with all expected defaults
// - LoadConfig() uses defaults when no config file exists
// - LoadConfig() loads from .tsinline/config.yml when present
// - LoadConfig() merges config file with defaults
// - NewFileLoader() reads an explicit file and fails when it is missing
// - Environment variables override config file values
// - LoadConfig() returns error for malformed YAML
// - LoadConfig() returns error for invalid configuration values
// - Validate() rejects each invalid field with its sentinel error
// - Validate() returns multiple errors for multiple invalid fields
// - ToInlinerOptions() maps format and resolve settings

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	configDir := filepath.Join(dir, ".tsinline")
	require.NoError(t, os.MkdirAll(configDir, 0755))
	path := filepath.Join(configDir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, 4, cfg.Format.IndentSize)
	assert.Equal(t, NewLineAuto, cfg.Format.NewLine)
	assert.Equal(t, []string{".ts", ".tsx", ".d.ts"}, cfg.Resolve.Extensions)
	assert.Equal(t, []string{"index.ts", "index.tsx", "index.d.ts"}, cfg.Resolve.IndexFiles)
	assert.Equal(t, 0, cfg.Inline.InsertIndex)
	assert.False(t, cfg.Inline.KeepUnresolvedImports)
	assert.Equal(t, 256, cfg.Inline.CacheSize)
	assert.NotEmpty(t, cfg.Paths.Entries)
	assert.Contains(t, cfg.Paths.Ignore, "node_modules/**")
	assert.Equal(t, 500, cfg.Watch.DebounceMs)

	assert.NoError(t, Validate(cfg))
}

func TestLoadConfig_UsesDefaultsWhenNoConfigFile(t *testing.T) {
	t.Parallel()

	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoadConfig_LoadsFromConfigYml(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, `
format:
  indent_size: 2
  new_line: crlf

resolve:
  extensions: [".ts"]
  index_files: ["index.ts"]

inline:
  insert_index: 1
  keep_unresolved_imports: true

paths:
  entries:
    - "src/**/*.ts"
  ignore:
    - "src/generated/**"

watch:
  debounce_ms: 50
`)

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Format.IndentSize)
	assert.Equal(t, NewLineCRLF, cfg.Format.NewLine)
	assert.Equal(t, []string{".ts"}, cfg.Resolve.Extensions)
	assert.Equal(t, []string{"index.ts"}, cfg.Resolve.IndexFiles)
	assert.Equal(t, 1, cfg.Inline.InsertIndex)
	assert.True(t, cfg.Inline.KeepUnresolvedImports)
	assert.Equal(t, []string{"src/**/*.ts"}, cfg.Paths.Entries)
	assert.Equal(t, []string{"src/generated/**"}, cfg.Paths.Ignore)
	assert.Equal(t, 50, cfg.Watch.DebounceMs)
}

func TestLoadConfig_MergesConfigWithDefaults(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, `
format:
  indent_size: 8
`)

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	defaults := Default()
	assert.Equal(t, 8, cfg.Format.IndentSize)
	assert.Equal(t, defaults.Format.NewLine, cfg.Format.NewLine)
	assert.Equal(t, defaults.Resolve, cfg.Resolve)
	assert.Equal(t, defaults.Paths, cfg.Paths)
}

func TestNewFileLoader(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("inline:\n  insert_index: 3\n"), 0644))

	cfg, err := NewFileLoader(tempDir, path).Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Inline.InsertIndex)

	_, err = NewFileLoader(tempDir, filepath.Join(tempDir, "missing.yml")).Load()
	assert.Error(t, err)
}

func TestLoadConfig_EnvironmentVariablesOverrideConfigFile(t *testing.T) {
	// Note: Cannot use t.Parallel() with t.Setenv()
	tempDir := t.TempDir()
	writeConfig(t, tempDir, `
format:
  indent_size: 2
watch:
  debounce_ms: 100
`)

	t.Setenv("TSINLINE_FORMAT_INDENT_SIZE", "3")
	t.Setenv("TSINLINE_INLINE_KEEP_UNRESOLVED_IMPORTS", "true")
	t.Setenv("TSINLINE_WATCH_DEBOUNCE_MS", "250")

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Format.IndentSize)
	assert.True(t, cfg.Inline.KeepUnresolvedImports)
	assert.Equal(t, 250, cfg.Watch.DebounceMs)
}

func TestLoadConfig_ReturnsErrorForMalformedYaml(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "format:\n  indent_size: [unclosed\n")

	_, err := NewLoader(tempDir).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_ReturnsErrorForInvalidValues(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "format:\n  indent_size: 0\n")

	_, err := NewLoader(tempDir).Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidIndent)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestValidate_RejectsInvalidFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero indent", func(c *Config) { c.Format.IndentSize = 0 }, ErrInvalidIndent},
		{"huge indent", func(c *Config) { c.Format.IndentSize = 40 }, ErrInvalidIndent},
		{"unknown new line", func(c *Config) { c.Format.NewLine = "cr" }, ErrInvalidNewLine},
		{"no extensions", func(c *Config) { c.Resolve.Extensions = nil }, ErrEmptyExtensions},
		{"extension without dot", func(c *Config) { c.Resolve.Extensions = []string{"ts"} }, ErrInvalidExtension},
		{"negative insert index", func(c *Config) { c.Inline.InsertIndex = -1 }, ErrInvalidInsertIndex},
		{"negative cache size", func(c *Config) { c.Inline.CacheSize = -5 }, ErrInvalidCacheSize},
		{"negative debounce", func(c *Config) { c.Watch.DebounceMs = -1 }, ErrInvalidDebounce},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, Validate(cfg), tt.want)
		})
	}
}

func TestValidate_ReturnsMultipleErrors(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Format.IndentSize = -1
	cfg.Format.NewLine = "bogus"
	cfg.Watch.DebounceMs = -10

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidIndent)
	assert.ErrorIs(t, err, ErrInvalidNewLine)
	assert.ErrorIs(t, err, ErrInvalidDebounce)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestToInlinerOptions(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Format.NewLine = NewLineCRLF
	cfg.Inline.InsertIndex = 2

	opts := cfg.ToInlinerOptions()
	assert.Equal(t, "\r\n", opts.NewLine)
	assert.Equal(t, 2, opts.InsertIndex)
	assert.Equal(t, 4, opts.IndentSize)
	assert.Equal(t, cfg.Resolve.Extensions, opts.Extensions)

	cfg.Format.NewLine = NewLineAuto
	assert.Empty(t, cfg.ToInlinerOptions().NewLine)
}
