// Package config provides configuration loading for tsinline.
//
// Configuration is read from .tsinline/config.yml in the project root. Values are
// resolved with the following priority (highest to lowest):
//  1. Environment variables (TSINLINE_*)
//  2. Config file (.tsinline/config.yml, or the file passed with --config)
//  3. Built-in defaults
//
// Nested keys map to environment variables with underscores, for example
// format.indent_size is TSINLINE_FORMAT_INDENT_SIZE.
package config

import "strings"

// Config represents the complete tsinline configuration.
type Config struct {
	Format  FormatConfig  `yaml:"format" mapstructure:"format"`
	Resolve ResolveConfig `yaml:"resolve" mapstructure:"resolve"`
	Inline  InlineConfig  `yaml:"inline" mapstructure:"inline"`
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Watch   WatchConfig   `yaml:"watch" mapstructure:"watch"`
}

// FormatConfig controls how inlined declarations are printed.
type FormatConfig struct {
	IndentSize int    `yaml:"indent_size" mapstructure:"indent_size"` // spaces per indentation level
	NewLine    string `yaml:"new_line" mapstructure:"new_line"`       // "auto", "lf" or "crlf"
}

// ResolveConfig controls how relative module specifiers map to files.
type ResolveConfig struct {
	Extensions []string `yaml:"extensions" mapstructure:"extensions"`   // tried in order, e.g. ".ts"
	IndexFiles []string `yaml:"index_files" mapstructure:"index_files"` // tried for directory imports
}

// InlineConfig controls where declarations are inserted and how imports are treated.
type InlineConfig struct {
	InsertIndex           int  `yaml:"insert_index" mapstructure:"insert_index"`                       // statement index of the first inlined declaration
	KeepUnresolvedImports bool `yaml:"keep_unresolved_imports" mapstructure:"keep_unresolved_imports"` // silence warnings for unresolvable modules
	CacheSize             int  `yaml:"cache_size" mapstructure:"cache_size"`                           // parsed modules kept in memory
}

// PathsConfig defines which files are entries for batch runs and which to ignore.
type PathsConfig struct {
	Entries []string `yaml:"entries" mapstructure:"entries"` // glob patterns for entry files
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to ignore
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms" mapstructure:"debounce_ms"` // quiet period before re-inlining
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Format: FormatConfig{
			IndentSize: 4,
			NewLine:    NewLineAuto,
		},
		Resolve: ResolveConfig{
			Extensions: []string{".ts", ".tsx", ".d.ts"},
			IndexFiles: []string{"index.ts", "index.tsx", "index.d.ts"},
		},
		Inline: InlineConfig{
			InsertIndex:           0,
			KeepUnresolvedImports: false,
			CacheSize:             256,
		},
		Paths: PathsConfig{
			Entries: []string{
				"**/*.ts",
				"**/*.tsx",
			},
			Ignore: []string{
				"node_modules/**",
				".git/**",
				"dist/**",
				"build/**",
				"**/*.d.ts",
			},
		},
		Watch: WatchConfig{
			DebounceMs: 500,
		},
	}
}

// New line settings.
const (
	NewLineAuto = "auto"
	NewLineLF   = "lf"
	NewLineCRLF = "crlf"
)

// LineTerminator returns the terminator for the new_line setting, or the empty string
// when it should follow the file being edited.
func (f FormatConfig) LineTerminator() string {
	switch strings.ToLower(f.NewLine) {
	case NewLineLF:
		return "\n"
	case NewLineCRLF:
		return "\r\n"
	default:
		return ""
	}
}
