package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// NewFileLoader creates a loader that reads an explicit config file instead of
// searching .tsinline/ under rootDir. A missing file is an error.
func NewFileLoader(rootDir, configFile string) Loader {
	return &loader{
		rootDir:    rootDir,
		configFile: configFile,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (TSINLINE_*)
// 2. Config file (.tsinline/config.yml or .tsinline/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, ".tsinline"))
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("TSINLINE")
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., TSINLINE_FORMAT_INDENT_SIZE)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Format configuration
	v.BindEnv("format.indent_size")
	v.BindEnv("format.new_line")

	// Inline configuration
	v.BindEnv("inline.insert_index")
	v.BindEnv("inline.keep_unresolved_imports")
	v.BindEnv("inline.cache_size")

	// Watch configuration
	v.BindEnv("watch.debounce_ms")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable unless it was requested explicitly
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || l.configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("format.indent_size", defaults.Format.IndentSize)
	v.SetDefault("format.new_line", defaults.Format.NewLine)

	v.SetDefault("resolve.extensions", defaults.Resolve.Extensions)
	v.SetDefault("resolve.index_files", defaults.Resolve.IndexFiles)

	v.SetDefault("inline.insert_index", defaults.Inline.InsertIndex)
	v.SetDefault("inline.keep_unresolved_imports", defaults.Inline.KeepUnresolvedImports)
	v.SetDefault("inline.cache_size", defaults.Inline.CacheSize)

	v.SetDefault("paths.entries", defaults.Paths.Entries)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)

	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
