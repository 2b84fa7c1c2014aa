package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidIndent indicates a non-positive indent size
	ErrInvalidIndent = errors.New("invalid indent size")

	// ErrInvalidNewLine indicates an unknown new line setting
	ErrInvalidNewLine = errors.New("invalid new line setting")

	// ErrInvalidExtension indicates a resolve extension without a leading dot
	ErrInvalidExtension = errors.New("invalid resolve extension")

	// ErrEmptyExtensions indicates that no resolve extensions are configured
	ErrEmptyExtensions = errors.New("empty resolve extensions")

	// ErrInvalidInsertIndex indicates a negative insert index
	ErrInvalidInsertIndex = errors.New("invalid insert index")

	// ErrInvalidCacheSize indicates a negative cache size
	ErrInvalidCacheSize = errors.New("invalid cache size")

	// ErrInvalidDebounce indicates a negative watch debounce
	ErrInvalidDebounce = errors.New("invalid watch debounce")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateFormat(&cfg.Format); err != nil {
		errs = append(errs, err)
	}

	if err := validateResolve(&cfg.Resolve); err != nil {
		errs = append(errs, err)
	}

	if err := validateInline(&cfg.Inline); err != nil {
		errs = append(errs, err)
	}

	if err := validatePaths(&cfg.Paths); err != nil {
		errs = append(errs, err)
	}

	if cfg.Watch.DebounceMs < 0 {
		errs = append(errs, fmt.Errorf("%w: debounce_ms cannot be negative, got %d", ErrInvalidDebounce, cfg.Watch.DebounceMs))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateFormat(cfg *FormatConfig) error {
	var errs []error

	if cfg.IndentSize <= 0 || cfg.IndentSize > 16 {
		errs = append(errs, fmt.Errorf("%w: indent_size must be between 1 and 16, got %d", ErrInvalidIndent, cfg.IndentSize))
	}

	switch strings.ToLower(cfg.NewLine) {
	case NewLineAuto, NewLineLF, NewLineCRLF:
	default:
		errs = append(errs, fmt.Errorf("%w: must be 'auto', 'lf' or 'crlf', got '%s'", ErrInvalidNewLine, cfg.NewLine))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateResolve(cfg *ResolveConfig) error {
	var errs []error

	if len(cfg.Extensions) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one extension required", ErrEmptyExtensions))
	}

	for _, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			errs = append(errs, fmt.Errorf("%w: %q must start with a dot", ErrInvalidExtension, ext))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateInline(cfg *InlineConfig) error {
	var errs []error

	if cfg.InsertIndex < 0 {
		errs = append(errs, fmt.Errorf("%w: insert_index cannot be negative, got %d", ErrInvalidInsertIndex, cfg.InsertIndex))
	}

	// zero falls back to the built-in cache size
	if cfg.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("%w: cache_size cannot be negative, got %d", ErrInvalidCacheSize, cfg.CacheSize))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validatePaths(cfg *PathsConfig) error {
	// Paths can be empty - entries may also be passed on the command line
	return nil
}

// joinErrors combines multiple errors into a single error. The result still matches
// every wrapped sentinel with errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return fmt.Errorf("validation failed: %w", errors.Join(errs...))
}
