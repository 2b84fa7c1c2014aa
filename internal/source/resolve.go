package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrModuleNotFound indicates a module specifier that maps to no file on disk
var ErrModuleNotFound = errors.New("module not found")

// DefaultExtensions are tried, in order, after a relative module specifier.
var DefaultExtensions = []string{".ts", ".tsx", ".d.ts"}

// DefaultIndexFiles are tried, in order, when a specifier names a directory.
var DefaultIndexFiles = []string{"index.ts", "index.tsx", "index.d.ts"}

// Resolver maps import module specifiers to file paths.
type Resolver struct {
	extensions []string
	indexFiles []string
}

// NewResolver creates a resolver. Empty lists fall back to the defaults.
func NewResolver(extensions, indexFiles []string) *Resolver {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	if len(indexFiles) == 0 {
		indexFiles = DefaultIndexFiles
	}
	return &Resolver{
		extensions: extensions,
		indexFiles: indexFiles,
	}
}

// IsRelative reports whether specifier points into the local file tree rather than
// at a package.
func IsRelative(specifier string) bool {
	return specifier == "." || specifier == ".." ||
		strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

// ResolveModulePath maps specifier, as written in an import of the file at fromPath,
// to a file path. Only relative specifiers resolve. Candidates are checked in order:
// the path as written when it already has a TypeScript extension, the path with a
// `.js` suffix swapped for each extension, the path plus each extension, and finally
// each index file inside the path.
func (r *Resolver) ResolveModulePath(fromPath, specifier string) (string, error) {
	if !IsRelative(specifier) {
		return "", fmt.Errorf("%w: %s is not a relative specifier", ErrModuleNotFound, specifier)
	}

	base := filepath.Join(filepath.Dir(fromPath), filepath.FromSlash(specifier))

	var candidates []string
	for _, ext := range r.extensions {
		if strings.HasSuffix(base, ext) {
			candidates = append(candidates, base)
			break
		}
	}
	if trimmed, ok := strings.CutSuffix(base, ".js"); ok {
		for _, ext := range r.extensions {
			candidates = append(candidates, trimmed+ext)
		}
	}
	for _, ext := range r.extensions {
		candidates = append(candidates, base+ext)
	}
	for _, index := range r.indexFiles {
		candidates = append(candidates, filepath.Join(base, index))
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s from %s", ErrModuleNotFound, specifier, fromPath)
}

// Extensions returns the configured extensions.
func (r *Resolver) Extensions() []string {
	return r.extensions
}
