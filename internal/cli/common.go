package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mvp-joe/tsinline/internal/config"
	"github.com/mvp-joe/tsinline/internal/discovery"
	"github.com/mvp-joe/tsinline/internal/inliner"
	"github.com/mvp-joe/tsinline/internal/source"
)

// project bundles the configuration and shared state of one command run.
type project struct {
	root      string
	cfg       *config.Config
	cache     *source.Cache
	resolver  *source.Resolver
	discovery *discovery.FileDiscovery
}

// openProject loads the configuration of the project selected by --root and --config.
func openProject() (*project, error) {
	root, cfg, err := loadProject()
	if err != nil {
		return nil, err
	}
	return newProject(root, cfg)
}

func newProject(root string, cfg *config.Config) (*project, error) {
	cache, err := source.NewCache(cfg.Inline.CacheSize)
	if err != nil {
		return nil, err
	}

	fd, err := discovery.NewFileDiscovery(root, cfg.Paths.Entries, cfg.Paths.Ignore)
	if err != nil {
		cache.Close()
		return nil, fmt.Errorf("invalid path patterns: %w", err)
	}

	return &project{
		root:      root,
		cfg:       cfg,
		cache:     cache,
		resolver:  source.NewResolver(cfg.Resolve.Extensions, cfg.Resolve.IndexFiles),
		discovery: fd,
	}, nil
}

// Close releases the unit cache.
func (p *project) Close() {
	p.cache.Close()
}

func (p *project) newInliner(progress inliner.ProgressReporter) *inliner.Inliner {
	return inliner.New(p.cfg.ToInlinerOptions(), p.cache, progress)
}

// entries returns the files named in args, or the discovered entry files when
// args is empty. Named files are taken relative to the working directory.
func (p *project) entries(args []string) ([]string, error) {
	if len(args) == 0 {
		entries, err := p.discovery.DiscoverEntries()
		if err != nil {
			return nil, fmt.Errorf("failed to discover entry files: %w", err)
		}
		return entries, nil
	}

	paths := make([]string, 0, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", arg)
		}
		paths = append(paths, abs)
	}
	return paths, nil
}

// rel returns path relative to the project root, slash separated.
func (p *project) rel(path string) string {
	rel, err := filepath.Rel(p.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

// isEntry reports whether path is matched by the entry patterns and not ignored.
func (p *project) isEntry(path string) bool {
	rel := p.rel(path)
	return !filepath.IsAbs(rel) && p.discovery.Matches(rel)
}

// isIgnored reports whether an absolute path is excluded by the ignore patterns.
func (p *project) isIgnored(path string) bool {
	rel := p.rel(path)
	return !filepath.IsAbs(rel) && rel != "." && p.discovery.ShouldIgnore(rel)
}

// outputPath mirrors path from the project root into outDir. A relative outDir is
// taken relative to the project root.
func (p *project) outputPath(outDir, path string) (string, error) {
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(p.root, outDir)
	}
	rel, err := filepath.Rel(p.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside the project root", path)
	}
	return filepath.Join(outDir, rel), nil
}

// isUnder reports whether path is dir or inside it.
func isUnder(path, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

// excludeDir drops the paths inside dir.
func excludeDir(paths []string, dir string) []string {
	kept := make([]string, 0, len(paths))
	for _, path := range paths {
		if !isUnder(path, dir) {
			kept = append(kept, path)
		}
	}
	return kept
}

// writeOutput writes text to path, creating parent directories.
func writeOutput(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// formatNumber formats n with thousands separators.
func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	str := fmt.Sprintf("%d", n)
	var result string
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
