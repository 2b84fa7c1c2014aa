package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/tsinline/internal/depgraph"
	"github.com/mvp-joe/tsinline/internal/inliner"
	"github.com/mvp-joe/tsinline/internal/watcher"
)

var watchOutDirFlag string

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-inline entry files when they or their imports change",
	Long: `Watch inlines every entry file into --out-dir, then keeps the output up to
date. A changed entry is re-inlined; a changed module re-inlines every entry
importing it. Sources are never rewritten.

Examples:
  tsinline watch --out-dir dist/inlined
`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVarP(&watchOutDirFlag, "out-dir", "o", "", "Write inlined files under this directory (required)")
	watchCmd.MarkFlagRequired("out-dir")
}

func runWatch(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	defer p.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Two watchers would race on the same output files
	singleton := watcher.NewSingleton(filepath.Join(p.root, ".tsinline", "watch.lock"))
	won, err := singleton.Acquire()
	if err != nil {
		return err
	}
	if !won {
		return fmt.Errorf("another tsinline watch is already running for %s", p.root)
	}
	defer singleton.Release()

	session, err := newWatchSession(ctx, p, watchOutDirFlag, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	fw, err := watcher.NewFileWatcher(
		[]string{p.root},
		p.cfg.Resolve.Extensions,
		watcher.WithDebounce(time.Duration(p.cfg.Watch.DebounceMs)*time.Millisecond),
		watcher.WithIgnore(session.ignored),
	)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Stop()

	if err := fw.Start(ctx, func(files []string) {
		session.handleChanges(ctx, files)
	}); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	log.Printf("Watching %s (Ctrl+C to stop)", p.root)
	<-ctx.Done()
	log.Printf("Stopping watcher...")
	return nil
}

// watchSession keeps the inlined copies under outDir in sync with the sources.
type watchSession struct {
	p      *project
	graph  *depgraph.Graph
	in     *inliner.Inliner
	outDir string
	out    io.Writer
}

// newWatchSession builds the import graph of the entry files and inlines all of them.
func newWatchSession(ctx context.Context, p *project, outDir string, out io.Writer) (*watchSession, error) {
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(p.root, outDir)
	}
	s := &watchSession{
		p:      p,
		in:     p.newInliner(nil),
		outDir: filepath.Clean(outDir),
		out:    out,
	}

	entries, err := p.entries(nil)
	if err != nil {
		return nil, err
	}
	entries = s.sources(entries)

	if s.graph, err = depgraph.Build(ctx, p.resolver, entries); err != nil {
		return nil, err
	}
	files, imports := s.graph.Stats()
	debugf("Import graph: %s files, %s imports", formatNumber(files), formatNumber(imports))

	s.inline(ctx, entries)
	return s, nil
}

// ignored reports whether a directory should not be watched.
func (s *watchSession) ignored(dir string) bool {
	return s.inOutDir(dir) || s.p.isIgnored(dir)
}

func (s *watchSession) inOutDir(path string) bool {
	return isUnder(path, s.outDir)
}

// sources drops paths under the output directory.
func (s *watchSession) sources(paths []string) []string {
	return excludeDir(paths, s.outDir)
}

// handleChanges re-inlines the entries affected by a batch of changed files.
func (s *watchSession) handleChanges(ctx context.Context, files []string) {
	affected := make(map[string]bool)

	for _, file := range s.sources(files) {
		s.p.cache.Invalidate(file)

		if s.p.isEntry(file) {
			if _, err := os.Stat(file); err == nil {
				if err := s.graph.Update(file); err != nil {
					log.Printf("Warning: failed to scan imports of %s: %v", s.p.rel(file), err)
					continue
				}
				affected[file] = true
			} else {
				if err := s.graph.Remove(file); err != nil {
					log.Printf("Warning: failed to drop %s from import graph: %v", s.p.rel(file), err)
				}
				s.removeOutput(file)
			}
		}

		for _, entry := range s.graph.Dependents(file) {
			affected[entry] = true
		}
	}

	// a created module may satisfy imports that did not resolve before
	for _, entry := range s.graph.Pending() {
		if err := s.graph.Update(entry); err != nil {
			log.Printf("Warning: failed to scan imports of %s: %v", s.p.rel(entry), err)
			continue
		}
		affected[entry] = true
	}

	entries := make([]string, 0, len(affected))
	for entry := range affected {
		entries = append(entries, entry)
	}
	sort.Strings(entries)
	s.inline(ctx, entries)
}

// inline writes the inlined copy of each entry. Failures are logged so one broken
// file does not stop the session.
func (s *watchSession) inline(ctx context.Context, entries []string) {
	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}

		result, err := s.in.InlineFile(ctx, entry)
		if err != nil {
			log.Printf("Warning: %v", err)
			continue
		}
		out, err := s.p.outputPath(s.outDir, entry)
		if err != nil {
			log.Printf("Warning: %v", err)
			continue
		}
		if err := writeOutput(out, result.Output); err != nil {
			log.Printf("Warning: %v", err)
			continue
		}
		fmt.Fprintf(s.out, "✓ %s (%d inlined)\n", s.p.rel(entry), len(result.Inlined))
	}
}

func (s *watchSession) removeOutput(entry string) {
	out, err := s.p.outputPath(s.outDir, entry)
	if err != nil {
		return
	}
	if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to remove %s: %v", out, err)
	}
}
