package inliner

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/mvp-joe/tsinline/internal/declaration"
	"github.com/mvp-joe/tsinline/internal/source"
)

// Skip reasons recorded in Result.Skipped.
const (
	ReasonModuleNotFound = "module not found"
	ReasonNotDeclared    = "no supported declaration with this name"
	ReasonAliased        = "aliased import"
	ReasonDefault        = "default import"
	ReasonNamespace      = "namespace import"
	ReasonMalformed      = "declaration is not part of a statement"
)

// Symbol is one inlined declaration.
type Symbol struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	From string `json:"from"`
}

// SkippedSymbol is an imported binding that was left in place.
type SkippedSymbol struct {
	Name      string `json:"name"`
	Specifier string `json:"specifier"`
	Reason    string `json:"reason"`
}

// Result is the outcome of inlining one file.
type Result struct {
	Path    string          `json:"path"`
	Output  string          `json:"-"`
	Inlined []Symbol        `json:"inlined"`
	Skipped []SkippedSymbol `json:"skipped,omitempty"`
}

// Changed reports whether anything was inlined.
func (r *Result) Changed() bool {
	return len(r.Inlined) > 0
}

// Options configures an Inliner.
type Options struct {
	// InsertIndex is the statement index the first inlined declaration goes to.
	// Later declarations follow it in import order.
	InsertIndex int

	// KeepUnresolvedImports keeps imports whose module cannot be resolved untouched.
	// When false such imports are still kept, but a warning is logged.
	KeepUnresolvedImports bool

	Extensions []string
	IndexFiles []string
	IndentSize int
	NewLine    string
}

// Inliner replaces relative imports of a file with copies of the imported declarations.
// It is safe for concurrent use; runs are serialized.
type Inliner struct {
	mu       sync.Mutex
	opts     Options
	resolver *source.Resolver
	cache    *source.Cache
	writer   *declaration.Writer
	progress ProgressReporter
}

// New creates an Inliner. Imported modules are parsed through cache.
func New(opts Options, cache *source.Cache, progress ProgressReporter) *Inliner {
	if progress == nil {
		progress = &NoOpProgressReporter{}
	}

	writerOpts := []declaration.Option{
		declaration.WithSkipHandler(func(h declaration.Handle, err error) {
			log.Printf("Warning: skipping %s in %s: %v", h.Name(), h.Unit.Path(), err)
		}),
	}
	if opts.IndentSize > 0 {
		writerOpts = append(writerOpts, declaration.WithIndentSize(opts.IndentSize))
	}
	if opts.NewLine != "" {
		writerOpts = append(writerOpts, declaration.WithNewLine(opts.NewLine))
	}

	return &Inliner{
		opts:     opts,
		resolver: source.NewResolver(opts.Extensions, opts.IndexFiles),
		cache:    cache,
		writer:   declaration.NewWriter(writerOpts...),
		progress: progress,
	}
}

// InlineFile parses path and inlines its relative imports. The file is not rewritten;
// the new text is returned in Result.Output.
func (in *Inliner) InlineFile(ctx context.Context, path string) (*Result, error) {
	u, err := source.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	defer u.Close()

	return in.InlineUnit(ctx, u)
}

// InlineFiles inlines every path in order, reporting progress. It stops at the first error.
func (in *Inliner) InlineFiles(ctx context.Context, paths []string) ([]*Result, error) {
	return in.each(ctx, paths, in.InlineFile)
}

// WriteFiles is InlineFiles, writing each changed file back.
func (in *Inliner) WriteFiles(ctx context.Context, paths []string) ([]*Result, error) {
	return in.each(ctx, paths, in.WriteFile)
}

func (in *Inliner) each(ctx context.Context, paths []string, fn func(context.Context, string) (*Result, error)) ([]*Result, error) {
	in.progress.OnInlineStart(len(paths))

	results := make([]*Result, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result, err := fn(ctx, path)
		if err != nil {
			return results, err
		}
		results = append(results, result)
		in.progress.OnFileInlined(path, len(result.Inlined))
	}

	in.progress.OnInlineComplete(results)
	return results, nil
}

// WriteFile inlines path and writes the result back when anything changed.
func (in *Inliner) WriteFile(ctx context.Context, path string) (*Result, error) {
	result, err := in.InlineFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if !result.Changed() {
		return result, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, []byte(result.Output), info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return result, nil
}

// InlineUnit inlines the relative imports of u in place.
//
// For each import the module is resolved and parsed, every named binding is looked up
// and its declaration copied into u. The import is then removed when all bindings were
// inlined, reduced to the remaining bindings when some were, and left alone otherwise.
func (in *Inliner) InlineUnit(ctx context.Context, u *source.Unit) (*Result, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	result := &Result{
		Path:    u.Path(),
		Inlined: []Symbol{},
	}

	insertAt := in.opts.InsertIndex
	if insertAt < 0 {
		insertAt = 0
	}

	// Imports are re-read after every mutation; inserted declarations never add
	// imports, so position k keeps pointing at the same import.
	for k := 0; ; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		imports := u.Imports()
		if k >= len(imports) {
			break
		}
		imp := imports[k]
		if !source.IsRelative(imp.Specifier) || imp.SideEffect() {
			continue
		}

		modulePath, err := in.resolver.ResolveModulePath(u.Path(), imp.Specifier)
		if err != nil {
			if !in.opts.KeepUnresolvedImports {
				log.Printf("Warning: cannot resolve %q from %s: %v", imp.Specifier, u.Path(), err)
			}
			for _, b := range imp.Named {
				result.Skipped = append(result.Skipped, SkippedSymbol{Name: b.Name, Specifier: imp.Specifier, Reason: ReasonModuleNotFound})
			}
			continue
		}

		foreign, release, err := in.cache.Get(modulePath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", modulePath, err)
		}

		if imp.Default != "" {
			result.Skipped = append(result.Skipped, SkippedSymbol{Name: imp.Default, Specifier: imp.Specifier, Reason: ReasonDefault})
		}
		if imp.Namespace != "" {
			result.Skipped = append(result.Skipped, SkippedSymbol{Name: imp.Namespace, Specifier: imp.Specifier, Reason: ReasonNamespace})
		}

		remaining, err := in.inlineBindings(u, foreign, imp, modulePath, &insertAt, result)
		release()
		if err != nil {
			return nil, err
		}

		if len(remaining) == len(imp.Named) {
			continue
		}
		removed, err := rewriteImport(u, k, remaining)
		if err != nil {
			return nil, err
		}
		if removed {
			k--
		}
	}

	result.Output = u.String()
	return result, nil
}

// inlineBindings inlines the named bindings of imp from foreign, advancing insertAt past
// every inserted statement. It returns the bindings that stay imported.
func (in *Inliner) inlineBindings(u, foreign *source.Unit, imp source.Import, modulePath string, insertAt *int, result *Result) ([]source.ImportBinding, error) {
	var remaining []source.ImportBinding
	for _, b := range imp.Named {
		kind, added, reason, err := in.inlineBinding(u, foreign, b, *insertAt)
		if err != nil {
			return nil, fmt.Errorf("failed to inline %s from %s: %w", b.Name, imp.Specifier, err)
		}
		if reason != "" {
			remaining = append(remaining, b)
			result.Skipped = append(result.Skipped, SkippedSymbol{Name: b.Name, Specifier: imp.Specifier, Reason: reason})
			continue
		}
		*insertAt += added
		result.Inlined = append(result.Inlined, Symbol{Name: b.Name, Kind: kind.String(), From: modulePath})
	}
	return remaining, nil
}

// inlineBinding copies the declaration named by b into u at index and returns the
// number of statements it added. It returns a skip reason when the binding cannot be
// inlined.
func (in *Inliner) inlineBinding(u, foreign *source.Unit, b source.ImportBinding, index int) (declaration.Kind, int, string, error) {
	if b.Alias != "" {
		return 0, 0, ReasonAliased, nil
	}

	h, ok := declaration.Resolve(foreign, b.Name)
	if !ok {
		return 0, 0, ReasonNotDeclared, nil
	}

	if n := len(u.Statements()); index > n {
		index = n
	}

	before := len(u.Statements())
	if err := in.writer.Transfer(index, h, u); err != nil {
		return 0, 0, "", err
	}
	added := len(u.Statements()) - before
	if added == 0 {
		return 0, 0, ReasonMalformed, nil
	}
	return h.Kind, added, "", nil
}

// rewriteImport replaces the k-th import of u with its remaining named bindings, or
// removes it when it would bind nothing.
func rewriteImport(u *source.Unit, k int, remaining []source.ImportBinding) (removed bool, err error) {
	imp := u.Imports()[k]
	text := imp.WithNamed(remaining)
	if text == "" {
		return true, u.RemoveStatement(imp.Index)
	}
	return false, u.ReplaceStatement(imp.Index, text)
}
