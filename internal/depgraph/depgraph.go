// Package depgraph maintains the one-hop import graph between entry files and the
// local modules they import.
package depgraph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"sync"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"github.com/mvp-joe/tsinline/internal/source"
)

// Edge is an import of To by From, written with Specifier.
type Edge struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Specifier string `json:"specifier"`
}

// Graph is a directed graph of file paths. An edge points from an importing entry to
// an imported module. It is safe for concurrent use.
type Graph struct {
	mu       sync.RWMutex
	g        graph.Graph[string, string]
	resolver *source.Resolver
	entries  map[string]bool

	// unresolved holds the relative specifiers of each entry that did not resolve
	// to a file when the entry was last scanned.
	unresolved map[string][]string
}

// New creates an empty graph resolving specifiers with resolver.
func New(resolver *source.Resolver) *Graph {
	return &Graph{
		g:        graph.New(graph.StringHash, graph.Directed()),
		resolver:   resolver,
		entries:    make(map[string]bool),
		unresolved: make(map[string][]string),
	}
}

// Build creates a graph from entries. Entries that fail to parse are logged and
// skipped so one broken file does not hide the rest of the graph.
func Build(ctx context.Context, resolver *source.Resolver, entries []string) (*Graph, error) {
	g := New(resolver)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := g.Update(entry); err != nil {
			log.Printf("Warning: failed to scan imports of %s: %v", entry, err)
		}
	}
	return g, nil
}

// Update rescans the imports of entry, replacing its outgoing edges.
func (g *Graph) Update(entry string) error {
	u, err := source.Parse(entry)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", entry, err)
	}
	defer u.Close()

	var edges []Edge
	var unresolved []string
	for _, imp := range u.Imports() {
		if !source.IsRelative(imp.Specifier) {
			continue
		}
		target, err := g.resolver.ResolveModulePath(entry, imp.Specifier)
		if err != nil {
			unresolved = append(unresolved, imp.Specifier)
			continue
		}
		edges = append(edges, Edge{From: entry, To: target, Specifier: imp.Specifier})
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.removeOutEdges(entry); err != nil {
		return err
	}
	if err := g.addVertex(entry); err != nil {
		return err
	}
	g.entries[entry] = true
	if len(unresolved) > 0 {
		g.unresolved[entry] = unresolved
	} else {
		delete(g.unresolved, entry)
	}

	for _, e := range edges {
		if err := g.addVertex(e.To); err != nil {
			return err
		}
		err := g.g.AddEdge(e.From, e.To, graph.EdgeAttribute("specifier", e.Specifier))
		if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return fmt.Errorf("failed to add edge %s -> %s: %w", e.From, e.To, err)
		}
	}
	return nil
}

// Remove drops entry and its outgoing edges. The vertex stays while other entries import it.
func (g *Graph) Remove(entry string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.entries, entry)
	delete(g.unresolved, entry)
	if err := g.removeOutEdges(entry); err != nil {
		return err
	}

	preds, err := g.g.PredecessorMap()
	if err != nil {
		return err
	}
	if len(preds[entry]) == 0 {
		if err := g.g.RemoveVertex(entry); err != nil && !errors.Is(err, graph.ErrVertexNotFound) {
			return err
		}
	}
	return nil
}

// Dependencies returns the modules entry imports, sorted.
func (g *Graph) Dependencies(entry string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	adjacency, err := g.g.AdjacencyMap()
	if err != nil {
		return nil
	}
	return sortedKeys(adjacency[entry])
}

// Dependents returns the entries importing module, sorted.
func (g *Graph) Dependents(module string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	preds, err := g.g.PredecessorMap()
	if err != nil {
		return nil
	}
	return sortedKeys(preds[module])
}

// Pending returns the entries with a relative import that did not resolve when they
// were scanned but resolves now, sorted. Such entries need an Update.
func (g *Graph) Pending() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var pending []string
	for entry, specifiers := range g.unresolved {
		for _, spec := range specifiers {
			if _, err := g.resolver.ResolveModulePath(entry, spec); err == nil {
				pending = append(pending, entry)
				break
			}
		}
	}
	sort.Strings(pending)
	return pending
}

// IsEntry reports whether path was added with Update.
func (g *Graph) IsEntry(path string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.entries[path]
}

// Edges returns every import edge, sorted by source and target.
func (g *Graph) Edges() ([]Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	raw, err := g.g.Edges()
	if err != nil {
		return nil, err
	}

	edges := make([]Edge, 0, len(raw))
	for _, e := range raw {
		edges = append(edges, Edge{From: e.Source, To: e.Target, Specifier: e.Properties.Attributes["specifier"]})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges, nil
}

// Stats returns the number of files and import edges.
func (g *Graph) Stats() (files, imports int) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	files, _ = g.g.Order()
	imports, _ = g.g.Size()
	return files, imports
}

// WriteDOT writes the graph in Graphviz DOT format.
func (g *Graph) WriteDOT(w io.Writer) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return draw.DOT(g.g, w)
}

func (g *Graph) addVertex(path string) error {
	err := g.g.AddVertex(path)
	if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
		return fmt.Errorf("failed to add file %s: %w", path, err)
	}
	return nil
}

func (g *Graph) removeOutEdges(path string) error {
	adjacency, err := g.g.AdjacencyMap()
	if err != nil {
		return err
	}
	for target := range adjacency[path] {
		if err := g.g.RemoveEdge(path, target); err != nil {
			return fmt.Errorf("failed to remove edge %s -> %s: %w", path, target, err)
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
