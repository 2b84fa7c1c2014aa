package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/tsinline/internal/depgraph"
)

// Test Plan for Deps Command:
// - printDependencies lists each entry with its specifiers and resolved modules
// - printDependents lists the entries importing a module
// - printEdgesJSON prints project-relative edges

var depsFixture = map[string]string{
	"app.ts":       "import { a } from './lib/a';\nimport { b } from './lib/b';\nimport React from 'react';\n",
	"page.ts":      "import { a } from './lib/a';\n",
	"lib/a.ts":     "export const a = 1;\n",
	"lib/b.ts":     "export const b = 2;\n",
	"lib/index.ts": "export {}\n",
}

func buildTestGraph(t *testing.T, p *project, entries []string) *depgraph.Graph {
	t.Helper()
	g, err := depgraph.Build(context.Background(), p.resolver, entries)
	require.NoError(t, err)
	return g
}

func TestPrintDependencies(t *testing.T) {
	t.Parallel()

	p := newTestProject(t, depsFixture)
	entries := []string{filepath.Join(p.root, "app.ts"), filepath.Join(p.root, "page.ts")}
	g := buildTestGraph(t, p, entries)

	var out bytes.Buffer
	require.NoError(t, printDependencies(&out, p, g, entries))

	assert.Equal(t, `app.ts
  ./lib/a -> lib/a.ts
  ./lib/b -> lib/b.ts
page.ts
  ./lib/a -> lib/a.ts
`, out.String())
}

func TestPrintDependents(t *testing.T) {
	t.Parallel()

	p := newTestProject(t, depsFixture)
	entries, err := p.entries(nil)
	require.NoError(t, err)
	g := buildTestGraph(t, p, entries)

	var out bytes.Buffer
	module := filepath.Join(p.root, "lib", "a.ts")
	require.NoError(t, printDependents(&out, p, g, []string{module}))

	assert.Equal(t, "lib/a.ts\n  <- app.ts\n  <- page.ts\n", out.String())
}

func TestPrintEdgesJSON(t *testing.T) {
	t.Parallel()

	p := newTestProject(t, depsFixture)
	g := buildTestGraph(t, p, []string{filepath.Join(p.root, "page.ts")})

	var out bytes.Buffer
	require.NoError(t, printEdgesJSON(&out, p, g))

	var edges []depgraph.Edge
	require.NoError(t, json.Unmarshal(out.Bytes(), &edges))
	assert.Equal(t, []depgraph.Edge{{From: "page.ts", To: "lib/a.ts", Specifier: "./lib/a"}}, edges)
}
