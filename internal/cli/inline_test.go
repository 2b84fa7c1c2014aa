package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Inline Command:
// - executeInline prints the inlined text to stdout by default
// - executeInline separates multiple files with a header comment
// - executeInline --write rewrites the files in place
// - executeInline --out-dir mirrors files under the output directory and keeps sources
// - executeInline --json prints a report with project-relative paths
// - executeInline with no entries reports it and succeeds

var inlineFixture = map[string]string{
	"src/index.ts": "import { greet, Mode } from './lib';\n\nexport const msg = greet(Mode.Loud);\n",
	"src/lib.ts":   "export enum Mode { Quiet, Loud }\nexport function greet(m: Mode): string { return 'hi'; }\n",
}

const inlinedIndex = `function greet(m: Mode): string {
    return 'hi';
}

enum Mode {
    Quiet,
    Loud
}

export const msg = greet(Mode.Loud);
`

func TestExecuteInline_Stdout(t *testing.T) {
	t.Parallel()

	p := newTestProject(t, inlineFixture)
	entry := filepath.Join(p.root, "src", "index.ts")

	var stdout, stderr bytes.Buffer
	err := executeInline(context.Background(), p, []string{entry}, inlineOptions{}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, inlinedIndex, stdout.String())
	assert.Empty(t, stderr.String(), "no progress output when printing to stdout")

	// sources are untouched
	data, err := os.ReadFile(entry)
	require.NoError(t, err)
	assert.Equal(t, inlineFixture["src/index.ts"], string(data))
}

func TestExecuteInline_MultipleFiles(t *testing.T) {
	t.Parallel()

	p := newTestProject(t, inlineFixture)
	paths := []string{filepath.Join(p.root, "src", "index.ts"), filepath.Join(p.root, "src", "lib.ts")}

	var stdout, stderr bytes.Buffer
	err := executeInline(context.Background(), p, paths, inlineOptions{}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, "// src/index.ts\n"+inlinedIndex+"// src/lib.ts\n"+inlineFixture["src/lib.ts"], stdout.String())
}

func TestExecuteInline_Write(t *testing.T) {
	t.Parallel()

	p := newTestProject(t, inlineFixture)
	entry := filepath.Join(p.root, "src", "index.ts")

	var stdout, stderr bytes.Buffer
	err := executeInline(context.Background(), p, []string{entry}, inlineOptions{write: true, quiet: true}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(entry)
	require.NoError(t, err)
	assert.Equal(t, inlinedIndex, string(data))
}

func TestExecuteInline_OutDir(t *testing.T) {
	t.Parallel()

	p := newTestProject(t, inlineFixture)
	entry := filepath.Join(p.root, "src", "index.ts")

	var stdout, stderr bytes.Buffer
	err := executeInline(context.Background(), p, []string{entry}, inlineOptions{outDir: "out"}, &stdout, &stderr)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(p.root, "out", "src", "index.ts"))
	require.NoError(t, err)
	assert.Equal(t, inlinedIndex, string(data))

	data, err = os.ReadFile(entry)
	require.NoError(t, err)
	assert.Equal(t, inlineFixture["src/index.ts"], string(data))

	assert.Contains(t, stderr.String(), "Inlining complete")
}

func TestExecuteInline_JSON(t *testing.T) {
	t.Parallel()

	p := newTestProject(t, inlineFixture)
	entry := filepath.Join(p.root, "src", "index.ts")

	var stdout, stderr bytes.Buffer
	err := executeInline(context.Background(), p, []string{entry}, inlineOptions{json: true, quiet: true}, &stdout, &stderr)
	require.NoError(t, err)

	var report struct {
		Files []struct {
			Path    string `json:"path"`
			Inlined []struct {
				Name string `json:"name"`
				Kind string `json:"kind"`
				From string `json:"from"`
			} `json:"inlined"`
		} `json:"files"`
		Inlined int `json:"inlined"`
		Skipped int `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))

	require.Len(t, report.Files, 1)
	assert.Equal(t, "src/index.ts", report.Files[0].Path)
	assert.Equal(t, 2, report.Inlined)
	assert.Equal(t, 0, report.Skipped)
	require.Len(t, report.Files[0].Inlined, 2)
	assert.Equal(t, "greet", report.Files[0].Inlined[0].Name)
	assert.Equal(t, "function", report.Files[0].Inlined[0].Kind)
	assert.Equal(t, "src/lib.ts", report.Files[0].Inlined[0].From)
}

func TestExecuteInline_NoEntries(t *testing.T) {
	t.Parallel()

	p := newTestProject(t, nil)

	var stdout, stderr bytes.Buffer
	err := executeInline(context.Background(), p, nil, inlineOptions{}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "No entry files found")
}
