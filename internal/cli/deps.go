package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/tsinline/internal/depgraph"
)

var (
	depsDOTFlag     bool
	depsJSONFlag    bool
	depsReverseFlag bool
)

// depsCmd represents the deps command
var depsCmd = &cobra.Command{
	Use:   "deps [files...]",
	Short: "Show which local modules entry files import",
	Long: `Deps scans the relative imports of entry files and prints the local modules
each one would inline from. Only one hop is followed: imports of imported
modules are not scanned.

Examples:
  # Imports of every entry file
  tsinline deps

  # Entries that import src/lib.ts
  tsinline deps --reverse src/lib.ts

  # Graphviz output
  tsinline deps --dot | dot -Tsvg > deps.svg
`,
	RunE: runDeps,
}

func init() {
	rootCmd.AddCommand(depsCmd)
	depsCmd.Flags().BoolVar(&depsDOTFlag, "dot", false, "Print the graph in Graphviz DOT format")
	depsCmd.Flags().BoolVar(&depsJSONFlag, "json", false, "Print edges as JSON")
	depsCmd.Flags().BoolVarP(&depsReverseFlag, "reverse", "r", false, "Print the entries importing the given modules")
	depsCmd.MarkFlagsMutuallyExclusive("dot", "json")
}

func runDeps(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	defer p.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if depsReverseFlag {
		if len(args) == 0 {
			return fmt.Errorf("--reverse needs at least one module file")
		}
		modules, err := p.entries(args)
		if err != nil {
			return err
		}
		entries, err := p.entries(nil)
		if err != nil {
			return err
		}
		g, err := depgraph.Build(ctx, p.resolver, entries)
		if err != nil {
			return err
		}
		return printDependents(cmd.OutOrStdout(), p, g, modules)
	}

	entries, err := p.entries(args)
	if err != nil {
		return err
	}
	g, err := depgraph.Build(ctx, p.resolver, entries)
	if err != nil {
		return err
	}

	switch {
	case depsDOTFlag:
		return g.WriteDOT(cmd.OutOrStdout())
	case depsJSONFlag:
		return printEdgesJSON(cmd.OutOrStdout(), p, g)
	default:
		return printDependencies(cmd.OutOrStdout(), p, g, entries)
	}
}

// printDependencies prints each entry followed by the modules it imports.
func printDependencies(w io.Writer, p *project, g *depgraph.Graph, entries []string) error {
	edges, err := g.Edges()
	if err != nil {
		return err
	}
	byEntry := make(map[string][]depgraph.Edge)
	for _, e := range edges {
		byEntry[e.From] = append(byEntry[e.From], e)
	}

	for _, entry := range entries {
		if !g.IsEntry(entry) {
			continue
		}
		fmt.Fprintln(w, p.rel(entry))
		for _, e := range byEntry[entry] {
			fmt.Fprintf(w, "  %s -> %s\n", e.Specifier, p.rel(e.To))
		}
	}

	files, imports := g.Stats()
	debugf("%s files, %s imports", formatNumber(files), formatNumber(imports))
	return nil
}

// printDependents prints each module followed by the entries importing it.
func printDependents(w io.Writer, p *project, g *depgraph.Graph, modules []string) error {
	for _, module := range modules {
		fmt.Fprintln(w, p.rel(module))
		for _, entry := range g.Dependents(module) {
			fmt.Fprintf(w, "  <- %s\n", p.rel(entry))
		}
	}
	return nil
}

func printEdgesJSON(w io.Writer, p *project, g *depgraph.Graph) error {
	edges, err := g.Edges()
	if err != nil {
		return err
	}
	for i := range edges {
		edges[i].From = p.rel(edges[i].From)
		edges[i].To = p.rel(edges[i].To)
	}
	return writeJSON(w, edges)
}
