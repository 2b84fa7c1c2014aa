package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/tsinline/internal/inliner"
)

var (
	inlineWriteFlag  bool
	inlineOutDirFlag string
	inlineJSONFlag   bool
	inlineQuietFlag  bool
)

// inlineCmd represents the inline command
var inlineCmd = &cobra.Command{
	Use:   "inline [files...]",
	Short: "Inline the declarations files import from relative modules",
	Long: `Inline copies every variable, function, class, enum, interface and type
alias a file imports from a relative module into the file, then removes the
import or reduces it to the bindings that could not be inlined.

Without file arguments the entry files matching paths.entries in the
configuration are processed.

By default the result is printed to stdout. Use --write to rewrite the files
in place, or --out-dir to write them under another directory.

Examples:
  # Print the inlined version of one file
  tsinline inline src/index.ts

  # Rewrite every entry file in place
  tsinline inline --write

  # Write inlined copies to dist/inlined
  tsinline inline --out-dir dist/inlined

  # Report what would be inlined as JSON
  tsinline inline --json src/index.ts
`,
	RunE: runInline,
}

func init() {
	rootCmd.AddCommand(inlineCmd)
	inlineCmd.Flags().BoolVarP(&inlineWriteFlag, "write", "w", false, "Rewrite files in place")
	inlineCmd.Flags().StringVarP(&inlineOutDirFlag, "out-dir", "o", "", "Write inlined files under this directory")
	inlineCmd.Flags().BoolVar(&inlineJSONFlag, "json", false, "Print a JSON report instead of file contents")
	inlineCmd.Flags().BoolVarP(&inlineQuietFlag, "quiet", "q", false, "Suppress progress output")
	inlineCmd.MarkFlagsMutuallyExclusive("write", "out-dir")
}

// inlineOptions selects where inlined output goes.
type inlineOptions struct {
	write  bool
	outDir string
	json   bool
	quiet  bool
}

func runInline(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	defer p.Close()

	paths, err := p.entries(args)
	if err != nil {
		return err
	}
	if inlineOutDirFlag != "" && len(args) == 0 {
		// Earlier output must not be picked up as entries
		out, err := p.outputPath(inlineOutDirFlag, p.root)
		if err != nil {
			return err
		}
		paths = excludeDir(paths, out)
	}

	return executeInline(cmd.Context(), p, paths, inlineOptions{
		write:  inlineWriteFlag,
		outDir: inlineOutDirFlag,
		json:   inlineJSONFlag,
		quiet:  inlineQuietFlag,
	}, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func executeInline(ctx context.Context, p *project, paths []string, opts inlineOptions, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(paths) == 0 {
		if !opts.quiet {
			fmt.Fprintln(stderr, "No entry files found")
		}
		return nil
	}

	// The progress bar only makes sense when stdout is not the output
	quiet := opts.quiet || (!opts.write && opts.outDir == "" && !opts.json)
	in := p.newInliner(NewCLIProgressReporter(stderr, quiet))

	var results []*inliner.Result
	var err error
	if opts.write {
		results, err = in.WriteFiles(ctx, paths)
	} else {
		results, err = in.InlineFiles(ctx, paths)
	}
	if err != nil {
		return err
	}

	for _, r := range results {
		for _, s := range r.Skipped {
			debugf("%s: kept %s from %s (%s)", p.rel(r.Path), s.Name, s.Specifier, s.Reason)
		}
	}

	if opts.outDir != "" {
		for _, r := range results {
			out, err := p.outputPath(opts.outDir, r.Path)
			if err != nil {
				return err
			}
			if err := writeOutput(out, r.Output); err != nil {
				return err
			}
		}
	}

	switch {
	case opts.json:
		return printInlineReport(stdout, p, results)
	case opts.write || opts.outDir != "":
		return nil
	default:
		return printInlineOutput(stdout, p, results)
	}
}

// printInlineOutput prints the inlined text of each file. Multiple files are
// separated by a header comment naming the file.
func printInlineOutput(w io.Writer, p *project, results []*inliner.Result) error {
	for _, r := range results {
		if len(results) > 1 {
			fmt.Fprintf(w, "// %s\n", p.rel(r.Path))
		}
		if _, err := io.WriteString(w, r.Output); err != nil {
			return err
		}
	}
	return nil
}

// inlineReport is the --json output of the inline command.
type inlineReport struct {
	Files   []*inliner.Result `json:"files"`
	Inlined int               `json:"inlined"`
	Skipped int               `json:"skipped"`
}

func printInlineReport(w io.Writer, p *project, results []*inliner.Result) error {
	report := inlineReport{Files: make([]*inliner.Result, 0, len(results))}
	for _, r := range results {
		rel := *r
		rel.Path = p.rel(r.Path)
		rel.Inlined = make([]inliner.Symbol, len(r.Inlined))
		for i, s := range r.Inlined {
			s.From = p.rel(s.From)
			rel.Inlined[i] = s
		}
		report.Files = append(report.Files, &rel)
		report.Inlined += len(r.Inlined)
		report.Skipped += len(r.Skipped)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
