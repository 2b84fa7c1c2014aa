package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/tsinline/internal/declaration"
)

var showJSONFlag bool

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <file> [name]",
	Short: "Show the declarations of a file as they would be inlined",
	Long: `Show lists the top-level declarations of a file that can be inlined.
With a declaration name it prints the text inline would insert for it.

Examples:
  # List declarations
  tsinline show src/lib.ts

  # Print one declaration as it would be inlined
  tsinline show src/lib.ts Config

  # Print the structured descriptor
  tsinline show --json src/lib.ts Config
`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSONFlag, "json", false, "Print JSON")
}

func runShow(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}
	defer p.Close()

	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	name := ""
	if len(args) == 2 {
		name = args[1]
	}
	return executeShow(p, path, name, showJSONFlag, cmd.OutOrStdout())
}

// declarationView is the --json output for one declaration.
type declarationView struct {
	Name        string                  `json:"name"`
	Kind        string                  `json:"kind"`
	Exported    bool                    `json:"exported"`
	Declaration declaration.Declaration `json:"declaration,omitempty"`
}

func executeShow(p *project, path, name string, asJSON bool, w io.Writer) error {
	u, release, err := p.cache.Get(path)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", p.rel(path), err)
	}
	defer release()

	if name == "" {
		return listDeclarations(w, declaration.Declarations(u), asJSON)
	}

	h, ok := declaration.Resolve(u, name)
	if !ok {
		return fmt.Errorf("no supported declaration named %s in %s", name, p.rel(path))
	}
	d, err := declaration.Read(h)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	if asJSON {
		return writeJSON(w, declarationView{
			Name:        name,
			Kind:        h.Kind.String(),
			Exported:    declaration.IsExported(h),
			Declaration: d,
		})
	}

	text, err := declaration.NewWriter(declaration.WithIndentSize(p.cfg.Format.IndentSize)).Format(d)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, text)
	return err
}

func listDeclarations(w io.Writer, handles []declaration.Handle, asJSON bool) error {
	if asJSON {
		views := make([]declarationView, 0, len(handles))
		for _, h := range handles {
			views = append(views, declarationView{Name: h.Name(), Kind: h.Kind.String(), Exported: declaration.IsExported(h)})
		}
		return writeJSON(w, views)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tNAME\tEXPORTED")
	for _, h := range handles {
		fmt.Fprintf(tw, "%s\t%s\t%t\n", h.Kind, h.Name(), declaration.IsExported(h))
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
