package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/tsinline/internal/declaration"
	"github.com/mvp-joe/tsinline/internal/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server exposing inlining tools",
	Long: `Start the Model Context Protocol (MCP) server so coding assistants can
inline imports and inspect declarations in the project.

Tools:
- inline_file: inline the relative imports of a file
- read_declaration: read one declaration as it would be inlined
- list_declarations: list the declarations of a file

Communicates via stdio (standard MCP transport).

Example:
  tsinline mcp`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p, err := openProject()
	if err != nil {
		return err
	}
	defer p.Close()

	// stdout carries the protocol
	fmt.Fprintf(os.Stderr, "tsinline MCP Server %s\n", Version)
	fmt.Fprintf(os.Stderr, "Project: %s\n\n", p.root)

	server, err := mcp.NewServer(&mcp.ServerConfig{
		ProjectPath: p.root,
		Version:     Version,
		Inliner:     p.newInliner(nil),
		Units:       p.cache,
		Writer:      declaration.NewWriter(declaration.WithIndentSize(p.cfg.Format.IndentSize)),
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	if err := server.Serve(ctx); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
