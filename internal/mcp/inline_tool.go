package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/tsinline/internal/inliner"
)

// FileInliner inlines the relative imports of one file.
type FileInliner interface {
	InlineFile(ctx context.Context, path string) (*inliner.Result, error)
	WriteFile(ctx context.Context, path string) (*inliner.Result, error)
}

// InlineFileRequest represents the inline_file tool parameters.
type InlineFileRequest struct {
	Path  string `json:"path"`
	Write bool   `json:"write,omitempty"`
}

// InlineFileResponse is returned by the inline_file tool.
type InlineFileResponse struct {
	Path    string                  `json:"path"`
	Output  string                  `json:"output"`
	Written bool                    `json:"written"`
	Inlined []inliner.Symbol        `json:"inlined"`
	Skipped []inliner.SkippedSymbol `json:"skipped,omitempty"`
}

// AddInlineFileTool registers the inline_file tool with an MCP server.
func AddInlineFileTool(s *server.MCPServer, in FileInliner, projectRoot string) {
	tool := mcp.NewTool(
		"inline_file",
		mcp.WithDescription("Inline the declarations a TypeScript file imports from relative modules. Each imported variable, function, class, enum, interface or type alias is copied into the file and the import is removed or reduced. Package imports, default imports, namespace imports and aliased bindings are left in place."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the TypeScript file, relative to the project root (e.g., 'src/index.ts')")),
		mcp.WithBoolean("write",
			mcp.Description("Write the result back to the file (default: false, only returns the new text)")),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createInlineFileHandler(in, projectRoot))
}

// createInlineFileHandler creates the handler function for inline_file tool.
func createInlineFileHandler(in FileInliner, projectRoot string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args InlineFileRequest
		if err := bindArguments(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		path, err := resolveProjectPath(projectRoot, args.Path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var result *inliner.Result
		if args.Write {
			result, err = in.WriteFile(ctx, path)
		} else {
			result, err = in.InlineFile(ctx, path)
		}
		if err != nil {
			// Parse errors and missing files are caller errors
			return mcp.NewToolResultError(fmt.Sprintf("inline failed: %v", err)), nil
		}

		return marshalToolResponse(&InlineFileResponse{
			Path:    relativePath(projectRoot, result.Path),
			Output:  result.Output,
			Written: args.Write && result.Changed(),
			Inlined: result.Inlined,
			Skipped: result.Skipped,
		})
	}
}
