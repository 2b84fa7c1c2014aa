package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/tsinline/internal/declaration"
	"github.com/mvp-joe/tsinline/internal/source"
)

// UnitSource provides parsed source units. *source.Cache satisfies it.
// A unit may only be read until release is called.
type UnitSource interface {
	Get(path string) (u *source.Unit, release func(), err error)
}

// ReadDeclarationRequest represents the read_declaration tool parameters.
type ReadDeclarationRequest struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// ReadDeclarationResponse is returned by the read_declaration tool.
type ReadDeclarationResponse struct {
	Name        string                  `json:"name"`
	Kind        string                  `json:"kind"`
	Exported    bool                    `json:"exported"`
	Text        string                  `json:"text"`
	Declaration declaration.Declaration `json:"declaration"`
}

// DeclarationSummary is one entry of the list_declarations response.
type DeclarationSummary struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Exported bool   `json:"exported"`
}

// ListDeclarationsResponse is returned by the list_declarations tool.
type ListDeclarationsResponse struct {
	Path         string               `json:"path"`
	Declarations []DeclarationSummary `json:"declarations"`
	Total        int                  `json:"total"`
}

// AddReadDeclarationTool registers the read_declaration tool with an MCP server.
func AddReadDeclarationTool(s *server.MCPServer, units UnitSource, w *declaration.Writer, projectRoot string) {
	tool := mcp.NewTool(
		"read_declaration",
		mcp.WithDescription("Read one top-level declaration from a TypeScript file. Returns its structured descriptor (parameters, members, resolved types) and the text inline_file would insert for it."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the TypeScript file, relative to the project root")),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Name of the declaration (variable, function, class, enum, interface or type alias)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createReadDeclarationHandler(units, w, projectRoot))
}

// AddListDeclarationsTool registers the list_declarations tool with an MCP server.
func AddListDeclarationsTool(s *server.MCPServer, units UnitSource, projectRoot string) {
	tool := mcp.NewTool(
		"list_declarations",
		mcp.WithDescription("List the top-level declarations of a TypeScript file that can be inlined, in source order."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the TypeScript file, relative to the project root")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createListDeclarationsHandler(units, projectRoot))
}

// createReadDeclarationHandler creates the handler function for read_declaration tool.
func createReadDeclarationHandler(units UnitSource, w *declaration.Writer, projectRoot string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args ReadDeclarationRequest
		if err := bindArguments(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if args.Name == "" {
			return mcp.NewToolResultError("name parameter is required"), nil
		}

		path, err := resolveProjectPath(projectRoot, args.Path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		u, release, err := units.Get(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse %s: %v", args.Path, err)), nil
		}
		defer release()

		h, ok := declaration.Resolve(u, args.Name)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("no supported declaration named %s in %s", args.Name, args.Path)), nil
		}

		d, err := declaration.Read(h)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read %s: %v", args.Name, err)), nil
		}

		text, err := w.Format(d)
		if err != nil {
			return nil, fmt.Errorf("failed to format %s: %w", args.Name, err)
		}

		return marshalToolResponse(&ReadDeclarationResponse{
			Name:        args.Name,
			Kind:        h.Kind.String(),
			Exported:    declaration.IsExported(h),
			Text:        text,
			Declaration: d,
		})
	}
}

// createListDeclarationsHandler creates the handler function for list_declarations tool.
func createListDeclarationsHandler(units UnitSource, projectRoot string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := parseStringArg(request.GetArguments(), "path", true)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if path, err = resolveProjectPath(projectRoot, path); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		u, release, err := units.Get(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse %s: %v", relativePath(projectRoot, path), err)), nil
		}
		defer release()

		handles := declaration.Declarations(u)
		summaries := make([]DeclarationSummary, 0, len(handles))
		for _, h := range handles {
			summaries = append(summaries, DeclarationSummary{
				Name:     h.Name(),
				Kind:     h.Kind.String(),
				Exported: declaration.IsExported(h),
			})
		}

		return marshalToolResponse(&ListDeclarationsResponse{
			Path:         relativePath(projectRoot, path),
			Declarations: summaries,
			Total:        len(summaries),
		})
	}
}
