// Package mcp exposes inlining over the Model Context Protocol.
package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/tsinline/internal/declaration"
)

// ServerConfig configures an MCP server.
type ServerConfig struct {
	ProjectPath string
	Version     string
	Inliner     FileInliner
	Units       UnitSource
	Writer      *declaration.Writer
}

// Server manages the MCP server lifecycle.
type Server struct {
	config *ServerConfig
	mcp    *server.MCPServer
}

// NewServer creates an MCP server with the inline_file, read_declaration and
// list_declarations tools registered.
func NewServer(config *ServerConfig) (*Server, error) {
	if config == nil || config.Inliner == nil || config.Units == nil {
		return nil, fmt.Errorf("inliner and unit source are required")
	}

	root, err := filepath.Abs(config.ProjectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project path: %w", err)
	}
	config.ProjectPath = root

	if config.Writer == nil {
		config.Writer = declaration.NewWriter()
	}
	if config.Version == "" {
		config.Version = "dev"
	}

	mcpServer := server.NewMCPServer(
		"tsinline",
		config.Version,
		server.WithToolCapabilities(true),
	)

	AddInlineFileTool(mcpServer, config.Inliner, root)
	AddReadDeclarationTool(mcpServer, config.Units, config.Writer, root)
	AddListDeclarationsTool(mcpServer, config.Units, root)

	return &Server{
		config: config,
		mcp:    mcpServer,
	}, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting MCP server on stdio (project: %s)...", s.config.ProjectPath)
		if err := server.ServeStdio(s.mcp); err != nil {
			errCh <- fmt.Errorf("MCP server error: %w", err)
		}
	}()

	select {
	case <-sigCh:
		log.Printf("Received shutdown signal, stopping gracefully...")
		return nil
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
