// Package mcp implements a Model Context Protocol server for quill using
// the mcp-go library.
//
// The server exposes an opened workspace to AI assistants: resources for
// reading the file tree and individual files, tools for listing, reading,
// searching, and (when enabled) writing files, and prompts loaded from
// .quill/prompts templates. It communicates over stdio using JSON-RPC 2.0,
// or over HTTP protected by a bearer token from the OS credential store.
package mcp

import (
	"context"
	"fmt"

	"quill/internal/config"
	"quill/internal/logging"
	"quill/internal/secrets"
	"quill/internal/workspace"

	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Server wires quill's workspace into an MCP server instance.
type Server struct {
	cfg       *config.Config
	logger    *logging.AppLogger
	ws        *workspace.Workspace
	creds     *secrets.CredentialManager
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server for an opened workspace, registering
// resources, tools, and prompts according to the configuration.
func NewServer(cfg *config.Config, logger *logging.AppLogger, ws *workspace.Workspace) (*Server, error) {
	if !cfg.MCP.Enabled {
		return nil, fmt.Errorf("MCP server is disabled in configuration")
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		ws:     ws,
		creds:  secrets.NewCredentialManager(),
	}

	s.mcpServer = server.NewMCPServer(
		"quill",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions(ws)),
	)

	if cfg.MCP.ExposeResources {
		s.registerResources()
	}
	s.registerTools()
	if err := s.registerPrompts(); err != nil {
		return nil, err
	}

	s.logger.Info("MCP server created",
		"workspace", ws.Path(),
		"resources", cfg.MCP.ExposeResources,
		"writeTools", cfg.MCP.ToolsEnabled,
	)
	return s, nil
}

// ServeStdio runs the server over stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	s.logger.Info("MCP server starting on stdio")
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// ServeHTTP runs the server over the streamable HTTP transport on the
// configured port until ctx is cancelled. Requests must carry the bearer
// token from the credential store; serving without a stored token is
// refused.
func (s *Server) ServeHTTP(ctx context.Context) error {
	token, err := s.creds.GetServerToken()
	if err != nil {
		return fmt.Errorf("failed to load server token: %w", err)
	}
	if token == "" {
		return fmt.Errorf("no server token configured - run `quill token set` first")
	}

	return s.serveHTTP(ctx, fmt.Sprintf(":%d", s.cfg.MCP.Port), token)
}

// serverInstructions tells connected assistants what the server offers.
func serverInstructions(ws *workspace.Workspace) string {
	return fmt.Sprintf(`This server exposes the quill workspace %q.

Use the workspace_info tool for an overview, list_files to enumerate files,
read_file for contents, and search_files to find text. File resources are
available under quill://workspace/. Prompts defined in the workspace's
.quill/prompts directory appear as named prompts with their template
placeholders as arguments.

Write tools, when available, modify real files in the user's workspace;
prefer small, targeted edits.`, ws.Name())
}
