package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"quill/internal/mcp"
	"quill/internal/workspace"
	"quill/pkg/fileops"

	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command, which runs the MCP server
// without the editor UI.
func NewServeCmd() *cobra.Command {
	var (
		workspacePath string
		useHTTP       bool
	)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server for a workspace",
		Long: `Serve exposes a workspace over the Model Context Protocol without
starting the editor.

By default the server speaks MCP over stdio, which is how most AI
assistants launch it. With --http it listens on the configured port
instead and requires the bearer token managed by "quill token".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := workspace.Open(fileops.ExpandPath(workspacePath))
			if err != nil {
				return fmt.Errorf("failed to open workspace: %w", err)
			}
			defer ws.Close()

			if cfg.MCP.ToolsEnabled {
				if err := fileops.ValidateDirectoryWritable(ws.Path()); err != nil {
					logger.Warn("Workspace is read-only, disabling write tools", "error", err)
					cfg.MCP.ToolsEnabled = false
				}
			}

			srv, err := mcp.NewServer(cfg, logger, ws)
			if err != nil {
				return err
			}

			if useHTTP {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				logger.Info("Serving MCP over HTTP", "workspace", ws.Path(), "port", cfg.MCP.Port)
				return srv.ServeHTTP(ctx)
			}

			logger.Info("Serving MCP over stdio", "workspace", ws.Path())
			return srv.ServeStdio()
		},
	}

	serveCmd.Flags().StringVarP(&workspacePath, "workspace", "w", ".", "workspace directory to expose")
	serveCmd.Flags().BoolVar(&useHTTP, "http", false, "listen on the configured HTTP port instead of stdio")

	return serveCmd
}
