package main

import (
	"fmt"

	"quill/internal/config"
	"quill/internal/logging"
	"quill/internal/session"
	"quill/internal/tui"
	"quill/pkg/fileops"

	"github.com/spf13/cobra"
)

var (
	debugMode bool

	logger *logging.AppLogger
	cfg    *config.Config
	sess   *session.Session
)

// NewRootCmd creates the root command. Running it with no subcommand
// launches the editor, reopening the last workspace when one is known.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quill [workspace]",
		Short: "A workspace editor for your terminal",
		Long: `quill is a terminal workspace editor with session persistence and a
built-in Model Context Protocol (MCP) server.

Open a directory as a workspace and quill remembers your open files,
cursor positions, and recently used workspaces between sessions. The
MCP server exposes workspace files to AI assistants as resources,
tools, and prompts.`,
		Args: cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debugMode {
				logger = logging.NewDebugLogger()
			} else {
				logger = logging.NewAppLogger()
			}

			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			sess, err = session.Load()
			if err != nil {
				logger.Warn("Session file unreadable, starting fresh", "error", err)
				sess = &session.Session{}
			}
			if sess.Prune() {
				logger.Debug("Pruned stale entries from session")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			startPath := ""
			switch {
			case len(args) == 1:
				startPath = fileops.ExpandPath(args[0])
			case sess.LastWorkspace != "" && (!cfg.ShowWelcomeScreen || sess.WelcomeTabClosed):
				// Reopen where the user left off, unless they ended the
				// last run on the welcome screen and want it back.
				startPath = sess.LastWorkspace
			}

			return tui.Run(cfg, sess, logger, startPath)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "write debug logs to the state directory")

	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewWorkspacesCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewTokenCmd())

	return rootCmd
}
