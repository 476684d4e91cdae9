// Package main is the entry point for the quill CLI application.
//
// The root command launches the editor TUI; subcommands run the MCP
// server headless, manage recent workspaces, and inspect configuration.
// Startup sequence: initialize logging, load configuration, load and
// prune the previous session, then dispatch to the selected command.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
