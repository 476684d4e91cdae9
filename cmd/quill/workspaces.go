package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewWorkspacesCmd creates the workspaces command group for inspecting
// and clearing the recent-workspace list.
func NewWorkspacesCmd() *cobra.Command {
	workspacesCmd := &cobra.Command{
		Use:   "workspaces",
		Short: "Manage recently used workspaces",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recently used workspaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(sess.RecentWorkspaces) == 0 {
				fmt.Println("No recent workspaces.")
				return nil
			}
			for i, path := range sess.RecentWorkspaces {
				marker := " "
				if path == sess.LastWorkspace {
					marker = "*"
				}
				fmt.Printf("%s %2d  %s\n", marker, i+1, path)
			}
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the recent-workspace list",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess.ClearRecents()
			if err := sess.Save(); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}
			fmt.Println("Recent workspaces cleared.")
			return nil
		},
	}

	workspacesCmd.AddCommand(listCmd)
	workspacesCmd.AddCommand(clearCmd)
	return workspacesCmd
}
