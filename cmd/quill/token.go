package main

import (
	"fmt"

	"quill/internal/secrets"

	"github.com/spf13/cobra"
)

// NewTokenCmd creates the token command group for the MCP HTTP bearer
// token stored in the system keyring.
func NewTokenCmd() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the MCP server bearer token",
		Long: `The HTTP transport of the MCP server refuses connections without a
bearer token. The token lives in the system keyring, never in the
config file. Give the generated value to clients that should be able
to connect.`,
	}

	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Generate and store a new server token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cm := secrets.NewCredentialManager()
			token, err := cm.GenerateServerToken()
			if err != nil {
				return fmt.Errorf("failed to generate server token: %w", err)
			}
			fmt.Println(token)
			logger.Info("New MCP server token stored in keyring")
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored server token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cm := secrets.NewCredentialManager()
			if err := cm.DeleteServerToken(); err != nil {
				return fmt.Errorf("failed to remove server token: %w", err)
			}
			fmt.Println("Server token removed.")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Report whether a server token is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			cm := secrets.NewCredentialManager()
			if cm.HasServerToken() {
				fmt.Println("A server token is stored in the system keyring.")
			} else {
				fmt.Println("No server token stored. Run `quill token set` to create one.")
			}
			return nil
		},
	}

	tokenCmd.AddCommand(setCmd)
	tokenCmd.AddCommand(clearCmd)
	tokenCmd.AddCommand(statusCmd)
	return tokenCmd
}
