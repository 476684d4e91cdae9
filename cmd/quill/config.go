package main

import (
	"fmt"
	"os"

	"quill/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect quill configuration",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, exists := config.FindConfigFile()
			if exists {
				fmt.Fprintf(os.Stderr, "# %s\n", path)
			} else {
				fmt.Fprintf(os.Stderr, "# defaults (no config file at %s)\n", path)
			}

			enc := yaml.NewEncoder(os.Stdout)
			defer enc.Close()
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			return nil
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := config.ConfigPath()
			fmt.Println(path)
			return nil
		},
	}

	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(pathCmd)
	return configCmd
}
