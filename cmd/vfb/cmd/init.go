/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/vfbkit/pkg/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with a generated API key",
	Long: `Write a default configuration file with a freshly generated API key.

Examples:
  vfb init
  vfb init --config ./vfbkit.yaml --catalog-dir ./catalog`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{"config": "optional"},
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		catalogDir, _ := cmd.Flags().GetString("catalog-dir")
		force, _ := cmd.Flags().GetBool("force")
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		if config.ConfigExists(configPath) && !force {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", configPath)
		}

		cfg, err := config.BootstrapConfig(configPath, catalogDir)
		if err != nil {
			return err
		}
		logger.Info("configuration written", "path", configPath)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration written to %s\n", configPath)
		fmt.Fprintf(out, "Catalog directory: %s\n", cfg.CatalogDir)
		fmt.Fprintf(out, "API key: %s\n", cfg.Server.APIKey)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
}
