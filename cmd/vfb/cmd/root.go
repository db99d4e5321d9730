/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/vfbkit/pkg/config"
	"github.com/ssargent/vfbkit/pkg/logging"
)

var (
	appConfig *config.Config
	logger    *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vfb",
	Short: "vfb - FontLab VFB container inspector",
	Long: `vfb reads FontLab Studio 5 VFB font files without decoding their
contents: it parses the header, lists the directory of entries, dumps
individual payloads and keeps a catalog of scanned files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		explicit := cmd.Flags().Changed("config") && cmd.Annotations["config"] != "optional"
		cfg, err := loadConfig(configPath, explicit)
		if err != nil {
			return err
		}
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Logging.Level = level
		}
		if dir, _ := cmd.Flags().GetString("catalog-dir"); dir != "" {
			cfg.CatalogDir = dir
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		logger, err = logging.Init(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
		if err != nil {
			return err
		}
		appConfig = cfg
		return nil
	},
}

// loadConfig reads the config file, falling back to defaults when the default
// path does not exist. An explicitly named file must exist.
func loadConfig(path string, explicit bool) (*config.Config, error) {
	if path == "" {
		path = config.GetDefaultConfigPath()
	}
	if !config.ConfigExists(path) {
		if explicit {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(path)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/vfbkit/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("catalog-dir", "", "Catalog directory (overrides catalog_dir)")
}
