/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/ssargent/vfbkit/pkg/api"
	"github.com/ssargent/vfbkit/pkg/catalog"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP inspection API",
	Long: `Start the HTTP API over the configured catalog.

Documents are added with POST /api/v1/documents and inspected under
/api/v1/documents/{id}. When an API key is configured, every /api/v1 request
must send it in the X-API-Key header. Prometheus metrics are served at /metrics.

Examples:
  vfb serve
  vfb serve --port 9300 --api-key mysecretkey`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		serverConfig := api.ServerConfig{
			Bind:   appConfig.Server.Bind,
			Port:   appConfig.Server.Port,
			APIKey: appConfig.Server.APIKey,
		}
		if cmd.Flags().Changed("bind") {
			serverConfig.Bind, _ = cmd.Flags().GetString("bind")
		}
		if cmd.Flags().Changed("port") {
			serverConfig.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("api-key") {
			serverConfig.APIKey, _ = cmd.Flags().GetString("api-key")
		}
		if serverConfig.APIKey == "" {
			logger.Warn("no API key configured; the API is unauthenticated")
		}

		cat, err := catalog.Open(appConfig.CatalogDir)
		if err != nil {
			return err
		}
		defer cat.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		return api.StartServer(ctx, cat, serverConfig, api.NewMetrics(registry), logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to listen on")
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("api-key", "", "API key required in X-API-Key (overrides server.api_key)")
}
