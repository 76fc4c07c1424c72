package main

import (
	"github.com/artpar/denda/bootstrap"
	"github.com/spf13/cobra"
)

var (
	hotReload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the denda HTTP API.

The server will:
  - Load configuration from denda.yaml (or --config)
  - Fall back to built-in tables and DENDA_* environment variables when the file is absent
  - Serve catalog listings and penalty quotes under /api
  - Reload applications, packages and the penalty policy on file change or SIGHUP

Endpoints:
  GET  /health
  GET  /version
  GET  /metrics                          (metrics.enabled)
  GET  /api/applications
  GET  /api/applications/{id}/packages
  GET  /api/packages
  GET  /api/quote?app=&package=&devices=&violators=
  POST /api/quote

Environment variables:
  DENDA_SERVER_HOST         - Server host (default: 0.0.0.0)
  DENDA_SERVER_PORT         - Server port (default: 8080)
  DENDA_LOG_LEVEL           - Log level: debug, info, warn, error
  DENDA_LOG_FORMAT          - Log format: json or console
  DENDA_METRICS_ENABLED     - Enable /metrics
  DENDA_RATELIMIT_ENABLED   - Enable per-client API rate limiting
  DENDA_PENALTY_MODE        - application or fixed
  DENDA_PENALTY_FIXED_RATE  - Rate used in fixed mode (default: 0.5)

Examples:
  denda serve
  denda serve --config /etc/denda/denda.yaml
  denda serve --hot-reload=false`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&hotReload, "hot-reload", true, "enable hot reload of configuration")
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := bootstrap.New(bootstrap.Options{
		ConfigPath: cfgFile,
		HotReload:  hotReload,
		Build:      buildInfo(),
	})
	if err != nil {
		return err
	}

	// Run (blocks until shutdown)
	return app.Run()
}
