package cli

import (
	"leftover-chef/internal/api"
	"leftover-chef/internal/app"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *options) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Starts the JSON API under /api/v1 together with /health, /ready, /live
and the Prometheus /metrics endpoint.`,
		Example: `  # Start on the configured port (APP_SERVER_PORT or PORT, default 8080)
  chef serve

  # Start on a custom port
  chef serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if port > 0 {
				cfg.Server.Port = port
			}

			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			return api.Run(cmd.Context(), a)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (overrides config)")

	return cmd
}
