package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/TuanAnhhh123/M26-HKT/internal/server"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the admin console",
		Long: `Serve the admin console over HTTP.

Deep links are resolved against the route table: known routes render
the application shell, everything else is redirected to the dashboard.

Examples:
  hkt serve
  hkt serve --port=9000
  HKT_HISTORY_MODE=hash hkt serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			if cfg.Path() != "" && !fileExists(cfg.Path()) {
				warn("No %s found, using defaults", cfg.Path())
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			srv, err := server.New(ctx, cfg, server.WithLogger(logger))
			if err != nil {
				return err
			}

			printBanner()
			success("Serving %s on %s", cfg.Name, cfg.URL())
			info("history: %s, assets: %s", cfg.History.Mode, cfg.Assets.Source)
			if cfg.Metrics.Enabled {
				info("metrics: %s", cfg.Metrics.Path)
			}

			return srv.Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from hkt.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from hkt.json)")

	return cmd
}
