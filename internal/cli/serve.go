package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/waveplan/internal/server"
	"github.com/matzehuels/waveplan/pkg/cache"
	"github.com/matzehuels/waveplan/pkg/errors"
	"github.com/matzehuels/waveplan/pkg/pipeline"
)

// serveCommand creates the serve command that runs the HTTP planning service.
func (c *CLI) serveCommand() *cobra.Command {
	var cfg server.Config
	var redisURL string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP planning service",
		Long: `Serve starts an HTTP service that plans inventories posted to it:

  GET  /healthz
  POST /api/v1/plan            full analysis and wave plan
  POST /api/v1/cycles          dependency cycles (?node=ID to filter)
  POST /api/v1/critical-path   longest dependency chain
  POST /api/v1/render          diagram (?output=svg|dot|png|pdf)

Request bodies are inventories in JSON (default), TOML or CSV, selected by
Content-Type or the format query parameter. Rendered diagrams are cached in
memory, or in Redis with --redis-url. The server stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			if redisURL != "" {
				rc, err := cache.NewRedisCache(ctx, redisURL)
				if err != nil {
					return errors.Wrap(errors.ErrCodeInvalidInput, err, "redis cache unavailable")
				}
				logger.Debug("using redis artifact cache")
				cfg.Cache = rc
			}
			srv := server.New(pipeline.NewRunner(logger), logger, cfg)
			printInfo(cmd.OutOrStdout(), "Serving on %s", StyleHighlight.Render(srv.Addr()))
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&cfg.Addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().DurationVar(&cfg.RequestTimeout, "request-timeout", server.DefaultRequestTimeout, "maximum duration of a planning request")
	cmd.Flags().DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", server.DefaultShutdownTimeout, "grace period for in-flight requests on shutdown")
	cmd.Flags().StringVar(&redisURL, "redis-url", "", "share rendered diagrams through Redis (redis://host:port/db)")
	cmd.Flags().Int64Var(&cfg.MaxBodyBytes, "max-body-bytes", server.DefaultMaxBodyBytes, "maximum inventory size in bytes")

	return cmd
}
