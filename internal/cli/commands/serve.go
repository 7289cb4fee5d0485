package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/litegate/internal/api"
	"github.com/leapstack-labs/litegate/internal/cli/config"
	"github.com/leapstack-labs/litegate/internal/gateway"
	"github.com/leapstack-labs/litegate/internal/metrics"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP gateway",
		Long: `Start the HTTP server exposing the databases under the root.

Every database is opened read-only for the duration of one request. The
server shuts down gracefully on SIGINT or SIGTERM.`,
		Example: `  # Serve ./SQL on :3000
  litegate serve

  # Serve another root and rebuild listings on file changes
  litegate serve --root /srv/sqlite --addr :8080 --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := newServer(cmd)
			if err != nil {
				return err
			}
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default :3000)")
	cmd.Flags().String("secondary-route", "", "Route prefix for the secondary directory (default appso)")
	cmd.Flags().Duration("query-timeout", 0, "Timeout for ad-hoc statements, 0 disables (default 30s)")
	cmd.Flags().Int("aggregate-concurrency", 0, "Databases read at once by the earliest-date aggregation (default 8)")
	cmd.Flags().Bool("watch", false, "Invalidate cached listings on filesystem changes")

	return cmd
}

// newServer wires the catalog, gateway and metrics into an api.Server.
func newServer(cmd *cobra.Command) (*api.Server, error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	if err := cfg.ValidateDirectories(); err != nil {
		return nil, err
	}

	m := metrics.New()
	cc := newCommandContext(cfg, logger, gateway.Config{
		QueryTimeout:         cfg.QueryTimeout,
		AggregateConcurrency: cfg.AggregateConcurrency,
		Logger:               logger,
		Observer:             m,
	})

	logger.Info("serving databases",
		"root", cfg.Root,
		"secondary_dir", cfg.SecondaryDir,
		"default_database", cfg.DefaultDatabase,
		"watch", cfg.Watch)

	return api.NewServer(api.Config{
		Addr:            cfg.Addr,
		Catalog:         cc.Catalog,
		Resolver:        cc.Resolver,
		Gateway:         cc.Gateway,
		Metrics:         m,
		DefaultDatabase: cfg.DefaultDatabase,
		SecondaryDir:    cfg.SecondaryDir,
		SecondaryRoute:  cfg.SecondaryRoute,
		Watch:           cfg.Watch,
		Logger:          logger,
	}), nil
}
