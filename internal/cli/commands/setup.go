package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/litegate/internal/catalog"
	"github.com/leapstack-labs/litegate/internal/cli/config"
	"github.com/leapstack-labs/litegate/internal/gateway"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Catalog  *catalog.Catalog
	Resolver *catalog.Resolver
	Gateway  *gateway.Gateway
}

// NewCommandContext creates a CommandContext with a catalog, a resolver and
// a gateway built from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	return newCommandContext(cfg, logger, gateway.Config{
		QueryTimeout:         cfg.QueryTimeout,
		AggregateConcurrency: cfg.AggregateConcurrency,
		Logger:               logger,
	})
}

func newCommandContext(cfg *config.Config, logger *slog.Logger, gwCfg gateway.Config) *CommandContext {
	resolver := catalog.NewResolver(cfg.Root)
	resolver.Suffix = cfg.DatabaseSuffix

	return &CommandContext{
		Cfg:    cfg,
		Logger: logger,
		Catalog: catalog.New(catalog.Config{
			Root:   cfg.Root,
			Suffix: cfg.DatabaseSuffix,
			Cache:  cfg.Watch,
			Logger: logger,
		}),
		Resolver: resolver,
		Gateway:  gateway.New(gwCfg),
	}
}

// getConfig returns the current configuration, or the defaults when no
// configuration has been loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		Root:                 config.DefaultRoot,
		SecondaryDir:         config.DefaultSecondaryDir,
		SecondaryRoute:       config.DefaultSecondaryRoute,
		DefaultDatabase:      config.DefaultDatabase,
		DatabaseSuffix:       config.DefaultSuffix,
		Addr:                 config.DefaultAddr,
		QueryTimeout:         config.DefaultQueryTimeout,
		AggregateConcurrency: config.DefaultAggregateConcurrency,
		LogLevel:             config.DefaultLogLevel,
		OutputFormat:         config.DefaultOutput,
	}
}

// outputFormat returns the per-command format when set, else the configured
// one.
func outputFormat(cmd *cobra.Command, local string) string {
	if cmd.Flags().Changed("format") && local != "" {
		return local
	}
	return getConfig().OutputFormat
}
