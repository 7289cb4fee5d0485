// Package config provides configuration management for the litegate CLI.
//
// Values are layered with koanf: built-in defaults, then a litegate.yaml
// file, then LITEGATE_* environment variables, then explicitly set flags.
package config

import (
	"log/slog"
	"strings"
	"time"
)

// Default values.
const (
	DefaultRoot                 = "SQL"
	DefaultSecondaryDir         = "appso"
	DefaultSecondaryRoute       = "appso"
	DefaultDatabase             = "database/database.sqlite"
	DefaultSuffix               = ".sqlite"
	DefaultAddr                 = ":3000"
	DefaultQueryTimeout         = 30 * time.Second
	DefaultAggregateConcurrency = 8
	DefaultLogLevel             = "info"
	DefaultOutput               = "table"
)

// Config file names, in lookup order.
var configFileNames = []string{"litegate.yaml", "litegate.yml"}

// Config holds all CLI configuration options.
type Config struct {
	// Root holds one directory per category of databases.
	Root string `koanf:"root"`
	// SecondaryDir is the flat directory served under SecondaryRoute.
	// Empty disables the secondary route.
	SecondaryDir   string `koanf:"secondary_dir"`
	SecondaryRoute string `koanf:"secondary_route"`
	// DefaultDatabase backs GET/POST /database.
	DefaultDatabase string `koanf:"default_database"`
	DatabaseSuffix  string `koanf:"database_suffix"`

	Addr                 string        `koanf:"addr"`
	QueryTimeout         time.Duration `koanf:"query_timeout"`
	AggregateConcurrency int           `koanf:"aggregate_concurrency"`
	Watch                bool          `koanf:"watch"`

	LogLevel     string `koanf:"log_level"`
	OutputFormat string `koanf:"output"`
	Verbose      bool   `koanf:"verbose"`

	// ProjectRoot is the directory relative paths were resolved against.
	ProjectRoot string `koanf:"-"`
}

// SlogLevel returns the configured log level. Verbose forces debug.
func (c *Config) SlogLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// defaults returns the default key/value map loaded before any other source.
func defaults() map[string]any {
	return map[string]any{
		"root":                  DefaultRoot,
		"secondary_dir":         DefaultSecondaryDir,
		"secondary_route":       DefaultSecondaryRoute,
		"default_database":      DefaultDatabase,
		"database_suffix":       DefaultSuffix,
		"addr":                  DefaultAddr,
		"query_timeout":         DefaultQueryTimeout.String(),
		"aggregate_concurrency": DefaultAggregateConcurrency,
		"watch":                 false,
		"log_level":             DefaultLogLevel,
		"output":                DefaultOutput,
		"verbose":               false,
	}
}
