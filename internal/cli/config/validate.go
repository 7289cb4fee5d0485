package config

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
)

// OutputFormats lists the accepted values for the output key.
var OutputFormats = []string{"table", "json", "csv", "md", "markdown"}

var routePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("root is required")
	}
	if !strings.HasPrefix(c.DatabaseSuffix, ".") {
		return fmt.Errorf("database_suffix must start with '.': %q", c.DatabaseSuffix)
	}
	if c.SecondaryDir != "" && !routePattern.MatchString(c.SecondaryRoute) {
		return fmt.Errorf("secondary_route must match %s: %q", routePattern, c.SecondaryRoute)
	}
	if c.QueryTimeout < 0 {
		return fmt.Errorf("query_timeout must not be negative: %s", c.QueryTimeout)
	}
	if c.AggregateConcurrency < 0 {
		return fmt.Errorf("aggregate_concurrency must not be negative: %d", c.AggregateConcurrency)
	}
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("unknown output format %q (want one of %s)", c.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// ValidateDirectories checks that the database root exists.
func (c *Config) ValidateDirectories() error {
	info, err := os.Stat(c.Root)
	if os.IsNotExist(err) {
		return fmt.Errorf("database root does not exist: %s\nHint: Create the directory or use --root to specify a different path", c.Root)
	}
	if err != nil {
		return fmt.Errorf("failed to stat database root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("database root is not a directory: %s", c.Root)
	}
	return nil
}
