package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/litegate/internal/cli/config"
)

const configFileName = "litegate.yaml"

// scaffold is the YAML document written by init. Field order is the order
// keys appear in the file.
type scaffold struct {
	Root                 string `yaml:"root"`
	SecondaryDir         string `yaml:"secondary_dir"`
	SecondaryRoute       string `yaml:"secondary_route"`
	DefaultDatabase      string `yaml:"default_database"`
	DatabaseSuffix       string `yaml:"database_suffix"`
	Addr                 string `yaml:"addr"`
	QueryTimeout         string `yaml:"query_timeout"`
	AggregateConcurrency int    `yaml:"aggregate_concurrency"`
	Watch                bool   `yaml:"watch"`
	LogLevel             string `yaml:"log_level"`
	Output               string `yaml:"output"`
}

func defaultScaffold() scaffold {
	return scaffold{
		Root:                 config.DefaultRoot,
		SecondaryDir:         config.DefaultSecondaryDir,
		SecondaryRoute:       config.DefaultSecondaryRoute,
		DefaultDatabase:      config.DefaultDatabase,
		DatabaseSuffix:       config.DefaultSuffix,
		Addr:                 config.DefaultAddr,
		QueryTimeout:         config.DefaultQueryTimeout.String(),
		AggregateConcurrency: config.DefaultAggregateConcurrency,
		LogLevel:             config.DefaultLogLevel,
		Output:               config.DefaultOutput,
	}
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new litegate project",
		Long: `Initialize a litegate project with a configuration file and the
directories it refers to.

This creates:
  - litegate.yaml configuration file
  - SQL/ root directory, one subdirectory per category of databases
  - appso/ secondary directory
  - database/ directory for the default database`,
		Example: `  # Initialize in current directory
  litegate init

  # Initialize in a new directory
  litegate init my-gateway

  # Force overwrite existing config
  litegate init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd.OutOrStdout(), dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(w io.Writer, dir string, force bool) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, configFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configFileName)
	}

	sc := defaultScaffold()
	content, err := yaml.Marshal(sc)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	header := "# litegate configuration. Relative paths resolve against this file's directory.\n"
	if err := os.WriteFile(configPath, append([]byte(header), content...), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configFileName, err)
	}
	_, _ = fmt.Fprintf(w, "  created %s\n", configFileName)

	for _, d := range []string{sc.Root, sc.SecondaryDir, filepath.Dir(sc.DefaultDatabase)} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", d, err)
		}
		_, _ = fmt.Fprintf(w, "  created %s/\n", d)
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "litegate project initialized!")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Next steps:")
	_, _ = fmt.Fprintf(w, "  1. Copy database files into %s/<category>/\n", sc.Root)
	_, _ = fmt.Fprintln(w, "  2. Run 'litegate databases' to list them")
	_, _ = fmt.Fprintln(w, "  3. Run 'litegate serve' to start the HTTP gateway")

	return nil
}
