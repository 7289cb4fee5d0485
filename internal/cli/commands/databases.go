package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/litegate/internal/catalog"
	"github.com/leapstack-labs/litegate/internal/gateway"
	"github.com/leapstack-labs/litegate/pkg/core"
)

// NewDatabasesCommand creates the databases command.
func NewDatabasesCommand() *cobra.Command {
	var (
		format    string
		secondary bool
	)

	cmd := &cobra.Command{
		Use:   "databases",
		Short: "List the databases under the root",
		Long: `List every database file under the root, grouped by category directory.

With --secondary, list the flat secondary directory instead.`,
		Example: `  litegate databases
  litegate databases --secondary --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			format := outputFormat(cmd, format)

			if secondary {
				if cc.Cfg.SecondaryDir == "" {
					return fmt.Errorf("no secondary directory configured")
				}
				files, err := catalog.ListFiles(cc.Cfg.SecondaryDir, "", catalog.DefaultSuffix)
				if err != nil {
					return err
				}
				return renderCategories(cmd.OutOrStdout(), []core.Category{{Files: files}}, format)
			}

			categories, err := cc.Catalog.Categories(cmd.Context())
			if err != nil {
				return err
			}
			return renderCategories(cmd.OutOrStdout(), categories, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: table, json, csv, md")
	cmd.Flags().BoolVar(&secondary, "secondary", false, "List the secondary directory")

	return cmd
}

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "tables <database>",
		Short:   "List the tables of a database",
		Example: `  litegate tables news/2024.sqlite`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			path, err := cc.Resolver.Resolve(args[0])
			if err != nil {
				return err
			}
			return cc.Gateway.WithDatabase(cmd.Context(), path, func(h *gateway.Handle) error {
				tables, err := h.ListTables(cmd.Context())
				if err != nil {
					return err
				}
				return renderTables(cmd.OutOrStdout(), tables, outputFormat(cmd, format))
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: table, json, csv, md")
	return cmd
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "schema <database> <table>",
		Short:   "Show the columns of a table",
		Example: `  litegate schema news/2024.sqlite contents --format json`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			path, err := cc.Resolver.Resolve(args[0])
			if err != nil {
				return err
			}
			return cc.Gateway.WithDatabase(cmd.Context(), path, func(h *gateway.Handle) error {
				cols, err := h.Columns(cmd.Context(), args[1])
				if err != nil {
					return err
				}
				return renderSchema(cmd.OutOrStdout(), args[1], cols, outputFormat(cmd, format))
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: table, json, csv, md")
	return cmd
}
