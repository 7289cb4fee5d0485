package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/litegate/pkg/core"
)

// NewEarliestCommand creates the earliest command.
func NewEarliestCommand() *cobra.Command {
	var (
		format string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "earliest [database...]",
		Short: "Find the earliest content date",
		Long: `Report the earliest postDate or createTime found in the contents table.

With one database, the date is taken from that database alone. With several,
or with --all, every database is read concurrently and the minimum is
reported; databases that cannot be read are listed as failures.`,
		Example: `  litegate earliest news/2024.sqlite
  litegate earliest news/2023.sqlite news/2024.sqlite
  litegate earliest --all --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			ctx := cmd.Context()
			format := outputFormat(cmd, format)

			ids := args
			if all {
				categories, err := cc.Catalog.Categories(ctx)
				if err != nil {
					return err
				}
				ids = nil
				for _, c := range categories {
					for _, f := range c.Files {
						ids = append(ids, f.Path)
					}
				}
			} else if len(ids) == 0 {
				return fmt.Errorf("at least one database is required (or use --all)")
			}

			var result core.EarliestDateResult
			if len(ids) == 1 && !all {
				var err error
				result, err = cc.Gateway.EarliestDate(ctx, cc.Resolver, ids[0])
				if err != nil {
					return err
				}
			} else {
				result = cc.Gateway.EarliestDateAcross(ctx, cc.Resolver, ids)
			}
			return renderEarliest(cmd.OutOrStdout(), result, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: table, json, csv, md")
	cmd.Flags().BoolVar(&all, "all", false, "Aggregate over every database under the root")
	return cmd
}
