package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/litegate/internal/gateway"
	"github.com/leapstack-labs/litegate/pkg/sqlguard"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query <database> [SQL]",
		Short: "Run a read-only statement against a database",
		Long: `Run a SELECT, PRAGMA or EXPLAIN statement against one database under the
root. Statements that could modify data are rejected before they reach SQLite.

When invoked without SQL and stdin is a terminal, enters interactive REPL mode.`,
		Example: `  # Execute SQL directly
  litegate query news/2024.sqlite "SELECT * FROM contents LIMIT 5"

  # Output as JSON
  litegate query news/2024.sqlite "PRAGMA table_info(contents)" --format json

  # Read SQL from a file or stdin
  litegate query news/2024.sqlite -i report.sql
  echo "SELECT COUNT(*) FROM contents" | litegate query news/2024.sqlite

  # Interactive mode
  litegate query news/2024.sqlite`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: table, json, csv, md")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cc := NewCommandContext(cmd)
	format := outputFormat(cmd, opts.Format)

	path, err := cc.Resolver.Resolve(args[0])
	if err != nil {
		return err
	}

	var sqlQuery string
	switch {
	case len(args) > 1:
		sqlQuery = strings.Join(args[1:], " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !isTerminal(os.Stdin):
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		return runQueryREPL(cmd, cc, args[0], path, format)
	}

	return cc.Gateway.WithDatabase(cmd.Context(), path, func(h *gateway.Handle) error {
		return executeAndRender(cmd.Context(), cmd.OutOrStdout(), h, sqlQuery, format)
	})
}

// executeAndRender validates sqlQuery in read-only mode, runs it and renders
// the result.
func executeAndRender(ctx context.Context, w io.Writer, h *gateway.Handle, sqlQuery, format string) error {
	stmt, err := sqlguard.Check(sqlQuery, sqlguard.ReadOnly)
	if err != nil {
		return err
	}

	result, err := h.Query(ctx, stmt)
	if err != nil {
		return err
	}
	return renderResults(w, result.Columns, result.Rows, format)
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
