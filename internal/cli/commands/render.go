package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/litegate/pkg/core"
)

// renderResults writes a columnar result in the requested format. Unknown
// formats fall back to a table.
func renderResults(w io.Writer, cols []string, rows [][]any, format string) error {
	if format == "json" {
		records := make([]core.Row, len(rows))
		for i, r := range rows {
			records[i] = core.Row{Columns: cols, Values: r}
		}
		return renderJSON(w, records)
	}

	if len(rows) == 0 && format != "csv" {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := newTable(w, cols)
	for _, r := range rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = formatValue(v)
		}
		t.AppendRow(row)
	}

	switch format {
	case "csv":
		t.RenderCSV()
	case "md", "markdown":
		t.RenderMarkdown()
	default:
		t.Render()
		_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
	}
	return nil
}

func newTable(w io.Writer, header []string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(header))
	for i, col := range header {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)
	return t
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}

// renderSchema writes the column descriptors of one table.
func renderSchema(w io.Writer, tableName string, cols []core.ColumnDescriptor, format string) error {
	if format == "json" {
		return renderJSON(w, struct {
			Table   string                  `json:"table"`
			Columns []core.ColumnDescriptor `json:"columns"`
		}{tableName, cols})
	}

	rows := make([][]any, len(cols))
	for i, c := range cols {
		nullable := "YES"
		if c.NotNull {
			nullable = "NO"
		}
		dflt := ""
		if c.DefaultValue != nil {
			dflt = *c.DefaultValue
		}
		pk := ""
		if c.IsPrimaryKey {
			pk = "PK"
		}
		rows[i] = []any{c.Position, c.Name, c.DeclaredType, nullable, dflt, pk}
	}

	if format == "table" || format == "" {
		_, _ = fmt.Fprintf(w, "Table: %s\n", tableName)
	}
	return renderResults(w, []string{"#", "Column", "Type", "Nullable", "Default", "Key"}, rows, format)
}

// renderTables writes a table listing.
func renderTables(w io.Writer, tables []core.TableDescriptor, format string) error {
	if format == "json" {
		return renderJSON(w, tables)
	}
	rows := make([][]any, len(tables))
	for i, t := range tables {
		rows[i] = []any{t.Name}
	}
	return renderResults(w, []string{"name"}, rows, format)
}

// renderCategories writes the catalog listing.
func renderCategories(w io.Writer, categories []core.Category, format string) error {
	if format == "json" {
		if categories == nil {
			categories = []core.Category{}
		}
		return renderJSON(w, categories)
	}

	var rows [][]any
	for _, c := range categories {
		for _, f := range c.Files {
			rows = append(rows, []any{f.Path, f.Size, f.ModifiedISO()})
		}
	}
	return renderResults(w, []string{"path", "size", "modified"}, rows, format)
}

// renderEarliest writes an earliest-date result followed by any failures.
func renderEarliest(w io.Writer, result core.EarliestDateResult, format string) error {
	if format == "json" {
		return renderJSON(w, result)
	}

	date := "none"
	if result.EarliestDate != nil {
		date = *result.EarliestDate
	}
	_, _ = fmt.Fprintf(w, "Earliest date: %s\n", date)

	if len(result.PerDatabaseFailures) == 0 {
		return nil
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Failures:")
	t := newTable(w, []string{"database", "error"})
	for _, id := range slices.Sorted(maps.Keys(result.PerDatabaseFailures)) {
		t.AppendRow(table.Row{id, result.PerDatabaseFailures[id]})
	}
	t.Render()
	return nil
}
