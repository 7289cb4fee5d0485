package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/leapstack-labs/litegate/pkg/core"
	"github.com/leapstack-labs/litegate/pkg/sqlguard"
)

const listTablesQuery = `
	SELECT name FROM sqlite_master
	WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
	ORDER BY name
`

// ListTables returns the user tables of the database ordered by name.
// Engine-internal sqlite_* tables are excluded.
func (h *Handle) ListTables(ctx context.Context) (tables []core.TableDescriptor, err error) {
	start := time.Now()
	defer func() { err = h.observe("tables", start, err) }()

	rows, err := h.db.QueryContext(ctx, listTablesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tables = []core.TableDescriptor{}
	for rows.Next() {
		var t core.TableDescriptor
		if err := rows.Scan(&t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return tables, nil
}

// requireTable validates name and confirms it is one of the database's
// tables before it is interpolated into SQL text.
func (h *Handle) requireTable(ctx context.Context, name string) error {
	if err := sqlguard.ValidateIdentifier(name); err != nil {
		return err
	}

	tables, err := h.ListTables(ctx)
	if err != nil {
		return err
	}
	for _, t := range tables {
		if t.Name == name {
			return nil
		}
	}
	return core.Errorf(core.KindNoSuchTable, "tables", "table does not exist: %s", name)
}

// Columns returns the column descriptors of table in declared order.
// A column is NotNull when declared NOT NULL or when it belongs to the
// primary key.
func (h *Handle) Columns(ctx context.Context, table string) ([]core.ColumnDescriptor, error) {
	if err := h.requireTable(ctx, table); err != nil {
		return nil, err
	}
	return h.columns(ctx, table)
}

func (h *Handle) columns(ctx context.Context, table string) (cols []core.ColumnDescriptor, err error) {
	start := time.Now()
	defer func() { err = h.observe("schema", start, err) }()

	//nolint:gosec // table is validated and cross-checked against sqlite_master
	rows, err := h.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", sqlguard.QuoteIdentifier(table)))
	if err != nil {
		return nil, fmt.Errorf("failed to read table info: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols = []core.ColumnDescriptor{}
	for rows.Next() {
		var (
			cid     int
			name    string
			colType string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column info: %w", err)
		}

		col := core.ColumnDescriptor{
			Position:     cid,
			Name:         name,
			DeclaredType: colType,
			NotNull:      notNull == 1 || pk > 0,
			IsPrimaryKey: pk > 0,
		}
		if dflt.Valid {
			v := dflt.String
			col.DefaultValue = &v
		}
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column info: %w", err)
	}
	return cols, nil
}

const tableDefinitionsQuery = `
	SELECT name, sql FROM sqlite_master
	WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
	ORDER BY name
`

// TableInfo returns every user table with its row count and CREATE
// statement. A table whose count fails is reported with a count of zero.
func (h *Handle) TableInfo(ctx context.Context) (infos []core.TableInfo, err error) {
	start := time.Now()
	defer func() { err = h.observe("info", start, err) }()

	rows, err := h.db.QueryContext(ctx, tableDefinitionsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to read table definitions: %w", err)
	}

	infos = []core.TableInfo{}
	for rows.Next() {
		var (
			info core.TableInfo
			def  sql.NullString
		)
		if err := rows.Scan(&info.Name, &def); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan table definition: %w", err)
		}
		info.SQL = def.String
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("error iterating table definitions: %w", err)
	}
	// The handle holds a single connection; release it before counting.
	_ = rows.Close()

	for i := range infos {
		count, err := h.count(ctx, infos[i].Name)
		if err != nil {
			continue
		}
		infos[i].Count = count
	}
	return infos, nil
}

func (h *Handle) count(ctx context.Context, table string) (int64, error) {
	var n int64
	//nolint:gosec // table comes from sqlite_master and is quoted
	err := h.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+sqlguard.QuoteIdentifier(table)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return n, nil
}
