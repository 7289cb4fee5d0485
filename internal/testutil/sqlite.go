package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	// Register the sqlite driver.
	_ "modernc.org/sqlite"
)

// CreateDatabase creates a SQLite file at path, creating parent directories
// as needed, and runs each statement against it.
func CreateDatabase(t testing.TB, path string, statements ...string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer func() { _ = db.Close() }()

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to execute %q: %v", stmt, err)
		}
	}
	return path
}

// UsersSchema creates a small users table with a primary key, a NOT NULL
// column and a defaulted column.
var UsersSchema = []string{
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		status TEXT DEFAULT 'active'
	)`,
}

// CreateUsersDatabase creates a database holding the users table with n rows.
func CreateUsersDatabase(t testing.TB, path string, n int) string {
	t.Helper()

	stmts := append([]string{}, UsersSchema...)
	if n > 0 {
		stmts = append(stmts, `WITH RECURSIVE seq(i) AS (SELECT 1 UNION ALL SELECT i + 1 FROM seq WHERE i < `+strconv.Itoa(n)+`)
			INSERT INTO users (id, name, email) SELECT i, 'user' || i, 'user' || i || '@example.com' FROM seq`)
	}
	return CreateDatabase(t, path, stmts...)
}

// ContentsSchema is the table the earliest-date aggregation reads.
const ContentsSchema = `CREATE TABLE contents (id INTEGER PRIMARY KEY, postDate, createTime)`

// CreateContentsDatabase creates a database with a contents table holding
// one row per (postDate, createTime) pair. Nil entries are stored as NULL.
func CreateContentsDatabase(t testing.TB, path string, rows ...[2]any) string {
	t.Helper()

	CreateDatabase(t, path, ContentsSchema)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer func() { _ = db.Close() }()

	for _, row := range rows {
		if _, err := db.Exec(`INSERT INTO contents (postDate, createTime) VALUES (?, ?)`, row[0], row[1]); err != nil {
			t.Fatalf("failed to insert contents row: %v", err)
		}
	}
	return path
}

// CreateFile writes content to path, creating parent directories as needed.
func CreateFile(t testing.TB, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
