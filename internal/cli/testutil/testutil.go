// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/spf13/cobra"

	sqlitetest "github.com/leapstack-labs/litegate/internal/testutil"
)

// Fixture dates, as reported by the earliest command.
const (
	NewsEarliest    = "2021-03-04"
	ArchiveEarliest = "2019-05-05"
)

// SetupTestProject creates a temporary project holding a litegate.yaml and
// a small database tree:
//
//	SQL/news/2024.sqlite       users (3 rows) and contents
//	SQL/archive/2019.sqlite    contents with createTime in seconds
//	appso/app.sqlite           users (2 rows)
//	database/database.sqlite   users (1 row)
func SetupTestProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	config := "root: SQL\nsecondary_dir: appso\ndefault_database: database/database.sqlite\n"
	if err := os.WriteFile(filepath.Join(dir, "litegate.yaml"), []byte(config), 0o600); err != nil {
		t.Fatalf("failed to create litegate.yaml: %v", err)
	}

	news := filepath.Join(dir, "SQL", "news", "2024.sqlite")
	sqlitetest.CreateUsersDatabase(t, news, 3)
	sqlitetest.CreateDatabase(t, news,
		`CREATE TABLE contents (id INTEGER PRIMARY KEY, title TEXT, postDate TEXT, createTime TEXT)`,
		`INSERT INTO contents (title, postDate, createTime) VALUES
			('first', '1614816000', NULL),
			('second', '1640995200000', '1640995200')`,
	)

	sqlitetest.CreateDatabase(t, filepath.Join(dir, "SQL", "archive", "2019.sqlite"),
		`CREATE TABLE contents (id INTEGER PRIMARY KEY, postDate TEXT, createTime INTEGER)`,
		`INSERT INTO contents (postDate, createTime) VALUES ('NULL', 1557014400)`,
	)

	sqlitetest.CreateUsersDatabase(t, filepath.Join(dir, "appso", "app.sqlite"), 2)
	sqlitetest.CreateUsersDatabase(t, filepath.Join(dir, "database", "database.sqlite"), 1)

	return dir
}

// ExecuteCommand runs cmd with args and returns what it wrote to stdout and
// stderr.
func ExecuteCommand(t *testing.T, cmd *cobra.Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(new(bytes.Buffer))
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}
