package gateway

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/litegate/internal/testutil"
	"github.com/leapstack-labs/litegate/pkg/core"
)

func TestListTables(t *testing.T) {
	path := testutil.CreateDatabase(t, filepath.Join(t.TempDir(), "app.sqlite"),
		"CREATE TABLE zebra (id INTEGER PRIMARY KEY AUTOINCREMENT)",
		"INSERT INTO zebra DEFAULT VALUES",
		"CREATE TABLE alpha (id INTEGER)",
		"CREATE VIEW alpha_view AS SELECT * FROM alpha",
	)
	h := openTestHandle(t, path)

	tables, err := h.ListTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []core.TableDescriptor{{Name: "alpha"}, {Name: "zebra"}}, tables)
}

func TestListTables_Empty(t *testing.T) {
	path := testutil.CreateDatabase(t, filepath.Join(t.TempDir(), "empty.sqlite"), "PRAGMA user_version = 1")
	h := openTestHandle(t, path)

	tables, err := h.ListTables(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tables)
	assert.NotNil(t, tables)
}

func TestColumns_RoundTrip(t *testing.T) {
	path := testutil.CreateDatabase(t, filepath.Join(t.TempDir(), "app.sqlite"),
		"CREATE TABLE people (id INTEGER PRIMARY KEY, name TEXT NOT NULL)",
	)
	h := openTestHandle(t, path)

	cols, err := h.Columns(context.Background(), "people")
	require.NoError(t, err)
	require.Len(t, cols, 2)

	assert.Equal(t, core.ColumnDescriptor{
		Position: 0, Name: "id", DeclaredType: "INTEGER", NotNull: true, IsPrimaryKey: true,
	}, cols[0])
	assert.Equal(t, core.ColumnDescriptor{
		Position: 1, Name: "name", DeclaredType: "TEXT", NotNull: true,
	}, cols[1])
}

func TestColumns_DefaultValue(t *testing.T) {
	path := testutil.CreateUsersDatabase(t, filepath.Join(t.TempDir(), "users.sqlite"), 0)
	h := openTestHandle(t, path)

	cols, err := h.Columns(context.Background(), "users")
	require.NoError(t, err)
	require.Len(t, cols, 4)

	assert.Nil(t, cols[2].DefaultValue)
	assert.False(t, cols[2].NotNull)
	require.NotNil(t, cols[3].DefaultValue)
	assert.Equal(t, "'active'", *cols[3].DefaultValue)
}

func TestColumns_RejectsUnknownTables(t *testing.T) {
	path := testutil.CreateUsersDatabase(t, filepath.Join(t.TempDir(), "users.sqlite"), 0)
	h := openTestHandle(t, path)

	_, err := h.Columns(context.Background(), "users); DROP TABLE users; --")
	assert.ErrorIs(t, err, core.ErrInvalidIdentifier)

	_, err = h.Columns(context.Background(), "ghosts")
	assert.ErrorIs(t, err, core.ErrNoSuchTable)
}

func TestTableInfo(t *testing.T) {
	path := testutil.CreateUsersDatabase(t, filepath.Join(t.TempDir(), "users.sqlite"), 7)
	testutil.CreateDatabase(t, path, "CREATE TABLE tags (name TEXT)")
	h := openTestHandle(t, path)

	infos, err := h.TableInfo(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, "tags", infos[0].Name)
	assert.Equal(t, int64(0), infos[0].Count)
	assert.Equal(t, "CREATE TABLE tags (name TEXT)", infos[0].SQL)

	assert.Equal(t, "users", infos[1].Name)
	assert.Equal(t, int64(7), infos[1].Count)
	assert.Contains(t, infos[1].SQL, "CREATE TABLE users")
}

func TestListTables_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT name FROM sqlite_master").WillReturnError(assert.AnError)

	_, err = NewHandle(db, "mock.sqlite").ListTables(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrQueryExecution)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
