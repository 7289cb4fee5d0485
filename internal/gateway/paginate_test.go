package gateway

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/litegate/internal/testutil"
	"github.com/leapstack-labs/litegate/pkg/core"
)

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultLimit},
		{-5, 1},
		{1, 1},
		{250, 250},
		{1000, 1000},
		{5000, MaxLimit},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, ClampLimit(tt.in))
		})
	}
	assert.Equal(t, 0, ClampOffset(-3))
	assert.Equal(t, 40, ClampOffset(40))
}

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		name       string
		limit      string
		offset     string
		wantLimit  int
		wantOffset int
		wantErr    bool
	}{
		{name: "defaults", wantLimit: 100, wantOffset: 0},
		{name: "explicit", limit: "20", offset: "40", wantLimit: 20, wantOffset: 40},
		{name: "limit above max", limit: "5000", wantLimit: 1000},
		{name: "negative offset", offset: "-10", wantLimit: 100, wantOffset: 0},
		{name: "non-numeric limit", limit: "ten", wantErr: true},
		{name: "non-numeric offset", offset: "1.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset, err := ParsePageParams(tt.limit, tt.offset)
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestPaginate_WindowSizes(t *testing.T) {
	const n = 25
	path := testutil.CreateUsersDatabase(t, filepath.Join(t.TempDir(), "users.sqlite"), n)
	h := openTestHandle(t, path)

	tests := []struct {
		limit, offset, wantRows int
	}{
		{10, 0, 10},
		{10, 20, 5},
		{10, 25, 0},
		{10, 100, 0},
		{100, 0, 25},
		{1, 24, 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("limit=%d offset=%d", tt.limit, tt.offset), func(t *testing.T) {
			page, err := h.Paginate(context.Background(), "users", tt.limit, tt.offset)
			require.NoError(t, err)
			assert.Len(t, page.Rows, tt.wantRows)
			assert.Equal(t, int64(n), page.TotalCount)
			assert.Equal(t, tt.limit, page.Limit)
			assert.Equal(t, tt.offset, page.Offset)
		})
	}
}

func TestPaginate_RowsKeepColumnOrder(t *testing.T) {
	path := testutil.CreateUsersDatabase(t, filepath.Join(t.TempDir(), "users.sqlite"), 3)
	h := openTestHandle(t, path)

	page, err := h.Paginate(context.Background(), "users", 2, 1)
	require.NoError(t, err)
	require.Len(t, page.Rows, 2)

	row := page.Rows[0]
	assert.Equal(t, []string{"id", "name", "email", "status"}, row.Columns)
	id, _ := row.Get("id")
	assert.Equal(t, int64(2), id)
	name, _ := row.Get("name")
	assert.Equal(t, "user2", name)
}

func TestPaginate_ClampsBounds(t *testing.T) {
	path := testutil.CreateUsersDatabase(t, filepath.Join(t.TempDir(), "users.sqlite"), 3)
	h := openTestHandle(t, path)

	page, err := h.Paginate(context.Background(), "users", 5000, -4)
	require.NoError(t, err)
	assert.Equal(t, 1000, page.Limit)
	assert.Equal(t, 0, page.Offset)
	assert.Len(t, page.Rows, 3)
}

func TestPaginate_RejectsTables(t *testing.T) {
	path := testutil.CreateUsersDatabase(t, filepath.Join(t.TempDir(), "users.sqlite"), 1)
	h := openTestHandle(t, path)

	_, err := h.Paginate(context.Background(), `users" --`, 10, 0)
	assert.ErrorIs(t, err, core.ErrInvalidIdentifier)

	_, err = h.Paginate(context.Background(), "sqlite_master", 10, 0)
	assert.ErrorIs(t, err, core.ErrNoSuchTable)

	_, err = h.Paginate(context.Background(), "", 10, 0)
	assert.ErrorIs(t, err, core.ErrInvalidIdentifier)
}

func TestPaginate_CountFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT name FROM sqlite_master").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("users"))
	mock.ExpectQuery(`SELECT \* FROM "users" LIMIT \? OFFSET \?`).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "users"`).
		WillReturnError(errors.New("disk I/O error"))

	_, err = NewHandle(db, "mock.sqlite").Paginate(context.Background(), "users", 10, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrQueryExecution)
	assert.NoError(t, mock.ExpectationsWereMet())
}
