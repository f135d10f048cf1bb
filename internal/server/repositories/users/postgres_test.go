package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/leavekeeper/internal/common"
	dm "github.com/dmitrijs2005/leavekeeper/internal/models"
	"github.com/dmitrijs2005/leavekeeper/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewPostgresRepository(db), mock
}

var (
	insertQ = `(?s)^INSERT\s+INTO\s+users\s*\(username,\s*password_hash,\s*full_name,\s*email,\s*role\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id,\s*created_at\s*$`
	userCols = []string{"id", "username", "password_hash", "full_name", "email", "role", "created_at"}
	created  = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
)

func alice() *models.User {
	return &models.User{UserName: "alice", PasswordHash: []byte("hash"), FullName: "Alice", Email: "a@x.io", Role: dm.RoleEmployee}
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQ).
		WithArgs("alice", []byte("hash"), "Alice", "a@x.io", "employee").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), created))

	got, err := repo.Create(context.Background(), alice())
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.ID)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, dm.Identity{ID: 42, Username: "alice", FullName: "Alice", Email: "a@x.io", Role: dm.RoleEmployee}, got.Identity())
}

func TestCreate_Duplicate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQ).WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), alice())
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQ).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), alice())
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestGetUserByLogin(t *testing.T) {
	q := `(?s)^SELECT\s+id,\s*username,\s*password_hash,\s*full_name,\s*email,\s*role,\s*created_at\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1$`

	t.Run("found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(7), "alice", []byte("h"), "Alice", "a@x.io", "manager", created))

		got, err := repo.GetUserByLogin(context.Background(), "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(7), got.ID)
		assert.Equal(t, dm.RoleManager, got.Role)
		assert.Equal(t, []byte("h"), got.PasswordHash)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

		_, err := repo.GetUserByLogin(context.Background(), "ghost")
		require.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("alice").WillReturnError(errors.New("db err"))

		_, err := repo.GetUserByLogin(context.Background(), "alice")
		require.ErrorContains(t, err, "db error: db err")
	})
}

func TestGetByID(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	q := `(?s)^SELECT\s+.+\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`

	mock.ExpectQuery(q).WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(7), "bob", []byte("h"), "Bob", "b@x.io", "employee", created))
	mock.ExpectQuery(q).WithArgs(int64(8)).WillReturnError(sql.ErrNoRows)

	got, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.UserName)

	_, err = repo.GetByID(context.Background(), 8)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListByRole(t *testing.T) {
	q := `(?s)^SELECT\s+.+\s+FROM\s+users\s+WHERE\s+role\s*=\s*\$1\s+ORDER\s+BY\s+full_name,\s*id$`

	t.Run("rows", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WithArgs("employee").
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(int64(1), "a", []byte("h"), "A", "a@x.io", "employee", created).
				AddRow(int64(2), "b", []byte("h"), "B", "b@x.io", "employee", created))

		got, err := repo.ListByRole(context.Background(), dm.RoleEmployee)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "b", got[1].UserName)
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).WillReturnError(errors.New("boom"))

		_, err := repo.ListByRole(context.Background(), dm.RoleEmployee)
		require.ErrorContains(t, err, "boom")
	})

	t.Run("row error", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(q).
			WillReturnRows(sqlmock.NewRows(userCols).
				AddRow(int64(1), "a", []byte("h"), "A", "a@x.io", "employee", created).
				RowError(0, errors.New("broken row")))

		_, err := repo.ListByRole(context.Background(), dm.RoleEmployee)
		require.ErrorContains(t, err, "broken row")
	})
}
