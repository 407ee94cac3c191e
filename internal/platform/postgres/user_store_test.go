package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/users-api/internal/domain"
	"github.com/phrazzld/users-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresUserStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return NewPostgresUserStore(db, nil), mock
}

func TestNewPostgresUserStorePanicsOnNilDB(t *testing.T) {
	assert.Panics(t, func() {
		NewPostgresUserStore(nil, nil)
	})
}

func TestPostgresUserStore_Create(t *testing.T) {
	t.Run("assigns id", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (name, created_at, updated_at)")).
			WithArgs("Ana", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

		user := &domain.User{Name: "Ana"}
		require.NoError(t, s.Create(context.Background(), user))

		assert.Equal(t, int64(7), user.ID)
		assert.False(t, user.CreatedAt.IsZero())
		assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	})

	t.Run("rejects blank name without touching the database", func(t *testing.T) {
		s, _ := newMockStore(t)

		err := s.Create(context.Background(), &domain.User{Name: "   "})

		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("maps database errors", func(t *testing.T) {
		s, mock := newMockStore(t)
		dbErr := errors.New("connection refused")
		mock.ExpectQuery("INSERT INTO users").WillReturnError(dbErr)

		err := s.Create(context.Background(), &domain.User{Name: "Ana"})

		assert.ErrorIs(t, err, dbErr)

		var storeErr *store.StoreError
		require.True(t, errors.As(err, &storeErr))
		assert.Equal(t, "user", storeErr.Entity)
		assert.Equal(t, "create", storeErr.Operation)
	})
}

func TestPostgresUserStore_GetByID(t *testing.T) {
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery("SELECT id, name, created_at, updated_at\\s+FROM users\\s+WHERE id = \\$1").
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
				AddRow(int64(3), "Bruno", now, now))

		user, err := s.GetByID(context.Background(), 3)

		require.NoError(t, err)
		assert.Equal(t, int64(3), user.ID)
		assert.Equal(t, "Bruno", user.Name)
	})

	t.Run("not found", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery("FROM users").
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		user, err := s.GetByID(context.Background(), 99)

		assert.Nil(t, user)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
		assert.True(t, store.IsNotFoundError(err))
	})
}

func TestPostgresUserStore_ListOrderedByName(t *testing.T) {
	now := time.Now().UTC()

	t.Run("returns rows in query order", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY name COLLATE "C" ASC, id ASC`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
				AddRow(int64(2), "Ana", now, now).
				AddRow(int64(1), "Zed", now, now))

		users, err := s.ListOrderedByName(context.Background())

		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "Ana", users[0].Name)
		assert.Equal(t, "Zed", users[1].Name)
	})

	t.Run("empty table yields empty slice", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectQuery("FROM users").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}))

		users, err := s.ListOrderedByName(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, users)
		assert.Empty(t, users)
	})

	t.Run("row error", func(t *testing.T) {
		s, mock := newMockStore(t)
		rowErr := errors.New("stream broken")
		mock.ExpectQuery("FROM users").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
				AddRow(int64(1), "Ana", now, now).
				RowError(0, rowErr))

		_, err := s.ListOrderedByName(context.Background())

		assert.ErrorIs(t, err, rowErr)
	})
}

func TestPostgresUserStore_Update(t *testing.T) {
	t.Run("updates existing user", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec("UPDATE users").
			WithArgs("Carla", sqlmock.AnyArg(), int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		user := &domain.User{ID: 5, Name: "Carla"}
		require.NoError(t, s.Update(context.Background(), user))
		assert.False(t, user.UpdatedAt.IsZero())
	})

	t.Run("missing user", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec("UPDATE users").
			WithArgs("Carla", sqlmock.AnyArg(), int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Update(context.Background(), &domain.User{ID: 5, Name: "Carla"})

		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("invalid name", func(t *testing.T) {
		s, _ := newMockStore(t)

		err := s.Update(context.Background(), &domain.User{ID: 5, Name: ""})

		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestPostgresUserStore_Delete(t *testing.T) {
	t.Run("deletes", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
			WithArgs(int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Delete(context.Background(), 4))
	})

	t.Run("missing user", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec("DELETE FROM users").
			WithArgs(int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, s.Delete(context.Background(), 4), store.ErrUserNotFound)
	})
}

func TestPostgresUserStore_Count(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := s.Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestPostgresUserStore_WithTx(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM users").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	s := NewPostgresUserStore(db, nil).WithTx(tx)
	require.NoError(t, s.Delete(context.Background(), 1))
	require.NoError(t, tx.Commit())

	assert.NoError(t, mock.ExpectationsWereMet())
}
