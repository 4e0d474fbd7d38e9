package orm_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xhappyboy/bubble"
	"github.com/0xhappyboy/bubble/dialect"
	"github.com/0xhappyboy/bubble/query"
	"github.com/0xhappyboy/bubble/value"
)

func TestFindAll(t *testing.T) {
	ctx := context.Background()
	cols := []string{"id", "name", "email"}

	t.Run("Lazy", func(t *testing.T) {
		repo, mock := newRepo(t, dialect.SQLite)
		cur := repo.FindAll(ctx)
		require.NoError(t, cur.Close())
		assert.False(t, cur.Next())
		require.NoError(t, cur.Err())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Filter", func(t *testing.T) {
		repo, mock := newRepo(t, dialect.SQLite)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email FROM user WHERE name = ?")).
			WithArgs("Ana").
			WillReturnRows(mockRows(cols...).
				AddRow(int64(1), "Ana", "a@x").
				AddRow(int64(4), "Ana", nil))
		users, err := repo.FindAll(ctx, userName.EQ("Ana")).Collect()
		require.NoError(t, err)
		assert.Equal(t, []*user{
			{ID: 1, Name: "Ana", Email: ptr("a@x")},
			{ID: 4, Name: "Ana"},
		}, users)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RowErrors", func(t *testing.T) {
		repo, mock := newRepo(t, dialect.SQLite)
		mock.ExpectQuery("SELECT id, name, email FROM user").
			WillReturnRows(mockRows(cols...).
				AddRow(int64(1), "Ana", nil).
				AddRow(int64(2), nil, nil).
				AddRow(int64(3), "Cy", nil))
		cur := repo.FindAll(ctx)
		defer cur.Close()

		var (
			names []string
			errs  []error
		)
		for cur.Next() {
			u, err := cur.Value()
			if err != nil {
				errs = append(errs, err)
				continue
			}
			names = append(names, u.Name)
		}
		require.NoError(t, cur.Err())
		assert.Equal(t, []string{"Ana", "Cy"}, names)
		require.Len(t, errs, 1)
		assert.True(t, bubble.IsTypeMismatch(errs[0]))
		assert.Contains(t, errs[0].Error(), "find_all user")
		assert.False(t, cur.Next(), "cursor cannot be restarted")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("All", func(t *testing.T) {
		repo, mock := newRepo(t, dialect.SQLite)
		mock.ExpectQuery("SELECT id, name, email FROM user").
			WillReturnRows(mockRows(cols...).
				AddRow(int64(1), "Ana", nil).
				AddRow(int64(2), "Bea", nil))
		cur := repo.FindAll(ctx)
		var ids []int64
		for u, err := range cur.All() {
			require.NoError(t, err)
			ids = append(ids, u.ID)
		}
		assert.Equal(t, []int64{1, 2}, ids)

		var second []error
		for _, err := range cur.All() {
			second = append(second, err)
		}
		require.Len(t, second, 1)
		assert.True(t, bubble.IsInvalidState(second[0]))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Break", func(t *testing.T) {
		repo, mock := newRepo(t, dialect.SQLite)
		rows := mockRows(cols...).
			AddRow(int64(1), "Ana", nil).
			AddRow(int64(2), "Bea", nil)
		mock.ExpectQuery("SELECT id, name, email FROM user").WillReturnRows(rows).RowsWillBeClosed()
		for range repo.FindAll(ctx).All() {
			break
		}
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("QueryError", func(t *testing.T) {
		repo, mock := newRepo(t, dialect.SQLite)
		mock.ExpectQuery("SELECT id, name, email FROM user").WillReturnError(context.DeadlineExceeded)
		cur := repo.FindAll(ctx)
		assert.False(t, cur.Next())
		err := cur.Err()
		assert.True(t, bubble.IsTimeout(err))
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		_, err = repo.FindAll(ctx).Collect()
		assert.Error(t, err)
	})

	t.Run("IterationError", func(t *testing.T) {
		repo, mock := newRepo(t, dialect.SQLite)
		mock.ExpectQuery("SELECT id, name, email FROM user").
			WillReturnRows(mockRows(cols...).
				AddRow(int64(1), "Ana", nil).
				AddRow(int64(2), "Bea", nil).
				RowError(1, errors.New("connection lost")))
		users, err := repo.FindAll(ctx).Collect()
		require.Error(t, err)
		assert.True(t, bubble.IsDriver(err))
		require.Len(t, users, 1)
		assert.Equal(t, "Ana", users[0].Name)
	})

	t.Run("InvalidFilter", func(t *testing.T) {
		repo, mock := newRepo(t, dialect.SQLite)
		cur := repo.FindAll(ctx, query.Where("nickname", value.Text("x")))
		assert.False(t, cur.Next())
		assert.True(t, bubble.IsTypeMismatch(cur.Err()))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRaw(t *testing.T) {
	ctx := context.Background()
	repo, mock := newRepo(t, dialect.SQLite)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email FROM user WHERE name LIKE ? ORDER BY id")).
		WithArgs("A%").
		WillReturnRows(mockRows("id", "name", "email").AddRow(int64(1), "Ana", nil))
	users, err := repo.Raw(ctx, dialect.Raw("SELECT id, name, email FROM user WHERE name LIKE ? ORDER BY id", value.Text("A%"))).Collect()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Ana", users[0].Name)

	mock.ExpectQuery("SELECT id FROM user").WillReturnRows(mockRows("id").AddRow(int64(1)))
	_, err = repo.Raw(ctx, dialect.Raw("SELECT id FROM user")).Collect()
	assert.True(t, bubble.IsTypeMismatch(err))
	assert.Contains(t, err.Error(), "column name missing")
	require.NoError(t, mock.ExpectationsWereMet())
}
