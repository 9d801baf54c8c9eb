package repository

import (
	"context"
	"regexp"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository_Create_Idempotent(t *testing.T) {
	mock := newMockPool(t)
	repo := NewFollowRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (follower_id, following_id) DO NOTHING")).
		WithArgs("a", "b").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (follower_id, following_id) DO NOTHING")).
		WithArgs("a", "b").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	created, err := repo.Create(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Create(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.False(t, created)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_Delete(t *testing.T) {
	mock := newMockPool(t)
	repo := NewFollowRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM follows WHERE follower_id = $1 AND following_id = $2")).
		WithArgs("a", "b").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	deleted, err := repo.Delete(context.Background(), "a", "b")

	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestFollowRepository_ListFollowees(t *testing.T) {
	mock := newMockPool(t)
	repo := NewFollowRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT following_id FROM follows WHERE follower_id = $1")).
		WithArgs("a").
		WillReturnRows(pgxmock.NewRows([]string{"following_id"}).AddRow("b").AddRow("c"))

	ids, err := repo.ListFollowees(context.Background(), "a")

	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_Exists(t *testing.T) {
	mock := newMockPool(t)
	repo := NewFollowRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("a", "b").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), "a", "b")

	require.NoError(t, err)
	assert.True(t, exists)
}
