package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"signalidea/social-service/internal/app/social/entity"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileRows() *pgxmock.Rows {
	return pgxmock.NewRows(profileColumns)
}

func TestProfileRepository_Search_ReviewFlagAndType(t *testing.T) {
	mock := newMockPool(t)
	repo := NewProfileRepository(mock)

	now := time.Now()
	enabled := true

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM profiles WHERE display_name ILIKE $1 AND account_type = $2 AND COALESCE(reviews_from_employees_enabled, TRUE) AND id <> $3 ORDER BY display_name ASC, id ASC LIMIT 20",
	)).
		WithArgs("%cafe%", entity.AccountTypeBusiness, "reviewer").
		WillReturnRows(profileRows().
			AddRow("biz-1", "Cafe Uno", nil, "", entity.AccountTypeBusiness, &enabled, nil, nil, nil, now, now).
			AddRow("biz-2", "Cafe Due", nil, "", entity.AccountTypeBusiness, nil, nil, nil, nil, now, now))

	profiles, err := repo.Search(context.Background(), ProfileFilter{
		Query:       "cafe",
		AccountType: entity.AccountTypeBusiness,
		EnabledFlag: FlagEmployeesEnabled,
		ExcludeID:   "reviewer",
	})

	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.True(t, entity.FlagEnabled(profiles[0].ReviewsFromEmployeesEnabled))
	assert.Nil(t, profiles[1].ReviewsFromEmployeesEnabled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_Search_EscapesWildcards(t *testing.T) {
	mock := newMockPool(t)
	repo := NewProfileRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE display_name ILIKE $1 ORDER BY")).
		WithArgs(`%50\%\_off%`).
		WillReturnRows(profileRows())

	profiles, err := repo.Search(context.Background(), ProfileFilter{Query: "50%_off", Limit: 5})

	require.NoError(t, err)
	assert.Empty(t, profiles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_Search_UnknownFlagColumn(t *testing.T) {
	mock := newMockPool(t)
	repo := NewProfileRepository(mock)

	_, err := repo.Search(context.Background(), ProfileFilter{EnabledFlag: "id; DROP TABLE profiles"})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_GetByID_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewProfileRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM profiles WHERE id = $1")).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)

	profile, err := repo.GetByID(context.Background(), "ghost")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, profile)
}

func TestProfileRepository_GetByID_MalformedUUIDIsNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewProfileRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM profiles WHERE id = $1")).
		WithArgs("abc").
		WillReturnError(&pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`})

	profile, err := repo.GetByID(context.Background(), "abc")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, profile)
}

func TestProfileRepository_GetByIDs(t *testing.T) {
	mock := newMockPool(t)
	repo := NewProfileRepository(mock)

	now := time.Now()
	ids := []string{"u1", "u2"}

	mock.ExpectQuery(regexp.QuoteMeta("FROM profiles WHERE id = ANY($1)")).
		WithArgs(ids).
		WillReturnRows(profileRows().
			AddRow("u1", "Ann", nil, "", entity.AccountTypePrivate, nil, nil, nil, nil, now, now))

	profiles, err := repo.GetByIDs(context.Background(), ids)

	require.NoError(t, err)
	assert.Len(t, profiles, 1)
	assert.Equal(t, "Ann", profiles["u1"].DisplayName)
	_, ok := profiles["u2"]
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_GetByIDs_EmptySkipsQuery(t *testing.T) {
	mock := newMockPool(t)
	repo := NewProfileRepository(mock)

	profiles, err := repo.GetByIDs(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, profiles)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_UpdateReviewSettings_OnlyGivenFlags(t *testing.T) {
	mock := newMockPool(t)
	repo := NewProfileRepository(mock)

	now := time.Now()
	disabled := false

	mock.ExpectQuery(regexp.QuoteMeta(
		"UPDATE profiles SET updated_at = NOW(), reviews_from_employees_enabled = $1 WHERE id = $2 RETURNING",
	)).
		WithArgs(false, "biz-1").
		WillReturnRows(profileRows().
			AddRow("biz-1", "Cafe", nil, "", entity.AccountTypeBusiness, &disabled, nil, nil, nil, now, now))

	profile, err := repo.UpdateReviewSettings(context.Background(), "biz-1", entity.ReviewSettingsRequest{EmployeesEnabled: &disabled})

	require.NoError(t, err)
	assert.False(t, entity.FlagEnabled(profile.ReviewsFromEmployeesEnabled))
	assert.True(t, entity.FlagEnabled(profile.ReviewsFromCustomersEnabled))
	assert.NoError(t, mock.ExpectationsWereMet())
}
