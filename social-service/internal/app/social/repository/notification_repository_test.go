package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"signalidea/social-service/internal/app/social/entity"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_ListByRecipient(t *testing.T) {
	mock := newMockPool(t)
	repo := NewNotificationRepository(mock)

	now := time.Now()
	ideaID := "idea-1"

	mock.ExpectQuery(regexp.QuoteMeta("FROM notifications WHERE recipient_id = $1 ORDER BY created_at DESC LIMIT 50")).
		WithArgs("me").
		WillReturnRows(pgxmock.NewRows([]string{"id", "recipient_id", "actor_id", "type", "idea_id", "update_id", "read", "created_at"}).
			AddRow("n1", "me", "actor", entity.NotificationSignal, &ideaID, nil, false, now))

	notifications, err := repo.ListByRecipient(context.Background(), "me", 0)

	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, entity.NotificationSignal, notifications[0].Type)
	require.NotNil(t, notifications[0].IdeaID)
	assert.Equal(t, "idea-1", *notifications[0].IdeaID)
	assert.Nil(t, notifications[0].UpdateID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkReadUpTo(t *testing.T) {
	mock := newMockPool(t)
	repo := NewNotificationRepository(mock)

	cutoff := time.Now()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET read = TRUE WHERE recipient_id = $1 AND read = FALSE AND created_at <= $2")).
		WithArgs("me", cutoff).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	updated, err := repo.MarkReadUpTo(context.Background(), "me", cutoff)

	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_CountUnread(t *testing.T) {
	mock := newMockPool(t)
	repo := NewNotificationRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND read = FALSE")).
		WithArgs("me").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountUnread(context.Background(), "me")

	require.NoError(t, err)
	assert.Equal(t, 7, count)
}
