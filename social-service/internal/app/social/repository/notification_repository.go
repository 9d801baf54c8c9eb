package repository

import (
	"context"
	"fmt"
	"time"

	"signalidea/pkg/metrics"
	"signalidea/social-service/internal/app/social/entity"

	"github.com/Masterminds/squirrel"
)

const defaultNotificationLimit = 50

type notificationRepository struct {
	db DB
}

func NewNotificationRepository(db DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// ListByRecipient - страница уведомлений получателя, новые первыми
func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]entity.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}

	query, args, err := psql.Select("id", "recipient_id", "actor_id", "type", "idea_id", "update_id", "read", "created_at").
		From("notifications").
		Where(squirrel.Eq{"recipient_id": recipientID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build notifications query: %w", err)
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "notifications")
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		timer.Done(err)
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]entity.Notification, 0)
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.ActorID, &n.Type, &n.IdeaID, &n.UpdateID, &n.Read, &n.CreatedAt); err != nil {
			timer.Done(err)
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	err = rows.Err()
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return notifications, nil
}

func (r *notificationRepository) MarkReadUpTo(ctx context.Context, recipientID string, cutoff time.Time) (int64, error) {
	query := `UPDATE notifications SET read = TRUE WHERE recipient_id = $1 AND read = FALSE AND created_at <= $2`

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "notifications")
	result, err := r.db.Exec(ctx, query, recipientID, cutoff)
	timer.Done(err)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND read = FALSE`, recipientID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}
