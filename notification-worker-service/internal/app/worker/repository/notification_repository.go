package repository

import (
	"context"
	"fmt"

	"signalidea/notification-worker-service/internal/app/worker/entity"
	"signalidea/pkg/metrics"

	"gorm.io/gorm"
)

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []entity.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "notifications")
	result := r.db.WithContext(ctx).Create(&notifications)
	timer.Done(result.Error)

	if result.Error != nil {
		return fmt.Errorf("failed to insert notifications: %w", result.Error)
	}

	return nil
}
