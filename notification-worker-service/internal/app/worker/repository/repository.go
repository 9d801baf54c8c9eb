package repository

import (
	"context"
	"errors"
	"time"

	"signalidea/notification-worker-service/internal/app/worker/entity"
)

var ErrNotFound = errors.New("not found")

const serviceName = "notification-worker"

// NotificationRepository записывает уведомления в PostgreSQL
type NotificationRepository interface {
	// CreateBatch вставляет уведомления одним запросом
	CreateBatch(ctx context.Context, notifications []entity.Notification) error
}

// AudienceRepository находит адресатов уведомлений по идее
type AudienceRepository interface {
	// IdeaOwner возвращает автора идеи
	IdeaOwner(ctx context.Context, ideaID string) (string, error)

	// Signallers возвращает пользователей, подавших сигнал идее
	Signallers(ctx context.Context, ideaID string) ([]string, error)
}

// JobListingRepository обслуживает периодическое истечение вакансий
type JobListingRepository interface {
	// ExpireOverdue переводит открытые вакансии с expires_at < now в expired
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}
