package service

import (
	"context"

	"signalidea/notification-worker-service/internal/app/worker/entity"
)

// NotificationWriterInterface превращает доменное событие в уведомления
type NotificationWriterInterface interface {
	// ProcessEvent обрабатывает событие из Kafka
	ProcessEvent(ctx context.Context, event *entity.DomainEvent) error
}

// ListingExpiryServiceInterface закрывает просроченные вакансии
type ListingExpiryServiceInterface interface {
	// ExpireListings вызывается по расписанию cron
	ExpireListings(ctx context.Context) error
}
