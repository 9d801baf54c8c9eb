package service

import (
	"context"
	"encoding/json"
	"time"

	"signalidea/pkg/logger"
	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/infrastructure"
)

// publishEvent отправляет доменное событие воркеру уведомлений.
// Запись уже сохранена, поэтому сбой публикации только логируется.
func publishEvent(ctx context.Context, publisher infrastructure.MessagePublisher, event entity.DomainEvent) {
	if publisher == nil {
		return
	}

	event.Timestamp = time.Now().UTC()

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Ctx(ctx).Error().Err(err).Str("event_type", event.EventType).Msg("Failed to marshal domain event")
		return
	}

	// ключ по адресату сохраняет порядок его событий в партиции
	key := event.SubjectID
	if key == "" {
		key = event.IdeaID
	}

	if err := publisher.PublishMessage(ctx, key, payload); err != nil {
		logger.Ctx(ctx).Error().
			Err(err).
			Str("event_type", event.EventType).
			Str("actor_id", event.ActorID).
			Msg("Failed to publish domain event")
		return
	}

	logger.Ctx(ctx).Debug().
		Str("event_type", event.EventType).
		Str("actor_id", event.ActorID).
		Msg("Domain event published")
}
