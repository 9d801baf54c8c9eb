package service

import (
	"context"
	"errors"
	"fmt"

	"signalidea/notification-worker-service/internal/app/worker/entity"
	"signalidea/notification-worker-service/internal/app/worker/repository"
	"signalidea/pkg/logger"
	"signalidea/pkg/metrics"

	"github.com/google/uuid"
)

var ErrInvalidEvent = errors.New("invalid domain event")

// NotificationWriter пишет уведомления по событиям social-service
type NotificationWriter struct {
	notificationRepo repository.NotificationRepository
	audienceRepo     repository.AudienceRepository
	newID            func() string
}

func NewNotificationWriter(
	notificationRepo repository.NotificationRepository,
	audienceRepo repository.AudienceRepository,
) *NotificationWriter {
	return &NotificationWriter{
		notificationRepo: notificationRepo,
		audienceRepo:     audienceRepo,
		newID:            uuid.NewString,
	}
}

// ProcessEvent определяет адресатов события и сохраняет уведомления.
// Неизвестные типы событий пропускаются, себе уведомления не пишутся.
func (s *NotificationWriter) ProcessEvent(ctx context.Context, event *entity.DomainEvent) error {
	if event.ActorID == "" {
		metrics.WorkerEventsProcessed.WithLabelValues(event.EventType, "failed").Inc()
		return fmt.Errorf("%w: actor_id is empty", ErrInvalidEvent)
	}

	notifications, err := s.buildNotifications(ctx, event)
	if err != nil {
		metrics.WorkerEventsProcessed.WithLabelValues(event.EventType, "failed").Inc()
		return err
	}

	if len(notifications) == 0 {
		metrics.WorkerEventsProcessed.WithLabelValues(event.EventType, "skipped").Inc()
		logger.Debug().
			Str("event_type", event.EventType).
			Str("actor_id", event.ActorID).
			Msg("No recipients for event, skipping")
		return nil
	}

	if err := s.notificationRepo.CreateBatch(ctx, notifications); err != nil {
		metrics.WorkerEventsProcessed.WithLabelValues(event.EventType, "failed").Inc()
		return fmt.Errorf("failed to save notifications: %w", err)
	}

	metrics.WorkerEventsProcessed.WithLabelValues(event.EventType, "success").Inc()
	metrics.WorkerNotificationsWritten.WithLabelValues(string(notifications[0].Type)).Add(float64(len(notifications)))

	logger.Info().
		Str("event_type", event.EventType).
		Str("actor_id", event.ActorID).
		Int("notifications", len(notifications)).
		Msg("Notifications written")

	return nil
}

func (s *NotificationWriter) buildNotifications(ctx context.Context, event *entity.DomainEvent) ([]entity.Notification, error) {
	switch event.EventType {
	case entity.EventFollowCreated:
		return s.forRecipients(event, entity.NotificationFollow, event.SubjectID), nil

	case entity.EventSignalGiven:
		if event.IdeaID == "" {
			return nil, fmt.Errorf("%w: idea_id is empty", ErrInvalidEvent)
		}
		owner := event.SubjectID
		if owner == "" {
			var err error
			owner, err = s.audienceRepo.IdeaOwner(ctx, event.IdeaID)
			if errors.Is(err, repository.ErrNotFound) {
				// идея удалена раньше, чем событие дошло до воркера
				return nil, nil
			}
			if err != nil {
				return nil, fmt.Errorf("failed to resolve idea owner: %w", err)
			}
		}
		return s.forRecipients(event, entity.NotificationSignal, owner), nil

	case entity.EventIdeaUpdatePosted:
		if event.IdeaID == "" {
			return nil, fmt.Errorf("%w: idea_id is empty", ErrInvalidEvent)
		}
		signallers, err := s.audienceRepo.Signallers(ctx, event.IdeaID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve signallers: %w", err)
		}
		return s.forRecipients(event, entity.NotificationIdeaUpdate, signallers...), nil

	case entity.EventReviewCreated:
		return s.forRecipients(event, entity.NotificationReview, event.SubjectID), nil

	case entity.EventMessageSent:
		return s.forRecipients(event, entity.NotificationMessage, event.SubjectID), nil

	default:
		logger.Warn().Str("event_type", event.EventType).Msg("Unknown event type, skipping")
		return nil, nil
	}
}

// forRecipients собирает строки уведомлений, отбрасывая пустых адресатов,
// дубликаты и самого автора события
func (s *NotificationWriter) forRecipients(event *entity.DomainEvent, kind entity.NotificationType, recipients ...string) []entity.Notification {
	var ideaID, updateID *string
	if event.IdeaID != "" {
		ideaID = &event.IdeaID
	}
	if event.UpdateID != "" {
		updateID = &event.UpdateID
	}

	seen := make(map[string]struct{}, len(recipients))
	notifications := make([]entity.Notification, 0, len(recipients))

	for _, recipientID := range recipients {
		if recipientID == "" || recipientID == event.ActorID {
			continue
		}
		if _, ok := seen[recipientID]; ok {
			continue
		}
		seen[recipientID] = struct{}{}

		notifications = append(notifications, entity.Notification{
			ID:          s.newID(),
			RecipientID: recipientID,
			ActorID:     event.ActorID,
			Type:        kind,
			IdeaID:      ideaID,
			UpdateID:    updateID,
			CreatedAt:   event.Timestamp,
		})
	}

	return notifications
}
