package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"signalidea/pkg/logger"
	"signalidea/pkg/metrics"
	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/infrastructure"
	"signalidea/social-service/internal/app/social/repository"
)

const (
	defaultConversationPage = 50
	maxConversationPage     = 200
)

type MessageService struct {
	messageRepo repository.MessageRepository
	profileRepo repository.ProfileRepository
	publisher   infrastructure.MessagePublisher
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	profileRepo repository.ProfileRepository,
	publisher infrastructure.MessagePublisher,
) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		profileRepo: profileRepo,
		publisher:   publisher,
	}
}

func (s *MessageService) Send(ctx context.Context, senderID string, req *entity.SendMessageRequest) (*entity.Message, error) {
	if senderID == "" {
		return nil, ErrAuthRequired
	}

	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, fmt.Errorf("%w: message body is required", ErrValidation)
	}
	if req.RecipientID == senderID {
		return nil, fmt.Errorf("%w: cannot message yourself", ErrValidation)
	}

	if _, err := s.profileRepo.GetByID(ctx, req.RecipientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get recipient: %w", err)
	}

	message := &entity.Message{
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Body:        body,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	metrics.MessagesSent.Inc()
	logger.Ctx(ctx).Info().
		Str("message_id", message.ID.Hex()).
		Str("sender_id", senderID).
		Str("recipient_id", req.RecipientID).
		Msg("Message sent")

	publishEvent(ctx, s.publisher, entity.DomainEvent{
		EventType: entity.EventMessageSent,
		ActorID:   senderID,
		SubjectID: req.RecipientID,
		MessageID: message.ID.Hex(),
	})

	return message, nil
}

// Conversation - переписка с собеседником, новые первыми
func (s *MessageService) Conversation(ctx context.Context, userID, otherID string, limit int) ([]entity.Message, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}

	if limit <= 0 {
		limit = defaultConversationPage
	}
	if limit > maxConversationPage {
		limit = maxConversationPage
	}

	messages, err := s.messageRepo.ListConversation(ctx, userID, otherID, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list conversation: %w", err)
	}
	return messages, nil
}

// Inbox - последний диалог с каждым собеседником
func (s *MessageService) Inbox(ctx context.Context, userID string) ([]entity.InboxEntry, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}

	rows, err := s.messageRepo.ListInbox(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.CounterpartID)
	}

	profiles, err := s.profileRepo.GetByIDs(ctx, ids)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("Inbox counterpart lookup failed")
		profiles = map[string]entity.Profile{}
	}

	entries := make([]entity.InboxEntry, 0, len(rows))
	for _, row := range rows {
		entry := entity.InboxEntry{
			CounterpartID:   row.CounterpartID,
			CounterpartName: placeholderName,
			LastMessage:     row.LastMessage,
			UnreadCount:     row.UnreadCount,
		}
		if p, ok := profiles[row.CounterpartID]; ok {
			entry.CounterpartName = displayNameOr(p.DisplayName)
			entry.CounterpartPhotoURL = p.PhotoURL
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// MarkRead - флаг прочтения меняет только получатель
func (s *MessageService) MarkRead(ctx context.Context, userID, messageID string) error {
	if userID == "" {
		return ErrAuthRequired
	}

	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMessageNotFound
		}
		return fmt.Errorf("failed to get message: %w", err)
	}
	if message.RecipientID != userID {
		return ErrForbidden
	}
	if message.Read {
		return nil
	}

	if err := s.messageRepo.MarkRead(ctx, messageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMessageNotFound
		}
		return fmt.Errorf("failed to mark message read: %w", err)
	}

	return nil
}

func (s *MessageService) UnreadCount(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, ErrAuthRequired
	}

	count, err := s.messageRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return int(count), nil
}
