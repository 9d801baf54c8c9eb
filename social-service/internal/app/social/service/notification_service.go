package service

import (
	"context"
	"fmt"
	"time"

	"signalidea/pkg/logger"
	"signalidea/pkg/metrics"
	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/repository"

	"golang.org/x/sync/errgroup"
)

const (
	defaultNotificationPage = 50
	maxNotificationPage     = 200
)

// NotificationService - материализатор уведомлений
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	profileRepo      repository.ProfileRepository
	ideaRepo         repository.IdeaRepository
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	profileRepo repository.ProfileRepository,
	ideaRepo repository.IdeaRepository,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		profileRepo:      profileRepo,
		ideaRepo:         ideaRepo,
	}
}

// List превращает сырые уведомления в строки для показа:
// notification -> профиль актора -> (idea_id | update_id -> idea_id) -> заголовок идеи.
// Сбой поиска актора или идеи дает значения по умолчанию, а не ошибку.
// После выборки все непрочитанные получателя до момента запроса помечаются прочитанными (best-effort).
func (s *NotificationService) List(ctx context.Context, recipientID string, limit int) ([]entity.NotificationView, error) {
	if recipientID == "" {
		return nil, ErrAuthRequired
	}

	if limit <= 0 {
		limit = defaultNotificationPage
	}
	if limit > maxNotificationPage {
		limit = maxNotificationPage
	}

	// граница фиксируется до выборки: пришедшие позже уведомления останутся непрочитанными
	cutoff := time.Now().UTC()

	notifications, err := s.notificationRepo.ListByRecipient(ctx, recipientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	if len(notifications) == 0 {
		return []entity.NotificationView{}, nil
	}

	actorIDs := make([]string, 0, len(notifications))
	updateIDs := make([]string, 0)
	seenActors := make(map[string]struct{}, len(notifications))
	for _, n := range notifications {
		if _, ok := seenActors[n.ActorID]; !ok {
			seenActors[n.ActorID] = struct{}{}
			actorIDs = append(actorIDs, n.ActorID)
		}
		if n.IdeaID == nil && n.UpdateID != nil {
			updateIDs = append(updateIDs, *n.UpdateID)
		}
	}

	var (
		actors  map[string]entity.Profile
		parents map[string]string
	)

	// поиски независимы: сбой одного не отменяет другой, каждый дает значения по умолчанию
	var g errgroup.Group
	g.Go(func() error {
		found, err := s.profileRepo.GetByIDs(ctx, actorIDs)
		if err != nil {
			return fmt.Errorf("actor lookup: %w", err)
		}
		actors = found
		return nil
	})
	g.Go(func() error {
		found, err := s.ideaRepo.ResolveUpdateParents(ctx, updateIDs)
		if err != nil {
			return fmt.Errorf("update lookup: %w", err)
		}
		parents = found
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("user_id", recipientID).Msg("Notification lookups degraded to defaults")
	}

	// id идеи для каждого уведомления
	targets := make([]*string, len(notifications))
	ideaIDs := make([]string, 0, len(notifications))
	seenIdeas := make(map[string]struct{})
	for i, n := range notifications {
		var ideaID string
		switch {
		case n.IdeaID != nil:
			ideaID = *n.IdeaID
		case n.UpdateID != nil:
			ideaID = parents[*n.UpdateID]
		}
		if ideaID == "" {
			continue
		}
		targets[i] = &ideaID
		if _, ok := seenIdeas[ideaID]; !ok {
			seenIdeas[ideaID] = struct{}{}
			ideaIDs = append(ideaIDs, ideaID)
		}
	}

	titles, err := s.ideaRepo.GetTitles(ctx, ideaIDs)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("user_id", recipientID).Msg("Notification idea lookup failed")
		titles = map[string]string{}
	}

	views := make([]entity.NotificationView, 0, len(notifications))
	for i, n := range notifications {
		view := entity.NotificationView{
			ID:        n.ID,
			Type:      n.Type,
			ActorID:   n.ActorID,
			ActorName: placeholderName,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		}
		if p, ok := actors[n.ActorID]; ok {
			view.ActorName = displayNameOr(p.DisplayName)
			view.ActorPhotoURL = p.PhotoURL
		}
		// идея, которой уже нет, дает пустую цель
		if targets[i] != nil {
			if title, ok := titles[*targets[i]]; ok {
				view.IdeaID = targets[i]
				view.IdeaTitle = &title
			}
		}
		view.Text = notificationText(view)
		views = append(views, view)
	}

	metrics.NotificationsMaterialized.Add(float64(len(views)))

	// непрочитанные могут лежать и ниже текущей страницы, поэтому без проверки страницы
	s.markRead(ctx, recipientID, cutoff)

	return views, nil
}

func (s *NotificationService) markRead(ctx context.Context, recipientID string, cutoff time.Time) {
	marked, err := s.notificationRepo.MarkReadUpTo(ctx, recipientID, cutoff)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("user_id", recipientID).Msg("Failed to mark notifications as read")
		return
	}
	logger.Ctx(ctx).Debug().Str("user_id", recipientID).Int64("marked", marked).Msg("Notifications marked as read")
}

func notificationText(view entity.NotificationView) string {
	title := "an idea"
	if view.IdeaTitle != nil {
		title = fmt.Sprintf("%q", *view.IdeaTitle)
	}

	switch view.Type {
	case entity.NotificationFollow:
		return view.ActorName + " started following you"
	case entity.NotificationSignal:
		return view.ActorName + " signalled your idea " + title
	case entity.NotificationIdeaUpdate:
		return view.ActorName + " posted an update to " + title
	case entity.NotificationReview:
		return view.ActorName + " left you a review"
	case entity.NotificationMessage:
		return view.ActorName + " sent you a message"
	default:
		return view.ActorName + " interacted with you"
	}
}

func (s *NotificationService) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	if recipientID == "" {
		return 0, ErrAuthRequired
	}

	count, err := s.notificationRepo.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}
