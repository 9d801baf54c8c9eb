package service

import (
	"context"
	"fmt"
	"strings"

	"signalidea/pkg/logger"
	"signalidea/pkg/metrics"
	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/repository"
)

// placeholderName показывается вместо имени, если профиль автора не найден
const placeholderName = "User"

func displayNameOr(name string) string {
	if strings.TrimSpace(name) == "" {
		return placeholderName
	}
	return name
}

// FeedService - агрегатор ленты discover
type FeedService struct {
	ideaRepo     repository.IdeaRepository
	profileRepo  repository.ProfileRepository
	defaultLimit int
	maxLimit     int
}

func NewFeedService(
	ideaRepo repository.IdeaRepository,
	profileRepo repository.ProfileRepository,
	defaultLimit, maxLimit int,
) *FeedService {
	return &FeedService{
		ideaRepo:     ideaRepo,
		profileRepo:  profileRepo,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

func (s *FeedService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

// Discover собирает ленту из идей и обновлений авторов, которые не являются
// зрителем и на которых он не подписан. Порядок - по времени создания, новые первыми.
// Любая ошибка хранилища сворачивает ленту в пустую: частичный результат не отдается.
// Ошибка возвращается только для логов и метрик вызывающего.
func (s *FeedService) Discover(ctx context.Context, viewerID string, q entity.FeedQuery) ([]entity.FeedItem, error) {
	if viewerID == "" {
		return []entity.FeedItem{}, nil
	}

	items, err := s.discover(ctx, viewerID, q)
	if err != nil {
		metrics.FeedDegraded.Inc()
		logger.Ctx(ctx).Warn().Err(err).Str("user_id", viewerID).Msg("Discover feed degraded to empty")
		return []entity.FeedItem{}, err
	}

	metrics.FeedItems.Observe(float64(len(items)))
	return items, nil
}

func (s *FeedService) discover(ctx context.Context, viewerID string, q entity.FeedQuery) ([]entity.FeedItem, error) {
	limit := s.clampLimit(q.Limit)

	// 1-2. Идеи не своих и не подписанных авторов (anti-join в хранилище)
	ideas, err := s.ideaRepo.ListDiscover(ctx, viewerID, q.Before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list discover ideas: %w", err)
	}
	if len(ideas) == 0 {
		return []entity.FeedItem{}, nil
	}

	// 3. Обновления отдельным потоком с тем же фильтром авторов идей.
	// Обновление не старше своей идеи, поэтому при пустой странице идей обновлений тоже нет.
	updates, err := s.ideaRepo.ListDiscoverUpdates(ctx, viewerID, q.Before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list discover updates: %w", err)
	}

	// 4. Авторы обоих потоков одним запросом
	authorIDs := make([]string, 0, len(ideas))
	seen := make(map[string]struct{}, len(ideas))
	addAuthor := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			authorIDs = append(authorIDs, id)
		}
	}
	for _, idea := range ideas {
		addAuthor(idea.UserID)
	}
	for _, u := range updates {
		addAuthor(u.UserID)
	}

	authors, err := s.profileRepo.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get feed authors: %w", err)
	}

	author := func(id string) entity.AuthorView {
		view := entity.AuthorView{ID: id, DisplayName: placeholderName}
		if p, ok := authors[id]; ok {
			view.DisplayName = displayNameOr(p.DisplayName)
			view.PhotoURL = p.PhotoURL
		}
		return view
	}

	// 5. Слияние двух отсортированных потоков
	merged := mergeFeed(ideas, updates, limit, func(idea entity.Idea) entity.FeedItem {
		return entity.FeedItem{
			Kind:        entity.FeedItemIdea,
			ID:          idea.ID,
			IdeaID:      idea.ID,
			Title:       idea.Title,
			IdeaTitle:   idea.Title,
			Description: idea.Description,
			PhotoURL:    idea.PhotoURL,
			VideoURL:    idea.VideoURL,
			Author:      author(idea.UserID),
			CreatedAt:   idea.CreatedAt,
		}
	}, func(u entity.DiscoverUpdate) entity.FeedItem {
		return entity.FeedItem{
			Kind:        entity.FeedItemUpdate,
			ID:          u.ID,
			IdeaID:      u.IdeaID,
			IdeaTitle:   u.IdeaTitle,
			Description: u.Description,
			PhotoURL:    u.PhotoURL,
			VideoURL:    u.VideoURL,
			Author:      author(u.UserID),
			CreatedAt:   u.CreatedAt,
		}
	})

	return merged, nil
}

// mergeFeed сливает два потока, отсортированных по убыванию времени.
// При равном времени идея идет раньше обновления.
func mergeFeed(
	ideas []entity.Idea,
	updates []entity.DiscoverUpdate,
	limit int,
	fromIdea func(entity.Idea) entity.FeedItem,
	fromUpdate func(entity.DiscoverUpdate) entity.FeedItem,
) []entity.FeedItem {
	total := len(ideas) + len(updates)
	if total > limit {
		total = limit
	}

	items := make([]entity.FeedItem, 0, total)
	i, j := 0, 0
	for len(items) < total {
		switch {
		case j >= len(updates):
			items = append(items, fromIdea(ideas[i]))
			i++
		case i >= len(ideas):
			items = append(items, fromUpdate(updates[j]))
			j++
		case !updates[j].CreatedAt.After(ideas[i].CreatedAt):
			items = append(items, fromIdea(ideas[i]))
			i++
		default:
			items = append(items, fromUpdate(updates[j]))
			j++
		}
	}

	return items
}
