package service

import (
	"context"
	"errors"
	"fmt"

	"signalidea/pkg/logger"
	"signalidea/pkg/metrics"
	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/infrastructure"
	"signalidea/social-service/internal/app/social/repository"
)

// RelationshipService - индекс подписок. Кэша нет: каждый вызов идет в хранилище.
type RelationshipService struct {
	followRepo  repository.FollowRepository
	profileRepo repository.ProfileRepository
	publisher   infrastructure.MessagePublisher
}

func NewRelationshipService(
	followRepo repository.FollowRepository,
	profileRepo repository.ProfileRepository,
	publisher infrastructure.MessagePublisher,
) *RelationshipService {
	return &RelationshipService{
		followRepo:  followRepo,
		profileRepo: profileRepo,
		publisher:   publisher,
	}
}

// Follow создает ребро follower -> following. Повторная подписка не ошибка.
func (s *RelationshipService) Follow(ctx context.Context, followerID, followingID string) error {
	if followerID == "" {
		return ErrAuthRequired
	}
	if followerID == followingID {
		return fmt.Errorf("%w: cannot follow yourself", ErrValidation)
	}

	if _, err := s.profileRepo.GetByID(ctx, followingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to get profile: %w", err)
	}

	created, err := s.followRepo.Create(ctx, followerID, followingID)
	if err != nil {
		return fmt.Errorf("failed to follow: %w", err)
	}
	if !created {
		return nil
	}

	metrics.FollowChanges.WithLabelValues("follow").Inc()
	logger.Ctx(ctx).Info().Str("follower_id", followerID).Str("following_id", followingID).Msg("Follow created")

	publishEvent(ctx, s.publisher, entity.DomainEvent{
		EventType: entity.EventFollowCreated,
		ActorID:   followerID,
		SubjectID: followingID,
	})

	return nil
}

// Unfollow удаляет ребро; отсутствие ребра не ошибка
func (s *RelationshipService) Unfollow(ctx context.Context, followerID, followingID string) error {
	if followerID == "" {
		return ErrAuthRequired
	}

	deleted, err := s.followRepo.Delete(ctx, followerID, followingID)
	if err != nil {
		return fmt.Errorf("failed to unfollow: %w", err)
	}

	if deleted {
		metrics.FollowChanges.WithLabelValues("unfollow").Inc()
	}

	return nil
}

// IsFollowing - подписан ли a на b; для анонимного зрителя всегда false
func (s *RelationshipService) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == "" || followerID == followingID {
		return false, nil
	}

	following, err := s.followRepo.Exists(ctx, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}

	return following, nil
}

// Followees - на кого подписан пользователь
func (s *RelationshipService) Followees(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.followRepo.ListFollowees(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followees: %w", err)
	}
	return ids, nil
}

// Followers - кто подписан на пользователя
func (s *RelationshipService) Followers(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.followRepo.ListFollowers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	return ids, nil
}

func (s *RelationshipService) FollowerProfiles(ctx context.Context, userID string) ([]entity.Profile, error) {
	ids, err := s.Followers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.profilesInOrder(ctx, ids)
}

func (s *RelationshipService) FollowingProfiles(ctx context.Context, userID string) ([]entity.Profile, error) {
	ids, err := s.Followees(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.profilesInOrder(ctx, ids)
}

// profilesInOrder сохраняет порядок ids, пропуская профили, которых нет
func (s *RelationshipService) profilesInOrder(ctx context.Context, ids []string) ([]entity.Profile, error) {
	byID, err := s.profileRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get profiles: %w", err)
	}

	profiles := make([]entity.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			profiles = append(profiles, p)
		}
	}

	return profiles, nil
}

func (s *RelationshipService) Counts(ctx context.Context, userID string) (*entity.FollowCounts, error) {
	followers, err := s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count followers: %w", err)
	}

	following, err := s.followRepo.CountFollowees(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count followees: %w", err)
	}

	return &entity.FollowCounts{Followers: followers, Following: following}, nil
}
