package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/repository"

	"golang.org/x/sync/errgroup"
)

const (
	defaultProfileSearchSize = 20
	maxProfileSearchSize     = 50
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
	followRepo  repository.FollowRepository
	ideaRepo    repository.IdeaRepository
	signalRepo  repository.SignalRepository
	reviews     *ReviewService
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	followRepo repository.FollowRepository,
	ideaRepo repository.IdeaRepository,
	signalRepo repository.SignalRepository,
	reviews *ReviewService,
) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		followRepo:  followRepo,
		ideaRepo:    ideaRepo,
		signalRepo:  signalRepo,
		reviews:     reviews,
	}
}

// GetProfilePage собирает страницу профиля. Счетчики независимы и читаются параллельно.
// viewerID может быть пустым (анонимный зритель).
func (s *ProfileService) GetProfilePage(ctx context.Context, viewerID, subjectID string) (*entity.ProfilePage, error) {
	profile, err := s.profileRepo.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	page := &entity.ProfilePage{
		Profile: *profile,
		IsOwn:   viewerID != "" && viewerID == subjectID,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.followRepo.CountFollowers(gctx, subjectID)
		if err != nil {
			return fmt.Errorf("failed to count followers: %w", err)
		}
		page.FollowerCount = n
		return nil
	})
	g.Go(func() error {
		n, err := s.followRepo.CountFollowees(gctx, subjectID)
		if err != nil {
			return fmt.Errorf("failed to count following: %w", err)
		}
		page.FollowingCount = n
		return nil
	})
	g.Go(func() error {
		n, err := s.ideaRepo.CountByUser(gctx, subjectID)
		if err != nil {
			return fmt.Errorf("failed to count ideas: %w", err)
		}
		page.IdeaCount = n
		return nil
	})
	g.Go(func() error {
		n, err := s.signalRepo.CountReceivedByUser(gctx, subjectID)
		if err != nil {
			return fmt.Errorf("failed to count signals: %w", err)
		}
		page.SignalsReceived = n
		return nil
	})
	if viewerID != "" && !page.IsOwn {
		g.Go(func() error {
			following, err := s.followRepo.Exists(gctx, viewerID, subjectID)
			if err != nil {
				return fmt.Errorf("failed to check follow: %w", err)
			}
			page.IsFollowing = following
			return nil
		})
	}
	g.Go(func() error {
		summaries, err := s.reviews.Summaries(gctx, profile)
		if err != nil {
			return err
		}
		page.ReviewSummaries = summaries
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return page, nil
}

// UpdateProfile меняет профиль владельца; nil поля не трогаются
func (s *ProfileService) UpdateProfile(ctx context.Context, ownerID string, req *entity.UpdateProfileRequest) (*entity.Profile, error) {
	if ownerID == "" {
		return nil, ErrAuthRequired
	}

	profile, err := s.profileRepo.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			return nil, fmt.Errorf("%w: display name cannot be empty", ErrValidation)
		}
		profile.DisplayName = name
	}
	if req.PhotoURL != nil {
		profile.PhotoURL = optionalString(*req.PhotoURL)
	}
	if req.Headline != nil {
		profile.Headline = strings.TrimSpace(*req.Headline)
	}
	if req.AccountType != nil {
		accountType := entity.AccountType(*req.AccountType)
		if !accountType.Valid() {
			return nil, fmt.Errorf("%w: unknown account type %q", ErrValidation, *req.AccountType)
		}
		profile.AccountType = accountType
	}
	if req.Language != nil {
		profile.Language = optionalString(*req.Language)
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}

// UpdateReviewSettings переключает флаги видимости отзывов владельца
func (s *ProfileService) UpdateReviewSettings(ctx context.Context, ownerID string, req *entity.ReviewSettingsRequest) (*entity.Profile, error) {
	if ownerID == "" {
		return nil, ErrAuthRequired
	}
	if req.EmployeesEnabled == nil && req.EmployersEnabled == nil && req.CustomersEnabled == nil {
		return nil, fmt.Errorf("%w: no review settings provided", ErrValidation)
	}

	profile, err := s.profileRepo.UpdateReviewSettings(ctx, ownerID, *req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update review settings: %w", err)
	}

	return profile, nil
}

// SearchProfiles - поиск по подстроке имени без учета регистра
func (s *ProfileService) SearchProfiles(ctx context.Context, query string, limit int) ([]entity.Profile, error) {
	if limit <= 0 {
		limit = defaultProfileSearchSize
	}
	if limit > maxProfileSearchSize {
		limit = maxProfileSearchSize
	}

	profiles, err := s.profileRepo.Search(ctx, repository.ProfileFilter{
		Query: query,
		Limit: uint64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}

	return profiles, nil
}

// SetAvatar сохраняет URL загруженного аватара
func (s *ProfileService) SetAvatar(ctx context.Context, ownerID, url string) error {
	_, err := s.UpdateProfile(ctx, ownerID, &entity.UpdateProfileRequest{PhotoURL: &url})
	return err
}
