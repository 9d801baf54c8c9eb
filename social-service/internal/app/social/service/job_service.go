package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"signalidea/pkg/logger"
	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/repository"

	"github.com/google/uuid"
)

// DefaultListingTTL - срок жизни вакансии без явной даты окончания
const DefaultListingTTL = 30 * 24 * time.Hour

const (
	defaultJobPageSize = 50
	maxJobPageSize     = 100
)

type JobService struct {
	jobRepo repository.JobListingRepository
}

func NewJobService(jobRepo repository.JobListingRepository) *JobService {
	return &JobService{jobRepo: jobRepo}
}

// Create публикует вакансию; доступно только бизнес-аккаунтам
func (s *JobService) Create(ctx context.Context, session *entity.Session, req *entity.CreateJobListingRequest) (*entity.JobListing, error) {
	if session == nil || session.UserID == "" {
		return nil, ErrAuthRequired
	}
	if session.AccountType != entity.AccountTypeBusiness {
		return nil, fmt.Errorf("%w: only business accounts can post job listings", ErrForbidden)
	}

	now := time.Now().UTC()
	expiresAt := now.Add(DefaultListingTTL)
	if req.ExpiresAt != nil {
		if !req.ExpiresAt.After(now) {
			return nil, fmt.Errorf("%w: expiry must be in the future", ErrValidation)
		}
		expiresAt = req.ExpiresAt.UTC()
	}

	listing := &entity.JobListing{
		ID:             uuid.NewString(),
		BusinessID:     session.UserID,
		Title:          strings.TrimSpace(req.Title),
		Description:    strings.TrimSpace(req.Description),
		Location:       strings.TrimSpace(req.Location),
		EmploymentType: entity.EmploymentType(req.EmploymentType),
		Status:         entity.JobListingOpen,
		ExpiresAt:      expiresAt,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if listing.Title == "" || listing.Description == "" {
		return nil, fmt.Errorf("%w: title and description are required", ErrValidation)
	}

	if err := s.jobRepo.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("failed to create job listing: %w", err)
	}

	logger.Ctx(ctx).Info().Str("listing_id", listing.ID).Str("business_id", listing.BusinessID).Msg("Job listing created")

	return listing, nil
}

func (s *JobService) ListOpen(ctx context.Context, query string, limit int) ([]entity.JobListing, error) {
	if limit <= 0 {
		limit = defaultJobPageSize
	}
	if limit > maxJobPageSize {
		limit = maxJobPageSize
	}

	listings, err := s.jobRepo.ListOpen(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list job listings: %w", err)
	}
	return listings, nil
}

func (s *JobService) ListByBusiness(ctx context.Context, businessID string) ([]entity.JobListing, error) {
	listings, err := s.jobRepo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list business job listings: %w", err)
	}
	return listings, nil
}

// Close закрывает вакансию; только владелец
func (s *JobService) Close(ctx context.Context, ownerID, listingID string) error {
	if ownerID == "" {
		return ErrAuthRequired
	}

	listing, err := s.jobRepo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrListingNotFound
		}
		return fmt.Errorf("failed to get job listing: %w", err)
	}
	if listing.BusinessID != ownerID {
		return ErrForbidden
	}
	if listing.Status == entity.JobListingClosed {
		return nil
	}

	if err := s.jobRepo.UpdateStatus(ctx, listingID, entity.JobListingClosed); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrListingNotFound
		}
		return fmt.Errorf("failed to close job listing: %w", err)
	}

	return nil
}
