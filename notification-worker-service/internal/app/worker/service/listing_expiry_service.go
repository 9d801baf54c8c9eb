package service

import (
	"context"
	"fmt"
	"time"

	"signalidea/notification-worker-service/internal/app/worker/repository"
	"signalidea/pkg/logger"
	"signalidea/pkg/metrics"
)

// ListingExpiryService переводит просроченные вакансии в статус expired
type ListingExpiryService struct {
	listingRepo repository.JobListingRepository
	now         func() time.Time
}

func NewListingExpiryService(listingRepo repository.JobListingRepository) *ListingExpiryService {
	return &ListingExpiryService{
		listingRepo: listingRepo,
		now:         time.Now,
	}
}

func (s *ListingExpiryService) ExpireListings(ctx context.Context) error {
	expired, err := s.listingRepo.ExpireOverdue(ctx, s.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to expire listings: %w", err)
	}

	if expired > 0 {
		metrics.WorkerListingsExpired.Add(float64(expired))
		logger.Info().Int64("expired", expired).Msg("Job listings expired")
	}

	return nil
}
