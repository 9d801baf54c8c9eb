package repository

import (
	"context"
	"fmt"
	"time"

	"signalidea/notification-worker-service/internal/app/worker/entity"
	"signalidea/pkg/metrics"

	"gorm.io/gorm"
)

type jobListingRepository struct {
	db *gorm.DB
}

func NewJobListingRepository(db *gorm.DB) JobListingRepository {
	return &jobListingRepository{db: db}
}

func (r *jobListingRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "job_listings")
	result := r.db.WithContext(ctx).
		Model(&entity.JobListing{}).
		Where("status = ? AND expires_at < ?", entity.JobListingOpen, now).
		Updates(map[string]interface{}{
			"status":     entity.JobListingExpired,
			"updated_at": now,
		})
	timer.Done(result.Error)

	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire job listings: %w", result.Error)
	}

	return result.RowsAffected, nil
}
