package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"signalidea/social-service/internal/app/social/entity"

	"gorm.io/gorm"
)

const defaultJobListLimit = 50

// jobListingRepository реализует JobListingRepository через GORM
type jobListingRepository struct {
	db *gorm.DB
}

func NewJobListingRepository(db *gorm.DB) JobListingRepository {
	return &jobListingRepository{db: db}
}

func (r *jobListingRepository) Create(ctx context.Context, listing *entity.JobListing) error {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return fmt.Errorf("failed to create job listing: %w", err)
	}
	return nil
}

func (r *jobListingRepository) GetByID(ctx context.Context, id string) (*entity.JobListing, error) {
	var listing entity.JobListing

	result := r.db.WithContext(ctx).Where("id = ?", id).First(&listing)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) || isInvalidID(result.Error) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get job listing: %w", result.Error)
	}

	return &listing, nil
}

// ListOpen - открытые вакансии, подстрока ищется в заголовке и описании без учета регистра
func (r *jobListingRepository) ListOpen(ctx context.Context, query string, limit int) ([]entity.JobListing, error) {
	if limit <= 0 {
		limit = defaultJobListLimit
	}

	tx := r.db.WithContext(ctx).
		Where("status = ? AND expires_at > NOW()", entity.JobListingOpen)

	if q := strings.TrimSpace(query); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		tx = tx.Where("(title ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}

	listings := make([]entity.JobListing, 0)
	if err := tx.Order("created_at DESC").Limit(limit).Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to list job listings: %w", err)
	}

	return listings, nil
}

func (r *jobListingRepository) ListByBusiness(ctx context.Context, businessID string) ([]entity.JobListing, error) {
	listings := make([]entity.JobListing, 0)

	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list business job listings: %w", err)
	}

	return listings, nil
}

func (r *jobListingRepository) UpdateStatus(ctx context.Context, id string, status entity.JobListingStatus) error {
	result := r.db.WithContext(ctx).
		Model(&entity.JobListing{}).
		Where("id = ?", id).
		Update("status", status)

	if result.Error != nil {
		return fmt.Errorf("failed to update job listing status: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
