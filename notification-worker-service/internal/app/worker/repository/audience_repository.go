package repository

import (
	"context"
	"fmt"

	"signalidea/pkg/metrics"

	"gorm.io/gorm"
)

type audienceRepository struct {
	db *gorm.DB
}

func NewAudienceRepository(db *gorm.DB) AudienceRepository {
	return &audienceRepository{db: db}
}

func (r *audienceRepository) IdeaOwner(ctx context.Context, ideaID string) (string, error) {
	var owners []string

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "ideas")
	err := r.db.WithContext(ctx).
		Table("ideas").
		Where("id = ?", ideaID).
		Pluck("user_id", &owners).Error
	timer.Done(err)

	if err != nil {
		return "", fmt.Errorf("failed to get idea owner: %w", err)
	}
	if len(owners) == 0 {
		return "", fmt.Errorf("idea %s: %w", ideaID, ErrNotFound)
	}

	return owners[0], nil
}

// Signallers отдает подписчиков идеи в порядке подачи сигнала
func (r *audienceRepository) Signallers(ctx context.Context, ideaID string) ([]string, error) {
	var userIDs []string

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "signals")
	err := r.db.WithContext(ctx).
		Table("signals").
		Where("idea_id = ?", ideaID).
		Order("created_at").
		Pluck("user_id", &userIDs).Error
	timer.Done(err)

	if err != nil {
		return nil, fmt.Errorf("failed to list signallers: %w", err)
	}

	return userIDs, nil
}
