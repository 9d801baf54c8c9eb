package mocks

import (
	"context"
	"time"

	"signalidea/notification-worker-service/internal/app/worker/entity"

	"github.com/stretchr/testify/mock"
)

// MockNotificationRepository мок для NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) CreateBatch(ctx context.Context, notifications []entity.Notification) error {
	args := m.Called(ctx, notifications)
	return args.Error(0)
}

// MockAudienceRepository мок для AudienceRepository
type MockAudienceRepository struct {
	mock.Mock
}

func (m *MockAudienceRepository) IdeaOwner(ctx context.Context, ideaID string) (string, error) {
	args := m.Called(ctx, ideaID)
	return args.String(0), args.Error(1)
}

func (m *MockAudienceRepository) Signallers(ctx context.Context, ideaID string) ([]string, error) {
	args := m.Called(ctx, ideaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockJobListingRepository мок для JobListingRepository
type MockJobListingRepository struct {
	mock.Mock
}

func (m *MockJobListingRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
