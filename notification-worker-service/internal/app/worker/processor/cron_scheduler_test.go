package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockListingExpiryService мок для ListingExpiryServiceInterface
type MockListingExpiryService struct {
	mock.Mock
}

func (m *MockListingExpiryService) ExpireListings(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// ===================== NewCronScheduler Tests =====================

func TestNewCronScheduler(t *testing.T) {
	mockSvc := new(MockListingExpiryService)

	scheduler := NewCronScheduler(mockSvc)

	assert.NotNil(t, scheduler)
	assert.NotNil(t, scheduler.cron)
	assert.Equal(t, mockSvc, scheduler.listingSvc)
	assert.Empty(t, scheduler.GetEntries())
}

// ===================== Start Tests =====================

func TestCronScheduler_Start_Success(t *testing.T) {
	// Arrange
	mockSvc := new(MockListingExpiryService)
	scheduler := NewCronScheduler(mockSvc)

	// первый прогон при старте
	mockSvc.On("ExpireListings", mock.Anything).Return(nil)

	// Act
	err := scheduler.Start(context.Background(), "*/15 * * * *")

	// Assert
	assert.NoError(t, err)
	assert.Len(t, scheduler.GetEntries(), 1)

	scheduler.Stop()
	mockSvc.AssertNumberOfCalls(t, "ExpireListings", 1)
}

func TestCronScheduler_Start_InvalidSchedule(t *testing.T) {
	mockSvc := new(MockListingExpiryService)
	scheduler := NewCronScheduler(mockSvc)

	err := scheduler.Start(context.Background(), "invalid cron expression")

	assert.Error(t, err)
	mockSvc.AssertNotCalled(t, "ExpireListings", mock.Anything)
}

func TestCronScheduler_Start_InitialRunError_ContinuesWork(t *testing.T) {
	mockSvc := new(MockListingExpiryService)
	scheduler := NewCronScheduler(mockSvc)

	mockSvc.On("ExpireListings", mock.Anything).Return(errors.New("db down"))

	err := scheduler.Start(context.Background(), "*/15 * * * *")

	assert.NoError(t, err)
	assert.Len(t, scheduler.GetEntries(), 1)

	scheduler.Stop()
}

// ===================== Job Execution Tests =====================

func TestCronScheduler_JobExecution(t *testing.T) {
	// Arrange
	mockSvc := new(MockListingExpiryService)
	scheduler := NewCronScheduler(mockSvc)

	mockSvc.On("ExpireListings", mock.Anything).Return(nil)

	// Act
	err := scheduler.Start(context.Background(), "@every 100ms")
	assert.NoError(t, err)

	time.Sleep(350 * time.Millisecond)
	scheduler.Stop()

	// Assert: первый прогон и минимум один по расписанию
	assert.GreaterOrEqual(t, len(mockSvc.Calls), 2)
}

func TestCronScheduler_JobExecution_WithError(t *testing.T) {
	mockSvc := new(MockListingExpiryService)
	scheduler := NewCronScheduler(mockSvc)

	mockSvc.On("ExpireListings", mock.Anything).Return(errors.New("db down"))

	err := scheduler.Start(context.Background(), "@every 100ms")
	assert.NoError(t, err)

	time.Sleep(350 * time.Millisecond)
	scheduler.Stop()

	assert.GreaterOrEqual(t, len(mockSvc.Calls), 2)
}
