package service

import (
	"context"
	"errors"
	"testing"

	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/repository"
	"signalidea/social-service/internal/app/social/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type profileFixture struct {
	profileRepo *mocks.MockProfileRepository
	followRepo  *mocks.MockFollowRepository
	ideaRepo    *mocks.MockIdeaRepository
	signalRepo  *mocks.MockSignalRepository
	reviewRepo  *mocks.MockReviewRepository
	service     *ProfileService
}

func newProfileFixture() *profileFixture {
	f := &profileFixture{
		profileRepo: new(mocks.MockProfileRepository),
		followRepo:  new(mocks.MockFollowRepository),
		ideaRepo:    new(mocks.MockIdeaRepository),
		signalRepo:  new(mocks.MockSignalRepository),
		reviewRepo:  new(mocks.MockReviewRepository),
	}
	reviews := NewReviewService(f.reviewRepo, f.profileRepo, new(mocks.MockMessagePublisher))
	f.service = NewProfileService(f.profileRepo, f.followRepo, f.ideaRepo, f.signalRepo, reviews)
	return f
}

func (f *profileFixture) expectCounters(subjectID string) {
	f.followRepo.On("CountFollowers", mock.Anything, subjectID).Return(10, nil)
	f.followRepo.On("CountFollowees", mock.Anything, subjectID).Return(2, nil)
	f.ideaRepo.On("CountByUser", mock.Anything, subjectID).Return(5, nil)
	f.signalRepo.On("CountReceivedByUser", mock.Anything, subjectID).Return(42, nil)
}

func TestProfileService_GetProfilePage_Visitor(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newProfileFixture()
	subject := &entity.Profile{ID: "biz", DisplayName: "Acme", AccountType: entity.AccountTypeBusiness}

	f.profileRepo.On("GetByID", ctx, "biz").Return(subject, nil)
	f.expectCounters("biz")
	f.followRepo.On("Exists", mock.Anything, "viewer", "biz").Return(true, nil)
	f.reviewRepo.On("RatingsBySubject", mock.Anything, "biz").Return(map[entity.ReviewType][]int{
		entity.ReviewCustomerToEmployee: {8, 10},
	}, nil)

	// Act
	page, err := f.service.GetProfilePage(ctx, "viewer", "biz")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Acme", page.Profile.DisplayName)
	assert.Equal(t, 10, page.FollowerCount)
	assert.Equal(t, 2, page.FollowingCount)
	assert.Equal(t, 5, page.IdeaCount)
	assert.Equal(t, 42, page.SignalsReceived)
	assert.True(t, page.IsFollowing)
	assert.False(t, page.IsOwn)

	require.Len(t, page.ReviewSummaries, 2)
	assert.Equal(t, entity.CategoryService, page.ReviewSummaries[1].Category)
	assert.Equal(t, "9.0", page.ReviewSummaries[1].AverageDisplay)
}

func TestProfileService_GetProfilePage_Own(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture()
	subject := &entity.Profile{ID: "me", AccountType: entity.AccountTypePrivate}

	f.profileRepo.On("GetByID", ctx, "me").Return(subject, nil)
	f.expectCounters("me")
	f.reviewRepo.On("RatingsBySubject", mock.Anything, "me").Return(map[entity.ReviewType][]int{}, nil)

	page, err := f.service.GetProfilePage(ctx, "me", "me")

	require.NoError(t, err)
	assert.True(t, page.IsOwn)
	assert.False(t, page.IsFollowing)
	f.followRepo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything)
}

func TestProfileService_GetProfilePage_CounterFailure(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture()
	subject := &entity.Profile{ID: "p", AccountType: entity.AccountTypePrivate}

	f.profileRepo.On("GetByID", ctx, "p").Return(subject, nil)
	f.followRepo.On("CountFollowers", mock.Anything, "p").Return(0, errors.New("db down"))
	f.followRepo.On("CountFollowees", mock.Anything, "p").Return(0, nil)
	f.ideaRepo.On("CountByUser", mock.Anything, "p").Return(0, nil)
	f.signalRepo.On("CountReceivedByUser", mock.Anything, "p").Return(0, nil)
	f.reviewRepo.On("RatingsBySubject", mock.Anything, "p").Return(map[entity.ReviewType][]int{}, nil)

	page, err := f.service.GetProfilePage(ctx, "", "p")

	assert.Nil(t, page)
	assert.Error(t, err)
}

func TestProfileService_GetProfilePage_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture()

	f.profileRepo.On("GetByID", ctx, "ghost").Return(nil, repository.ErrNotFound)

	_, err := f.service.GetProfilePage(ctx, "", "ghost")

	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileService_UpdateProfile(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newProfileFixture()
	name := " New Name "
	accountType := "business"
	emptyPhoto := ""

	f.profileRepo.On("GetByID", ctx, "me").Return(&entity.Profile{ID: "me", DisplayName: "Old", AccountType: entity.AccountTypePrivate}, nil)
	f.profileRepo.On("Update", ctx, mock.MatchedBy(func(p *entity.Profile) bool {
		return p.DisplayName == "New Name" && p.AccountType == entity.AccountTypeBusiness && p.PhotoURL == nil
	})).Return(nil)

	// Act
	profile, err := f.service.UpdateProfile(ctx, "me", &entity.UpdateProfileRequest{
		DisplayName: &name,
		AccountType: &accountType,
		PhotoURL:    &emptyPhoto,
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "New Name", profile.DisplayName)
	f.profileRepo.AssertExpectations(t)
}

func TestProfileService_UpdateProfile_InvalidAccountType(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture()
	accountType := "enterprise"

	f.profileRepo.On("GetByID", ctx, "me").Return(&entity.Profile{ID: "me"}, nil)

	_, err := f.service.UpdateProfile(ctx, "me", &entity.UpdateProfileRequest{AccountType: &accountType})

	assert.ErrorIs(t, err, ErrValidation)
	f.profileRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestProfileService_UpdateReviewSettings(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture()
	req := entity.ReviewSettingsRequest{CustomersEnabled: boolPtr(false)}

	f.profileRepo.On("UpdateReviewSettings", ctx, "me", req).Return(&entity.Profile{
		ID:                          "me",
		ReviewsFromCustomersEnabled: boolPtr(false),
	}, nil)

	profile, err := f.service.UpdateReviewSettings(ctx, "me", &req)

	require.NoError(t, err)
	assert.False(t, entity.FlagEnabled(profile.ReviewsFromCustomersEnabled))
	assert.True(t, entity.FlagEnabled(profile.ReviewsFromEmployeesEnabled))
}

func TestProfileService_UpdateReviewSettings_Empty(t *testing.T) {
	f := newProfileFixture()

	_, err := f.service.UpdateReviewSettings(context.Background(), "me", &entity.ReviewSettingsRequest{})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestProfileService_SearchProfiles_DefaultLimit(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture()

	f.profileRepo.On("Search", ctx, repository.ProfileFilter{Query: "ann", Limit: defaultProfileSearchSize}).
		Return([]entity.Profile{{ID: "a", DisplayName: "Anna"}}, nil)

	profiles, err := f.service.SearchProfiles(ctx, "ann", 0)

	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}
