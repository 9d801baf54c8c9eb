package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/repository"
	"signalidea/social-service/internal/app/social/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRelationshipFixture() (*mocks.MockFollowRepository, *mocks.MockProfileRepository, *mocks.MockMessagePublisher, *RelationshipService) {
	followRepo := new(mocks.MockFollowRepository)
	profileRepo := new(mocks.MockProfileRepository)
	publisher := new(mocks.MockMessagePublisher)
	return followRepo, profileRepo, publisher, NewRelationshipService(followRepo, profileRepo, publisher)
}

func TestRelationshipService_Follow_PublishesEvent(t *testing.T) {
	// Arrange
	ctx := context.Background()
	followRepo, profileRepo, publisher, service := newRelationshipFixture()

	profileRepo.On("GetByID", ctx, "b").Return(&entity.Profile{ID: "b"}, nil)
	followRepo.On("Create", ctx, "a", "b").Return(true, nil)
	publisher.On("PublishMessage", ctx, "b", mock.MatchedBy(func(payload []byte) bool {
		var event entity.DomainEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return false
		}
		return event.EventType == entity.EventFollowCreated && event.ActorID == "a" && event.SubjectID == "b"
	})).Return(nil)

	// Act
	err := service.Follow(ctx, "a", "b")

	// Assert
	require.NoError(t, err)
	followRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestRelationshipService_Follow_AlreadyFollowing(t *testing.T) {
	ctx := context.Background()
	followRepo, profileRepo, publisher, service := newRelationshipFixture()

	profileRepo.On("GetByID", ctx, "b").Return(&entity.Profile{ID: "b"}, nil)
	followRepo.On("Create", ctx, "a", "b").Return(false, nil)

	err := service.Follow(ctx, "a", "b")

	require.NoError(t, err)
	publisher.AssertNotCalled(t, "PublishMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestRelationshipService_Follow_Errors(t *testing.T) {
	tests := []struct {
		name        string
		followerID  string
		followingID string
		setup       func(ctx context.Context, profileRepo *mocks.MockProfileRepository)
		wantErr     error
	}{
		{
			name:        "anonymous",
			followerID:  "",
			followingID: "b",
			wantErr:     ErrAuthRequired,
		},
		{
			name:        "self follow",
			followerID:  "a",
			followingID: "a",
			wantErr:     ErrValidation,
		},
		{
			name:        "unknown target",
			followerID:  "a",
			followingID: "ghost",
			setup: func(ctx context.Context, profileRepo *mocks.MockProfileRepository) {
				profileRepo.On("GetByID", ctx, "ghost").Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrProfileNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			followRepo, profileRepo, _, service := newRelationshipFixture()
			if tt.setup != nil {
				tt.setup(ctx, profileRepo)
			}

			err := service.Follow(ctx, tt.followerID, tt.followingID)

			assert.ErrorIs(t, err, tt.wantErr)
			followRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestRelationshipService_Unfollow_Idempotent(t *testing.T) {
	ctx := context.Background()
	followRepo, _, _, service := newRelationshipFixture()

	followRepo.On("Delete", ctx, "a", "b").Return(false, nil)

	err := service.Unfollow(ctx, "a", "b")

	require.NoError(t, err)
	followRepo.AssertExpectations(t)
}

func TestRelationshipService_IsFollowing(t *testing.T) {
	ctx := context.Background()
	followRepo, _, _, service := newRelationshipFixture()

	followRepo.On("Exists", ctx, "a", "b").Return(true, nil)

	following, err := service.IsFollowing(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, following)

	following, err = service.IsFollowing(ctx, "", "b")
	require.NoError(t, err)
	assert.False(t, following)

	following, err = service.IsFollowing(ctx, "a", "a")
	require.NoError(t, err)
	assert.False(t, following)

	followRepo.AssertNumberOfCalls(t, "Exists", 1)
}

func TestRelationshipService_FollowerProfiles_KeepsOrder(t *testing.T) {
	// Arrange
	ctx := context.Background()
	followRepo, profileRepo, _, service := newRelationshipFixture()

	followRepo.On("ListFollowers", ctx, "me").Return([]string{"c", "a", "gone", "b"}, nil)
	profileRepo.On("GetByIDs", ctx, []string{"c", "a", "gone", "b"}).Return(map[string]entity.Profile{
		"a": {ID: "a"},
		"b": {ID: "b"},
		"c": {ID: "c"},
	}, nil)

	// Act
	profiles, err := service.FollowerProfiles(ctx, "me")

	// Assert
	require.NoError(t, err)
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestRelationshipService_Counts(t *testing.T) {
	ctx := context.Background()
	followRepo, _, _, service := newRelationshipFixture()

	followRepo.On("CountFollowers", ctx, "me").Return(12, nil)
	followRepo.On("CountFollowees", ctx, "me").Return(3, nil)

	counts, err := service.Counts(ctx, "me")

	require.NoError(t, err)
	assert.Equal(t, &entity.FollowCounts{Followers: 12, Following: 3}, counts)
}

func TestRelationshipService_Followees_Error(t *testing.T) {
	ctx := context.Background()
	followRepo, _, _, service := newRelationshipFixture()

	followRepo.On("ListFollowees", ctx, "me").Return(nil, errors.New("db down"))

	_, err := service.FollowingProfiles(ctx, "me")

	assert.Error(t, err)
}
