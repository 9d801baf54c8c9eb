package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testMaxFileBytes = 1 << 20

type mediaFixture struct {
	storage     *mocks.MockObjectStorage
	profileRepo *mocks.MockProfileRepository
	service     *MediaService
}

func newMediaFixture() *mediaFixture {
	f := &mediaFixture{
		storage:     new(mocks.MockObjectStorage),
		profileRepo: new(mocks.MockProfileRepository),
	}
	profiles := NewProfileService(f.profileRepo, nil, nil, nil, nil)
	f.service = NewMediaService(f.storage, profiles, testMaxFileBytes)
	return f
}

func TestMediaService_Upload_IdeaVideo(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newMediaFixture()

	f.storage.On("Upload", ctx, mock.MatchedBy(func(path string) bool {
		return strings.HasPrefix(path, "ideas/owner/") && strings.HasSuffix(path, ".mp4")
	}), "video/mp4", mock.Anything).Return("https://cdn.example.com/ideas/owner/x.mp4", nil)

	// Act
	result, err := f.service.Upload(ctx, "owner", entity.MediaIdea, "Demo.MP4", "video/mp4", 1024, strings.NewReader("data"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/ideas/owner/x.mp4", result.URL)
	assert.Equal(t, entity.MediaIdea, result.Kind)
	f.profileRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestMediaService_Upload_AvatarUpdatesProfile(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newMediaFixture()
	url := "https://cdn.example.com/avatars/owner/a.png"

	f.storage.On("Upload", ctx, mock.AnythingOfType("string"), "image/png", mock.Anything).Return(url, nil)
	f.profileRepo.On("GetByID", ctx, "owner").Return(&entity.Profile{ID: "owner", DisplayName: "Owner"}, nil)
	f.profileRepo.On("Update", ctx, mock.MatchedBy(func(p *entity.Profile) bool {
		return p.PhotoURL != nil && *p.PhotoURL == url
	})).Return(nil)

	// Act
	result, err := f.service.Upload(ctx, "owner", entity.MediaAvatar, "me.png", "image/png", 2048, strings.NewReader("png"))

	// Assert
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Path, "avatars/owner/"))
	f.profileRepo.AssertExpectations(t)
}

func TestMediaService_Upload_Rejections(t *testing.T) {
	tests := []struct {
		name        string
		kind        entity.MediaKind
		contentType string
		size        int64
		wantErr     error
	}{
		{"video avatar", entity.MediaAvatar, "video/mp4", 10, ErrUnsupportedMedia},
		{"pdf idea", entity.MediaIdea, "application/pdf", 10, ErrUnsupportedMedia},
		{"unknown kind", "banner", "image/png", 10, ErrValidation},
		{"too large", entity.MediaIdea, "image/jpeg", testMaxFileBytes + 1, ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMediaFixture()

			_, err := f.service.Upload(context.Background(), "owner", tt.kind, "f", tt.contentType, tt.size, strings.NewReader(""))

			assert.ErrorIs(t, err, tt.wantErr)
			f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestMediaService_Upload_StorageFailure(t *testing.T) {
	ctx := context.Background()
	f := newMediaFixture()

	f.storage.On("Upload", ctx, mock.Anything, "image/png", mock.Anything).Return("", errors.New("circuit breaker is open"))

	_, err := f.service.Upload(ctx, "owner", entity.MediaIdea, "a.png", "image/png", 10, strings.NewReader("x"))

	assert.ErrorIs(t, err, ErrStorage)
}

func TestMediaService_Upload_RequiresOwner(t *testing.T) {
	f := newMediaFixture()

	_, err := f.service.Upload(context.Background(), "", entity.MediaIdea, "a.png", "image/png", 10, strings.NewReader("x"))

	assert.ErrorIs(t, err, ErrAuthRequired)
}
