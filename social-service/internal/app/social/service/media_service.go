package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"signalidea/pkg/logger"
	"signalidea/pkg/metrics"
	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/infrastructure"

	"github.com/google/uuid"
)

// MediaService загружает аватары и медиа идей в объектное хранилище
type MediaService struct {
	storage      infrastructure.ObjectStorage
	profiles     *ProfileService
	maxFileBytes int64
}

func NewMediaService(storage infrastructure.ObjectStorage, profiles *ProfileService, maxFileBytes int64) *MediaService {
	return &MediaService{
		storage:      storage,
		profiles:     profiles,
		maxFileBytes: maxFileBytes,
	}
}

// MaxFileBytes - предел размера одного файла
func (s *MediaService) MaxFileBytes() int64 {
	return s.maxFileBytes
}

// Upload кладет файл в avatars/<owner>/ или ideas/<owner>/ и возвращает публичный URL.
// Загрузка аватара сразу обновляет фото профиля.
func (s *MediaService) Upload(ctx context.Context, ownerID string, kind entity.MediaKind, filename, contentType string, size int64, body io.Reader) (*entity.UploadResult, error) {
	if ownerID == "" {
		return nil, ErrAuthRequired
	}

	prefix, err := mediaPrefix(kind, contentType)
	if err != nil {
		metrics.StorageUploads.WithLabelValues(string(kind), "rejected").Inc()
		return nil, err
	}
	if size > s.maxFileBytes {
		metrics.StorageUploads.WithLabelValues(string(kind), "rejected").Inc()
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, s.maxFileBytes)
	}

	path := fmt.Sprintf("%s/%s/%s%s", prefix, ownerID, uuid.NewString(), strings.ToLower(filepath.Ext(filename)))

	// тело ограничено на случай, если заявленный размер занижен
	url, err := s.storage.Upload(ctx, path, contentType, io.LimitReader(body, s.maxFileBytes+1))
	if err != nil {
		metrics.StorageUploads.WithLabelValues(string(kind), "failed").Inc()
		logger.Ctx(ctx).Error().Err(err).Str("path", path).Msg("Media upload failed")
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	metrics.StorageUploads.WithLabelValues(string(kind), "success").Inc()

	if kind == entity.MediaAvatar {
		if err := s.profiles.SetAvatar(ctx, ownerID, url); err != nil {
			return nil, fmt.Errorf("failed to set avatar: %w", err)
		}
	}

	return &entity.UploadResult{URL: url, Path: path, Kind: kind}, nil
}

func mediaPrefix(kind entity.MediaKind, contentType string) (string, error) {
	isImage := strings.HasPrefix(contentType, "image/")
	isVideo := strings.HasPrefix(contentType, "video/")

	switch kind {
	case entity.MediaAvatar:
		if !isImage {
			return "", fmt.Errorf("%w: avatar must be an image", ErrUnsupportedMedia)
		}
		return "avatars", nil
	case entity.MediaIdea:
		if !isImage && !isVideo {
			return "", fmt.Errorf("%w: only images and videos are allowed", ErrUnsupportedMedia)
		}
		return "ideas", nil
	default:
		return "", fmt.Errorf("%w: unknown media kind %q", ErrValidation, kind)
	}
}
