package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"signalidea/pkg/logger"

	"github.com/sony/gobreaker"
	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
)

var ErrStorageUnavailable = errors.New("object storage temporarily unavailable")

// bucketClient - часть storage-go клиента, которой пользуемся
type bucketClient interface {
	UploadFile(bucketID string, relativePath string, data io.Reader, fileOptions ...storage_go.FileOptions) (storage_go.FileUploadResponse, error)
	GetPublicUrl(bucketID string, filePath string, urlOptions ...storage_go.UrlOptions) storage_go.SignedUrlResponse
}

// SupabaseStorage загружает медиа в бакет Supabase Storage через circuit breaker
type SupabaseStorage struct {
	client  bucketClient
	bucket  string
	breaker *gobreaker.CircuitBreaker
}

// NewSupabaseStorage создает клиента Supabase и оборачивает хранилище в circuit breaker
func NewSupabaseStorage(url, apiKey, bucket string) (*SupabaseStorage, error) {
	client, err := supabase.NewClient(url, apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return newSupabaseStorage(client.Storage, bucket), nil
}

func newSupabaseStorage(client bucketClient, bucket string) *SupabaseStorage {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "object-storage",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})

	return &SupabaseStorage{client: client, bucket: bucket, breaker: breaker}
}

// Upload кладет файл по пути path и возвращает его публичный URL
func (s *SupabaseStorage) Upload(ctx context.Context, path string, contentType string, body io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	upsert := false
	result, err := s.breaker.Execute(func() (interface{}, error) {
		_, err := s.client.UploadFile(s.bucket, path, body, storage_go.FileOptions{
			ContentType: &contentType,
			Upsert:      &upsert,
		})
		if err != nil {
			return nil, err
		}
		return s.client.GetPublicUrl(s.bucket, path).SignedURL, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", ErrStorageUnavailable
		}
		return "", fmt.Errorf("failed to upload %s: %w", path, err)
	}

	return result.(string), nil
}
