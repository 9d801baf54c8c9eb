package infrastructure

import (
	"context"
	"io"
)

// MessagePublisher - отправка доменных событий в очередь (Kafka)
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// ObjectStorage - загрузка медиа в объектное хранилище с получением публичного URL
type ObjectStorage interface {
	Upload(ctx context.Context, path string, contentType string, body io.Reader) (string, error)
}
