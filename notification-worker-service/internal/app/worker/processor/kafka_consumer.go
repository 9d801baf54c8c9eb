package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"signalidea/notification-worker-service/internal/app/worker/entity"
	"signalidea/notification-worker-service/internal/app/worker/service"
	"signalidea/pkg/logger"
	"signalidea/pkg/metrics"

	"github.com/segmentio/kafka-go"
)

const (
	serviceName   = "notification-worker"
	maxRetryDelay = 30 * time.Second
)

var errMalformedMessage = errors.New("malformed message")

// messageReader - часть kafka.Reader, которой пользуется consumer
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Stats() kafka.ReaderStats
	Close() error
}

// KafkaConsumer читает доменные события social-service и передает их writer'у
type KafkaConsumer struct {
	reader     messageReader
	writer     service.NotificationWriterInterface
	topic      string
	groupID    string
	retryDelay time.Duration
	stopChan   chan struct{}
	doneChan   chan struct{}
}

func NewKafkaConsumer(
	brokers []string,
	topic string,
	groupID string,
	minBytes int,
	maxBytes int,
	writer service.NotificationWriterInterface,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       minBytes,
		MaxBytes:       maxBytes,
		StartOffset:    kafka.LastOffset,
		CommitInterval: time.Second,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return newKafkaConsumer(reader, topic, groupID, writer)
}

func newKafkaConsumer(reader messageReader, topic, groupID string, writer service.NotificationWriterInterface) *KafkaConsumer {
	return &KafkaConsumer{
		reader:     reader,
		writer:     writer,
		topic:      topic,
		groupID:    groupID,
		retryDelay: time.Second,
		stopChan:   make(chan struct{}),
		doneChan:   make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *KafkaConsumer) Start(ctx context.Context) {
	logger.Info().Str("topic", c.topic).Str("group", c.groupID).Msg("Starting Kafka consumer")
	go c.consume(ctx)
}

// Stop дожидается выхода из цикла чтения и закрывает reader
func (c *KafkaConsumer) Stop() {
	logger.Info().Msg("Stopping Kafka consumer")
	close(c.stopChan)
	<-c.doneChan
	if err := c.reader.Close(); err != nil {
		logger.Warn().Err(err).Msg("Failed to close Kafka reader")
	}
	logger.Info().Msg("Kafka consumer stopped")
}

func (c *KafkaConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		case <-ctx.Done():
			return
		default:
		}

		readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		message, err := c.reader.FetchMessage(readCtx)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if !errors.Is(err, context.DeadlineExceeded) {
				metrics.RecordKafkaConsumeError(serviceName, c.topic)
				logger.Warn().Err(err).Msg("Error fetching message")
			}
			c.sleep()
			continue
		}

		start := time.Now()
		err = c.processWithRetry(ctx, message)
		if err != nil && !isPermanent(err) {
			// остановка посреди повторов: offset не коммитим, событие перечитается после рестарта
			return
		}
		if err != nil {
			logger.Warn().
				Err(err).
				Int64("offset", message.Offset).
				Msg("Dropping malformed event")
		}

		metrics.RecordKafkaMessageConsumed(serviceName, c.topic, c.groupID, time.Since(start))

		if err := c.reader.CommitMessages(ctx, message); err != nil {
			logger.Error().Err(err).Int64("offset", message.Offset).Msg("Error committing message")
		}
	}
}

// processWithRetry повторяет временные сбои на месте, пока событие не обработано.
// Следующее сообщение партиции не читается, так что порядок и коммиты не расходятся.
// Ошибку возвращает только для битого события или при остановке consumer'а.
func (c *KafkaConsumer) processWithRetry(ctx context.Context, message kafka.Message) error {
	delay := c.retryDelay
	for attempt := 1; ; attempt++ {
		err := c.processMessage(ctx, message)
		if err == nil || isPermanent(err) {
			return err
		}

		metrics.RecordKafkaConsumeError(serviceName, c.topic)
		logger.Error().
			Err(err).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Int64("offset", message.Offset).
			Int("partition", message.Partition).
			Msg("Error processing message, retrying")

		if !c.wait(ctx, delay) {
			return err
		}
		delay = min(delay*2, maxRetryDelay)
	}
}

func (c *KafkaConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	var event entity.DomainEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return fmt.Errorf("%w: %v", errMalformedMessage, err)
	}

	logger.Debug().
		Str("event_type", event.EventType).
		Str("actor_id", event.ActorID).
		Int64("offset", message.Offset).
		Int("partition", message.Partition).
		Msg("Received domain event")

	if err := c.writer.ProcessEvent(ctx, &event); err != nil {
		return fmt.Errorf("failed to process %s event: %w", event.EventType, err)
	}

	return nil
}

// isPermanent - повторное чтение такого сообщения ничего не изменит
func isPermanent(err error) bool {
	return errors.Is(err, errMalformedMessage) || errors.Is(err, service.ErrInvalidEvent)
}

func (c *KafkaConsumer) sleep() {
	c.wait(context.Background(), c.retryDelay)
}

// wait возвращает false, если consumer остановили раньше, чем прошла пауза
func (c *KafkaConsumer) wait(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-c.stopChan:
		return false
	case <-ctx.Done():
		return false
	}
}

func (c *KafkaConsumer) GetStats() kafka.ReaderStats {
	return c.reader.Stats()
}
