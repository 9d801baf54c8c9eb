package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP метрики (общие для обоих процессов)
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов
// Labels: service, method, route, status
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "route", "status"},
)

// HttpRequestDuration - гистограмма времени ответа
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "route"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Хранилища
// =============================================================================

// DbQueryDuration - время выполнения запросов к Postgres/Mongo
var DbQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "table"},
)

// DbErrors - ошибки базы данных
var DbErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Total number of database errors",
	},
	[]string{"service", "operation", "table"},
)

// RedisOperationDuration - время операций Redis (сессии и blacklist токенов)
var RedisOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "redis_operation_duration_seconds",
		Help:    "Duration of Redis operations in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	},
	[]string{"service", "operation"},
)

// RedisErrors - ошибки Redis
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// StorageUploads - загрузки медиа в объектное хранилище
var StorageUploads = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storage_uploads_total",
		Help: "Total number of media uploads by kind and outcome",
	},
	[]string{"kind", "status"}, // status: success, failed, rejected
)

// =============================================================================
// Kafka
// =============================================================================

var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

var KafkaMessagesConsumed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_consumed_total",
		Help: "Total number of Kafka messages consumed",
	},
	[]string{"service", "topic", "group"},
)

var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "topic"},
)

var KafkaConsumeDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_consume_duration_seconds",
		Help:    "Duration of Kafka message processing",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	},
	[]string{"service", "topic"},
)

var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"}, // operation: produce, consume
)

// =============================================================================
// Бизнес-метрики Signal Idea
// =============================================================================

// AuthSignIns - попытки входа
var AuthSignIns = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auth_sign_ins_total",
		Help: "Total number of password sign-in attempts",
	},
	[]string{"status"}, // success, failed
)

// AuthSignUps - регистрации
var AuthSignUps = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "auth_sign_ups_total",
		Help: "Total number of user sign-ups",
	},
)

// IdeasPosted - опубликованные идеи и обновления
var IdeasPosted = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ideas_posted_total",
		Help: "Total number of ideas and idea updates posted",
	},
	[]string{"kind"}, // idea, update
)

// SignalsGiven - выданные сигналы
var SignalsGiven = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "signals_given_total",
		Help: "Total number of signals given to ideas",
	},
)

// FollowChanges - подписки и отписки
var FollowChanges = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "follow_changes_total",
		Help: "Total number of follow and unfollow actions",
	},
	[]string{"action"}, // follow, unfollow
)

// ReviewsSubmitted - отзывы по категориям и исходу
var ReviewsSubmitted = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reviews_submitted_total",
		Help: "Total number of review submissions by category and outcome",
	},
	[]string{"category", "status"}, // status: created, duplicate, rejected
)

// FeedItems - размер ленты discover на запрос
var FeedItems = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "feed_discover_items",
		Help:    "Number of items returned by the discover feed",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 200},
	},
)

// FeedDegraded - лента схлопнулась в пустую из-за ошибки хранилища
var FeedDegraded = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "feed_discover_degraded_total",
		Help: "Total number of discover feed requests collapsed to empty",
	},
)

// NotificationsMaterialized - уведомления, отданные клиенту
var NotificationsMaterialized = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "notifications_materialized_total",
		Help: "Total number of notification rows materialized for display",
	},
)

// MessagesSent - отправленные личные сообщения
var MessagesSent = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "messages_sent_total",
		Help: "Total number of direct messages sent",
	},
)

// --- Notification worker ---

// WorkerNotificationsWritten - уведомления, записанные воркером
var WorkerNotificationsWritten = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "worker_notifications_written_total",
		Help: "Total number of notifications written by the worker",
	},
	[]string{"type"},
)

// WorkerEventsProcessed - обработанные доменные события
var WorkerEventsProcessed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "worker_events_processed_total",
		Help: "Total number of domain events processed by the worker",
	},
	[]string{"event_type", "status"}, // success, failed, skipped
)

// WorkerListingsExpired - вакансии, закрытые по сроку
var WorkerListingsExpired = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "worker_job_listings_expired_total",
		Help: "Total number of job listings expired by the scheduler",
	},
)
