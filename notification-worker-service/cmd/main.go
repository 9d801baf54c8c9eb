package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"signalidea/notification-worker-service/internal/app/worker/config"
	"signalidea/notification-worker-service/internal/app/worker/handler"
	"signalidea/notification-worker-service/internal/app/worker/processor"
	"signalidea/notification-worker-service/internal/app/worker/repository"
	"signalidea/notification-worker-service/internal/app/worker/service"
	"signalidea/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init("notification-worker", cfg.Log.Level)

	if cfg.Log.LogstashAddr != "" {
		if err := logger.InitLogstash(cfg.Log.LogstashAddr, "notification-worker", cfg.Log.Level); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		}
	}

	ctx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	// Схему создает social-service, воркер только пишет в нее
	db, err := connectDB(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to get database handle")
	}
	defer sqlDB.Close()
	logger.Info().Str("database", cfg.Database.DBName).Msg("Connected to PostgreSQL")

	// Репозитории
	notificationRepo := repository.NewNotificationRepository(db)
	audienceRepo := repository.NewAudienceRepository(db)
	listingRepo := repository.NewJobListingRepository(db)

	// Сервисы
	notificationWriter := service.NewNotificationWriter(notificationRepo, audienceRepo)
	listingExpirySvc := service.NewListingExpiryService(listingRepo)

	kafkaConsumer := processor.NewKafkaConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.Topic,
		cfg.Kafka.GroupID,
		cfg.Kafka.MinBytes,
		cfg.Kafka.MaxBytes,
		notificationWriter,
	)
	kafkaConsumer.Start(ctx)

	cronScheduler := processor.NewCronScheduler(listingExpirySvc)
	if err := cronScheduler.Start(ctx, cfg.CronSchedule.ExpireListings); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start cron scheduler")
	}

	healthHandler := handler.NewHealthCheckHandler(sqlDB, kafkaConsumer)
	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      healthHandler.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("address", cfg.Server.Address()).Msg("Starting healthcheck HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Str("group", cfg.Kafka.GroupID).
		Str("expire_schedule", cfg.CronSchedule.ExpireListings).
		Msg("Notification Worker is running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Notification Worker...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server forced to shutdown")
	}

	// сначала дожидаемся текущих задач, затем отменяем контекст
	cronScheduler.Stop()
	kafkaConsumer.Stop()
	cancelApp()

	logger.Info().Msg("Notification Worker stopped gracefully")
}

// connectDB открывает GORM соединение с повторными попытками при старте в Docker
func connectDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	var db *gorm.DB
	var err error

	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
		if err == nil {
			sqlDB, sqlErr := db.DB()
			if sqlErr != nil {
				err = sqlErr
			} else if err = sqlDB.Ping(); err == nil {
				sqlDB.SetMaxOpenConns(cfg.MaxConns)
				sqlDB.SetMaxIdleConns(cfg.MaxConns / 2)
				sqlDB.SetConnMaxLifetime(5 * time.Minute)
				sqlDB.SetConnMaxIdleTime(1 * time.Minute)
				return db, nil
			}
		}
		logger.Warn().Int("attempt", i+1).Err(err).Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}
