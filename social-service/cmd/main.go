package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"signalidea/pkg/logger"
	"signalidea/social-service/internal/app/social/config"
	"signalidea/social-service/internal/app/social/handler"
	"signalidea/social-service/internal/app/social/infrastructure/messaging"
	"signalidea/social-service/internal/app/social/infrastructure/storage"
	"signalidea/social-service/internal/app/social/migrations"
	"signalidea/social-service/internal/app/social/repository"
	"signalidea/social-service/internal/app/social/service"
	"signalidea/social-service/internal/app/social/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init("social-service", cfg.Log.Level)

	if cfg.Log.LogstashAddr != "" {
		if err := logger.InitLogstash(cfg.Log.LogstashAddr, "social-service", cfg.Log.Level); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", cfg.Log.LogstashAddr).Msg("Connected to Logstash")
		}
	}

	ctx := context.Background()

	// PostgreSQL: миграции, затем пул pgx
	if err := migrations.Up(ctx, cfg.Database.DSN()); err != nil {
		logger.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	pool, err := connectDB(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Str("database", cfg.Database.DBName).Msg("Connected to PostgreSQL")

	// GORM поверх той же базы для вакансий
	gormDB, err := connectGorm(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open GORM connection")
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}

	redisClient := connectRedis(cfg.Redis)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")

	mongoClient, err := connectMongoDB(cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()
	logger.Info().Str("database", cfg.MongoDB.Database).Msg("Connected to MongoDB")

	kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().Str("topic", cfg.Kafka.Topic).Msg("Initialized Kafka producer")

	objectStorage, err := storage.NewSupabaseStorage(cfg.Storage.URL, cfg.Storage.APIKey, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize object storage")
	}

	// Репозитории
	userRepo := repository.NewUserRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	ideaRepo := repository.NewIdeaRepository(pool)
	signalRepo := repository.NewSignalRepository(pool)
	followRepo := repository.NewFollowRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	tokenRepo := repository.NewRedisTokenRepository(redisClient)
	messageRepo := repository.NewMessageRepository(mongoClient.Database(cfg.MongoDB.Database))
	jobRepo := repository.NewJobListingRepository(gormDB)

	// Сервисы
	jwtManager := util.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.AccessTokenDuration, cfg.JWT.RefreshTokenDuration)
	sessionService := service.NewSessionService(userRepo, profileRepo, tokenRepo, jwtManager)

	tracker := service.NewRequestTracker()
	unsubscribe := sessionService.Subscribe(tracker.OnAuthEvent)
	defer unsubscribe()

	relationshipService := service.NewRelationshipService(followRepo, profileRepo, kafkaProducer)
	reviewService := service.NewReviewService(reviewRepo, profileRepo, kafkaProducer)
	profileService := service.NewProfileService(profileRepo, followRepo, ideaRepo, signalRepo, reviewService)
	ideaService := service.NewIdeaService(ideaRepo, signalRepo, kafkaProducer)
	feedService := service.NewFeedService(ideaRepo, profileRepo, cfg.Feed.DefaultLimit, cfg.Feed.MaxLimit)
	notificationService := service.NewNotificationService(notificationRepo, profileRepo, ideaRepo)
	messageService := service.NewMessageService(messageRepo, profileRepo, kafkaProducer)
	jobService := service.NewJobService(jobRepo)
	mediaService := service.NewMediaService(objectStorage, profileService, cfg.Storage.MaxFileBytes)

	// HTTP
	authMiddleware := handler.NewAuthMiddleware(sessionService, tracker)
	router := handler.SetupRoutes(handler.Handlers{
		Auth:          handler.NewAuthHandler(sessionService),
		Profiles:      handler.NewProfileHandler(profileService, relationshipService),
		Ideas:         handler.NewIdeaHandler(ideaService),
		Feed:          handler.NewFeedHandler(feedService),
		Reviews:       handler.NewReviewHandler(reviewService),
		Notifications: handler.NewNotificationHandler(notificationService),
		Messages:      handler.NewMessageHandler(messageService),
		Jobs:          handler.NewJobHandler(jobService),
		Media:         handler.NewMediaHandler(mediaService),
	}, authMiddleware, cfg.Server.CorsOrigins)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // загрузка медиа
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Social Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Social Service...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Social Service stopped gracefully")
}

func connectDB(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = 1 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	var pool *pgxpool.Pool
	for i := 0; i < 10; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		logger.Warn().Int("attempt", i+1).Err(err).Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}

func connectGorm(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func connectRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})
}

func connectMongoDB(cfg config.MongoDBConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var client *mongo.Client
	var err error

	for i := 0; i < 10; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err = mongo.Connect(ctx, clientOptions)
		cancel()
		if err == nil {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
			err = client.Ping(pingCtx, nil)
			pingCancel()
			if err == nil {
				return client, nil
			}
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}
