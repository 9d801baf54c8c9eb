package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"signalidea/pkg/logger"
	"signalidea/pkg/metrics"
)

const serviceName = "social-service"

// Handlers - все HTTP обработчики сервиса
type Handlers struct {
	Auth          *AuthHandler
	Profiles      *ProfileHandler
	Ideas         *IdeaHandler
	Feed          *FeedHandler
	Reviews       *ReviewHandler
	Notifications *NotificationHandler
	Messages      *MessageHandler
	Jobs          *JobHandler
	Media         *MediaHandler
}

// SetupRoutes настраивает все маршруты приложения с использованием Gin
func SetupRoutes(h Handlers, authMiddleware *AuthMiddleware, corsOrigins []string) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов (ELK Stack)
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware(serviceName))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	required := authMiddleware.Authenticate()
	optional := authMiddleware.OptionalAuthenticate()

	// Аутентификация
	auth := router.Group("/auth")
	{
		auth.POST("/signup", h.Auth.SignUp)
		auth.POST("/login", h.Auth.SignIn)
		auth.POST("/refresh", h.Auth.Refresh)

		protected := auth.Group("")
		protected.Use(required)
		{
			protected.GET("/session", h.Auth.GetSession)
			protected.GET("/user", h.Auth.GetUser)
			protected.PATCH("/user", h.Auth.UpdateUser)
			protected.POST("/logout", h.Auth.SignOut)
		}
	}

	// Лента discover: без сессии пустая
	router.GET("/feed/discover", optional, authMiddleware.LatestOnly("feed"), h.Feed.Discover)

	// Профили и подписки
	profiles := router.Group("/profiles")
	{
		profiles.GET("/search", optional, authMiddleware.LatestOnly("profile-search"), h.Profiles.Search)
		profiles.PATCH("/me", required, h.Profiles.UpdateMe)
		profiles.PATCH("/me/review-settings", required, h.Profiles.UpdateReviewSettings)

		profiles.GET("/:id", optional, h.Profiles.GetProfile)
		profiles.POST("/:id/follow", required, h.Profiles.Follow)
		profiles.DELETE("/:id/follow", required, h.Profiles.Unfollow)
		profiles.GET("/:id/followers", h.Profiles.Followers)
		profiles.GET("/:id/following", h.Profiles.Following)

		profiles.GET("/:id/ideas", h.Ideas.ListByUser)
		profiles.GET("/:id/reviews", optional, authMiddleware.LatestOnly("profile-reviews"), h.Reviews.ListForSubject)
		profiles.GET("/:id/reviews/summary", h.Reviews.Summary)
		profiles.GET("/:id/jobs", h.Jobs.ListByBusiness)
	}

	// Идеи, обновления и сигналы
	ideas := router.Group("/ideas")
	{
		ideas.POST("", required, h.Ideas.Create)
		ideas.GET("/:id", optional, h.Ideas.Get)
		ideas.POST("/:id/updates", required, h.Ideas.PostUpdate)
		ideas.GET("/:id/updates", h.Ideas.ListUpdates)
		ideas.POST("/:id/signal", required, h.Ideas.GiveSignal)
		ideas.DELETE("/:id/signal", required, h.Ideas.WithdrawSignal)
	}

	// Отзывы
	reviews := router.Group("/reviews")
	{
		reviews.GET("/eligibility", optional, h.Reviews.Eligibility)
		reviews.GET("/subjects", required, authMiddleware.LatestOnly("review-subjects"), h.Reviews.SearchSubjects)
		reviews.POST("", required, h.Reviews.Submit)
	}

	// Уведомления
	notifications := router.Group("/notifications")
	notifications.Use(required)
	{
		notifications.GET("", h.Notifications.List)
		notifications.GET("/unread-count", h.Notifications.UnreadCount)
	}

	// Личные сообщения
	messages := router.Group("/messages")
	messages.Use(required)
	{
		messages.POST("", h.Messages.Send)
		messages.GET("/inbox", h.Messages.Inbox)
		messages.GET("/with/:id", authMiddleware.LatestOnly("conversation"), h.Messages.Conversation)
		messages.POST("/:id/read", h.Messages.MarkRead)
		messages.GET("/unread-count", h.Messages.UnreadCount)
	}

	// Вакансии
	jobs := router.Group("/jobs")
	{
		jobs.GET("", h.Jobs.ListOpen)
		jobs.POST("", required, h.Jobs.Create)
		jobs.POST("/:id/close", required, h.Jobs.Close)
	}

	// Медиа
	router.POST("/media", required, h.Media.Upload)

	return router
}
