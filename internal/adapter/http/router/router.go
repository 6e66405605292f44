package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ressKim-io/BullyGuard/internal/adapter/http/handler"
	"github.com/ressKim-io/BullyGuard/internal/adapter/http/middleware"
	"github.com/ressKim-io/BullyGuard/internal/usecase"
)

// Deps holds what the router needs. DB, Redis and Model may be nil.
type Deps struct {
	DetectionUC      usecase.DetectionUsecase
	DB               *gorm.DB
	Redis            *redis.Client
	Model            handler.ModelRuntime
	ExposeConfidence bool
	Logger           *zap.Logger
}

// Setup creates and configures the Gin router
func Setup(deps Deps) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.CORS())
	router.Use(middleware.Metrics())

	// Health endpoints
	healthHandler := handler.NewHealthHandler(deps.DB, deps.Redis, deps.Model)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	detectionHandler := handler.NewDetectionHandler(deps.DetectionUC, deps.ExposeConfidence)

	router.POST("/predict", detectionHandler.Predict)
	router.POST("/store", detectionHandler.Store)

	tweets := router.Group("/tweets")
	{
		tweets.GET("", detectionHandler.ListTweets)
		tweets.GET("/:id", detectionHandler.GetTweet)
	}

	return router
}
