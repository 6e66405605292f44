package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	predictioncache "github.com/ressKim-io/BullyGuard/internal/adapter/cache"
	"github.com/ressKim-io/BullyGuard/internal/adapter/client"
	"github.com/ressKim-io/BullyGuard/internal/adapter/event"
	"github.com/ressKim-io/BullyGuard/internal/adapter/http/router"
	"github.com/ressKim-io/BullyGuard/internal/adapter/repository/memory"
	"github.com/ressKim-io/BullyGuard/internal/adapter/repository/postgres"
	"github.com/ressKim-io/BullyGuard/internal/domain/repository"
	"github.com/ressKim-io/BullyGuard/internal/domain/service"
	"github.com/ressKim-io/BullyGuard/internal/infrastructure/artifact"
	"github.com/ressKim-io/BullyGuard/internal/infrastructure/cache"
	"github.com/ressKim-io/BullyGuard/internal/infrastructure/config"
	"github.com/ressKim-io/BullyGuard/internal/infrastructure/database"
	"github.com/ressKim-io/BullyGuard/internal/infrastructure/logger"
	"github.com/ressKim-io/BullyGuard/internal/usecase"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// configPath reads BULLYGUARD_CONFIG, falling back to ./config.yaml
func configPath() string {
	if p := os.Getenv("BULLYGUARD_CONFIG"); p != "" {
		return p
	}
	return "config.yaml"
}

func run() error {
	// Load configuration
	cfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	gin.SetMode(cfg.Server.Mode)

	// The artifact must be valid before anything listens
	model, err := artifact.Load(cfg.Model.Dir)
	if err != nil {
		return fmt.Errorf("failed to load model artifact: %w", err)
	}
	log.Info("Model artifact loaded",
		zap.String("dir", model.Dir),
		zap.String("model_type", model.ModelType),
		zap.Strings("labels", labelNames(model)),
		zap.String("fingerprint", model.Fingerprint),
	)

	// Storage
	var (
		db        *gorm.DB
		tweetRepo repository.TweetRepository
	)
	if cfg.Database.UseInMemory {
		log.Warn("Using in-memory tweet storage, data is lost on restart")
		tweetRepo = memory.NewTweetRepository()
	} else {
		db, err = database.NewPostgresDB(&cfg.Database, log)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() { _ = database.Close(db) }()
		log.Info("Connected to database")

		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("Database migrations completed")
		tweetRepo = postgres.NewTweetRepository(db)
	}

	// Inference
	mlClient := client.NewMLClient(cfg.ML.BaseURL, cfg.ML.Timeout)
	var classifier service.Classifier = client.NewMLClassifier(mlClient, model.Labels, cfg.Model.MaxLength)

	// Redis is optional, continue without the cache
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn("Failed to connect to Redis, continuing without cache", zap.Error(err))
			redisClient = nil
		} else {
			defer func() { _ = redisClient.Close() }()
			log.Info("Connected to Redis")
			classifier = predictioncache.NewCachedClassifier(classifier, redisClient, cfg.Redis.TTL, model.Fingerprint, log)
		}
	}

	// Label events
	var publisher service.LabelPublisher
	if cfg.Kafka.Enabled {
		kp := event.NewKafkaPublisher(&cfg.Kafka, log)
		defer func() {
			if err := kp.Close(); err != nil {
				log.Warn("Failed to close kafka publisher", zap.Error(err))
			}
		}()
		publisher = kp
		log.Info("Publishing label events", zap.String("topic", cfg.Kafka.Topic))
	}

	detectionUC := usecase.NewDetectionUsecase(classifier, tweetRepo, publisher, log)

	r := router.Setup(router.Deps{
		DetectionUC:      detectionUC,
		DB:               db,
		Redis:            redisClient,
		Model:            mlClient,
		ExposeConfidence: cfg.API.ExposeConfidence,
		Logger:           log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Starting server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown", zap.Error(err))
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("Server exited")
	return nil
}

func labelNames(m *artifact.Model) []string {
	names := make([]string, len(m.Labels))
	for i, l := range m.Labels {
		names[i] = l.String()
	}
	return names
}
