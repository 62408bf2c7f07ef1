// Package main is the entry point for the qayeem-service API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"qayeem-service/internal/app/service"
	"qayeem-service/internal/config"
	"qayeem-service/internal/domain"
	"qayeem-service/internal/infra/catalog"
	"qayeem-service/internal/infra/postgres"
	"qayeem-service/internal/infra/postgres/migrations"
	rediscache "qayeem-service/internal/infra/redis"
	"qayeem-service/internal/job"
	"qayeem-service/internal/logger"
	"qayeem-service/internal/transport/httpserver"
	"qayeem-service/internal/validator"
	"qayeem-service/pkg/locker"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(
		logger.Config{
			Level:  cfg.Logger.Level,
			Format: cfg.Logger.Format,
			Output: cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting qayeem-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
	)

	// Connect to database
	db, err := postgres.NewConnection(
		postgres.Config{
			Host:         cfg.Database.Host,
			Port:         cfg.Database.Port,
			Name:         cfg.Database.Name,
			User:         cfg.Database.User,
			Password:     cfg.Database.Password,
			SSLMode:      cfg.Database.SSLMode,
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
			MaxLifetime:  cfg.Database.MaxLifetime,
		},
		log.Logger,
	)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = postgres.Close(db) }()

	// Run migrations
	if err := migrations.Run(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("database migrations completed")

	// Create repositories
	bookRepo := postgres.NewBookRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	evaluationRepo := postgres.NewEvaluationRepository(db)
	ratingRepo := postgres.NewRatingRepository(db)
	linkRepo := postgres.NewLinkRepository(db)
	settingRepo := postgres.NewSettingRepository(db)
	couponRepo := postgres.NewCouponRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	progressRepo := postgres.NewProgressRepository(db)

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Ping Redis to verify connection
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()
	log.Info("connected to Redis",
		zap.String("host", cfg.Redis.Host),
		zap.Int("port", cfg.Redis.Port),
	)

	// Create cache implementation (optional, based on config)
	var cache domain.Cache
	if cfg.Cache.Enabled {
		cache = rediscache.NewCache(redisClient, log.Logger, cfg.Cache.KeyPrefix)
		log.Info("cache enabled",
			zap.Duration("catalog_ttl", cfg.Cache.CatalogTTL),
			zap.String("key_prefix", cfg.Cache.KeyPrefix),
		)
	} else {
		log.Info("cache disabled")
	}

	// Create distributed locker
	distLocker := locker.NewRedisLocker(redisClient, log.Logger)

	// Create the external metadata client (optional, based on config)
	var metadataProvider domain.MetadataProvider
	if cfg.Catalog.Enabled {
		metadataProvider = catalog.New(
			catalog.ClientConfig{
				BaseURL: cfg.Catalog.BaseURL,
				Timeout: cfg.Catalog.Timeout,
				Retry: catalog.RetryConfig{
					MaxAttempts: cfg.Catalog.Retry.MaxAttempts,
					WaitTime:    cfg.Catalog.Retry.WaitTime,
					MaxWaitTime: cfg.Catalog.Retry.MaxWaitTime,
				},
				CB: catalog.CBConfig{
					MaxRequests:  cfg.Catalog.CB.MaxRequests,
					Interval:     cfg.Catalog.CB.Interval,
					Timeout:      cfg.Catalog.CB.Timeout,
					FailureRatio: cfg.Catalog.CB.FailureRatio,
				},
			},
			log.Logger,
		)
	}

	// Create services
	recommendationSvc := service.NewRecommendationService(bookRepo, linkRepo, ratingRepo, settingRepo, cache, log.Logger)
	ratingSvc := service.NewRatingService(evaluationRepo, ratingRepo, recommendationSvc, log.Logger)
	bookSvc := service.NewBookService(bookRepo, reviewRepo, cache, log.Logger)
	evaluationSvc := service.NewEvaluationService(evaluationRepo, linkRepo, bookRepo, cache, log.Logger)
	paymentSvc := service.NewPaymentService(bookRepo, linkRepo, ratingRepo, couponRepo, paymentRepo, settingRepo, distLocker, log.Logger)
	couponSvc := service.NewCouponService(couponRepo, log.Logger)
	progressSvc := service.NewProgressService(progressRepo, bookRepo, log.Logger)
	settingSvc := service.NewSettingService(settingRepo, cache, log.Logger)

	var catalogSyncSvc *service.CatalogSyncService
	if metadataProvider != nil {
		catalogSyncSvc = service.NewCatalogSyncService(bookRepo, metadataProvider, cfg.Maintenance.BatchSize, log.Logger)
	}

	// Create validator
	v := validator.New()

	// Create HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:      cfg.App.Port,
			BodyLimit: cfg.App.BodyLimit,
			JWTSecret: cfg.Auth.JWTSecret,
		},
		httpserver.Services{
			Books:           bookSvc,
			Evaluations:     evaluationSvc,
			Ratings:         ratingSvc,
			Recommendations: recommendationSvc,
			Payments:        paymentSvc,
			Coupons:         couponSvc,
			Progress:        progressSvc,
			Settings:        settingSvc,
			CatalogSync:     catalogSyncSvc,
		},
		db,
		v,
		log.Logger,
	)

	// Start maintenance scheduler with distributed locking
	scheduler := job.NewMaintenanceScheduler(
		couponSvc,
		catalogSyncSvc,
		job.MaintenanceConfig{
			Interval:  cfg.Maintenance.Interval,
			Timeout:   cfg.Maintenance.Timeout,
			OnStartup: cfg.Maintenance.OnStartup,
		},
		log.Logger,
		distLocker,
	)
	scheduler.Start(cfg.Maintenance.OnStartup)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		// Stop scheduler
		scheduler.Stop()

		// Shutdown server with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	// Start server
	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
