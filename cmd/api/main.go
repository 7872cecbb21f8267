package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/po-composer/internal/application/service"
	"github.com/sangkips/po-composer/internal/config"
	domainRepo "github.com/sangkips/po-composer/internal/domain/repository"
	"github.com/sangkips/po-composer/internal/infrastructure/backend"
	"github.com/sangkips/po-composer/internal/infrastructure/cache"
	"github.com/sangkips/po-composer/internal/infrastructure/database"
	"github.com/sangkips/po-composer/internal/infrastructure/repository"
	"github.com/sangkips/po-composer/internal/presentation/http/handler"
	"github.com/sangkips/po-composer/internal/presentation/http/routes"
	"github.com/sangkips/po-composer/pkg/utils"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger := config.NewLogger(&cfg.Log)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Snapshot storage and submission latch
	snapshots, latch, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).WithField("driver", cfg.Storage.Driver).Fatal("Failed to open draft storage")
	}
	defer closeStorage()

	backendClient := backend.NewClient(&cfg.Backend, logger)
	jwtManager := utils.NewJWTManager(cfg.Session.Secret, cfg.Session.Expiry)

	// Initialize services
	submissionService := service.NewSubmissionService(backendClient, latch, logger)
	orderService := service.NewOrderService(backendClient)
	sessions := service.NewSessionManager(service.SessionConfig{
		AutosaveInterval: cfg.Draft.AutosaveInterval,
		IdleTTL:          cfg.Session.IdleTTL,
		CleanupInterval:  cfg.Session.CleanupInterval,
		KeyPrefix:        cfg.Draft.StorageKey,
	}, snapshots, backendClient, backendClient, submissionService, jwtManager, logger)
	sessions.Start()

	// Initialize handlers
	handlers := &routes.Handlers{
		Session: handler.NewSessionHandler(sessions),
		Draft:   handler.NewDraftHandler(),
		Catalog: handler.NewCatalogHandler(),
		Order:   handler.NewOrderHandler(orderService),
	}

	// Setup routes
	router, stopRoutes := routes.Setup(handlers, &routes.Deps{
		Cfg:      cfg,
		Sessions: sessions,
		Logger:   logger,
	})
	defer stopRoutes()

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":    port,
			"env":     cfg.App.Env,
			"storage": cfg.Storage.Driver,
		}).Infof("Starting %s server", cfg.App.Name)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("HTTP server shutdown")
	}
	// Flush unsaved drafts after the last request has finished.
	sessions.Shutdown(shutdownCtx)
}

// openStorage builds the snapshot repository and submission latch for the
// configured driver.
func openStorage(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (domainRepo.SnapshotRepository, domainRepo.SubmissionLatch, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db, logger); err != nil {
			return nil, nil, nil, err
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repository.NewSnapshotRepository(db), service.NewLocalSubmissionLatch(), closeDB, nil

	case config.StorageDriverRedis:
		client, err := cache.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		closeRedis := func() { _ = client.Close() }
		return cache.NewRedisSnapshotRepository(client, cfg.Redis.SnapshotTTL),
			cache.NewRedisSubmissionLatch(client, cfg.Redis.LockTTL, logger),
			closeRedis, nil

	default:
		if cfg.Storage.Driver != config.StorageDriverMemory {
			logger.WithField("driver", cfg.Storage.Driver).Warn("Unknown storage driver, using memory")
		}
		return repository.NewMemorySnapshotRepository(), service.NewLocalSubmissionLatch(), func() {}, nil
	}
}
