package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/havenly/property-service/internal/api/http"
	"github.com/havenly/property-service/internal/api/http/handlers"
	"github.com/havenly/property-service/internal/auth"
	"github.com/havenly/property-service/internal/config"
	"github.com/havenly/property-service/internal/events"
	"github.com/havenly/property-service/internal/objectstore"
	"github.com/havenly/property-service/internal/observability"
	"github.com/havenly/property-service/internal/persistence"
	"github.com/havenly/property-service/internal/realtime"
	"github.com/havenly/property-service/internal/repository"
	"github.com/havenly/property-service/internal/service"
	"github.com/havenly/property-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	store, err := objectstore.NewClient(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("failed to init object storage", zap.Error(err))
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	propertyRepo := repository.NewPropertyRepository(pool)
	documentRepo := repository.NewDocumentRepository(pool)
	transferTokenRepo := repository.NewTransferTokenRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	feed := realtime.NewFeed(redis, cfg.Documents.RealtimeChannel, logger)
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(*cfg, userRepo)
	handoffService := service.NewHandoffService(cfg.Handoff, service.HandoffDependencies{
		TokenRepo:    transferTokenRepo,
		UserRepo:     userRepo,
		TokenManager: authService.TokenManager(),
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	propertyService := service.NewPropertyService(propertyRepo, dispatcher)
	documentService := service.NewDocumentService(service.DocumentDependencies{
		DocumentRepo: documentRepo,
		Presigner:    store,
		Feed:         feed,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	notificationService := service.NewNotificationService(dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Handoff:        handlers.NewHandoffHandler(handoffService, logger),
		Properties:     handlers.NewPropertiesHandler(propertyService),
		Documents:      handlers.NewDocumentsHandler(documentService, cfg.Documents.StatusCallbackToken),
		Maintenance:    handlers.NewMaintenanceHandler(handoffService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
