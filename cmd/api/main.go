package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/academic-support/internal/api/http"
	"github.com/spec-kit/academic-support/internal/api/http/handlers"
	"github.com/spec-kit/academic-support/internal/auth"
	"github.com/spec-kit/academic-support/internal/config"
	"github.com/spec-kit/academic-support/internal/events"
	"github.com/spec-kit/academic-support/internal/observability"
	"github.com/spec-kit/academic-support/internal/persistence"
	"github.com/spec-kit/academic-support/internal/repository"
	"github.com/spec-kit/academic-support/internal/service"
	"github.com/spec-kit/academic-support/internal/store"
	"github.com/spec-kit/academic-support/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	documents := store.NewDocumentStore(pg.PoolHandle())
	blobs := store.NewDiskBlobStore(cfg.Storage.Root, cfg.Storage.PublicBaseURL)
	ticketRepo := repository.NewTicketRepository(documents)

	sessions := auth.NewSessionStore(redis.Client)
	authService := service.NewAdminAuthService(cfg.Auth, sessions, logger)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), sessions)

	intakeService := service.NewIntakeService(service.IntakeDependencies{
		TicketRepo: ticketRepo,
		BlobStore:  blobs,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	dashboardService := service.NewDashboardService(service.DashboardDependencies{
		TicketRepo: ticketRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.Storage.MaxUploadBytes),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Intake:         handlers.NewIntakeHandler(intakeService, metrics),
		Admin:          handlers.NewAdminHandler(authService, dashboardService),
		Files:          handlers.NewFilesHandler(blobs),
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
