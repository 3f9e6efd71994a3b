package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/Ash-the-k/uhi-hackathon/internal/api/http"
	"github.com/Ash-the-k/uhi-hackathon/internal/api/http/handlers"
	"github.com/Ash-the-k/uhi-hackathon/internal/auth"
	"github.com/Ash-the-k/uhi-hackathon/internal/config"
	"github.com/Ash-the-k/uhi-hackathon/internal/events"
	"github.com/Ash-the-k/uhi-hackathon/internal/observability"
	"github.com/Ash-the-k/uhi-hackathon/internal/persistence"
	"github.com/Ash-the-k/uhi-hackathon/internal/repository"
	"github.com/Ash-the-k/uhi-hackathon/internal/service"
	"github.com/Ash-the-k/uhi-hackathon/internal/worker"
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

	var users repository.UserRepository = repository.NewUserRepository(pg.PoolHandle())
	if cache := redis.IdentityCache(); cache != nil {
		users = repository.NewCachedUserRepository(users, cache, cfg.Redis.IdentityCacheTTL(), logger)
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	authService := service.NewAuthService(cfg.Auth, users, dispatcher)
	authMiddleware := auth.NewMiddleware(authService.TokenManager(), users, dispatcher, logger)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Dashboard:      handlers.NewDashboardHandler(),
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
