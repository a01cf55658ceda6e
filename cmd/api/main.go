package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httptransport "github.com/wmachadoc/Abertura-de-tickets/internal/api/http"
	"github.com/wmachadoc/Abertura-de-tickets/internal/api/http/handlers"
	"github.com/wmachadoc/Abertura-de-tickets/internal/auth"
	"github.com/wmachadoc/Abertura-de-tickets/internal/config"
	"github.com/wmachadoc/Abertura-de-tickets/internal/events"
	"github.com/wmachadoc/Abertura-de-tickets/internal/observability"
	"github.com/wmachadoc/Abertura-de-tickets/internal/service"
	"github.com/wmachadoc/Abertura-de-tickets/internal/store"
	storecache "github.com/wmachadoc/Abertura-de-tickets/internal/store/cache"
	"github.com/wmachadoc/Abertura-de-tickets/internal/store/memory"
	"github.com/wmachadoc/Abertura-de-tickets/internal/store/postgres"
	"github.com/wmachadoc/Abertura-de-tickets/internal/store/sheets"
	"github.com/wmachadoc/Abertura-de-tickets/internal/worker"
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

	ruleStore, cleanup, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to init store", zap.Error(err))
	}
	defer cleanup()

	dispatcher := events.NewInMemoryDispatcher(logger)
	notifier := worker.NewNotificationWorker(cfg.Notification.WebhookURL, logger)
	notifier.Register(dispatcher)

	ticketService := service.NewTicketService(service.TicketDependencies{
		Store:              ruleStore,
		Dispatcher:         dispatcher,
		AutoCloseTimestamp: cfg.Tickets.AutoCloseTimestamp,
	})
	authService := service.NewAuthService(*cfg, ruleStore)
	directoryService := service.NewDirectoryService(ruleStore)
	reportService := service.NewReportService(ticketService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), authService)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(),
		Auth:           handlers.NewAuthHandler(authService),
		Clients:        handlers.NewClientsHandler(directoryService, ticketService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Reports:        handlers.NewReportsHandler(reportService),
		Admin:          handlers.NewAdminHandler(directoryService),
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

// buildStore selects the backend and optionally wraps it with the Redis
// table cache.
func buildStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store.Store, func(), error) {
	var (
		backing store.Store
		cleanup = func() {}
	)

	switch cfg.Store.Backend {
	case config.BackendMemory:
		logger.Info("using in-memory store with seed dataset")
		backing = memory.NewWithDataset(memory.SeedDataset())
	case config.BackendSheets:
		logger.Info("using sheets store", zap.String("spreadsheet_id", cfg.Store.SpreadsheetID))
		backing = sheets.New(cfg.Store.ScriptURL, cfg.Store.RequestTimeout(), logger)
	case config.BackendPostgres:
		pool, err := postgres.Connect(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := postgres.RunMigrations(ctx, pool, logger); err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		backing = postgres.New(pool)
		cleanup = pool.Close
	}

	if cfg.Redis.Addr == "" {
		return backing, cleanup, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable; table cache disabled", zap.Error(err))
		_ = client.Close()
		return backing, cleanup, nil
	}
	logger.Info("table cache enabled", zap.Duration("ttl", cfg.Redis.CacheTTL()))

	innerCleanup := cleanup
	cleanup = func() {
		_ = client.Close()
		innerCleanup()
	}
	return storecache.New(backing, client, cfg.Redis.CacheTTL(), logger), cleanup, nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
