package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/api/http"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/api/http/handlers"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/auth"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/config"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/events"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/observability"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/persistence"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/service"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/worker"
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

	store, err := newStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to init snapshot store", zap.Error(err))
	}
	defer store.Close()

	records := persistence.NewRecords(store)
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(dispatcher, logger)

	authService := service.NewAuthService(cfg.Auth, records, dispatcher)
	ticketService := service.NewTicketService(records, dispatcher)
	authMiddleware := auth.NewMiddleware(authService)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, store),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
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

// newStore selects the snapshot backend from STORE_DRIVER.
func newStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (persistence.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverRedis:
		return persistence.NewRedisStore(cfg.Redis, cfg.Store.SnapshotKey, logger), nil
	case config.StoreDriverPostgres:
		return persistence.NewPostgresStore(ctx, cfg.Postgres, cfg.Store.SnapshotKey, logger)
	case config.StoreDriverMemory:
		return persistence.NewMemoryStore(), nil
	default:
		return persistence.NewFileStore(cfg.Store.FilePath, logger), nil
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
