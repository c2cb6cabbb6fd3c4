package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/field-service/internal/api/http"
	"github.com/spec-kit/field-service/internal/api/http/handlers"
	"github.com/spec-kit/field-service/internal/auth"
	"github.com/spec-kit/field-service/internal/config"
	"github.com/spec-kit/field-service/internal/events"
	"github.com/spec-kit/field-service/internal/observability"
	"github.com/spec-kit/field-service/internal/persistence"
	"github.com/spec-kit/field-service/internal/repository"
	"github.com/spec-kit/field-service/internal/service"
	"github.com/spec-kit/field-service/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and seed data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context())
		},
	}
	root := &cobra.Command{
		Use:           "field-service",
		Short:         "Field service technician API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.AddCommand(serve, migrate)
	return root
}

func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}

func runMigrate(ctx context.Context) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	pg, err := persistence.NewPostgres(cfg.Postgres, logger)
	if err != nil {
		return err
	}
	if !pg.Configured() {
		return fmt.Errorf("POSTGRES_DSN is required to run migrations")
	}
	return persistence.RunMigrations(ctx, pg, logger)
}

func runServe(ctx context.Context) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()

	pg, err := persistence.NewPostgres(cfg.Postgres, logger)
	if err != nil {
		return err
	}
	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	db := repository.NewResilient(pg, logger, metrics)
	technicianRepo := repository.NewTechnicianRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	partsRequestRepo := repository.NewPartsRequestRepository(redis, db)
	otpRepo := repository.NewOTPRepository(redis, db)

	credentials, err := auth.NewCredentials(cfg.Auth.DemoUsername, cfg.Auth.DemoPassword, cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash demo credentials: %w", err)
	}
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		TechnicianRepo: technicianRepo,
		OTPRepo:        otpRepo,
		Tokens:         tokens,
		Credentials:    credentials,
		Logger:         logger,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
		Clock:      service.SystemClock,
	})
	notificationService := service.NewNotificationService(cfg.Notification, service.NotificationDependencies{
		NotificationRepo: notificationRepo,
		Dispatcher:       dispatcher,
		Logger:           logger,
		Clock:            service.SystemClock,
	})
	dashboardService := service.NewDashboardService(service.DashboardDependencies{
		TechnicianRepo:   technicianRepo,
		TicketRepo:       ticketRepo,
		NotificationRepo: notificationRepo,
		Clock:            service.SystemClock,
	})
	inventoryService := service.NewInventoryService(service.InventoryDependencies{
		InventoryRepo:    inventoryRepo,
		PartsRequestRepo: partsRequestRepo,
		Dispatcher:       dispatcher,
		Logger:           logger,
		Clock:            service.SystemClock,
	})
	worker.StartNotificationWorker(notificationService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Schedule:       handlers.NewScheduleHandler(service.NewScheduleService(ticketRepo, service.SystemClock)),
		Profile:        handlers.NewProfileHandler(service.NewProfileService(technicianRepo, ticketRepo, service.SystemClock)),
		Reports:        handlers.NewReportsHandler(service.NewReportService(ticketRepo, service.SystemClock)),
		Inventory:      handlers.NewInventoryHandler(inventoryService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		Metrics:        metrics,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.Bool("storage_configured", pg.Configured()))
		errCh <- app.Listen(cfg.App.Addr())
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("fiber listen: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down")
	}
	return app.Shutdown()
}
