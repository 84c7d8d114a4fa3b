package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/antelcha/itsm-playground/internal/api/http"
	"github.com/antelcha/itsm-playground/internal/api/http/handlers"
	"github.com/antelcha/itsm-playground/internal/auth"
	"github.com/antelcha/itsm-playground/internal/config"
	"github.com/antelcha/itsm-playground/internal/domain"
	"github.com/antelcha/itsm-playground/internal/events"
	"github.com/antelcha/itsm-playground/internal/observability"
	"github.com/antelcha/itsm-playground/internal/persistence"
	"github.com/antelcha/itsm-playground/internal/repository"
	"github.com/antelcha/itsm-playground/internal/service"
	"github.com/antelcha/itsm-playground/internal/worker"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	classificationRepo := repository.NewClassificationRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, userRepo)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:         ticketRepo,
		CommentRepo:        commentRepo,
		ClassificationRepo: classificationRepo,
		Dispatcher:         dispatcher,
	})
	classificationService := service.NewClassificationService(classificationRepo)
	dashboardService := service.NewDashboardService(dashboardRepo, redis.ClientHandle(), cfg.Dashboard.CacheTTL(), logger)
	dashboardService.RegisterInvalidation(dispatcher)

	notificationService := service.NewNotificationService(dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Statuses:       handlers.NewClassificationsHandler(domain.KindStatus, classificationService),
		Priorities:     handlers.NewClassificationsHandler(domain.KindPriority, classificationService),
		Categories:     handlers.NewClassificationsHandler(domain.KindCategory, classificationService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
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
