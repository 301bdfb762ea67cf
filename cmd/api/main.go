package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/approval-desk/internal/api/http"
	"github.com/spec-kit/approval-desk/internal/api/http/handlers"
	"github.com/spec-kit/approval-desk/internal/auth"
	"github.com/spec-kit/approval-desk/internal/config"
	"github.com/spec-kit/approval-desk/internal/events"
	"github.com/spec-kit/approval-desk/internal/observability"
	"github.com/spec-kit/approval-desk/internal/persistence"
	"github.com/spec-kit/approval-desk/internal/repository"
	"github.com/spec-kit/approval-desk/internal/service"
	"github.com/spec-kit/approval-desk/internal/worker"
	"github.com/spec-kit/approval-desk/internal/workflow"
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
	companyRepo := repository.NewCompanyRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	dropdownRepo := repository.NewDropdownListRepository(pool)
	ticketTypeRepo := repository.NewTicketTypeRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	profileRepo := repository.NewProfileRepository(pool)
	sequenceRepo := repository.NewSequenceRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	engine := workflow.NewEngine()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		TicketTypeRepo: ticketTypeRepo,
		CompanyRepo:    companyRepo,
		DropdownRepo:   dropdownRepo,
		HistoryRepo:    historyRepo,
		AttachmentRepo: attachmentRepo,
		SequenceRepo:   sequenceRepo,
		Engine:         engine,
		Dispatcher:     dispatcher,
	})
	ticketTypeService := service.NewTicketTypeService(ticketTypeRepo, ticketRepo)
	dropdownService := service.NewDropdownService(dropdownRepo, redis.Client, logger)
	companyService := service.NewCompanyService(companyRepo)
	roleService := service.NewRoleService(roleRepo, companyRepo)
	profileService := service.NewProfileService(*cfg, service.ProfileDependencies{
		ProfileRepo: profileRepo,
		CompanyRepo: companyRepo,
		Dispatcher:  dispatcher,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	worker.StartNotificationWorker(notificationService)

	slaWorker := worker.NewSLAWorker(ticketRepo, ticketTypeRepo, dispatcher, logger, cfg.Worker.SLAScanIntervalSeconds)
	go slaWorker.Start(ctx)

	authMiddleware := auth.NewAuthMiddleware(profileService.TokenManager(), profileService)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Profiles:       handlers.NewProfilesHandler(profileService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		TicketTypes:    handlers.NewTicketTypesHandler(ticketTypeService),
		Admin:          handlers.NewAdminHandler(companyService, roleService, dropdownService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
