package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-dashboard/internal/api/http"
	"github.com/spec-kit/support-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/support-dashboard/internal/config"
	"github.com/spec-kit/support-dashboard/internal/events"
	"github.com/spec-kit/support-dashboard/internal/observability"
	"github.com/spec-kit/support-dashboard/internal/persistence"
	"github.com/spec-kit/support-dashboard/internal/repository"
	"github.com/spec-kit/support-dashboard/internal/seed"
	"github.com/spec-kit/support-dashboard/internal/service"
	"github.com/spec-kit/support-dashboard/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	baseLogger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer baseLogger.Sync() //nolint:errcheck
	logger := observability.ServiceLogger(baseLogger, cfg.App)

	data, err := seed.Load(cfg.Seed.File)
	if err != nil {
		logger.Fatal("failed to load seed", zap.String("file", cfg.Seed.File), zap.Error(err))
	}
	ticketStore, err := repository.NewTicketStore(data.Tickets)
	if err != nil {
		logger.Fatal("invalid seed tickets", zap.Error(err))
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var guard service.SubmissionGuard
	if redis.Enabled() {
		guard = service.NewRedisSubmissionGuard(redis.Client, cfg.Redis.KeyPrefix, cfg.Simulation.GuardTTL())
	} else {
		guard = service.NewMemoryGuard()
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	mutations := worker.NewMutationWorker(logger, cfg.Simulation.QueueSize)
	runner := service.NewMutationRunner(mutations, guard, logger)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketStore: ticketStore,
		Threads:     repository.NewThreadRegistry(data.Comments),
		HistoryRepo: repository.NewTicketHistoryRepository(),
		Dispatcher:  dispatcher,
		Runner:      runner,
		Logger:      logger,
		Delays: service.Delays{
			Create:   cfg.Simulation.CreateDelay(),
			Mutation: cfg.Simulation.MutationDelay(),
			Comment:  cfg.Simulation.CommentDelay(),
		},
		DefaultAuthor: cfg.Comments.DefaultAuthor,
	})
	rewardService := service.NewRewardService(service.RewardDependencies{
		Ledger:              repository.NewRewardLedger(data.Rewards),
		Dispatcher:          dispatcher,
		Runner:              runner,
		Logger:              logger,
		RedeemDelay:         cfg.Simulation.RedeemDelay(),
		PointsPerResolution: cfg.Rewards.PointsPerResolution,
	})
	activityService := service.NewActivityService(dispatcher, logger, cfg.Activity.FeedSize)
	rewardService.RegisterHandlers()
	activityService.RegisterHandlers()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name, DisableStartupMessage: true})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redis),
		Tickets:  handlers.NewTicketsHandler(ticketService),
		Rewards:  handlers.NewRewardsHandler(rewardService),
		Activity: handlers.NewActivityHandler(activityService, metrics),
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.Int("tickets", ticketStore.Len()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	// Queued mutations still apply before exit.
	runner.Close()
	logger.Info("mutation queue drained")
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
