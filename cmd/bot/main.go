package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/app"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/config"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/notify"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/repository"
	"github.com/Freeeeeet/lab_scheduler_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting lab scheduler bot",
		zap.String("environment", cfg.Environment),
		zap.String("lab_api", cfg.LabAPIURL),
		zap.String("timezone", cfg.LabLocation.String()),
		zap.Int("labs", len(cfg.Labs)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.GetDBDSN())
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsDir, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("Failed to close migrator", zap.Error(err))
	}

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	now := func() time.Time { return time.Now().In(cfg.LabLocation) }
	screens := common.NewScreenRegistry()

	hub := service.NewNotificationHub(service.HubOptions{
		PollInterval:     cfg.PollInterval,
		StreamEnabled:    cfg.StreamEnabled,
		StreamMaxRetries: cfg.StreamMaxRetries,
		Center: notify.Options{
			Desktop: cfg.NotifyDesktop,
			Sound:   cfg.NotifySound,
		},
	}, controller.NewChatOutput(b, screens, now, logger), logger)

	sessions := service.NewSessionService(
		repository.NewChatSessionRepository(pool),
		hub,
		service.ClientOptions{
			BaseURL:  cfg.LabAPIURL,
			Timeout:  cfg.HTTPTimeout,
			Location: cfg.LabLocation,
		},
		logger,
	)

	botController := controller.NewBotController(b, controller.Dependencies{
		Sessions: sessions,
		Boards:   service.NewBoards(),
		Screens:  screens,
		Labs:     cfg.Labs,
		Location: cfg.LabLocation,
		Now:      now,
	}, logger)

	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Failed to register bot commands menu", zap.Error(err))
	}

	scheduler := app.NewScheduler(sessions, hub, logger)
	scheduler.Start(ctx)

	// блокируется до сигнала
	botController.Start(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	scheduler.Stop(shutdownCtx)

	logger.Info("Bot stopped")
}
