package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/caloq-app/caloq/internal/ai"
	"github.com/caloq-app/caloq/internal/app"
	"github.com/caloq-app/caloq/internal/bot"
	"github.com/caloq-app/caloq/internal/config"
	"github.com/caloq-app/caloq/internal/logger"
	"github.com/caloq-app/caloq/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Debug(".env file not found, relying on the environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		logger.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.Info("Starting caloq", "storage_driver", cfg.Storage.Driver)

	store, err := newStore(cfg)
	if err != nil {
		logger.Fatalf("Failed to open blob store: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.New(ctx, store)
	logger.Info("Stores loaded",
		"history_entries", application.History.Len(),
		"meals", len(application.Meals.Entries()))

	var suggestions *ai.SuggestionService
	if cfg.GeminiAPIKey != "" {
		suggestions, err = ai.NewSuggestionService(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logger.Warn("Profile suggestions disabled", "error", err)
			suggestions = nil
		}
	}

	telegramBot, err := bot.NewBot(cfg.TelegramToken, application, suggestions)
	if err != nil {
		logger.Fatalf("Failed to create bot: %v", err)
	}

	if err := telegramBot.Start(ctx); err != nil && ctx.Err() == nil {
		logger.Fatalf("Bot stopped with error: %v", err)
	}
}

func newStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverRedis:
		return storage.NewRedisStore(cfg.Storage.Redis.Host, cfg.Storage.Redis.Port)
	case config.DriverPostgres:
		return storage.NewPostgresStore(storage.PostgresConfig{
			Host:     cfg.Storage.DB.Host,
			Port:     cfg.Storage.DB.Port,
			User:     cfg.Storage.DB.User,
			Password: cfg.Storage.DB.Password,
			DBName:   cfg.Storage.DB.DBName,
		})
	default:
		return storage.NewFileStore(cfg.Storage.DataDir)
	}
}
