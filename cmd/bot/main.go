package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pabot/internal/bot"
	"pabot/internal/config"
	"pabot/internal/database"
	"pabot/internal/repository"
	"pabot/internal/scheduler"
	"pabot/internal/timeparse"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate required config
	if cfg.DatabaseURI == "" {
		log.Fatal("DATABASE_URI is required")
	}
	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	// Run migrations
	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Pick the date resolution engine
	var resolver timeparse.Resolver
	if cfg.AIAPIKey != "" {
		resolver = timeparse.NewAIResolver(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel, cfg.Location)
		log.Printf("Using AI date resolver (model: %s)", cfg.AIModel)
	} else {
		resolver = timeparse.NewDateParser(cfg.Location)
	}

	// Create Telegram API client for scheduler deliveries
	tgAPI, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("Failed to create Telegram API: %v", err)
	}

	// Create and start scheduler; it reports offline-missed reminders
	// before its first delivery tick.
	reminderRepo := repository.NewReminderRepository(db)
	sched := scheduler.New(reminderRepo, bot.NewMessenger(tgAPI), cfg.Location,
		cfg.PollInterval, cfg.OfflineGrace, cfg.MaxDeliveryAttempts)
	go sched.Start(ctx)

	// Create and start bot
	b, err := bot.New(cfg, db, resolver)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		cancel()
	}()

	log.Println("Starting bot...")
	if err := b.Start(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Bot error: %v", err)
	}
}
