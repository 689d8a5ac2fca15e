package bot

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pabot/internal/bot/handlers"
	"pabot/internal/config"
	"pabot/internal/database"
	"pabot/internal/parser"
	"pabot/internal/reminders"
	"pabot/internal/repository"
	"pabot/internal/timeparse"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	handlers *handlers.Handlers
}

func New(cfg *config.Config, db *database.DB, resolver timeparse.Resolver) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	reminderRepo := repository.NewReminderRepository(db)
	userRepo := repository.NewUserRepository(db)
	service := reminders.New(reminderRepo, userRepo, cfg.CreationGrace)

	return &Bot{
		api:      api,
		handlers: handlers.New(api, parser.New(resolver), service, reminderRepo, cfg.Location),
	}, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.Printf("Authorized on account %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			// Updates are handled in order; the store sees one command
			// at a time.
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	if update.Message.IsCommand() {
		b.handlers.HandleCommand(ctx, update.Message)
		return
	}

	b.handlers.HandleMessage(ctx, update.Message)
}
