package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pabot/internal/parser"
	"pabot/internal/reminders"
	"pabot/internal/repository"
)

type Handlers struct {
	api     *tgbotapi.BotAPI
	parser  *parser.Parser
	service *reminders.Service
	repo    *repository.ReminderRepository
	loc     *time.Location
}

func New(api *tgbotapi.BotAPI, p *parser.Parser, service *reminders.Service, repo *repository.ReminderRepository, loc *time.Location) *Handlers {
	return &Handlers{
		api:     api,
		parser:  p,
		service: service,
		repo:    repo,
		loc:     loc,
	}
}

func (h *Handlers) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	h.touchUser(ctx, msg)

	switch msg.Command() {
	case "start":
		h.handleStart(msg)
	case "list":
		h.handleList(ctx, msg)
	case "delete":
		h.handleDelete(ctx, msg)
	default:
		h.sendMessage(msg.Chat.ID, "Unknown command. Try /start, /list or /delete.")
	}
}

func (h *Handlers) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	h.touchUser(ctx, msg)

	if !strings.HasPrefix(strings.ToLower(msg.Text), "remind") {
		return
	}

	h.handleRemindText(ctx, msg)
}

// touchUser refreshes the username directory on every interaction, so this
// sender can be addressed as a reminder target later.
func (h *Handlers) touchUser(ctx context.Context, msg *tgbotapi.Message) {
	if err := h.service.TouchUser(ctx, msg.From.UserName, msg.Chat.ID); err != nil {
		log.Printf("Failed to save user %s: %v", msg.From.UserName, err)
	}
}

func (h *Handlers) handleStart(msg *tgbotapi.Message) {
	text := fmt.Sprintf("Hi %s! I am your PA Bot (%s).\n\n"+
		"**Try these commands:**\n"+
		"1. `Remind me to check server at 4pm`\n"+
		"2. `Remind me to call mom tomorrow at 10am`\n"+
		"3. `Remind @john to submit report in 20 mins`\n",
		msg.From.FirstName, h.loc)
	h.sendMessage(msg.Chat.ID, text)
}

func (h *Handlers) sendMessage(chatID int64, text string) {
	reply := tgbotapi.NewMessage(chatID, text)
	reply.ParseMode = "Markdown"
	if _, err := h.api.Send(reply); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}
