package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pabot/internal/reminders"
)

func (h *Handlers) handleRemindText(ctx context.Context, msg *tgbotapi.Message) {
	now := time.Now().In(h.loc)
	parsed := h.parser.Parse(ctx, msg.Text, now)

	reminder, unknownRecipient, err := h.service.Create(ctx, parsed, msg.Chat.ID, now)
	switch {
	case errors.Is(err, reminders.ErrNoTime):
		h.sendMessage(msg.Chat.ID, "❓ I found the message but **no time**. Please add a time at the end.\nExample: `...at 5pm` or `...in 10 mins`")
		return
	case errors.Is(err, reminders.ErrPastTime):
		words := strings.Fields(msg.Text)
		h.sendMessage(msg.Chat.ID, fmt.Sprintf(
			"⚠️ That time (%s) is in the past.\n"+
				"Since I prefer future dates, this usually means I couldn't interpret '%s' correctly.\n"+
				"Try being more specific: 'Tomorrow at 3pm' instead of just '3pm'.",
			parsed.RemindAt.In(h.loc).Format("02-Jan 15:04"), words[len(words)-1]))
		return
	case err != nil:
		log.Printf("Failed to create reminder: %v", err)
		h.sendMessage(msg.Chat.ID, "Something went wrong saving that reminder, please try again.")
		return
	}

	if unknownRecipient {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("⚠️ I don't know @%s. Setting reminder for YOU instead.", parsed.TargetUsername))
	}

	recurNote := ""
	if reminder.IsRecurring() {
		recurNote = fmt.Sprintf(" (Repeating: %s)", reminder.Recurrence)
	}
	h.sendMessage(msg.Chat.ID, fmt.Sprintf("✅ Saved!\nMsg: **%s**\nTime: **%s**%s",
		reminder.Message, reminder.FireTime.In(h.loc).Format("02-Jan 03:04 PM"), recurNote))
}

func (h *Handlers) handleList(ctx context.Context, msg *tgbotapi.Message) {
	list, err := h.repo.ListPendingFor(ctx, msg.Chat.ID)
	if err != nil {
		log.Printf("Failed to list reminders for %d: %v", msg.Chat.ID, err)
		h.sendMessage(msg.Chat.ID, "Could not fetch your reminders, please try again.")
		return
	}

	if len(list) == 0 {
		h.sendMessage(msg.Chat.ID, "No pending reminders.")
		return
	}

	var sb strings.Builder
	sb.WriteString("📅 **Pending Reminders:**\n\n")
	for _, r := range list {
		target := ""
		if r.TargetUsername != "" {
			target = " 👉 " + r.TargetUsername
		}
		sb.WriteString(fmt.Sprintf("🆔 `%d`: %s%s\n📝 %s\n\n",
			r.ID, r.FireTime.In(h.loc).Format("02-Jan 03:04 PM"), target, r.Message))
	}
	h.sendMessage(msg.Chat.ID, sb.String())
}

func (h *Handlers) handleDelete(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) != 1 {
		h.sendMessage(msg.Chat.ID, "Usage: /delete [ID]")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Usage: /delete [ID]")
		return
	}

	deleted, err := h.repo.DeleteByCreator(ctx, id, msg.Chat.ID)
	if err != nil {
		log.Printf("Failed to delete reminder %d: %v", id, err)
		h.sendMessage(msg.Chat.ID, "Could not delete that reminder, please try again.")
		return
	}

	if deleted {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("Deleted reminder ID %d.", id))
	} else {
		h.sendMessage(msg.Chat.ID, "ID not found.")
	}
}
