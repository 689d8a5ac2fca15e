package reminders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pabot/internal/models"
	"pabot/internal/parser"
)

var (
	// ErrNoTime means the command carried no resolvable time. Nothing is
	// persisted; the caller should ask the user for a time.
	ErrNoTime = errors.New("no time found in reminder")

	// ErrPastTime means the resolved time is earlier than now minus the
	// creation grace, which usually signals a mis-resolved phrase.
	ErrPastTime = errors.New("reminder time is in the past")
)

type Store interface {
	Create(ctx context.Context, reminder *models.Reminder) error
}

type Directory interface {
	Save(ctx context.Context, username string, chatID int64) error
	ChatID(ctx context.Context, username string) (int64, bool, error)
}

// Service validates parsed reminders and persists them.
type Service struct {
	store Store
	users Directory
	grace time.Duration
}

func New(store Store, users Directory, creationGrace time.Duration) *Service {
	return &Service{store: store, users: users, grace: creationGrace}
}

// Create validates a parsed reminder and stores it as pending. The second
// return value is true when the recipient hint matched no known user and the
// reminder fell back to targeting the sender; that is a warning, not an
// error.
func (s *Service) Create(ctx context.Context, parsed *parser.Parsed, senderChatID int64, now time.Time) (*models.Reminder, bool, error) {
	if parsed.RemindAt == nil {
		return nil, false, ErrNoTime
	}
	if parsed.RemindAt.Before(now.Add(-s.grace)) {
		return nil, false, ErrPastTime
	}

	target := senderChatID
	unknownRecipient := false
	if parsed.TargetUsername != "" {
		chatID, ok, err := s.users.ChatID(ctx, parsed.TargetUsername)
		if err != nil {
			return nil, false, fmt.Errorf("failed to look up recipient: %w", err)
		}
		if ok {
			target = chatID
		} else {
			unknownRecipient = true
		}
	}

	reminder := &models.Reminder{
		CreatorID:      senderChatID,
		TargetChatID:   target,
		TargetUsername: parsed.TargetUsername,
		Message:        parsed.Message,
		FireTime:       *parsed.RemindAt,
		Recurrence:     parsed.Recurrence,
		Status:         models.StatusPending,
	}
	if err := s.store.Create(ctx, reminder); err != nil {
		return nil, false, fmt.Errorf("failed to save reminder: %w", err)
	}

	return reminder, unknownRecipient, nil
}

// TouchUser refreshes the directory entry for a sender. Called on every
// inbound interaction; this is how recipients become resolvable later.
func (s *Service) TouchUser(ctx context.Context, username string, chatID int64) error {
	if username == "" {
		return nil
	}
	return s.users.Save(ctx, username, chatID)
}
