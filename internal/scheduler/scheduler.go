package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"pabot/internal/models"
	"pabot/internal/recurrence"
)

// Messenger delivers a text to a chat.
type Messenger interface {
	Send(ctx context.Context, chatID int64, text string) error
}

type Store interface {
	DueBefore(ctx context.Context, t time.Time) ([]*models.Reminder, error)
	UpdateFireTime(ctx context.Context, id int64, t time.Time) error
	SetStatus(ctx context.Context, id int64, status models.Status) error
	IncrementFailCount(ctx context.Context, id int64) (int, error)
	ResetFailCount(ctx context.Context, id int64) error
}

// Scheduler sweeps due reminders on a fixed interval, delivering them,
// advancing recurring ones and retiring one-shot ones. Before the first tick
// it runs a recovery pass for reminders that became due while the service was
// down.
type Scheduler struct {
	store        Store
	messenger    Messenger
	loc          *time.Location
	interval     time.Duration
	offlineGrace time.Duration
	maxAttempts  int
}

func New(store Store, messenger Messenger, loc *time.Location, interval, offlineGrace time.Duration, maxAttempts int) *Scheduler {
	return &Scheduler{
		store:        store,
		messenger:    messenger,
		loc:          loc,
		interval:     interval,
		offlineGrace: offlineGrace,
		maxAttempts:  maxAttempts,
	}
}

// Start blocks until ctx is cancelled. Sweeps run synchronously in this loop,
// so no two sweeps ever overlap; an in-flight sweep finishes before shutdown
// completes.
func (s *Scheduler) Start(ctx context.Context) {
	log.Println("Scheduler started")

	s.recoverMissed(ctx, time.Now())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Scheduler stopped")
			return
		case <-ticker.C:
			s.sweep(ctx, time.Now())
		}
	}
}

// sweep delivers every pending reminder that is due. Failures are isolated
// per reminder; a failed delivery leaves the reminder pending with its fire
// time unchanged, so the next tick retries it.
func (s *Scheduler) sweep(ctx context.Context, now time.Time) {
	due, err := s.store.DueBefore(ctx, now)
	if err != nil {
		log.Printf("Failed to get due reminders: %v", err)
		return
	}

	for _, reminder := range due {
		s.deliver(ctx, reminder)
	}
}

func (s *Scheduler) deliver(ctx context.Context, reminder *models.Reminder) {
	text := "🔔 **REMINDER** 🔔\n\n" + reminder.Message
	if err := s.messenger.Send(ctx, reminder.TargetChatID, text); err != nil {
		log.Printf("Failed to deliver reminder %d: %v", reminder.ID, err)
		s.recordFailure(ctx, reminder)
		return
	}

	if reminder.FailCount > 0 {
		if err := s.store.ResetFailCount(ctx, reminder.ID); err != nil {
			log.Printf("Failed to reset fail count for reminder %d: %v", reminder.ID, err)
		}
	}

	// Tell the creator a delegated reminder actually fired.
	if reminder.CreatorID != reminder.TargetChatID {
		if err := s.messenger.Send(ctx, reminder.CreatorID, "✅ Delivered: "+reminder.Message); err != nil {
			log.Printf("Failed to confirm delivery of reminder %d to creator: %v", reminder.ID, err)
		}
	}

	if reminder.IsRecurring() {
		next := recurrence.Next(reminder.Recurrence, reminder.FireTime)
		if err := s.store.UpdateFireTime(ctx, reminder.ID, next); err != nil {
			log.Printf("Failed to advance reminder %d: %v", reminder.ID, err)
		}
		return
	}

	if err := s.store.SetStatus(ctx, reminder.ID, models.StatusSent); err != nil {
		log.Printf("Failed to retire reminder %d: %v", reminder.ID, err)
	}
}

// recordFailure counts consecutive delivery failures and gives up on a
// reminder once the bound is reached, so a permanently unreachable target
// cannot be retried forever.
func (s *Scheduler) recordFailure(ctx context.Context, reminder *models.Reminder) {
	count, err := s.store.IncrementFailCount(ctx, reminder.ID)
	if err != nil {
		log.Printf("Failed to count failure for reminder %d: %v", reminder.ID, err)
		return
	}
	if s.maxAttempts <= 0 || count < s.maxAttempts {
		return
	}

	if err := s.store.SetStatus(ctx, reminder.ID, models.StatusFailed); err != nil {
		log.Printf("Failed to mark reminder %d as failed: %v", reminder.ID, err)
		return
	}
	notice := fmt.Sprintf("⚠️ Giving up on reminder `%d` after %d failed delivery attempts.\n📝 %s",
		reminder.ID, count, reminder.Message)
	if err := s.messenger.Send(ctx, reminder.CreatorID, notice); err != nil {
		log.Printf("Failed to notify creator about failed reminder %d: %v", reminder.ID, err)
	}
}

// recoverMissed reports reminders that became due more than the offline grace
// ago, instead of delivering them late. One-shot reminders are retired as
// missed; recurring ones are advanced past the missed occurrences and stay
// pending. A failed notice leaves the reminder pending so the next startup
// sees it again.
func (s *Scheduler) recoverMissed(ctx context.Context, now time.Time) {
	cutoff := now.Add(-s.offlineGrace)
	missed, err := s.store.DueBefore(ctx, cutoff)
	if err != nil {
		log.Printf("Failed to get missed reminders: %v", err)
		return
	}

	for _, reminder := range missed {
		notice := fmt.Sprintf("⚠️ **MISSED WHILE OFFLINE**\nTime: %s\nMsg: %s",
			reminder.FireTime.In(s.loc).Format("02-Jan 15:04"), reminder.Message)
		if err := s.messenger.Send(ctx, reminder.CreatorID, notice); err != nil {
			continue
		}

		if reminder.IsRecurring() {
			next := recurrence.NextAfter(reminder.Recurrence, reminder.FireTime, now)
			if err := s.store.UpdateFireTime(ctx, reminder.ID, next); err != nil {
				log.Printf("Failed to advance missed reminder %d: %v", reminder.ID, err)
			}
			continue
		}

		if err := s.store.SetStatus(ctx, reminder.ID, models.StatusMissedOffline); err != nil {
			log.Printf("Failed to mark reminder %d as missed: %v", reminder.ID, err)
		}
	}
}
