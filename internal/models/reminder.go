package models

import "time"

// Status is the lifecycle state of a reminder. One-shot reminders leave
// "pending" exactly once and never come back; recurring reminders stay
// "pending" while only their fire time advances.
type Status string

const (
	StatusPending       Status = "pending"
	StatusSent          Status = "sent"
	StatusMissedOffline Status = "missed_offline"
	StatusFailed        Status = "failed"
)

// Recurrence is the repeat pattern of a reminder.
type Recurrence string

const (
	RecurNone   Recurrence = ""
	RecurDaily  Recurrence = "daily"
	RecurWeekly Recurrence = "weekly"
)

type Reminder struct {
	ID             int64      `json:"id"`
	CreatorID      int64      `json:"creator_id"`
	TargetChatID   int64      `json:"target_chat_id"`
	TargetUsername string     `json:"target_username"` // display-only echo of the @handle, may be empty
	Message        string     `json:"message"`
	FireTime       time.Time  `json:"remind_time"` // next undelivered occurrence while pending
	Recurrence     Recurrence `json:"recurrence_type"`
	Status         Status     `json:"status"`
	FailCount      int        `json:"fail_count"`
	CreatedAt      time.Time  `json:"created_at"`
}

// IsRecurring returns true if this reminder repeats after delivery
func (r *Reminder) IsRecurring() bool {
	return r.Recurrence != RecurNone
}
