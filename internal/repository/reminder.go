package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"pabot/internal/database"
	"pabot/internal/models"
)

const reminderColumns = `id, creator_id, target_chat_id, target_username, message, remind_time, recurrence_type, status, fail_count, created_at`

type ReminderRepository struct {
	db *database.DB
}

func NewReminderRepository(db *database.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) Create(ctx context.Context, reminder *models.Reminder) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO reminders (creator_id, target_chat_id, target_username, message, remind_time, is_recurring, recurrence_type, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		reminder.CreatorID, reminder.TargetChatID, reminder.TargetUsername, reminder.Message,
		reminder.FireTime, reminder.IsRecurring(), string(reminder.Recurrence), string(reminder.Status),
	).Scan(&reminder.ID, &reminder.CreatedAt)
}

// DueBefore returns pending reminders whose fire time is at or before t.
func (r *ReminderRepository) DueBefore(ctx context.Context, t time.Time) ([]*models.Reminder, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+reminderColumns+` FROM reminders
		 WHERE status = 'pending' AND remind_time <= $1
		 ORDER BY remind_time ASC`,
		t,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReminders(rows)
}

// ListPendingFor returns pending reminders visible to a chat, as creator or
// as target.
func (r *ReminderRepository) ListPendingFor(ctx context.Context, chatID int64) ([]*models.Reminder, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+reminderColumns+` FROM reminders
		 WHERE status = 'pending' AND (creator_id = $1 OR target_chat_id = $1)
		 ORDER BY remind_time ASC`,
		chatID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReminders(rows)
}

func (r *ReminderRepository) UpdateFireTime(ctx context.Context, id int64, t time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE reminders SET remind_time = $1 WHERE id = $2`,
		t, id,
	)
	return err
}

func (r *ReminderRepository) SetStatus(ctx context.Context, id int64, status models.Status) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE reminders SET status = $1 WHERE id = $2`,
		string(status), id,
	)
	return err
}

// IncrementFailCount bumps the consecutive delivery failure counter and
// returns the new value.
func (r *ReminderRepository) IncrementFailCount(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx,
		`UPDATE reminders SET fail_count = fail_count + 1 WHERE id = $1 RETURNING fail_count`,
		id,
	).Scan(&count)
	return count, err
}

func (r *ReminderRepository) ResetFailCount(ctx context.Context, id int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE reminders SET fail_count = 0 WHERE id = $1`,
		id,
	)
	return err
}

// DeleteByCreator removes a reminder only if the caller created it. Returns
// whether a row was deleted.
func (r *ReminderRepository) DeleteByCreator(ctx context.Context, id, creatorID int64) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM reminders WHERE id = $1 AND creator_id = $2`,
		id, creatorID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanReminders(rows pgx.Rows) ([]*models.Reminder, error) {
	var reminders []*models.Reminder
	for rows.Next() {
		reminder := &models.Reminder{}
		var recurrence, status string
		if err := rows.Scan(&reminder.ID, &reminder.CreatorID, &reminder.TargetChatID, &reminder.TargetUsername,
			&reminder.Message, &reminder.FireTime, &recurrence, &status, &reminder.FailCount, &reminder.CreatedAt); err != nil {
			return nil, err
		}
		reminder.Recurrence = models.Recurrence(recurrence)
		reminder.Status = models.Status(status)
		reminders = append(reminders, reminder)
	}
	return reminders, rows.Err()
}
