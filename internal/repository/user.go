package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"pabot/internal/database"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Save records the chat a username was last seen in. Last write wins.
func (r *UserRepository) Save(ctx context.Context, username string, chatID int64) error {
	if username == "" {
		return nil
	}
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO users (username, chat_id) VALUES ($1, $2)
		 ON CONFLICT (username) DO UPDATE SET chat_id = EXCLUDED.chat_id`,
		normalizeUsername(username), chatID,
	)
	return err
}

// ChatID looks up the destination for a username. The second return value is
// false when the username has never been seen.
func (r *UserRepository) ChatID(ctx context.Context, username string) (int64, bool, error) {
	var chatID int64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT chat_id FROM users WHERE username = $1`,
		normalizeUsername(username),
	).Scan(&chatID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return chatID, true, nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimPrefix(username, "@"))
}
