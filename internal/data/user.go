package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/domain"
	"github.com/jobradar/telegram-keyword-bot/internal/biz/repo"
)

// userRepo implements the User repository
type userRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new User repository
func NewUserRepo(db *sql.DB) (repo.UserRepo, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			chat_id INTEGER PRIMARY KEY,
			username TEXT NOT NULL DEFAULT '',
			first_name TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT 'en',
			total_forwards INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			last_active INTEGER NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create users table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_users_last_active ON users(last_active)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create users index: %w", err)
	}

	return &userRepo{db: db}, nil
}

// GetByChat gets a user by chat ID
func (r *userRepo) GetByChat(ctx context.Context, chatID int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT chat_id, username, first_name, language, total_forwards, created_at, last_active
		FROM users
		WHERE chat_id = ?
	`, chatID)

	var user domain.User
	var createdAt, lastActive int64
	err := row.Scan(&user.ChatID, &user.Username, &user.FirstName, &user.Language,
		&user.TotalForwards, &createdAt, &lastActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	user.CreatedAt = time.Unix(createdAt, 0)
	user.LastActiveAt = time.Unix(lastActive, 0)
	return &user, nil
}

// Save saves a user, preserving the forward counter on update
func (r *userRepo) Save(ctx context.Context, user *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (chat_id, username, first_name, language, total_forwards, created_at, last_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			language = excluded.language,
			last_active = excluded.last_active
	`,
		user.ChatID,
		user.Username,
		user.FirstName,
		user.Language,
		user.TotalForwards,
		user.CreatedAt.Unix(),
		user.LastActiveAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// Touch updates the user's last-active time
func (r *userRepo) Touch(ctx context.Context, chatID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET last_active = ? WHERE chat_id = ?
	`, time.Now().Unix(), chatID)
	if err != nil {
		return fmt.Errorf("failed to touch user: %w", err)
	}
	return nil
}

// IncrementForwards bumps the user's forward counter
func (r *userRepo) IncrementForwards(ctx context.Context, chatID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET total_forwards = total_forwards + 1, last_active = ? WHERE chat_id = ?
	`, time.Now().Unix(), chatID)
	if err != nil {
		return fmt.Errorf("failed to increment forwards: %w", err)
	}
	return nil
}

// CountActiveSince counts users active since the given time
func (r *userRepo) CountActiveSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM users WHERE last_active >= ?
	`, since.Unix()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active users: %w", err)
	}
	return count, nil
}

// Close closes the database connection
func (r *userRepo) Close() error {
	return r.db.Close()
}
