package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/domain"
	"github.com/jobradar/telegram-keyword-bot/internal/biz/repo"
)

// forwardRepo implements the Forward repository
type forwardRepo struct {
	db *sql.DB
}

// NewForwardRepo creates a new Forward repository
func NewForwardRepo(db *sql.DB) (repo.ForwardRepo, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS message_forwards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_id INTEGER NOT NULL,
			channel_id INTEGER NOT NULL,
			message_id INTEGER NOT NULL,
			forwarded_at INTEGER NOT NULL,
			UNIQUE(chat_id, channel_id, message_id)
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create message_forwards table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_message_forwards_time ON message_forwards(forwarded_at)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create message_forwards index: %w", err)
	}

	return &forwardRepo{db: db}, nil
}

// Seen reports whether the post was already forwarded to the user
func (r *forwardRepo) Seen(ctx context.Context, chatID, channelID int64, messageID int) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM message_forwards
		WHERE chat_id = ? AND channel_id = ? AND message_id = ?
	`, chatID, channelID, messageID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query forward: %w", err)
	}
	return true, nil
}

// Record stores one delivered forward
func (r *forwardRepo) Record(ctx context.Context, record *domain.ForwardRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO message_forwards (chat_id, channel_id, message_id, forwarded_at)
		VALUES (?, ?, ?, ?)
	`, record.ChatID, record.ChannelID, record.MessageID, record.ForwardedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to record forward: %w", err)
	}
	return nil
}

// CountSince counts forwards to one user since the given time
func (r *forwardRepo) CountSince(ctx context.Context, chatID int64, since time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM message_forwards WHERE chat_id = ? AND forwarded_at >= ?
	`, chatID, since.Unix()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count forwards: %w", err)
	}
	return count, nil
}

// Stats aggregates global delivery counters
func (r *forwardRepo) Stats(ctx context.Context) (*domain.ForwardStats, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var stats domain.ForwardStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(CASE WHEN forwarded_at >= ? THEN 1 END),
			COUNT(DISTINCT CASE WHEN forwarded_at >= ? THEN chat_id END)
		FROM message_forwards
	`, midnight.Unix(), midnight.Unix()).Scan(&stats.TotalForwards, &stats.ForwardsToday, &stats.ActiveUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to query forward stats: %w", err)
	}
	return &stats, nil
}
