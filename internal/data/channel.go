package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/domain"
	"github.com/jobradar/telegram-keyword-bot/internal/biz/repo"
)

// channelRepo implements the Channel repository
type channelRepo struct {
	db *sql.DB
}

// NewChannelRepo creates a new Channel repository
func NewChannelRepo(db *sql.DB) (repo.ChannelRepo, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS monitored_channels (
			channel_id INTEGER PRIMARY KEY,
			username TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active',
			added_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create monitored_channels table: %w", err)
	}

	return &channelRepo{db: db}, nil
}

// GetByID gets a monitored channel
func (r *channelRepo) GetByID(ctx context.Context, channelID int64) (*domain.MonitoredChannel, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT channel_id, username, title, status, added_at
		FROM monitored_channels
		WHERE channel_id = ?
	`, channelID)

	var ch domain.MonitoredChannel
	var status string
	var addedAt int64
	err := row.Scan(&ch.ChannelID, &ch.Username, &ch.Title, &status, &addedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query channel: %w", err)
	}

	ch.Status = domain.ChannelStatus(status)
	ch.AddedAt = time.Unix(addedAt, 0)
	return &ch, nil
}

// Save saves a monitored channel
func (r *channelRepo) Save(ctx context.Context, channel *domain.MonitoredChannel) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO monitored_channels (channel_id, username, title, status, added_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		channel.ChannelID,
		channel.Username,
		channel.Title,
		string(channel.Status),
		channel.AddedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save channel: %w", err)
	}
	return nil
}

// Delete removes a channel from monitoring
func (r *channelRepo) Delete(ctx context.Context, channelID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM monitored_channels WHERE channel_id = ?
	`, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to delete channel: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete channel: %w", err)
	}
	return affected > 0, nil
}

// ListAll lists every monitored channel
func (r *channelRepo) ListAll(ctx context.Context) ([]*domain.MonitoredChannel, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT channel_id, username, title, status, added_at
		FROM monitored_channels
		ORDER BY added_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	defer rows.Close()

	var channels []*domain.MonitoredChannel
	for rows.Next() {
		var ch domain.MonitoredChannel
		var status string
		var addedAt int64
		if err := rows.Scan(&ch.ChannelID, &ch.Username, &ch.Title, &status, &addedAt); err != nil {
			return nil, fmt.Errorf("failed to scan channel: %w", err)
		}
		ch.Status = domain.ChannelStatus(status)
		ch.AddedAt = time.Unix(addedAt, 0)
		channels = append(channels, &ch)
	}
	return channels, rows.Err()
}
