package repo

import (
	"context"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/domain"
)

// ChannelRepo is the monitored-channel repository interface
type ChannelRepo interface {
	// GetByID gets a monitored channel, nil when not monitored
	GetByID(ctx context.Context, channelID int64) (*domain.MonitoredChannel, error)

	// Save saves a monitored channel (create or update)
	Save(ctx context.Context, channel *domain.MonitoredChannel) error

	// Delete removes a channel from monitoring, reporting whether it existed
	Delete(ctx context.Context, channelID int64) (bool, error)

	// ListAll lists every monitored channel
	ListAll(ctx context.Context) ([]*domain.MonitoredChannel, error)
}
