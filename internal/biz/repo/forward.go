package repo

import (
	"context"
	"time"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/domain"
)

// ForwardRepo is the forward-record repository interface
// Backs per-post deduplication and delivery analytics
type ForwardRepo interface {
	// Seen reports whether the post was already forwarded to the user
	Seen(ctx context.Context, chatID, channelID int64, messageID int) (bool, error)

	// Record stores one delivered forward
	Record(ctx context.Context, record *domain.ForwardRecord) error

	// CountSince counts forwards to one user since the given time
	CountSince(ctx context.Context, chatID int64, since time.Time) (int64, error)

	// Stats aggregates global delivery counters
	Stats(ctx context.Context) (*domain.ForwardStats, error)
}
