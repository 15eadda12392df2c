package repo

import (
	"context"
	"time"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/domain"
)

// UserRepo is the user repository interface
type UserRepo interface {
	// GetByChat gets a user by chat ID, nil when unknown
	GetByChat(ctx context.Context, chatID int64) (*domain.User, error)

	// Save saves a user (create or update)
	Save(ctx context.Context, user *domain.User) error

	// Touch updates the user's last-active time
	Touch(ctx context.Context, chatID int64) error

	// IncrementForwards bumps the user's forward counter
	IncrementForwards(ctx context.Context, chatID int64) error

	// CountActiveSince counts users active since the given time
	CountActiveSince(ctx context.Context, since time.Time) (int64, error)

	// Close closes the underlying store
	Close() error
}
