package repo

import (
	"context"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/domain"
)

// KeywordRepo is the keyword repository interface
// Responsible for persisting raw keyword strings exactly as the user typed them
type KeywordRepo interface {
	// ListByUser lists a user's keywords of one kind in insertion order
	ListByUser(ctx context.Context, chatID int64, kind domain.KeywordKind) ([]*domain.UserKeyword, error)

	// Add stores one raw keyword string (no-op when the exact string already exists)
	Add(ctx context.Context, chatID int64, raw string, kind domain.KeywordKind) error

	// Delete removes one raw keyword string, reporting whether it existed
	Delete(ctx context.Context, chatID int64, raw string, kind domain.KeywordKind) (bool, error)

	// DeleteAll removes every keyword of one kind for a user
	DeleteAll(ctx context.Context, chatID int64, kind domain.KeywordKind) (int64, error)

	// CountByUser counts a user's keywords of one kind
	CountByUser(ctx context.Context, chatID int64, kind domain.KeywordKind) (int, error)

	// ListSubscribers lists the chat IDs of every user with at least one match keyword
	ListSubscribers(ctx context.Context) ([]int64, error)
}
