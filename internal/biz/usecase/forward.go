package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/domain"
	"github.com/jobradar/telegram-keyword-bot/internal/biz/repo"
)

// ForwardUsecase handles post delivery bookkeeping: deduplication, the daily
// per-user cap, and counters
type ForwardUsecase struct {
	forwardRepo  repo.ForwardRepo
	userRepo     repo.UserRepo
	telegramRepo repo.TelegramRepo
	dailyLimit   int
}

// NewForwardUsecase creates a new forward usecase. dailyLimit <= 0 disables
// the per-user cap.
func NewForwardUsecase(
	forwardRepo repo.ForwardRepo,
	userRepo repo.UserRepo,
	telegramRepo repo.TelegramRepo,
	dailyLimit int,
) *ForwardUsecase {
	return &ForwardUsecase{
		forwardRepo:  forwardRepo,
		userRepo:     userRepo,
		telegramRepo: telegramRepo,
		dailyLimit:   dailyLimit,
	}
}

// Deliver forwards one channel post to one subscriber. Returns false without
// error when the post was already delivered or the user hit the daily cap.
func (uc *ForwardUsecase) Deliver(ctx context.Context, chatID, channelID int64, messageID int) (bool, error) {
	seen, err := uc.forwardRepo.Seen(ctx, chatID, channelID, messageID)
	if err != nil {
		return false, fmt.Errorf("check forward dedup: %w", err)
	}
	if seen {
		return false, nil
	}

	if uc.dailyLimit > 0 {
		now := time.Now()
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		count, err := uc.forwardRepo.CountSince(ctx, chatID, midnight)
		if err != nil {
			return false, fmt.Errorf("count daily forwards: %w", err)
		}
		if count >= int64(uc.dailyLimit) {
			return false, nil
		}
	}

	if err := uc.telegramRepo.ForwardMessage(ctx, chatID, channelID, messageID); err != nil {
		return false, fmt.Errorf("forward message: %w", err)
	}

	if err := uc.forwardRepo.Record(ctx, &domain.ForwardRecord{
		ChatID:      chatID,
		ChannelID:   channelID,
		MessageID:   messageID,
		ForwardedAt: time.Now(),
	}); err != nil {
		return false, fmt.Errorf("record forward: %w", err)
	}

	if err := uc.userRepo.IncrementForwards(ctx, chatID); err != nil {
		return false, fmt.Errorf("increment forwards: %w", err)
	}
	return true, nil
}

// Stats aggregates global delivery counters
func (uc *ForwardUsecase) Stats(ctx context.Context) (*domain.ForwardStats, error) {
	return uc.forwardRepo.Stats(ctx)
}
