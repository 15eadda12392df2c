package data

import (
	"context"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/repo"
	"github.com/jobradar/telegram-keyword-bot/internal/infra/telegram"
)

// telegramRepo implements the Telegram dispatch repository
type telegramRepo struct {
	client *telegram.Client
}

// NewTelegramRepo creates a Telegram repository
func NewTelegramRepo(client *telegram.Client) repo.TelegramRepo {
	return &telegramRepo{client: client}
}

// SendText sends a plain text message to a chat
func (r *telegramRepo) SendText(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.client.SendText(chatID, text)
}

// ForwardMessage forwards a channel post to a subscriber
func (r *telegramRepo) ForwardMessage(ctx context.Context, toChatID, fromChannelID int64, messageID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.client.ForwardMessage(toChatID, fromChannelID, messageID)
}
