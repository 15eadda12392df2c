package repo

import "context"

// TelegramRepo is the message dispatch interface
// Delivery, batching and rate limiting live behind it, not in the matching core
type TelegramRepo interface {
	// SendText sends a plain text message to a chat
	SendText(ctx context.Context, chatID int64, text string) error

	// ForwardMessage forwards a channel post to a subscriber
	ForwardMessage(ctx context.Context, toChatID, fromChannelID int64, messageID int) error
}
