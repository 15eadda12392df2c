package domain

import "time"

// ForwardRecord is one delivered channel post. The (chat, channel, message)
// triple is unique so a user never receives the same post twice.
type ForwardRecord struct {
	ID          int64
	ChatID      int64
	ChannelID   int64
	MessageID   int
	ForwardedAt time.Time
}

// ForwardStats aggregates delivery counters for the admin /stats command
type ForwardStats struct {
	TotalForwards int64
	ForwardsToday int64
	ActiveUsers   int64
}
