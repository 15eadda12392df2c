package domain

import "time"

// ChannelStatus represents the monitoring state of a channel
type ChannelStatus string

const (
	ChannelStatusActive   ChannelStatus = "active"
	ChannelStatusDisabled ChannelStatus = "disabled"
)

// MonitoredChannel is a channel whose posts are matched against subscriber
// keywords. Channel identity is stored as given; resolving usernames to IDs
// is the caller's concern.
type MonitoredChannel struct {
	ChannelID int64
	Username  string
	Title     string
	Status    ChannelStatus
	AddedAt   time.Time
}

// IsActive reports whether posts from the channel should be processed
func (c *MonitoredChannel) IsActive() bool {
	return c.Status == ChannelStatusActive
}
