package domain

import "time"

// User represents a bot subscriber
type User struct {
	ChatID        int64
	Username      string
	FirstName     string
	Language      string
	TotalForwards int64
	CreatedAt     time.Time
	LastActiveAt  time.Time
}

// Touch updates the last-active time
func (u *User) Touch() {
	u.LastActiveAt = time.Now()
}

// KeywordKind distinguishes match keywords from ignore keywords
type KeywordKind string

const (
	KeywordKindMatch  KeywordKind = "keyword"
	KeywordKindIgnore KeywordKind = "ignore"
)

// UserKeyword is one stored raw keyword string belonging to a user
type UserKeyword struct {
	ID        int64
	ChatID    int64
	Raw       string
	Kind      KeywordKind
	CreatedAt time.Time
}
