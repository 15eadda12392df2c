package data

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/repo"
	"github.com/jobradar/telegram-keyword-bot/internal/infra/telegram"

	_ "modernc.org/sqlite"
)

// Repositories contains all repositories
type Repositories struct {
	User     repo.UserRepo
	Keyword  repo.KeywordRepo
	Channel  repo.ChannelRepo
	Forward  repo.ForwardRepo
	Telegram repo.TelegramRepo
	Filter   repo.FilterRepo

	db *sql.DB
}

// NewRepositories opens the database and creates all repositories.
// filterCfg may be zero-valued; the spam filter is then disabled.
func NewRepositories(tgClient *telegram.Client, dbPath string, filterCfg FilterConfig) (*Repositories, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	userRepo, err := NewUserRepo(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	keywordRepo, err := NewKeywordRepo(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	channelRepo, err := NewChannelRepo(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	forwardRepo, err := NewForwardRepo(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Repositories{
		User:     userRepo,
		Keyword:  keywordRepo,
		Channel:  channelRepo,
		Forward:  forwardRepo,
		Telegram: NewTelegramRepo(tgClient),
		Filter:   NewSpamFilterRepo(filterCfg),
		db:       db,
	}, nil
}

// Ping checks database connectivity (used by the health monitor)
func (r *Repositories) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection
func (r *Repositories) Close() error {
	return r.db.Close()
}
