package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/domain"
	"github.com/jobradar/telegram-keyword-bot/internal/biz/repo"
)

// keywordRepo implements the Keyword repository
type keywordRepo struct {
	db *sql.DB
}

// NewKeywordRepo creates a new Keyword repository
func NewKeywordRepo(db *sql.DB) (repo.KeywordRepo, error) {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS user_keywords (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_id INTEGER NOT NULL,
			keyword TEXT NOT NULL,
			kind TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			UNIQUE(chat_id, keyword, kind)
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create user_keywords table: %w", err)
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_user_keywords_chat ON user_keywords(chat_id, kind)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create user_keywords index: %w", err)
	}

	return &keywordRepo{db: db}, nil
}

// ListByUser lists a user's keywords of one kind in insertion order
func (r *keywordRepo) ListByUser(ctx context.Context, chatID int64, kind domain.KeywordKind) ([]*domain.UserKeyword, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, chat_id, keyword, kind, created_at
		FROM user_keywords
		WHERE chat_id = ? AND kind = ?
		ORDER BY id
	`, chatID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list keywords: %w", err)
	}
	defer rows.Close()

	var keywords []*domain.UserKeyword
	for rows.Next() {
		var kw domain.UserKeyword
		var kindStr string
		var createdAt int64
		if err := rows.Scan(&kw.ID, &kw.ChatID, &kw.Raw, &kindStr, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan keyword: %w", err)
		}
		kw.Kind = domain.KeywordKind(kindStr)
		kw.CreatedAt = time.Unix(createdAt, 0)
		keywords = append(keywords, &kw)
	}
	return keywords, rows.Err()
}

// Add stores one raw keyword string
func (r *keywordRepo) Add(ctx context.Context, chatID int64, raw string, kind domain.KeywordKind) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO user_keywords (chat_id, keyword, kind, created_at)
		VALUES (?, ?, ?, ?)
	`, chatID, raw, string(kind), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to add keyword: %w", err)
	}
	return nil
}

// Delete removes one raw keyword string
func (r *keywordRepo) Delete(ctx context.Context, chatID int64, raw string, kind domain.KeywordKind) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM user_keywords WHERE chat_id = ? AND keyword = ? AND kind = ?
	`, chatID, raw, string(kind))
	if err != nil {
		return false, fmt.Errorf("failed to delete keyword: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete keyword: %w", err)
	}
	return affected > 0, nil
}

// DeleteAll removes every keyword of one kind for a user
func (r *keywordRepo) DeleteAll(ctx context.Context, chatID int64, kind domain.KeywordKind) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM user_keywords WHERE chat_id = ? AND kind = ?
	`, chatID, string(kind))
	if err != nil {
		return 0, fmt.Errorf("failed to purge keywords: %w", err)
	}
	return result.RowsAffected()
}

// CountByUser counts a user's keywords of one kind
func (r *keywordRepo) CountByUser(ctx context.Context, chatID int64, kind domain.KeywordKind) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM user_keywords WHERE chat_id = ? AND kind = ?
	`, chatID, string(kind)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count keywords: %w", err)
	}
	return count, nil
}

// ListSubscribers lists the chat IDs of every user with at least one match keyword
func (r *keywordRepo) ListSubscribers(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT chat_id FROM user_keywords WHERE kind = ?
	`, string(domain.KeywordKindMatch))
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	var chatIDs []int64
	for rows.Next() {
		var chatID int64
		if err := rows.Scan(&chatID); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		chatIDs = append(chatIDs, chatID)
	}
	return chatIDs, rows.Err()
}
