package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/domain"
	"github.com/jobradar/telegram-keyword-bot/internal/biz/repo"
)

// Keyword management errors
var (
	ErrKeywordNotFound = errors.New("keyword not found")
	ErrTooManyKeywords = errors.New("keyword limit reached")
	ErrKeywordTooLong  = errors.New("keyword too long")
)

// KeywordLimits bounds what a single user may store
type KeywordLimits struct {
	MaxKeywords       int
	MaxIgnoreKeywords int
	MaxKeywordLength  int
}

// DefaultKeywordLimits returns the stock limits
func DefaultKeywordLimits() KeywordLimits {
	return KeywordLimits{
		MaxKeywords:       50,
		MaxIgnoreKeywords: 20,
		MaxKeywordLength:  100,
	}
}

func (l KeywordLimits) maxFor(kind domain.KeywordKind) int {
	if kind == domain.KeywordKindIgnore {
		return l.MaxIgnoreKeywords
	}
	return l.MaxKeywords
}

// KeywordUsecase handles keyword management: validation, limits, storage
type KeywordUsecase struct {
	keywordRepo repo.KeywordRepo
	limits      KeywordLimits
}

// NewKeywordUsecase creates a new keyword usecase
func NewKeywordUsecase(keywordRepo repo.KeywordRepo, limits KeywordLimits) *KeywordUsecase {
	return &KeywordUsecase{
		keywordRepo: keywordRepo,
		limits:      limits,
	}
}

// ValidateList parses every raw string of an already comma-split submission.
// All failures are reported together so the user can fix the whole list in
// one go; on any failure nothing is considered valid.
func (uc *KeywordUsecase) ValidateList(raws []string) ([]*domain.KeywordEntry, error) {
	var errs *multierror.Error
	entries := make([]*domain.KeywordEntry, 0, len(raws))

	for _, raw := range raws {
		if len(raw) > uc.limits.MaxKeywordLength {
			errs = multierror.Append(errs, fmt.Errorf("%q: %w (max %d characters)",
				truncateRaw(raw), ErrKeywordTooLong, uc.limits.MaxKeywordLength))
			continue
		}
		entry, err := domain.ParseKeyword(raw)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		entries = append(entries, entry)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return entries, nil
}

// SetList replaces a user's whole keyword list of one kind. The submission
// is all-or-nothing: one malformed entry rejects the batch.
func (uc *KeywordUsecase) SetList(ctx context.Context, chatID int64, raws []string, kind domain.KeywordKind) ([]*domain.KeywordEntry, error) {
	entries, err := uc.ValidateList(raws)
	if err != nil {
		return nil, err
	}
	if len(entries) > uc.limits.maxFor(kind) {
		return nil, fmt.Errorf("%w (max %d)", ErrTooManyKeywords, uc.limits.maxFor(kind))
	}

	if _, err := uc.keywordRepo.DeleteAll(ctx, chatID, kind); err != nil {
		return nil, fmt.Errorf("clear keywords: %w", err)
	}
	for _, entry := range entries {
		if err := uc.keywordRepo.Add(ctx, chatID, entry.Raw, kind); err != nil {
			return nil, fmt.Errorf("store keyword: %w", err)
		}
	}
	return entries, nil
}

// Add validates and stores one keyword
func (uc *KeywordUsecase) Add(ctx context.Context, chatID int64, raw string, kind domain.KeywordKind) (*domain.KeywordEntry, error) {
	if len(raw) > uc.limits.MaxKeywordLength {
		return nil, fmt.Errorf("%w (max %d characters)", ErrKeywordTooLong, uc.limits.MaxKeywordLength)
	}
	entry, err := domain.ParseKeyword(raw)
	if err != nil {
		return nil, err
	}

	count, err := uc.keywordRepo.CountByUser(ctx, chatID, kind)
	if err != nil {
		return nil, fmt.Errorf("count keywords: %w", err)
	}
	if count >= uc.limits.maxFor(kind) {
		return nil, fmt.Errorf("%w (max %d)", ErrTooManyKeywords, uc.limits.maxFor(kind))
	}

	if err := uc.keywordRepo.Add(ctx, chatID, entry.Raw, kind); err != nil {
		return nil, fmt.Errorf("store keyword: %w", err)
	}
	return entry, nil
}

// Delete removes one keyword. The target is resolved by exact raw-text match
// first, then by the first stored entry containing the given text.
func (uc *KeywordUsecase) Delete(ctx context.Context, chatID int64, raw string, kind domain.KeywordKind) (string, error) {
	deleted, err := uc.keywordRepo.Delete(ctx, chatID, raw, kind)
	if err != nil {
		return "", fmt.Errorf("delete keyword: %w", err)
	}
	if deleted {
		return raw, nil
	}

	stored, err := uc.keywordRepo.ListByUser(ctx, chatID, kind)
	if err != nil {
		return "", fmt.Errorf("list keywords: %w", err)
	}
	needle := strings.ToLower(strings.TrimSpace(raw))
	for _, kw := range stored {
		if strings.Contains(strings.ToLower(kw.Raw), needle) {
			if _, err := uc.keywordRepo.Delete(ctx, chatID, kw.Raw, kind); err != nil {
				return "", fmt.Errorf("delete keyword: %w", err)
			}
			return kw.Raw, nil
		}
	}
	return "", ErrKeywordNotFound
}

// Purge removes every keyword of one kind for a user
func (uc *KeywordUsecase) Purge(ctx context.Context, chatID int64, kind domain.KeywordKind) (int64, error) {
	return uc.keywordRepo.DeleteAll(ctx, chatID, kind)
}

// List lists a user's stored keywords of one kind
func (uc *KeywordUsecase) List(ctx context.Context, chatID int64, kind domain.KeywordKind) ([]*domain.UserKeyword, error) {
	return uc.keywordRepo.ListByUser(ctx, chatID, kind)
}

func truncateRaw(s string) string {
	if len(s) <= 40 {
		return s
	}
	return s[:40] + "..."
}
