package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/domain"
)

// mockKeywordRepo implements repo.KeywordRepo for testing
type mockKeywordRepo struct {
	entries []*domain.UserKeyword
	nextID  int64
}

func (m *mockKeywordRepo) ListByUser(ctx context.Context, chatID int64, kind domain.KeywordKind) ([]*domain.UserKeyword, error) {
	var out []*domain.UserKeyword
	for _, kw := range m.entries {
		if kw.ChatID == chatID && kw.Kind == kind {
			out = append(out, kw)
		}
	}
	return out, nil
}

func (m *mockKeywordRepo) Add(ctx context.Context, chatID int64, raw string, kind domain.KeywordKind) error {
	for _, kw := range m.entries {
		if kw.ChatID == chatID && kw.Raw == raw && kw.Kind == kind {
			return nil
		}
	}
	m.nextID++
	m.entries = append(m.entries, &domain.UserKeyword{
		ID:     m.nextID,
		ChatID: chatID,
		Raw:    raw,
		Kind:   kind,
	})
	return nil
}

func (m *mockKeywordRepo) Delete(ctx context.Context, chatID int64, raw string, kind domain.KeywordKind) (bool, error) {
	for i, kw := range m.entries {
		if kw.ChatID == chatID && kw.Raw == raw && kw.Kind == kind {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockKeywordRepo) DeleteAll(ctx context.Context, chatID int64, kind domain.KeywordKind) (int64, error) {
	var kept []*domain.UserKeyword
	var removed int64
	for _, kw := range m.entries {
		if kw.ChatID == chatID && kw.Kind == kind {
			removed++
			continue
		}
		kept = append(kept, kw)
	}
	m.entries = kept
	return removed, nil
}

func (m *mockKeywordRepo) CountByUser(ctx context.Context, chatID int64, kind domain.KeywordKind) (int, error) {
	count := 0
	for _, kw := range m.entries {
		if kw.ChatID == chatID && kw.Kind == kind {
			count++
		}
	}
	return count, nil
}

func (m *mockKeywordRepo) ListSubscribers(ctx context.Context) ([]int64, error) {
	seen := map[int64]bool{}
	var out []int64
	for _, kw := range m.entries {
		if kw.Kind == domain.KeywordKindMatch && !seen[kw.ChatID] {
			seen[kw.ChatID] = true
			out = append(out, kw.ChatID)
		}
	}
	return out, nil
}

func TestSetList_ReplacesWholeList(t *testing.T) {
	repo := &mockKeywordRepo{}
	uc := NewKeywordUsecase(repo, DefaultKeywordLimits())
	ctx := context.Background()

	if _, err := uc.SetList(ctx, 1, []string{"python", "golang"}, domain.KeywordKindMatch); err != nil {
		t.Fatalf("SetList failed: %v", err)
	}
	entries, err := uc.SetList(ctx, 1, []string{"rust"}, domain.KeywordKindMatch)
	if err != nil {
		t.Fatalf("second SetList failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	stored, _ := repo.ListByUser(ctx, 1, domain.KeywordKindMatch)
	if len(stored) != 1 || stored[0].Raw != "rust" {
		t.Errorf("expected only rust stored, got %+v", stored)
	}
}

func TestSetList_AllOrNothing(t *testing.T) {
	repo := &mockKeywordRepo{}
	uc := NewKeywordUsecase(repo, DefaultKeywordLimits())
	ctx := context.Background()

	if _, err := uc.SetList(ctx, 1, []string{"python"}, domain.KeywordKindMatch); err != nil {
		t.Fatalf("SetList failed: %v", err)
	}

	_, err := uc.SetList(ctx, 1, []string{"golang", "[broken"}, domain.KeywordKindMatch)
	if err == nil {
		t.Fatal("expected error for malformed entry")
	}
	if !domain.IsParseErrorKind(err, domain.ErrUnbalancedBracket) {
		t.Errorf("expected unbalanced bracket error, got %v", err)
	}

	// The old list survives a rejected submission.
	stored, _ := repo.ListByUser(ctx, 1, domain.KeywordKindMatch)
	if len(stored) != 1 || stored[0].Raw != "python" {
		t.Errorf("expected python preserved, got %+v", stored)
	}
}

func TestSetList_ReportsAllErrors(t *testing.T) {
	uc := NewKeywordUsecase(&mockKeywordRepo{}, DefaultKeywordLimits())

	_, err := uc.ValidateList([]string{"[one", `"two`, "ok"})
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "UNBALANCED_BRACKET") || !strings.Contains(msg, "UNBALANCED_QUOTE") {
		t.Errorf("expected both error kinds reported, got: %s", msg)
	}
}

func TestAdd_EnforcesLimit(t *testing.T) {
	repo := &mockKeywordRepo{}
	limits := DefaultKeywordLimits()
	limits.MaxKeywords = 2
	uc := NewKeywordUsecase(repo, limits)
	ctx := context.Background()

	for _, raw := range []string{"one", "two"} {
		if _, err := uc.Add(ctx, 1, raw, domain.KeywordKindMatch); err != nil {
			t.Fatalf("Add(%q) failed: %v", raw, err)
		}
	}
	_, err := uc.Add(ctx, 1, "three", domain.KeywordKindMatch)
	if !errors.Is(err, ErrTooManyKeywords) {
		t.Errorf("expected ErrTooManyKeywords, got %v", err)
	}

	// The ignore list has its own limit.
	if _, err := uc.Add(ctx, 1, "spam", domain.KeywordKindIgnore); err != nil {
		t.Errorf("ignore Add should not hit the keyword limit: %v", err)
	}
}

func TestAdd_RejectsTooLong(t *testing.T) {
	limits := DefaultKeywordLimits()
	uc := NewKeywordUsecase(&mockKeywordRepo{}, limits)

	long := strings.Repeat("a", limits.MaxKeywordLength+1)
	_, err := uc.Add(context.Background(), 1, long, domain.KeywordKindMatch)
	if !errors.Is(err, ErrKeywordTooLong) {
		t.Errorf("expected ErrKeywordTooLong, got %v", err)
	}
}

func TestDelete_ExactThenContains(t *testing.T) {
	repo := &mockKeywordRepo{}
	uc := NewKeywordUsecase(repo, DefaultKeywordLimits())
	ctx := context.Background()

	for _, raw := range []string{"[python+remote]", "golang"} {
		if _, err := uc.Add(ctx, 1, raw, domain.KeywordKindMatch); err != nil {
			t.Fatalf("Add(%q) failed: %v", raw, err)
		}
	}

	// Exact match wins.
	deleted, err := uc.Delete(ctx, 1, "golang", domain.KeywordKindMatch)
	if err != nil || deleted != "golang" {
		t.Fatalf("expected exact delete of golang, got %q, %v", deleted, err)
	}

	// Substring fallback finds the bracket pattern.
	deleted, err = uc.Delete(ctx, 1, "python", domain.KeywordKindMatch)
	if err != nil || deleted != "[python+remote]" {
		t.Fatalf("expected contains delete of [python+remote], got %q, %v", deleted, err)
	}

	_, err = uc.Delete(ctx, 1, "missing", domain.KeywordKindMatch)
	if !errors.Is(err, ErrKeywordNotFound) {
		t.Errorf("expected ErrKeywordNotFound, got %v", err)
	}
}

func TestPurge_OnlyTouchesOneKind(t *testing.T) {
	repo := &mockKeywordRepo{}
	uc := NewKeywordUsecase(repo, DefaultKeywordLimits())
	ctx := context.Background()

	uc.Add(ctx, 1, "python", domain.KeywordKindMatch)
	uc.Add(ctx, 1, "crypto", domain.KeywordKindIgnore)

	removed, err := uc.Purge(ctx, 1, domain.KeywordKindMatch)
	if err != nil || removed != 1 {
		t.Fatalf("expected 1 removed, got %d, %v", removed, err)
	}

	ignores, _ := repo.ListByUser(ctx, 1, domain.KeywordKindIgnore)
	if len(ignores) != 1 {
		t.Errorf("purge of keywords must not touch the ignore list")
	}
}
