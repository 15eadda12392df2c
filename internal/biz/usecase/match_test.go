package usecase

import (
	"context"
	"sort"
	"testing"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/domain"
)

func seedKeywords(t *testing.T, repo *mockKeywordRepo, chatID int64, keywords, ignores []string) {
	t.Helper()
	ctx := context.Background()
	for _, raw := range keywords {
		if err := repo.Add(ctx, chatID, raw, domain.KeywordKindMatch); err != nil {
			t.Fatalf("seed keyword %q: %v", raw, err)
		}
	}
	for _, raw := range ignores {
		if err := repo.Add(ctx, chatID, raw, domain.KeywordKindIgnore); err != nil {
			t.Fatalf("seed ignore %q: %v", raw, err)
		}
	}
}

func TestMatchSubscribers(t *testing.T) {
	repo := &mockKeywordRepo{}
	seedKeywords(t, repo, 1, []string{"python"}, nil)
	seedKeywords(t, repo, 2, []string{"[golang]", "remote", "online"}, nil)
	seedKeywords(t, repo, 3, []string{"python"}, []string{"senior"})

	uc := NewMatchUsecase(repo, 4)
	ctx := context.Background()

	subscribers, err := uc.Subscribers(ctx)
	if err != nil {
		t.Fatalf("Subscribers failed: %v", err)
	}

	tests := []struct {
		name string
		text string
		want []int64
	}{
		{
			name: "simple literal",
			text: "Python developer wanted",
			want: []int64{1, 3},
		},
		{
			name: "required and optional together",
			text: "Remote Golang engineer",
			want: []int64{2},
		},
		{
			name: "required without optional",
			text: "Golang engineer, on-site",
			want: nil,
		},
		{
			name: "ignore vetoes",
			text: "Senior Python developer",
			want: []int64{1},
		},
		{
			name: "no match",
			text: "Java position",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := uc.MatchSubscribers(ctx, tt.text, subscribers)
			if err != nil {
				t.Fatalf("MatchSubscribers failed: %v", err)
			}
			sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestMatchSubscribers_EmptyProfileNeverMatches(t *testing.T) {
	repo := &mockKeywordRepo{}
	// User 5 only has ignore keywords, no match keywords.
	seedKeywords(t, repo, 5, nil, []string{"spam"})

	uc := NewMatchUsecase(repo, 2)
	got, err := uc.MatchSubscribers(context.Background(), "anything at all", []int64{5, 6})
	if err != nil {
		t.Fatalf("MatchSubscribers failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("users without match keywords must not receive forwards, got %v", got)
	}
}

func TestBuildProfile_SkipsUnparseableEntries(t *testing.T) {
	repo := &mockKeywordRepo{}
	// Bypass validation to simulate a stored entry from an older grammar.
	repo.entries = append(repo.entries, &domain.UserKeyword{
		ID: 1, ChatID: 7, Raw: "[broken", Kind: domain.KeywordKindMatch,
	})
	seedKeywords(t, repo, 7, []string{"python"}, nil)

	uc := NewMatchUsecase(repo, 1)
	profile, err := uc.BuildProfile(context.Background(), 7)
	if err != nil {
		t.Fatalf("BuildProfile failed: %v", err)
	}
	if !profile.EvaluateText("python job") {
		t.Error("valid entry should still match")
	}
	if profile.IsEmpty() {
		t.Error("profile should contain the valid entry")
	}
}

func TestCompileCache(t *testing.T) {
	repo := &mockKeywordRepo{}
	seedKeywords(t, repo, 1, []string{"python", "golang"}, nil)

	uc := NewMatchUsecase(repo, 1)
	ctx := context.Background()

	if _, err := uc.BuildProfile(ctx, 1); err != nil {
		t.Fatalf("BuildProfile failed: %v", err)
	}
	if got := uc.CachedPatterns(); got != 2 {
		t.Errorf("expected 2 cached patterns, got %d", got)
	}

	uc.InvalidateCache("python")
	if got := uc.CachedPatterns(); got != 1 {
		t.Errorf("expected 1 cached pattern after invalidation, got %d", got)
	}

	// Rebuild repopulates the evicted entry.
	if _, err := uc.BuildProfile(ctx, 1); err != nil {
		t.Fatalf("BuildProfile failed: %v", err)
	}
	if got := uc.CachedPatterns(); got != 2 {
		t.Errorf("expected 2 cached patterns after rebuild, got %d", got)
	}
}
