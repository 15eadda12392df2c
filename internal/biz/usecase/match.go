package usecase

import (
	"context"
	"sync"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/errgroup"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/domain"
	"github.com/jobradar/telegram-keyword-bot/internal/biz/repo"
)

// MatchUsecase evaluates channel posts against subscriber keyword profiles.
// Compiled patterns are cached by raw keyword text: parsing is pure and
// deterministic, so an entry stays valid for as long as the keyword exists.
type MatchUsecase struct {
	keywordRepo repo.KeywordRepo
	cache       *ttlcache.Cache[string, *domain.KeywordEntry]
	fanout      int
}

// NewMatchUsecase creates a new match usecase. fanout bounds how many
// subscriber profiles are evaluated concurrently per post.
func NewMatchUsecase(keywordRepo repo.KeywordRepo, fanout int) *MatchUsecase {
	if fanout < 1 {
		fanout = 1
	}
	return &MatchUsecase{
		keywordRepo: keywordRepo,
		cache: ttlcache.New[string, *domain.KeywordEntry](
			ttlcache.WithTTL[string, *domain.KeywordEntry](ttlcache.NoTTL),
		),
		fanout: fanout,
	}
}

// compile parses raw through the read-through cache
func (uc *MatchUsecase) compile(raw string) (*domain.KeywordEntry, error) {
	if item := uc.cache.Get(raw); item != nil {
		return item.Value(), nil
	}
	entry, err := domain.ParseKeyword(raw)
	if err != nil {
		return nil, err
	}
	uc.cache.Set(raw, entry, ttlcache.NoTTL)
	return entry, nil
}

// BuildProfile loads and compiles one user's keyword profile. Stored strings
// were validated at submission time; anything that no longer parses is
// skipped rather than failing the whole profile.
func (uc *MatchUsecase) BuildProfile(ctx context.Context, chatID int64) (*domain.KeywordProfile, error) {
	keywords, err := uc.keywordRepo.ListByUser(ctx, chatID, domain.KeywordKindMatch)
	if err != nil {
		return nil, err
	}
	ignores, err := uc.keywordRepo.ListByUser(ctx, chatID, domain.KeywordKindIgnore)
	if err != nil {
		return nil, err
	}

	var kw, ig []*domain.KeywordEntry
	for _, stored := range keywords {
		if entry, err := uc.compile(stored.Raw); err == nil {
			kw = append(kw, entry)
		}
	}
	for _, stored := range ignores {
		if entry, err := uc.compile(stored.Raw); err == nil {
			ig = append(ig, entry)
		}
	}
	return domain.NewKeywordProfile(kw, ig), nil
}

// MatchSubscribers evaluates one post against every subscriber and returns
// the chat IDs it should be forwarded to. The message is normalized once;
// evaluations run in parallel with no ordering between users.
func (uc *MatchUsecase) MatchSubscribers(ctx context.Context, text string, chatIDs []int64) ([]int64, error) {
	msg := domain.NormalizeMessage(text)

	var mu sync.Mutex
	var matched []int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.fanout)
	for _, chatID := range chatIDs {
		g.Go(func() error {
			profile, err := uc.BuildProfile(gctx, chatID)
			if err != nil {
				return err
			}
			// An empty profile would match everything; only users who
			// configured keywords receive forwards.
			if profile.IsEmpty() {
				return nil
			}
			if profile.Evaluate(msg) {
				mu.Lock()
				matched = append(matched, chatID)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return matched, nil
}

// Subscribers lists every user with at least one match keyword
func (uc *MatchUsecase) Subscribers(ctx context.Context) ([]int64, error) {
	return uc.keywordRepo.ListSubscribers(ctx)
}

// CachedPatterns reports the compiled-pattern cache size
func (uc *MatchUsecase) CachedPatterns() int {
	return uc.cache.Len()
}

// InvalidateCache drops one raw keyword from the compiled-pattern cache,
// used when a user deletes or replaces keywords
func (uc *MatchUsecase) InvalidateCache(raw string) {
	uc.cache.Delete(raw)
}
