package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/domain"
	"github.com/jobradar/telegram-keyword-bot/internal/biz/usecase"
)

// mockChannelRepo implements repo.ChannelRepo for testing
type mockChannelRepo struct {
	channels map[int64]*domain.MonitoredChannel
}

func (m *mockChannelRepo) GetByID(ctx context.Context, channelID int64) (*domain.MonitoredChannel, error) {
	return m.channels[channelID], nil
}

func (m *mockChannelRepo) Save(ctx context.Context, channel *domain.MonitoredChannel) error {
	if m.channels == nil {
		m.channels = make(map[int64]*domain.MonitoredChannel)
	}
	m.channels[channel.ChannelID] = channel
	return nil
}

func (m *mockChannelRepo) Delete(ctx context.Context, channelID int64) (bool, error) {
	if _, ok := m.channels[channelID]; !ok {
		return false, nil
	}
	delete(m.channels, channelID)
	return true, nil
}

func (m *mockChannelRepo) ListAll(ctx context.Context) ([]*domain.MonitoredChannel, error) {
	var out []*domain.MonitoredChannel
	for _, ch := range m.channels {
		out = append(out, ch)
	}
	return out, nil
}

// mockKeywordRepo implements repo.KeywordRepo for testing
type mockKeywordRepo struct {
	keywords map[int64][]string // chatID -> match keywords
}

func (m *mockKeywordRepo) ListByUser(ctx context.Context, chatID int64, kind domain.KeywordKind) ([]*domain.UserKeyword, error) {
	if kind != domain.KeywordKindMatch {
		return nil, nil
	}
	var out []*domain.UserKeyword
	for _, raw := range m.keywords[chatID] {
		out = append(out, &domain.UserKeyword{ChatID: chatID, Raw: raw, Kind: kind})
	}
	return out, nil
}

func (m *mockKeywordRepo) Add(ctx context.Context, chatID int64, raw string, kind domain.KeywordKind) error {
	return nil
}

func (m *mockKeywordRepo) Delete(ctx context.Context, chatID int64, raw string, kind domain.KeywordKind) (bool, error) {
	return false, nil
}

func (m *mockKeywordRepo) DeleteAll(ctx context.Context, chatID int64, kind domain.KeywordKind) (int64, error) {
	return 0, nil
}

func (m *mockKeywordRepo) CountByUser(ctx context.Context, chatID int64, kind domain.KeywordKind) (int, error) {
	return len(m.keywords[chatID]), nil
}

func (m *mockKeywordRepo) ListSubscribers(ctx context.Context) ([]int64, error) {
	var out []int64
	for chatID := range m.keywords {
		out = append(out, chatID)
	}
	return out, nil
}

// mockForwardRepo implements repo.ForwardRepo for testing
type mockForwardRepo struct {
	mu      sync.Mutex
	records []*domain.ForwardRecord
}

func (m *mockForwardRepo) Seen(ctx context.Context, chatID, channelID int64, messageID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ChatID == chatID && r.ChannelID == channelID && r.MessageID == messageID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockForwardRepo) Record(ctx context.Context, record *domain.ForwardRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *mockForwardRepo) CountSince(ctx context.Context, chatID int64, since time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, r := range m.records {
		if r.ChatID == chatID && !r.ForwardedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *mockForwardRepo) Stats(ctx context.Context) (*domain.ForwardStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &domain.ForwardStats{TotalForwards: int64(len(m.records))}, nil
}

// mockUserRepo implements repo.UserRepo for testing
type mockUserRepo struct {
	forwards map[int64]int64
}

func (m *mockUserRepo) GetByChat(ctx context.Context, chatID int64) (*domain.User, error) {
	return nil, nil
}

func (m *mockUserRepo) Save(ctx context.Context, user *domain.User) error { return nil }

func (m *mockUserRepo) Touch(ctx context.Context, chatID int64) error { return nil }

func (m *mockUserRepo) IncrementForwards(ctx context.Context, chatID int64) error {
	if m.forwards == nil {
		m.forwards = make(map[int64]int64)
	}
	m.forwards[chatID]++
	return nil
}

func (m *mockUserRepo) CountActiveSince(ctx context.Context, since time.Time) (int64, error) {
	return 0, nil
}

func (m *mockUserRepo) Close() error { return nil }

// mockTelegramRepo implements repo.TelegramRepo for testing
type mockTelegramRepo struct {
	mu        sync.Mutex
	sent      []string
	forwarded []string
	failFor   map[int64]bool
}

func (m *mockTelegramRepo) SendText(ctx context.Context, chatID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, fmt.Sprintf("%d:%s", chatID, text))
	return nil
}

func (m *mockTelegramRepo) ForwardMessage(ctx context.Context, toChatID, fromChannelID int64, messageID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[toChatID] {
		return errors.New("chat blocked the bot")
	}
	m.forwarded = append(m.forwarded, fmt.Sprintf("%d<-%d:%d", toChatID, fromChannelID, messageID))
	return nil
}

// mockFilterRepo implements repo.FilterRepo for testing
type mockFilterRepo struct {
	spam bool
	err  error
}

func (m *mockFilterRepo) IsSpam(ctx context.Context, text string) (bool, error) {
	return m.spam, m.err
}

func newTestForwarder(channels *mockChannelRepo, keywords *mockKeywordRepo, tg *mockTelegramRepo, filter *mockFilterRepo) (*ForwarderService, *mockForwardRepo) {
	forwards := &mockForwardRepo{}
	matchUC := usecase.NewMatchUsecase(keywords, 4)
	forwardUC := usecase.NewForwardUsecase(forwards, &mockUserRepo{}, tg, 0)

	// A typed nil in the interface would look enabled, so branch on the
	// concrete value.
	if filter == nil {
		return NewForwarderService(channels, nil, matchUC, forwardUC, 0), forwards
	}
	return NewForwarderService(channels, filter, matchUC, forwardUC, 0), forwards
}

func monitoredChannel(id int64) *mockChannelRepo {
	return &mockChannelRepo{channels: map[int64]*domain.MonitoredChannel{
		id: {ChannelID: id, Status: domain.ChannelStatusActive},
	}}
}

func TestHandlePost_ForwardsToMatchingSubscribers(t *testing.T) {
	keywords := &mockKeywordRepo{keywords: map[int64][]string{
		10: {"python"},
		11: {"java"},
	}}
	tg := &mockTelegramRepo{}
	svc, forwards := newTestForwarder(monitoredChannel(-100), keywords, tg, nil)

	delivered, err := svc.HandlePost(context.Background(), &ChannelPost{
		ChannelID: -100, MessageID: 7, Text: "Python developer wanted",
	})
	if err != nil {
		t.Fatalf("HandlePost failed: %v", err)
	}
	if delivered != 1 {
		t.Fatalf("expected 1 delivery, got %d", delivered)
	}
	if len(tg.forwarded) != 1 || tg.forwarded[0] != "10<--100:7" {
		t.Errorf("unexpected forwards: %v", tg.forwarded)
	}
	if len(forwards.records) != 1 {
		t.Errorf("expected 1 forward record, got %d", len(forwards.records))
	}
}

func TestHandlePost_IgnoresUnmonitoredChannel(t *testing.T) {
	keywords := &mockKeywordRepo{keywords: map[int64][]string{10: {"python"}}}
	tg := &mockTelegramRepo{}
	svc, _ := newTestForwarder(&mockChannelRepo{}, keywords, tg, nil)

	delivered, err := svc.HandlePost(context.Background(), &ChannelPost{
		ChannelID: -999, MessageID: 1, Text: "Python developer wanted",
	})
	if err != nil || delivered != 0 {
		t.Fatalf("expected no delivery for unmonitored channel, got %d, %v", delivered, err)
	}
	if len(tg.forwarded) != 0 {
		t.Errorf("unexpected forwards: %v", tg.forwarded)
	}
}

func TestHandlePost_DisabledChannelIgnored(t *testing.T) {
	channels := &mockChannelRepo{channels: map[int64]*domain.MonitoredChannel{
		-100: {ChannelID: -100, Status: domain.ChannelStatusDisabled},
	}}
	keywords := &mockKeywordRepo{keywords: map[int64][]string{10: {"python"}}}
	tg := &mockTelegramRepo{}
	svc, _ := newTestForwarder(channels, keywords, tg, nil)

	delivered, _ := svc.HandlePost(context.Background(), &ChannelPost{
		ChannelID: -100, MessageID: 1, Text: "Python developer wanted",
	})
	if delivered != 0 || len(tg.forwarded) != 0 {
		t.Errorf("disabled channel must not forward, got %d deliveries", delivered)
	}
}

func TestHandlePost_DeduplicatesRedelivery(t *testing.T) {
	keywords := &mockKeywordRepo{keywords: map[int64][]string{10: {"python"}}}
	tg := &mockTelegramRepo{}
	svc, _ := newTestForwarder(monitoredChannel(-100), keywords, tg, nil)
	ctx := context.Background()
	post := &ChannelPost{ChannelID: -100, MessageID: 7, Text: "Python developer wanted"}

	if delivered, _ := svc.HandlePost(ctx, post); delivered != 1 {
		t.Fatalf("expected first delivery")
	}
	if delivered, _ := svc.HandlePost(ctx, post); delivered != 0 {
		t.Errorf("expected redelivery to be deduplicated")
	}
	if len(tg.forwarded) != 1 {
		t.Errorf("expected exactly 1 forward, got %d", len(tg.forwarded))
	}
}

func TestHandlePost_SpamFilterDrops(t *testing.T) {
	keywords := &mockKeywordRepo{keywords: map[int64][]string{10: {"python"}}}
	tg := &mockTelegramRepo{}
	svc, _ := newTestForwarder(monitoredChannel(-100), keywords, tg, &mockFilterRepo{spam: true})

	delivered, err := svc.HandlePost(context.Background(), &ChannelPost{
		ChannelID: -100, MessageID: 7, Text: "Python developer wanted",
	})
	if err != nil || delivered != 0 {
		t.Fatalf("expected spam post dropped, got %d, %v", delivered, err)
	}
	_, _, filtered := svc.Counters()
	if filtered != 1 {
		t.Errorf("expected filtered counter 1, got %d", filtered)
	}
}

func TestHandlePost_FilterFailureFailsOpen(t *testing.T) {
	keywords := &mockKeywordRepo{keywords: map[int64][]string{10: {"python"}}}
	tg := &mockTelegramRepo{}
	svc, _ := newTestForwarder(monitoredChannel(-100), keywords, tg, &mockFilterRepo{err: errors.New("api down")})

	delivered, err := svc.HandlePost(context.Background(), &ChannelPost{
		ChannelID: -100, MessageID: 7, Text: "Python developer wanted",
	})
	if err != nil || delivered != 1 {
		t.Fatalf("expected post to pass through on filter failure, got %d, %v", delivered, err)
	}
}

func TestHandlePost_OneFailedDeliveryDoesNotStopFanout(t *testing.T) {
	keywords := &mockKeywordRepo{keywords: map[int64][]string{
		10: {"python"},
		11: {"python"},
	}}
	tg := &mockTelegramRepo{failFor: map[int64]bool{10: true}}
	svc, _ := newTestForwarder(monitoredChannel(-100), keywords, tg, nil)

	delivered, err := svc.HandlePost(context.Background(), &ChannelPost{
		ChannelID: -100, MessageID: 7, Text: "Python developer wanted",
	})
	if err != nil {
		t.Fatalf("HandlePost failed: %v", err)
	}
	if delivered != 1 {
		t.Errorf("expected the healthy chat to still receive the post, got %d", delivered)
	}
}

func TestHandlePost_EmptyTextIgnored(t *testing.T) {
	keywords := &mockKeywordRepo{keywords: map[int64][]string{10: {"python"}}}
	tg := &mockTelegramRepo{}
	svc, _ := newTestForwarder(monitoredChannel(-100), keywords, tg, nil)

	delivered, err := svc.HandlePost(context.Background(), &ChannelPost{
		ChannelID: -100, MessageID: 7, Text: "   ",
	})
	if err != nil || delivered != 0 {
		t.Errorf("expected empty post ignored, got %d, %v", delivered, err)
	}
}
