package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/repo"
)

// ErrorRecord is one captured error-level log event
type ErrorRecord struct {
	Time    time.Time
	Message string
}

// ErrorNotifier captures error-level log events and reports them to the
// admin chat. The first error after a quiet period is sent immediately;
// further errors are batched until the cooldown elapses so a failing
// dependency cannot flood the admin.
//
// It implements zerolog.Hook and is attached to the global logger.
type ErrorNotifier struct {
	telegramRepo repo.TelegramRepo
	adminChatID  int64
	cooldown     time.Duration

	mu       sync.Mutex
	recent   []ErrorRecord
	pending  int
	lastSent time.Time

	notifyCh chan struct{}
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

const maxRecentErrors = 100

// NewErrorNotifier creates a new error notifier. adminChatID 0 disables
// admin delivery; errors are still recorded for the /errors command.
func NewErrorNotifier(telegramRepo repo.TelegramRepo, adminChatID int64, cooldown time.Duration) *ErrorNotifier {
	if cooldown <= 0 {
		cooldown = time.Hour
	}
	return &ErrorNotifier{
		telegramRepo: telegramRepo,
		adminChatID:  adminChatID,
		cooldown:     cooldown,
		notifyCh:     make(chan struct{}, 1),
		stopCh:       make(chan struct{}),
	}
}

// Run implements zerolog.Hook. It only records; delivery happens on the
// notifier's own goroutine so logging never blocks on Telegram.
func (n *ErrorNotifier) Run(_ *zerolog.Event, level zerolog.Level, message string) {
	if level < zerolog.ErrorLevel || level >= zerolog.NoLevel {
		return
	}

	n.mu.Lock()
	n.recent = append(n.recent, ErrorRecord{Time: time.Now(), Message: message})
	if len(n.recent) > maxRecentErrors {
		n.recent = n.recent[len(n.recent)-maxRecentErrors:]
	}
	n.pending++
	n.mu.Unlock()

	select {
	case n.notifyCh <- struct{}{}:
	default:
	}
}

// Start starts the delivery loop
func (n *ErrorNotifier) Start() {
	n.wg.Add(1)
	go n.loop()
}

// Stop stops the delivery loop
func (n *ErrorNotifier) Stop() {
	close(n.stopCh)
	n.wg.Wait()
}

func (n *ErrorNotifier) loop() {
	defer n.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-n.stopCh:
			return
		case <-n.notifyCh:
			n.flush()
		case <-ticker.C:
			n.flush()
		}
	}
}

// flush sends pending errors to the admin when the cooldown has elapsed
func (n *ErrorNotifier) flush() {
	if n.adminChatID == 0 {
		return
	}

	n.mu.Lock()
	if n.pending == 0 || time.Since(n.lastSent) < n.cooldown {
		n.mu.Unlock()
		return
	}
	count := n.pending
	var last ErrorRecord
	if len(n.recent) > 0 {
		last = n.recent[len(n.recent)-1]
	}
	n.pending = 0
	n.lastSent = time.Now()
	n.mu.Unlock()

	text := fmt.Sprintf("⚠️ %d error(s) since last report.\nLatest: %s", count, last.Message)
	// Send failures are dropped: reporting them through the logger
	// would re-enter this hook.
	_ = n.telegramRepo.SendText(context.Background(), n.adminChatID, text)
}

// Recent returns up to limit captured errors, newest last
func (n *ErrorNotifier) Recent(limit int) []ErrorRecord {
	n.mu.Lock()
	defer n.mu.Unlock()

	if limit <= 0 || limit > len(n.recent) {
		limit = len(n.recent)
	}
	out := make([]ErrorRecord, limit)
	copy(out, n.recent[len(n.recent)-limit:])
	return out
}
