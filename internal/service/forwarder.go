package service

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/repo"
	"github.com/jobradar/telegram-keyword-bot/internal/biz/usecase"
	"github.com/jobradar/telegram-keyword-bot/internal/logging"
)

// ChannelPost is one incoming channel message to route to subscribers
type ChannelPost struct {
	ChannelID int64
	MessageID int
	Title     string
	Text      string
}

// ForwarderService routes channel posts to matching subscribers:
// monitored-channel gate, optional spam filter, keyword matching, then
// paced delivery
type ForwarderService struct {
	channelRepo repo.ChannelRepo
	filterRepo  repo.FilterRepo
	matchUC     *usecase.MatchUsecase
	forwardUC   *usecase.ForwardUsecase
	delay       time.Duration

	// counters for /stats
	postsProcessed atomic.Int64
	postsForwarded atomic.Int64
	postsFiltered  atomic.Int64

	log zerolog.Logger
}

// NewForwarderService creates a new forwarder service. filterRepo may be
// nil, which disables spam filtering. delay paces consecutive forwards of
// one post.
func NewForwarderService(
	channelRepo repo.ChannelRepo,
	filterRepo repo.FilterRepo,
	matchUC *usecase.MatchUsecase,
	forwardUC *usecase.ForwardUsecase,
	delay time.Duration,
) *ForwarderService {
	return &ForwarderService{
		channelRepo: channelRepo,
		filterRepo:  filterRepo,
		matchUC:     matchUC,
		forwardUC:   forwardUC,
		delay:       delay,
		log:         logging.GetLogger("forwarder"),
	}
}

// HandlePost processes one channel post end to end. Returns the number of
// subscribers the post was delivered to.
func (s *ForwarderService) HandlePost(ctx context.Context, post *ChannelPost) (int, error) {
	if strings.TrimSpace(post.Text) == "" {
		return 0, nil
	}

	channel, err := s.channelRepo.GetByID(ctx, post.ChannelID)
	if err != nil {
		return 0, err
	}
	if channel == nil || !channel.IsActive() {
		s.log.Debug().Int64("channel", post.ChannelID).Msg("post from unmonitored channel ignored")
		return 0, nil
	}

	s.postsProcessed.Add(1)

	if s.filterRepo != nil {
		spam, err := s.filterRepo.IsSpam(ctx, post.Text)
		if err != nil {
			// The filter is best-effort: on classifier failure the post
			// goes through rather than being silently dropped.
			s.log.Warn().Err(err).Msg("spam filter unavailable, post passed through")
		} else if spam {
			s.postsFiltered.Add(1)
			s.log.Info().Int64("channel", post.ChannelID).Int("message", post.MessageID).Msg("post dropped by spam filter")
			return 0, nil
		}
	}

	subscribers, err := s.matchUC.Subscribers(ctx)
	if err != nil {
		return 0, err
	}
	if len(subscribers) == 0 {
		return 0, nil
	}

	matched, err := s.matchUC.MatchSubscribers(ctx, post.Text, subscribers)
	if err != nil {
		return 0, err
	}
	if len(matched) == 0 {
		return 0, nil
	}

	delivered := 0
	for i, chatID := range matched {
		if i > 0 && s.delay > 0 {
			select {
			case <-ctx.Done():
				return delivered, ctx.Err()
			case <-time.After(s.delay):
			}
		}
		ok, err := s.forwardUC.Deliver(ctx, chatID, post.ChannelID, post.MessageID)
		if err != nil {
			// One blocked or deleted chat must not stop the rest of
			// the fan-out.
			s.log.Error().Err(err).Int64("chat", chatID).Msg("failed to deliver post")
			continue
		}
		if ok {
			delivered++
		}
	}

	if delivered > 0 {
		s.postsForwarded.Add(1)
		s.log.Info().
			Int64("channel", post.ChannelID).
			Int("message", post.MessageID).
			Int("matched", len(matched)).
			Int("delivered", delivered).
			Msg("post forwarded")
	}
	return delivered, nil
}

// Counters reports processed/forwarded/filtered post totals since start
func (s *ForwarderService) Counters() (processed, forwarded, filtered int64) {
	return s.postsProcessed.Load(), s.postsForwarded.Load(), s.postsFiltered.Load()
}
