package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobradar/telegram-keyword-bot/internal/infra/telegram"
	"github.com/jobradar/telegram-keyword-bot/internal/logging"
	"github.com/jobradar/telegram-keyword-bot/internal/service"
)

// BotServer routes incoming Telegram updates to the services
type BotServer struct {
	client     *telegram.Client
	forwarder  *service.ForwarderService
	commandSvc *service.CommandService
	adminSvc   *service.AdminService

	// Post deduplication cache: long polling can redeliver updates
	// after a restart or a timeout
	seenMu    sync.Mutex
	seenPosts map[string]time.Time
	seenTTL   time.Duration

	log zerolog.Logger
}

// NewBotServer creates a new bot server
func NewBotServer(
	client *telegram.Client,
	forwarder *service.ForwarderService,
	commandSvc *service.CommandService,
	adminSvc *service.AdminService,
	dedupWindow time.Duration,
) *BotServer {
	if dedupWindow <= 0 {
		dedupWindow = time.Hour
	}
	return &BotServer{
		client:     client,
		forwarder:  forwarder,
		commandSvc: commandSvc,
		adminSvc:   adminSvc,
		seenPosts:  make(map[string]time.Time),
		seenTTL:    dedupWindow,
		log:        logging.GetLogger("server"),
	}
}

// Start starts the server. Blocks until Stop is called.
func (s *BotServer) Start() error {
	s.client.OnUpdate(s.handleUpdate)
	return s.client.Start()
}

// Stop stops the server
func (s *BotServer) Stop() {
	s.client.Stop()
}

func (s *BotServer) handleUpdate(upd *telegram.Update) {
	ctx := context.Background()

	if upd.IsChannelPost {
		s.handleChannelPost(ctx, upd)
		return
	}
	if upd.IsCommand {
		s.handleCommand(ctx, upd)
	}
	// Plain direct messages are ignored; the bot is command-driven.
}

func (s *BotServer) handleChannelPost(ctx context.Context, upd *telegram.Update) {
	key := fmt.Sprintf("%d:%d", upd.ChannelID, upd.MessageID)
	if s.isPostSeen(key) {
		s.log.Debug().Str("post", key).Msg("duplicate channel post ignored")
		return
	}
	s.markPostSeen(key)

	_, err := s.forwarder.HandlePost(ctx, &service.ChannelPost{
		ChannelID: upd.ChannelID,
		MessageID: upd.MessageID,
		Title:     upd.ChannelTitle,
		Text:      upd.Text,
	})
	if err != nil {
		s.log.Error().Err(err).Int64("channel", upd.ChannelID).Msg("failed to process channel post")
	}
}

func (s *BotServer) handleCommand(ctx context.Context, upd *telegram.Update) {
	req := &service.CommandRequest{
		ChatID:    upd.ChatID,
		SenderID:  upd.SenderID,
		Username:  upd.Username,
		FirstName: upd.FirstName,
		Language:  upd.LanguageCode,
		Command:   upd.Command,
		Args:      upd.Args,
	}

	switch {
	case s.adminSvc.Handles(req.Command):
		s.adminSvc.Handle(ctx, req)
	case s.commandSvc.Handles(req.Command):
		s.commandSvc.Handle(ctx, req)
	default:
		s.log.Debug().Str("command", req.Command).Msg("unknown command ignored")
	}
}

func (s *BotServer) isPostSeen(key string) bool {
	s.seenMu.Lock()
	defer s.seenMu.Unlock()
	_, exists := s.seenPosts[key]
	return exists
}

func (s *BotServer) markPostSeen(key string) {
	s.seenMu.Lock()
	defer s.seenMu.Unlock()
	s.seenPosts[key] = time.Now()

	cutoff := time.Now().Add(-s.seenTTL)
	for id, ts := range s.seenPosts {
		if ts.Before(cutoff) {
			delete(s.seenPosts, id)
		}
	}
}
