package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/domain"
	"github.com/jobradar/telegram-keyword-bot/internal/biz/repo"
	"github.com/jobradar/telegram-keyword-bot/internal/biz/usecase"
	"github.com/jobradar/telegram-keyword-bot/internal/conf"
	"github.com/jobradar/telegram-keyword-bot/internal/logging"
)

// AdminService handles the admin-only bot commands
type AdminService struct {
	adminChatID  int64
	channelRepo  repo.ChannelRepo
	telegramRepo repo.TelegramRepo
	matchUC      *usecase.MatchUsecase
	forwardUC    *usecase.ForwardUsecase
	forwarder    *ForwarderService
	health       *HealthMonitor
	notifier     *ErrorNotifier
	replies      *conf.RepliesConfig
	log          zerolog.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(
	adminChatID int64,
	channelRepo repo.ChannelRepo,
	telegramRepo repo.TelegramRepo,
	matchUC *usecase.MatchUsecase,
	forwardUC *usecase.ForwardUsecase,
	forwarder *ForwarderService,
	health *HealthMonitor,
	notifier *ErrorNotifier,
	replies *conf.RepliesConfig,
) *AdminService {
	if replies == nil {
		replies = conf.DefaultRepliesConfig()
	}
	return &AdminService{
		adminChatID:  adminChatID,
		channelRepo:  channelRepo,
		telegramRepo: telegramRepo,
		matchUC:      matchUC,
		forwardUC:    forwardUC,
		forwarder:    forwarder,
		health:       health,
		notifier:     notifier,
		replies:      replies,
		log:          logging.GetLogger("admin"),
	}
}

// Handles reports whether the command belongs to this service
func (s *AdminService) Handles(command string) bool {
	switch command {
	case "health", "stats", "errors", "channels", "add_channel", "remove_channel":
		return true
	}
	return false
}

// Handle executes one admin command and sends the reply. Non-admin
// senders get a refusal.
func (s *AdminService) Handle(ctx context.Context, req *CommandRequest) {
	var reply string
	if s.adminChatID == 0 || req.ChatID != s.adminChatID {
		reply = s.replies.NotAdmin
	} else {
		switch req.Command {
		case "health":
			reply = s.healthReport()
		case "stats":
			reply = s.statsReport(ctx)
		case "errors":
			reply = s.errorsReport()
		case "channels":
			reply = s.listChannels(ctx)
		case "add_channel":
			reply = s.addChannel(ctx, req.Args)
		case "remove_channel":
			reply = s.removeChannel(ctx, req.Args)
		default:
			return
		}
	}

	if err := s.telegramRepo.SendText(ctx, req.ChatID, reply); err != nil {
		s.log.Error().Err(err).Int64("chat", req.ChatID).Msg("failed to send admin reply")
	}
}

func (s *AdminService) healthReport() string {
	status := s.health.Status()
	state := "✅ healthy"
	if !status.Healthy {
		state = fmt.Sprintf("❌ unhealthy (%d consecutive failures)", status.FailureCount)
	}
	report := fmt.Sprintf("Status: %s\nUptime: %s\nLast check: %s",
		state, status.Uptime, status.LastCheck.Format(time.RFC3339))
	if status.LastError != "" {
		report += "\nLast error: " + status.LastError
	}
	return report
}

func (s *AdminService) statsReport(ctx context.Context) string {
	stats, err := s.forwardUC.Stats(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load stats")
		return s.replies.InternalError
	}
	processed, forwarded, filtered := s.forwarder.Counters()

	return fmt.Sprintf(
		"Forwards total: %d\nForwards today: %d\nActive users today: %d\n"+
			"Posts processed: %d\nPosts forwarded: %d\nPosts filtered: %d\n"+
			"Compiled patterns cached: %d",
		stats.TotalForwards, stats.ForwardsToday, stats.ActiveUsers,
		processed, forwarded, filtered,
		s.matchUC.CachedPatterns())
}

func (s *AdminService) errorsReport() string {
	records := s.notifier.Recent(10)
	if len(records) == 0 {
		return "No recent errors."
	}
	var b strings.Builder
	b.WriteString("Recent errors:")
	for _, rec := range records {
		b.WriteString(fmt.Sprintf("\n%s  %s", rec.Time.Format("15:04:05"), rec.Message))
	}
	return b.String()
}

func (s *AdminService) listChannels(ctx context.Context) string {
	channels, err := s.channelRepo.ListAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list channels")
		return s.replies.InternalError
	}
	if len(channels) == 0 {
		return "No channels monitored."
	}
	var b strings.Builder
	b.WriteString("Monitored channels:")
	for _, ch := range channels {
		name := ch.Title
		if name == "" {
			name = ch.Username
		}
		b.WriteString(fmt.Sprintf("\n%d  %s  [%s]", ch.ChannelID, name, ch.Status))
	}
	return b.String()
}

// addChannel adds a channel by numeric ID with an optional title:
// /add_channel -1001234567890 Go Jobs
func (s *AdminService) addChannel(ctx context.Context, args string) string {
	fields := strings.Fields(strings.TrimSpace(args))
	if len(fields) == 0 {
		return "Usage: /add_channel <channel_id> [title]"
	}
	channelID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return fmt.Sprintf("Invalid channel ID: %s", fields[0])
	}

	channel := &domain.MonitoredChannel{
		ChannelID: channelID,
		Title:     strings.Join(fields[1:], " "),
		Status:    domain.ChannelStatusActive,
		AddedAt:   time.Now(),
	}
	if err := s.channelRepo.Save(ctx, channel); err != nil {
		s.log.Error().Err(err).Int64("channel", channelID).Msg("failed to add channel")
		return s.replies.InternalError
	}
	return fmt.Sprintf("Channel %d is now monitored.", channelID)
}

func (s *AdminService) removeChannel(ctx context.Context, args string) string {
	channelID, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		return "Usage: /remove_channel <channel_id>"
	}
	removed, err := s.channelRepo.Delete(ctx, channelID)
	if err != nil {
		s.log.Error().Err(err).Int64("channel", channelID).Msg("failed to remove channel")
		return s.replies.InternalError
	}
	if !removed {
		return fmt.Sprintf("Channel %d was not monitored.", channelID)
	}
	return fmt.Sprintf("Channel %d removed.", channelID)
}
