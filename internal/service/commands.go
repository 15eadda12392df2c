package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/domain"
	"github.com/jobradar/telegram-keyword-bot/internal/biz/repo"
	"github.com/jobradar/telegram-keyword-bot/internal/biz/usecase"
	"github.com/jobradar/telegram-keyword-bot/internal/conf"
	"github.com/jobradar/telegram-keyword-bot/internal/logging"
)

// CommandRequest is one parsed bot command from a direct chat
type CommandRequest struct {
	ChatID    int64
	SenderID  int64
	Username  string
	FirstName string
	Language  string
	Command   string
	Args      string
}

// CommandService handles the user-facing bot commands
type CommandService struct {
	keywordUC    *usecase.KeywordUsecase
	matchUC      *usecase.MatchUsecase
	userRepo     repo.UserRepo
	telegramRepo repo.TelegramRepo
	limits       conf.LimitsConfig
	replies      *conf.RepliesConfig
	log          zerolog.Logger
}

// NewCommandService creates a new command service
func NewCommandService(
	keywordUC *usecase.KeywordUsecase,
	matchUC *usecase.MatchUsecase,
	userRepo repo.UserRepo,
	telegramRepo repo.TelegramRepo,
	limits conf.LimitsConfig,
	replies *conf.RepliesConfig,
) *CommandService {
	if replies == nil {
		replies = conf.DefaultRepliesConfig()
	}
	return &CommandService{
		keywordUC:    keywordUC,
		matchUC:      matchUC,
		userRepo:     userRepo,
		telegramRepo: telegramRepo,
		limits:       limits,
		replies:      replies,
		log:          logging.GetLogger("commands"),
	}
}

// Handles reports whether the command belongs to this service
func (s *CommandService) Handles(command string) bool {
	switch command {
	case "start", "menu", "help",
		"keywords", "add_keyword", "delete_keyword", "my_keywords", "purge_list",
		"ignore_keywords", "add_ignore", "delete_ignore", "my_ignore", "purge_ignore":
		return true
	}
	return false
}

// Handle executes one user command and sends the reply
func (s *CommandService) Handle(ctx context.Context, req *CommandRequest) {
	s.registerUser(ctx, req)

	var reply string
	switch req.Command {
	case "start":
		reply = s.replies.Start
	case "menu":
		reply = s.replies.Menu
	case "help":
		reply = s.replies.Help
	case "keywords":
		reply = s.setList(ctx, req, domain.KeywordKindMatch)
	case "ignore_keywords":
		reply = s.setList(ctx, req, domain.KeywordKindIgnore)
	case "add_keyword":
		reply = s.addKeyword(ctx, req, domain.KeywordKindMatch)
	case "add_ignore":
		reply = s.addKeyword(ctx, req, domain.KeywordKindIgnore)
	case "delete_keyword":
		reply = s.deleteKeyword(ctx, req, domain.KeywordKindMatch)
	case "delete_ignore":
		reply = s.deleteKeyword(ctx, req, domain.KeywordKindIgnore)
	case "my_keywords":
		reply = s.listKeywords(ctx, req, domain.KeywordKindMatch)
	case "my_ignore":
		reply = s.listKeywords(ctx, req, domain.KeywordKindIgnore)
	case "purge_list":
		reply = s.purge(ctx, req, domain.KeywordKindMatch)
	case "purge_ignore":
		reply = s.purge(ctx, req, domain.KeywordKindIgnore)
	default:
		return
	}

	if reply == "" {
		return
	}
	if err := s.telegramRepo.SendText(ctx, req.ChatID, reply); err != nil {
		s.log.Error().Err(err).Int64("chat", req.ChatID).Msg("failed to send command reply")
	}
}

// registerUser upserts the sender so /stats can count active users
func (s *CommandService) registerUser(ctx context.Context, req *CommandRequest) {
	now := time.Now()
	err := s.userRepo.Save(ctx, &domain.User{
		ChatID:       req.ChatID,
		Username:     req.Username,
		FirstName:    req.FirstName,
		Language:     req.Language,
		CreatedAt:    now,
		LastActiveAt: now,
	})
	if err != nil {
		s.log.Error().Err(err).Int64("chat", req.ChatID).Msg("failed to save user")
	}
}

func (s *CommandService) setList(ctx context.Context, req *CommandRequest, kind domain.KeywordKind) string {
	raws := splitSubmission(req.Args)
	if len(raws) == 0 {
		return s.replies.Help
	}

	entries, err := s.keywordUC.SetList(ctx, req.ChatID, raws, kind)
	if err != nil {
		return s.errorReply(err)
	}
	for _, entry := range entries {
		s.matchUC.InvalidateCache(entry.Raw)
	}
	return fmt.Sprintf(s.replies.KeywordsSaved, len(entries))
}

func (s *CommandService) addKeyword(ctx context.Context, req *CommandRequest, kind domain.KeywordKind) string {
	raw := strings.TrimSpace(req.Args)
	if raw == "" {
		return s.replies.Help
	}

	entry, err := s.keywordUC.Add(ctx, req.ChatID, raw, kind)
	if err != nil {
		return s.errorReply(err)
	}
	return fmt.Sprintf(s.replies.KeywordAdded, entry.Raw)
}

func (s *CommandService) deleteKeyword(ctx context.Context, req *CommandRequest, kind domain.KeywordKind) string {
	raw := strings.TrimSpace(req.Args)
	if raw == "" {
		return s.replies.Help
	}

	deleted, err := s.keywordUC.Delete(ctx, req.ChatID, raw, kind)
	if err != nil {
		if errors.Is(err, usecase.ErrKeywordNotFound) {
			return fmt.Sprintf(s.replies.KeywordMissing, raw)
		}
		return s.errorReply(err)
	}
	s.matchUC.InvalidateCache(deleted)
	return fmt.Sprintf(s.replies.KeywordDeleted, deleted)
}

func (s *CommandService) listKeywords(ctx context.Context, req *CommandRequest, kind domain.KeywordKind) string {
	stored, err := s.keywordUC.List(ctx, req.ChatID, kind)
	if err != nil {
		return s.errorReply(err)
	}
	if len(stored) == 0 {
		return s.replies.ListEmpty
	}

	header := s.replies.ListHeader
	if kind == domain.KeywordKindIgnore {
		header = s.replies.IgnoreHeader
	}

	var b strings.Builder
	b.WriteString(header)
	for i, kw := range stored {
		b.WriteString(fmt.Sprintf("\n%d. %s", i+1, kw.Raw))
	}
	return b.String()
}

func (s *CommandService) purge(ctx context.Context, req *CommandRequest, kind domain.KeywordKind) string {
	if _, err := s.keywordUC.Purge(ctx, req.ChatID, kind); err != nil {
		return s.errorReply(err)
	}
	return s.replies.ListPurged
}

// errorReply maps usecase errors to user-facing replies
func (s *CommandService) errorReply(err error) string {
	var parseErr *domain.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Sprintf(s.replies.InvalidPattern, parseErr.Input, parseErr.Kind)
	}
	if errors.Is(err, usecase.ErrTooManyKeywords) {
		return fmt.Sprintf(s.replies.TooMany, s.limits.MaxKeywords)
	}
	if errors.Is(err, usecase.ErrKeywordTooLong) {
		return fmt.Sprintf(s.replies.TooLong, s.limits.MaxKeywordLength, "")
	}
	s.log.Error().Err(err).Msg("command failed")
	return s.replies.InternalError
}

// splitSubmission splits a command argument string into raw keyword
// patterns. Commas separate entries at the top level only, so a comma
// never appears inside a pattern.
func splitSubmission(args string) []string {
	var out []string
	for _, part := range strings.Split(args, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
