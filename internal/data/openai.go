package data

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/repo"
)

// FilterConfig configures the optional pre-forward spam filter
type FilterConfig struct {
	APIKey  string
	BaseURL string // OpenAI-compatible endpoint, default api.openai.com
	Model   string
}

const spamFilterPrompt = `You are a spam filter for a job-posting forwarder.
Classify the following channel post. Answer with exactly one word:
"spam" for advertising, scams, crypto pumping or link farms,
"ok" for everything else, including legitimate job postings.`

// spamFilterRepo implements the Filter repository on an OpenAI-compatible API
type spamFilterRepo struct {
	client *openai.Client
	model  string
}

// NewSpamFilterRepo creates a spam filter repository.
// Returns nil (filtering disabled) when no API key is configured.
func NewSpamFilterRepo(cfg FilterConfig) repo.FilterRepo {
	if cfg.APIKey == "" {
		return nil
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &spamFilterRepo{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

// IsSpam classifies one channel post before fan-out
func (r *spamFilterRepo) IsSpam(ctx context.Context, text string) (bool, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: spamFilterPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens:   4,
		Temperature: 0,
	})
	if err != nil {
		return false, fmt.Errorf("failed to call spam filter: %w", err)
	}
	if len(resp.Choices) == 0 {
		return false, nil
	}

	answer := strings.ToLower(strings.TrimSpace(resp.Choices[0].Message.Content))
	return strings.HasPrefix(answer, "spam"), nil
}
