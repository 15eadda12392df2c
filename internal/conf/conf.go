package conf

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jobradar/telegram-keyword-bot/internal/biz/usecase"
)

// Config represents application configuration
type Config struct {
	// Telegram configuration
	Telegram TelegramConfig

	// Database configuration
	Database DatabaseConfig

	// Keyword limits
	Limits LimitsConfig

	// Forwarding configuration
	Forward ForwardConfig

	// Spam filter configuration (optional)
	Filter FilterConfig

	// Monitoring configuration
	Monitor MonitorConfig

	// Ops HTTP API configuration
	API APIConfig

	// Reply templates (loaded from YAML)
	Replies *RepliesConfig

	// Debug mode
	Debug bool
}

// TelegramConfig contains Telegram configuration
type TelegramConfig struct {
	Token       string
	AdminChatID int64
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Path string
}

// LimitsConfig bounds per-user keyword storage
type LimitsConfig struct {
	MaxKeywords       int
	MaxIgnoreKeywords int
	MaxKeywordLength  int
}

// ForwardConfig contains forwarding configuration
type ForwardConfig struct {
	DelayMs        int // delay between consecutive forwards of one post
	DailyLimit     int // max forwards per user per day, 0 disables
	Fanout         int // concurrent subscriber evaluations per post
	DedupWindowMin int // minutes an already-seen post stays in the dedup cache
}

// FilterConfig contains spam filter configuration
type FilterConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// MonitorConfig contains health and error monitoring configuration
type MonitorConfig struct {
	HealthIntervalSec int
	ErrorCooldownSec  int
}

// APIConfig contains the ops HTTP API configuration
type APIConfig struct {
	Port int // 0 disables the API
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		homeDir, _ := os.UserHomeDir()
		dbPath = filepath.Join(homeDir, ".keyword-bot", "bot.db")
	}

	adminChatID := int64(0)
	if val := os.Getenv("ADMIN_CHAT_ID"); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			adminChatID = parsed
		}
	}

	repliesPath := os.Getenv("REPLIES_CONFIG_PATH")
	replies, _ := LoadRepliesConfig(repliesPath)

	return &Config{
		Telegram: TelegramConfig{
			Token:       os.Getenv("TELEGRAM_BOT_TOKEN"),
			AdminChatID: adminChatID,
		},
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Limits: LimitsConfig{
			MaxKeywords:       envInt("MAX_KEYWORDS_PER_USER", 50),
			MaxIgnoreKeywords: envInt("MAX_IGNORE_KEYWORDS", 20),
			MaxKeywordLength:  envInt("MAX_KEYWORD_LENGTH", 100),
		},
		Forward: ForwardConfig{
			DelayMs:        envInt("MESSAGE_FORWARD_DELAY_MS", 500),
			DailyLimit:     envInt("MAX_DAILY_FORWARDS_PER_USER", 500),
			Fanout:         envInt("MATCH_FANOUT", 8),
			DedupWindowMin: envInt("DEDUP_WINDOW_MINUTES", 60),
		},
		Filter: FilterConfig{
			APIKey:  os.Getenv("SPAM_FILTER_API_KEY"),
			BaseURL: os.Getenv("SPAM_FILTER_BASE_URL"),
			Model:   os.Getenv("SPAM_FILTER_MODEL"),
		},
		Monitor: MonitorConfig{
			HealthIntervalSec: envInt("HEALTH_CHECK_INTERVAL", 300),
			ErrorCooldownSec:  envInt("ERROR_NOTIFICATION_COOLDOWN", 3600),
		},
		API: APIConfig{
			Port: envInt("API_PORT", 0),
		},
		Replies: replies,
		Debug:   os.Getenv("DEBUG") == "true",
	}
}

func envInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return def
}

// ToKeywordLimits converts to usecase keyword limits
func (c *LimitsConfig) ToKeywordLimits() usecase.KeywordLimits {
	return usecase.KeywordLimits{
		MaxKeywords:       c.MaxKeywords,
		MaxIgnoreKeywords: c.MaxIgnoreKeywords,
		MaxKeywordLength:  c.MaxKeywordLength,
	}
}

// ForwardDelay returns the delay between consecutive forwards
func (c *ForwardConfig) ForwardDelay() time.Duration {
	return time.Duration(c.DelayMs) * time.Millisecond
}

// DedupWindow returns how long an already-seen post is remembered
func (c *ForwardConfig) DedupWindow() time.Duration {
	return time.Duration(c.DedupWindowMin) * time.Minute
}

// HealthInterval returns the health check interval
func (c *MonitorConfig) HealthInterval() time.Duration {
	return time.Duration(c.HealthIntervalSec) * time.Second
}

// ErrorCooldown returns the minimum gap between error notifications
func (c *MonitorConfig) ErrorCooldown() time.Duration {
	return time.Duration(c.ErrorCooldownSec) * time.Second
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return &ConfigError{Field: "TELEGRAM_BOT_TOKEN", Message: "required"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
