package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RepliesConfig holds the user-visible bot reply templates.
// Every template can be overridden from a YAML file; missing
// entries fall back to the built-in defaults.
type RepliesConfig struct {
	Start          string `yaml:"start"`
	Help           string `yaml:"help"`
	Menu           string `yaml:"menu"`
	KeywordsSaved  string `yaml:"keywords_saved"`
	KeywordAdded   string `yaml:"keyword_added"`
	KeywordDeleted string `yaml:"keyword_deleted"`
	KeywordMissing string `yaml:"keyword_missing"`
	ListPurged     string `yaml:"list_purged"`
	ListEmpty      string `yaml:"list_empty"`
	ListHeader     string `yaml:"list_header"`
	IgnoreHeader   string `yaml:"ignore_header"`
	InvalidPattern string `yaml:"invalid_pattern"`
	TooMany        string `yaml:"too_many"`
	TooLong        string `yaml:"too_long"`
	NotAdmin       string `yaml:"not_admin"`
	InternalError  string `yaml:"internal_error"`
}

// DefaultRepliesConfig returns the built-in reply templates
func DefaultRepliesConfig() *RepliesConfig {
	return &RepliesConfig{
		Start: "Hi! I forward channel posts that match your keywords.\n" +
			"Send /keywords word1, word2 to subscribe, /help for the pattern syntax.",
		Help: "Pattern syntax:\n" +
			"  python — match the word anywhere\n" +
			"  dev* — match words starting with dev\n" +
			"  \"machine learning\" — match the exact phrase\n" +
			"  [python+remote] — require both words\n" +
			"  [junior|intern] — require either word\n" +
			"Combine: [python+remote|\"work from home\"]\n\n" +
			"Commands:\n" +
			"  /keywords a, b — replace your keyword list\n" +
			"  /add_keyword a — add one keyword\n" +
			"  /delete_keyword a — remove one keyword\n" +
			"  /my_keywords — show your keywords\n" +
			"  /purge_list — clear your keywords\n" +
			"  /ignore_keywords, /add_ignore, /delete_ignore,\n" +
			"  /my_ignore, /purge_ignore — same for ignore words",
		Menu: "Commands: /keywords /add_keyword /delete_keyword /my_keywords /purge_list\n" +
			"/ignore_keywords /add_ignore /delete_ignore /my_ignore /purge_ignore /help",
		KeywordsSaved:  "Saved %d keyword(s).",
		KeywordAdded:   "Added: %s",
		KeywordDeleted: "Deleted: %s",
		KeywordMissing: "Not found: %s",
		ListPurged:     "List cleared.",
		ListEmpty:      "Your list is empty.",
		ListHeader:     "Your keywords:",
		IgnoreHeader:   "Your ignore keywords:",
		InvalidPattern: "Invalid pattern %q: %s",
		TooMany:        "Keyword limit reached (%d). Remove some first.",
		TooLong:        "Keyword too long (max %d characters): %s",
		NotAdmin:       "This command is for the bot admin only.",
		InternalError:  "Something went wrong, please try again later.",
	}
}

// LoadRepliesConfig loads reply templates, merging file overrides
// over the defaults. An empty path checks the usual locations.
func LoadRepliesConfig(path string) (*RepliesConfig, error) {
	replies := DefaultRepliesConfig()

	candidates := []string{path}
	if path == "" {
		homeDir, _ := os.UserHomeDir()
		candidates = []string{
			"replies.yaml",
			filepath.Join(homeDir, ".keyword-bot", "replies.yaml"),
		}
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		data, err := os.ReadFile(candidate)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return replies, fmt.Errorf("failed to read replies config: %w", err)
		}
		var overrides RepliesConfig
		if err := yaml.Unmarshal(data, &overrides); err != nil {
			return replies, fmt.Errorf("failed to parse replies config: %w", err)
		}
		mergeReplies(replies, &overrides)
		return replies, nil
	}
	return replies, nil
}

func mergeReplies(dst, src *RepliesConfig) {
	if s := strings.TrimSpace(src.Start); s != "" {
		dst.Start = src.Start
	}
	if s := strings.TrimSpace(src.Help); s != "" {
		dst.Help = src.Help
	}
	if s := strings.TrimSpace(src.Menu); s != "" {
		dst.Menu = src.Menu
	}
	if src.KeywordsSaved != "" {
		dst.KeywordsSaved = src.KeywordsSaved
	}
	if src.KeywordAdded != "" {
		dst.KeywordAdded = src.KeywordAdded
	}
	if src.KeywordDeleted != "" {
		dst.KeywordDeleted = src.KeywordDeleted
	}
	if src.KeywordMissing != "" {
		dst.KeywordMissing = src.KeywordMissing
	}
	if src.ListPurged != "" {
		dst.ListPurged = src.ListPurged
	}
	if src.ListEmpty != "" {
		dst.ListEmpty = src.ListEmpty
	}
	if src.ListHeader != "" {
		dst.ListHeader = src.ListHeader
	}
	if src.IgnoreHeader != "" {
		dst.IgnoreHeader = src.IgnoreHeader
	}
	if src.InvalidPattern != "" {
		dst.InvalidPattern = src.InvalidPattern
	}
	if src.TooMany != "" {
		dst.TooMany = src.TooMany
	}
	if src.TooLong != "" {
		dst.TooLong = src.TooLong
	}
	if src.NotAdmin != "" {
		dst.NotAdmin = src.NotAdmin
	}
	if src.InternalError != "" {
		dst.InternalError = src.InternalError
	}
}
