package telegram

import (
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/jobradar/telegram-keyword-bot/internal/logging"
)

// Update is one incoming Bot API update flattened for the server layer
type Update struct {
	// Channel post fields
	IsChannelPost   bool
	ChannelID       int64
	ChannelTitle    string
	ChannelUsername string

	// Direct message / command fields
	ChatID    int64
	MessageID int
	Text      string
	IsCommand bool
	Command   string
	Args      string

	SenderID     int64
	Username     string
	FirstName    string
	LanguageCode string
}

// Client wraps the Telegram Bot API with long polling
type Client struct {
	bot       *tgbotapi.BotAPI
	onUpdate  func(*Update)
	pollLimit int

	stopCh chan struct{}
	wg     sync.WaitGroup
	log    zerolog.Logger
}

// NewClient creates a Telegram client and verifies the token
func NewClient(token string, debug bool) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot api: %w", err)
	}
	bot.Debug = debug

	return &Client{
		bot:       bot,
		pollLimit: 100,
		stopCh:    make(chan struct{}),
		log:       logging.GetLogger("telegram"),
	}, nil
}

// BotUsername returns the authenticated bot's username
func (c *Client) BotUsername() string {
	return c.bot.Self.UserName
}

// OnUpdate sets the update handler. Must be called before Start.
func (c *Client) OnUpdate(handler func(*Update)) {
	c.onUpdate = handler
}

// Start begins long polling. Blocks until Stop is called.
func (c *Client) Start() error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	cfg.Limit = c.pollLimit

	updates := c.bot.GetUpdatesChan(cfg)
	c.log.Info().Str("bot", c.bot.Self.UserName).Msg("long polling started")

	c.wg.Add(1)
	defer c.wg.Done()

	for {
		select {
		case <-c.stopCh:
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			c.dispatch(upd)
		}
	}
}

// Stop stops long polling
func (c *Client) Stop() {
	c.bot.StopReceivingUpdates()
	close(c.stopCh)
	c.wg.Wait()
	c.log.Info().Msg("long polling stopped")
}

func (c *Client) dispatch(upd tgbotapi.Update) {
	if c.onUpdate == nil {
		return
	}

	if post := upd.ChannelPost; post != nil {
		text := post.Text
		if text == "" {
			text = post.Caption
		}
		c.onUpdate(&Update{
			IsChannelPost:   true,
			ChannelID:       post.Chat.ID,
			ChannelTitle:    post.Chat.Title,
			ChannelUsername: post.Chat.UserName,
			MessageID:       post.MessageID,
			Text:            text,
		})
		return
	}

	if msg := upd.Message; msg != nil {
		u := &Update{
			ChatID:    msg.Chat.ID,
			MessageID: msg.MessageID,
			Text:      msg.Text,
		}
		if msg.From != nil {
			u.SenderID = msg.From.ID
			u.Username = msg.From.UserName
			u.FirstName = msg.From.FirstName
			u.LanguageCode = msg.From.LanguageCode
		}
		if msg.IsCommand() {
			u.IsCommand = true
			u.Command = msg.Command()
			u.Args = msg.CommandArguments()
		}
		c.onUpdate(u)
	}
}

// SendText sends a plain text message
func (c *Client) SendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// ForwardMessage forwards a message from a channel to a chat
func (c *Client) ForwardMessage(toChatID, fromChatID int64, messageID int) error {
	fwd := tgbotapi.NewForward(toChatID, fromChatID, messageID)
	if _, err := c.bot.Send(fwd); err != nil {
		return fmt.Errorf("failed to forward message: %w", err)
	}
	return nil
}
