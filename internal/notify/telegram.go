// Package notify forwards buy signals to chat channels.
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Sender is the subset of *tgbotapi.BotAPI used to deliver messages.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts a message to one chat for every buy intent.
type Telegram struct {
	sender Sender
	chatID int64
	logger zerolog.Logger
}

// NewTelegramBot connects to the Bot API with token.
func NewTelegramBot(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return NewTelegram(bot, chatID), nil
}

// NewTelegram creates a notifier using sender.
func NewTelegram(sender Sender, chatID int64) *Telegram {
	return &Telegram{
		sender: sender,
		chatID: chatID,
		logger: log.With().Str("component", "telegram").Logger(),
	}
}

// Execute sends the buy notification. Delivery failures are logged only.
func (t *Telegram) Execute(symbol string, amount float64, dryRun bool) {
	msg := tgbotapi.NewMessage(t.chatID, FormatBuyMessage(symbol, amount, dryRun))
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := t.sender.Send(msg); err != nil {
		t.logger.Error().Err(err).Int64("chat_id", t.chatID).Msg("Failed to send buy notification")
	}
}

// FormatBuyMessage renders the chat text for a buy intent.
func FormatBuyMessage(symbol string, amount float64, dryRun bool) string {
	mode := "LIVE"
	if dryRun {
		mode = "DRY-RUN"
	}
	return fmt.Sprintf("*Buy signal* `%s`\nAmount: %s\nMode: %s",
		symbol, decimal.NewFromFloat(amount).StringFixed(2), mode)
}
