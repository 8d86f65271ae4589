// Package notify defines the outbound notification interface and its
// Telegram-backed implementation.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	tgbot "github.com/go-telegram/bot"
)

// Notifier delivers a text message to a specific chat through the external
// messaging gateway. Implementations are supplied at construction time;
// consumers never build their own gateway client.
type Notifier interface {
	Deliver(ctx context.Context, chatID int64, text string) error
}

// TelegramNotifier is a thin pass-through to the Telegram Bot API.
type TelegramNotifier struct {
	b      *tgbot.Bot
	logger *slog.Logger
}

// NewTelegramNotifier creates a Notifier backed by the given Telegram bot.
func NewTelegramNotifier(b *tgbot.Bot, logger *slog.Logger) *TelegramNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &TelegramNotifier{
		b:      b,
		logger: logger.With("component", "notifier"),
	}
}

// Deliver sends the text to the chat. Failures are returned to the caller;
// whether to retry or merely log is the caller's decision.
func (n *TelegramNotifier) Deliver(ctx context.Context, chatID int64, text string) error {
	_, err := n.b.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		n.logger.ErrorContext(ctx, "Failed to deliver message", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to deliver message to chat %d: %w", chatID, err)
	}

	n.logger.DebugContext(ctx, "Message delivered", "chat_id", chatID)
	return nil
}
