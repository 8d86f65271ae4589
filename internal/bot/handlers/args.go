// Package handlers contains Telegram bot command, document, and callback
// handlers together with their registration metadata.
package handlers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"

	"github.com/pventura/taskbot/internal/database"
)

// sendReply sends a plain-text reply to the chat, logging delivery failures.
func sendReply(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	}
}

// commandArgument returns the trimmed remainder of a command line after the
// command token itself ("/addtask Buy milk" -> "Buy milk").
func commandArgument(text string) string {
	parts := strings.SplitN(text, " ", 2)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// parseScheduleArgs splits a /schedule argument string into the two-field
// fire time ("YYYY-MM-DD HH:MM") and the reminder body. ok is false when
// there are too few fields; the zero values then fail time parsing downstream.
func parseScheduleArgs(arg string) (fireAt, body string, ok bool) {
	fields := strings.Fields(arg)
	if len(fields) < 3 {
		return "", "", false
	}
	return fields[0] + " " + fields[1], strings.Join(fields[2:], " "), true
}

// renderTaskList formats tasks as a bulleted list under the given header,
// one line per task in store order.
func renderTaskList(header string, tasks []database.Task) string {
	var sb strings.Builder
	sb.WriteString(header)
	for _, t := range tasks {
		sb.WriteString("\n- ")
		sb.WriteString(t.Text)
	}
	return sb.String()
}
