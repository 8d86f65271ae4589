package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/pventura/taskbot/internal/reminder"
)

// NewScheduleHandler returns a handler for the admin-only /schedule command.
// The argument line is "<YYYY-MM-DD HH:MM> <reminder text>".
func NewScheduleHandler(deps HandlerDeps) bot.HandlerFunc {
	return scheduleHandler{deps}.Handle
}

type scheduleHandler struct {
	deps HandlerDeps
}

func (h scheduleHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "schedule")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Schedule handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	userID := update.Message.From.ID
	log.InfoContext(ctx, "Handling /schedule command", "chat_id", chatID, "user_id", userID)

	// The scheduler checks authorization before parsing, so malformed
	// arguments from a non-admin still yield the unauthorized reply.
	fireAt, body, _ := parseScheduleArgs(commandArgument(update.Message.Text))

	err := h.deps.Scheduler.Schedule(ctx, userID, fireAt, body, chatID)
	switch {
	case err == nil:
		sendReply(ctx, b, log, chatID, fmt.Sprintf(h.deps.Config.Messages.ScheduledFmt, fireAt, body))
	case errors.Is(err, reminder.ErrUnauthorized):
		sendReply(ctx, b, log, chatID, h.deps.Config.Messages.Unauthorized)
	default:
		// Bad time format and any other scheduling failure collapse into
		// the single format-usage reply.
		log.WarnContext(ctx, "Failed to schedule reminder", "error", err, "chat_id", chatID, "user_id", userID)
		sendReply(ctx, b, log, chatID, h.deps.Config.Messages.ScheduleUsage)
	}
}
