package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/pventura/taskbot/internal/database"
)

// NewAddTaskHandler returns a handler for the /addtask command. The remainder
// of the command line is stored as the task text for the sending chat.
func NewAddTaskHandler(deps HandlerDeps) bot.HandlerFunc {
	return addTaskHandler{deps}.Handle
}

type addTaskHandler struct {
	deps HandlerDeps
}

func (h addTaskHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "addtask")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "AddTask handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /addtask command", "chat_id", chatID, "user_id", update.Message.From.ID)

	text := commandArgument(update.Message.Text)
	if text == "" {
		sendReply(ctx, b, log, chatID, h.deps.Config.Messages.ProvideTask)
		return
	}

	task, err := h.deps.Store.AddTask(ctx, chatID, text)
	if err != nil {
		if errors.Is(err, database.ErrEmptyTaskText) {
			sendReply(ctx, b, log, chatID, h.deps.Config.Messages.ProvideTask)
			return
		}
		log.ErrorContext(ctx, "Failed to save task", "error", err, "chat_id", chatID)
		sendReply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	sendReply(ctx, b, log, chatID, fmt.Sprintf(h.deps.Config.Messages.TaskSavedFmt, task.Text))
}
