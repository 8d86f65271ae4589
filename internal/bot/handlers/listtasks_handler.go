package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewListTasksHandler returns a handler for the /listtasks command. It
// renders the sending chat's tasks in insertion order.
func NewListTasksHandler(deps HandlerDeps) bot.HandlerFunc {
	return listTasksHandler{deps}.Handle
}

type listTasksHandler struct {
	deps HandlerDeps
}

func (h listTasksHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "listtasks")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "ListTasks handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	chatID := update.Message.Chat.ID
	log.InfoContext(ctx, "Handling /listtasks command", "chat_id", chatID, "user_id", update.Message.From.ID)

	tasks, err := h.deps.Store.ListTasks(ctx, chatID)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list tasks", "error", err, "chat_id", chatID)
		sendReply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	if len(tasks) == 0 {
		sendReply(ctx, b, log, chatID, h.deps.Config.Messages.NoTasks)
		return
	}

	sendReply(ctx, b, log, chatID, renderTaskList(h.deps.Config.Messages.TasksHeader, tasks))
}
