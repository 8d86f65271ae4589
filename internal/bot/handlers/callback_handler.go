package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewCallbackHandler returns a handler for inline-button callback queries.
// Payload "1" and "2" select the matching option; anything else cancels.
// The interaction is acknowledged before the originating message is edited,
// and no state is carried over from earlier commands.
func NewCallbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return callbackHandler{deps}.Handle
}

type callbackHandler struct {
	deps HandlerDeps
}

func (h callbackHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "callback")

	if update.CallbackQuery == nil {
		log.WarnContext(ctx, "Callback handler received update with nil callback query", "update_id", update.ID)
		return
	}

	query := update.CallbackQuery
	log.InfoContext(ctx, "Handling callback query", "callback_query_id", query.ID, "data", query.Data)

	// Acknowledge first so the client stops showing the loading state.
	if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: query.ID}); err != nil {
		log.ErrorContext(ctx, "Failed to answer callback query", "error", err, "callback_query_id", query.ID)
	}

	var text string
	switch query.Data {
	case "1":
		text = "Option 1 selected."
	case "2":
		text = "Option 2 selected."
	default:
		text = "Action canceled."
	}

	// Messages older than 48h arrive as InaccessibleMessage with a nil
	// Message; there is nothing to edit then.
	if query.Message.Message == nil {
		log.WarnContext(ctx, "Callback query message is inaccessible, cannot edit", "callback_query_id", query.ID)
		return
	}

	chatID := query.Message.Message.Chat.ID
	_, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: query.Message.Message.ID,
		Text:      text,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to edit message after callback", "error", err, "chat_id", chatID)
	}
}
