package handlers

import (
	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// RegisteredHandler represents a handler with its registration metadata and
// middleware. When MatchFunc is set it takes precedence over
// HandlerType/Pattern/MatchType.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
	MatchFunc   func(update *models.Update) bool
	Description string
}

// RegisterAllCommands initializes and returns a map of all available bot
// handlers: the text-command surface, the document-upload handler, and the
// inline-button callback handler.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Description: "Welcome Message",
	}
	handlers["/help"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "help",
		Handler:     NewHelpHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Description: "Show Commands",
	}
	handlers["/addtask"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "addtask",
		Handler:     NewAddTaskHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Description: "Add a task",
	}
	handlers["/listtasks"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "listtasks",
		Handler:     NewListTasksHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Description: "List all tasks",
	}
	handlers["/schedule"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "schedule",
		Handler:     NewScheduleHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Description: "Schedule a reminder (Admin Only)",
	}
	handlers["document"] = RegisteredHandler{
		Handler: NewDocumentHandler(deps),
		MatchFunc: func(update *models.Update) bool {
			return update.Message != nil && update.Message.Document != nil
		},
	}
	handlers["callback"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "",
		Handler:     NewCallbackHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}

	return handlers
}
