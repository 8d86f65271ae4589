package handlers

import (
	"log/slog"

	"github.com/pventura/taskbot/internal/config"
	"github.com/pventura/taskbot/internal/database"
	"github.com/pventura/taskbot/internal/reminder"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Store     database.Store
	Scheduler *reminder.Scheduler
}
