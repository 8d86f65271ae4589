// Package config handles application configuration loaded from an optional
// YAML file and BOT_-prefixed environment variables, with validation.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration. Values can be set via
// environment variables prefixed with BOT_ (e.g., BOT_TOKEN) or through a
// YAML config file.
type Config struct {
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogJSON  bool   `mapstructure:"log_json"`

	// Telegram bot token used to open the long-polling connection.
	Token string `mapstructure:"token" validate:"required"`

	// AdminIDs is the static allow-list of user IDs permitted to use /schedule.
	AdminIDs []int64 `mapstructure:"admin_ids" validate:"required,min=1"`

	DBPath    string `mapstructure:"db_path"    validate:"required"`
	UploadDir string `mapstructure:"upload_dir" validate:"required"`

	// MaintenanceSchedule is a cron expression for periodic database
	// maintenance. Empty disables the job.
	MaintenanceSchedule string `mapstructure:"maintenance_schedule"`

	Messages MessagesConfig `mapstructure:"messages"`
}

// MessagesConfig holds every user-visible reply string. Entries suffixed
// "Fmt" are fmt.Sprintf formats.
type MessagesConfig struct {
	Welcome       string `mapstructure:"welcome"        validate:"required"`
	Help          string `mapstructure:"help"           validate:"required"`
	TaskSavedFmt  string `mapstructure:"task_saved"     validate:"required"`
	ProvideTask   string `mapstructure:"provide_task"   validate:"required"`
	NoTasks       string `mapstructure:"no_tasks"       validate:"required"`
	TasksHeader   string `mapstructure:"tasks_header"   validate:"required"`
	Unauthorized  string `mapstructure:"unauthorized"   validate:"required"`
	ScheduleUsage string `mapstructure:"schedule_usage" validate:"required"`
	ScheduledFmt  string `mapstructure:"scheduled"      validate:"required"`
	UploadOKFmt   string `mapstructure:"upload_ok"      validate:"required"`
	GeneralError  string `mapstructure:"general_error"  validate:"required"`
}

// LoadConfig reads configuration from the given YAML file (missing file is
// fine, defaults and environment variables still apply) and validates it.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay, defaults and env vars apply.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// setDefaults registers a default for every configuration key so viper picks
// up matching environment variables during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)

	v.SetDefault("token", "")
	v.SetDefault("admin_ids", []int64{})

	v.SetDefault("db_path", "db/tasks.db")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("maintenance_schedule", "0 4 * * *")

	v.SetDefault("messages.welcome", "Welcome to Persist Ventures Bot! Use /help for commands.")
	v.SetDefault("messages.help", defaultHelp)
	v.SetDefault("messages.task_saved", "Task saved: %s")
	v.SetDefault("messages.provide_task", "Please provide a task. Example: /addtask Submit report.")
	v.SetDefault("messages.no_tasks", "No tasks found. Add one with /addtask.")
	v.SetDefault("messages.tasks_header", "Your tasks:")
	v.SetDefault("messages.unauthorized", "You are not authorized to use this command.")
	v.SetDefault("messages.schedule_usage", "Error scheduling reminder. Use format: /schedule <YYYY-MM-DD HH:MM> <reminder>")
	v.SetDefault("messages.scheduled", "Reminder scheduled at %s: %s")
	v.SetDefault("messages.upload_ok", "File %s uploaded successfully!")
	v.SetDefault("messages.general_error", "An error occurred. Please try again later.")
}

const defaultHelp = `Available Commands:
/start - Welcome Message
/help - Show Commands
/addtask <task> - Add a task
/listtasks - List all tasks
/upload - Upload a file
/schedule <time> <reminder> - Schedule a reminder (Admin Only)`
