package config_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pventura/taskbot/internal/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("minimal file applies defaults", func(t *testing.T) {
		path := writeConfigFile(t, "token: \"123:abc\"\nadmin_ids: [6884152393]\n")

		cfg, err := config.LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}

		if cfg.Token != "123:abc" {
			t.Errorf("Token = %q, want %q", cfg.Token, "123:abc")
		}
		if cfg.LogLevel != "info" {
			t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
		}
		if cfg.DBPath == "" {
			t.Error("DBPath is empty, want default")
		}
		if cfg.UploadDir == "" {
			t.Error("UploadDir is empty, want default")
		}
		if want := "Please provide a task. Example: /addtask Submit report."; cfg.Messages.ProvideTask != want {
			t.Errorf("Messages.ProvideTask = %q, want %q", cfg.Messages.ProvideTask, want)
		}
		if want := "You are not authorized to use this command."; cfg.Messages.Unauthorized != want {
			t.Errorf("Messages.Unauthorized = %q, want %q", cfg.Messages.Unauthorized, want)
		}
		if want := "Welcome to Persist Ventures Bot! Use /help for commands."; cfg.Messages.Welcome != want {
			t.Errorf("Messages.Welcome = %q, want %q", cfg.Messages.Welcome, want)
		}
		if want := "/upload - Upload a file"; !strings.Contains(cfg.Messages.Help, want) {
			t.Errorf("Messages.Help = %q, want it to contain %q", cfg.Messages.Help, want)
		}
	})

	t.Run("default formats render expected replies", func(t *testing.T) {
		path := writeConfigFile(t, "token: \"123:abc\"\nadmin_ids: [6884152393]\n")

		cfg, err := config.LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}

		tests := []struct {
			name string
			got  string
			want string
		}{
			{
				name: "scheduled reminder",
				got:  fmt.Sprintf(cfg.Messages.ScheduledFmt, "2030-01-01 09:00", "Pay rent"),
				want: "Reminder scheduled at 2030-01-01 09:00: Pay rent",
			},
			{
				name: "task saved",
				got:  fmt.Sprintf(cfg.Messages.TaskSavedFmt, "Buy milk"),
				want: "Task saved: Buy milk",
			},
			{
				name: "upload succeeded",
				got:  fmt.Sprintf(cfg.Messages.UploadOKFmt, "report.pdf"),
				want: "File report.pdf uploaded successfully!",
			},
		}
		for _, tt := range tests {
			if tt.got != tt.want {
				t.Errorf("%s reply = %q, want %q", tt.name, tt.got, tt.want)
			}
		}
	})

	t.Run("token from environment", func(t *testing.T) {
		t.Setenv("BOT_TOKEN", "456:def")
		path := writeConfigFile(t, "admin_ids: [6884152393]\n")

		cfg, err := config.LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Token != "456:def" {
			t.Errorf("Token = %q, want %q", cfg.Token, "456:def")
		}
	})

	t.Run("missing token fails validation", func(t *testing.T) {
		t.Setenv("BOT_TOKEN", "")
		path := writeConfigFile(t, "admin_ids: [6884152393]\n")

		if _, err := config.LoadConfig(path); err == nil {
			t.Fatal("LoadConfig() succeeded without token, want error")
		}
	})

	t.Run("empty allow-list fails validation", func(t *testing.T) {
		path := writeConfigFile(t, "token: \"123:abc\"\n")

		if _, err := config.LoadConfig(path); err == nil {
			t.Fatal("LoadConfig() succeeded without admin_ids, want error")
		}
	})

	t.Run("file overrides messages", func(t *testing.T) {
		path := writeConfigFile(t, `token: "123:abc"
admin_ids: [1, 2]
log_level: debug
messages:
  welcome: "Hello there."
`)

		cfg, err := config.LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Messages.Welcome != "Hello there." {
			t.Errorf("Messages.Welcome = %q, want %q", cfg.Messages.Welcome, "Hello there.")
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
		}
	})
}
