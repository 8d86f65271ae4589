package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrEmptyTaskText is returned by AddTask when the task text trims to empty.
var ErrEmptyTaskText = errors.New("task text is empty")

// Store defines the interface for database operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// AddTask inserts a new task row for the given user and returns the
	// stored task with its assigned ID and creation time.
	AddTask(ctx context.Context, userID int64, text string) (*Task, error)

	// ListTasks retrieves the user's tasks ordered by insertion (ascending ID).
	ListTasks(ctx context.Context, userID int64) ([]Task, error)

	// RunMaintenance performs database maintenance (VACUUM and ANALYZE).
	RunMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// AddTask inserts a new task row. The text is trimmed first; an empty result
// is rejected with ErrEmptyTaskText and no row is written. The insert is a
// single statement, so the connection pool's single writer makes it atomic
// with respect to concurrent callers.
func (s *sqlxStore) AddTask(ctx context.Context, userID int64, text string) (*Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyTaskText
	}

	task := &Task{
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	result, err := s.db.NamedExecContext(ctx,
		`INSERT INTO tasks (user_id, task, created_at) VALUES (:user_id, :task, :created_at)`,
		task)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving task", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to save task for user %d: %w", userID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		// The row is committed; only the returned ID is unavailable.
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving task",
			"user_id", userID, "error", err)
	} else {
		//nolint:gosec // integer overflow conversion is acceptable here
		task.ID = uint(id)
	}

	s.logger.DebugContext(ctx, "Task saved successfully",
		"user_id", userID, "task_id", task.ID)
	return task, nil
}

// ListTasks retrieves all tasks belonging to the given user in insertion
// order. An empty result is a nil-length slice, not an error.
func (s *sqlxStore) ListTasks(ctx context.Context, userID int64) ([]Task, error) {
	tasks := []Task{}
	err := s.db.SelectContext(ctx, &tasks,
		`SELECT id, user_id, task, created_at FROM tasks WHERE user_id = ? ORDER BY id ASC`,
		userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error listing tasks", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list tasks for user %d: %w", userID, err)
	}

	s.logger.DebugContext(ctx, "Tasks listed", "user_id", userID, "count", len(tasks))
	return tasks, nil
}

// RunMaintenance executes VACUUM and ANALYZE on the SQLite database.
func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled before starting maintenance", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "ANALYZE"); err != nil {
		return fmt.Errorf("failed to analyze database: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed successfully.")
	return nil
}
