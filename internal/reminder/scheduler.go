// Package reminder implements one-shot reminder scheduling on top of gocron.
// A reminder is registered at an absolute time and delivered to its chat
// exactly once through a Notifier.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/pventura/taskbot/internal/notify"
)

// TimeLayout is the fixed format reminder times must use.
const TimeLayout = "2006-01-02 15:04"

// reminderFmt renders the delivered message body.
const reminderFmt = "Reminder: %s"

var (
	// ErrUnauthorized is returned when the requester is not in the admin
	// allow-list. No parsing happens and no job is created.
	ErrUnauthorized = errors.New("requester is not authorized to schedule reminders")

	// ErrBadTimeFormat is returned when the fire time does not parse against
	// TimeLayout or is already in the past.
	ErrBadTimeFormat = errors.New("invalid reminder time")
)

// Scheduler manages one-shot reminder jobs using the gocron library.
// Registrations from the handler timeline and the firing pass on gocron's
// own timeline share the job set through gocron's internal synchronization.
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *slog.Logger
	notifier  notify.Notifier
	admins    map[int64]struct{}
	mu        sync.Mutex // protects access during start/stop
	running   bool
}

type options struct {
	clock clockwork.Clock
}

// Option configures optional Scheduler behavior.
type Option func(*options)

// WithClock overrides the clock driving job firing. Tests use a fake clock
// so they can advance time past a reminder's fire time.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// New creates a reminder scheduler. The notifier is the delivery channel for
// fired reminders and adminIDs is the immutable allow-list of user IDs
// permitted to schedule.
func New(logger *slog.Logger, notifier notify.Notifier, adminIDs []int64, opts ...Option) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "reminder_scheduler")

	if notifier == nil {
		return nil, errors.New("notifier cannot be nil")
	}

	o := options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}

	s, err := gocron.NewScheduler(gocron.WithClock(o.clock))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}

	return &Scheduler{
		scheduler: s,
		logger:    log,
		notifier:  notifier,
		admins:    admins,
	}, nil
}

// Schedule registers a one-shot reminder for chatID at the absolute time in
// fireAtText (TimeLayout, local time). The requester must be in the admin
// allow-list; unauthorized requests are rejected before any parsing.
func (s *Scheduler) Schedule(ctx context.Context, requesterID int64, fireAtText, body string, chatID int64) error {
	if _, ok := s.admins[requesterID]; !ok {
		s.logger.WarnContext(ctx, "Unauthorized schedule attempt", "user_id", requesterID, "chat_id", chatID)
		return ErrUnauthorized
	}

	fireAt, err := time.ParseInLocation(TimeLayout, fireAtText, time.Local)
	if err != nil {
		return fmt.Errorf("%w: %q does not match %q", ErrBadTimeFormat, fireAtText, TimeLayout)
	}

	job, err := s.scheduler.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(fireAt)),
		gocron.NewTask(s.fire, chatID, body),
		gocron.WithName(fmt.Sprintf("reminder-%d", chatID)),
		gocron.WithEventListeners(gocron.AfterJobRuns(s.removeFiredJob)),
	)
	if err != nil {
		// gocron rejects one-time jobs whose start time is already past;
		// the user sees the same format-usage reply either way.
		return fmt.Errorf("%w: %v", ErrBadTimeFormat, err)
	}

	s.logger.InfoContext(ctx, "Reminder scheduled",
		"job_id", job.ID(), "chat_id", chatID, "fire_at", fireAt, "user_id", requesterID)
	return nil
}

// fire delivers one reminder. Delivery is best-effort: errors are logged and
// the job is still spent.
func (s *Scheduler) fire(chatID int64, body string) {
	ctx := context.Background()
	if err := s.notifier.Deliver(ctx, chatID, fmt.Sprintf(reminderFmt, body)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to deliver reminder", "chat_id", chatID, "error", err)
		return
	}
	s.logger.InfoContext(ctx, "Reminder delivered", "chat_id", chatID)
}

// removeFiredJob drops a one-shot job from the scheduler after it has run so
// the job set only ever holds pending reminders.
func (s *Scheduler) removeFiredJob(jobID uuid.UUID, jobName string) {
	if err := s.scheduler.RemoveJob(jobID); err != nil {
		// gocron may have already dropped the job itself.
		s.logger.Debug("Could not remove fired job", "job_id", jobID, "job_name", jobName, "error", err)
	}
}

// RegisterCron adds a recurring job with a standard five-field cron schedule.
// Used for background jobs like database maintenance; returns an error for an
// invalid expression.
func (s *Scheduler) RegisterCron(name, cronExpr string, task func(ctx context.Context) error) error {
	_, err := s.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(
			func(ctx context.Context, name string) {
				s.logger.Info("Running scheduled task", "task_name", name)
				startTime := time.Now()
				if taskErr := task(ctx); taskErr != nil {
					s.logger.Error("Scheduled task failed", "task_name", name, "error", taskErr)
				}
				s.logger.Info("Finished scheduled task", "task_name", name, "duration", time.Since(startTime))
			},
			context.Background(),
			name,
		),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule task %q: %w", name, err)
	}

	s.logger.Info("Scheduled recurring task", "task_name", name, "schedule", cronExpr)
	return nil
}

// PendingJobs returns the number of jobs currently registered.
func (s *Scheduler) PendingJobs() int {
	return len(s.scheduler.Jobs())
}

// Start begins the scheduler's internal ticking. Jobs may be registered both
// before and after Start.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	s.scheduler.Start()
	s.running = true
	s.logger.Info("Reminder scheduler started")
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs to complete.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		s.logger.Info("Scheduler is not running, nothing to stop.")
		return nil
	}

	err := s.scheduler.Shutdown()
	if err != nil {
		s.logger.Error("Error during scheduler shutdown", "error", err)
	} else {
		s.logger.Info("Scheduler stopped gracefully.")
	}

	s.running = false
	return err
}
