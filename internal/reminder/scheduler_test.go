package reminder_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pventura/taskbot/internal/reminder"
)

const (
	adminID    int64 = 6884152393
	nonAdminID int64 = 12345
	chatID     int64 = 987654
)

// delivery records one Notifier.Deliver call.
type delivery struct {
	chatID int64
	text   string
}

// fakeNotifier pushes deliveries onto a channel so tests can wait for the
// scheduler's firing pass.
type fakeNotifier struct {
	deliveries chan delivery
	err        error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{deliveries: make(chan delivery, 8)}
}

func (f *fakeNotifier) Deliver(_ context.Context, chatID int64, text string) error {
	f.deliveries <- delivery{chatID: chatID, text: text}
	return f.err
}

func newTestScheduler(t *testing.T, notifier *fakeNotifier, clock clockwork.Clock) *reminder.Scheduler {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := reminder.New(log, notifier, []int64{adminID}, reminder.WithClock(clock))
	if err != nil {
		t.Fatalf("failed to create scheduler: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Stop(); err != nil {
			t.Errorf("failed to stop scheduler: %v", err)
		}
	})
	return s
}

// expectDelivery waits for one delivery or fails the test.
func expectDelivery(t *testing.T, notifier *fakeNotifier) delivery {
	t.Helper()
	select {
	case d := <-notifier.deliveries:
		return d
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reminder delivery")
		return delivery{}
	}
}

// expectNoDelivery asserts nothing is delivered within a short window.
func expectNoDelivery(t *testing.T, notifier *fakeNotifier) {
	t.Helper()
	select {
	case d := <-notifier.deliveries:
		t.Fatalf("unexpected delivery: %+v", d)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestScheduleAuthorization(t *testing.T) {
	t.Parallel()

	notifier := newFakeNotifier()
	clock := clockwork.NewFakeClockAt(time.Date(2030, 1, 1, 8, 0, 0, 0, time.Local))
	s := newTestScheduler(t, notifier, clock)

	// Argument validity is irrelevant: authorization is checked first.
	for _, fireAt := range []string{"2030-01-01 09:00", "garbage"} {
		err := s.Schedule(context.Background(), nonAdminID, fireAt, "Pay rent", chatID)
		if !errors.Is(err, reminder.ErrUnauthorized) {
			t.Errorf("Schedule(non-admin, %q) error = %v, want ErrUnauthorized", fireAt, err)
		}
	}

	if got := s.PendingJobs(); got != 0 {
		t.Errorf("PendingJobs() = %d after unauthorized attempts, want 0", got)
	}
}

func TestScheduleBadTimeFormat(t *testing.T) {
	t.Parallel()

	notifier := newFakeNotifier()
	clock := clockwork.NewFakeClockAt(time.Date(2030, 1, 1, 8, 0, 0, 0, time.Local))
	s := newTestScheduler(t, notifier, clock)

	cases := []string{
		"",
		"tomorrow",
		"2030-01-01",       // missing time of day
		"09:00 2030-01-01", // swapped fields
		"2030-13-40 09:00", // impossible date
		"2030-01-01T09:00", // wrong separator
		"2020-01-01 09:00", // already past
	}
	for _, fireAt := range cases {
		err := s.Schedule(context.Background(), adminID, fireAt, "Pay rent", chatID)
		if !errors.Is(err, reminder.ErrBadTimeFormat) {
			t.Errorf("Schedule(admin, %q) error = %v, want ErrBadTimeFormat", fireAt, err)
		}
	}

	if got := s.PendingJobs(); got != 0 {
		t.Errorf("PendingJobs() = %d after rejected attempts, want 0", got)
	}
}

func TestScheduleFiresExactlyOnce(t *testing.T) {
	t.Parallel()

	notifier := newFakeNotifier()
	clock := clockwork.NewFakeClockAt(time.Date(2030, 1, 1, 8, 0, 0, 0, time.Local))
	s := newTestScheduler(t, notifier, clock)

	err := s.Schedule(context.Background(), adminID, "2030-01-01 09:00", "Pay rent", chatID)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if got := s.PendingJobs(); got != 1 {
		t.Fatalf("PendingJobs() = %d, want 1", got)
	}

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Before fire_at nothing may be delivered.
	clock.BlockUntil(1)
	clock.Advance(30 * time.Minute)
	expectNoDelivery(t, notifier)

	// Crossing fire_at delivers exactly once.
	clock.Advance(time.Hour)
	got := expectDelivery(t, notifier)
	if got.chatID != chatID {
		t.Errorf("delivered chat id = %d, want %d", got.chatID, chatID)
	}
	if want := "Reminder: Pay rent"; got.text != want {
		t.Errorf("delivered text = %q, want %q", got.text, want)
	}

	// Advancing repeatedly past fire_at must not fire again.
	clock.Advance(24 * time.Hour)
	clock.Advance(24 * time.Hour)
	expectNoDelivery(t, notifier)

	waitForPending(t, s, 0)
}

func TestScheduleDeliveryFailureStillSpendsJob(t *testing.T) {
	t.Parallel()

	notifier := newFakeNotifier()
	notifier.err = fmt.Errorf("gateway unavailable")
	clock := clockwork.NewFakeClockAt(time.Date(2030, 1, 1, 8, 0, 0, 0, time.Local))
	s := newTestScheduler(t, notifier, clock)

	err := s.Schedule(context.Background(), adminID, "2030-01-01 09:00", "Pay rent", chatID)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	clock.BlockUntil(1)
	clock.Advance(2 * time.Hour)
	expectDelivery(t, notifier)

	// The failed delivery is not retried.
	clock.Advance(24 * time.Hour)
	expectNoDelivery(t, notifier)
}

func TestScheduleMultipleReminders(t *testing.T) {
	t.Parallel()

	notifier := newFakeNotifier()
	clock := clockwork.NewFakeClockAt(time.Date(2030, 1, 1, 8, 0, 0, 0, time.Local))
	s := newTestScheduler(t, notifier, clock)

	reminders := []string{"Pay rent", "Water plants", "Renew passport"}
	for i, body := range reminders {
		fireAt := fmt.Sprintf("2030-01-01 %02d:00", 9+i)
		if err := s.Schedule(context.Background(), adminID, fireAt, body, chatID); err != nil {
			t.Fatalf("Schedule(%q) error = %v", body, err)
		}
	}
	if got := s.PendingJobs(); got != len(reminders) {
		t.Fatalf("PendingJobs() = %d, want %d", got, len(reminders))
	}

	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	clock.BlockUntil(1)
	clock.Advance(12 * time.Hour)

	seen := make(map[string]bool)
	for range reminders {
		d := expectDelivery(t, notifier)
		seen[d.text] = true
	}
	for _, body := range reminders {
		if !seen["Reminder: "+body] {
			t.Errorf("missing delivery for %q", body)
		}
	}
	expectNoDelivery(t, notifier)
}

// waitForPending polls until the scheduler's job count reaches want; fired
// one-shot jobs are removed asynchronously after they run.
func waitForPending(t *testing.T, s *reminder.Scheduler, want int) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if s.PendingJobs() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("PendingJobs() = %d, want %d", s.PendingJobs(), want)
}
