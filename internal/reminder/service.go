// Package reminder runs the fixed-interval background check that turns due
// dates into email reminders. It is a debounced alarm, not a scheduler.
package reminder

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/aimonlabs/intelligent-todo-app/internal/task"
)

const (
	// DefaultInterval is how often the loop wakes up.
	DefaultInterval = 60 * time.Second

	// debounce suppresses repeat reminders for the same task.
	debounce = 12 * time.Hour

	// defaultBuffer is the head start before a due date when a task has no
	// estimate.
	defaultBuffer = time.Hour

	// stopTimeout bounds how long Stop waits for the loop to exit. In-flight
	// sends are not interrupted.
	stopTimeout = 2 * time.Second
)

// TaskSource is the slice of the store the loop reads and stamps.
type TaskSource interface {
	List(status task.Status) []task.Task
	MarkReminded(id string, now time.Time) error
}

// Dispatcher delivers one reminder. The email service implements it.
type Dispatcher interface {
	SendReminder(ctx context.Context, recipient, subject, taskDescription, duePhrase string, estimatedHours float64, funMessage string) error
}

// Callback is invoked for each fired reminder, UI-side.
type Callback func(task.Task)

// Service owns the single background reminder goroutine.
type Service struct {
	source     TaskSource
	dispatcher Dispatcher
	recipient  string
	callback   Callback
	interval   time.Duration
	logger     *log.Logger

	mu      sync.Mutex
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// New creates a reminder service. A nil dispatcher or empty recipient
// disables email; the callback still fires.
func New(source TaskSource, dispatcher Dispatcher, recipient string, interval time.Duration, logger *log.Logger) *Service {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		source:     source,
		dispatcher: dispatcher,
		recipient:  recipient,
		interval:   interval,
		logger:     logger,
	}
}

// SetCallback registers the UI callback invoked on each fired reminder.
// Set before Start.
func (s *Service) SetCallback(cb Callback) {
	s.callback = cb
}

// SetRecipient overrides the reminder recipient.
func (s *Service) SetRecipient(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipient = email
}

// Start launches the background loop. Starting a running service is a no-op
// with a warning.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.logger.Printf("reminder service already running")
		return
	}
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.running = true
	go s.run(s.stopCh, s.doneCh)
	s.logger.Printf("reminder service started (interval %s)", s.interval)
}

// Stop signals the loop and waits briefly for it to exit. New iterations are
// suppressed immediately; an in-flight send finishes on its own.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		s.logger.Printf("reminder service not running")
		return
	}
	close(s.stopCh)
	done := s.doneCh
	s.running = false
	s.mu.Unlock()

	select {
	case <-done:
	case <-time.After(stopTimeout):
		s.logger.Printf("reminder loop did not stop within %s", stopTimeout)
	}
	s.logger.Printf("reminder service stopped")
}

func (s *Service) run(stopCh, doneCh chan struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			sent := s.CheckOnce(context.Background(), time.Now())
			if sent > 0 {
				s.logger.Printf("sent %d task reminder(s)", sent)
			}
		}
	}
}

// RemindAt returns the instant after which a reminder becomes eligible:
// the due date minus the estimated hours, or one hour for unestimated tasks.
func RemindAt(t task.Task) time.Time {
	if t.DueDate == nil {
		return time.Time{}
	}
	buffer := time.Duration(t.EstimatedHours * float64(time.Hour))
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return t.DueDate.Add(-buffer)
}

// eligible reports whether a task should be reminded at "now": incomplete,
// past its remind-at threshold, and outside the debounce window.
func eligible(t task.Task, now time.Time) bool {
	if t.Completed || t.DueDate == nil {
		return false
	}
	if now.Before(RemindAt(t)) {
		return false
	}
	if t.LastReminded != nil && now.Sub(*t.LastReminded) < debounce {
		return false
	}
	return true
}

// CheckOnce performs a single reminder pass and returns the number of
// reminders fired. The background loop calls it every tick; tests and the
// remind --once command call it directly.
func (s *Service) CheckOnce(ctx context.Context, now time.Time) int {
	fired := 0
	for _, t := range s.source.List("") {
		if !eligible(t, now) {
			continue
		}

		delivered := false
		if s.dispatcher != nil && s.recipient != "" {
			if err := s.send(ctx, t, now); err != nil {
				s.logger.Printf("failed to send reminder for task %s: %v", t.ID, err)
			} else {
				delivered = true
			}
		}
		if s.callback != nil {
			s.callback(t)
			delivered = true
		}

		if delivered {
			if err := s.source.MarkReminded(t.ID, now); err != nil {
				s.logger.Printf("failed to stamp reminder for task %s: %v", t.ID, err)
			}
			fired++
		}
	}
	return fired
}

func (s *Service) send(ctx context.Context, t task.Task, now time.Time) error {
	subject := fmt.Sprintf("Reminder: %s", truncate(t.Description, 40))
	s.logger.Printf("sending reminder for task: %s", t.ID)
	return s.dispatcher.SendReminder(
		ctx,
		s.recipient,
		subject,
		t.Description,
		duePhrase(t.DueDate, now),
		t.EstimatedHours,
		funMessage(t),
	)
}

// duePhrase renders the due date relative to "now": today, tomorrow, or the
// weekday and date.
func duePhrase(due *time.Time, now time.Time) string {
	if due == nil {
		return "today"
	}
	loc := task.DefaultLocation()
	d := due.In(loc)
	n := now.In(loc)

	dy, dm, dd := d.Date()
	ny, nm, nd := n.Date()
	ty, tm, td := n.AddDate(0, 0, 1).Date()

	switch {
	case dy == ny && dm == nm && dd == nd:
		return "today"
	case dy == ty && dm == tm && dd == td:
		return "tomorrow"
	default:
		return d.Format("Monday, January 2")
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
