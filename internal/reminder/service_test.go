package reminder

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/aimonlabs/intelligent-todo-app/internal/task"
)

type mockSource struct {
	tasks    []task.Task
	reminded map[string]time.Time
	markErr  error
}

func (m *mockSource) List(status task.Status) []task.Task {
	return m.tasks
}

func (m *mockSource) MarkReminded(id string, now time.Time) error {
	if m.markErr != nil {
		return m.markErr
	}
	if m.reminded == nil {
		m.reminded = map[string]time.Time{}
	}
	m.reminded[id] = now
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i].MarkReminded(now)
		}
	}
	return nil
}

type mockDispatcher struct {
	sent []sentReminder
	err  error
}

type sentReminder struct {
	recipient string
	subject   string
	duePhrase string
}

func (m *mockDispatcher) SendReminder(ctx context.Context, recipient, subject, taskDescription, duePhrase string, estimatedHours float64, funMessage string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentReminder{recipient: recipient, subject: subject, duePhrase: duePhrase})
	return nil
}

func dueTask(id string, due time.Time, hours float64) task.Task {
	return task.Task{ID: id, Description: "task " + id, DueDate: &due, EstimatedHours: hours}
}

func newTestService(src *mockSource, d *mockDispatcher, recipient string) *Service {
	return New(src, d, recipient, DefaultInterval, log.New(io.Discard, "", 0))
}

func TestRemindAt(t *testing.T) {
	t.Parallel()

	due := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)

	// Buffer tracks the estimate, even below one hour.
	if got := RemindAt(dueTask("a", due, 3)); !got.Equal(due.Add(-3 * time.Hour)) {
		t.Errorf("RemindAt(3h) = %v", got)
	}
	if got := RemindAt(dueTask("b", due, 0.5)); !got.Equal(due.Add(-30 * time.Minute)) {
		t.Errorf("RemindAt(0.5h) = %v", got)
	}
	// Unestimated tasks get the one-hour default.
	if got := RemindAt(dueTask("c", due, 0)); !got.Equal(due.Add(-time.Hour)) {
		t.Errorf("RemindAt(0h) = %v", got)
	}
	// Undated tasks have no threshold.
	if got := RemindAt(task.Task{ID: "d"}); !got.IsZero() {
		t.Errorf("RemindAt(no due) = %v", got)
	}
}

func TestCheckOnceFiresInsideWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 16, 30, 0, 0, time.UTC)
	src := &mockSource{tasks: []task.Task{
		dueTask("soon", now.Add(30*time.Minute), 1),  // inside the 1h buffer
		dueTask("later", now.Add(5*time.Hour), 1),    // well before remind-at
		dueTask("overdue", now.Add(-time.Hour), 0.5), // already past due
	}}
	d := &mockDispatcher{}

	s := newTestService(src, d, "me@example.com")
	if fired := s.CheckOnce(context.Background(), now); fired != 2 {
		t.Fatalf("fired = %d, want 2", fired)
	}

	if len(d.sent) != 2 {
		t.Fatalf("sent %d emails, want 2", len(d.sent))
	}
	if _, ok := src.reminded["soon"]; !ok {
		t.Error("task soon not stamped")
	}
	if _, ok := src.reminded["later"]; ok {
		t.Error("task later should not fire yet")
	}
}

func TestCheckOnceDebounce(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 16, 30, 0, 0, time.UTC)
	src := &mockSource{tasks: []task.Task{
		dueTask("a", now.Add(30*time.Minute), 1),
	}}
	d := &mockDispatcher{}
	s := newTestService(src, d, "me@example.com")

	if fired := s.CheckOnce(context.Background(), now); fired != 1 {
		t.Fatalf("first pass fired = %d, want 1", fired)
	}
	// Eleven hours later the stamp still suppresses.
	if fired := s.CheckOnce(context.Background(), now.Add(11*time.Hour)); fired != 0 {
		t.Errorf("pass at +11h fired, debounce should suppress")
	}
	// Thirteen hours later the window has lapsed.
	if fired := s.CheckOnce(context.Background(), now.Add(13*time.Hour)); fired != 1 {
		t.Errorf("pass at +13h did not fire")
	}
}

func TestCheckOnceSkipsCompletedAndUndated(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 16, 30, 0, 0, time.UTC)
	completed := dueTask("done", now.Add(30*time.Minute), 1)
	completed.Completed = true

	src := &mockSource{tasks: []task.Task{
		completed,
		{ID: "undated", Description: "no due date"},
	}}
	d := &mockDispatcher{}
	s := newTestService(src, d, "me@example.com")

	if fired := s.CheckOnce(context.Background(), now); fired != 0 {
		t.Errorf("fired = %d, want 0", fired)
	}
}

func TestCheckOnceFailedSendNotStamped(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 16, 30, 0, 0, time.UTC)
	src := &mockSource{tasks: []task.Task{
		dueTask("a", now.Add(30*time.Minute), 1),
	}}
	d := &mockDispatcher{err: errors.New("ses unavailable")}
	s := newTestService(src, d, "me@example.com")

	if fired := s.CheckOnce(context.Background(), now); fired != 0 {
		t.Errorf("fired = %d, want 0", fired)
	}
	if len(src.reminded) != 0 {
		t.Error("failed delivery must not stamp the task")
	}
	// The next pass retries immediately.
	d.err = nil
	if fired := s.CheckOnce(context.Background(), now.Add(time.Minute)); fired != 1 {
		t.Errorf("retry pass fired = %d, want 1", fired)
	}
}

func TestCheckOnceCallbackWithoutDispatcher(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 16, 30, 0, 0, time.UTC)
	src := &mockSource{tasks: []task.Task{
		dueTask("a", now.Add(30*time.Minute), 1),
	}}

	var got []string
	s := New(src, nil, "", DefaultInterval, log.New(io.Discard, "", 0))
	s.SetCallback(func(t task.Task) { got = append(got, t.ID) })

	if fired := s.CheckOnce(context.Background(), now); fired != 1 {
		t.Fatalf("fired = %d, want 1", fired)
	}
	if len(got) != 1 || got[0] != "a" {
		t.Errorf("callback got %v", got)
	}
	if _, ok := src.reminded["a"]; !ok {
		t.Error("callback delivery must stamp the task")
	}
}

func TestStartStopIdempotent(t *testing.T) {
	t.Parallel()

	src := &mockSource{}
	s := New(src, nil, "", time.Hour, log.New(io.Discard, "", 0))

	s.Start()
	s.Start() // second start is a warning, not a second goroutine
	s.Stop()
	s.Stop() // second stop is a warning
}

func TestDuePhrase(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) // a Tuesday

	today := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	friday := time.Date(2026, 3, 13, 9, 0, 0, 0, time.UTC)

	if got := duePhrase(&today, now); got != "today" {
		t.Errorf("duePhrase(today) = %q", got)
	}
	if got := duePhrase(&tomorrow, now); got != "tomorrow" {
		t.Errorf("duePhrase(tomorrow) = %q", got)
	}
	if got := duePhrase(&friday, now); got != "Friday, March 13" {
		t.Errorf("duePhrase(friday) = %q", got)
	}
}

func TestSubjectTruncation(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 16, 30, 0, 0, time.UTC)
	long := dueTask("a", now.Add(30*time.Minute), 1)
	long.Description = strings.Repeat("x", 60)

	src := &mockSource{tasks: []task.Task{long}}
	d := &mockDispatcher{}
	s := newTestService(src, d, "me@example.com")
	s.CheckOnce(context.Background(), now)

	if len(d.sent) != 1 {
		t.Fatalf("sent %d, want 1", len(d.sent))
	}
	want := "Reminder: " + strings.Repeat("x", 40) + "..."
	if d.sent[0].subject != want {
		t.Errorf("subject = %q", d.sent[0].subject)
	}
}

func TestFunMessageRendersEveryTemplate(t *testing.T) {
	t.Parallel()

	tk := task.Task{ID: "a", Description: "pay rent"}
	for i := 0; i < 200; i++ {
		msg := funMessage(tk)
		if strings.Contains(msg, "%s") || strings.Contains(msg, "%!") {
			t.Fatalf("funMessage left a formatting verb: %q", msg)
		}
	}
}

func TestFunMessageCarriesPriorityPrefix(t *testing.T) {
	t.Parallel()

	tk := task.Task{ID: "a", Description: "pay rent", Priority: "high"}
	msg := funMessage(tk)
	if !strings.HasPrefix(msg, priorityPrefixes["high"]) {
		t.Errorf("funMessage = %q, want %q prefix", msg, priorityPrefixes["high"])
	}
	if !strings.Contains(msg, "pay rent") && !strings.ContainsAny(msg, "!.?") {
		t.Errorf("funMessage = %q looks empty", msg)
	}
}
