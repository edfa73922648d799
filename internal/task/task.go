package task

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is derived from the completion flag and a date comparison at read
// time; it is never stored.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusPastDue    Status = "past_due"
)

// Task represents a single item on the todo list.
type Task struct {
	ID             string
	Description    string
	Priority       string
	Categories     []string
	DueDate        *time.Time
	EstimatedHours float64
	Completed      bool
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastReminded   *time.Time
}

// New creates a task with a generated ID and stamped timestamps.
// The due date, if set, has already passed through the timestamp boundary
// (ParseDueDate or a time.Time carrying a location).
func New(description string, due *time.Time, estimatedHours float64) Task {
	now := time.Now().UTC()
	return Task{
		ID:             uuid.New().String(),
		Description:    description,
		DueDate:        due,
		EstimatedHours: estimatedHours,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (t *Task) touch() {
	t.UpdatedAt = time.Now().UTC()
}

// Complete marks the task done and stamps the completion time.
func (t *Task) Complete() {
	now := time.Now().UTC()
	t.Completed = true
	t.CompletedAt = &now
	t.UpdatedAt = now
}

// Uncomplete reopens a completed task.
func (t *Task) Uncomplete() {
	t.Completed = false
	t.CompletedAt = nil
	t.touch()
}

// MarkReminded stamps the last-reminded time. The reminder loop's 12h
// debounce reads this stamp.
func (t *Task) MarkReminded(now time.Time) {
	n := now.UTC()
	t.LastReminded = &n
	t.UpdatedAt = n
}

// StatusAt derives the task status from the due date and "now".
func (t *Task) StatusAt(now time.Time) Status {
	switch {
	case t.Completed:
		return StatusCompleted
	case t.DueDate == nil:
		return StatusPending
	case t.DueDate.Before(now):
		return StatusPastDue
	default:
		return StatusInProgress
	}
}

// record is the JSON-compatible mapping a task serializes to and from.
// Timestamps are ISO strings so hand-edited files with naive timestamps can
// still be normalized at load.
type record struct {
	ID             string   `json:"id"`
	Description    string   `json:"description"`
	Priority       string   `json:"priority,omitempty"`
	Categories     []string `json:"categories,omitempty"`
	DueDate        string   `json:"due_date,omitempty"`
	EstimatedHours float64  `json:"estimated_hours"`
	Completed      bool     `json:"completed"`
	CompletedAt    string   `json:"completed_at,omitempty"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
	LastReminded   string   `json:"last_reminded,omitempty"`
}

// MarshalJSON serializes the task with RFC3339 timestamps. Nanosecond
// precision is kept so a serialized task loads back equal in all fields.
func (t Task) MarshalJSON() ([]byte, error) {
	r := record{
		ID:             t.ID,
		Description:    t.Description,
		Priority:       t.Priority,
		Categories:     t.Categories,
		EstimatedHours: t.EstimatedHours,
		Completed:      t.Completed,
		CreatedAt:      t.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:      t.UpdatedAt.Format(time.RFC3339Nano),
	}
	if t.DueDate != nil {
		r.DueDate = t.DueDate.Format(time.RFC3339Nano)
	}
	if t.CompletedAt != nil {
		r.CompletedAt = t.CompletedAt.Format(time.RFC3339Nano)
	}
	if t.LastReminded != nil {
		r.LastReminded = t.LastReminded.Format(time.RFC3339Nano)
	}
	return json.Marshal(r)
}

// UnmarshalJSON deserializes a task, normalizing every timestamp at the
// boundary. Naive timestamps are localized to the configured location; this
// is the single normalization point in the system.
func (t *Task) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}

	parsed := Task{
		ID:             r.ID,
		Description:    r.Description,
		Priority:       r.Priority,
		Categories:     r.Categories,
		EstimatedHours: r.EstimatedHours,
		Completed:      r.Completed,
	}
	if parsed.ID == "" {
		parsed.ID = uuid.New().String()
	}

	var err error
	if parsed.CreatedAt, err = ParseTimestamp(r.CreatedAt); err != nil {
		return fmt.Errorf("task %s: created_at: %w", r.ID, err)
	}
	if r.UpdatedAt != "" {
		if parsed.UpdatedAt, err = ParseTimestamp(r.UpdatedAt); err != nil {
			return fmt.Errorf("task %s: updated_at: %w", r.ID, err)
		}
	} else {
		parsed.UpdatedAt = parsed.CreatedAt
	}
	if parsed.DueDate, err = parseOptional(r.DueDate); err != nil {
		return fmt.Errorf("task %s: due_date: %w", r.ID, err)
	}
	if parsed.CompletedAt, err = parseOptional(r.CompletedAt); err != nil {
		return fmt.Errorf("task %s: completed_at: %w", r.ID, err)
	}
	if parsed.LastReminded, err = parseOptional(r.LastReminded); err != nil {
		return fmt.Errorf("task %s: last_reminded: %w", r.ID, err)
	}

	*t = parsed
	return nil
}

func parseOptional(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	ts, err := ParseTimestamp(s)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}
