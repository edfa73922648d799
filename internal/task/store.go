package task

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// ErrNotFound is returned when a task ID is unknown to the store.
var ErrNotFound = fmt.Errorf("task not found")

// Patch holds optional field updates for Store.Update. Nil fields are left
// untouched.
type Patch struct {
	Description    *string
	Priority       *string
	Categories     *[]string
	DueDate        *time.Time
	ClearDueDate   bool
	EstimatedHours *float64
	Completed      *bool
}

// Store keeps the full task collection in memory and rewrites a single JSON
// array file on every mutation. A missing file is an empty task set; an
// unreadable one is logged and treated the same, never surfaced to callers.
type Store struct {
	mu     sync.RWMutex
	path   string
	tasks  map[string]Task
	logger *log.Logger
}

// NewStore loads (or initializes) the store backed by the given file.
func NewStore(path string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Default()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	s := &Store{
		path:   path,
		tasks:  map[string]Task{},
		logger: logger,
	}
	s.load()
	return s, nil
}

// load reads the backing file into memory. Failures degrade to an empty set.
func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Printf("warning: could not read task file %s: %v (starting empty)", s.path, err)
		}
		return
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		s.logger.Printf("warning: could not parse task file %s: %v (starting empty)", s.path, err)
		return
	}

	for _, t := range tasks {
		s.tasks[t.ID] = t
	}
}

// saveLocked rewrites the whole file. Caller holds the write lock.
func (s *Store) saveLocked() error {
	tasks := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})

	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}

	// Write atomically via temp file
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write tasks: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename tasks file: %w", err)
	}
	return nil
}

// Create inserts a task and persists the collection.
func (s *Store) Create(t Task) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[t.ID] = t
	if err := s.saveLocked(); err != nil {
		s.logger.Printf("warning: persisting task %s failed: %v", t.ID, err)
	}
	return t, nil
}

// Get returns a task by ID.
func (s *Store) Get(id string) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	return t, nil
}

// Update applies a patch to a task and persists.
func (s *Store) Update(id string, p Patch) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, ErrNotFound
	}

	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Categories != nil {
		t.Categories = *p.Categories
	}
	if p.ClearDueDate {
		t.DueDate = nil
	} else if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
	if p.EstimatedHours != nil {
		t.EstimatedHours = *p.EstimatedHours
	}
	if p.Completed != nil {
		if *p.Completed {
			t.Complete()
		} else {
			t.Uncomplete()
		}
	} else {
		t.touch()
	}

	s.tasks[id] = t
	if err := s.saveLocked(); err != nil {
		s.logger.Printf("warning: persisting task %s failed: %v", id, err)
	}
	return t, nil
}

// Complete marks a task done and persists.
func (s *Store) Complete(id string) (Task, error) {
	completed := true
	return s.Update(id, Patch{Completed: &completed})
}

// MarkReminded stamps a task's last-reminded time and persists.
func (s *Store) MarkReminded(id string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return ErrNotFound
	}
	t.MarkReminded(now)
	s.tasks[id] = t
	if err := s.saveLocked(); err != nil {
		s.logger.Printf("warning: persisting reminder stamp for %s failed: %v", id, err)
	}
	return nil
}

// Delete removes a task and persists. Returns false for unknown IDs.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	if err := s.saveLocked(); err != nil {
		s.logger.Printf("warning: persisting delete of %s failed: %v", id, err)
	}
	return true
}

// List returns tasks, optionally filtered by derived status, sorted by due
// date with undated tasks last.
func (s *Store) List(status Status) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := time.Now()
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if status != "" && t.StatusAt(now) != status {
			continue
		}
		out = append(out, t)
	}

	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].DueDate, out[j].DueDate
		switch {
		case di == nil && dj == nil:
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.Before(*dj)
		}
	})
	return out
}

// DueToday returns incomplete tasks whose due date falls on the given day in
// the default location. The day-summary orchestrator consumes this.
func (s *Store) DueToday(now time.Time) []Task {
	loc := DefaultLocation()
	y, m, d := now.In(loc).Date()

	var out []Task
	for _, t := range s.List("") {
		if t.Completed || t.DueDate == nil {
			continue
		}
		ty, tm, td := t.DueDate.In(loc).Date()
		if ty == y && tm == m && td == d {
			out = append(out, t)
		}
	}
	return out
}
