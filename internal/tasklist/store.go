// Package tasklist persists the assistant's reminder tasks as a JSON
// document, rewritten in full after every mutation.
package tasklist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"tarius/internal/logging"
)

// TimeLayout matches the calendar store: local wall-clock, second resolution.
const TimeLayout = "2006-01-02T15:04:05"

// Task priorities.
const (
	PriorityNormal    = 0
	PriorityImportant = 1
	PriorityUrgent    = 2
)

// Task is a reminder entry. Its identity is the description string: Remove
// and Complete match by exact description and affect every record with that
// description.
type Task struct {
	Description string
	DueTime     time.Time
	Completed   bool
	Priority    int
}

type taskRecord struct {
	Description string `json:"description"`
	DueTime     string `json:"dueTime"`
	Completed   bool   `json:"completed"`
	Priority    int    `json:"priority"`
}

// Store holds the in-memory task collection and its backing document, guarded
// by a mutex shared between mutations and due scans.
type Store struct {
	path   string
	logger logging.Logger

	mu    sync.Mutex
	tasks []Task
}

// NewStore loads the document at path, or starts empty when it does not
// exist. Malformed documents are logged and treated as empty.
func NewStore(path string, logger logging.Logger) *Store {
	s := &Store{
		path:   path,
		logger: logging.OrNop(logger),
	}
	s.load()
	return s
}

// Add appends the task and rewrites the document before returning.
func (s *Store) Add(task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append(s.tasks, task)
	err := s.saveLocked()
	s.logger.Info("Added task: %s", task.Description)
	return err
}

// Complete marks every task matching the description as completed and reports
// how many were updated. A miss is logged and is not an error.
func (s *Store) Complete(description string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for i := range s.tasks {
		if s.tasks[i].Description == description {
			s.tasks[i].Completed = true
			updated++
		}
	}

	if updated == 0 {
		s.logger.Warn("Task not found: %s", description)
		return 0, nil
	}

	err := s.saveLocked()
	s.logger.Info("Completed task: %s (%d record(s))", description, updated)
	return updated, err
}

// Remove deletes every task matching the description and reports how many
// were removed.
func (s *Store) Remove(description string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.tasks[:0]
	removed := 0
	for _, task := range s.tasks {
		if task.Description == description {
			removed++
			continue
		}
		kept = append(kept, task)
	}
	s.tasks = kept

	if removed == 0 {
		s.logger.Warn("Task not found: %s", description)
		return 0, nil
	}

	err := s.saveLocked()
	s.logger.Info("Removed task: %s (%d record(s))", description, removed)
	return removed, err
}

// Tasks returns a snapshot of all tasks in insertion order.
func (s *Store) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Task(nil), s.tasks...)
}

// DueTasks returns every non-completed task whose due time equals now at
// minute granularity. Pure predicate; the once-per-minute caller owns
// de-duplication.
func (s *Store) DueTasks(now time.Time) []Task {
	target := truncateToMinute(now)

	s.mu.Lock()
	defer s.mu.Unlock()

	var due []Task
	for _, task := range s.tasks {
		if task.Completed {
			continue
		}
		if truncateToMinute(task.DueTime).Equal(target) {
			due = append(due, task)
		}
	}
	return due
}

// Save rewrites the backing document from the current in-memory state.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		s.logger.Error("Failed to create task directory: %v", err)
		return fmt.Errorf("create task dir: %w", err)
	}

	records := make([]taskRecord, 0, len(s.tasks))
	for _, task := range s.tasks {
		records = append(records, taskRecord{
			Description: task.Description,
			DueTime:     task.DueTime.Format(TimeLayout),
			Completed:   task.Completed,
			Priority:    task.Priority,
		})
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		s.logger.Error("Failed to write task file %s: %v", s.path, err)
		return fmt.Errorf("write task file: %w", err)
	}

	s.logger.Info("Saved %d tasks", len(s.tasks))
	return nil
}

func (s *Store) load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = nil

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("Task file does not exist, starting with empty task list")
		} else {
			s.logger.Error("Failed to read task file %s: %v", s.path, err)
		}
		return
	}

	var records []taskRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Error("Failed to parse task file %s: %v. Preview: %s", s.path, err, preview(data))
		return
	}

	for _, record := range records {
		due, err := time.ParseInLocation(TimeLayout, record.DueTime, time.Local)
		if err != nil {
			s.logger.Warn("Skipping task %q with bad timestamp %q: %v", record.Description, record.DueTime, err)
			continue
		}
		s.tasks = append(s.tasks, Task{
			Description: record.Description,
			DueTime:     due,
			Completed:   record.Completed,
			Priority:    record.Priority,
		})
	}

	s.logger.Info("Loaded %d tasks", len(s.tasks))
}

func truncateToMinute(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
}

func preview(data []byte) string {
	const maxPreview = 256
	p := strings.TrimSpace(string(data))
	p = strings.ReplaceAll(p, "\n", " ")
	if len(p) > maxPreview {
		p = p[:maxPreview] + "... (truncated)"
	}
	return p
}
