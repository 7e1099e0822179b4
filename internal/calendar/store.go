// Package calendar persists the assistant's event collection as a JSON
// document, rewritten in full after every mutation.
package calendar

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

// TimeLayout is the persisted timestamp form: local wall-clock at second
// resolution, no zone suffix.
const TimeLayout = "2006-01-02T15:04:05"

// Event is a calendar entry. Its identity is the title: removal and lookup
// match by exact title and affect every record with that title.
type Event struct {
	Title       string
	Time        time.Time
	Description string
	IsAllDay    bool
}

// eventRecord is the on-disk shape of an Event.
type eventRecord struct {
	Title       string `json:"title"`
	Time        string `json:"time"`
	Description string `json:"description"`
	IsAllDay    bool   `json:"isAllDay"`
}

// Store holds the in-memory event collection and its backing document. All
// access goes through the mutex so a mutation and a due scan never observe a
// torn collection.
type Store struct {
	path   string
	logger logging.Logger

	mu     sync.Mutex
	events []Event
}

// NewStore loads the document at path, or starts empty when it does not
// exist. A malformed document is logged and treated as empty; load failure is
// never fatal.
func NewStore(path string, logger logging.Logger) *Store {
	s := &Store{
		path:   path,
		logger: logging.OrNop(logger),
	}
	s.load()
	return s
}

// Add appends the event and rewrites the document before returning. On write
// failure the in-memory addition is retained and the error returned.
func (s *Store) Add(event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, event)
	err := s.saveLocked()
	s.logger.Info("Added event: %s", event.Title)
	return err
}

// Remove deletes every event whose title matches exactly and reports how many
// were removed. A miss is logged and is not an error.
func (s *Store) Remove(title string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.events[:0]
	removed := 0
	for _, event := range s.events {
		if event.Title == title {
			removed++
			continue
		}
		kept = append(kept, event)
	}
	s.events = kept

	if removed == 0 {
		s.logger.Warn("Event not found: %s", title)
		return 0, nil
	}

	err := s.saveLocked()
	s.logger.Info("Removed event: %s (%d record(s))", title, removed)
	return removed, err
}

// Events returns a snapshot of all events in insertion order.
func (s *Store) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

// EventsOn returns the events falling on the given YYYY-MM-DD date.
func (s *Store) EventsOn(date string) ([]Event, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", date, err)
	}
	start := day
	end := day.AddDate(0, 0, 1)

	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []Event
	for _, event := range s.events {
		if !event.Time.Before(start) && event.Time.Before(end) {
			matched = append(matched, event)
		}
	}
	return matched, nil
}

// DueEvents returns every event whose time equals now at minute granularity
// (seconds zeroed on both sides). The predicate keeps no scan history;
// once-per-minute invocation and de-duplication are the caller's job.
func (s *Store) DueEvents(now time.Time) []Event {
	target := truncateToMinute(now)

	s.mu.Lock()
	defer s.mu.Unlock()

	var due []Event
	for _, event := range s.events {
		if truncateToMinute(event.Time).Equal(target) {
			due = append(due, event)
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
		s.logger.Error("Failed to create calendar directory: %v", err)
		return fmt.Errorf("create calendar dir: %w", err)
	}

	records := make([]eventRecord, 0, len(s.events))
	for _, event := range s.events {
		records = append(records, eventRecord{
			Title:       event.Title,
			Time:        event.Time.Format(TimeLayout),
			Description: event.Description,
			IsAllDay:    event.IsAllDay,
		})
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		s.logger.Error("Failed to write calendar file %s: %v", s.path, err)
		return fmt.Errorf("write calendar file: %w", err)
	}

	s.logger.Info("Saved %d events to calendar", len(s.events))
	return nil
}

func (s *Store) load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("Calendar file does not exist, starting with empty calendar")
		} else {
			s.logger.Error("Failed to read calendar file %s: %v", s.path, err)
		}
		return
	}

	var records []eventRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Error("Failed to parse calendar file %s: %v. Preview: %s", s.path, err, preview(data))
		return
	}

	for _, record := range records {
		when, err := time.ParseInLocation(TimeLayout, record.Time, time.Local)
		if err != nil {
			s.logger.Warn("Skipping event %q with bad timestamp %q: %v", record.Title, record.Time, err)
			continue
		}
		s.events = append(s.events, Event{
			Title:       record.Title,
			Time:        when,
			Description: record.Description,
			IsAllDay:    record.IsAllDay,
		})
	}

	s.logger.Info("Loaded %d events from calendar", len(s.events))
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
