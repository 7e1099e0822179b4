// Package secretary implements the rule-based task pipeline: intent
// classification, date/time and entity extraction, and the handlers that turn
// an utterance into a stored calendar event or reminder task.
package secretary

import (
	"fmt"
	"time"

	"tarius/internal/calendar"
	"tarius/internal/logging"
	"tarius/internal/tasklist"
)

// Human-readable timestamp used in confirmations, e.g.
// "May 01, 2024 at 03:00 PM".
const confirmationLayout = "January 02, 2006 at 03:04 PM"

// Fixed responses for the two non-handled outcomes.
const (
	summaryNotSupportedMsg = "I'm still learning how to summarize conversations. This feature will be available in a future update."
	cannotHandleMsg        = "I'm not sure how to handle that task."
)

// Secretary routes utterances through the classifier to the scheduling and
// reminder handlers. It is stateless across calls except via the injected
// stores, and never lets an error escape: failures become logged side effects
// or user-facing strings.
type Secretary struct {
	calendar *calendar.Store
	tasks    *tasklist.Store
	logger   logging.Logger
	now      func() time.Time
}

// New creates a Secretary over the given stores.
func New(cal *calendar.Store, tasks *tasklist.Store, logger logging.Logger) *Secretary {
	return &Secretary{
		calendar: cal,
		tasks:    tasks,
		logger:   logging.OrNop(logger),
		now:      time.Now,
	}
}

// WithClock overrides the wall clock. Tests use it to pin "now".
func (s *Secretary) WithClock(now func() time.Time) *Secretary {
	s.now = now
	return s
}

// IsSecretaryTask reports whether any intent predicate matches the input.
func (s *Secretary) IsSecretaryTask(input string) bool {
	return IsSchedulingRequest(input) || IsReminderRequest(input) || IsSummaryRequest(input)
}

// HandleTask dispatches the utterance to the first matching handler in
// priority order and returns the user-facing response.
func (s *Secretary) HandleTask(input string) string {
	switch Classify(input) {
	case IntentScheduling:
		return s.handleScheduling(input)
	case IntentReminder:
		return s.handleReminder(input)
	case IntentSummary:
		return summaryNotSupportedMsg
	default:
		return cannotHandleMsg
	}
}

// PollDue returns notification lines for every record due at now, events
// before tasks. Matching is minute-granular and keeps no scan history; the
// once-per-minute caller owns de-duplication.
func (s *Secretary) PollDue(now time.Time) []string {
	var lines []string
	for _, event := range s.calendar.DueEvents(now) {
		lines = append(lines, fmt.Sprintf("Event: %s is starting now.", event.Title))
	}
	for _, task := range s.tasks.DueTasks(now) {
		lines = append(lines, fmt.Sprintf("Task: %s is due now.", task.Description))
	}
	return lines
}

func (s *Secretary) handleScheduling(input string) string {
	now := s.now()
	date, token := ExtractDateToken(input, now)
	clock := ExtractTime(input)
	title := EventTitle(input, token, clock)
	when := ResolveTimestamp(date, clock, now)

	event := calendar.Event{Title: title, Time: when}
	if err := s.calendar.Add(event); err != nil {
		// The in-memory addition applied; the document catches up on the
		// next successful save.
		s.logger.Error("Failed to persist event %q: %v", title, err)
	}

	return fmt.Sprintf("I've scheduled %q for %s. I'll remind you when it's time.",
		title, when.Format(confirmationLayout))
}

func (s *Secretary) handleReminder(input string) string {
	now := s.now()
	date, token := ExtractDateToken(input, now)
	clock := ExtractTime(input)
	desc := TaskDescription(input, token, clock)
	due := ResolveTimestamp(date, clock, now)

	task := tasklist.Task{Description: desc, DueTime: due, Priority: tasklist.PriorityNormal}
	if err := s.tasks.Add(task); err != nil {
		s.logger.Error("Failed to persist task %q: %v", desc, err)
	}

	return fmt.Sprintf("I'll remind you to %q on %s.", desc, due.Format(confirmationLayout))
}
