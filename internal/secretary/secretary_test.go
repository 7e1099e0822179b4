package secretary

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tarius/internal/calendar"
	"tarius/internal/tasklist"
)

func testSecretary(t *testing.T, now time.Time) (*Secretary, *calendar.Store, *tasklist.Store) {
	t.Helper()
	dir := t.TempDir()
	cal := calendar.NewStore(filepath.Join(dir, "events.json"), nil)
	tasks := tasklist.NewStore(filepath.Join(dir, "tasks.json"), nil)
	sec := New(cal, tasks, nil).WithClock(func() time.Time { return now })
	return sec, cal, tasks
}

func TestHandleTask_SchedulingStoresResolvedTimestamp(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)
	sec, cal, _ := testSecretary(t, now)

	response := sec.HandleTask("schedule a review meeting on 2024-06-01 at 4:30pm")

	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	want := time.Date(2024, 6, 1, 16, 30, 0, 0, time.Local)
	if !events[0].Time.Equal(want) {
		t.Fatalf("stored time %v, want %v", events[0].Time, want)
	}
	if !strings.Contains(response, events[0].Title) {
		t.Fatalf("response %q does not mention title %q", response, events[0].Title)
	}
	if !strings.Contains(response, "June 01, 2024 at 04:30 PM") {
		t.Fatalf("response %q missing human-readable timestamp", response)
	}
}

func TestHandleTask_SchedulingWithoutTimeDefaultsToNoon(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)
	sec, cal, _ := testSecretary(t, now)

	sec.HandleTask("schedule a dentist appointment tomorrow")

	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	want := time.Date(2024, 5, 2, 12, 0, 0, 0, time.Local)
	if !events[0].Time.Equal(want) {
		t.Fatalf("stored time %v, want noon tomorrow %v", events[0].Time, want)
	}
}

func TestHandleTask_ReminderAddsTask(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)
	sec, _, tasks := testSecretary(t, now)

	response := sec.HandleTask("remind me to buy milk")

	stored := tasks.Tasks()
	if len(stored) != 1 {
		t.Fatalf("expected 1 task, got %d", len(stored))
	}
	if !strings.Contains(stored[0].Description, "buy milk") {
		t.Fatalf("description %q should contain %q", stored[0].Description, "buy milk")
	}
	if stored[0].Completed {
		t.Fatal("new task must not be completed")
	}
	if stored[0].Priority != tasklist.PriorityNormal {
		t.Fatalf("priority %d, want normal", stored[0].Priority)
	}
	// No date or time in the utterance: stamped with now unchanged.
	if !stored[0].DueTime.Equal(now) {
		t.Fatalf("due time %v, want %v", stored[0].DueTime, now)
	}
	if !strings.Contains(response, "I'll remind you") {
		t.Fatalf("unexpected response %q", response)
	}
}

func TestHandleTask_SummaryAndNoneAreFixedStrings(t *testing.T) {
	sec, _, _ := testSecretary(t, time.Now())

	if got := sec.HandleTask("summarize our conversation"); got != summaryNotSupportedMsg {
		t.Fatalf("summary response %q", got)
	}
	if got := sec.HandleTask("what a lovely day"); got != cannotHandleMsg {
		t.Fatalf("fallback response %q", got)
	}
}

func TestIsSecretaryTask(t *testing.T) {
	sec, _, _ := testSecretary(t, time.Now())

	for input, want := range map[string]bool{
		"schedule a meeting tomorrow": true,
		"remind me to buy milk":       true,
		"summarize the chat":          true,
		"tell me a joke":              false,
	} {
		if got := sec.IsSecretaryTask(input); got != want {
			t.Errorf("IsSecretaryTask(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestPollDue_EventsBeforeTasks(t *testing.T) {
	now := time.Date(2024, 5, 1, 9, 0, 45, 0, time.Local)
	sec, cal, tasks := testSecretary(t, now)

	due := time.Date(2024, 5, 1, 9, 0, 30, 0, time.Local)
	if err := cal.Add(calendar.Event{Title: "standup", Time: due}); err != nil {
		t.Fatalf("Add event: %v", err)
	}
	if err := tasks.Add(tasklist.Task{Description: "send report", DueTime: due}); err != nil {
		t.Fatalf("Add task: %v", err)
	}
	if err := tasks.Add(tasklist.Task{Description: "done thing", DueTime: due, Completed: true}); err != nil {
		t.Fatalf("Add task: %v", err)
	}

	lines := sec.PollDue(now)
	want := []string{
		"Event: standup is starting now.",
		"Task: send report is due now.",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}

	// One minute later nothing matches.
	if lines := sec.PollDue(now.Add(time.Minute)); len(lines) != 0 {
		t.Fatalf("expected no due records a minute later, got %v", lines)
	}
}
