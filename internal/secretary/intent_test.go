package secretary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSchedulingRequest(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  bool
	}{
		{"keyword plus relative day", "Schedule a meeting with Bob tomorrow", true},
		{"keyword plus clock time", "set up an appointment at 3pm", true},
		{"keyword plus explicit date", "add event on 2024-06-01", true},
		{"keyword plus next", "schedule the review for next week", true},
		{"keyword without temporal anchor", "I like meetings", false},
		{"temporal anchor without keyword", "see you tomorrow", false},
		{"empty", "", false},
		{"case insensitive", "SCHEDULE A MEETING TOMORROW", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsSchedulingRequest(tc.input))
		})
	}
}

func TestIsReminderRequest(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"remind me to buy milk", true},
		{"Remember to stretch", true},
		{"don't forget the keys", true},
		{"add a to-do for laundry", true},
		{"my todo list", true},
		{"new task: write report", true},
		{"what's the weather", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, IsReminderRequest(tc.input), "input: %q", tc.input)
	}
}

func TestIsSummaryRequest(t *testing.T) {
	assert.True(t, IsSummaryRequest("summarize our conversation"))
	assert.True(t, IsSummaryRequest("give me a summary of the chat"))
	assert.True(t, IsSummaryRequest("Summary of the discussion please"))
	// Both halves are required.
	assert.False(t, IsSummaryRequest("summarize this article"))
	assert.False(t, IsSummaryRequest("our conversation was nice"))
}

func TestClassify_PriorityOrder(t *testing.T) {
	// "schedule ... task ... tomorrow" matches both scheduling and reminder;
	// scheduling is checked first.
	assert.Equal(t, IntentScheduling, Classify("schedule a task review meeting tomorrow"))

	assert.Equal(t, IntentReminder, Classify("remind me to buy milk"))
	assert.Equal(t, IntentSummary, Classify("summarize the conversation"))
	assert.Equal(t, IntentNone, Classify("hello there"))
}

func TestClassify_ReminderWithoutSchedulingAnchor(t *testing.T) {
	// "remind me to buy milk" has no scheduling keyword, so the scheduling
	// predicate stays false and reminder wins.
	input := "remind me to buy milk"
	assert.False(t, IsSchedulingRequest(input))
	assert.True(t, IsReminderRequest(input))
	assert.False(t, IsSummaryRequest(input))
}

func TestIntent_String(t *testing.T) {
	assert.Equal(t, "scheduling", IntentScheduling.String())
	assert.Equal(t, "reminder", IntentReminder.String())
	assert.Equal(t, "summary", IntentSummary.String())
	assert.Equal(t, "none", IntentNone.String())
}
