package secretary

import (
	"regexp"
	"strings"
)

// Intent is the task category assigned to a user utterance.
type Intent int

const (
	IntentNone Intent = iota
	IntentScheduling
	IntentReminder
	IntentSummary
)

func (i Intent) String() string {
	switch i {
	case IntentScheduling:
		return "scheduling"
	case IntentReminder:
		return "reminder"
	case IntentSummary:
		return "summary"
	default:
		return "none"
	}
}

// Classification is keyword/pattern driven. The rule sets live in package
// vars so the cascade order is an inspectable artifact rather than implicit
// control flow. Matching is case-insensitive substring matching over the
// whole input; only the two compiled patterns anchor on word boundaries.
var (
	schedulingKeywords = []string{"schedule", "meeting", "appointment", "event"}
	reminderKeywords   = []string{"remind", "remember", "don't forget", "task", "to-do", "todo"}
	summaryKeywords    = []string{"summarize", "summary"}
	summaryTargets     = []string{"conversation", "chat", "discussion"}

	// Relative markers that make a scheduling phrase time-anchored.
	schedulingTimeMarkers = []string{"tomorrow", "today", "next"}

	clockMarkerPattern = regexp.MustCompile(`\b\d{1,2}(:\d{2})? ?(am|pm)\b`)
	dateMarkerPattern  = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
)

// IsSchedulingRequest reports whether input asks to put something on the
// calendar: a scheduling keyword plus some temporal anchor.
func IsSchedulingRequest(input string) bool {
	lower := strings.ToLower(input)
	if !containsAny(lower, schedulingKeywords) {
		return false
	}
	return containsAny(lower, schedulingTimeMarkers) ||
		clockMarkerPattern.MatchString(lower) ||
		dateMarkerPattern.MatchString(lower)
}

// IsReminderRequest reports whether input asks for a reminder or task. No
// temporal anchor is required.
func IsReminderRequest(input string) bool {
	return containsAny(strings.ToLower(input), reminderKeywords)
}

// IsSummaryRequest reports whether input asks for a conversation summary.
func IsSummaryRequest(input string) bool {
	lower := strings.ToLower(input)
	return containsAny(lower, summaryKeywords) && containsAny(lower, summaryTargets)
}

// Classify returns the first matching intent in fixed priority order:
// scheduling, then reminder, then summary. The predicates are not mutually
// exclusive; dispatch short-circuits.
func Classify(input string) Intent {
	switch {
	case IsSchedulingRequest(input):
		return IntentScheduling
	case IsReminderRequest(input):
		return IntentReminder
	case IsSummaryRequest(input):
		return IntentSummary
	default:
		return IntentNone
	}
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
