package secretary

import (
	"regexp"
	"strings"
)

// Fallback labels used when trimming reduces the input to nothing.
const (
	fallbackEventTitle = "Unnamed event"
	fallbackTaskDesc   = "Unnamed task"
)

// Words stripped from scheduling phrases after keywords, date and time.
var schedulingNoiseWords = []string{"today", "tomorrow", "next week", "next month", "am", "pm"}

var whitespaceRun = regexp.MustCompile(`\s+`)

// EventTitle derives an event title from the original (non-lowered) input by
// erasing the first occurrence of each scheduling keyword, then the matched
// date token and extracted time, then common time words.
//
// Removal is by substring position, not token boundary, so a keyword embedded
// in another word is erased too ("am" inside "campaign"). That over-trim is
// an accepted heuristic limitation of the rule cascade, pinned by tests; do
// not quietly switch to word-boundary matching.
func EventTitle(input, dateToken, clock string) string {
	title := input
	for _, keyword := range schedulingKeywords {
		title = removeFirst(title, keyword)
	}
	title = removeFirst(title, dateToken)
	title = removeFirst(title, clock)
	for _, word := range schedulingNoiseWords {
		title = removeFirst(title, word)
	}

	title = collapseWhitespace(title)
	if title == "" {
		return fallbackEventTitle
	}
	return title
}

// TaskDescription derives a task description from the original input by
// erasing the first occurrence of each reminder keyword, then the matched
// date token and extracted time. Same substring semantics as EventTitle.
func TaskDescription(input, dateToken, clock string) string {
	desc := input
	for _, keyword := range reminderKeywords {
		desc = removeFirst(desc, keyword)
	}
	desc = removeFirst(desc, dateToken)
	desc = removeFirst(desc, clock)

	desc = collapseWhitespace(desc)
	if desc == "" {
		return fallbackTaskDesc
	}
	return desc
}

// removeFirst erases the first occurrence of sub from s. Empty sub is a
// no-op.
func removeFirst(s, sub string) string {
	if sub == "" {
		return s
	}
	if idx := strings.Index(s, sub); idx >= 0 {
		return s[:idx] + s[idx+len(sub):]
	}
	return s
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}
