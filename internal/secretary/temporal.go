package secretary

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire form of an extracted date.
const DateLayout = "2006-01-02"

var (
	explicitDatePattern = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	clockTimePattern    = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(am|pm)?\b`)
)

// ExtractDate pulls a date out of free text, resolved against now. An
// explicit YYYY-MM-DD substring wins verbatim (first match); otherwise the
// relative markers today, tomorrow, "next week" and "next month" are checked
// in that order. "next month" uses calendar arithmetic, so Jan 31 rolls over
// the way AddDate normalizes it rather than a fixed 30-day offset. Returns
// "" when no date is present.
func ExtractDate(input string, now time.Time) string {
	date, _ := ExtractDateToken(input, now)
	return date
}

// ExtractDateToken is ExtractDate plus the substring that produced the date:
// the explicit YYYY-MM-DD text, or the relative marker ("tomorrow", "next
// week", ...). The trimmer strikes the token, not the formatted date, so a
// phrase like "call mom tomorrow" loses its temporal marker along with the
// keyword.
func ExtractDateToken(input string, now time.Time) (date, token string) {
	if match := explicitDatePattern.FindString(input); match != "" {
		return match, match
	}

	lower := strings.ToLower(input)
	var resolved time.Time
	switch {
	case strings.Contains(lower, "today"):
		resolved, token = now, "today"
	case strings.Contains(lower, "tomorrow"):
		resolved, token = now.AddDate(0, 0, 1), "tomorrow"
	case strings.Contains(lower, "next week"):
		resolved, token = now.AddDate(0, 0, 7), "next week"
	case strings.Contains(lower, "next month"):
		resolved, token = now.AddDate(0, 1, 0), "next month"
	default:
		return "", ""
	}

	return resolved.Format(DateLayout), token
}

// ExtractTime pulls the first word-bounded HH:MM clock with optional am/pm
// suffix and normalizes it to zero-padded 24-hour form: pm adds 12 unless the
// hour is already 12, and 12am maps to 00. Returns "" when no time is
// present.
func ExtractTime(input string) string {
	match := clockTimePattern.FindStringSubmatch(input)
	if match == nil {
		return ""
	}

	hour, _ := strconv.Atoi(match[1])
	minute, _ := strconv.Atoi(match[2])

	switch strings.ToLower(match[3]) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}

	return fmt.Sprintf("%02d:%02d", hour, minute)
}

// ResolveTimestamp combines the outputs of ExtractDate and ExtractTime into a
// concrete local timestamp:
//
//   - date and time present: combined directly.
//   - date only: that date at 12:00 noon.
//   - no date: today, with the extracted time applied when one was found,
//     otherwise now unchanged.
//
// The scheduling and reminder handlers share this policy, so an absent
// date/time never produces a malformed timestamp.
func ResolveTimestamp(date, clock string, now time.Time) time.Time {
	if date != "" {
		if clock == "" {
			clock = "12:00"
		}
		resolved, err := time.ParseInLocation(DateLayout+" 15:04", date+" "+clock, now.Location())
		if err != nil {
			// Callers only pass extractor output, so this is a programming
			// error; fall back to now rather than returning a zero time.
			return now
		}
		return resolved
	}

	if clock != "" {
		hour, _ := strconv.Atoi(clock[:2])
		minute, _ := strconv.Atoi(clock[3:])
		return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, now.Second(), 0, now.Location())
	}

	return now
}
