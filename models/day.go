package models

import (
	"strings"
	"time"
)

// DayLayout is the canonical persisted form of a calendar day.
const DayLayout = "2006-01-02"

// dayLayouts are tried in order when parsing a stored day value.
var dayLayouts = []string{
	DayLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDay parses a calendar-day value and returns midnight UTC of the day as written.
// Timestamps are accepted but their time-of-day and offset are discarded, so
// "2024-06-01T23:30:00-05:00" is still June 1st.
func ParseDay(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, &ParseError{Value: value, Reason: "empty"}
	}
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return DayOf(t), nil
		}
	}
	return time.Time{}, &ParseError{Value: value, Reason: "unrecognized date format"}
}

// DayOf drops the time-of-day of t, keeping the calendar day t has in its own location.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDay renders t as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return DayOf(t).Format(DayLayout)
}

// DaysBetween returns the number of calendar days from a to b (negative when b is before a).
func DaysBetween(a, b time.Time) int {
	return int(DayOf(b).Sub(DayOf(a)).Hours() / 24)
}

// AddDays returns the calendar day n days after t.
func AddDays(t time.Time, n int) time.Time {
	return DayOf(t).AddDate(0, 0, n)
}

// canonicalDay rewrites a parseable day to YYYY-MM-DD and leaves anything else untouched
// so validation can report it.
func canonicalDay(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	t, err := ParseDay(value)
	if err != nil {
		return value
	}
	return FormatDay(t)
}

// ResolveDay parses user input for a day: "today", "tomorrow", "yesterday"
// (relative to today) or anything ParseDay accepts. Empty input means today.
func ResolveDay(value string, today time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "today":
		return DayOf(today), nil
	case "tomorrow":
		return AddDays(today, 1), nil
	case "yesterday":
		return AddDays(today, -1), nil
	}
	return ParseDay(value)
}
