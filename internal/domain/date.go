package domain

import (
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used for due_date and created_at.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO calendar date into midnight UTC. The bool is false for empty or
// malformed input; callers treat that as an unknown date.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// IsValidDate reports whether raw is a well-formed calendar date.
func IsValidDate(raw string) bool {
	_, ok := ParseDate(raw)
	return ok
}

// DayOf returns the calendar date of now (in now's location) as midnight UTC,
// comparable with values returned by ParseDate.
func DayOf(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today formats the calendar date of now.
func Today(now time.Time) string {
	return DayOf(now).Format(DateLayout)
}

// compareDue compares a due date against today. ok is false when due is unknown.
func compareDue(due string, today time.Time) (cmp int, ok bool) {
	d, ok := ParseDate(due)
	if !ok {
		return 0, false
	}
	return d.Compare(today), true
}
