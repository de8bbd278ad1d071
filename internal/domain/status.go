package domain

import (
	"strings"
	"time"
)

// StatusMode is one of the canned status filters.
type StatusMode string

const (
	StatusAll       StatusMode = "all"
	StatusOpen      StatusMode = "open"
	StatusOverdue   StatusMode = "overdue"
	StatusDueToday  StatusMode = "due-today"
	StatusCompleted StatusMode = "completed"
)

var statusModes = []StatusMode{StatusAll, StatusOpen, StatusOverdue, StatusDueToday, StatusCompleted}

// StatusModes returns the modes in display order.
func StatusModes() []StatusMode {
	return append([]StatusMode(nil), statusModes...)
}

// ParseStatusMode accepts a mode name case-insensitively; "today" and "done" are accepted aliases.
func ParseStatusMode(raw string) (StatusMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return StatusAll, nil
	case "open":
		return StatusOpen, nil
	case "overdue":
		return StatusOverdue, nil
	case "due-today", "due_today", "today":
		return StatusDueToday, nil
	case "completed", "done":
		return StatusCompleted, nil
	default:
		return "", ErrInvalidStatusMode
	}
}

// Label returns the human-facing name of the mode.
func (m StatusMode) Label() string {
	switch m {
	case StatusOpen:
		return "Open"
	case StatusOverdue:
		return "Overdue"
	case StatusDueToday:
		return "Today"
	case StatusCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// Next cycles through the modes in display order.
func (m StatusMode) Next(delta int) StatusMode {
	idx := 0
	for i, mode := range statusModes {
		if mode == m {
			idx = i
			break
		}
	}
	n := len(statusModes)
	idx = ((idx+delta)%n + n) % n
	return statusModes[idx]
}

// Matches reports whether t passes the mode on the given day. Unknown due dates never match
// overdue or due-today.
func (m StatusMode) Matches(t Task, today time.Time) bool {
	switch m {
	case StatusOpen:
		return !t.Completed
	case StatusOverdue:
		if t.Completed {
			return false
		}
		cmp, ok := compareDue(t.DueDate, today)
		return ok && cmp < 0
	case StatusDueToday:
		if t.Completed {
			return false
		}
		cmp, ok := compareDue(t.DueDate, today)
		return ok && cmp == 0
	case StatusCompleted:
		return t.Completed
	default:
		return true
	}
}

// ColorHint is a presentation tag derived from task state. It is never persisted.
type ColorHint string

const (
	HintNone     ColorHint = ""
	HintMuted    ColorHint = "muted"
	HintOverdue  ColorHint = "overdue"
	HintDueToday ColorHint = "due-today"
)

// HintFor derives the color hint; the first matching rule wins:
// completed, unknown due date, overdue, due today.
func HintFor(t Task, today time.Time) ColorHint {
	if t.Completed {
		return HintMuted
	}
	cmp, ok := compareDue(t.DueDate, today)
	switch {
	case !ok:
		return HintNone
	case cmp < 0:
		return HintOverdue
	case cmp == 0:
		return HintDueToday
	default:
		return HintNone
	}
}

// MatchesSearch reports whether title contains query, ignoring case.
func MatchesSearch(title, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(query))
}
