package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Buchenkov/PlanBoard/internal/domain"
	"github.com/google/uuid"
)

const icsDateLayout = "20060102"

// calendarNamespace scopes the name-based event UIDs so re-exports update the same events.
var calendarNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/Buchenkov/PlanBoard/tasks"))

// ExportCalendar builds an iCalendar document with one all-day event per task that passes mode.
func (s *Service) ExportCalendar(ctx context.Context, mode domain.StatusMode) (string, int, error) {
	tasks, err := s.ListTasks(ctx, domain.DefaultOrder())
	if err != nil {
		return "", 0, err
	}
	now := s.clock()
	today := domain.DayOf(now)
	selected := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if mode.Matches(t, today) {
			selected = append(selected, t)
		}
	}
	doc, n := BuildCalendarICS(selected, now)
	return doc, n, nil
}

// BuildCalendarICS renders tasks as VEVENTs. Tasks without a parseable due date are skipped;
// the returned count is the number of events written.
func BuildCalendarICS(tasks []domain.Task, now time.Time) (string, int) {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//PlanBoard//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	stamp := now.UTC().Format("20060102T150405Z")
	count := 0
	for _, t := range tasks {
		due, ok := domain.ParseDate(t.DueDate)
		if !ok {
			continue
		}
		title := strings.TrimSpace(t.Title)
		if title == "" {
			title = "PlanBoard Task"
		}
		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+TaskEventUID(t.ID),
			"DTSTAMP:"+stamp,
			"SUMMARY:"+escapeICSText(title),
			"DTSTART;VALUE=DATE:"+due.Format(icsDateLayout),
			"DTEND;VALUE=DATE:"+due.AddDate(0, 0, 1).Format(icsDateLayout),
		)
		if desc := strings.TrimSpace(t.Description); desc != "" {
			lines = append(lines, "DESCRIPTION:"+escapeICSText(desc))
		}
		lines = append(lines,
			fmt.Sprintf("PRIORITY:%d", icsPriority(t.Priority)),
			"CATEGORIES:"+strings.ToUpper(domain.StatusLabel(t.Completed)),
			"END:VEVENT",
		)
		count++
	}
	lines = append(lines, "END:VCALENDAR", "")
	return strings.Join(lines, "\r\n"), count
}

// TaskEventUID returns the stable calendar UID of a task id.
func TaskEventUID(id int64) string {
	return uuid.NewSHA1(calendarNamespace, []byte(fmt.Sprintf("task-%d", id))).String() + "@planboard"
}

// icsPriority maps 0..10 (10 most urgent) onto RFC 5545 1..9 (1 most urgent); 0 stays undefined.
func icsPriority(p int) int {
	switch {
	case p <= 0:
		return 0
	case p >= 9:
		return 1
	default:
		return 10 - p
	}
}

func escapeICSText(v string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\r\n", `\n`,
		"\n", `\n`,
	)
	return r.Replace(v)
}
