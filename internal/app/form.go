package app

import (
	"strconv"
	"strings"
	"time"

	"github.com/Buchenkov/PlanBoard/internal/domain"
)

// TaskFormInput holds the raw values typed into the task edit form.
type TaskFormInput struct {
	Title       string
	Description string
	DueDate     string
	Completed   bool
	Priority    string
}

// TaskFormValues holds validated form values in the canonical update order.
type TaskFormValues struct {
	Title       string
	Description string
	DueDate     string
	Completed   bool
	Priority    int
}

// Patch converts the values into a full update.
func (v TaskFormValues) Patch() domain.TaskPatch {
	return domain.FullPatch(v.Title, v.Description, v.DueDate, v.Completed, v.Priority)
}

// TaskFormResult is the outcome of a successful validation.
type TaskFormResult struct {
	Values TaskFormValues
	// NeedsPastDueConfirm is set when the due date lies before today; the caller must confirm
	// before the values are written.
	NeedsPastDueConfirm bool
}

// NewTaskFormInput returns the defaults for a new task: due today, priority 0.
func NewTaskFormInput(now time.Time) TaskFormInput {
	return TaskFormInput{
		DueDate:  domain.Today(now),
		Priority: "0",
	}
}

// TaskFormInputFrom pre-fills the form from an existing task. Unparseable due dates are
// replaced by today, matching the date picker fallback.
func TaskFormInputFrom(t domain.Task, now time.Time) TaskFormInput {
	due := t.DueDate
	if !domain.IsValidDate(due) {
		due = domain.Today(now)
	}
	return TaskFormInput{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     due,
		Completed:   t.Completed,
		Priority:    strconv.Itoa(t.Priority),
	}
}

// ValidateTaskForm validates the form against the calendar date of now.
func ValidateTaskForm(in TaskFormInput, now time.Time) (TaskFormResult, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return TaskFormResult{}, &ValidationError{Field: "title", Err: domain.ErrInvalidTitle}
	}

	dueRaw := strings.TrimSpace(in.DueDate)
	due, ok := domain.ParseDate(dueRaw)
	if !ok {
		return TaskFormResult{}, &ValidationError{Field: "due_date", Err: domain.ErrInvalidDueDate}
	}

	priority := 0
	if raw := strings.TrimSpace(in.Priority); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < domain.MinPriority || n > domain.MaxPriority {
			return TaskFormResult{}, &ValidationError{Field: "priority", Err: domain.ErrInvalidPriority}
		}
		priority = n
	}

	return TaskFormResult{
		Values: TaskFormValues{
			Title:       title,
			Description: strings.TrimSpace(in.Description),
			DueDate:     due.Format(domain.DateLayout),
			Completed:   in.Completed,
			Priority:    priority,
		},
		NeedsPastDueConfirm: due.Before(domain.DayOf(now)),
	}, nil
}
