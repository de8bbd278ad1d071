package tui

import (
	"errors"
	"image/color"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/Buchenkov/PlanBoard/internal/app"
	"github.com/Buchenkov/PlanBoard/internal/domain"
)

// task-form field indexes in focus order.
const (
	formFieldTitle = iota
	formFieldDescription
	formFieldDue
	formFieldPriority
	formFieldCompleted
	formFieldCount
)

// formFieldLabels stores the visible label per field.
var formFieldLabels = []string{"title", "description", "due", "priority", "done"}

// taskForm holds the add/edit dialog state. id 0 adds a new task.
type taskForm struct {
	id        int64
	inputs    []textinput.Model
	completed bool
	focus     int
	err       string
}

// newModalInput constructs modal input.
func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	if value != "" {
		in.SetValue(value)
	}
	return in
}

// newTaskForm builds a form pre-filled from in.
func newTaskForm(id int64, in app.TaskFormInput) taskForm {
	return taskForm{
		id: id,
		inputs: []textinput.Model{
			newModalInput("", "required", in.Title, 200),
			newModalInput("", "optional", in.Description, 2000),
			newModalInput("", domain.DateLayout, in.DueDate, len(domain.DateLayout)),
			newModalInput("", "0-10", in.Priority, 2),
		},
		completed: in.Completed,
	}
}

// value returns the raw form input.
func (f taskForm) value() app.TaskFormInput {
	return app.TaskFormInput{
		Title:       f.inputs[formFieldTitle].Value(),
		Description: f.inputs[formFieldDescription].Value(),
		DueDate:     f.inputs[formFieldDue].Value(),
		Completed:   f.completed,
		Priority:    f.inputs[formFieldPriority].Value(),
	}
}

// focusField focuses one field and blurs the rest.
func (f *taskForm) focusField(idx int) tea.Cmd {
	f.focus = clamp(idx, 0, formFieldCount-1)
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focus {
			cmd = f.inputs[i].Focus()
			f.inputs[i].CursorEnd()
			continue
		}
		f.inputs[i].Blur()
	}
	return cmd
}

// shiftDue moves the due date by days, starting from today when the field does not parse.
func (f *taskForm) shiftDue(days int, now time.Time) {
	base, ok := domain.ParseDate(f.inputs[formFieldDue].Value())
	if !ok {
		base = domain.DayOf(now)
		days = 0
	}
	f.inputs[formFieldDue].SetValue(base.AddDate(0, 0, days).Format(domain.DateLayout))
	f.inputs[formFieldDue].CursorEnd()
}

// fieldForValidation maps a validation error onto the field that caused it.
func fieldForValidation(err error) int {
	var verr *app.ValidationError
	if !errors.As(err, &verr) {
		return -1
	}
	switch verr.Field {
	case "title":
		return formFieldTitle
	case "due_date":
		return formFieldDue
	case "priority":
		return formFieldPriority
	default:
		return -1
	}
}

// validationMessage renders a validation error for the form footer.
func validationMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidTitle):
		return "title is required"
	case errors.Is(err, domain.ErrInvalidDueDate):
		return "due date must be a valid YYYY-MM-DD date"
	case errors.Is(err, domain.ErrInvalidPriority):
		return "priority must be a whole number from 0 to 10"
	default:
		return err.Error()
	}
}

// render draws the form modal.
func (f taskForm) render(accent, muted, errColor color.Color, maxWidth int) string {
	width := clamp(maxWidth, 40, 90)
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Width(width)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	labelStyle := lipgloss.NewStyle().Foreground(muted).Width(12)
	focusLabelStyle := lipgloss.NewStyle().Bold(true).Foreground(accent).Width(12)
	hintStyle := lipgloss.NewStyle().Foreground(muted)

	heading := "New Task"
	if f.id != 0 {
		heading = "Edit Task"
	}
	lines := []string{titleStyle.Render(heading), ""}
	for i := 0; i < formFieldCount; i++ {
		ls := labelStyle
		if i == f.focus {
			ls = focusLabelStyle
		}
		var field string
		if i == formFieldCompleted {
			field = "[ ] completed"
			if f.completed {
				field = "[x] completed"
			}
		} else {
			in := f.inputs[i]
			in.SetWidth(max(10, width-18))
			field = in.View()
		}
		lines = append(lines, ls.Render(formFieldLabels[i]+":")+" "+field)
	}
	if f.err != "" {
		lines = append(lines, "", lipgloss.NewStyle().Bold(true).Foreground(errColor).Render(f.err))
	}
	lines = append(lines, "", hintStyle.Render("tab/↓ next • shift+tab/↑ prev • enter save • esc cancel"))
	lines = append(lines, hintStyle.Render("due: ctrl+t today • alt+↑/↓ shift a day • done: space toggles"))
	return style.Render(strings.Join(lines, "\n"))
}
