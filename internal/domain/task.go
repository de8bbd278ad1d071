package domain

import (
	"strings"
)

const (
	MinPriority = 0
	MaxPriority = 10
)

// Task is one planner record as stored in the tasks table.
type Task struct {
	ID          int64
	Title       string
	Description string
	DueDate     string
	CreatedAt   string
	Completed   bool
	Priority    int
}

type TaskInput struct {
	Title       string
	Description string
	DueDate     string
	Priority    int
}

// NewTask builds an open task created on today. Only the fields the store needs are checked;
// priority range and past due dates are form concerns.
func NewTask(in TaskInput, today string) (Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.DueDate = strings.TrimSpace(in.DueDate)

	if in.Title == "" {
		return Task{}, ErrInvalidTitle
	}
	if in.DueDate == "" {
		return Task{}, ErrInvalidDueDate
	}

	return Task{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		CreatedAt:   today,
		Completed:   false,
		Priority:    in.Priority,
	}, nil
}

// TaskPatch is a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *string
	Completed   *bool
	Priority    *int
}

func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil && p.Completed == nil && p.Priority == nil
}

// Apply returns t with the patch fields copied over.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	return t
}

// FullPatch sets every editable field from the given values.
func FullPatch(title, description, dueDate string, completed bool, priority int) TaskPatch {
	return TaskPatch{
		Title:       &title,
		Description: &description,
		DueDate:     &dueDate,
		Completed:   &completed,
		Priority:    &priority,
	}
}

func StatusLabel(completed bool) string {
	if completed {
		return "done"
	}
	return "open"
}
