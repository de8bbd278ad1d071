package app

import (
	"context"
	"errors"
	"time"

	"github.com/Buchenkov/PlanBoard/internal/domain"
)

// Clock returns the current time.
type Clock func() time.Time

// Service wraps the task repository with the date and error policy of the planner.
type Service struct {
	repo  Repository
	clock Clock
}

// NewService constructs a new value for this package.
func NewService(repo Repository, clock Clock) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		repo:  repo,
		clock: clock,
	}
}

// Now returns the service clock reading.
func (s *Service) Now() time.Time {
	return s.clock()
}

// Today returns the current calendar date as stored in created_at.
func (s *Service) Today() string {
	return domain.Today(s.clock())
}

// AddTaskInput holds input values for add task operations.
type AddTaskInput struct {
	Title       string
	Description string
	DueDate     string
	Priority    int
}

// ListTasks lists tasks in the requested order; disallowed clauses fall back to the default order.
func (s *Service) ListTasks(ctx context.Context, order []domain.OrderClause) ([]domain.Task, error) {
	tasks, err := s.repo.ListTasks(ctx, domain.NormalizeOrder(order))
	if err != nil {
		return nil, storageErr("list tasks", err)
	}
	return tasks, nil
}

// AddTask creates an open task dated today and returns its id.
func (s *Service) AddTask(ctx context.Context, in AddTaskInput) (int64, error) {
	task, err := domain.NewTask(domain.TaskInput{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
	}, s.Today())
	if err != nil {
		return 0, &ValidationError{Field: fieldForDomainErr(err), Err: err}
	}
	id, err := s.repo.CreateTask(ctx, task)
	if err != nil {
		return 0, storageErr("add task", err)
	}
	return id, nil
}

// UpdateTask applies a partial update. It returns false when the patch is empty or the id is unknown.
func (s *Service) UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) (bool, error) {
	if patch.IsEmpty() || id <= 0 {
		return false, nil
	}
	ok, err := s.repo.UpdateTask(ctx, id, patch)
	if err != nil {
		return false, storageErr("update task", err)
	}
	return ok, nil
}

// DeleteTask deletes a task. It returns false when the id is unknown.
func (s *Service) DeleteTask(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	ok, err := s.repo.DeleteTask(ctx, id)
	if err != nil {
		return false, storageErr("delete task", err)
	}
	return ok, nil
}

// GetTask returns the task and whether it exists.
func (s *Service) GetTask(ctx context.Context, id int64) (domain.Task, bool, error) {
	if id <= 0 {
		return domain.Task{}, false, nil
	}
	task, err := s.repo.GetTask(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return domain.Task{}, false, nil
	}
	if err != nil {
		return domain.Task{}, false, storageErr("get task", err)
	}
	return task, true, nil
}

// fieldForDomainErr maps a domain sentinel to the form field it concerns.
func fieldForDomainErr(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidTitle):
		return "title"
	case errors.Is(err, domain.ErrInvalidDueDate):
		return "due_date"
	case errors.Is(err, domain.ErrInvalidPriority):
		return "priority"
	default:
		return ""
	}
}
