package app

import (
	"context"

	"github.com/Buchenkov/PlanBoard/internal/domain"
)

// Repository is the task store port.
type Repository interface {
	// ListTasks returns every task ordered by the allow-listed clauses.
	ListTasks(context.Context, []domain.OrderClause) ([]domain.Task, error)
	// CreateTask inserts an open task and returns the assigned id.
	CreateTask(context.Context, domain.Task) (int64, error)
	// UpdateTask applies a partial update and reports whether a row changed.
	UpdateTask(context.Context, int64, domain.TaskPatch) (bool, error)
	// DeleteTask removes one task and reports whether it existed.
	DeleteTask(context.Context, int64) (bool, error)
	// GetTask returns ErrNotFound when the id is unknown.
	GetTask(context.Context, int64) (domain.Task, error)
	// PutTask inserts or replaces a task keeping its id and created_at.
	PutTask(context.Context, domain.Task) error
}
