package domain

import "errors"

var (
	ErrInvalidID         = errors.New("invalid id")
	ErrInvalidTitle      = errors.New("invalid title")
	ErrInvalidDueDate    = errors.New("invalid due date")
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrInvalidStatusMode = errors.New("invalid status mode")
	ErrInvalidColumn     = errors.New("invalid column")
)
