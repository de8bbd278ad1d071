package listing

import (
	"context"
	"strconv"
	"time"

	"github.com/Buchenkov/PlanBoard/internal/domain"
)

// Source loads tasks in a requested order.
type Source interface {
	ListTasks(context.Context, []domain.OrderClause) ([]domain.Task, error)
}

// Model is the in-memory row snapshot of every task, as of the last successful reload.
type Model struct {
	src        Source
	clock      func() time.Time
	rows       []domain.Task
	generation uint64
}

// NewModel constructs an empty model. A nil clock means time.Now.
func NewModel(src Source, clock func() time.Time) *Model {
	if clock == nil {
		clock = time.Now
	}
	return &Model{src: src, clock: clock}
}

// Reload replaces the snapshot with the store contents in default order. On failure the
// previous snapshot stays untouched.
func (m *Model) Reload(ctx context.Context) error {
	rows, err := m.src.ListTasks(ctx, domain.DefaultOrder())
	if err != nil {
		return err
	}
	m.rows = rows
	m.generation++
	return nil
}

// Generation increments on every successful reload.
func (m *Model) Generation() uint64 {
	return m.generation
}

// Today returns the current calendar day used for date-relative rules.
func (m *Model) Today() time.Time {
	return domain.DayOf(m.clock())
}

// RowCount returns the number of rows in the snapshot.
func (m *Model) RowCount() int {
	return len(m.rows)
}

// ColumnCount returns the number of table columns.
func (m *Model) ColumnCount() int {
	return len(allColumns)
}

// TaskAt returns the task in row.
func (m *Model) TaskAt(row int) (domain.Task, bool) {
	if row < 0 || row >= len(m.rows) {
		return domain.Task{}, false
	}
	return m.rows[row], true
}

// ValueAt returns the display text of one cell; out of range yields "".
func (m *Model) ValueAt(row int, col Column) string {
	t, ok := m.TaskAt(row)
	if !ok {
		return ""
	}
	return CellValue(t, col)
}

// ColorHintAt returns the color hint of row relative to today.
func (m *Model) ColorHintAt(row int) domain.ColorHint {
	t, ok := m.TaskAt(row)
	if !ok {
		return domain.HintNone
	}
	return domain.HintFor(t, m.Today())
}

// CellValue renders one task field as table text.
func CellValue(t domain.Task, col Column) string {
	switch col {
	case ColumnTitle:
		return t.Title
	case ColumnDescription:
		return t.Description
	case ColumnDueDate:
		return t.DueDate
	case ColumnCompleted:
		return domain.StatusLabel(t.Completed)
	case ColumnCreatedAt:
		return t.CreatedAt
	case ColumnPriority:
		return strconv.Itoa(t.Priority)
	default:
		return ""
	}
}
