package listing

import (
	"fmt"
	"strings"

	"github.com/Buchenkov/PlanBoard/internal/domain"
)

// Column identifies one displayed table column.
type Column int

// ColumnTitle and related constants list the table columns in their default display order.
const (
	ColumnTitle Column = iota
	ColumnDescription
	ColumnDueDate
	ColumnCompleted
	ColumnCreatedAt
	ColumnPriority
)

var allColumns = []Column{
	ColumnTitle,
	ColumnDescription,
	ColumnDueDate,
	ColumnCompleted,
	ColumnCreatedAt,
	ColumnPriority,
}

var columnMeta = map[Column]struct {
	key   string
	label string
	order domain.OrderColumn
}{
	ColumnTitle:       {"title", "Title", domain.OrderByTitle},
	ColumnDescription: {"description", "Description", domain.OrderByDescription},
	ColumnDueDate:     {"due_date", "Due", domain.OrderByDueDate},
	ColumnCompleted:   {"completed", "Status", domain.OrderByCompleted},
	ColumnCreatedAt:   {"created_at", "Created", domain.OrderByCreatedAt},
	ColumnPriority:    {"priority", "Priority", domain.OrderByPriority},
}

// Columns returns every column in default display order.
func Columns() []Column {
	return append([]Column(nil), allColumns...)
}

// Valid reports whether c is a known column.
func (c Column) Valid() bool {
	_, ok := columnMeta[c]
	return ok
}

// Key returns the stable identifier used in preferences and CLI flags.
func (c Column) Key() string {
	return columnMeta[c].key
}

// Label returns the header text.
func (c Column) Label() string {
	return columnMeta[c].label
}

// OrderColumn maps the column onto its store order-by column.
func (c Column) OrderColumn() domain.OrderColumn {
	return columnMeta[c].order
}

// ParseColumn resolves a column key; labels are accepted case-insensitively too.
func ParseColumn(raw string) (Column, error) {
	needle := strings.ToLower(strings.TrimSpace(raw))
	for _, c := range allColumns {
		if needle == c.Key() || needle == strings.ToLower(c.Label()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", domain.ErrInvalidColumn, raw)
}
