package domain

import (
	"cmp"
	"strings"
)

// OrderColumn is a task column that may appear in an ORDER BY clause.
type OrderColumn string

const (
	OrderByID          OrderColumn = "id"
	OrderByTitle       OrderColumn = "title"
	OrderByDescription OrderColumn = "description"
	OrderByDueDate     OrderColumn = "due_date"
	OrderByCreatedAt   OrderColumn = "created_at"
	OrderByCompleted   OrderColumn = "completed"
	OrderByPriority    OrderColumn = "priority"
)

var orderColumns = map[OrderColumn]struct{}{
	OrderByID:          {},
	OrderByTitle:       {},
	OrderByDescription: {},
	OrderByDueDate:     {},
	OrderByCreatedAt:   {},
	OrderByCompleted:   {},
	OrderByPriority:    {},
}

type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

type OrderClause struct {
	Column    OrderColumn
	Direction Direction
}

func (c OrderClause) String() string {
	return string(c.Column) + " " + string(c.Direction)
}

// DefaultOrder is due_date ASC, priority DESC, id DESC.
func DefaultOrder() []OrderClause {
	return []OrderClause{
		{Column: OrderByDueDate, Direction: Asc},
		{Column: OrderByPriority, Direction: Desc},
		{Column: OrderByID, Direction: Desc},
	}
}

// IsAllowedOrderColumn reports whether col is on the order-by allow-list.
func IsAllowedOrderColumn(col OrderColumn) bool {
	_, ok := orderColumns[col]
	return ok
}

// NormalizeOrder drops clauses whose column or direction is not allowed and falls back to
// DefaultOrder when nothing survives. Directions are matched case-insensitively.
func NormalizeOrder(clauses []OrderClause) []OrderClause {
	out := make([]OrderClause, 0, len(clauses))
	for _, c := range clauses {
		col := OrderColumn(strings.TrimSpace(string(c.Column)))
		if !IsAllowedOrderColumn(col) {
			continue
		}
		dir := Direction(strings.ToUpper(strings.TrimSpace(string(c.Direction))))
		switch dir {
		case Asc, Desc:
		default:
			continue
		}
		out = append(out, OrderClause{Column: col, Direction: dir})
	}
	if len(out) == 0 {
		return DefaultOrder()
	}
	return out
}

// ParseOrder parses "col [ASC|DESC], ..." into clauses. Direction defaults to ASC; malformed
// parts are kept as-is so NormalizeOrder can drop them.
func ParseOrder(raw string) []OrderClause {
	var out []OrderClause
	for _, part := range strings.Split(raw, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		dir := Asc
		if len(fields) > 1 {
			dir = Direction(strings.ToUpper(fields[1]))
		}
		if len(fields) > 2 {
			dir = ""
		}
		out = append(out, OrderClause{Column: OrderColumn(fields[0]), Direction: dir})
	}
	return out
}

// FormatOrder renders clauses in the textual form accepted by ParseOrder.
func FormatOrder(clauses []OrderClause) string {
	parts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ", ")
}

// CompareBy compares two tasks on one column with SQLite semantics: text columns compare
// bytewise, completed orders open before done.
func CompareBy(a, b Task, col OrderColumn) int {
	switch col {
	case OrderByID:
		return cmp.Compare(a.ID, b.ID)
	case OrderByTitle:
		return strings.Compare(a.Title, b.Title)
	case OrderByDescription:
		return strings.Compare(a.Description, b.Description)
	case OrderByDueDate:
		return strings.Compare(a.DueDate, b.DueDate)
	case OrderByCreatedAt:
		return strings.Compare(a.CreatedAt, b.CreatedAt)
	case OrderByCompleted:
		return cmp.Compare(boolRank(a.Completed), boolRank(b.Completed))
	case OrderByPriority:
		return cmp.Compare(a.Priority, b.Priority)
	default:
		return 0
	}
}

// CompareTasks orders two tasks by the given clauses.
func CompareTasks(a, b Task, clauses []OrderClause) int {
	for _, c := range clauses {
		n := CompareBy(a, b, c.Column)
		if c.Direction == Desc {
			n = -n
		}
		if n != 0 {
			return n
		}
	}
	return 0
}

func boolRank(v bool) int {
	if v {
		return 1
	}
	return 0
}
