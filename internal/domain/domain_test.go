package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	task, err := NewTask(TaskInput{
		Title:       "  Buy milk ",
		Description: " 2 liters ",
		DueDate:     "2024-06-02",
		Priority:    3,
	}, "2024-06-01")
	require.NoError(t, err)

	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, "2 liters", task.Description)
	assert.Equal(t, "2024-06-02", task.DueDate)
	assert.Equal(t, "2024-06-01", task.CreatedAt)
	assert.Equal(t, 3, task.Priority)
	assert.False(t, task.Completed)
	assert.Zero(t, task.ID)
}

func TestNewTaskValidation(t *testing.T) {
	_, err := NewTask(TaskInput{Title: "   ", DueDate: "2024-06-02"}, "2024-06-01")
	assert.ErrorIs(t, err, ErrInvalidTitle)

	_, err = NewTask(TaskInput{Title: "ok", DueDate: " "}, "2024-06-01")
	assert.ErrorIs(t, err, ErrInvalidDueDate)
}

func TestTaskPatch(t *testing.T) {
	assert.True(t, TaskPatch{}.IsEmpty())

	prio := 7
	patch := TaskPatch{Priority: &prio}
	assert.False(t, patch.IsEmpty())

	base := Task{ID: 1, Title: "a", Description: "b", DueDate: "2024-01-01", Completed: true, Priority: 1}
	got := patch.Apply(base)
	want := base
	want.Priority = 7
	assert.Equal(t, want, got)

	full := FullPatch("t", "d", "2024-02-02", false, 2).Apply(base)
	assert.Equal(t, Task{ID: 1, Title: "t", Description: "d", DueDate: "2024-02-02", Completed: false, Priority: 2}, full)
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("2024-06-01")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), d)

	for _, raw := range []string{"", "   ", "2024-13-01", "01/06/2024", "2024-06-01T10:00"} {
		_, ok := ParseDate(raw)
		assert.False(t, ok, "ParseDate(%q)", raw)
	}
	assert.Equal(t, "2024-06-01", Today(time.Date(2024, 6, 1, 23, 59, 0, 0, time.Local)))
}

func TestStatusModeMatches(t *testing.T) {
	today := DayOf(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	yesterdayOpen := Task{DueDate: "2024-05-31"}
	todayOpen := Task{DueDate: "2024-06-01"}
	futureOpen := Task{DueDate: "2024-06-02"}
	yesterdayDone := Task{DueDate: "2024-05-31", Completed: true}
	brokenOpen := Task{DueDate: "soon"}

	cases := []struct {
		mode StatusMode
		task Task
		want bool
	}{
		{StatusAll, brokenOpen, true},
		{StatusOpen, yesterdayOpen, true},
		{StatusOpen, yesterdayDone, false},
		{StatusOpen, brokenOpen, true},
		{StatusOverdue, yesterdayOpen, true},
		{StatusOverdue, todayOpen, false},
		{StatusOverdue, yesterdayDone, false},
		{StatusOverdue, brokenOpen, false},
		{StatusDueToday, todayOpen, true},
		{StatusDueToday, futureOpen, false},
		{StatusDueToday, brokenOpen, false},
		{StatusCompleted, yesterdayDone, true},
		{StatusCompleted, yesterdayOpen, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.mode.Matches(tc.task, today), "%s on %+v", tc.mode, tc.task)
	}
}

func TestParseStatusMode(t *testing.T) {
	mode, err := ParseStatusMode(" Overdue ")
	require.NoError(t, err)
	assert.Equal(t, StatusOverdue, mode)

	mode, err = ParseStatusMode("today")
	require.NoError(t, err)
	assert.Equal(t, StatusDueToday, mode)

	_, err = ParseStatusMode("someday")
	assert.ErrorIs(t, err, ErrInvalidStatusMode)

	assert.Equal(t, StatusOpen, StatusAll.Next(1))
	assert.Equal(t, StatusCompleted, StatusAll.Next(-1))
}

func TestHintForPrecedence(t *testing.T) {
	today := DayOf(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))

	assert.Equal(t, HintMuted, HintFor(Task{DueDate: "2024-05-31", Completed: true}, today))
	assert.Equal(t, HintMuted, HintFor(Task{DueDate: "garbage", Completed: true}, today))
	assert.Equal(t, HintNone, HintFor(Task{DueDate: ""}, today))
	assert.Equal(t, HintNone, HintFor(Task{DueDate: "garbage"}, today))
	assert.Equal(t, HintOverdue, HintFor(Task{DueDate: "2024-05-31"}, today))
	assert.Equal(t, HintDueToday, HintFor(Task{DueDate: "2024-06-01"}, today))
	assert.Equal(t, HintNone, HintFor(Task{DueDate: "2024-06-02"}, today))
}

func TestMatchesSearch(t *testing.T) {
	for _, q := range []string{"milk", "MILK", "y mi", ""} {
		assert.True(t, MatchesSearch("Buy Milk", q), q)
	}
	assert.False(t, MatchesSearch("Buy Milk", "eggs"))
}

func TestNormalizeOrder(t *testing.T) {
	assert.Equal(t, DefaultOrder(), NormalizeOrder(nil))
	assert.Equal(t, DefaultOrder(), NormalizeOrder([]OrderClause{{Column: "nonexistent_col", Direction: Asc}}))
	assert.Equal(t, DefaultOrder(), NormalizeOrder([]OrderClause{{Column: OrderByTitle, Direction: "SIDEWAYS"}}))

	got := NormalizeOrder([]OrderClause{
		{Column: "title; DROP TABLE tasks", Direction: Asc},
		{Column: OrderByPriority, Direction: "desc"},
	})
	assert.Equal(t, []OrderClause{{Column: OrderByPriority, Direction: Desc}}, got)
}

func TestParseOrder(t *testing.T) {
	got := NormalizeOrder(ParseOrder("due_date, priority desc, bogus asc, title up down"))
	assert.Equal(t, []OrderClause{
		{Column: OrderByDueDate, Direction: Asc},
		{Column: OrderByPriority, Direction: Desc},
	}, got)
	assert.Equal(t, "due_date ASC, priority DESC, id DESC", FormatOrder(DefaultOrder()))
}

func TestCompareTasksDefaultOrder(t *testing.T) {
	a := Task{ID: 1, DueDate: "2024-01-01", Priority: 1}
	b := Task{ID: 2, DueDate: "2024-01-01", Priority: 5}
	c := Task{ID: 3, DueDate: "2024-01-01", Priority: 5}
	d := Task{ID: 4, DueDate: "2023-12-31", Priority: 0}

	order := DefaultOrder()
	assert.Negative(t, CompareTasks(d, a, order))
	assert.Negative(t, CompareTasks(b, a, order))
	assert.Negative(t, CompareTasks(c, b, order))
	assert.Zero(t, CompareTasks(c, c, order))
	assert.Negative(t, CompareBy(Task{Completed: false}, Task{Completed: true}, OrderByCompleted))
}
