package listing

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/Buchenkov/PlanBoard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSource struct {
	tasks []domain.Task
	err   error
}

func (s *memSource) ListTasks(_ context.Context, order []domain.OrderClause) ([]domain.Task, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := slices.Clone(s.tasks)
	slices.SortStableFunc(out, func(a, b domain.Task) int {
		return domain.CompareTasks(a, b, order)
	})
	return out, nil
}

func (s *memSource) delete(id int64) {
	s.tasks = slices.DeleteFunc(s.tasks, func(t domain.Task) bool { return t.ID == id })
}

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

func june1() *testClock {
	return &testClock{now: time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)}
}

func loaded(t *testing.T, src *memSource, clock *testClock) (*Model, *View) {
	t.Helper()
	m := NewModel(src, clock.Now)
	require.NoError(t, m.Reload(context.Background()))
	return m, NewView(m)
}

func ids(tasks []domain.Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestEndToEndScenario(t *testing.T) {
	src := &memSource{tasks: []domain.Task{
		{ID: 1, Title: "A", DueDate: "2024-01-01"},
		{ID: 2, Title: "B", DueDate: "2099-01-01"},
		{ID: 3, Title: "C", DueDate: "2024-01-01", Completed: true},
	}}
	_, view := loaded(t, src, june1())

	view.SetMode(domain.StatusOverdue)
	assert.ElementsMatch(t, []int64{1}, ids(view.Tasks()))

	view.SetMode(domain.StatusCompleted)
	assert.ElementsMatch(t, []int64{3}, ids(view.Tasks()))

	view.SetMode(domain.StatusOpen)
	assert.ElementsMatch(t, []int64{1, 2}, ids(view.Tasks()))

	view.SetMode(domain.StatusDueToday)
	assert.Empty(t, view.Tasks())

	view.SetMode(domain.StatusAll)
	assert.Equal(t, 3, view.RowCount())
}

func TestFilterCorrectnessAcrossModes(t *testing.T) {
	clock := june1()
	today := domain.DayOf(clock.now)
	src := &memSource{tasks: []domain.Task{
		{ID: 1, Title: "yesterday open", DueDate: "2024-05-31"},
		{ID: 2, Title: "today open", DueDate: "2024-06-01"},
		{ID: 3, Title: "tomorrow open", DueDate: "2024-06-02"},
		{ID: 4, Title: "yesterday done", DueDate: "2024-05-31", Completed: true},
		{ID: 5, Title: "today done", DueDate: "2024-06-01", Completed: true},
		{ID: 6, Title: "garbage date", DueDate: "someday"},
		{ID: 7, Title: "empty date", DueDate: ""},
	}}
	model, view := loaded(t, src, clock)

	for _, mode := range domain.StatusModes() {
		view.SetMode(mode)
		visible := map[int64]bool{}
		for _, task := range view.Tasks() {
			visible[task.ID] = true
		}
		for row := 0; row < model.RowCount(); row++ {
			task, _ := model.TaskAt(row)
			assert.Equal(t, mode.Matches(task, today), visible[task.ID], "mode %s task %q", mode, task.Title)
		}
	}

	view.SetMode(domain.StatusOverdue)
	assert.ElementsMatch(t, []int64{1}, ids(view.Tasks()))
	view.SetMode(domain.StatusDueToday)
	assert.ElementsMatch(t, []int64{2}, ids(view.Tasks()))
	view.SetMode(domain.StatusOpen)
	assert.ElementsMatch(t, []int64{1, 2, 3, 6, 7}, ids(view.Tasks()))
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	src := &memSource{tasks: []domain.Task{
		{ID: 1, Title: "Buy Milk", DueDate: "2024-06-05"},
		{ID: 2, Title: "Walk dog", DueDate: "2024-06-05"},
	}}
	_, view := loaded(t, src, june1())

	for _, q := range []string{"milk", "MILK", "y mi"} {
		view.SetSearchText(q)
		assert.Equal(t, []int64{1}, ids(view.Tasks()), "query %q", q)
	}
	view.SetSearchText("eggs")
	assert.Zero(t, view.RowCount())
	view.SetSearchText("")
	assert.Equal(t, 2, view.RowCount())

	view.SetSearchText("o")
	view.SetMode(domain.StatusOpen)
	assert.ElementsMatch(t, []int64{2}, ids(view.Tasks()), "search and mode combine")
}

func TestStaleRowsRejectedAfterDeleteAndReload(t *testing.T) {
	src := &memSource{tasks: []domain.Task{
		{ID: 1, Title: "keep", DueDate: "2024-05-01"},
		{ID: 2, Title: "drop", DueDate: "2024-05-01"},
	}}
	model, view := loaded(t, src, june1())
	view.SetMode(domain.StatusOverdue)
	require.GreaterOrEqual(t, view.IndexOfTask(2), 0)

	src.delete(2)
	require.NoError(t, model.Reload(context.Background()))

	assert.Equal(t, -1, view.IndexOfTask(2))
	for _, mode := range domain.StatusModes() {
		view.SetMode(mode)
		assert.NotContains(t, ids(view.Tasks()), int64(2))
	}
}

func TestViewRecomputesWhenDayChanges(t *testing.T) {
	clock := june1()
	src := &memSource{tasks: []domain.Task{{ID: 1, Title: "rent", DueDate: "2024-06-02"}}}
	_, view := loaded(t, src, clock)
	view.SetMode(domain.StatusDueToday)
	assert.Zero(t, view.RowCount())
	assert.Equal(t, domain.HintNone, view.model.ColorHintAt(0))

	clock.now = clock.now.Add(24 * time.Hour)
	assert.Equal(t, 1, view.RowCount())
	assert.Equal(t, domain.HintDueToday, view.ColorHintAt(0))

	clock.now = clock.now.Add(24 * time.Hour)
	assert.Zero(t, view.RowCount())
	view.SetMode(domain.StatusOverdue)
	assert.Equal(t, domain.HintOverdue, view.ColorHintAt(0))
}

func TestReloadErrorKeepsSnapshot(t *testing.T) {
	src := &memSource{tasks: []domain.Task{{ID: 1, Title: "one", DueDate: "2024-06-01"}}}
	model, view := loaded(t, src, june1())
	gen := model.Generation()

	src.err = errors.New("database is locked")
	require.Error(t, model.Reload(context.Background()))
	assert.Equal(t, gen, model.Generation())
	assert.Equal(t, 1, view.RowCount())
	assert.Equal(t, "one", view.ValueAt(0, ColumnTitle))
}

func TestSecondarySortKeepsDefaultOrderForTies(t *testing.T) {
	src := &memSource{tasks: []domain.Task{
		{ID: 1, Title: "b", DueDate: "2024-06-03", Priority: 1},
		{ID: 2, Title: "a", DueDate: "2024-06-02", Priority: 1},
		{ID: 3, Title: "c", DueDate: "2024-06-04", Priority: 5},
	}}
	_, view := loaded(t, src, june1())
	assert.Equal(t, []int64{2, 1, 3}, ids(view.Tasks()))

	view.SetSort(ColumnPriority, true)
	assert.Equal(t, []int64{3, 2, 1}, ids(view.Tasks()))

	view.SetSort(ColumnTitle, false)
	assert.Equal(t, []int64{2, 1, 3}, ids(view.Tasks()))
	col, desc, ok := view.Sort()
	assert.True(t, ok)
	assert.False(t, desc)
	assert.Equal(t, ColumnTitle, col)

	view.ClearSort()
	_, _, ok = view.Sort()
	assert.False(t, ok)
	assert.Equal(t, []int64{2, 1, 3}, ids(view.Tasks()))
}

func TestModelCellsAndHints(t *testing.T) {
	src := &memSource{tasks: []domain.Task{
		{ID: 1, Title: "done late", DueDate: "2024-05-31", Completed: true, CreatedAt: "2024-05-01", Priority: 7},
	}}
	model, view := loaded(t, src, june1())

	assert.Equal(t, 6, model.ColumnCount())
	assert.Equal(t, "done", model.ValueAt(0, ColumnCompleted))
	assert.Equal(t, "7", model.ValueAt(0, ColumnPriority))
	assert.Equal(t, "2024-05-01", model.ValueAt(0, ColumnCreatedAt))
	assert.Equal(t, "", model.ValueAt(3, ColumnTitle))
	assert.Equal(t, domain.HintMuted, view.ColorHintAt(0), "completion wins over overdue")
	assert.Equal(t, -1, view.SourceIndex(5))
}

func TestParseColumn(t *testing.T) {
	c, err := ParseColumn("due_date")
	require.NoError(t, err)
	assert.Equal(t, ColumnDueDate, c)
	c, err = ParseColumn("Priority")
	require.NoError(t, err)
	assert.Equal(t, ColumnPriority, c)
	_, err = ParseColumn("owner")
	assert.ErrorIs(t, err, domain.ErrInvalidColumn)
	assert.Len(t, Columns(), 6)
}
