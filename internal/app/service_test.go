package app

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

type fakeRepo struct {
	tasks     map[int64]domain.Task
	nextID    int64
	lastOrder []domain.OrderClause
	failWith  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{tasks: map[int64]domain.Task{}}
}

func (f *fakeRepo) ListTasks(_ context.Context, order []domain.OrderClause) ([]domain.Task, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.lastOrder = order
	out := make([]domain.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b domain.Task) int {
		return domain.CompareTasks(a, b, order)
	})
	return out, nil
}

func (f *fakeRepo) CreateTask(_ context.Context, t domain.Task) (int64, error) {
	if f.failWith != nil {
		return 0, f.failWith
	}
	f.nextID++
	t.ID = f.nextID
	f.tasks[t.ID] = t
	return t.ID, nil
}

func (f *fakeRepo) UpdateTask(_ context.Context, id int64, patch domain.TaskPatch) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	t, ok := f.tasks[id]
	if !ok {
		return false, nil
	}
	f.tasks[id] = patch.Apply(t)
	return true, nil
}

func (f *fakeRepo) DeleteTask(_ context.Context, id int64) (bool, error) {
	if f.failWith != nil {
		return false, f.failWith
	}
	if _, ok := f.tasks[id]; !ok {
		return false, nil
	}
	delete(f.tasks, id)
	return true, nil
}

func (f *fakeRepo) GetTask(_ context.Context, id int64) (domain.Task, error) {
	if f.failWith != nil {
		return domain.Task{}, f.failWith
	}
	t, ok := f.tasks[id]
	if !ok {
		return domain.Task{}, ErrNotFound
	}
	return t, nil
}

func (f *fakeRepo) PutTask(_ context.Context, t domain.Task) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.tasks[t.ID] = t
	if t.ID > f.nextID {
		f.nextID = t.ID
	}
	return nil
}

func fixedClock(y int, m time.Month, d int) Clock {
	return func() time.Time { return time.Date(y, m, d, 10, 30, 0, 0, time.UTC) }
}

func TestServiceAddGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), fixedClock(2024, time.June, 1))

	id, err := svc.AddTask(ctx, AddTaskInput{Title: "Write report", Description: "Q2", DueDate: "2024-06-10", Priority: 4})
	require.NoError(t, err)

	got, ok, err := svc.GetTask(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Write report", got.Title)
	assert.Equal(t, "Q2", got.Description)
	assert.Equal(t, "2024-06-10", got.DueDate)
	assert.Equal(t, 4, got.Priority)
	assert.False(t, got.Completed)
	assert.Equal(t, "2024-06-01", got.CreatedAt)
}

func TestServiceAddValidation(t *testing.T) {
	svc := NewService(newFakeRepo(), fixedClock(2024, time.June, 1))

	_, err := svc.AddTask(context.Background(), AddTaskInput{Title: " ", DueDate: "2024-06-10"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)
	assert.ErrorIs(t, err, domain.ErrInvalidTitle)

	_, err = svc.AddTask(context.Background(), AddTaskInput{Title: "ok"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "due_date", verr.Field)
}

func TestServiceUpdateIsPartial(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), fixedClock(2024, time.June, 1))
	id, err := svc.AddTask(ctx, AddTaskInput{Title: "Call mom", Description: "Sunday", DueDate: "2024-06-02", Priority: 1})
	require.NoError(t, err)

	prio := 9
	ok, err := svc.UpdateTask(ctx, id, domain.TaskPatch{Priority: &prio})
	require.NoError(t, err)
	require.True(t, ok)

	got, _, err := svc.GetTask(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.Task{
		ID: id, Title: "Call mom", Description: "Sunday", DueDate: "2024-06-02",
		CreatedAt: "2024-06-01", Completed: false, Priority: 9,
	}, got)
}

func TestServiceNotFoundIsBoolean(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), nil)

	title := "x"
	ok, err := svc.UpdateTask(ctx, 42, domain.TaskPatch{Title: &title})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.UpdateTask(ctx, 42, domain.TaskPatch{})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.DeleteTask(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = svc.GetTask(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestServiceWrapsStorageErrors(t *testing.T) {
	repo := newFakeRepo()
	repo.failWith = errors.New("disk I/O error")
	svc := NewService(repo, nil)

	_, err := svc.ListTasks(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, IsStorage(err))
	assert.False(t, IsValidation(err))
	assert.Contains(t, err.Error(), "disk I/O error")
}

func TestServiceListNormalizesOrder(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil)

	_, err := svc.ListTasks(context.Background(), []domain.OrderClause{{Column: "nonexistent_col", Direction: domain.Asc}})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultOrder(), repo.lastOrder)
}

func TestValidateTaskForm(t *testing.T) {
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	res, err := ValidateTaskForm(TaskFormInput{
		Title: "  Pay rent ", Description: " flat ", DueDate: "2024-06-05", Completed: true, Priority: "7",
	}, now)
	require.NoError(t, err)
	assert.False(t, res.NeedsPastDueConfirm)
	assert.Equal(t, TaskFormValues{Title: "Pay rent", Description: "flat", DueDate: "2024-06-05", Completed: true, Priority: 7}, res.Values)

	res, err = ValidateTaskForm(TaskFormInput{Title: "late", DueDate: "2024-05-31"}, now)
	require.NoError(t, err)
	assert.True(t, res.NeedsPastDueConfirm)
	assert.Equal(t, 0, res.Values.Priority)

	res, err = ValidateTaskForm(TaskFormInput{Title: "today", DueDate: "2024-06-01"}, now)
	require.NoError(t, err)
	assert.False(t, res.NeedsPastDueConfirm)

	cases := []struct {
		in    TaskFormInput
		field string
	}{
		{TaskFormInput{Title: "  ", DueDate: "2024-06-05"}, "title"},
		{TaskFormInput{Title: "x", DueDate: ""}, "due_date"},
		{TaskFormInput{Title: "x", DueDate: "2024-02-30"}, "due_date"},
		{TaskFormInput{Title: "x", DueDate: "2024-06-05", Priority: "11"}, "priority"},
		{TaskFormInput{Title: "x", DueDate: "2024-06-05", Priority: "high"}, "priority"},
	}
	for _, tc := range cases {
		_, err := ValidateTaskForm(tc.in, now)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "%+v", tc.in)
		assert.Equal(t, tc.field, verr.Field)
	}
}

func TestTaskFormInputDefaults(t *testing.T) {
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	in := NewTaskFormInput(now)
	assert.Equal(t, "2024-06-01", in.DueDate)
	assert.Equal(t, "0", in.Priority)

	in = TaskFormInputFrom(domain.Task{Title: "t", DueDate: "bad", Priority: 3, Completed: true}, now)
	assert.Equal(t, "2024-06-01", in.DueDate)
	assert.Equal(t, "3", in.Priority)
	assert.True(t, in.Completed)
}
