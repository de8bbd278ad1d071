package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Buchenkov/PlanBoard/internal/app"
	"github.com/Buchenkov/PlanBoard/internal/domain"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})
	return repo
}

func mustCreate(t *testing.T, repo *Repository, title, due string, priority int) int64 {
	t.Helper()
	id, err := repo.CreateTask(context.Background(), domain.Task{
		Title:     title,
		DueDate:   due,
		CreatedAt: "2024-06-01",
		Priority:  priority,
	})
	if err != nil {
		t.Fatalf("CreateTask(%q) error = %v", title, err)
	}
	return id
}

func TestRepository_TaskLifecycle(t *testing.T) {
	ctx := context.Background()
	repo, err := Open(filepath.Join(t.TempDir(), "nested", "planboard.sqlite3"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})

	id, err := repo.CreateTask(ctx, domain.Task{
		Title:       "Task title",
		Description: "Task details",
		DueDate:     "2024-06-10",
		CreatedAt:   "2024-06-01",
		Completed:   true,
		Priority:    3,
	})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive id, got %d", id)
	}

	got, err := repo.GetTask(ctx, id)
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	want := domain.Task{
		ID: id, Title: "Task title", Description: "Task details", DueDate: "2024-06-10",
		CreatedAt: "2024-06-01", Completed: false, Priority: 3,
	}
	if got != want {
		t.Fatalf("GetTask() = %#v, want %#v", got, want)
	}

	prio := 8
	ok, err := repo.UpdateTask(ctx, id, domain.TaskPatch{Priority: &prio})
	if err != nil || !ok {
		t.Fatalf("UpdateTask(priority) = %v, %v", ok, err)
	}
	got, _ = repo.GetTask(ctx, id)
	want.Priority = 8
	if got != want {
		t.Fatalf("partial update touched other fields: %#v", got)
	}

	patch := domain.FullPatch("Renamed", "", "2024-07-01", true, 1)
	if ok, err := repo.UpdateTask(ctx, id, patch); err != nil || !ok {
		t.Fatalf("UpdateTask(full) = %v, %v", ok, err)
	}
	got, _ = repo.GetTask(ctx, id)
	if got.Title != "Renamed" || got.Description != "" || !got.Completed || got.DueDate != "2024-07-01" || got.Priority != 1 {
		t.Fatalf("unexpected task after full update %#v", got)
	}
	if got.CreatedAt != "2024-06-01" {
		t.Fatalf("created_at changed to %q", got.CreatedAt)
	}

	ok, err = repo.DeleteTask(ctx, id)
	if err != nil || !ok {
		t.Fatalf("DeleteTask() = %v, %v", ok, err)
	}
	if _, err := repo.GetTask(ctx, id); err != app.ErrNotFound {
		t.Fatalf("expected app.ErrNotFound, got %v", err)
	}
}

func TestRepository_NotFoundCases(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetTask(ctx, 99); err != app.ErrNotFound {
		t.Fatalf("expected app.ErrNotFound for task, got %v", err)
	}
	title := "x"
	if ok, err := repo.UpdateTask(ctx, 99, domain.TaskPatch{Title: &title}); err != nil || ok {
		t.Fatalf("UpdateTask(missing) = %v, %v", ok, err)
	}
	if ok, err := repo.DeleteTask(ctx, 99); err != nil || ok {
		t.Fatalf("DeleteTask(missing) = %v, %v", ok, err)
	}

	id := mustCreate(t, repo, "exists", "2024-06-01", 0)
	if ok, err := repo.UpdateTask(ctx, id, domain.TaskPatch{}); err != nil || ok {
		t.Fatalf("UpdateTask(empty patch) = %v, %v", ok, err)
	}
}

func TestRepository_ListDefaultAndCustomOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a := mustCreate(t, repo, "a", "2024-06-02", 1)
	b := mustCreate(t, repo, "b", "2024-06-01", 1)
	c := mustCreate(t, repo, "c", "2024-06-02", 5)
	d := mustCreate(t, repo, "d", "2024-06-02", 1)

	assertIDs := func(label string, tasks []domain.Task, want ...int64) {
		t.Helper()
		if len(tasks) != len(want) {
			t.Fatalf("%s: expected %d tasks, got %d", label, len(want), len(tasks))
		}
		for i, id := range want {
			if tasks[i].ID != id {
				t.Fatalf("%s: position %d = %d, want %d (%#v)", label, i, tasks[i].ID, id, tasks)
			}
		}
	}

	tasks, err := repo.ListTasks(ctx, nil)
	if err != nil {
		t.Fatalf("ListTasks(default) error = %v", err)
	}
	assertIDs("default", tasks, b, c, d, a)

	tasks, err = repo.ListTasks(ctx, []domain.OrderClause{{Column: "nonexistent_col", Direction: domain.Asc}})
	if err != nil {
		t.Fatalf("ListTasks(invalid) error = %v", err)
	}
	assertIDs("fallback", tasks, b, c, d, a)

	tasks, err = repo.ListTasks(ctx, []domain.OrderClause{
		{Column: "title; DROP TABLE tasks", Direction: domain.Asc},
		{Column: domain.OrderByTitle, Direction: "desc"},
	})
	if err != nil {
		t.Fatalf("ListTasks(title desc) error = %v", err)
	}
	assertIDs("title desc", tasks, d, c, b, a)
}

func TestRepository_NullDescriptionReadsEmpty(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.db.ExecContext(ctx, `INSERT INTO tasks(title, due_date, created_at) VALUES('legacy', '2024-01-01', '2023-12-01')`); err != nil {
		t.Fatalf("insert legacy row error = %v", err)
	}
	tasks, err := repo.ListTasks(ctx, nil)
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].Description != "" || tasks[0].Completed || tasks[0].Priority != 0 {
		t.Fatalf("unexpected legacy row %#v", tasks)
	}
}

func TestRepository_PutTaskUpserts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	task := domain.Task{ID: 7, Title: "imported", DueDate: "2024-02-02", CreatedAt: "2023-01-01", Completed: true, Priority: 2}
	if err := repo.PutTask(ctx, task); err != nil {
		t.Fatalf("PutTask(insert) error = %v", err)
	}
	task.Title = "imported again"
	if err := repo.PutTask(ctx, task); err != nil {
		t.Fatalf("PutTask(update) error = %v", err)
	}
	got, err := repo.GetTask(ctx, 7)
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if got != task {
		t.Fatalf("GetTask() = %#v, want %#v", got, task)
	}

	next := mustCreate(t, repo, "after import", "2024-02-03", 0)
	if next <= 7 {
		t.Fatalf("expected autoincrement past imported id, got %d", next)
	}
}

func TestOpenInMemoryIsolated(t *testing.T) {
	first := newTestRepo(t)
	second := newTestRepo(t)
	mustCreate(t, first, "only in first", "2024-06-01", 0)

	tasks, err := second.ListTasks(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected isolated in-memory databases, got %#v", tasks)
	}
}

func TestRepositoryWorksThroughService(t *testing.T) {
	svc := app.NewService(newTestRepo(t), nil)
	ctx := context.Background()

	id, err := svc.AddTask(ctx, app.AddTaskInput{Title: "Buy Milk", DueDate: "2024-06-03", Priority: 2})
	if err != nil {
		t.Fatalf("AddTask() error = %v", err)
	}
	got, ok, err := svc.GetTask(ctx, id)
	if err != nil || !ok {
		t.Fatalf("GetTask() = %v, %v", ok, err)
	}
	if got.CreatedAt != svc.Today() {
		t.Fatalf("created_at = %q, want %q", got.CreatedAt, svc.Today())
	}
	if _, ok, _ := svc.GetTask(ctx, id+100); ok {
		t.Fatal("expected missing task to report false")
	}
}
