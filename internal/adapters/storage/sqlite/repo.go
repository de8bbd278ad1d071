package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Buchenkov/PlanBoard/internal/app"
	"github.com/Buchenkov/PlanBoard/internal/domain"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// taskColumns is the select list shared by every task query.
const taskColumns = `id, title, description, due_date, created_at, completed, priority`

// Repository stores tasks in a single SQLite table.
type Repository struct {
	db *sql.DB
}

// Open opens (and migrates) the database file at path, creating its directory when needed.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return newRepository(db)
}

// OpenInMemory opens a private in-memory database. Every call gets its own name so tests never
// share state through the shared cache.
func OpenInMemory() (*Repository, error) {
	dsn := fmt.Sprintf("file:planboard-%s?mode=memory&cache=shared", uuid.NewString())
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	return newRepository(db)
}

func newRepository(db *sql.DB) (*Repository, error) {
	// One writer, one reader: the in-memory database also disappears once its last connection closes.
	db.SetMaxOpenConns(1)
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the underlying database.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate handles migrate.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA synchronous = NORMAL;`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT,
			due_date TEXT NOT NULL,
			created_at TEXT NOT NULL,
			completed INTEGER NOT NULL DEFAULT 0,
			priority INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_due ON tasks(due_date);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_completed ON tasks(completed);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// ListTasks lists every task in the requested order. Clauses outside the allow-list are dropped.
func (r *Repository) ListTasks(ctx context.Context, order []domain.OrderClause) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY ` + orderBy(order)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

// CreateTask inserts a new open task and returns the assigned id.
func (r *Repository) CreateTask(ctx context.Context, t domain.Task) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks(title, description, due_date, created_at, completed, priority)
		VALUES(?, ?, ?, ?, 0, ?)
	`, t.Title, t.Description, t.DueDate, t.CreatedAt, t.Priority)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateTask writes only the fields set in patch.
func (r *Repository) UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) (bool, error) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.DueDate != nil {
		sets = append(sets, "due_date = ?")
		args = append(args, *patch.DueDate)
	}
	if patch.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, boolToInt(*patch.Completed))
	}
	if patch.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *patch.Priority)
	}
	if len(sets) == 0 {
		return false, nil
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return false, err
	}
	return rowsAffected(res)
}

// DeleteTask deletes task.
func (r *Repository) DeleteTask(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	return rowsAffected(res)
}

// GetTask returns task, or app.ErrNotFound.
func (r *Repository) GetTask(ctx context.Context, id int64) (domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

// PutTask inserts or replaces a task keeping its id and created_at.
func (r *Repository) PutTask(ctx context.Context, t domain.Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks(id, title, description, due_date, created_at, completed, priority)
		VALUES(?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			due_date = excluded.due_date,
			created_at = excluded.created_at,
			completed = excluded.completed,
			priority = excluded.priority
	`, t.ID, t.Title, t.Description, t.DueDate, t.CreatedAt, boolToInt(t.Completed), t.Priority)
	return err
}

// orderBy renders normalized clauses; only allow-listed identifiers ever reach the query text.
func orderBy(order []domain.OrderClause) string {
	clauses := domain.NormalizeOrder(order)
	parts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ", ")
}

// scanner represents scanner data used by this package.
type scanner interface {
	Scan(dest ...any) error
}

// scanTask handles scan task.
func scanTask(s scanner) (domain.Task, error) {
	var (
		t           domain.Task
		description sql.NullString
		completed   int64
	)
	if err := s.Scan(&t.ID, &t.Title, &description, &t.DueDate, &t.CreatedAt, &completed, &t.Priority); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, app.ErrNotFound
		}
		return domain.Task{}, err
	}
	t.Description = description.String
	t.Completed = completed != 0
	return t, nil
}

// rowsAffected reports whether the statement touched a row.
func rowsAffected(res sql.Result) (bool, error) {
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
