package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Buchenkov/PlanBoard/internal/domain"
	"gopkg.in/yaml.v3"
)

// SnapshotVersion defines a package constant value.
const SnapshotVersion = "planboard.snapshot.v1"

// Snapshot is a portable copy of the whole task table.
type Snapshot struct {
	Version    string         `json:"version" yaml:"version"`
	ExportedAt time.Time      `json:"exported_at" yaml:"exported_at"`
	Tasks      []SnapshotTask `json:"tasks" yaml:"tasks"`
}

// SnapshotTask represents snapshot task data used by this package.
type SnapshotTask struct {
	ID          int64  `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	DueDate     string `json:"due_date" yaml:"due_date"`
	CreatedAt   string `json:"created_at" yaml:"created_at"`
	Completed   bool   `json:"completed" yaml:"completed"`
	Priority    int    `json:"priority" yaml:"priority"`
}

// SnapshotFormat selects the snapshot encoding.
type SnapshotFormat string

// SnapshotFormatJSON and related constants define the supported encodings.
const (
	SnapshotFormatJSON SnapshotFormat = "json"
	SnapshotFormatYAML SnapshotFormat = "yaml"
)

// ParseSnapshotFormat parses a format flag value.
func ParseSnapshotFormat(raw string) (SnapshotFormat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "json":
		return SnapshotFormatJSON, nil
	case "yaml", "yml":
		return SnapshotFormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported snapshot format %q", raw)
	}
}

// SnapshotFormatForPath guesses the encoding from a file extension, defaulting to JSON.
func SnapshotFormatForPath(path string) SnapshotFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return SnapshotFormatYAML
	default:
		return SnapshotFormatJSON
	}
}

// ExportSnapshot exports every task ordered by id.
func (s *Service) ExportSnapshot(ctx context.Context) (Snapshot, error) {
	tasks, err := s.ListTasks(ctx, []domain.OrderClause{{Column: domain.OrderByID, Direction: domain.Asc}})
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: s.clock().UTC(),
		Tasks:      make([]SnapshotTask, 0, len(tasks)),
	}
	for _, t := range tasks {
		snap.Tasks = append(snap.Tasks, snapshotTaskFromDomain(t))
	}
	return snap, nil
}

// ImportSnapshot upserts every snapshot task, keeping ids and creation dates.
func (s *Service) ImportSnapshot(ctx context.Context, snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	snap.sort()
	today := s.Today()
	for _, t := range snap.Tasks {
		task := t.toDomain()
		if task.CreatedAt == "" {
			task.CreatedAt = today
		}
		if err := s.repo.PutTask(ctx, task); err != nil {
			return storageErr("import task", fmt.Errorf("task %d: %w", t.ID, err))
		}
	}
	return nil
}

// Validate checks version and task integrity.
func (s Snapshot) Validate() error {
	if s.Version != SnapshotVersion {
		return fmt.Errorf("%w: %q", ErrUnsupportedSnapshot, s.Version)
	}
	seen := make(map[int64]struct{}, len(s.Tasks))
	for i, t := range s.Tasks {
		if t.ID <= 0 {
			return &ValidationError{Field: fmt.Sprintf("tasks[%d].id", i), Err: domain.ErrInvalidID}
		}
		if _, ok := seen[t.ID]; ok {
			return &ValidationError{Field: fmt.Sprintf("tasks[%d].id", i), Err: fmt.Errorf("duplicate id %d", t.ID)}
		}
		seen[t.ID] = struct{}{}
		if strings.TrimSpace(t.Title) == "" {
			return &ValidationError{Field: fmt.Sprintf("tasks[%d].title", i), Err: domain.ErrInvalidTitle}
		}
		if strings.TrimSpace(t.DueDate) == "" {
			return &ValidationError{Field: fmt.Sprintf("tasks[%d].due_date", i), Err: domain.ErrInvalidDueDate}
		}
	}
	return nil
}

// EncodeSnapshot encodes snap in the requested format with a trailing newline.
func EncodeSnapshot(snap Snapshot, format SnapshotFormat) ([]byte, error) {
	switch format {
	case SnapshotFormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return nil, fmt.Errorf("encode snapshot yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode snapshot yaml: %w", err)
		}
		return buf.Bytes(), nil
	case SnapshotFormatJSON, "":
		encoded, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode snapshot json: %w", err)
		}
		return append(encoded, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q", format)
	}
}

// DecodeSnapshot decodes content in the requested format.
func DecodeSnapshot(content []byte, format SnapshotFormat) (Snapshot, error) {
	var snap Snapshot
	switch format {
	case SnapshotFormatYAML:
		if err := yaml.Unmarshal(content, &snap); err != nil {
			return Snapshot{}, fmt.Errorf("decode snapshot yaml: %w", err)
		}
	case SnapshotFormatJSON, "":
		if err := json.Unmarshal(content, &snap); err != nil {
			return Snapshot{}, fmt.Errorf("decode snapshot json: %w", err)
		}
	default:
		return Snapshot{}, errors.New("unsupported snapshot format " + string(format))
	}
	return snap, nil
}

// sort orders tasks by id so imports are deterministic.
func (s *Snapshot) sort() {
	sort.SliceStable(s.Tasks, func(i, j int) bool {
		return s.Tasks[i].ID < s.Tasks[j].ID
	})
}

func snapshotTaskFromDomain(t domain.Task) SnapshotTask {
	return SnapshotTask{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		Completed:   t.Completed,
		Priority:    t.Priority,
	}
}

func (t SnapshotTask) toDomain() domain.Task {
	return domain.Task{
		ID:          t.ID,
		Title:       strings.TrimSpace(t.Title),
		Description: strings.TrimSpace(t.Description),
		DueDate:     strings.TrimSpace(t.DueDate),
		CreatedAt:   strings.TrimSpace(t.CreatedAt),
		Completed:   t.Completed,
		Priority:    t.Priority,
	}
}
