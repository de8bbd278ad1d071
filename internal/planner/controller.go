package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/Buchenkov/PlanBoard/internal/app"
	"github.com/Buchenkov/PlanBoard/internal/domain"
	"github.com/Buchenkov/PlanBoard/internal/listing"
	"github.com/Buchenkov/PlanBoard/internal/prefs"
)

// Options configures controller defaults.
type Options struct {
	// ConfirmPastDue requires an explicit confirmation before a past due date is saved.
	ConfirmPastDue bool
	// DefaultFilter is used when no filter mode was persisted.
	DefaultFilter domain.StatusMode
}

// DefaultOptions returns the defaults used by the TUI.
func DefaultOptions() Options {
	return Options{
		ConfirmPastDue: true,
		DefaultFilter:  domain.StatusAll,
	}
}

// Outcome reports what OnSubmitForm did.
type Outcome struct {
	// TaskID is the created or edited task.
	TaskID int64
	// Created is set when a new task was added.
	Created bool
	// Saved is false when nothing was written: confirmation pending or the task vanished.
	Saved bool
	// NeedsConfirm asks the caller to confirm the past due date and submit again.
	NeedsConfirm bool
}

// Controller owns the list model and its filtered view and exposes every user action as a
// handler. Handlers are sequenced by a non-reentrant dispatcher.
type Controller struct {
	svc   *app.Service
	store prefs.Store
	opts  Options
	model *listing.Model
	view  *listing.View
	d     dispatcher
}

// New constructs a controller. A nil store keeps preferences in memory.
func New(svc *app.Service, store prefs.Store, opts Options) *Controller {
	if store == nil {
		store = prefs.NewMemoryStore()
	}
	if _, err := domain.ParseStatusMode(string(opts.DefaultFilter)); err != nil {
		opts.DefaultFilter = domain.StatusAll
	}
	model := listing.NewModel(svc, svc.Now)
	return &Controller{
		svc:   svc,
		store: store,
		opts:  opts,
		model: model,
		view:  listing.NewView(model),
	}
}

// Service returns the task service.
func (c *Controller) Service() *app.Service {
	return c.svc
}

// Prefs returns the preference store.
func (c *Controller) Prefs() prefs.Store {
	return c.store
}

// Model returns the row snapshot.
func (c *Controller) Model() *listing.Model {
	return c.model
}

// View returns the filtered, sorted view.
func (c *Controller) View() *listing.View {
	return c.view
}

// OnStart restores search, filter and sort from preferences, then loads the snapshot.
func (c *Controller) OnStart(ctx context.Context) error {
	return c.d.run(func() error {
		c.view.SetSearchText(prefs.String(c.store, prefs.KeySearchLast, ""))

		mode, err := domain.ParseStatusMode(prefs.String(c.store, prefs.KeyFilterMode, string(c.opts.DefaultFilter)))
		if err != nil {
			mode = c.opts.DefaultFilter
		}
		c.view.SetMode(mode)

		// Missing key: sort by due date. Empty key: sort explicitly cleared.
		colKey := prefs.String(c.store, prefs.KeySortColumn, listing.ColumnDueDate.Key())
		if col, err := listing.ParseColumn(colKey); err == nil {
			c.view.SetSort(col, prefs.Bool(c.store, prefs.KeySortDescending, false))
		} else {
			c.view.ClearSort()
		}
		return c.reload(ctx)
	})
}

// OnReload reloads the snapshot from the store.
func (c *Controller) OnReload(ctx context.Context) error {
	return c.d.run(func() error {
		return c.reload(ctx)
	})
}

// OnSearchChanged applies and persists the search text.
func (c *Controller) OnSearchChanged(text string) error {
	return c.d.run(func() error {
		c.view.SetSearchText(text)
		return c.persist(prefs.KeySearchLast, prefs.StringValue(text))
	})
}

// OnFilterModeChanged applies and persists the status filter, then reloads so date-relative
// modes see fresh rows. The reload is queued behind the mode change.
func (c *Controller) OnFilterModeChanged(ctx context.Context, mode domain.StatusMode) error {
	return c.d.run(func() error {
		c.view.SetMode(mode)
		if err := c.persist(prefs.KeyFilterMode, prefs.StringValue(string(mode))); err != nil {
			return err
		}
		return c.OnReload(ctx)
	})
}

// OnSortChanged sorts the view by col and persists the choice.
func (c *Controller) OnSortChanged(col listing.Column, descending bool) error {
	return c.d.run(func() error {
		if !col.Valid() {
			return fmt.Errorf("sort: %w", domain.ErrInvalidColumn)
		}
		c.view.SetSort(col, descending)
		if err := c.persist(prefs.KeySortColumn, prefs.StringValue(col.Key())); err != nil {
			return err
		}
		return c.persist(prefs.KeySortDescending, prefs.BoolValue(descending))
	})
}

// OnClearSort restores the default order and persists that choice.
func (c *Controller) OnClearSort() error {
	return c.d.run(func() error {
		c.view.ClearSort()
		if err := c.persist(prefs.KeySortColumn, prefs.StringValue("")); err != nil {
			return err
		}
		return c.persist(prefs.KeySortDescending, prefs.BoolValue(false))
	})
}

// OnSubmitForm validates in and writes it: id 0 adds a task, any other id edits it.
// confirmed acknowledges a past due date. Validation failures return *app.ValidationError
// and write nothing.
func (c *Controller) OnSubmitForm(ctx context.Context, id int64, in app.TaskFormInput, confirmed bool) (Outcome, error) {
	var out Outcome
	err := c.d.run(func() error {
		res, err := app.ValidateTaskForm(in, c.svc.Now())
		if err != nil {
			return err
		}
		if res.NeedsPastDueConfirm && c.opts.ConfirmPastDue && !confirmed {
			out = Outcome{TaskID: id, NeedsConfirm: true}
			return nil
		}

		vals := res.Values
		if id == 0 {
			newID, err := c.svc.AddTask(ctx, app.AddTaskInput{
				Title:       vals.Title,
				Description: vals.Description,
				DueDate:     vals.DueDate,
				Priority:    vals.Priority,
			})
			if err != nil {
				return err
			}
			out = Outcome{TaskID: newID, Created: true, Saved: true}
			if vals.Completed {
				done := true
				if _, err := c.svc.UpdateTask(ctx, newID, domain.TaskPatch{Completed: &done}); err != nil {
					return err
				}
			}
		} else {
			ok, err := c.svc.UpdateTask(ctx, id, vals.Patch())
			if err != nil {
				return err
			}
			out = Outcome{TaskID: id, Saved: ok}
		}
		return c.reload(ctx)
	})
	return out, err
}

// OnDelete deletes id and reloads. It reports false when the task was already gone.
func (c *Controller) OnDelete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := c.d.run(func() error {
		ok, err := c.svc.DeleteTask(ctx, id)
		if err != nil {
			return err
		}
		deleted = ok
		return c.reload(ctx)
	})
	return deleted, err
}

// OnToggleCompleted flips the completed flag of id and reloads.
func (c *Controller) OnToggleCompleted(ctx context.Context, id int64) (bool, error) {
	var toggled bool
	err := c.d.run(func() error {
		task, ok, err := c.svc.GetTask(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return c.reload(ctx)
		}
		done := !task.Completed
		toggled, err = c.svc.UpdateTask(ctx, id, domain.TaskPatch{Completed: &done})
		if err != nil {
			return err
		}
		return c.reload(ctx)
	})
	return toggled, err
}

// OnDayChanged re-evaluates date-relative filters and hints.
func (c *Controller) OnDayChanged() error {
	return c.d.run(func() error {
		c.view.Refresh()
		return nil
	})
}

// Theme returns the persisted theme name, or fallback.
func (c *Controller) Theme(fallback string) string {
	name := strings.TrimSpace(prefs.String(c.store, prefs.KeyTheme, fallback))
	if name == "" {
		return fallback
	}
	return name
}

// OnThemeChanged persists the theme name.
func (c *Controller) OnThemeChanged(name string) error {
	return c.d.run(func() error {
		return c.persist(prefs.KeyTheme, prefs.StringValue(name))
	})
}

func (c *Controller) reload(ctx context.Context) error {
	if err := c.model.Reload(ctx); err != nil {
		return err
	}
	c.view.Refresh()
	return nil
}

func (c *Controller) persist(key string, v prefs.Value) error {
	if err := c.store.Set(key, v); err != nil {
		return fmt.Errorf("save preference %s: %w", key, err)
	}
	return nil
}
