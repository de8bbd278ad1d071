package listing

import (
	"slices"
	"time"

	"github.com/Buchenkov/PlanBoard/internal/domain"
)

// View is the filtered and optionally sorted projection of a Model. It holds source row
// indexes only; every accessor first checks that they were computed for the model's current
// generation and day.
type View struct {
	model *Model

	search     string
	mode       domain.StatusMode
	sortCol    Column
	sortDesc   bool
	sortActive bool

	index      []int
	generation uint64
	day        time.Time
	computed   bool
}

// NewView constructs a view over model showing every row.
func NewView(model *Model) *View {
	return &View{model: model, mode: domain.StatusAll}
}

// SetSearchText sets the case-insensitive title substring filter; "" passes everything.
func (v *View) SetSearchText(s string) {
	v.search = s
	v.recompute()
}

// SearchText returns the active search text.
func (v *View) SearchText() string {
	return v.search
}

// SetMode selects the status filter. Unknown modes behave as all.
func (v *View) SetMode(mode domain.StatusMode) {
	v.mode = mode
	v.recompute()
}

// Mode returns the active status filter.
func (v *View) Mode() domain.StatusMode {
	return v.mode
}

// SetSort sorts the filtered rows by col; equal rows keep the model's default order.
func (v *View) SetSort(col Column, descending bool) {
	if !col.Valid() {
		v.ClearSort()
		return
	}
	v.sortCol = col
	v.sortDesc = descending
	v.sortActive = true
	v.recompute()
}

// ClearSort restores the model's default order.
func (v *View) ClearSort() {
	v.sortActive = false
	v.sortDesc = false
	v.recompute()
}

// Sort returns the active sort column and direction; ok is false when unsorted.
func (v *View) Sort() (col Column, descending bool, ok bool) {
	return v.sortCol, v.sortDesc, v.sortActive
}

// RowCount returns the number of visible rows.
func (v *View) RowCount() int {
	v.ensureFresh()
	return len(v.index)
}

// SourceIndex maps a visible row onto its model row, or -1.
func (v *View) SourceIndex(row int) int {
	v.ensureFresh()
	if row < 0 || row >= len(v.index) {
		return -1
	}
	return v.index[row]
}

// TaskAt returns the task shown in visible row.
func (v *View) TaskAt(row int) (domain.Task, bool) {
	return v.model.TaskAt(v.SourceIndex(row))
}

// ValueAt returns the display text of a visible cell.
func (v *View) ValueAt(row int, col Column) string {
	return v.model.ValueAt(v.SourceIndex(row), col)
}

// ColorHintAt returns the color hint of a visible row.
func (v *View) ColorHintAt(row int) domain.ColorHint {
	return v.model.ColorHintAt(v.SourceIndex(row))
}

// IndexOfTask returns the visible row showing id, or -1.
func (v *View) IndexOfTask(id int64) int {
	v.ensureFresh()
	for row, src := range v.index {
		if t, ok := v.model.TaskAt(src); ok && t.ID == id {
			return row
		}
	}
	return -1
}

// Tasks returns a copy of the visible tasks in display order.
func (v *View) Tasks() []domain.Task {
	v.ensureFresh()
	out := make([]domain.Task, 0, len(v.index))
	for _, src := range v.index {
		if t, ok := v.model.TaskAt(src); ok {
			out = append(out, t)
		}
	}
	return out
}

// Refresh forces recomputation, for example after the day changed.
func (v *View) Refresh() {
	v.recompute()
}

func (v *View) ensureFresh() {
	if !v.computed || v.generation != v.model.Generation() || !v.day.Equal(v.model.Today()) {
		v.recompute()
	}
}

func (v *View) recompute() {
	today := v.model.Today()
	index := make([]int, 0, v.model.RowCount())
	for i := 0; i < v.model.RowCount(); i++ {
		t, _ := v.model.TaskAt(i)
		if !domain.MatchesSearch(t.Title, v.search) {
			continue
		}
		if !v.mode.Matches(t, today) {
			continue
		}
		index = append(index, i)
	}
	if v.sortActive {
		col := v.sortCol.OrderColumn()
		slices.SortStableFunc(index, func(a, b int) int {
			ta, _ := v.model.TaskAt(a)
			tb, _ := v.model.TaskAt(b)
			n := domain.CompareBy(ta, tb, col)
			if v.sortDesc {
				n = -n
			}
			return n
		})
	}
	v.index = index
	v.generation = v.model.Generation()
	v.day = today
	v.computed = true
}
