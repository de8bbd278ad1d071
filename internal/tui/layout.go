package tui

import (
	"slices"
	"strings"

	"github.com/Buchenkov/PlanBoard/internal/listing"
	"github.com/Buchenkov/PlanBoard/internal/prefs"
)

// column width bounds in terminal cells, excluding the one-cell gutter on each side.
const (
	minColumnWidth = 4
	maxColumnWidth = 80
	widthStep      = 2
)

// defaultColumnWidths holds the initial width per column.
var defaultColumnWidths = map[listing.Column]int{
	listing.ColumnTitle:       28,
	listing.ColumnDescription: 36,
	listing.ColumnDueDate:     10,
	listing.ColumnCompleted:   9,
	listing.ColumnCreatedAt:   10,
	listing.ColumnPriority:    8,
}

// columnLayout is the user-arranged column order, visibility and widths.
type columnLayout struct {
	order  []listing.Column
	hidden map[listing.Column]bool
	widths map[listing.Column]int
}

// defaultColumnLayout returns every column in declaration order at its default width.
func defaultColumnLayout() columnLayout {
	widths := make(map[listing.Column]int, len(defaultColumnWidths))
	for col, w := range defaultColumnWidths {
		widths[col] = w
	}
	return columnLayout{
		order:  listing.Columns(),
		hidden: map[listing.Column]bool{},
		widths: widths,
	}
}

// loadColumnLayout restores the layout from preferences. Unknown or duplicate entries are
// dropped and missing columns are appended, so every column appears exactly once.
func loadColumnLayout(store prefs.Store) columnLayout {
	layout := defaultColumnLayout()
	if store == nil {
		return layout
	}

	if raw := prefs.Bytes(store, prefs.KeyColumnsOrder, nil); len(raw) > 0 {
		order := make([]listing.Column, 0, len(raw))
		for _, b := range raw {
			col := listing.Column(b)
			if !col.Valid() || slices.Contains(order, col) {
				continue
			}
			order = append(order, col)
		}
		for _, col := range listing.Columns() {
			if !slices.Contains(order, col) {
				order = append(order, col)
			}
		}
		layout.order = order
	}

	for _, key := range strings.Split(prefs.String(store, prefs.KeyColumnsHidden, ""), ",") {
		col, err := listing.ParseColumn(strings.TrimSpace(key))
		if err != nil {
			continue
		}
		layout.hidden[col] = true
	}
	// At least one column stays visible.
	if len(layout.visible()) == 0 {
		layout.hidden = map[listing.Column]bool{}
	}

	for _, col := range listing.Columns() {
		w := prefs.Int(store, prefs.ColumnWidthKey(col.Key()), layout.widths[col])
		layout.widths[col] = clamp(w, minColumnWidth, maxColumnWidth)
	}
	return layout
}

// save writes the whole layout to preferences.
func (l columnLayout) save(store prefs.Store) error {
	if store == nil {
		return nil
	}
	order := make([]byte, 0, len(l.order))
	for _, col := range l.order {
		order = append(order, byte(col))
	}
	if err := store.Set(prefs.KeyColumnsOrder, prefs.BytesValue(order)); err != nil {
		return err
	}

	hidden := make([]string, 0, len(l.hidden))
	for _, col := range l.order {
		if l.hidden[col] {
			hidden = append(hidden, col.Key())
		}
	}
	if err := store.Set(prefs.KeyColumnsHidden, prefs.StringValue(strings.Join(hidden, ","))); err != nil {
		return err
	}

	for _, col := range l.order {
		if err := store.Set(prefs.ColumnWidthKey(col.Key()), prefs.IntValue(int64(l.widths[col]))); err != nil {
			return err
		}
	}
	return nil
}

// visible returns the shown columns in display order.
func (l columnLayout) visible() []listing.Column {
	out := make([]listing.Column, 0, len(l.order))
	for _, col := range l.order {
		if !l.hidden[col] {
			out = append(out, col)
		}
	}
	return out
}

// clone returns a deep copy so Model values never share layout maps.
func (l columnLayout) clone() columnLayout {
	out := columnLayout{
		order:  slices.Clone(l.order),
		hidden: make(map[listing.Column]bool, len(l.hidden)),
		widths: make(map[listing.Column]int, len(l.widths)),
	}
	for col, v := range l.hidden {
		out.hidden[col] = v
	}
	for col, v := range l.widths {
		out.widths[col] = v
	}
	return out
}

// toggleHidden flips the visibility of col; the last visible column cannot be hidden.
func (l columnLayout) toggleHidden(col listing.Column) (columnLayout, bool) {
	out := l.clone()
	if !out.hidden[col] && len(out.visible()) <= 1 {
		return l, false
	}
	if out.hidden[col] {
		delete(out.hidden, col)
	} else {
		out.hidden[col] = true
	}
	return out, true
}

// move shifts the column at index idx by delta positions.
func (l columnLayout) move(idx, delta int) (columnLayout, int) {
	target := idx + delta
	if idx < 0 || idx >= len(l.order) || target < 0 || target >= len(l.order) {
		return l, idx
	}
	out := l.clone()
	out.order[idx], out.order[target] = out.order[target], out.order[idx]
	return out, target
}

// resize changes the width of col by delta cells within the allowed bounds.
func (l columnLayout) resize(col listing.Column, delta int) columnLayout {
	out := l.clone()
	out.widths[col] = clamp(out.widths[col]+delta, minColumnWidth, maxColumnWidth)
	return out
}

// fitWidths returns the rendered width of each visible column for a table of totalWidth cells.
// Each column also takes two gutter cells and one border cell, plus one closing border.
// Overflow is taken from the widest column; slack goes to the description (or title) column.
func (l columnLayout) fitWidths(cols []listing.Column, totalWidth int) []int {
	widths := make([]int, len(cols))
	for i, col := range cols {
		widths[i] = l.widths[col]
	}
	if totalWidth <= 0 || len(cols) == 0 {
		return widths
	}

	used := func() int {
		sum := 1
		for _, w := range widths {
			sum += w + 3
		}
		return sum
	}

	for used() > totalWidth {
		widest := 0
		for i := range widths {
			if widths[i] > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minColumnWidth {
			break
		}
		widths[widest]--
	}

	if slack := totalWidth - used(); slack > 0 {
		grow := slices.Index(cols, listing.ColumnDescription)
		if grow < 0 {
			grow = slices.Index(cols, listing.ColumnTitle)
		}
		if grow >= 0 {
			widths[grow] += slack
		}
	}
	return widths
}
