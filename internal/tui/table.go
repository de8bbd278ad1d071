package tui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/Buchenkov/PlanBoard/internal/domain"
	"github.com/Buchenkov/PlanBoard/internal/listing"
	"github.com/charmbracelet/x/ansi"
)

// table chrome: top border, header, header separator and bottom border.
const tableChromeLines = 4

// wrapCell word-wraps text into width cells and caps it at maxLines, marking cut text with an
// ellipsis.
func wrapCell(text string, width, maxLines int) []string {
	if width <= 0 || maxLines <= 0 {
		return []string{""}
	}
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return []string{""}
	}
	wrapped := ansi.Hardwrap(ansi.Wordwrap(text, width, ""), width, true)
	lines := strings.Split(wrapped, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	if len(lines) <= maxLines {
		return lines
	}
	lines = lines[:maxLines]
	last := lines[maxLines-1]
	if ansi.StringWidth(last) >= width {
		last = ansi.Truncate(last, width, "…")
	} else {
		last += "…"
	}
	lines[maxLines-1] = last
	return lines
}

// tableRow is one wrapped row ready for rendering.
type tableRow struct {
	cells  []string
	height int
	hint   domain.ColorHint
}

// buildRows wraps every row of the view into the given column widths.
func buildRows(view *listing.View, cols []listing.Column, widths []int, maxLines int) []tableRow {
	rows := make([]tableRow, view.RowCount())
	for r := range rows {
		row := tableRow{cells: make([]string, len(cols)), height: 1, hint: view.ColorHintAt(r)}
		for i, col := range cols {
			lines := wrapCell(view.ValueAt(r, col), widths[i], maxLines)
			row.height = max(row.height, len(lines))
			for j := range lines {
				lines[j] = " " + lines[j]
			}
			row.cells[i] = strings.Join(lines, "\n")
		}
		rows[r] = row
	}
	return rows
}

// visibleWindow returns the half-open row range that fits in height lines, starting at offset.
func visibleWindow(rows []tableRow, offset, height int) (int, int) {
	if len(rows) == 0 {
		return 0, 0
	}
	offset = clamp(offset, 0, len(rows)-1)
	end := offset
	used := 0
	for end < len(rows) {
		if used+rows[end].height > height && end > offset {
			break
		}
		used += rows[end].height
		end++
	}
	return offset, end
}

// scrollOffset adjusts offset so the selected row is inside the window of height lines.
func scrollOffset(rows []tableRow, offset, selected, height int) int {
	if len(rows) == 0 {
		return 0
	}
	selected = clamp(selected, 0, len(rows)-1)
	offset = clamp(offset, 0, len(rows)-1)
	if selected < offset {
		return selected
	}
	for offset < selected {
		used := 0
		for r := offset; r <= selected; r++ {
			used += rows[r].height
		}
		if used <= height {
			break
		}
		offset++
	}
	return offset
}

// tableSpec carries everything renderTable needs.
type tableSpec struct {
	view      *listing.View
	layout    columnLayout
	theme     theme
	width     int
	height    int
	selected  int
	offset    int
	colCursor int
	maxLines  int
}

// renderTable renders the visible window of the task table.
func renderTable(spec tableSpec) string {
	cols := spec.layout.visible()
	widths := spec.layout.fitWidths(cols, spec.width)
	rows := buildRows(spec.view, cols, widths, spec.maxLines)
	bodyHeight := max(1, spec.height-tableChromeLines)
	offset := scrollOffset(rows, spec.offset, spec.selected, bodyHeight)
	start, end := visibleWindow(rows, offset, bodyHeight)

	sortCol, sortDesc, sorted := spec.view.Sort()
	headers := make([]string, len(cols))
	for i, col := range cols {
		label := col.Label()
		if sorted && col == sortCol {
			if sortDesc {
				label += " ▼"
			} else {
				label += " ▲"
			}
		}
		headers[i] = " " + ansi.Truncate(label, widths[i], "…")
	}

	th := spec.theme
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(th.border)).
		BorderRow(false).
		Headers(headers...)
	for _, row := range rows[start:end] {
		t = t.Row(row.cells...)
	}
	t = t.StyleFunc(func(row, col int) lipgloss.Style {
		style := lipgloss.NewStyle()
		if col >= 0 && col < len(widths) {
			style = style.Width(widths[col] + 2)
		}
		if row == table.HeaderRow {
			style = style.Bold(true).Foreground(th.headerFG).Background(th.headerBG)
			if col == spec.colCursor {
				style = style.Foreground(th.accent).Underline(true)
			}
			return style
		}
		idx := start + row
		if idx == spec.selected {
			return style.Foreground(th.selectFG).Background(th.selectBG)
		}
		if idx >= 0 && idx < len(rows) {
			if c := th.hintColor(rows[idx].hint); c != nil {
				return style.Foreground(c)
			}
		}
		return style.Foreground(th.text)
	})
	return t.Render()
}

// tableOffset recomputes the scroll offset the way renderTable does.
func tableOffset(spec tableSpec) int {
	cols := spec.layout.visible()
	widths := spec.layout.fitWidths(cols, spec.width)
	rows := buildRows(spec.view, cols, widths, spec.maxLines)
	return scrollOffset(rows, spec.offset, spec.selected, max(1, spec.height-tableChromeLines))
}
