package tui

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/Buchenkov/PlanBoard/internal/app"
	"github.com/Buchenkov/PlanBoard/internal/domain"
	"github.com/Buchenkov/PlanBoard/internal/planner"
	"github.com/atotto/clipboard"
)

// inputMode represents a selectable mode.
type inputMode int

// modeNone and related constants define package defaults.
const (
	modeNone inputMode = iota
	modeSearch
	modeTaskForm
	modeTaskInfo
	modeColumns
	modeConfirmAction
)

// confirmKind identifies what a pending confirmation applies.
type confirmKind int

// confirmDeleteTask and related constants list confirmable actions.
const (
	confirmDeleteTask confirmKind = iota
	confirmPastDue
)

// confirmAction describes a pending confirmation.
type confirmAction struct {
	Kind   confirmKind
	Label  string
	TaskID int64
	Title  string
}

// startMsg triggers the initial restore and load.
type startMsg struct{}

// DayChangedMsg tells the model the calendar day rolled over.
type DayChangedMsg struct{}

// Model represents model data used by this package.
type Model struct {
	ctl *planner.Controller
	ctx context.Context

	ready  bool
	width  int
	height int
	status string
	err    error

	help         help.Model
	keys         keyMap
	theme        theme
	defaultTheme string
	mode         inputMode

	selected   int
	selectedID int64
	offset     int
	colCursor  int

	layout       columnLayout
	columnCursor int

	searchInput  textinput.Model
	searchBefore string

	form           taskForm
	pendingConfirm confirmAction
	confirmChoice  int
	infoTaskID     int64

	md            *markdownRenderer
	confirmDelete bool
	maxRowLines   int
	copyText      func(string) error
}

// NewModel constructs a new value for this package.
func NewModel(ctl *planner.Controller, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	searchInput := textinput.New()
	searchInput.Prompt = "/ "
	searchInput.Placeholder = "search titles"
	searchInput.CharLimit = 120
	m := Model{
		ctl:           ctl,
		ctx:           context.Background(),
		status:        "loading...",
		help:          h,
		keys:          newKeyMap(),
		defaultTheme:  themeDark,
		layout:        defaultColumnLayout(),
		searchInput:   searchInput,
		md:            &markdownRenderer{},
		confirmDelete: true,
		maxRowLines:   3,
		copyText:      clipboard.WriteAll,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	m.theme = themeFor(m.defaultTheme)
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return startMsg{} }
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		m.syncOffset()
		return m, nil

	case startMsg:
		err := m.ctl.OnStart(m.ctx)
		m.theme = themeFor(m.ctl.Theme(m.defaultTheme))
		m.layout = loadColumnLayout(m.ctl.Prefs())
		m.searchInput.SetValue(m.ctl.View().SearchText())
		m.colCursor = clamp(m.colCursor, 0, len(m.layout.visible())-1)
		if err != nil && m.ctl.Model().Generation() == 0 {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.selectRow(0)
		if err != nil {
			m.status = "load failed: " + err.Error()
			return m, nil
		}
		m.status = "ready"
		return m, nil

	case DayChangedMsg:
		if err := m.ctl.OnDayChanged(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.restoreSelection()
		m.status = "new day: " + domain.Today(m.ctl.Service().Now())
		return m, nil

	case tea.KeyPressMsg:
		if m.err != nil {
			return m.handleErrorKey(msg)
		}
		if m.mode != modeNone {
			return m.handleInputModeKey(msg)
		}
		return m.handleNormalModeKey(msg)

	case tea.MouseWheelMsg:
		return m.handleMouseWheel(msg)

	default:
		return m, nil
	}
}

// handleErrorKey handles keys while the startup error view is shown.
func (m Model) handleErrorKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.reload):
		m.err = nil
		m.status = "loading..."
		return m, m.Init()
	default:
		return m, nil
	}
}

// handleMouseWheel moves the row selection.
func (m Model) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	if m.help.ShowAll || m.mode != modeNone || m.err != nil {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseWheelUp:
		m.selectRow(m.selected - 1)
	case tea.MouseWheelDown:
		m.selectRow(m.selected + 1)
	}
	return m, nil
}

// handleNormalModeKey handles normal mode key.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.help.ShowAll {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.toggleHelp), msg.String() == "esc":
			m.help.ShowAll = false
			m.status = "ready"
		}
		return m, nil
	}

	view := m.ctl.View()
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = true
		m.status = "help"
		return m, nil
	case key.Matches(msg, m.keys.clearSearch):
		if view.SearchText() == "" {
			return m, nil
		}
		m.applySearch("")
		m.searchInput.SetValue("")
		m.status = "search cleared"
		return m, nil
	case key.Matches(msg, m.keys.reload):
		if err := m.ctl.OnReload(m.ctx); err != nil {
			m.status = "reload failed: " + err.Error()
			return m, nil
		}
		m.restoreSelection()
		m.status = "reloaded"
		return m, nil

	case key.Matches(msg, m.keys.moveUp):
		m.selectRow(m.selected - 1)
		return m, nil
	case key.Matches(msg, m.keys.moveDown):
		m.selectRow(m.selected + 1)
		return m, nil
	case key.Matches(msg, m.keys.pageUp):
		m.selectRow(m.selected - m.pageRows())
		return m, nil
	case key.Matches(msg, m.keys.pageDown):
		m.selectRow(m.selected + m.pageRows())
		return m, nil
	case key.Matches(msg, m.keys.home):
		m.selectRow(0)
		return m, nil
	case key.Matches(msg, m.keys.end):
		m.selectRow(view.RowCount() - 1)
		return m, nil
	case key.Matches(msg, m.keys.columnLeft):
		m.colCursor = clamp(m.colCursor-1, 0, len(m.layout.visible())-1)
		return m, nil
	case key.Matches(msg, m.keys.columnRight):
		m.colCursor = clamp(m.colCursor+1, 0, len(m.layout.visible())-1)
		return m, nil

	case key.Matches(msg, m.keys.addTask):
		return m, m.startTaskForm(0, app.NewTaskFormInput(m.ctl.Service().Now()))
	case key.Matches(msg, m.keys.editTask):
		task, ok := m.selectedTask()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		return m, m.startTaskForm(task.ID, app.TaskFormInputFrom(task, m.ctl.Service().Now()))
	case key.Matches(msg, m.keys.taskInfo):
		task, ok := m.selectedTask()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		m.infoTaskID = task.ID
		m.mode = modeTaskInfo
		m.status = "task info"
		return m, nil
	case key.Matches(msg, m.keys.deleteTask):
		task, ok := m.selectedTask()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		if m.confirmDelete {
			m.pendingConfirm = confirmAction{Kind: confirmDeleteTask, Label: "delete task", TaskID: task.ID, Title: task.Title}
			m.confirmChoice = 0
			m.mode = modeConfirmAction
			m.status = "confirm delete"
			return m, nil
		}
		return m.deleteTask(task.ID)
	case key.Matches(msg, m.keys.toggleDone):
		task, ok := m.selectedTask()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		toggled, err := m.ctl.OnToggleCompleted(m.ctx, task.ID)
		switch {
		case err != nil:
			m.status = "update failed: " + err.Error()
		case !toggled:
			m.status = "task no longer exists"
		case task.Completed:
			m.status = "task reopened"
		default:
			m.status = "task completed"
		}
		m.restoreSelection()
		return m, nil

	case key.Matches(msg, m.keys.search):
		m.mode = modeSearch
		m.searchBefore = view.SearchText()
		m.searchInput.SetValue(m.searchBefore)
		m.searchInput.CursorEnd()
		m.status = "search"
		return m, m.searchInput.Focus()
	case key.Matches(msg, m.keys.nextFilter):
		return m.applyFilter(view.Mode().Next(1))
	case key.Matches(msg, m.keys.prevFilter):
		return m.applyFilter(view.Mode().Next(-1))
	case key.Matches(msg, m.keys.filterAll):
		return m.applyFilter(domain.StatusAll)
	case key.Matches(msg, m.keys.filterOpen):
		return m.applyFilter(domain.StatusOpen)
	case key.Matches(msg, m.keys.filterOverdue):
		return m.applyFilter(domain.StatusOverdue)
	case key.Matches(msg, m.keys.filterToday):
		return m.applyFilter(domain.StatusDueToday)
	case key.Matches(msg, m.keys.filterDone):
		return m.applyFilter(domain.StatusCompleted)

	case key.Matches(msg, m.keys.sortColumn):
		cols := m.layout.visible()
		if len(cols) == 0 {
			return m, nil
		}
		col := cols[clamp(m.colCursor, 0, len(cols)-1)]
		descending := false
		if cur, desc, ok := view.Sort(); ok && cur == col {
			descending = !desc
		}
		if err := m.ctl.OnSortChanged(col, descending); err != nil {
			m.status = err.Error()
		} else {
			dir := "ascending"
			if descending {
				dir = "descending"
			}
			m.status = "sorted by " + strings.ToLower(col.Label()) + " " + dir
		}
		m.restoreSelection()
		return m, nil
	case key.Matches(msg, m.keys.clearSort):
		if err := m.ctl.OnClearSort(); err != nil {
			m.status = err.Error()
		} else {
			m.status = "sort cleared"
		}
		m.restoreSelection()
		return m, nil
	case key.Matches(msg, m.keys.columns):
		m.mode = modeColumns
		m.columnCursor = 0
		if cols := m.layout.visible(); len(cols) > 0 {
			focused := cols[clamp(m.colCursor, 0, len(cols)-1)]
			for i, col := range m.layout.order {
				if col == focused {
					m.columnCursor = i
				}
			}
		}
		m.status = "columns"
		return m, nil
	case key.Matches(msg, m.keys.toggleTheme):
		next := m.theme.toggled()
		if err := m.ctl.OnThemeChanged(next.name); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.theme = next
		m.status = "theme: " + next.name
		return m, nil
	case key.Matches(msg, m.keys.copyTask):
		task, ok := m.selectedTask()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		if err := m.copyText(taskClipboardText(task)); err != nil {
			m.status = "copy failed: " + err.Error()
			return m, nil
		}
		m.status = "copied task #" + fmt.Sprint(task.ID)
		return m, nil
	default:
		return m, nil
	}
}

// handleInputModeKey handles input mode key.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeTaskForm:
		return m.handleTaskFormKey(msg)
	case modeTaskInfo:
		return m.handleTaskInfoKey(msg)
	case modeColumns:
		return m.handleColumnsKey(msg)
	case modeConfirmAction:
		return m.handleConfirmKey(msg)
	default:
		m.mode = modeNone
		return m, nil
	}
}

// handleSearchKey applies the search text as it is typed.
func (m Model) handleSearchKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.searchInput.Blur()
		m.searchInput.SetValue(m.searchBefore)
		m.applySearch(m.searchBefore)
		m.status = "search cancelled"
		return m, nil
	case "enter":
		m.mode = modeNone
		m.searchInput.Blur()
		m.status = fmt.Sprintf("%d tasks", m.ctl.View().RowCount())
		return m, nil
	case "ctrl+u":
		m.searchInput.SetValue("")
		m.applySearch("")
		return m, nil
	}
	var cmd tea.Cmd
	before := m.searchInput.Value()
	m.searchInput, cmd = m.searchInput.Update(msg)
	if value := m.searchInput.Value(); value != before {
		m.applySearch(value)
	}
	return m, cmd
}

// handleTaskFormKey edits the task form.
func (m Model) handleTaskFormKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.form = taskForm{}
		m.status = "cancelled"
		return m, nil
	case "tab", "down":
		return m, m.form.focusField((m.form.focus + 1) % formFieldCount)
	case "shift+tab", "up":
		return m, m.form.focusField((m.form.focus + formFieldCount - 1) % formFieldCount)
	case "enter":
		return m.submitTaskForm(false)
	}

	if m.form.focus == formFieldCompleted {
		switch msg.String() {
		case "space", "x", "h", "l", "left", "right":
			m.form.completed = !m.form.completed
		}
		return m, nil
	}
	if m.form.focus == formFieldDue {
		switch msg.String() {
		case "ctrl+t":
			m.form.inputs[formFieldDue].SetValue(domain.Today(m.ctl.Service().Now()))
			m.form.inputs[formFieldDue].CursorEnd()
			return m, nil
		case "alt+up":
			m.form.shiftDue(1, m.ctl.Service().Now())
			return m, nil
		case "alt+down":
			m.form.shiftDue(-1, m.ctl.Service().Now())
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

// submitTaskForm validates and writes the form; confirmed acknowledges a past due date.
func (m Model) submitTaskForm(confirmed bool) (tea.Model, tea.Cmd) {
	out, err := m.ctl.OnSubmitForm(m.ctx, m.form.id, m.form.value(), confirmed)
	if err != nil {
		if app.IsValidation(err) {
			m.form.err = validationMessage(err)
			m.status = "invalid task"
			if field := fieldForValidation(err); field >= 0 {
				return m, m.form.focusField(field)
			}
			return m, nil
		}
		m.form.err = "save failed: " + err.Error()
		m.status = m.form.err
		return m, nil
	}
	if out.NeedsConfirm {
		m.pendingConfirm = confirmAction{
			Kind:   confirmPastDue,
			Label:  "due date is in the past",
			TaskID: m.form.id,
			Title:  strings.TrimSpace(m.form.inputs[formFieldTitle].Value()),
		}
		m.confirmChoice = 0
		m.mode = modeConfirmAction
		m.status = "confirm past due date"
		return m, nil
	}

	m.mode = modeNone
	m.form = taskForm{}
	if !out.Saved {
		m.status = "task no longer exists"
		m.restoreSelection()
		return m, nil
	}
	m.selectedID = out.TaskID
	m.restoreSelection()
	if out.Created {
		m.status = "task added"
	} else {
		m.status = "task saved"
	}
	if m.ctl.View().IndexOfTask(out.TaskID) < 0 {
		m.status += " (hidden by current filter)"
	}
	return m, nil
}

// handleTaskInfoKey handles the task info overlay.
func (m Model) handleTaskInfoKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "esc", key.Matches(msg, m.keys.taskInfo):
		m.mode = modeNone
		m.status = "ready"
		return m, nil
	case key.Matches(msg, m.keys.editTask):
		task, ok := m.infoTask()
		m.mode = modeNone
		if !ok {
			m.status = "task no longer exists"
			return m, nil
		}
		return m, m.startTaskForm(task.ID, app.TaskFormInputFrom(task, m.ctl.Service().Now()))
	case key.Matches(msg, m.keys.copyTask):
		task, ok := m.infoTask()
		if !ok {
			return m, nil
		}
		if err := m.copyText(taskClipboardText(task)); err != nil {
			m.status = "copy failed: " + err.Error()
			return m, nil
		}
		m.status = "copied task #" + fmt.Sprint(task.ID)
		return m, nil
	default:
		return m, nil
	}
}

// handleColumnsKey rearranges, hides and resizes columns; every change is persisted.
func (m Model) handleColumnsKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	layout := m.layout
	col := layout.order[clamp(m.columnCursor, 0, len(layout.order)-1)]
	switch msg.String() {
	case "esc", "c", "q":
		m.mode = modeNone
		m.status = "ready"
		return m, nil
	case "j", "down":
		m.columnCursor = clamp(m.columnCursor+1, 0, len(layout.order)-1)
		return m, nil
	case "k", "up":
		m.columnCursor = clamp(m.columnCursor-1, 0, len(layout.order)-1)
		return m, nil
	case "space", "enter":
		next, ok := layout.toggleHidden(col)
		if !ok {
			m.status = "at least one column must stay visible"
			return m, nil
		}
		layout = next
	case "J", "shift+down":
		layout, m.columnCursor = layout.move(m.columnCursor, 1)
	case "K", "shift+up":
		layout, m.columnCursor = layout.move(m.columnCursor, -1)
	case "+", "=", "l", "right":
		layout = layout.resize(col, widthStep)
	case "-", "_", "h", "left":
		layout = layout.resize(col, -widthStep)
	default:
		return m, nil
	}
	m.layout = layout
	m.colCursor = clamp(m.colCursor, 0, len(layout.visible())-1)
	m.syncOffset()
	if err := layout.save(m.ctl.Prefs()); err != nil {
		m.status = "save columns failed: " + err.Error()
		return m, nil
	}
	m.status = "columns updated"
	return m, nil
}

// handleConfirmKey handles the confirmation modal.
func (m Model) handleConfirmKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		return m.cancelConfirm()
	case "h", "left", "l", "right", "tab":
		if m.confirmChoice == 0 {
			m.confirmChoice = 1
		} else {
			m.confirmChoice = 0
		}
		return m, nil
	case "y":
		m.confirmChoice = 0
		return m.applyConfirmedAction()
	case "enter":
		if m.confirmChoice == 1 {
			return m.cancelConfirm()
		}
		return m.applyConfirmedAction()
	default:
		return m, nil
	}
}

// cancelConfirm drops the pending confirmation; a past-due prompt returns to the form.
func (m Model) cancelConfirm() (tea.Model, tea.Cmd) {
	action := m.pendingConfirm
	m.pendingConfirm = confirmAction{}
	m.confirmChoice = 0
	if action.Kind == confirmPastDue {
		m.mode = modeTaskForm
		m.status = "choose another due date"
		return m, m.form.focusField(formFieldDue)
	}
	m.mode = modeNone
	m.status = "cancelled"
	return m, nil
}

// applyConfirmedAction runs the pending confirmation.
func (m Model) applyConfirmedAction() (tea.Model, tea.Cmd) {
	action := m.pendingConfirm
	m.pendingConfirm = confirmAction{}
	m.confirmChoice = 0
	switch action.Kind {
	case confirmPastDue:
		m.mode = modeTaskForm
		return m.submitTaskForm(true)
	default:
		m.mode = modeNone
		return m.deleteTask(action.TaskID)
	}
}

// deleteTask deletes id and reports the outcome.
func (m Model) deleteTask(id int64) (tea.Model, tea.Cmd) {
	deleted, err := m.ctl.OnDelete(m.ctx, id)
	switch {
	case err != nil:
		m.status = "delete failed: " + err.Error()
	case !deleted:
		m.status = "task no longer exists"
	default:
		m.status = "task deleted"
	}
	m.restoreSelection()
	return m, nil
}

// startTaskForm opens the add/edit form.
func (m *Model) startTaskForm(id int64, in app.TaskFormInput) tea.Cmd {
	m.form = newTaskForm(id, in)
	m.mode = modeTaskForm
	if id == 0 {
		m.status = "new task"
	} else {
		m.status = "edit task"
	}
	return m.form.focusField(formFieldTitle)
}

// applySearch forwards search text to the controller.
func (m *Model) applySearch(text string) {
	if err := m.ctl.OnSearchChanged(text); err != nil {
		m.status = err.Error()
	}
	m.restoreSelection()
}

// applyFilter switches the status filter.
func (m Model) applyFilter(mode domain.StatusMode) (tea.Model, tea.Cmd) {
	if err := m.ctl.OnFilterModeChanged(m.ctx, mode); err != nil {
		m.status = "filter failed: " + err.Error()
	} else {
		m.status = "filter: " + mode.Label()
	}
	m.restoreSelection()
	return m, nil
}

// selectedTask returns the task under the row cursor.
func (m Model) selectedTask() (domain.Task, bool) {
	return m.ctl.View().TaskAt(m.selected)
}

// infoTask returns the task shown in the info overlay from the current snapshot.
func (m Model) infoTask() (domain.Task, bool) {
	view := m.ctl.View()
	idx := view.IndexOfTask(m.infoTaskID)
	if idx < 0 {
		return domain.Task{}, false
	}
	return view.TaskAt(idx)
}

// selectRow moves the cursor to row and remembers the task under it.
func (m *Model) selectRow(row int) {
	view := m.ctl.View()
	m.selected = clamp(row, 0, view.RowCount()-1)
	m.selectedID = 0
	if task, ok := view.TaskAt(m.selected); ok {
		m.selectedID = task.ID
	}
	m.syncOffset()
}

// restoreSelection keeps the cursor on the same task after the view changed.
func (m *Model) restoreSelection() {
	if idx := m.ctl.View().IndexOfTask(m.selectedID); idx >= 0 {
		m.selectRow(idx)
		return
	}
	m.selectRow(m.selected)
}

// syncOffset scrolls the table so the selected row stays visible.
func (m *Model) syncOffset() {
	m.offset = tableOffset(m.tableSpec())
}

// pageRows returns how many rows a page jump moves.
func (m Model) pageRows() int {
	return max(1, (m.tableHeight()-tableChromeLines)/max(1, m.maxRowLines))
}

// tableHeight returns the lines available to the table.
func (m Model) tableHeight() int {
	// header, search line, status line and the two-line help footer.
	return max(tableChromeLines+1, m.height-5)
}

// tableSpec collects the table rendering inputs.
func (m Model) tableSpec() tableSpec {
	return tableSpec{
		view:      m.ctl.View(),
		layout:    m.layout,
		theme:     m.theme,
		width:     m.width,
		height:    m.tableHeight(),
		selected:  m.selected,
		offset:    m.offset,
		colCursor: m.colCursor,
		maxLines:  m.maxRowLines,
	}
}

// View handles view.
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	return v
}

// render renders the full screen for the current model state.
func (m Model) render() string {
	if m.err != nil {
		return "error: " + m.err.Error() + "\n\npress r to retry • q quit\n"
	}
	if !m.ready {
		return "loading..."
	}

	th := m.theme
	accent := th.accent
	muted := th.muted
	dim := th.dim
	view := m.ctl.View()

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(th.text)
	helpStyle := lipgloss.NewStyle().Foreground(muted)
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	header := titleStyle.Render("planboard") + "  " + domain.Today(m.ctl.Service().Now())
	header += statusStyle.Render("  [" + view.Mode().Label() + "]")
	header += statusStyle.Render(fmt.Sprintf("  %d/%d tasks", view.RowCount(), m.ctl.Model().RowCount()))
	if col, desc, ok := view.Sort(); ok {
		dir := "asc"
		if desc {
			dir = "desc"
		}
		header += statusStyle.Render("  sort: " + strings.ToLower(col.Label()) + " " + dir)
	}

	searchLine := statusStyle.Render("search: " + view.SearchText())
	if m.mode == modeSearch {
		in := m.searchInput
		in.SetWidth(max(10, m.width-4))
		searchLine = in.View()
	} else if view.SearchText() == "" {
		searchLine = statusStyle.Render("press / to search")
	}

	body := renderTable(m.tableSpec())
	if view.RowCount() == 0 {
		empty := "no tasks yet • press n to add one"
		if m.ctl.Model().RowCount() > 0 {
			empty = "no tasks match the current filter"
		}
		body += "\n" + helpStyle.Render(empty)
	}

	sections := []string{header, searchLine, body}
	if strings.TrimSpace(m.status) != "" && m.status != "ready" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	content := strings.Join(sections, "\n")

	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	if m.height > 0 {
		helpHeight := lipgloss.Height(helpLine)
		content = fitLines(content, max(0, m.height-helpHeight))
	}

	fullContent := content + "\n" + helpLine
	overlay := m.renderModeOverlay(accent, muted, dim, helpStyle, m.width-8)
	if m.help.ShowAll {
		overlay = m.renderHelpOverlay(accent, muted, dim, helpStyle, m.width-8)
	}
	if overlay != "" {
		overlayHeight := lipgloss.Height(fullContent)
		if m.height > 0 {
			overlayHeight = m.height
		}
		fullContent = overlayOnContent(fullContent, overlay, max(1, m.width), max(1, overlayHeight))
	}
	return fullContent
}

// renderModeOverlay renders output for the current model state.
func (m Model) renderModeOverlay(accent, muted, dim color.Color, _ lipgloss.Style, maxWidth int) string {
	switch m.mode {
	case modeTaskForm:
		return m.form.render(accent, muted, m.theme.overdue, maxWidth)

	case modeTaskInfo:
		task, ok := m.infoTask()
		if !ok {
			return ""
		}
		width := clamp(maxWidth, 30, 80)
		boxStyle := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1).
			Width(width)
		titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
		hintStyle := lipgloss.NewStyle().Foreground(muted)
		lines := []string{
			titleStyle.Render("Task Info"),
			task.Title,
			hintStyle.Render(fmt.Sprintf("#%d • %s • priority %d", task.ID, domain.StatusLabel(task.Completed), task.Priority)),
			hintStyle.Render("due: " + task.DueDate + " • created: " + task.CreatedAt),
		}
		if c := m.theme.hintColor(domain.HintFor(task, m.ctl.Model().Today())); c != nil {
			lines[1] = lipgloss.NewStyle().Bold(true).Foreground(c).Render(task.Title)
		}
		lines = append(lines, "")
		if desc := m.md.render(task.Description, m.theme.glamour, width-4); desc != "" {
			lines = append(lines, desc)
		} else {
			lines = append(lines, hintStyle.Render("(no description)"))
		}
		lines = append(lines, "", hintStyle.Render("e edit • y copy • esc close"))
		return boxStyle.Render(strings.Join(lines, "\n"))

	case modeColumns:
		style := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)
		if maxWidth > 0 {
			style = style.Width(clamp(maxWidth, 36, 60))
		}
		titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
		hintStyle := lipgloss.NewStyle().Foreground(muted)
		lines := []string{titleStyle.Render("Columns")}
		for i, col := range m.layout.order {
			mark := "[x]"
			if m.layout.hidden[col] {
				mark = "[ ]"
			}
			line := fmt.Sprintf("%s %-12s width %d", mark, col.Label(), m.layout.widths[col])
			if i == m.columnCursor {
				line = lipgloss.NewStyle().Bold(true).Foreground(accent).Render("› " + line)
			} else {
				line = "  " + line
			}
			lines = append(lines, line)
		}
		lines = append(lines, hintStyle.Render("space show/hide • J/K move • +/- width • esc close"))
		return style.Render(strings.Join(lines, "\n"))

	case modeConfirmAction:
		style := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)
		if maxWidth > 0 {
			style = style.Width(clamp(maxWidth, 36, 88))
		}
		titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
		hintStyle := lipgloss.NewStyle().Foreground(muted)
		taskTitle := strings.TrimSpace(m.pendingConfirm.Title)
		if taskTitle == "" {
			taskTitle = "(untitled task)"
		}
		confirmStyle := lipgloss.NewStyle().Foreground(muted)
		cancelStyle := lipgloss.NewStyle().Foreground(muted)
		if m.confirmChoice == 0 {
			confirmStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
		} else {
			cancelStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
		}
		lines := []string{
			titleStyle.Render("Confirm Action"),
			fmt.Sprintf("%s: %s", m.pendingConfirm.Label, truncate(taskTitle, 60)),
			confirmStyle.Render("[confirm]") + "  " + cancelStyle.Render("[cancel]"),
			hintStyle.Render("enter apply • esc cancel • h/l switch • y confirm • n cancel"),
		}
		return style.Render(strings.Join(lines, "\n"))

	default:
		return ""
	}
}

// renderHelpOverlay renders output for the current model state.
func (m Model) renderHelpOverlay(accent, muted, dim color.Color, _ lipgloss.Style, maxWidth int) string {
	width := clamp(maxWidth, 56, 110)
	hb := m.help
	hb.ShowAll = true
	hb.SetWidth(width - 4)

	title := lipgloss.NewStyle().Bold(true).Foreground(accent).Render("PlanBoard Help")
	subtitle := lipgloss.NewStyle().Foreground(muted).Render("keyboard reference")
	legend := []string{
		lipgloss.NewStyle().Bold(true).Foreground(accent).Render("Row colors"),
		lipgloss.NewStyle().Foreground(m.theme.overdue).Render("overdue") + "  " +
			lipgloss.NewStyle().Foreground(m.theme.dueToday).Render("due today") + "  " +
			lipgloss.NewStyle().Foreground(m.theme.completed).Render("completed"),
		"",
		"1-5 filters: all • open • overdue • due today • completed",
		"s sorts by the focused column (h/l); press again to reverse",
		"c opens the column editor: hide, reorder and resize columns",
	}
	lines := []string{
		title,
		subtitle,
		"",
		hb.View(m.keys),
		"",
		strings.Join(legend, "\n"),
		"",
		lipgloss.NewStyle().Foreground(muted).Render("press ? or esc to close"),
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1)
	if maxWidth > 0 {
		style = style.Width(width)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// taskClipboardText formats a task for the clipboard.
func taskClipboardText(t domain.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", t.Title)
	fmt.Fprintf(&b, "due: %s • %s • priority %d\n", t.DueDate, strings.ToLower(domain.StatusLabel(t.Completed)), t.Priority)
	if desc := strings.TrimSpace(t.Description); desc != "" {
		b.WriteString("\n" + desc + "\n")
	}
	return b.String()
}

// clamp clamps the requested operation.
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines fits lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent overlays on content.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centeredOverlay := lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
	overlayLayer := lipgloss.NewLayer(centeredOverlay).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// truncate truncates the requested operation.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
