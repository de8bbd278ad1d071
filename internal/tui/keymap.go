package tui

import "charm.land/bubbles/v2/key"

// keyMap represents key map data used by this package.
type keyMap struct {
	quit          key.Binding
	reload        key.Binding
	toggleHelp    key.Binding
	moveUp        key.Binding
	moveDown      key.Binding
	pageUp        key.Binding
	pageDown      key.Binding
	home          key.Binding
	end           key.Binding
	columnLeft    key.Binding
	columnRight   key.Binding
	addTask       key.Binding
	editTask      key.Binding
	taskInfo      key.Binding
	deleteTask    key.Binding
	toggleDone    key.Binding
	search        key.Binding
	clearSearch   key.Binding
	nextFilter    key.Binding
	prevFilter    key.Binding
	sortColumn    key.Binding
	clearSort     key.Binding
	columns       key.Binding
	toggleTheme   key.Binding
	copyTask      key.Binding
	filterAll     key.Binding
	filterOpen    key.Binding
	filterOverdue key.Binding
	filterToday   key.Binding
	filterDone    key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveUp:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "row up")),
		moveDown:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "row down")),
		pageUp:        key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		pageDown:      key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		home:          key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first row")),
		end:           key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last row")),
		columnLeft:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "column left")),
		columnRight:   key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "column right")),
		addTask:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		editTask:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit task")),
		taskInfo:      key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i/enter", "task info")),
		deleteTask:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete task")),
		toggleDone:    key.NewBinding(key.WithKeys("x", "space"), key.WithHelp("x", "toggle done")),
		search:        key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		clearSearch:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
		nextFilter:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "next filter")),
		prevFilter:    key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "previous filter")),
		sortColumn:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort by column")),
		clearSort:     key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "clear sort")),
		columns:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "columns")),
		toggleTheme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle theme")),
		copyTask:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy task")),
		filterAll:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		filterOpen:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "open")),
		filterOverdue: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "overdue")),
		filterToday:   key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "due today")),
		filterDone:    key.NewBinding(key.WithKeys("5"), key.WithHelp("5", "completed")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.addTask, k.editTask, k.deleteTask, k.toggleDone, k.search, k.nextFilter, k.sortColumn, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.addTask, k.editTask, k.taskInfo, k.deleteTask, k.toggleDone, k.copyTask, k.reload, k.toggleHelp, k.quit},
		{k.moveUp, k.moveDown, k.pageUp, k.pageDown, k.home, k.end, k.columnLeft, k.columnRight},
		{k.search, k.clearSearch, k.nextFilter, k.prevFilter, k.filterAll, k.filterOpen, k.filterOverdue, k.filterToday, k.filterDone},
		{k.sortColumn, k.clearSort, k.columns, k.toggleTheme},
	}
}
