package tui

import "context"

type Option func(*Model)

// WithConfirmDelete toggles the delete confirmation dialog.
func WithConfirmDelete(enabled bool) Option {
	return func(m *Model) {
		m.confirmDelete = enabled
	}
}

// WithMaxRowLines caps how many wrapped lines one table row may take.
func WithMaxRowLines(n int) Option {
	return func(m *Model) {
		if n >= 1 {
			m.maxRowLines = n
		}
	}
}

// WithDefaultTheme sets the theme used when none was persisted.
func WithDefaultTheme(name string) Option {
	return func(m *Model) {
		m.defaultTheme = name
	}
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.copyText = write
		}
	}
}

// WithContext sets the context passed to store calls.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}
