package tui

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/Buchenkov/PlanBoard/internal/domain"
)

// theme names.
const (
	themeDark  = "dark"
	themeLight = "light"
)

// theme holds the palette of one color scheme.
type theme struct {
	name      string
	accent    color.Color
	text      color.Color
	muted     color.Color
	dim       color.Color
	border    color.Color
	headerFG  color.Color
	headerBG  color.Color
	selectBG  color.Color
	selectFG  color.Color
	overdue   color.Color
	dueToday  color.Color
	completed color.Color
	glamour   string
}

// themeFor resolves a theme by name; anything unknown is dark.
func themeFor(name string) theme {
	if strings.EqualFold(strings.TrimSpace(name), themeLight) {
		return theme{
			name:      themeLight,
			accent:    lipgloss.Color("#2a82da"),
			text:      lipgloss.Color("#202020"),
			muted:     lipgloss.Color("#606060"),
			dim:       lipgloss.Color("#8a8a8a"),
			border:    lipgloss.Color("#d0d0d0"),
			headerFG:  lipgloss.Color("#202020"),
			headerBG:  lipgloss.Color("#f2f2f2"),
			selectBG:  lipgloss.Color("#2a82da"),
			selectFG:  lipgloss.Color("#ffffff"),
			overdue:   lipgloss.Color("#d00000"),
			dueToday:  lipgloss.Color("#008000"),
			completed: lipgloss.Color("#777777"),
			glamour:   "light",
		}
	}
	return theme{
		name:      themeDark,
		accent:    lipgloss.Color("#2a82da"),
		text:      lipgloss.Color("#dcdcdc"),
		muted:     lipgloss.Color("241"),
		dim:       lipgloss.Color("239"),
		border:    lipgloss.Color("#404040"),
		headerFG:  lipgloss.Color("#e0e0e0"),
		headerBG:  lipgloss.Color("#3b3b3b"),
		selectBG:  lipgloss.Color("#2a82da"),
		selectFG:  lipgloss.Color("#ffffff"),
		overdue:   lipgloss.Color("#ff4040"),
		dueToday:  lipgloss.Color("#3cb043"),
		completed: lipgloss.Color("#777777"),
		glamour:   "dark",
	}
}

// toggled returns the other theme.
func (t theme) toggled() theme {
	if t.name == themeLight {
		return themeFor(themeDark)
	}
	return themeFor(themeLight)
}

// hintColor maps a row color hint onto the palette; nil means the default text color.
func (t theme) hintColor(h domain.ColorHint) color.Color {
	switch h {
	case domain.HintMuted:
		return t.completed
	case domain.HintOverdue:
		return t.overdue
	case domain.HintDueToday:
		return t.dueToday
	default:
		return nil
	}
}
