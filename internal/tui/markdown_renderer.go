package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdownRenderer renders task descriptions as markdown and recreates the renderer when the
// wrap width or the glamour style changes.
type markdownRenderer struct {
	width    int
	style    string
	renderer *glamour.TermRenderer
}

// render converts markdown input into ANSI-styled terminal text; on renderer failure the
// plain text is returned.
func (r *markdownRenderer) render(markdown, style string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}

	wrapWidth := width
	if wrapWidth < 24 {
		wrapWidth = 24
	}
	if style == "" {
		style = themeDark
	}

	if r.renderer == nil || r.width != wrapWidth || r.style != style {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrapWidth
		r.style = style
	}

	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.Trim(rendered, "\n")
}
