package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/wilbur182/grudge/internal/styles"
)

// ScrollbarParams describes one frame of a vertical scrollbar.
type ScrollbarParams struct {
	TotalItems   int // logical items in the list
	ScrollOffset int // index of the first visible item
	VisibleItems int // items that fit in the viewport
	TrackHeight  int // track height in terminal rows
}

// RenderScrollbar renders a one-column track of exactly TrackHeight
// lines. When everything fits it returns a column of spaces, so the
// layout keeps the same width whether or not the list scrolls.
func RenderScrollbar(p ScrollbarParams) string {
	if p.TrackHeight < 1 {
		return ""
	}
	lines := make([]string, p.TrackHeight)

	if p.TotalItems <= p.VisibleItems {
		for i := range lines {
			lines[i] = " "
		}
		return strings.Join(lines, "\n")
	}

	thumb := p.VisibleItems * p.TrackHeight / p.TotalItems
	if thumb < 1 {
		thumb = 1
	}
	if thumb > p.TrackHeight {
		thumb = p.TrackHeight
	}

	pos := 0
	if maxOff := p.TotalItems - p.VisibleItems; maxOff > 0 {
		pos = p.ScrollOffset * (p.TrackHeight - thumb) / maxOff
	}
	if pos < 0 {
		pos = 0
	}
	if pos > p.TrackHeight-thumb {
		pos = p.TrackHeight - thumb
	}

	trackCell := lipgloss.NewStyle().Foreground(styles.ScrollbarTrackColor).Render("│")
	thumbCell := lipgloss.NewStyle().Foreground(styles.ScrollbarThumbColor).Render("┃")
	for i := range lines {
		if i >= pos && i < pos+thumb {
			lines[i] = thumbCell
		} else {
			lines[i] = trackCell
		}
	}
	return strings.Join(lines, "\n")
}
