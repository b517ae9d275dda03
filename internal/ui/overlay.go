package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// OverlayModal composites a modal over background content, centered in the
// given dimensions. Background cells outside the modal remain visible, so
// styled content shows through around the modal edges.
func OverlayModal(background, modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")
	modalHeight := len(modalLines)
	modalWidth := 0
	for _, line := range modalLines {
		if w := ansi.StringWidth(line); w > modalWidth {
			modalWidth = w
		}
	}

	x := (width - modalWidth) / 2
	y := (height - modalHeight) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	bgLines := strings.Split(background, "\n")
	// Pad background to full height so the modal can't fall off the bottom.
	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}

	out := make([]string, len(bgLines))
	copy(out, bgLines)

	for i, modalLine := range modalLines {
		row := y + i
		if row >= len(out) {
			break
		}
		out[row] = SpliceLine(out[row], modalLine, x, modalWidth)
	}

	return strings.Join(out, "\n")
}

// SpliceLine overlays content into line at visual column x, preserving the
// background to the left and right.
func SpliceLine(line, content string, x, contentWidth int) string {
	left := ansi.Truncate(line, x, "")
	if pad := x - ansi.StringWidth(left); pad > 0 {
		left += strings.Repeat(" ", pad)
	}

	right := ansi.TruncateLeft(line, x+contentWidth, "")

	// Pad narrow content so the right fragment lines up.
	if pad := contentWidth - ansi.StringWidth(content); pad > 0 {
		content += strings.Repeat(" ", pad)
	}

	return left + content + right
}
