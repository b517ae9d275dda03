package palette

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/wilbur182/grudge/internal/mouse"
	"github.com/wilbur182/grudge/internal/styles"
)

// View renders the palette modal and registers mouse hit regions.
// Layout is fixed-height so click coordinates in handleMouse line up:
// border(1) + input(1) + mode(1), then maxVisible entry rows, then the
// footer block.
func (m *Model) View() string {
	modalWidth, _ := m.frameSize()
	innerWidth := modalWidth - 2

	m.mouseHandler.Clear()

	var lines []string

	// Input row
	lines = append(lines, padLine("> "+m.textInput.View(), innerWidth))

	// Context mode row
	mode := "Context: " + m.activeContext
	if m.showAllContexts {
		mode = "All contexts"
	}
	lines = append(lines, padLine(styles.Muted.Render(mode), innerWidth))

	// Entry rows, registered as hit regions at their modal-relative rows.
	visible := m.filtered
	if m.offset < len(visible) {
		visible = visible[m.offset:]
	} else {
		visible = nil
	}
	if len(visible) > m.maxVisible {
		visible = visible[:m.maxVisible]
	}

	for i := 0; i < m.maxVisible; i++ {
		if i >= len(visible) {
			lines = append(lines, padLine("", innerWidth))
			continue
		}
		idx := m.offset + i
		row := m.renderEntry(visible[i], idx == m.cursor, innerWidth)
		lines = append(lines, row)

		// Row 0 of the modal is the border, entries start at row 3.
		m.mouseHandler.HitMap.AddRect(regionEntry, 0, 3+i, modalWidth, 1, idx)
	}

	// Footer block
	lines = append(lines, padLine("", innerWidth))
	count := fmt.Sprintf("%d of %d commands", len(m.filtered), len(m.allEntries))
	lines = append(lines, padLine(styles.Muted.Render(count), innerWidth))

	scrollHint := ""
	if m.offset+m.maxVisible < len(m.filtered) {
		scrollHint = styles.Subtle.Render("↓ more")
	}
	lines = append(lines, padLine(scrollHint, innerWidth))
	lines = append(lines, padLine("", innerWidth))

	hints := styles.KeyHint.Render("↑/↓") + styles.Muted.Render(" move  ") +
		styles.KeyHint.Render("enter") + styles.Muted.Render(" run  ") +
		styles.KeyHint.Render("tab") + styles.Muted.Render(" contexts  ") +
		styles.KeyHint.Render("esc") + styles.Muted.Render(" close")
	lines = append(lines, padLine(hints, innerWidth))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary).
		Width(innerWidth)

	return box.Render(strings.Join(lines, "\n"))
}

// renderEntry renders one palette row with cursor and match highlighting.
func (m *Model) renderEntry(entry PaletteEntry, selected bool, width int) string {
	cursor := "  "
	if selected {
		cursor = styles.ListCursor.Render("▸ ")
	}

	key := ""
	if entry.Key != "" {
		key = styles.PaletteKey.Render(entry.Key) + " "
	}

	name := highlightName(entry, selected)

	suffix := ""
	if entry.ContextCount > 1 {
		suffix = styles.Subtle.Render(fmt.Sprintf(" (%d contexts)", entry.ContextCount))
	} else if entry.Layer == LayerGlobal {
		suffix = styles.Subtle.Render(" (global)")
	}

	row := cursor + key + name + suffix
	if w := ansi.StringWidth(row); w > width {
		row = ansi.Truncate(row, width-1, "…")
	}
	return padLine(row, width)
}

// highlightName styles the entry name, emphasizing fuzzy match ranges.
func highlightName(entry PaletteEntry, selected bool) string {
	base := styles.PaletteEntry
	if selected {
		base = styles.PaletteEntrySelected
	}

	if len(entry.MatchRanges) == 0 {
		return base.Render(entry.Name)
	}

	runes := []rune(entry.Name)
	var sb strings.Builder
	pos := 0
	for _, r := range entry.MatchRanges {
		if r.Start > pos {
			sb.WriteString(base.Render(string(runes[pos:min(r.Start, len(runes))])))
		}
		if r.Start < len(runes) {
			end := min(r.End, len(runes))
			sb.WriteString(styles.FuzzyMatchChar.Render(string(runes[r.Start:end])))
			pos = end
		}
	}
	if pos < len(runes) {
		sb.WriteString(base.Render(string(runes[pos:])))
	}
	return sb.String()
}

// padLine pads content with spaces to exactly width columns.
func padLine(content string, width int) string {
	if pad := width - ansi.StringWidth(content); pad > 0 {
		return content + strings.Repeat(" ", pad)
	}
	return content
}
