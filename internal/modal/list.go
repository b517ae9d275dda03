package modal

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/wilbur182/grudge/internal/styles"
)

// --- List Section ---

// ListItem is one selectable row in a List section.
type ListItem struct {
	ID    string
	Label string
}

// ListOption is a functional option for List sections.
type ListOption func(*listSection)

// WithMaxVisible caps how many rows are shown at once. The window scrolls
// to keep the selection visible. Zero means show all rows.
func WithMaxVisible(n int) ListOption {
	return func(s *listSection) {
		s.maxVisible = n
	}
}

// listSection renders a selectable list. The list is a single tab stop;
// up/down (or j/k) move the selection while it is focused.
type listSection struct {
	id          string
	items       []ListItem
	selectedIdx *int
	maxVisible  int

	// windowStart is the index of the first visible row, recorded at
	// render time so clicks can be mapped back to items.
	windowStart int
}

// List creates a list section. The selection index is stored through
// selectedIdx so it survives modal rebuilds.
func List(id string, items []ListItem, selectedIdx *int, opts ...ListOption) Section {
	s := &listSection{
		id:          id,
		items:       items,
		selectedIdx: selectedIdx,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *listSection) selected() int {
	if s.selectedIdx == nil || len(s.items) == 0 {
		return 0
	}
	sel := *s.selectedIdx
	if sel < 0 {
		sel = 0
	}
	if sel >= len(s.items) {
		sel = len(s.items) - 1
	}
	return sel
}

func (s *listSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	if len(s.items) == 0 {
		return RenderedSection{Content: styles.Muted.Render("  No entries")}
	}

	sel := s.selected()
	visible := s.maxVisible
	if visible <= 0 || visible > len(s.items) {
		visible = len(s.items)
	}

	start := 0
	if sel >= visible {
		start = sel - visible + 1
	}
	end := start + visible
	if end > len(s.items) {
		end = len(s.items)
	}
	s.windowStart = start

	isFocused := s.id == focusID

	var sb strings.Builder
	for i := start; i < end; i++ {
		if i > start {
			sb.WriteString("\n")
		}
		sb.WriteString(s.renderRow(s.items[i], i == sel, isFocused, contentWidth))
	}

	rows := end - start
	content := sb.String()
	if len(s.items) > visible {
		content += "\n" + styles.Muted.Render(fmt.Sprintf("  %d/%d", sel+1, len(s.items)))
	}

	return RenderedSection{
		Content: content,
		Focusables: []FocusableInfo{{
			ID:      s.id,
			OffsetX: 0,
			OffsetY: 0,
			Width:   contentWidth,
			Height:  rows,
		}},
	}
}

func (s *listSection) renderRow(item ListItem, selected, focused bool, contentWidth int) string {
	prefix := "  "
	if selected {
		prefix = "▸ "
	}

	line := prefix + item.Label
	if w := ansi.StringWidth(line); w < contentWidth {
		line += strings.Repeat(" ", contentWidth-w)
	}

	if selected {
		if focused {
			return styles.ListItemFocused.Render(line)
		}
		return styles.ListItemSelected.Render(line)
	}
	return styles.ListItemNormal.Render(line)
}

func (s *listSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if click, ok := msg.(ClickMsg); ok {
		if click.ID == s.id && s.selectedIdx != nil {
			row := s.windowStart + click.Y
			if row >= 0 && row < len(s.items) {
				*s.selectedIdx = row
			}
		}
		return "", nil
	}

	if s.id != focusID || s.selectedIdx == nil {
		return "", nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return "", nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if *s.selectedIdx > 0 {
			*s.selectedIdx--
		}
	case "down", "j":
		if *s.selectedIdx < len(s.items)-1 {
			*s.selectedIdx++
		}
	}

	return "", nil
}
