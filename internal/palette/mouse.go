package palette

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/wilbur182/grudge/internal/mouse"
)

// regionEntry marks one command row. Data carries the row's absolute
// index into the filtered list.
const regionEntry = "palette-entry"

// frameSize returns the outer dimensions of the palette frame. The
// renderer and the hit testing below both derive layout from it so
// click coordinates line up with drawn rows.
func (m *Model) frameSize() (w, h int) {
	w = min(80, m.width-4)
	if w < 40 {
		w = 40
	}
	// border + input + mode line, entry rows, footer block + border.
	h = 3 + m.maxVisible + 6
	return w, h
}

// handleMouse translates the event into frame-relative coordinates and
// resolves it against the regions registered during the last render.
func (m *Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	w, h := m.frameSize()
	msg.X -= (m.width - w) / 2
	msg.Y -= (m.height - h) / 2
	if msg.X < 0 || msg.Y < 0 || msg.X >= w || msg.Y >= h {
		return *m, nil
	}

	action := m.mouseHandler.HandleMouse(msg)
	idx, onEntry := entryIndex(action.Region)

	switch action.Type {
	case mouse.ActionClick:
		if onEntry {
			m.cursor = idx
			m.scrollToCursor()
		}

	case mouse.ActionDoubleClick:
		if onEntry {
			m.cursor = idx
			return *m, m.selectedCmd()
		}

	case mouse.ActionScrollUp:
		m.moveCursor(-3)

	case mouse.ActionScrollDown:
		m.moveCursor(3)
	}

	return *m, nil
}

// entryIndex extracts the filtered-list index from an entry region.
func entryIndex(r *mouse.Region) (int, bool) {
	if r == nil || r.ID != regionEntry {
		return 0, false
	}
	idx, ok := r.Data.(int)
	return idx, ok
}
