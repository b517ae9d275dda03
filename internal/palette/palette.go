package palette

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/wilbur182/grudge/internal/keymap"
	"github.com/wilbur182/grudge/internal/mouse"
	"github.com/wilbur182/grudge/internal/plugin"
)

// CommandSelectedMsg reports the entry the user picked. The shell owns
// dispatch: global commands run directly, plugin commands get forwarded
// to their plugin.
type CommandSelectedMsg struct {
	CommandID string
	Context   string
}

// Model is the command palette overlay: a query input over a filtered,
// scrollable entry list.
type Model struct {
	textInput    textinput.Model
	mouseHandler *mouse.Handler

	allEntries []PaletteEntry
	filtered   []PaletteEntry
	cursor     int
	offset     int

	width      int
	height     int
	maxVisible int

	// false shows the active context plus global; true collapses every
	// context into one deduplicated list.
	showAllContexts bool

	activeContext string
}

func New() Model {
	ti := textinput.New()
	ti.Placeholder = "Search commands..."
	ti.Focus()
	ti.CharLimit = 50
	ti.Width = 40

	return Model{
		textInput:    ti,
		mouseHandler: mouse.NewHandler(),
		maxVisible:   15,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize adapts the visible row count and input width to the terminal.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.maxVisible = max(5, (height-10)/2)
	m.textInput.Width = min(50, width-10)
}

// Open rebuilds the entry set for the current context and clears query,
// cursor and filter mode from the previous session.
func (m *Model) Open(km *keymap.Registry, plugins []plugin.Plugin, activeContext string) {
	m.activeContext = activeContext
	m.allEntries = BuildEntries(km, plugins, activeContext)
	m.showAllContexts = false
	m.textInput.SetValue("")
	m.textInput.Focus()
	m.resetView()
}

// resetView reapplies the filter and jumps back to the top of the list.
func (m *Model) resetView() {
	m.cursor = 0
	m.offset = 0
	m.refilter()
}

func (m *Model) refilter() {
	base := FilterEntriesForContext(m.allEntries, m.activeContext)
	if m.showAllContexts {
		base = GroupEntriesByCommand(m.allEntries)
	}
	m.filtered = FilterEntries(base, m.textInput.Value())
}

// selectedEntry returns the entry under the cursor, nil when the
// filtered list is empty.
func (m Model) selectedEntry() *PaletteEntry {
	if m.cursor >= 0 && m.cursor < len(m.filtered) {
		return &m.filtered[m.cursor]
	}
	return nil
}

// selectedCmd emits the selection message for the entry under the
// cursor.
func (m Model) selectedCmd() tea.Cmd {
	entry := m.selectedEntry()
	if entry == nil {
		return nil
	}
	selected := CommandSelectedMsg{CommandID: entry.CommandID, Context: entry.Context}
	return func() tea.Msg { return selected }
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// handleKey routes navigation keys and feeds everything else to the
// query input. Esc never reaches the palette; the shell closes it
// first.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m, m.selectedCmd()

	case tea.KeyUp, tea.KeyCtrlP:
		m.moveCursor(-1)

	case tea.KeyDown, tea.KeyCtrlN:
		m.moveCursor(1)

	case tea.KeyCtrlU:
		m.moveCursor(-m.maxVisible)

	case tea.KeyCtrlD:
		m.moveCursor(m.maxVisible)

	case tea.KeyTab:
		m.showAllContexts = !m.showAllContexts
		m.resetView()

	default:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		m.resetView()
		return m, cmd
	}

	return m, nil
}

// moveCursor shifts the cursor by delta, clamped to the filtered list.
func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if last := len(m.filtered) - 1; m.cursor > last {
		m.cursor = max(last, 0)
	}
	m.scrollToCursor()
}

// scrollToCursor shifts the scroll window so the cursor row is visible.
func (m *Model) scrollToCursor() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.maxVisible {
		m.offset = m.cursor - m.maxVisible + 1
	}
}
