package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/wilbur182/grudge/internal/markdown"
	"github.com/wilbur182/grudge/internal/styles"
)

const helpContent = `Grudge keeps score of what you keep putting off. Todos live in a local
file, and every escape and click on a done control is remembered.

## Global

| Key    | Action          |
|--------|-----------------|
| q      | Quit            |
| ?      | Help            |
| ctrl+k | Command palette |
| #      | Switch theme    |
| ctrl+d | Diagnostics     |
| ctrl+f | Toggle footer   |
| ctrl+t | Toggle clock    |

## Todos

| Key   | Action                 |
|-------|------------------------|
| j / k | Move cursor            |
| g / G | First / last todo      |
| enter | Press the done control |
| a     | Add todo               |
| e     | Edit todo              |
| d     | Delete todo            |
| x     | Export list            |
| y     | Copy todo text         |

## The done control

The control has opinions about being clicked. Chase it with the pointer,
click it as many times as it asks, and answer its parting question. It
tires eventually. Reopening a finished todo needs no ceremony, and
neither does finishing it again.
`

// openHelp renders the help markdown at the current width. The glamour
// renderer is created once and kept for later reuse.
func (m *Model) openHelp() {
	if m.helpRenderer == nil {
		m.helpRenderer = markdown.NewRenderer()
	}
	m.helpLines = m.helpRenderer.RenderContent(helpContent, m.helpWrapWidth())
	m.helpScroll = 0
	m.showHelp = true
	m.overlayMouse.Clear()
}

func (m Model) helpWrapWidth() int {
	w := min(76, m.width-8)
	if w < 20 {
		w = 20
	}
	return w
}

// helpVisibleRows is the viewport height shared by rendering and scroll
// clamping.
func (m Model) helpVisibleRows() int {
	rows := m.height - 10
	if rows < 5 {
		rows = 5
	}
	return rows
}

func (m Model) renderHelpBox() string {
	lines := m.helpLines
	if lines == nil && m.helpRenderer != nil {
		// Invalidated by a resize; the renderer caches by width.
		lines = m.helpRenderer.RenderContent(helpContent, m.helpWrapWidth())
	}

	rows := m.helpVisibleRows()
	scroll := m.helpScroll
	if scroll > len(lines)-rows {
		scroll = len(lines) - rows
	}
	if scroll < 0 {
		scroll = 0
	}
	end := min(scroll+rows, len(lines))

	var sb strings.Builder
	sb.WriteString(styles.ModalTitle.Render("Help"))
	sb.WriteString("\n\n")
	sb.WriteString(strings.Join(lines[scroll:end], "\n"))
	if len(lines) > rows {
		sb.WriteString("\n\n")
		sb.WriteString(styles.Muted.Render(
			fmt.Sprintf("%d-%d of %d · ↑/↓ scroll · esc close", scroll+1, end, len(lines))))
	}

	return styles.ModalBox.Width(m.helpWrapWidth() + 4).Render(sb.String())
}

func (m Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.helpLines == nil && m.helpRenderer != nil {
		m.helpLines = m.helpRenderer.RenderContent(helpContent, m.helpWrapWidth())
	}
	maxScroll := max(0, len(m.helpLines)-m.helpVisibleRows())

	switch msg.String() {
	case "esc", "q", "?":
		m.showHelp = false
	case "down", "j":
		if m.helpScroll < maxScroll {
			m.helpScroll++
		}
	case "up", "k":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	case "pgdown":
		m.helpScroll = min(m.helpScroll+m.helpVisibleRows(), maxScroll)
	case "pgup":
		m.helpScroll = max(m.helpScroll-m.helpVisibleRows(), 0)
	case "g", "home":
		m.helpScroll = 0
	case "G", "end":
		m.helpScroll = maxScroll
	}
	return m, nil
}

func (m Model) handleHelpMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	maxScroll := max(0, len(m.helpLines)-m.helpVisibleRows())

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	case tea.MouseButtonWheelDown:
		if m.helpScroll < maxScroll {
			m.helpScroll++
		}
	default:
		if msg.Action == tea.MouseActionPress {
			m.showHelp = false
		}
	}
	return m, nil
}
