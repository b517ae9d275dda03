package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/wilbur182/grudge/internal/keymap"
)

// Global shell command IDs. Keymap handlers and palette selections both
// resolve to runGlobalCommand with one of these.
const (
	cmdQuit          = "quit"
	cmdHelp          = "help"
	cmdPalette       = "palette"
	cmdThemeSwitcher = "theme-switcher"
	cmdDiagnostics   = "diagnostics"
	cmdToggleFooter  = "toggle-footer"
	cmdToggleClock   = "toggle-clock"
)

// registerGlobalCommands wires the shell's keys into the keymap. The
// handlers emit messages instead of mutating state so the value-typed
// Model updates itself on the normal path.
func (m *Model) registerGlobalCommands() {
	cmds := []struct {
		id   string
		name string
		key  string
	}{
		{cmdQuit, "Quit", "q"},
		{cmdHelp, "Help", "?"},
		{cmdPalette, "Command palette", "ctrl+k"},
		{cmdThemeSwitcher, "Switch theme", "#"},
		{cmdDiagnostics, "Diagnostics", "ctrl+d"},
		{cmdToggleFooter, "Toggle footer", "ctrl+f"},
		{cmdToggleClock, "Toggle clock", "ctrl+t"},
	}

	for _, c := range cmds {
		id := c.id
		m.keymap.RegisterCommand(keymap.Command{
			ID:      id,
			Name:    c.name,
			Context: "global",
			Handler: func() tea.Cmd { return globalCommand(id) },
		})
		m.keymap.RegisterBinding(keymap.Binding{
			Key:     c.key,
			Command: id,
			Context: "global",
		})
	}
}

// runGlobalCommand executes one shell command. Unknown IDs are ignored;
// a stale palette entry should never crash the app.
func (m Model) runGlobalCommand(id string) (Model, tea.Cmd) {
	switch id {
	case cmdQuit:
		m.closeOverlays()
		m.showQuitConfirm = true
		m.quitModal = nil
		m.overlayMouse.Clear()
	case cmdHelp:
		m.closeOverlays()
		m.openHelp()
	case cmdPalette:
		m.closeOverlays()
		m.openPalette()
		return m, m.palette.Init()
	case cmdThemeSwitcher:
		m.closeOverlays()
		m.openThemeSwitcher()
	case cmdDiagnostics:
		m.closeOverlays()
		m.showDiagnostics = true
		m.diagModal = nil
		m.overlayMouse.Clear()
	case cmdToggleFooter:
		m.showFooter = !m.showFooter
		m.saveUIState()
	case cmdToggleClock:
		m.showClock = !m.showClock
		m.saveUIState()
	}
	return m, nil
}

// openPalette rebuilds palette entries for the current context.
func (m *Model) openPalette() {
	m.palette.Open(m.keymap, m.registry.Plugins(), m.activeContext)
	m.showPalette = true
}
