package app

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/wilbur182/grudge/internal/fdmonitor"
	appmsg "github.com/wilbur182/grudge/internal/msg"
	"github.com/wilbur182/grudge/internal/palette"
	"github.com/wilbur182/grudge/internal/plugin"
	"github.com/wilbur182/grudge/internal/version"
)

// Update routes messages. Keyboard and mouse go to whichever surface
// owns input; everything else fans out to the plugins.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.palette.SetSize(msg.Width, msg.Height)
		// Shell modals size themselves from the screen; force a rebuild.
		m.quitModal = nil
		m.diagModal = nil
		m.helpLines = nil
		if m.themeSwitcher != nil {
			m.themeSwitcher.modal = nil
		}
		return m.forwardToAll(msg)

	case TickMsg:
		m.clock = time.Time(msg)
		if m.statusMsg != "" && !m.statusExpiry.IsZero() && m.clock.After(m.statusExpiry) {
			m.ClearToast()
		}
		if m.debug {
			fdmonitor.Check(slog.Default())
		}
		return m, tickCmd()

	case IntroTickMsg:
		if !m.intro.Active {
			return m, nil
		}
		m.intro.Update(introFrame)
		if m.intro.Finished() {
			m.finishIntro()
			return m, nil
		}
		return m, IntroTick()

	case appmsg.ToastMsg:
		m.ShowToast(msg.Message, msg.Duration, msg.IsError)
		return m, nil

	case version.UpdateAvailableMsg:
		update := msg
		m.updateAvailable = &update
		m.diagModal = nil
		m.ShowToast("Update available: "+update.LatestVersion+" (ctrl+d)", 5*time.Second, false)
		return m, nil

	case updateFinishedMsg:
		m.updateRunning = false
		m.diagModal = nil
		if msg.err != nil {
			m.updateErr = msg.err.Error()
			slog.Error("self-update failed", "error", msg.err)
			m.ShowToast("Update failed", 4*time.Second, true)
			return m, nil
		}
		m.updateErr = ""
		m.needsRestart = true
		m.ShowToast("Updated. Restart grudge to finish.", 6*time.Second, false)
		return m, nil

	case globalCommandMsg:
		return m.runGlobalCommand(msg.ID)

	case palette.CommandSelectedMsg:
		m.showPalette = false
		if msg.Context == "global" {
			return m.runGlobalCommand(msg.CommandID)
		}
		m = m.focusPluginByID(msg.Context)
		return m.forwardToActive(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m.forwardToAll(msg)
}

// handleKey dispatches a key press through the input-owner chain: hard
// quit, intro skip, shell overlays, global keymap, active plugin.
func (m Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// Any key fast-forwards the splash.
	if m.intro.Active {
		m.intro.Skip()
		m.finishIntro()
		return m, nil
	}

	switch {
	case m.showQuitConfirm:
		return m.handleQuitKey(key)
	case m.showPalette:
		if key.Type == tea.KeyEsc {
			m.showPalette = false
			return m, nil
		}
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(key)
		return m, cmd
	case m.showHelp:
		return m.handleHelpKey(key)
	case m.themeSwitcher != nil:
		return m.handleThemeSwitcherKey(key)
	case m.showDiagnostics:
		return m.handleDiagnosticsKey(key)
	}

	// Global shortcuts stay out of the way while a plugin is capturing
	// text or showing its own modal.
	p := m.active()
	suppressGlobals := false
	if p != nil {
		if tc, ok := p.(plugin.TextInputConsumer); ok && tc.ConsumesTextInput() {
			suppressGlobals = true
		}
		if m.activeContext != p.ID() {
			suppressGlobals = true
		}
	}
	if !suppressGlobals {
		if cmd := m.keymap.Handle(key, m.activeContext); cmd != nil {
			return m, cmd
		}
		if m.keymap.HasPending() {
			return m, nil
		}
	}

	return m.forwardToActive(key)
}

// handleMouse dispatches a mouse event to the open overlay, the header,
// or the active plugin (with coordinates shifted under the header).
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.showQuitConfirm:
		return m.handleQuitMouse(msg)
	case m.showPalette:
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	case m.showHelp:
		return m.handleHelpMouse(msg)
	case m.themeSwitcher != nil:
		return m.handleThemeSwitcherMouse(msg)
	case m.showDiagnostics:
		return m.handleDiagnosticsMouse(msg)
	}

	if msg.Y < headerHeight {
		return m.handleHeaderMouse(msg)
	}

	translated := msg
	translated.Y -= headerHeight
	return m.forwardToActive(translated)
}

// handleHeaderMouse opens the overlay behind whichever chip was
// clicked. The header is inert while the intro animation runs.
func (m Model) handleHeaderMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.intro.Active {
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	if b, ok := m.updateChipBounds(); ok && msg.X >= b.start && msg.X < b.end {
		return m.runGlobalCommand(cmdDiagnostics)
	}
	if b, ok := m.themeChipBounds(); ok && msg.X >= b.start && msg.X < b.end {
		return m.runGlobalCommand(cmdThemeSwitcher)
	}
	return m, nil
}

// forwardToActive sends msg to the focused plugin and refreshes the
// keymap context from whatever mode the plugin ended up in.
func (m Model) forwardToActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	p := m.active()
	if p == nil {
		return m, nil
	}
	updated, cmd := p.Update(msg)
	m.registry.Replace(m.activePlugin, updated)
	m.activeContext = updated.FocusContext()
	return m, cmd
}

// forwardToAll fans msg out to every plugin. Used for broadcast
// messages like window sizes and store change notifications.
func (m Model) forwardToAll(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	for i, p := range m.registry.Plugins() {
		updated, cmd := p.Update(msg)
		m.registry.Replace(i, updated)
		if i == m.activePlugin {
			m.activeContext = updated.FocusContext()
		}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

// focusPluginByID moves focus to the named plugin, if registered.
func (m Model) focusPluginByID(id string) Model {
	for i, p := range m.registry.Plugins() {
		if p.ID() != id {
			continue
		}
		if i != m.activePlugin {
			if cur := m.active(); cur != nil {
				cur.SetFocused(false)
			}
		}
		m.activePlugin = i
		p.SetFocused(true)
		m.activeContext = p.FocusContext()
		break
	}
	return m
}
