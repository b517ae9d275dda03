package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/wilbur182/grudge/internal/modal"
	"github.com/wilbur182/grudge/internal/ui"
)

// ensureQuitModal builds the quit confirm sized for the current screen.
func (m *Model) ensureQuitModal() {
	modalW := ui.ModalWidthSmall
	if modalW > m.width-4 {
		modalW = m.width - 4
	}
	if modalW < modal.MinModalWidth {
		modalW = modal.MinModalWidth
	}
	if m.quitModal != nil && m.quitModalWidth == modalW {
		return
	}
	m.quitModalWidth = modalW

	m.quitModal = modal.New("Quit Grudge?",
		modal.WithWidth(modalW),
		modal.WithPrimaryAction("quit"),
	).
		AddSection(modal.Text("Todos are saved as you go. Nothing is lost on exit.")).
		AddSection(modal.Spacer()).
		AddSection(modal.Buttons(
			modal.Btn("  Quit  ", "quit", modal.BtnPrimary()),
			modal.Btn("  Stay  ", "cancel"),
		))
}

func (m *Model) closeQuitModal() {
	m.showQuitConfirm = false
	m.quitModal = nil
	m.quitModalWidth = 0
}

func (m Model) handleQuitKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m, tea.Quit
	case "n", "N":
		m.closeQuitModal()
		return m, nil
	}

	m.ensureQuitModal()
	action, cmd := m.quitModal.HandleKey(msg)
	switch action {
	case "quit":
		return m, tea.Quit
	case "cancel":
		m.closeQuitModal()
		return m, nil
	}
	return m, cmd
}

func (m Model) handleQuitMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	m.ensureQuitModal()
	switch m.quitModal.HandleMouse(msg, m.overlayMouse) {
	case "quit":
		return m, tea.Quit
	case "cancel":
		m.closeQuitModal()
	}
	return m, nil
}
