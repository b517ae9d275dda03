package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is the shell's once-a-second heartbeat. It drives the header
// clock, toast expiry, and the debug-mode fd check.
type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// globalCommandMsg funnels shell commands into Update. Keymap handlers
// and palette selections both emit it, so every entry point runs the
// same code path.
type globalCommandMsg struct {
	ID string
}

func globalCommand(id string) tea.Cmd {
	return func() tea.Msg {
		return globalCommandMsg{ID: id}
	}
}

// updateFinishedMsg reports the outcome of a self-update attempt.
type updateFinishedMsg struct {
	err error
}
