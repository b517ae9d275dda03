package todos

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/wilbur182/grudge/internal/modal"
	appmsg "github.com/wilbur182/grudge/internal/msg"
	"github.com/wilbur182/grudge/internal/ui"
)

// ensureTaskModal builds the add/edit modal if needed.
// Must be called in both View() and Update() handlers.
func (p *Plugin) ensureTaskModal() {
	if p.mode != modeAdd && p.mode != modeEdit {
		return
	}

	modalW := ui.ModalWidthMedium
	if modalW > p.width-4 {
		modalW = p.width - 4
	}
	if modalW < modal.MinModalWidth {
		modalW = modal.MinModalWidth
	}

	// Only rebuild if the modal doesn't exist or the width changed.
	if p.taskModal != nil && p.taskModalWidth == modalW {
		return
	}
	p.taskModalWidth = modalW

	title := "Add Todo"
	if p.mode == modeEdit {
		title = "Edit Todo"
	}

	p.taskModal = modal.New(title,
		modal.WithWidth(modalW),
		modal.WithPrimaryAction("save"),
	).
		AddSection(modal.InputWithLabel("todo-text", "Text", &p.taskInput)).
		AddSection(modal.Spacer()).
		AddSection(modal.Buttons(
			modal.Btn(" Save ", "save", modal.BtnPrimary()),
			modal.Btn(" Cancel ", "cancel"),
		))
}

// openTaskModal opens the add modal (empty id) or the edit modal.
func (p *Plugin) openTaskModal(id string) tea.Cmd {
	p.taskInput = textinput.New()
	p.taskInput.Placeholder = "What needs doing?"
	p.taskInput.CharLimit = 500
	p.taskInput.Width = 40

	p.editID = ""
	p.mode = modeAdd
	if id != "" {
		t, err := p.ctx.Store.Get(id)
		if err != nil {
			p.mode = modeList
			return appmsg.ShowErrorToast("Todo not found", 2*time.Second)
		}
		p.editID = id
		p.mode = modeEdit
		p.taskInput.SetValue(t.Text)
		p.taskInput.CursorEnd()
	}
	p.taskInput.Focus()

	p.modalHandler.Clear()
	p.taskModal = nil
	p.taskModalWidth = 0
	return nil
}

// closeTaskModal closes the modal and returns input to the list.
func (p *Plugin) closeTaskModal() {
	p.mode = modeList
	p.editID = ""
	p.taskModal = nil
	p.taskModalWidth = 0
}

// handleTaskModalKey handles keyboard input for the add/edit modal.
func (p *Plugin) handleTaskModalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	p.ensureTaskModal()
	if p.taskModal == nil {
		return nil, false
	}

	action, cmd := p.taskModal.HandleKey(msg)
	switch action {
	case "save":
		return p.saveTask(), true
	case "cancel":
		p.closeTaskModal()
		return nil, true
	}
	return cmd, true
}

// handleTaskModalMouse handles mouse input for the add/edit modal.
func (p *Plugin) handleTaskModalMouse(msg tea.MouseMsg) (tea.Cmd, bool) {
	p.ensureTaskModal()
	if p.taskModal == nil {
		return nil, false
	}

	action := p.taskModal.HandleMouse(msg, p.modalHandler)
	switch action {
	case "save":
		return p.saveTask(), true
	case "cancel":
		p.closeTaskModal()
		return nil, true
	}
	return nil, true
}

// saveTask commits the modal's text. Validation trouble keeps the modal
// open so the typed text is not lost.
func (p *Plugin) saveTask() tea.Cmd {
	text := strings.TrimSpace(p.taskInput.Value())
	if text == "" {
		return appmsg.ShowErrorToast("Todo text is empty", 2*time.Second)
	}

	adding := p.editID == ""
	if adding {
		if _, err := p.ctx.Store.Add(text); err != nil {
			p.ctx.Logger.Error("todos: add failed", "error", err)
			return appmsg.ShowErrorToast("Add failed: "+err.Error(), 3*time.Second)
		}
	} else {
		if err := p.ctx.Store.UpdateText(p.editID, text); err != nil {
			p.ctx.Logger.Error("todos: update failed", "id", p.editID, "error", err)
			return appmsg.ShowErrorToast("Update failed: "+err.Error(), 3*time.Second)
		}
	}

	p.closeTaskModal()
	p.refreshFromStore()
	if adding && len(p.todos) > 0 {
		p.cursor = len(p.todos) - 1
	}
	return nil
}
