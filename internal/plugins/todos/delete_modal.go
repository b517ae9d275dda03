package todos

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/mattn/go-runewidth"
	"github.com/wilbur182/grudge/internal/modal"
	appmsg "github.com/wilbur182/grudge/internal/msg"
	"github.com/wilbur182/grudge/internal/ui"
)

// ensureDeleteModal builds the delete confirm modal if needed. Deleting
// is a single ordinary danger confirm in both control variants; only
// completing earns the full ceremony.
func (p *Plugin) ensureDeleteModal() {
	if p.mode != modeDelete || p.deleteID == "" {
		return
	}

	modalW := ui.ModalWidthSmall
	if modalW > p.width-4 {
		modalW = p.width - 4
	}
	if modalW < modal.MinModalWidth {
		modalW = modal.MinModalWidth
	}

	if p.deleteModal != nil && p.deleteModalWidth == modalW {
		return
	}
	p.deleteModalWidth = modalW

	text := ""
	if t, err := p.ctx.Store.Get(p.deleteID); err == nil {
		text = t.Text
	}

	p.deleteModal = modal.New("Delete Todo?",
		modal.WithWidth(modalW),
		modal.WithVariant(modal.VariantDanger),
		modal.WithPrimaryAction("delete"),
	).
		AddSection(modal.Text("This permanently removes the todo:")).
		AddSection(modal.Spacer()).
		AddSection(modal.Text(wrapQuoted(text, modalW-modal.ModalPadding))).
		AddSection(modal.Spacer()).
		AddSection(modal.Buttons(
			modal.Btn(" Delete ", "delete", modal.BtnDanger()),
			modal.Btn(" Cancel ", "cancel"),
		))
}

// wrapQuoted quotes and word-wraps todo text for display inside a modal.
// Very long text is truncated to a few lines first.
func wrapQuoted(text string, width int) string {
	if width < 10 {
		width = 10
	}
	text = runewidth.Truncate(text, 3*width, "…")
	return cellbuf.Wrap("\""+text+"\"", width, "")
}

// openDeleteModal opens the delete confirm for the selected todo.
func (p *Plugin) openDeleteModal() tea.Cmd {
	t, ok := p.selectedTodo()
	if !ok {
		return nil
	}
	p.deleteID = t.ID
	p.mode = modeDelete
	p.deleteModal = nil
	p.deleteModalWidth = 0
	p.modalHandler.Clear()
	return nil
}

// closeDeleteModal closes the modal and returns input to the list.
func (p *Plugin) closeDeleteModal() {
	p.mode = modeList
	p.deleteID = ""
	p.deleteModal = nil
	p.deleteModalWidth = 0
}

// handleDeleteModalKey handles keyboard input for the delete modal.
func (p *Plugin) handleDeleteModalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	p.ensureDeleteModal()
	if p.deleteModal == nil {
		p.closeDeleteModal()
		return nil, false
	}

	action, cmd := p.deleteModal.HandleKey(msg)
	switch action {
	case "delete":
		return p.confirmDelete(), true
	case "cancel":
		p.closeDeleteModal()
		return nil, true
	}
	return cmd, true
}

// handleDeleteModalMouse handles mouse input for the delete modal.
func (p *Plugin) handleDeleteModalMouse(msg tea.MouseMsg) (tea.Cmd, bool) {
	p.ensureDeleteModal()
	if p.deleteModal == nil {
		p.closeDeleteModal()
		return nil, false
	}

	action := p.deleteModal.HandleMouse(msg, p.modalHandler)
	switch action {
	case "delete":
		return p.confirmDelete(), true
	case "cancel":
		p.closeDeleteModal()
		return nil, true
	}
	return nil, true
}

// confirmDelete removes the todo and its journal history.
func (p *Plugin) confirmDelete() tea.Cmd {
	id := p.deleteID
	p.closeDeleteModal()
	if id == "" {
		return nil
	}

	if err := p.ctx.Store.Delete(id); err != nil {
		p.ctx.Logger.Error("todos: delete failed", "id", id, "error", err)
		return appmsg.ShowErrorToast("Delete failed: "+err.Error(), 3*time.Second)
	}

	p.refreshFromStore()
	p.pruneJournal()
	return appmsg.ShowToast("Todo deleted", 2*time.Second)
}
