package todos

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/wilbur182/grudge/internal/interaction"
	"github.com/wilbur182/grudge/internal/journal"
	"github.com/wilbur182/grudge/internal/modal"
	"github.com/wilbur182/grudge/internal/styles"
	"github.com/wilbur182/grudge/internal/ui"
)

// confirmVariants escalates the modal border as the stages go on.
var confirmVariants = []modal.Variant{
	modal.VariantDefault,
	modal.VariantWarning,
	modal.VariantDanger,
}

// openConfirm switches input to the staged confirm dialog for a control
// whose click gate just opened.
func (p *Plugin) openConfirm(id string) {
	p.confirmID = id
	p.confirmStage = 0
	p.confirmModal = nil
	p.confirmModalWidth = 0
	p.modalHandler.Clear()
	p.mode = modeConfirm
}

// closeConfirm returns input to the list.
func (p *Plugin) closeConfirm() {
	p.mode = modeList
	p.confirmID = ""
	p.confirmStage = 0
	p.confirmModal = nil
	p.confirmModalWidth = 0
}

// ensureConfirmModal builds the staged dialog, rebuilding whenever the
// stage or width changes. The yes button wears the same grudge the row
// control does: the current spin frame and the shrunken padding.
func (p *Plugin) ensureConfirmModal() {
	if p.mode != modeConfirm {
		return
	}
	ctrl := p.controls[p.confirmID]
	if ctrl == nil || !ctrl.DialogOpen() {
		return
	}

	modalW := ui.ModalWidthMedium
	if modalW > p.width-4 {
		modalW = p.width - 4
	}
	if modalW < modal.MinModalWidth {
		modalW = modal.MinModalWidth
	}

	stage := ctrl.Stage()
	if p.confirmModal != nil && p.confirmModalWidth == modalW && p.confirmStage == stage {
		return
	}
	p.confirmModalWidth = modalW
	p.confirmStage = stage

	message, _ := ctrl.Message()
	variant := confirmVariants[0]
	if stage >= 1 && stage <= len(confirmVariants) {
		variant = confirmVariants[stage-1]
	}

	text := ""
	if t, err := p.ctx.Store.Get(p.confirmID); err == nil {
		text = t.Text
	}

	pad := strings.Repeat(" ", ctrl.LabelPadding())
	yesLabel := pad + ctrl.Glyph() + " Yes, do it" + pad

	p.confirmModal = modal.New("Complete Todo?",
		modal.WithWidth(modalW),
		modal.WithVariant(variant),
		modal.WithPrimaryAction("confirm"),
	).
		AddSection(modal.Text(message)).
		AddSection(modal.Spacer()).
		AddSection(modal.Text(wrapQuoted(text, modalW-modal.ModalPadding))).
		AddSection(modal.Spacer()).
		AddSection(modal.Buttons(
			modal.Btn(yesLabel, "confirm"),
			modal.Btn(" No ", "cancel"),
		)).
		AddSection(modal.Spacer()).
		AddSection(modal.Text(styles.Muted.Render(
			fmt.Sprintf("step %d of %d · y/n", stage, interaction.Stages()))))
}

// handleConfirmModalKey handles keyboard input for the confirm dialog.
// y and n work from any focus position.
func (p *Plugin) handleConfirmModalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	p.ensureConfirmModal()
	if p.confirmModal == nil {
		p.closeConfirm()
		return nil, false
	}

	switch msg.String() {
	case "y":
		return p.advanceConfirm(), true
	case "n":
		return p.cancelConfirm(), true
	}

	action, cmd := p.confirmModal.HandleKey(msg)
	switch action {
	case "confirm":
		return p.advanceConfirm(), true
	case "cancel":
		return p.cancelConfirm(), true
	}
	return cmd, true
}

// handleConfirmModalMouse handles mouse input for the confirm dialog.
func (p *Plugin) handleConfirmModalMouse(msg tea.MouseMsg) (tea.Cmd, bool) {
	p.ensureConfirmModal()
	if p.confirmModal == nil {
		p.closeConfirm()
		return nil, false
	}

	action := p.confirmModal.HandleMouse(msg, p.modalHandler)
	switch action {
	case "confirm":
		return p.advanceConfirm(), true
	case "cancel":
		return p.cancelConfirm(), true
	}
	return nil, true
}

// advanceConfirm moves the dialog forward one stage; stages cannot be
// skipped. The final stage completes the todo through the control's
// callback, which stages the toast and list refresh on p.pending.
func (p *Plugin) advanceConfirm() tea.Cmd {
	ctrl := p.controls[p.confirmID]
	if ctrl == nil {
		p.closeConfirm()
		return nil
	}

	p.recordEvent(p.confirmID, journal.EventConfirm, ctrl.Stage())
	ctrl.Confirm()
	if ctrl.Complete() {
		p.closeConfirm()
		return p.flushPending(nil)
	}

	// Rebuild at the new stage.
	p.confirmModal = nil
	return p.flushPending(nil)
}

// cancelConfirm abandons the sequence. The click gate stays met, so the
// very next click reopens stage one.
func (p *Plugin) cancelConfirm() tea.Cmd {
	if ctrl := p.controls[p.confirmID]; ctrl != nil {
		stage := ctrl.Stage()
		ctrl.CancelDialog()
		p.recordEvent(p.confirmID, journal.EventCancel, stage)
	}
	p.closeConfirm()
	return nil
}
