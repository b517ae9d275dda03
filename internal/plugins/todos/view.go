package todos

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/wilbur182/grudge/internal/store"
	"github.com/wilbur182/grudge/internal/styles"
	"github.com/wilbur182/grudge/internal/ui"
)

// Panel geometry. Content sits inside the rounded border plus one cell of
// horizontal padding; the list rows start under the title and blank line.
const (
	contentX = 2
	listTopY = 3
)

// controlRestInset is how far the resting control sits in from the right
// edge of its row, leaving a little room for rightward escapes.
const controlRestInset = 2

// View renders the plugin into the given area.
func (p *Plugin) View(width, height int) string {
	p.width = width
	p.height = height

	base := p.renderList(width, height)

	switch p.mode {
	case modeAdd, modeEdit:
		p.ensureTaskModal()
		if p.taskModal != nil {
			return ui.OverlayModal(base, p.taskModal.Render(width, height, p.modalHandler), width, height)
		}
	case modeDelete:
		p.ensureDeleteModal()
		if p.deleteModal != nil {
			return ui.OverlayModal(base, p.deleteModal.Render(width, height, p.modalHandler), width, height)
		}
	case modeConfirm:
		p.ensureConfirmModal()
		if p.confirmModal != nil {
			return ui.OverlayModal(base, p.confirmModal.Render(width, height, p.modalHandler), width, height)
		}
	case modeExport:
		p.ensureExportModal()
		if p.exportModal != nil {
			return ui.OverlayModal(base, p.exportModal.Render(width, height, p.modalHandler), width, height)
		}
	}
	return base
}

// renderList renders the bordered list panel.
func (p *Plugin) renderList(width, height int) string {
	p.registerMouseRegions()

	innerW := width - 4
	if innerW < 10 {
		innerW = 10
	}

	var content string
	switch {
	case p.loading:
		content = p.renderLoading(innerW)
	case p.loadErr != nil:
		content = p.renderError(innerW)
	case len(p.todos) == 0:
		content = p.renderEmpty()
	default:
		content = p.renderRows()
	}

	return styles.RenderPanel(content, width, height, p.focused)
}

// rowsHeight is how many list rows fit under the header block.
func (p *Plugin) rowsHeight() int {
	h := p.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// rowWidth is the width of one list row, leaving a column for the
// scrollbar and a gap before it.
func (p *Plugin) rowWidth() int {
	w := p.width - 6
	if w < 10 {
		w = 10
	}
	return w
}

func (p *Plugin) renderHeader() string {
	open, done := countTodos(p.todos)
	return styles.Title.Render("Todos") +
		styles.Muted.Render(fmt.Sprintf(" (%d open, %d done)", open, done))
}

func (p *Plugin) renderRows() string {
	var sb strings.Builder
	sb.WriteString(p.renderHeader())
	sb.WriteString("\n\n")

	rowsH := p.rowsHeight()
	rowW := p.rowWidth()
	p.ensureCursorVisible(rowsH, len(p.todos))

	end := p.scrollOff + rowsH
	if end > len(p.todos) {
		end = len(p.todos)
	}

	lines := make([]string, 0, rowsH)
	for i := p.scrollOff; i < end; i++ {
		lines = append(lines, p.renderTodoRow(p.todos[i], i == p.cursor, rowW))
	}
	for len(lines) < rowsH {
		lines = append(lines, "")
	}

	bar := ui.RenderScrollbar(ui.ScrollbarParams{
		TotalItems:   len(p.todos),
		ScrollOffset: p.scrollOff,
		VisibleItems: rowsH,
		TrackHeight:  rowsH,
	})

	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(lines, "\n"), " ", bar))
	return sb.String()
}

// renderTodoRow renders one row at exactly the given width. Incomplete
// rows get their control spliced in at its current position, overwriting
// whatever sits under it; the button really does slide over the text.
func (p *Plugin) renderTodoRow(t store.Todo, selected bool, width int) string {
	if t.Completed {
		text := runewidth.Truncate(t.Text, width-4, "…")
		if selected {
			return styles.ListItemSelected.Render(padTo("▸ ✓ "+text, width))
		}
		return padTo("  "+styles.StatusCompleted.Render("✓ "+text), width)
	}

	x, bw, hasCtrl := p.controlGeometry(t, width)

	textW := width - 2
	if hasCtrl {
		textW = width - 2 - bw - controlRestInset - 1
	}
	if textW < 4 {
		textW = 4
	}
	text := runewidth.Truncate(t.Text, textW, "…")

	var line string
	if selected {
		line = styles.ListItemSelected.Render(padTo("▸ "+text, width))
	} else {
		line = padTo("  "+styles.Body.Render(text), width)
	}

	if !hasCtrl {
		return line
	}
	btn := controlButtonStyle(selected).Render(p.controlLabel(p.controls[t.ID]))
	return ui.SpliceLine(line, btn, x, bw)
}

// controlGeometry returns the control button's position and width within
// a row of the given width, or ok=false when the row renders no control.
// The resting spot is right-aligned with a small inset; escapes displace
// from there and clamp to the row.
func (p *Plugin) controlGeometry(t store.Todo, rowWidth int) (x, width int, ok bool) {
	if t.Completed {
		return 0, 0, false
	}
	ctrl := p.controls[t.ID]
	if ctrl == nil || ctrl.Complete() {
		return 0, 0, false
	}

	bw := ansi.StringWidth(p.controlLabel(ctrl))
	base := rowWidth - bw - controlRestInset
	if base < 2 {
		base = 2
	}
	x = base + ctrl.OffsetX()
	if x < 2 {
		x = 2
	}
	if maxX := rowWidth - bw; x > maxX {
		x = maxX
	}
	return x, bw, true
}

// controlLabel renders the button text. Default controls show the
// braille spin frame and lose horizontal padding as the scale shrinks;
// the kind variant is a plain static label.
func (p *Plugin) controlLabel(ctrl *Control) string {
	if ctrl.Kind() {
		return " ✓ done "
	}
	pad := strings.Repeat(" ", ctrl.LabelPadding())
	return pad + ctrl.Glyph() + " done" + pad
}

func controlButtonStyle(selected bool) lipgloss.Style {
	if selected {
		return styles.ButtonFocused
	}
	return styles.Button
}

func (p *Plugin) renderLoading(innerW int) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Todos"))
	sb.WriteString("\n\n")
	sb.WriteString(p.skeleton.View(innerW - 2))
	return sb.String()
}

func (p *Plugin) renderError(innerW int) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render("Todos"))
	sb.WriteString("\n\n")
	msg := runewidth.Truncate("⚠ "+p.loadErr.Error(), innerW, "…")
	sb.WriteString(lipgloss.NewStyle().Foreground(styles.Error).Render(msg))
	sb.WriteString("\n\n")
	sb.WriteString(styles.Subtle.Render("r to retry"))
	return sb.String()
}

func (p *Plugin) renderEmpty() string {
	var sb strings.Builder
	sb.WriteString(p.renderHeader())
	sb.WriteString("\n\n")
	sb.WriteString(styles.Muted.Render("No todos yet"))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtle.Render("a=add"))
	return sb.String()
}

// ensureCursorVisible adjusts scrollOff so the cursor stays in view.
func (p *Plugin) ensureCursorVisible(viewHeight, listSize int) {
	if p.cursor < 0 {
		p.cursor = 0
	}
	if listSize > 0 && p.cursor >= listSize {
		p.cursor = listSize - 1
	}

	if p.cursor < p.scrollOff {
		p.scrollOff = p.cursor
	}
	if p.cursor >= p.scrollOff+viewHeight {
		p.scrollOff = p.cursor - viewHeight + 1
	}

	if p.scrollOff < 0 {
		p.scrollOff = 0
	}
	maxScroll := listSize - viewHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if p.scrollOff > maxScroll {
		p.scrollOff = maxScroll
	}
}

func countTodos(todos []store.Todo) (open, done int) {
	for _, t := range todos {
		if t.Completed {
			done++
		} else {
			open++
		}
	}
	return open, done
}

func padTo(s string, width int) string {
	if d := width - ansi.StringWidth(s); d > 0 {
		return s + strings.Repeat(" ", d)
	}
	return s
}
