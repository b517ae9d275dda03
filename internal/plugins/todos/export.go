package todos

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/wilbur182/grudge/internal/modal"
	appmsg "github.com/wilbur182/grudge/internal/msg"
	"github.com/wilbur182/grudge/internal/store"
	appstyles "github.com/wilbur182/grudge/internal/styles"
	"github.com/wilbur182/grudge/internal/ui"
)

// Export formats offered by the export modal.
var exportFormats = []string{"Markdown", "JSON"}

// exportPreviewLines is how many lines of the export show in the modal.
const exportPreviewLines = 6

// ExportMarkdown renders the list as a markdown task list.
func ExportMarkdown(todos []store.Todo) string {
	var sb strings.Builder
	sb.WriteString("# Todos\n\n")
	sb.WriteString(fmt.Sprintf("Exported %s\n\n", time.Now().Format("2006-01-02 15:04")))
	for _, t := range todos {
		box := " "
		if t.Completed {
			box = "x"
		}
		sb.WriteString(fmt.Sprintf("- [%s] %s\n", box, t.Text))
	}
	return sb.String()
}

// ExportJSON renders the list as indented JSON.
func ExportJSON(todos []store.Todo) (string, error) {
	data, err := json.MarshalIndent(todos, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal todos: %w", err)
	}
	return string(data) + "\n", nil
}

// exportText renders the export set in the selected format.
func (p *Plugin) exportText() (string, error) {
	if p.exportFormat() == "JSON" {
		return ExportJSON(p.exportTodos())
	}
	return ExportMarkdown(p.exportTodos()), nil
}

// exportTodos returns the todos the export covers under the current
// include-completed setting.
func (p *Plugin) exportTodos() []store.Todo {
	if p.exportIncludeDone {
		return p.todos
	}
	open := make([]store.Todo, 0, len(p.todos))
	for _, t := range p.todos {
		if !t.Completed {
			open = append(open, t)
		}
	}
	return open
}

func (p *Plugin) exportHasItems() bool {
	return len(p.exportTodos()) > 0
}

func (p *Plugin) exportFormat() string {
	if p.exportFormatIdx >= 0 && p.exportFormatIdx < len(exportFormats) {
		return exportFormats[p.exportFormatIdx]
	}
	return exportFormats[0]
}

// ensureExportModal builds the export modal if needed.
func (p *Plugin) ensureExportModal() {
	if p.mode != modeExport {
		return
	}

	modalW := ui.ModalWidthMedium
	if modalW > p.width-4 {
		modalW = p.width - 4
	}
	if modalW < modal.MinModalWidth {
		modalW = modal.MinModalWidth
	}

	if p.exportModal != nil && p.exportModalWidth == modalW {
		return
	}
	p.exportModalWidth = modalW

	formatItems := make([]modal.ListItem, len(exportFormats))
	for i, f := range exportFormats {
		formatItems[i] = modal.ListItem{ID: "fmt-" + strings.ToLower(f), Label: f}
	}

	p.exportModal = modal.New("Export Todos",
		modal.WithWidth(modalW),
		modal.WithPrimaryAction("copy"),
	).
		AddSection(modal.Text("Format")).
		AddSection(modal.List("export-format", formatItems, &p.exportFormatIdx, modal.WithMaxVisible(2))).
		AddSection(modal.Spacer()).
		AddSection(modal.Checkbox("include-done", "Include completed", &p.exportIncludeDone)).
		AddSection(modal.Spacer()).
		AddSection(modal.Text("Preview")).
		AddSection(modal.When(p.exportHasItems, modal.Custom(p.renderExportPreview, nil))).
		AddSection(modal.When(func() bool { return !p.exportHasItems() },
			modal.Text(appstyles.Muted.Render("Nothing to export")))).
		AddSection(modal.Spacer()).
		AddSection(modal.Buttons(
			modal.Btn(" Copy ", "copy", modal.BtnPrimary()),
			modal.Btn(" Save ", "save"),
			modal.Btn(" Cancel ", "cancel"),
		))
}

// renderExportPreview shows the first lines of the export, syntax
// highlighted for the selected format. Reads the live format index so
// the preview follows the list selection without a rebuild.
func (p *Plugin) renderExportPreview(contentWidth int, focusID, hoverID string) modal.RenderedSection {
	src, err := p.exportText()
	if err != nil {
		return modal.RenderedSection{Content: appstyles.Muted.Render("preview unavailable")}
	}
	lang := "markdown"
	if p.exportFormat() == "JSON" {
		lang = "json"
	}
	lines := highlightLines(src, lang, contentWidth, exportPreviewLines)
	return modal.RenderedSection{Content: strings.Join(lines, "\n")}
}

// openExportModal opens the export modal over the list.
func (p *Plugin) openExportModal() tea.Cmd {
	p.exportFormatIdx = 0
	p.exportIncludeDone = true
	p.mode = modeExport
	p.exportModal = nil
	p.exportModalWidth = 0
	p.modalHandler.Clear()
	return nil
}

// closeExportModal closes the modal and returns input to the list.
func (p *Plugin) closeExportModal() {
	p.mode = modeList
	p.exportModal = nil
	p.exportModalWidth = 0
}

// handleExportModalKey handles keyboard input for the export modal.
func (p *Plugin) handleExportModalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	p.ensureExportModal()
	if p.exportModal == nil {
		return nil, false
	}

	action, cmd := p.exportModal.HandleKey(msg)
	switch action {
	case "copy":
		return p.copyExport(), true
	case "save":
		return p.saveExport(), true
	case "cancel":
		p.closeExportModal()
		return nil, true
	}
	return cmd, true
}

// handleExportModalMouse handles mouse input for the export modal.
func (p *Plugin) handleExportModalMouse(msg tea.MouseMsg) (tea.Cmd, bool) {
	p.ensureExportModal()
	if p.exportModal == nil {
		return nil, false
	}

	action := p.exportModal.HandleMouse(msg, p.modalHandler)
	switch action {
	case "copy":
		return p.copyExport(), true
	case "save":
		return p.saveExport(), true
	case "cancel":
		p.closeExportModal()
		return nil, true
	}
	return nil, true
}

// copyExport puts the rendered export on the system clipboard.
func (p *Plugin) copyExport() tea.Cmd {
	text, err := p.exportText()
	if err != nil {
		return appmsg.ShowErrorToast("Export failed: "+err.Error(), 3*time.Second)
	}
	p.closeExportModal()
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return appmsg.ToastMsg{Message: "Copy failed: " + err.Error(), Duration: 2 * time.Second, IsError: true}
		}
		return appmsg.ToastMsg{Message: "Export copied to clipboard", Duration: 2 * time.Second}
	}
}

// saveExport writes the export next to the todo store with a timestamped
// filename.
func (p *Plugin) saveExport() tea.Cmd {
	text, err := p.exportText()
	if err != nil {
		return appmsg.ShowErrorToast("Export failed: "+err.Error(), 3*time.Second)
	}
	ext := ".md"
	if p.exportFormat() == "JSON" {
		ext = ".json"
	}
	dir := filepath.Dir(p.ctx.Store.Path())
	p.closeExportModal()

	return func() tea.Msg {
		filename := fmt.Sprintf("todos-%s%s", time.Now().Format("20060102-150405"), ext)
		path := filepath.Join(dir, filename)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return appmsg.ToastMsg{Message: "Save failed: " + err.Error(), Duration: 3 * time.Second, IsError: true}
		}
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return appmsg.ToastMsg{Message: "Save failed: " + err.Error(), Duration: 3 * time.Second, IsError: true}
		}
		return appmsg.ToastMsg{Message: "Saved " + path, Duration: 3 * time.Second}
	}
}

// highlightLines tokenizes src and returns up to maxLines display lines
// styled with the active syntax theme. Lines are truncated to width
// before tokenizing so the modal never overflows.
func highlightLines(src, language string, width, maxLines int) []string {
	lines := strings.Split(strings.TrimRight(src, "\n"), "\n")
	truncated := len(lines) > maxLines
	if truncated {
		lines = lines[:maxLines]
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(appstyles.GetSyntaxTheme())
	if style == nil {
		style = styles.Fallback
	}

	out := make([]string, 0, len(lines)+1)
	for _, line := range lines {
		out = append(out, highlightLine(lexer, style, line, width))
	}
	if truncated {
		out = append(out, appstyles.Muted.Render("…"))
	}
	return out
}

// highlightLine styles a single line, falling back to plain text when
// tokenizing fails.
func highlightLine(lexer chroma.Lexer, style *chroma.Style, line string, width int) string {
	line = runewidth.Truncate(line, width, "…")
	iterator, err := lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}
	var sb strings.Builder
	for _, token := range iterator.Tokens() {
		// Chroma appends newlines to some tokens; they break width math.
		text := strings.TrimSuffix(token.Value, "\n")
		if text == "" {
			continue
		}
		sb.WriteString(tokenStyle(style, token.Type).Render(text))
	}
	return sb.String()
}

// tokenStyle converts a chroma token type to a lipgloss style. Italic is
// skipped because its escape sequences upset width calculations in some
// terminals.
func tokenStyle(style *chroma.Style, tokenType chroma.TokenType) lipgloss.Style {
	entry := style.Get(tokenType)
	s := lipgloss.NewStyle()
	if entry.Colour.IsSet() {
		s = s.Foreground(lipgloss.Color(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		s = s.Bold(true)
	}
	if entry.Underline == chroma.Yes {
		s = s.Underline(true)
	}
	return s
}
