package app

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/wilbur182/grudge/internal/config"
	"github.com/wilbur182/grudge/internal/fdmonitor"
	"github.com/wilbur182/grudge/internal/features"
	"github.com/wilbur182/grudge/internal/modal"
	"github.com/wilbur182/grudge/internal/plugin"
	"github.com/wilbur182/grudge/internal/styles"
	"github.com/wilbur182/grudge/internal/ui"
)

// staticSection wraps prerendered content. The diagnostics modal is
// rebuilt whenever its inputs change, so snapshots stay accurate.
func staticSection(content string) modal.Section {
	return modal.Custom(func(int, string, string) modal.RenderedSection {
		return modal.RenderedSection{Content: content}
	}, nil)
}

// ensureDiagModal builds the diagnostics modal from the current health
// state. Anything that changes the content nils diagModal first.
func (m *Model) ensureDiagModal() {
	modalW := ui.ModalWidthLarge
	if modalW > m.width-4 {
		modalW = m.width - 4
	}
	if modalW < modal.MinModalWidth {
		modalW = modal.MinModalWidth
	}
	if m.diagModal != nil && m.diagModalWidth == modalW {
		return
	}
	m.diagModalWidth = modalW

	md := modal.New("Diagnostics",
		modal.WithWidth(modalW),
		modal.WithHints(false),
	).
		AddSection(staticSection(m.renderDiagPlugins())).
		AddSection(modal.Spacer()).
		AddSection(staticSection(m.renderDiagSystem())).
		AddSection(modal.Spacer()).
		AddSection(staticSection(m.renderDiagFeatures()))

	if m.updateAvailable != nil {
		md.AddSection(modal.Spacer())
		md.AddSection(staticSection(m.renderDiagUpdate()))
		if !m.updateRunning && !m.needsRestart {
			md.AddSection(modal.Spacer())
			md.AddSection(modal.Buttons(modal.Btn("  Update now  ", "update", modal.BtnPrimary())))
		}
	}

	hints := "esc close"
	if m.updateAvailable != nil && !m.updateRunning && !m.needsRestart {
		hints = "u update · esc close"
	}
	md.AddSection(modal.Spacer())
	md.AddSection(staticSection(styles.Muted.Render(hints)))

	m.diagModal = md
}

func (m Model) renderDiagPlugins() string {
	okDot := lipgloss.NewStyle().Foreground(styles.Success).Render("●")
	warnDot := lipgloss.NewStyle().Foreground(styles.Warning).Render("●")
	offDot := lipgloss.NewStyle().Foreground(styles.TextMuted).Render("○")
	errDot := lipgloss.NewStyle().Foreground(styles.Error).Render("●")

	var sb strings.Builder
	sb.WriteString(styles.Subtitle.Render("Plugins"))
	sb.WriteString("\n")

	wrote := false
	for _, p := range m.registry.Plugins() {
		dp, ok := p.(plugin.DiagnosticProvider)
		if !ok {
			sb.WriteString(fmt.Sprintf("%s %s\n", okDot, p.ID()))
			wrote = true
			continue
		}
		for _, d := range dp.Diagnostics() {
			dot := okDot
			switch d.Status {
			case "degraded":
				dot = warnDot
			case "disabled":
				dot = offDot
			}
			sb.WriteString(fmt.Sprintf("%s %-15s %s\n", dot, d.ID, styles.Muted.Render(d.Detail)))
			wrote = true
		}
	}

	unavailable := m.registry.Unavailable()
	for _, id := range slices.Sorted(maps.Keys(unavailable)) {
		sb.WriteString(fmt.Sprintf("%s %-15s %s\n", errDot, id, styles.Muted.Render(unavailable[id])))
		wrote = true
	}

	if !wrote {
		sb.WriteString(styles.Muted.Render("none registered"))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m Model) renderDiagSystem() string {
	var sb strings.Builder
	sb.WriteString(styles.Subtitle.Render("System"))
	sb.WriteString("\n")

	label := func(k, v string) {
		sb.WriteString(fmt.Sprintf("%-10s %s\n", k, styles.Muted.Render(v)))
	}

	label("version", m.currentVersion)
	if ctx := m.registry.Context(); ctx != nil {
		label("config", ctx.ConfigDir)
		if ctx.Store != nil {
			label("todos", ctx.Store.Path())
		}
		if ctx.Journal != nil {
			label("journal", ctx.Journal.Path())
		} else {
			label("journal", "off")
		}
	}
	label("log", config.LogPath())
	if m.debug {
		detail := fmt.Sprintf("%d open", fdmonitor.Count())
		if buckets := fdmonitor.DebugInfo(); len(buckets) > 0 {
			parts := make([]string, 0, len(buckets))
			for _, kind := range slices.Sorted(maps.Keys(buckets)) {
				parts = append(parts, fmt.Sprintf("%d %s", buckets[kind], kind))
			}
			detail += " (" + strings.Join(parts, ", ") + ")"
		}
		label("fds", detail)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m Model) renderDiagFeatures() string {
	onDot := lipgloss.NewStyle().Foreground(styles.Success).Render("●")
	offDot := lipgloss.NewStyle().Foreground(styles.TextMuted).Render("○")

	var sb strings.Builder
	sb.WriteString(styles.Subtitle.Render("Features"))
	sb.WriteString("\n")

	state := features.List()
	for _, f := range features.All() {
		dot := offDot
		if state[f.Name] {
			dot = onDot
		}
		sb.WriteString(fmt.Sprintf("%s %-15s %s\n", dot, f.Name, styles.Muted.Render(f.Description)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m Model) renderDiagUpdate() string {
	var sb strings.Builder
	sb.WriteString(styles.Subtitle.Render("Update"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s → %s\n", m.currentVersion, m.updateAvailable.LatestVersion))
	if url := m.updateAvailable.UpdateURL; url != "" {
		sb.WriteString(styles.Muted.Render(url))
		sb.WriteString("\n")
	}
	switch {
	case m.needsRestart:
		sb.WriteString(lipgloss.NewStyle().Foreground(styles.Success).Render("Installed. Restart grudge to finish."))
	case m.updateRunning:
		sb.WriteString(styles.Muted.Render("Updating..."))
	case m.updateErr != "":
		sb.WriteString(lipgloss.NewStyle().Foreground(styles.Error).Render("Update failed: " + m.updateErr))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// startUpdate kicks off the background reinstall and rebuilds the modal
// so it reflects the running state.
func (m Model) startUpdate() (tea.Model, tea.Cmd) {
	if m.updateAvailable == nil || m.updateRunning || m.needsRestart {
		return m, nil
	}
	m.updateRunning = true
	m.updateErr = ""
	m.diagModal = nil
	return m, m.doUpdateCmd()
}

func (m Model) handleDiagnosticsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+d":
		m.showDiagnostics = false
		m.diagModal = nil
		return m, nil
	case "u":
		return m.startUpdate()
	}

	m.ensureDiagModal()
	action, cmd := m.diagModal.HandleKey(msg)
	switch action {
	case modal.ActionCancel:
		m.showDiagnostics = false
		m.diagModal = nil
		return m, nil
	case "update":
		return m.startUpdate()
	}
	return m, cmd
}

func (m Model) handleDiagnosticsMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	m.ensureDiagModal()
	switch m.diagModal.HandleMouse(msg, m.overlayMouse) {
	case modal.ActionCancel:
		m.showDiagnostics = false
		m.diagModal = nil
	case "update":
		return m.startUpdate()
	}
	return m, nil
}
