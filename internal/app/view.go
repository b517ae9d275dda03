package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/wilbur182/grudge/internal/styles"
	"github.com/wilbur182/grudge/internal/ui"
)

// chipBounds is a half-open cell range [start, end) on the header line,
// used for click hit testing.
type chipBounds struct {
	start, end int
}

// headerChip is one right-aligned header element. Chips render with a
// single space between them and one trailing space at the edge.
type headerChip struct {
	id   string
	text string
}

// View composes header, plugin frame, footer, and whichever overlay is
// open.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	footerH := 0
	if m.showFooter {
		footerH = 1
	}
	bodyH := m.height - headerHeight - footerH
	if bodyH < 0 {
		bodyH = 0
	}

	var body string
	if p := m.active(); p != nil {
		body = p.View(m.width, bodyH)
	} else {
		body = m.renderEmptyBody(bodyH)
	}

	base := m.renderHeader() + "\n" + body
	if m.showFooter {
		base += "\n" + m.renderFooter()
	}

	switch {
	case m.showQuitConfirm:
		m.ensureQuitModal()
		if m.quitModal != nil {
			return ui.OverlayModal(base, m.quitModal.Render(m.width, m.height, m.overlayMouse), m.width, m.height)
		}
	case m.showPalette:
		return ui.OverlayModal(base, m.palette.View(), m.width, m.height)
	case m.showHelp:
		return ui.OverlayModal(base, m.renderHelpBox(), m.width, m.height)
	case m.themeSwitcher != nil:
		m.ensureThemeModal()
		if m.themeSwitcher.modal != nil {
			return ui.OverlayModal(base, m.themeSwitcher.modal.Render(m.width, m.height, m.overlayMouse), m.width, m.height)
		}
	case m.showDiagnostics:
		m.ensureDiagModal()
		if m.diagModal != nil {
			return ui.OverlayModal(base, m.diagModal.Render(m.width, m.height, m.overlayMouse), m.width, m.height)
		}
	}

	return base
}

// renderHeader paints the single header line: wordmark and document on
// the left, chips and clock on the right.
func (m Model) renderHeader() string {
	var logo string
	if m.intro.Active {
		logo = m.intro.View() + m.intro.DocNameView()
	} else {
		logo = renderWordmark() + m.intro.DocNameView()
	}
	left := " " + logo

	chips := m.headerChips()
	parts := make([]string, 0, len(chips))
	for _, c := range chips {
		parts = append(parts, c.text)
	}
	right := strings.Join(parts, " ")

	gap := m.width - ansi.StringWidth(left) - ansi.StringWidth(right) - 1
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right + " "
	line = ansi.Truncate(line, m.width, "")

	return styles.Header.Width(m.width).Render(line)
}

// headerChips returns the right side of the header in display order.
func (m Model) headerChips() []headerChip {
	var chips []headerChip

	if m.updateAvailable != nil {
		text := "⬆ " + m.updateAvailable.LatestVersion
		if m.needsRestart {
			text = "↻ restart to update"
		}
		chips = append(chips, headerChip{id: "update", text: styles.BarChipActive.Render(text)})
	}

	theme := styles.GetCurrentTheme()
	chips = append(chips, headerChip{id: "theme", text: styles.BarChip.Render("◆ " + theme.DisplayName)})

	if m.showClock {
		chips = append(chips, headerChip{id: "clock", text: styles.BarText.Render(m.clock.Format("15:04"))})
	}
	return chips
}

// chipBoundsFor computes where a chip landed on the header line, using
// the same layout math as renderHeader.
func (m Model) chipBoundsFor(id string) (chipBounds, bool) {
	chips := m.headerChips()
	x := m.width - 1
	for i := len(chips) - 1; i >= 0; i-- {
		w := ansi.StringWidth(chips[i].text)
		x -= w
		if chips[i].id == id {
			if x < 0 {
				return chipBounds{}, false
			}
			return chipBounds{start: x, end: x + w}, true
		}
		x--
	}
	return chipBounds{}, false
}

func (m Model) updateChipBounds() (chipBounds, bool) {
	if m.updateAvailable == nil {
		return chipBounds{}, false
	}
	return m.chipBoundsFor("update")
}

func (m Model) themeChipBounds() (chipBounds, bool) {
	return m.chipBoundsFor("theme")
}

// renderWordmark is the settled form of the intro animation: the
// wordmark in an accent-to-warning gradient.
func renderWordmark() string {
	theme := styles.GetCurrentTheme()
	from := hexToRGB(theme.Colors.Accent)
	to := hexToRGB(theme.Colors.Warning)

	const text = "Grudge"
	var b strings.Builder
	for i, r := range text {
		t := float64(i) / float64(len(text)-1)
		color := from.lerp(to, t)
		b.WriteString(lipgloss.NewStyle().Foreground(color.toLipgloss()).Bold(true).Render(string(r)))
	}
	return b.String()
}

// renderFooter paints the footer line: toast or key hints left, version
// right.
func (m Model) renderFooter() string {
	var left string
	switch {
	case m.statusMsg != "" && m.statusIsError:
		left = " " + styles.ToastError.Render(m.statusMsg)
	case m.statusMsg != "":
		left = " " + styles.ToastSuccess.Render(m.statusMsg)
	default:
		left = " " + styles.Muted.Render(contextHints(m.activeContext))
	}

	right := styles.BarText.Render("grudge " + m.currentVersion)

	gap := m.width - ansi.StringWidth(left) - ansi.StringWidth(right) - 1
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right + " "
	line = ansi.Truncate(line, m.width, "")

	return styles.Footer.Width(m.width).Render(line)
}

// contextHints returns the footer hint string for a keymap context.
func contextHints(context string) string {
	switch context {
	case "todos":
		return "a add · e edit · d delete · enter complete · x export · ? help"
	case "todos-confirm":
		return "tab move · enter choose · esc cancel"
	default:
		return "? help · ctrl+k commands · q quit"
	}
}

// renderEmptyBody fills the plugin area when nothing registered.
func (m Model) renderEmptyBody(height int) string {
	msg := styles.Muted.Render("No plugins available. Check the log for details.")
	lines := make([]string, 0, height)
	for i := 0; i < height; i++ {
		if i == height/2 {
			pad := (m.width - ansi.StringWidth(msg)) / 2
			if pad < 0 {
				pad = 0
			}
			lines = append(lines, strings.Repeat(" ", pad)+msg)
			continue
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
