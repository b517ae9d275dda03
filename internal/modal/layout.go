package modal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/wilbur182/grudge/internal/mouse"
	"github.com/wilbur182/grudge/internal/styles"
)

// measured carries one section's frame output through layout.
type measured struct {
	content    string
	height     int
	focusables []FocusableInfo
}

// buildLayout produces the modal frame: sections are rendered and
// measured, the focus order is rebuilt, the scrolled viewport is sliced
// out, and hit regions are registered when a handler is given.
func (m *Modal) buildLayout(screenW, screenH int, handler *mouse.Handler) string {
	width := clamp(m.width, MinModalWidth, screenW-4)
	sections := m.measureSections(width - ModalPadding)

	var bodyParts []string
	bodyHeight := 0
	for _, s := range sections {
		bodyHeight += s.height
		if s.content != "" {
			bodyParts = append(bodyParts, s.content)
		}
	}

	headerLines := 0
	if m.title != "" {
		headerLines = 2 // title and a blank line
	}
	footerLines := 0
	if m.showHints {
		footerLines = 1
	}

	// Fit the viewport to the content; scroll only when the content
	// outgrows the screen.
	viewport := maxInnerHeight(screenH) - headerLines - footerLines
	if viewport < 1 {
		viewport = 1
	}
	if bodyHeight < viewport {
		viewport = max(1, bodyHeight)
	}
	m.scrollOffset = clamp(m.scrollOffset, 0, max(0, bodyHeight-viewport))

	body := viewportSlice(strings.Join(bodyParts, "\n"), m.scrollOffset, viewport)

	var frame strings.Builder
	if m.title != "" {
		frame.WriteString(m.titleLine())
		frame.WriteString("\n\n")
	}
	frame.WriteString(body)
	if m.showHints {
		frame.WriteString("\n")
		frame.WriteString(styles.Muted.Render("Tab to switch · Enter to confirm · Esc to cancel"))
	}

	styled := m.frameStyle(width).Render(frame.String())

	if handler != nil {
		m.registerRegions(handler, sections, styled, width, screenW, screenH, headerLines, viewport)
	}
	return styled
}

// measureSections renders every section at the given content width and
// rebuilds the focus order from what they report.
func (m *Modal) measureSections(contentWidth int) []measured {
	// Sections style the focused control themselves, so resolve the
	// focus before the order is torn down.
	focusID := m.currentFocusID()

	out := make([]measured, 0, len(m.sections))
	m.focusIDs = m.focusIDs[:0]
	for _, s := range m.sections {
		r := s.Render(contentWidth, focusID, m.hoverID)
		out = append(out, measured{
			content:    r.Content,
			height:     contentHeight(r.Content),
			focusables: r.Focusables,
		})
		for _, f := range r.Focusables {
			m.focusIDs = append(m.focusIDs, f.ID)
		}
	}
	if len(m.focusIDs) > 0 && m.focusIdx >= len(m.focusIDs) {
		m.focusIdx = 0
	}
	return out
}

// registerRegions rebuilds the hit map for this frame. The backdrop goes
// in first so every region added after it wins the reverse-order hit
// test.
func (m *Modal) registerRegions(handler *mouse.Handler, sections []measured, styled string, width, screenW, screenH, headerLines, viewport int) {
	modalH := lipgloss.Height(styled)
	modalX := (screenW - width) / 2
	modalY := (screenH - modalH) / 2

	handler.HitMap.Clear()
	handler.HitMap.AddRect(regionBackdrop, 0, 0, screenW, screenH, nil)
	handler.HitMap.AddRect(regionBody, modalX, modalY, width, modalH, nil)

	// Content begins inside the border plus padding.
	contentX := modalX + 3
	contentY := modalY + 2 + headerLines

	y := 0
	for _, s := range sections {
		for _, f := range s.focusables {
			top := contentY + y + f.OffsetY - m.scrollOffset
			if top < contentY+viewport && top+f.Height > contentY {
				handler.HitMap.AddRect(f.ID, contentX+f.OffsetX, top, f.Width, f.Height, f.ID)
			}
		}
		y += s.height
	}
}

// variantColor is the accent color for the modal's variant.
func (m *Modal) variantColor() lipgloss.Color {
	switch m.variant {
	case VariantDanger:
		return styles.Error
	case VariantWarning:
		return styles.Warning
	case VariantInfo:
		return styles.Info
	}
	return styles.Primary
}

func (m *Modal) frameStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.variantColor()).
		Background(styles.BgSecondary).
		Padding(1, 2).
		Width(width)
}

func (m *Modal) titleLine() string {
	style := styles.ModalTitle
	if m.variant != VariantDefault {
		style = style.Foreground(m.variantColor())
	}
	return style.Render(m.title)
}

// maxInnerHeight bounds the content area so tall modals scroll instead
// of overflowing the screen.
func maxInnerHeight(screenH int) int {
	h := screenH - 6
	if h < 10 {
		h = 10
	}
	return h
}

// viewportSlice returns height lines starting at offset, padded so the
// frame keeps a stable height while scrolling.
func viewportSlice(content string, offset, height int) string {
	lines := strings.Split(content, "\n")
	if offset > len(lines)-1 {
		offset = max(0, len(lines)-1)
	}
	lines = lines[offset:]
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// clamp constrains v to [lo, hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
