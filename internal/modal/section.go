package modal

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/wilbur182/grudge/internal/styles"
)

// Section is one block of modal content. Render receives the usable
// content width and the current focus and hover IDs so sections can
// style their own controls; Update receives every message the modal
// routes and must ignore messages meant for other sections by checking
// focusID (key input) or the ClickMsg target (mouse input).
type Section interface {
	Render(contentWidth int, focusID, hoverID string) RenderedSection
	Update(msg tea.Msg, focusID string) (action string, cmd tea.Cmd)
}

// RenderedSection is a section's output for one frame.
type RenderedSection struct {
	Content    string
	Focusables []FocusableInfo
}

// FocusableInfo places one focusable control relative to its section's
// top-left corner, in content-area cells.
type FocusableInfo struct {
	ID      string
	OffsetX int
	OffsetY int
	Width   int
	Height  int
}

// buttonGap separates buttons in a row.
const buttonGap = "  "

// Text returns a static section that word-wraps s to the content width.
func Text(s string) Section {
	return &textSection{text: s}
}

type textSection struct {
	text string
}

func (t *textSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	return RenderedSection{Content: wrapText(t.text, contentWidth)}
}

func (t *textSection) Update(tea.Msg, string) (string, tea.Cmd) {
	return "", nil
}

// Spacer returns a one-line gap.
func Spacer() Section {
	return &spacerSection{}
}

type spacerSection struct{}

func (s *spacerSection) Render(int, string, string) RenderedSection {
	// A single space, not an empty string, so the layout counts one line.
	return RenderedSection{Content: " "}
}

func (s *spacerSection) Update(tea.Msg, string) (string, tea.Cmd) {
	return "", nil
}

// When wraps a section that only exists while condition reports true.
// While hidden it renders nothing and eats no input, and the layout
// gives it no vertical space.
func When(condition func() bool, section Section) Section {
	return &whenSection{condition: condition, inner: section}
}

type whenSection struct {
	condition func() bool
	inner     Section
}

func (w *whenSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	if !w.condition() {
		return RenderedSection{}
	}
	return w.inner.Render(contentWidth, focusID, hoverID)
}

func (w *whenSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if !w.condition() {
		return "", nil
	}
	return w.inner.Update(msg, focusID)
}

// CustomRenderFunc renders a custom section for one frame.
type CustomRenderFunc func(contentWidth int, focusID, hoverID string) RenderedSection

// CustomUpdateFunc handles input routed to a custom section.
type CustomUpdateFunc func(msg tea.Msg, focusID string) (action string, cmd tea.Cmd)

// Custom returns a section driven by caller-supplied functions. A nil
// updateFn makes the section inert to input.
func Custom(renderFn CustomRenderFunc, updateFn CustomUpdateFunc) Section {
	return &customSection{render: renderFn, update: updateFn}
}

type customSection struct {
	render CustomRenderFunc
	update CustomUpdateFunc
}

func (c *customSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	if c.render == nil {
		return RenderedSection{}
	}
	return c.render(contentWidth, focusID, hoverID)
}

func (c *customSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if c.update == nil {
		return "", nil
	}
	return c.update(msg, focusID)
}

// ButtonDef is one button in a Buttons row.
type ButtonDef struct {
	Label    string
	ID       string
	IsDanger bool
}

// BtnOption configures a button definition.
type BtnOption func(*ButtonDef)

// Btn defines a button whose activation resolves to id.
func Btn(label, id string, opts ...BtnOption) ButtonDef {
	b := ButtonDef{Label: label, ID: id}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// BtnDanger styles the button for a destructive action.
func BtnDanger() BtnOption {
	return func(b *ButtonDef) { b.IsDanger = true }
}

// BtnPrimary marks the suggested button. Focused styling already carries
// the accent, so this is currently a labeling no-op.
func BtnPrimary() BtnOption {
	return func(*ButtonDef) {}
}

// Buttons returns a horizontal row of buttons. Each button is focusable;
// enter or a click activates it and resolves the modal to its ID.
func Buttons(btns ...ButtonDef) Section {
	return &buttonsSection{buttons: btns}
}

type buttonsSection struct {
	buttons []ButtonDef
}

func (b *buttonsSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	if len(b.buttons) == 0 {
		return RenderedSection{}
	}

	cells := make([]string, 0, len(b.buttons))
	focusables := make([]FocusableInfo, 0, len(b.buttons))
	x := 0
	for _, btn := range b.buttons {
		cell := controlStyle(btn.ID, focusID, hoverID, btn.IsDanger).Render(btn.Label)
		w := ansi.StringWidth(cell)
		focusables = append(focusables, FocusableInfo{ID: btn.ID, OffsetX: x, Width: w, Height: 1})
		cells = append(cells, cell)
		x += w + len(buttonGap)
	}

	return RenderedSection{
		Content:    strings.Join(cells, buttonGap),
		Focusables: focusables,
	}
}

func (b *buttonsSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	switch m := msg.(type) {
	case ClickMsg:
		for _, btn := range b.buttons {
			if btn.ID == m.ID {
				return btn.ID, nil
			}
		}
	case tea.KeyMsg:
		if m.String() != "enter" {
			return "", nil
		}
		for _, btn := range b.buttons {
			if btn.ID == focusID {
				return btn.ID, nil
			}
		}
	}
	return "", nil
}

// Checkbox returns a focusable toggle bound to checked. Toggling is not
// an action; the caller reads the bool when the modal resolves.
func Checkbox(id, label string, checked *bool) Section {
	return &checkboxSection{id: id, label: label, checked: checked}
}

type checkboxSection struct {
	id      string
	label   string
	checked *bool
}

func (c *checkboxSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	box := "[ ]"
	if c.checked != nil && *c.checked {
		box = "[x]"
	}
	cell := controlStyle(c.id, focusID, hoverID, false).Render(box + " " + c.label)

	return RenderedSection{
		Content: cell,
		Focusables: []FocusableInfo{{
			ID:     c.id,
			Width:  ansi.StringWidth(cell),
			Height: 1,
		}},
	}
}

func (c *checkboxSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	switch m := msg.(type) {
	case ClickMsg:
		if m.ID == c.id {
			c.toggle()
		}
	case tea.KeyMsg:
		if c.id != focusID {
			return "", nil
		}
		if s := m.String(); s == "enter" || s == " " {
			c.toggle()
		}
	}
	return "", nil
}

func (c *checkboxSection) toggle() {
	if c.checked != nil {
		*c.checked = !*c.checked
	}
}

// controlStyle picks the style for a focusable control in the standard
// rest, hover, focus progression.
func controlStyle(id, focusID, hoverID string, danger bool) lipgloss.Style {
	switch {
	case danger && id == focusID:
		return styles.ButtonDangerFocused
	case danger && id == hoverID:
		return styles.ButtonDangerHover
	case danger:
		return styles.ButtonDanger
	case id == focusID:
		return styles.ButtonFocused
	case id == hoverID:
		return styles.ButtonHover
	default:
		return styles.Button
	}
}

// wrapText word-wraps styled text to width, leaving it untouched when
// width is unknown.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	return cellbuf.Wrap(text, width, "")
}

// contentHeight counts the lines a rendered section occupies. Collapsed
// sections report zero and take no space in the layout.
func contentHeight(content string) int {
	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		return 0
	}
	return lipgloss.Height(trimmed)
}
