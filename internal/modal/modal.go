// Package modal provides a composable dialog framework. A Modal is built
// from sections (text, inputs, buttons, lists, custom content); it owns
// focus order, scrolling, and mouse hit regions, and reports resolved
// decisions to the caller as action strings.
package modal

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wilbur182/grudge/internal/mouse"
)

const (
	// MinModalWidth is the narrowest a modal will render.
	MinModalWidth = 40

	// ModalPadding is the horizontal chrome around content: border (2) plus padding (4).
	ModalPadding = 6
)

// Variant selects the modal's border and title accent.
type Variant int

const (
	VariantDefault Variant = iota
	VariantDanger
	VariantWarning
	VariantInfo
)

// ActionCancel is returned by HandleKey and HandleMouse when the modal is dismissed.
const ActionCancel = "cancel"

// submitPrimary is a sentinel action a section returns when the modal
// should resolve to its configured primary action.
const submitPrimary = "submit-primary"

// Hit region IDs for the non-focusable parts of a rendered modal.
const (
	regionBackdrop = "modal-backdrop"
	regionBody     = "modal-body"
)

// ClickMsg is delivered to sections when one of their focusables is
// clicked. X and Y are relative to the clicked region's top-left corner.
type ClickMsg struct {
	ID string
	X  int
	Y  int
}

// Modal is a composable dialog. Construct one with New, append sections
// with AddSection, then drive it with Render, HandleKey, and HandleMouse.
type Modal struct {
	title     string
	variant   Variant
	width     int
	showHints bool

	// primaryAction is returned when an input submits on enter, or when
	// enter is pressed in a modal with no focusable elements.
	primaryAction string

	sections []Section

	// Focus order is rebuilt on every Render from the sections' reported
	// focusables, so focusIdx can briefly point past the end after a
	// conditional section collapses.
	focusIDs     []string
	focusIdx     int
	hoverID      string
	scrollOffset int
}

// Option configures a Modal at construction time.
type Option func(*Modal)

// WithWidth sets the modal's desired width. Render clamps it to the screen.
func WithWidth(w int) Option {
	return func(m *Modal) { m.width = w }
}

// WithVariant sets the modal's visual variant.
func WithVariant(v Variant) Option {
	return func(m *Modal) { m.variant = v }
}

// WithPrimaryAction sets the action an enter-submit resolves to.
func WithPrimaryAction(id string) Option {
	return func(m *Modal) { m.primaryAction = id }
}

// WithHints shows or hides the keyboard hint footer. Hints are shown by default.
func WithHints(show bool) Option {
	return func(m *Modal) { m.showHints = show }
}

// New creates a modal with the given title. An empty title renders no header.
func New(title string, opts ...Option) *Modal {
	m := &Modal{
		title:     title,
		width:     MinModalWidth,
		showHints: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddSection appends a section and returns the modal for chaining.
func (m *Modal) AddSection(s Section) *Modal {
	m.sections = append(m.sections, s)
	return m
}

// Render draws the modal for the given screen size and registers hit
// regions on handler. Pass a nil handler to skip mouse support. Focus
// order is established here, so call Render before inspecting FocusedID.
func (m *Modal) Render(screenW, screenH int, handler *mouse.Handler) string {
	return m.buildLayout(screenW, screenH, handler)
}

// FocusedID returns the ID of the focused element, or "" when the modal
// has no focusables.
func (m *Modal) FocusedID() string {
	return m.currentFocusID()
}

func (m *Modal) currentFocusID() string {
	if len(m.focusIDs) == 0 {
		return ""
	}
	if m.focusIdx < 0 || m.focusIdx >= len(m.focusIDs) {
		return m.focusIDs[0]
	}
	return m.focusIDs[m.focusIdx]
}

// SetFocus moves focus to the element with the given ID. Unknown IDs are ignored.
func (m *Modal) SetFocus(id string) {
	for i, fid := range m.focusIDs {
		if fid == id {
			m.focusIdx = i
			return
		}
	}
}

func (m *Modal) focusNext() {
	if len(m.focusIDs) == 0 {
		return
	}
	m.focusIdx = (m.focusIdx + 1) % len(m.focusIDs)
}

func (m *Modal) focusPrev() {
	if len(m.focusIDs) == 0 {
		return
	}
	m.focusIdx--
	if m.focusIdx < 0 {
		m.focusIdx = len(m.focusIDs) - 1
	}
}

// HandleKey processes a key press. It returns a non-empty action when the
// press resolved to a decision: ActionCancel for esc, a button or submit
// action ID otherwise. Unresolved keys are routed to the focused section
// and may produce a tea.Cmd.
func (m *Modal) HandleKey(msg tea.KeyMsg) (string, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return ActionCancel, nil
	case "tab":
		m.focusNext()
		return "", nil
	case "shift+tab":
		m.focusPrev()
		return "", nil
	}

	focusID := m.currentFocusID()
	if focusID == "" {
		if msg.String() == "enter" && m.primaryAction != "" {
			return m.primaryAction, nil
		}
		return "", nil
	}

	action, cmd := m.updateSections(msg, focusID)
	return m.resolve(action), cmd
}

// HandleMouse processes a mouse event against the hit regions registered
// by the previous Render. Clicks on the backdrop cancel the modal; clicks
// on a focusable focus it and deliver a ClickMsg to its section. The
// return value follows the same action convention as HandleKey.
func (m *Modal) HandleMouse(msg tea.MouseMsg, handler *mouse.Handler) string {
	if handler == nil {
		return ""
	}

	action := handler.HandleMouse(msg)
	switch action.Type {
	case mouse.ActionHover:
		m.hoverID = ""
		if action.Region != nil {
			if id, ok := action.Region.Data.(string); ok {
				m.hoverID = id
			}
		}

	case mouse.ActionScrollUp, mouse.ActionScrollDown:
		// Delta is negative for up. The next Render clamps the upper bound.
		m.scrollOffset += action.Delta
		if m.scrollOffset < 0 {
			m.scrollOffset = 0
		}

	case mouse.ActionClick, mouse.ActionDoubleClick:
		if action.Region == nil {
			return ""
		}
		if action.Region.ID == regionBackdrop {
			return ActionCancel
		}
		id, ok := action.Region.Data.(string)
		if !ok || id == "" {
			// Modal body absorbs the click.
			return ""
		}
		m.SetFocus(id)
		click := ClickMsg{
			ID: id,
			X:  action.X - action.Region.Rect.X,
			Y:  action.Y - action.Region.Rect.Y,
		}
		act, _ := m.updateSections(click, id)
		return m.resolve(act)
	}

	return ""
}

// updateSections routes a message through every section. Sections filter
// on focusID themselves, so at most one produces an action.
func (m *Modal) updateSections(msg tea.Msg, focusID string) (string, tea.Cmd) {
	var (
		action string
		cmds   []tea.Cmd
	)
	for _, s := range m.sections {
		a, cmd := s.Update(msg, focusID)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		if a != "" && action == "" {
			action = a
		}
	}

	switch len(cmds) {
	case 0:
		return action, nil
	case 1:
		return action, cmds[0]
	default:
		return action, tea.Batch(cmds...)
	}
}

// resolve maps the submit sentinel to the configured primary action.
func (m *Modal) resolve(action string) string {
	if action == submitPrimary {
		return m.primaryAction
	}
	return action
}
