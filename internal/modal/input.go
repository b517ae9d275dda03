package modal

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/wilbur182/grudge/internal/styles"
)

// inputSection hosts a bubbles text input. The modal owns focus, so the
// wrapped model is focused and blurred during Render to match.
type inputSection struct {
	id      string
	label   string
	model   *textinput.Model
	submits bool // enter resolves the modal's primary action
}

// InputOption configures an input section.
type InputOption func(*inputSection)

// WithSubmitOnEnter sets whether enter submits the modal. On by default;
// turn it off for filter inputs that only narrow a list.
func WithSubmitOnEnter(submit bool) InputOption {
	return func(s *inputSection) { s.submits = submit }
}

// Input creates a single-line input section around a textinput model the
// caller keeps ownership of.
func Input(id string, model *textinput.Model, opts ...InputOption) Section {
	s := &inputSection{id: id, model: model, submits: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InputWithLabel is Input with a label line above the box.
func InputWithLabel(id, label string, model *textinput.Model, opts ...InputOption) Section {
	s := Input(id, model, opts...).(*inputSection)
	s.label = label
	return s
}

func (s *inputSection) Render(contentWidth int, focusID, hoverID string) RenderedSection {
	focused := s.id == focusID

	border := styles.BorderNormal
	switch {
	case focused:
		border = styles.Primary
	case s.id == hoverID:
		border = styles.TextMuted
	}

	view := ""
	if s.model != nil {
		s.model.Width = contentWidth - 4
		if focused {
			s.model.Focus()
		} else {
			s.model.Blur()
		}
		view = s.model.View()
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(border).
		Width(contentWidth - 2).
		Render(view)

	var sb strings.Builder
	labelLines := 0
	if s.label != "" {
		sb.WriteString(styles.Body.Render(s.label))
		sb.WriteString("\n")
		labelLines = 1
	}
	sb.WriteString(box)

	return RenderedSection{
		Content: sb.String(),
		Focusables: []FocusableInfo{{
			ID:      s.id,
			OffsetY: labelLines,
			Width:   contentWidth,
			Height:  lipgloss.Height(box),
		}},
	}
}

func (s *inputSection) Update(msg tea.Msg, focusID string) (string, tea.Cmd) {
	if s.id != focusID || s.model == nil {
		return "", nil
	}
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" && s.submits {
		return submitPrimary, nil
	}
	var cmd tea.Cmd
	*s.model, cmd = s.model.Update(msg)
	return "", cmd
}
