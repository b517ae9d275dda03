package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/wilbur182/grudge/internal/modal"
	"github.com/wilbur182/grudge/internal/styles"
	"github.com/wilbur182/grudge/internal/ui"
)

const (
	themeFilterID   = "theme-filter"
	themeItemPrefix = "theme-item-"
)

// themeEntry is one selectable row in the switcher.
type themeEntry struct {
	Key  string // registry key, e.g. "nord"
	Name string // display name, e.g. "Nord"
}

// themeSwitcherState backs the switcher while it is open. It lives on the
// heap so the modal's section closures stay valid across Model copies.
type themeSwitcherState struct {
	modal      *modal.Modal
	modalWidth int
	input      textinput.Model
	entries    []themeEntry
	filtered   []themeEntry
	selected   int
	original   string // theme key active when the switcher opened
	lastQuery  string
}

// listThemeEntries returns every registered theme with its display name.
func listThemeEntries() []themeEntry {
	names := styles.ListThemes()
	entries := make([]themeEntry, 0, len(names))
	for _, name := range names {
		display := name
		if t := styles.GetTheme(name); t.DisplayName != "" {
			display = t.DisplayName
		}
		entries = append(entries, themeEntry{Key: name, Name: display})
	}
	return entries
}

// filterThemeEntries filters by case-insensitive substring on name or key.
func filterThemeEntries(entries []themeEntry, query string) []themeEntry {
	if query == "" {
		return entries
	}
	q := strings.ToLower(query)
	var matches []themeEntry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), q) || strings.Contains(e.Key, q) {
			matches = append(matches, e)
		}
	}
	return matches
}

func themeItemID(idx int) string {
	return fmt.Sprintf("%s%d", themeItemPrefix, idx)
}

// selectKey moves the cursor to the entry with the given key, or the top
// of the list when the key is filtered out.
func (ts *themeSwitcherState) selectKey(key string) {
	ts.selected = 0
	for i, e := range ts.filtered {
		if e.Key == key {
			ts.selected = i
			return
		}
	}
}

// openThemeSwitcher snapshots the active theme and opens the switcher
// with the cursor on it. Moving the cursor previews themes immediately;
// esc restores the snapshot.
func (m *Model) openThemeSwitcher() {
	input := textinput.New()
	input.Placeholder = "Filter themes..."

	ts := &themeSwitcherState{
		input:    input,
		entries:  listThemeEntries(),
		original: styles.GetCurrentThemeName(),
	}
	ts.filtered = ts.entries
	ts.selectKey(ts.original)

	m.themeSwitcher = ts
	m.overlayMouse.Clear()
}

// cancelThemeSwitcher closes the switcher and restores the theme that was
// active when it opened, overrides included.
func (m *Model) cancelThemeSwitcher() {
	ts := m.themeSwitcher
	if ts == nil {
		return
	}
	styles.ApplyThemeWithOverrides(ts.original, m.cfg.UI.Theme.Overrides)
	m.themeSwitcher = nil
}

// ensureThemeModal builds the switcher modal when missing or when the
// screen width changed.
func (m *Model) ensureThemeModal() {
	ts := m.themeSwitcher
	if ts == nil {
		return
	}

	modalW := ui.ModalWidthMedium
	if modalW > m.width-4 {
		modalW = m.width - 4
	}
	if modalW < modal.MinModalWidth {
		modalW = modal.MinModalWidth
	}
	if ts.modal != nil && ts.modalWidth == modalW {
		return
	}
	ts.modalWidth = modalW

	ts.modal = modal.New("Switch Theme",
		modal.WithWidth(modalW),
		modal.WithHints(false),
	).
		AddSection(modal.Input(themeFilterID, &ts.input, modal.WithSubmitOnEnter(false))).
		AddSection(ts.countSection()).
		AddSection(modal.Spacer()).
		AddSection(ts.listSection()).
		AddSection(modal.Spacer()).
		AddSection(ts.hintsSection())
}

// countSection shows how many themes match the active filter.
func (ts *themeSwitcherState) countSection() modal.Section {
	return modal.Custom(func(contentWidth int, focusID, hoverID string) modal.RenderedSection {
		if ts.input.Value() == "" {
			return modal.RenderedSection{}
		}
		text := fmt.Sprintf("%d of %d themes", len(ts.filtered), len(ts.entries))
		return modal.RenderedSection{Content: styles.Muted.Render(text)}
	}, nil)
}

func (ts *themeSwitcherState) listSection() modal.Section {
	return modal.Custom(ts.renderList, ts.updateList)
}

func (ts *themeSwitcherState) renderList(contentWidth int, focusID, hoverID string) modal.RenderedSection {
	themes := ts.filtered
	if len(themes) == 0 {
		return modal.RenderedSection{Content: styles.Muted.Render("No matches")}
	}

	if ts.selected < 0 {
		ts.selected = 0
	}
	if ts.selected >= len(themes) {
		ts.selected = len(themes) - 1
	}

	maxVisible := 12
	visible := min(maxVisible, len(themes))
	scroll := 0
	if ts.selected >= maxVisible {
		scroll = ts.selected - maxVisible + 1
	}
	if scroll > len(themes)-visible {
		scroll = len(themes) - visible
	}
	if scroll < 0 {
		scroll = 0
	}

	// Local styles so the list picks up the previewed palette.
	cursorStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	nameNormal := lipgloss.NewStyle().Foreground(styles.Secondary)
	nameSelected := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	nameCurrent := lipgloss.NewStyle().Foreground(styles.Success).Bold(true)

	var sb strings.Builder
	focusables := make([]modal.FocusableInfo, 0, visible)
	line := 0

	if scroll > 0 {
		sb.WriteString(styles.Muted.Render(fmt.Sprintf("  ↑ %d more above", scroll)))
		sb.WriteString("\n")
		line++
	}

	for i := scroll; i < scroll+visible; i++ {
		e := themes[i]
		itemID := themeItemID(i)
		isSelected := i == ts.selected
		isCurrent := e.Key == ts.original

		if isSelected {
			sb.WriteString(cursorStyle.Render("> "))
		} else {
			sb.WriteString("  ")
		}

		t := styles.GetTheme(e.Key)
		for _, c := range []string{t.Colors.Primary, t.Colors.Success, t.Colors.Secondary, t.Colors.Error} {
			sb.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(c)).Render(" "))
		}
		sb.WriteString(" ")

		nameStyle := nameNormal
		switch {
		case isCurrent:
			nameStyle = nameCurrent
		case isSelected || itemID == hoverID:
			nameStyle = nameSelected
		}
		sb.WriteString(nameStyle.Render(e.Name))
		if isCurrent {
			sb.WriteString(styles.Muted.Render(" (current)"))
		}
		sb.WriteString("\n")

		focusables = append(focusables, modal.FocusableInfo{
			ID:      itemID,
			OffsetX: 0,
			OffsetY: line + (i - scroll),
			Width:   contentWidth,
			Height:  1,
		})
	}

	if rest := len(themes) - (scroll + visible); rest > 0 {
		sb.WriteString(styles.Muted.Render(fmt.Sprintf("  ↓ %d more below", rest)))
	}

	return modal.RenderedSection{Content: strings.TrimRight(sb.String(), "\n"), Focusables: focusables}
}

// updateList moves the cursor and previews the theme under it. The filter
// input owns plain letters while focused, so j/k navigate only after the
// focus has moved off it.
func (ts *themeSwitcherState) updateList(msg tea.Msg, focusID string) (string, tea.Cmd) {
	switch msg := msg.(type) {
	case modal.ClickMsg:
		idx, err := strconv.Atoi(strings.TrimPrefix(msg.ID, themeItemPrefix))
		if err != nil || idx < 0 || idx >= len(ts.filtered) {
			return "", nil
		}
		ts.selected = idx
		styles.ApplyTheme(ts.filtered[idx].Key)

	case tea.KeyMsg:
		if len(ts.filtered) == 0 {
			return "", nil
		}
		key := msg.String()
		if focusID == themeFilterID && (key == "j" || key == "k") {
			return "", nil
		}
		switch key {
		case "up", "k", "ctrl+p":
			if ts.selected > 0 {
				ts.selected--
				styles.ApplyTheme(ts.filtered[ts.selected].Key)
			}
		case "down", "j", "ctrl+n":
			if ts.selected < len(ts.filtered)-1 {
				ts.selected++
				styles.ApplyTheme(ts.filtered[ts.selected].Key)
			}
		case "enter":
			if ts.selected >= 0 && ts.selected < len(ts.filtered) {
				return "select", nil
			}
		}
	}
	return "", nil
}

func (ts *themeSwitcherState) hintsSection() modal.Section {
	return modal.Custom(func(contentWidth int, focusID, hoverID string) modal.RenderedSection {
		var sb strings.Builder
		sb.WriteString(styles.KeyHint.Render("enter"))
		sb.WriteString(styles.Muted.Render(" apply  "))
		sb.WriteString(styles.KeyHint.Render("↑/↓"))
		sb.WriteString(styles.Muted.Render(" preview  "))
		sb.WriteString(styles.KeyHint.Render("esc"))
		sb.WriteString(styles.Muted.Render(" revert"))
		return modal.RenderedSection{Content: sb.String()}
	}, nil)
}

func (m Model) handleThemeSwitcherKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ts := m.themeSwitcher
	m.ensureThemeModal()

	action, cmd := ts.modal.HandleKey(msg)
	switch action {
	case modal.ActionCancel:
		m.cancelThemeSwitcher()
		return m, nil
	case "select":
		return m.applySelectedTheme()
	}

	// Refilter when the input text changed, previewing the new top match.
	if q := ts.input.Value(); q != ts.lastQuery {
		ts.lastQuery = q
		ts.filtered = filterThemeEntries(ts.entries, q)
		if q == "" {
			ts.selectKey(ts.original)
		} else {
			ts.selected = 0
		}
		if len(ts.filtered) > 0 {
			styles.ApplyTheme(ts.filtered[ts.selected].Key)
		}
	}
	return m, cmd
}

func (m Model) handleThemeSwitcherMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	ts := m.themeSwitcher
	m.ensureThemeModal()

	switch ts.modal.HandleMouse(msg, m.overlayMouse) {
	case modal.ActionCancel:
		m.cancelThemeSwitcher()
	case "select":
		return m.applySelectedTheme()
	}
	return m, nil
}

// applySelectedTheme makes the selection permanent: the config's theme
// name changes, overrides reset, and the saver persists the result.
func (m Model) applySelectedTheme() (tea.Model, tea.Cmd) {
	ts := m.themeSwitcher
	if ts == nil || ts.selected < 0 || ts.selected >= len(ts.filtered) {
		return m, nil
	}
	entry := ts.filtered[ts.selected]

	styles.ApplyTheme(entry.Key)
	m.cfg.UI.Theme.Name = entry.Key
	m.cfg.UI.Theme.Overrides = make(map[string]string)
	if m.saver != nil {
		m.saver.Save(m.cfg)
	}
	m.themeSwitcher = nil
	m.ShowToast("Theme: "+entry.Name, 3*time.Second, false)
	return m, nil
}
