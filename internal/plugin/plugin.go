package plugin

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Plugin is the interface all sidebar plugins implement. Plugins are
// self-contained Bubble Tea components hosted by the app shell: the shell
// routes messages to the active plugin and composes its View into the
// layout.
type Plugin interface {
	// ID returns the stable plugin identifier used for focus routing
	// and keymap contexts.
	ID() string

	// Name returns the short display name shown in the header.
	Name() string

	// Icon returns a single-character glyph for compact displays.
	Icon() string

	// Init prepares the plugin with shared resources. Returning an error
	// marks the plugin unavailable without aborting startup.
	Init(ctx *Context) error

	// Start returns the plugin's initial command, if any.
	Start() tea.Cmd

	// Stop releases plugin resources.
	Stop()

	// Update handles a message and returns the updated plugin.
	Update(msg tea.Msg) (Plugin, tea.Cmd)

	// View renders the plugin into the given area.
	View(width, height int) string

	// IsFocused reports whether the plugin currently has input focus.
	IsFocused() bool

	// SetFocused sets the focus state.
	SetFocused(focused bool)

	// Commands returns command metadata for the palette.
	Commands() []Command

	// FocusContext returns the keymap context that should be active,
	// which may be a sub-mode like "todos-confirm".
	FocusContext() string
}

// Category groups commands for palette display.
type Category string

const (
	CategoryNavigation Category = "Navigation"
	CategorySearch     Category = "Search"
	CategoryView       Category = "View"
	CategoryEdit       Category = "Edit"
	CategoryActions    Category = "Actions"
	CategorySystem     Category = "System"
)

// Command describes a palette-visible command exposed by a plugin.
type Command struct {
	ID          string
	Name        string
	Description string
	Context     string
	Priority    int
	Category    Category
}

// Diagnostic is a single health entry for the diagnostics modal.
type Diagnostic struct {
	ID     string
	Status string // "ok", "degraded", "disabled"
	Detail string
}

// DiagnosticProvider is implemented by plugins that report health info.
type DiagnosticProvider interface {
	Diagnostics() []Diagnostic
}

// TextInputConsumer is implemented by plugins that sometimes capture raw
// text input. While ConsumesTextInput reports true, the shell suppresses
// single-key global shortcuts.
type TextInputConsumer interface {
	ConsumesTextInput() bool
}

// PluginFocusedMsg is sent to a plugin when it gains focus.
type PluginFocusedMsg struct {
	ID string
}
