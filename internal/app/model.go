// Package app is the shell around the plugins: it owns the window, the
// header and footer, global key dispatch, and the overlay surfaces
// (command palette, help, theme switcher, diagnostics, quit confirm).
// Plugins never see chrome; they get a clean frame under the header and
// mouse coordinates local to it.
package app

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/wilbur182/grudge/internal/config"
	"github.com/wilbur182/grudge/internal/features"
	"github.com/wilbur182/grudge/internal/keymap"
	"github.com/wilbur182/grudge/internal/markdown"
	"github.com/wilbur182/grudge/internal/modal"
	"github.com/wilbur182/grudge/internal/mouse"
	"github.com/wilbur182/grudge/internal/palette"
	"github.com/wilbur182/grudge/internal/plugin"
	"github.com/wilbur182/grudge/internal/version"
)

// headerHeight is the number of rows the header bar occupies above the
// plugin area. Mouse events forwarded to the active plugin are shifted
// up by this much so plugins work in their own coordinates.
const headerHeight = 1

// Options bundles everything the shell needs at startup.
type Options struct {
	Config   *config.Config
	Registry *plugin.Registry
	Keymap   *keymap.Registry
	Saver    *config.AsyncSaver

	// Version is the running build's version string, used for the
	// footer and the release check.
	Version string

	// DocName is the base name of the todo file, shown in the header
	// next to the wordmark.
	DocName string

	Debug bool
}

// Model is the root Bubble Tea model.
type Model struct {
	cfg   *config.Config
	saver *config.AsyncSaver

	registry     *plugin.Registry
	activePlugin int

	keymap        *keymap.Registry
	activeContext string

	width  int
	height int
	ready  bool
	debug  bool

	docName string
	intro   IntroModel

	// Overlays. At most one shows at a time; opening one closes the
	// rest.
	showPalette bool
	palette     palette.Model

	showHelp     bool
	helpLines    []string
	helpScroll   int
	helpRenderer *markdown.Renderer

	// themeSwitcher is non-nil while the switcher is open. It lives on
	// the heap so its textinput survives the value-copied Model.
	themeSwitcher *themeSwitcherState

	showDiagnostics bool
	diagModal       *modal.Modal
	diagModalWidth  int

	showQuitConfirm bool
	quitModal       *modal.Modal
	quitModalWidth  int

	// overlayMouse is shared by the shell's modals; whichever modal is
	// open owns the regions. Cleared on every open.
	overlayMouse *mouse.Handler

	showFooter bool
	showClock  bool
	clock      time.Time

	statusMsg     string
	statusExpiry  time.Time
	statusIsError bool

	currentVersion  string
	updateAvailable *version.UpdateAvailableMsg
	updateRunning   bool
	updateErr       string
	needsRestart    bool
}

// New builds the shell model. The intro splash runs unless the feature
// flag disabled it.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	km := opts.Keymap
	if km == nil {
		km = keymap.NewRegistry()
	}
	reg := opts.Registry
	if reg == nil {
		reg = plugin.NewRegistry(nil)
	}

	m := Model{
		cfg:            cfg,
		saver:          opts.Saver,
		registry:       reg,
		keymap:         km,
		docName:        opts.DocName,
		debug:          opts.Debug,
		currentVersion: opts.Version,
		palette:        palette.New(),
		overlayMouse:   mouse.NewHandler(),
		showFooter:     cfg.UI.ShowFooter,
		showClock:      cfg.UI.ShowClock,
		clock:          time.Now(),
	}

	if features.IsEnabled(features.IntroSplash.Name) {
		m.intro = NewIntroModel(opts.DocName)
	} else {
		m.intro = IntroModel{DocName: opts.DocName, Done: true, DocOpacity: 1.0}
	}

	m.registerGlobalCommands()

	if p := m.active(); p != nil {
		m.activeContext = p.FocusContext()
		p.SetFocused(true)
	} else {
		m.activeContext = "global"
	}

	return m
}

// Init starts the heartbeat, the intro animation, the release check,
// and every registered plugin.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if m.intro.Active {
		cmds = append(cmds, IntroTick())
	}
	cmds = append(cmds, version.CheckAsync(m.currentVersion))
	cmds = append(cmds, m.registry.Start()...)
	return tea.Batch(cmds...)
}

// active returns the focused plugin, or nil when none are registered.
func (m Model) active() plugin.Plugin {
	plugins := m.registry.Plugins()
	if m.activePlugin < 0 || m.activePlugin >= len(plugins) {
		return nil
	}
	return plugins[m.activePlugin]
}

// ShowToast displays a transient message in the footer area.
func (m *Model) ShowToast(text string, d time.Duration, isError bool) {
	m.statusMsg = text
	m.statusExpiry = time.Now().Add(d)
	m.statusIsError = isError
}

// ClearToast removes the toast immediately.
func (m *Model) ClearToast() {
	m.statusMsg = ""
	m.statusExpiry = time.Time{}
	m.statusIsError = false
}

// closeOverlays dismisses every shell overlay. Opening a new one calls
// this first so they never stack. A previewing theme switcher reverts.
func (m *Model) closeOverlays() {
	m.showPalette = false
	m.showHelp = false
	m.cancelThemeSwitcher()
	m.showDiagnostics = false
	m.showQuitConfirm = false
	// An overlay takes the keyboard; a half-typed key sequence must not
	// complete against whatever surface gets focus afterwards.
	m.keymap.ResetPending()
}

// anyOverlayOpen reports whether a shell overlay currently owns input.
func (m Model) anyOverlayOpen() bool {
	return m.showPalette || m.showHelp || m.themeSwitcher != nil ||
		m.showDiagnostics || m.showQuitConfirm
}

// saveUIState queues the current UI toggles for a debounced write.
func (m *Model) saveUIState() {
	m.cfg.UI.ShowFooter = m.showFooter
	m.cfg.UI.ShowClock = m.showClock
	if m.saver != nil {
		m.saver.Save(m.cfg)
	}
}

// finishIntro retires the splash and records that it has played, so it
// only runs again via the intro flag.
func (m *Model) finishIntro() {
	m.intro.Active = false
	if m.cfg.Features.Flags == nil {
		m.cfg.Features.Flags = make(map[string]bool)
	}
	if v, seen := m.cfg.Features.Flags[features.IntroSplash.Name]; !seen || v {
		m.cfg.Features.Flags[features.IntroSplash.Name] = false
		if m.saver != nil {
			m.saver.Save(m.cfg)
		}
	}
}

// doUpdateCmd runs the self-update in the background. It reinstalls the
// binary at the latest tag; the running process keeps going until the
// user restarts.
func (m Model) doUpdateCmd() tea.Cmd {
	if m.updateAvailable == nil {
		return nil
	}
	tag := m.updateAvailable.LatestVersion
	return func() tea.Msg {
		target := "github.com/wilbur182/grudge/cmd/grudge@" + tag
		out, err := exec.Command("go", "install", target).CombinedOutput()
		if err != nil {
			detail := strings.TrimSpace(string(out))
			if detail != "" {
				return updateFinishedMsg{err: fmt.Errorf("go install %s: %w: %s", tag, err, detail)}
			}
			return updateFinishedMsg{err: fmt.Errorf("go install %s: %w", tag, err)}
		}
		return updateFinishedMsg{}
	}
}
