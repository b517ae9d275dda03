// Package todos implements the todo list plugin. Every incomplete todo
// carries a "done" control that, in the default variant, does not want to
// be clicked: it spins and shrinks under the pointer, slides away on
// hover, and demands a three-step confirmation before it gives in. The
// kind_controls feature flag swaps in an ordinary one-click control.
package todos

import (
	"math/rand/v2"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/wilbur182/grudge/internal/config"
	"github.com/wilbur182/grudge/internal/features"
	"github.com/wilbur182/grudge/internal/interaction"
	"github.com/wilbur182/grudge/internal/journal"
	"github.com/wilbur182/grudge/internal/modal"
	"github.com/wilbur182/grudge/internal/mouse"
	appmsg "github.com/wilbur182/grudge/internal/msg"
	"github.com/wilbur182/grudge/internal/palette"
	"github.com/wilbur182/grudge/internal/plugin"
	"github.com/wilbur182/grudge/internal/store"
	"github.com/wilbur182/grudge/internal/ui"
)

const (
	pluginID   = "todos"
	pluginName = "Todos"
	pluginIcon = "✓"
)

// viewMode tracks which surface currently owns keyboard and mouse input.
type viewMode int

const (
	modeList viewMode = iota
	modeAdd
	modeEdit
	modeDelete
	modeConfirm
	modeExport
)

// Plugin implements the todo list plugin.
type Plugin struct {
	ctx     *plugin.Context
	focused bool
	width   int
	height  int

	// List state
	todos     []store.Todo
	loading   bool
	loadErr   error
	cursor    int
	scrollOff int
	skeleton  ui.Skeleton

	// Completion interaction: one control per todo, one coordinator per
	// rendered list.
	coord    *interaction.Coordinator
	controls map[string]*Control
	tuning   interaction.Tuning
	rng      *rand.Rand
	kind     bool

	// Commands queued by completion callbacks. Callbacks run synchronously
	// inside a control transition and cannot return a tea.Cmd themselves,
	// so they stage work here and the triggering handler flushes it.
	pending []tea.Cmd

	// Mouse
	mouseHandler *mouse.Handler
	modalHandler *mouse.Handler

	// Store watcher for external edits
	watcher    *store.Watcher
	watcherErr error

	// Modal state
	mode viewMode

	taskModal      *modal.Modal
	taskModalWidth int
	taskInput      textinput.Model
	editID         string

	deleteModal      *modal.Modal
	deleteModalWidth int
	deleteID         string

	confirmModal      *modal.Modal
	confirmModalWidth int
	confirmID         string
	confirmStage      int

	exportModal       *modal.Modal
	exportModalWidth  int
	exportFormatIdx   int
	exportIncludeDone bool
}

// Compile-time interface assertions.
var _ plugin.Plugin = (*Plugin)(nil)
var _ plugin.TextInputConsumer = (*Plugin)(nil)
var _ plugin.DiagnosticProvider = (*Plugin)(nil)

// New creates a new Todos plugin.
func New() *Plugin {
	return &Plugin{}
}

// ID returns the plugin identifier.
func (p *Plugin) ID() string { return pluginID }

// Name returns the plugin display name.
func (p *Plugin) Name() string { return pluginName }

// Icon returns the plugin icon character.
func (p *Plugin) Icon() string { return pluginIcon }

// Init initializes the plugin with context.
func (p *Plugin) Init(ctx *plugin.Context) error {
	p.ctx = ctx
	p.todos = nil
	p.loading = true
	p.loadErr = nil
	p.cursor = 0
	p.scrollOff = 0
	p.mode = modeList
	p.pending = nil

	p.coord = interaction.NewCoordinator()
	p.controls = make(map[string]*Control)
	p.tuning = tuningFromConfig(ctx.Config)
	p.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	p.kind = features.IsEnabled(features.KindControls.Name)

	p.mouseHandler = mouse.NewHandler()
	p.modalHandler = mouse.NewHandler()
	p.skeleton = ui.NewSkeleton(6, nil)

	if ctx.Keymap != nil {
		ctx.Keymap.RegisterPluginBinding("a", "add", pluginID)
		ctx.Keymap.RegisterPluginBinding("e", "edit", pluginID)
		ctx.Keymap.RegisterPluginBinding("d", "delete", pluginID)
		ctx.Keymap.RegisterPluginBinding("x", "export", pluginID)
		ctx.Keymap.RegisterPluginBinding("y", "yank", pluginID)
	}

	w, err := store.NewWatcher(ctx.Store.Path())
	if err != nil {
		p.watcherErr = err
		ctx.Logger.Warn("todos: file watcher unavailable", "error", err)
	} else {
		p.watcher = w
	}
	return nil
}

// tuningFromConfig maps the controls section of the config onto the
// interaction tuning knobs. Values arrive already validated and clamped.
func tuningFromConfig(cfg *config.Config) interaction.Tuning {
	t := interaction.DefaultTuning()
	if cfg == nil {
		return t
	}
	c := cfg.Controls
	t.ClickThreshold = c.ClicksToConfirm
	t.EscapeMin = c.EscapeMin
	t.EscapeMax = c.EscapeMax
	t.FatiguedMin = c.FatiguedEscapeMin
	t.FatiguedMax = c.FatiguedEscapeMax
	t.FatigueAfter = c.FatigueAfter
	return t
}

// Start begins plugin operation: load the list, animate the skeleton, and
// start listening for external file changes.
func (p *Plugin) Start() tea.Cmd {
	cmds := []tea.Cmd{p.loadCmd(), p.skeleton.Start()}
	if p.watcher != nil {
		cmds = append(cmds, p.watchCmd())
	}
	return tea.Batch(cmds...)
}

// Stop cleans up plugin resources.
func (p *Plugin) Stop() {
	if p.watcher != nil {
		p.watcher.Stop()
		p.watcher = nil
	}
	p.todos = nil
	p.controls = nil
	p.pending = nil
}

// loadCmd reads the todo list from disk.
func (p *Plugin) loadCmd() tea.Cmd {
	st := p.ctx.Store
	return func() tea.Msg {
		if err := st.Load(); err != nil {
			return TodosLoadedMsg{Err: err}
		}
		return TodosLoadedMsg{Todos: st.List()}
	}
}

// watchCmd waits for the next change event from the file watcher.
func (p *Plugin) watchCmd() tea.Cmd {
	events := p.watcher.Events()
	return func() tea.Msg {
		if _, ok := <-events; !ok {
			return nil
		}
		return StoreChangedMsg{}
	}
}

// Update handles tea messages.
func (p *Plugin) Update(msg tea.Msg) (plugin.Plugin, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = m.Width
		p.height = m.Height
		return p, nil

	case ui.SkeletonTickMsg:
		if !p.loading {
			return p, nil
		}
		return p, p.skeleton.Update(m)

	case TodosLoadedMsg:
		p.loading = false
		p.skeleton.Stop()
		if m.Err != nil {
			p.loadErr = m.Err
			p.ctx.Logger.Error("todos: load failed", "error", m.Err)
			return p, nil
		}
		p.loadErr = nil
		p.todos = m.Todos
		p.syncControls()
		if p.mode == modeConfirm && p.controls[p.confirmID] == nil {
			p.closeConfirm()
		}
		p.pruneJournal()
		return p, nil

	case StoreChangedMsg:
		cmds := []tea.Cmd{p.loadCmd()}
		if p.watcher != nil {
			cmds = append(cmds, p.watchCmd())
		}
		return p, tea.Batch(cmds...)

	case palette.CommandSelectedMsg:
		return p.runCommand(m.CommandID)

	case tea.KeyMsg:
		return p.handleKey(m)

	case tea.MouseMsg:
		return p.handleMouse(m)
	}
	return p, nil
}

// handleKey routes a key press to whichever surface owns input.
func (p *Plugin) handleKey(msg tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	switch p.mode {
	case modeAdd, modeEdit:
		cmd, _ := p.handleTaskModalKey(msg)
		return p, cmd
	case modeDelete:
		cmd, _ := p.handleDeleteModalKey(msg)
		return p, cmd
	case modeConfirm:
		cmd, _ := p.handleConfirmModalKey(msg)
		return p, cmd
	case modeExport:
		cmd, _ := p.handleExportModalKey(msg)
		return p, cmd
	}
	return p.handleListKey(msg)
}

// handleListKey handles keyboard input while the plain list has focus.
func (p *Plugin) handleListKey(msg tea.KeyMsg) (plugin.Plugin, tea.Cmd) {
	if p.loading {
		return p, nil
	}
	if p.loadErr != nil {
		if msg.String() == "r" {
			p.loading = true
			p.loadErr = nil
			return p, tea.Batch(p.loadCmd(), p.skeleton.Start())
		}
		return p, nil
	}

	switch msg.String() {
	case "up", "k":
		p.moveCursor(-1)
	case "down", "j":
		p.moveCursor(1)
	case "g", "home":
		p.cursor = 0
	case "G", "end":
		if len(p.todos) > 0 {
			p.cursor = len(p.todos) - 1
		}
	case "enter", " ":
		return p, p.activateSelected()
	case "a":
		return p, p.openTaskModal("")
	case "e":
		if t, ok := p.selectedTodo(); ok {
			return p, p.openTaskModal(t.ID)
		}
	case "d":
		if _, ok := p.selectedTodo(); ok {
			return p, p.openDeleteModal()
		}
	case "x":
		if len(p.todos) > 0 {
			return p, p.openExportModal()
		}
	case "y":
		if t, ok := p.selectedTodo(); ok {
			return p, yankTodoText(t.Text)
		}
	}
	return p, nil
}

// runCommand executes a palette command.
func (p *Plugin) runCommand(id string) (plugin.Plugin, tea.Cmd) {
	if p.mode != modeList || p.loading {
		return p, nil
	}
	switch id {
	case "add":
		return p, p.openTaskModal("")
	case "edit":
		if t, ok := p.selectedTodo(); ok {
			return p, p.openTaskModal(t.ID)
		}
	case "delete":
		if _, ok := p.selectedTodo(); ok {
			return p, p.openDeleteModal()
		}
	case "export":
		if len(p.todos) > 0 {
			return p, p.openExportModal()
		}
	case "yank":
		if t, ok := p.selectedTodo(); ok {
			return p, yankTodoText(t.Text)
		}
	}
	return p, nil
}

// activateSelected is the keyboard path onto a row's control: pressing
// Enter or Space counts as a click on the done control. Completed rows
// reopen instead, with no ceremony.
func (p *Plugin) activateSelected() tea.Cmd {
	t, ok := p.selectedTodo()
	if !ok {
		return nil
	}
	if t.Completed {
		return p.reopenTodo(t.ID)
	}
	return p.clickControl(t.ID)
}

// clickControl delivers a click to the given todo's control and follows
// up on whatever the transition caused: a dialog opening, or in the kind
// variant, immediate completion.
func (p *Plugin) clickControl(id string) tea.Cmd {
	ctrl := p.controls[id]
	if ctrl == nil {
		return nil
	}
	ctrl.Click()
	p.recordEvent(id, journal.EventClick, ctrl.State().ClickCount)
	if ctrl.DialogOpen() {
		p.openConfirm(id)
	}
	return p.flushPending(nil)
}

// reopenTodo flips a completed todo back to open. The control is reset so
// a later completion starts the whole grudge over from scratch.
func (p *Plugin) reopenTodo(id string) tea.Cmd {
	if err := p.ctx.Store.SetCompleted(id, false); err != nil {
		p.ctx.Logger.Error("todos: reopen failed", "id", id, "error", err)
		return appmsg.ShowErrorToast("Reopen failed: "+err.Error(), 3*time.Second)
	}
	if ctrl := p.controls[id]; ctrl != nil {
		ctrl.Reset()
	}
	p.refreshFromStore()
	return nil
}

// handleComplete is the completion callback wired into every control. It
// runs synchronously inside the Complete edge, so commands are staged on
// p.pending rather than returned.
func (p *Plugin) handleComplete(id string) {
	clicks := 0
	if ctrl := p.controls[id]; ctrl != nil {
		clicks = ctrl.State().ClickCount
	}
	if err := p.ctx.Store.SetCompleted(id, true); err != nil {
		p.ctx.Logger.Error("todos: complete failed", "id", id, "error", err)
		p.pending = append(p.pending, appmsg.ShowErrorToast("Complete failed: "+err.Error(), 3*time.Second))
		return
	}
	p.recordEvent(id, journal.EventComplete, clicks)
	p.refreshFromStore()

	toast := "Todo completed"
	if !p.kind {
		toast = "Done. Happy now?"
	}
	p.pending = append(p.pending, appmsg.ShowToast(toast, 3*time.Second))
	p.ctx.Logger.Info("todos: completed", "id", id, "clicks", clicks)
}

// flushPending batches any callback-staged commands with cmd and clears
// the queue.
func (p *Plugin) flushPending(cmd tea.Cmd) tea.Cmd {
	if len(p.pending) == 0 {
		return cmd
	}
	cmds := append(p.pending, cmd)
	p.pending = nil
	return tea.Batch(cmds...)
}

// refreshFromStore re-reads the in-memory list after a mutation.
func (p *Plugin) refreshFromStore() {
	p.todos = p.ctx.Store.List()
	p.syncControls()
}

// syncControls creates controls for new todos and drops controls whose
// todos are gone. Existing controls keep their accumulated state.
func (p *Plugin) syncControls() {
	seen := make(map[string]bool, len(p.todos))
	for _, t := range p.todos {
		seen[t.ID] = true
		if _, ok := p.controls[t.ID]; !ok {
			p.controls[t.ID] = NewControl(t.ID, p.coord, ControlConfig{
				Tuning:     p.tuning,
				Rand:       p.rng,
				Kind:       p.kind,
				OnComplete: p.handleComplete,
			})
		}
	}
	for id := range p.controls {
		if !seen[id] {
			p.coord.Clear(id)
			delete(p.controls, id)
		}
	}
	if p.cursor >= len(p.todos) {
		p.cursor = len(p.todos) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

// recordEvent writes a control event to the journal. Journal trouble is
// logged and otherwise ignored.
func (p *Plugin) recordEvent(id, event string, detail int) {
	if p.ctx.Journal == nil {
		return
	}
	if err := p.ctx.Journal.Record(id, event, detail); err != nil {
		p.ctx.Logger.Warn("todos: journal write failed", "event", event, "error", err)
	}
}

// pruneJournal drops journal rows for todos that no longer exist.
func (p *Plugin) pruneJournal() {
	if p.ctx.Journal == nil {
		return
	}
	keep := make([]string, 0, len(p.todos))
	for _, t := range p.todos {
		keep = append(keep, t.ID)
	}
	if err := p.ctx.Journal.Prune(keep); err != nil {
		p.ctx.Logger.Warn("todos: journal prune failed", "error", err)
	}
}

func (p *Plugin) selectedTodo() (store.Todo, bool) {
	if p.cursor < 0 || p.cursor >= len(p.todos) {
		return store.Todo{}, false
	}
	return p.todos[p.cursor], true
}

func (p *Plugin) moveCursor(delta int) {
	if len(p.todos) == 0 {
		p.cursor = 0
		return
	}
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= len(p.todos) {
		p.cursor = len(p.todos) - 1
	}
}

// indexOfTodo returns the list index for a todo ID, or -1.
func (p *Plugin) indexOfTodo(id string) int {
	for i, t := range p.todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// yankTodoText copies a todo's text to the system clipboard.
func yankTodoText(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return appmsg.ToastMsg{Message: "Copy failed: " + err.Error(), Duration: 2 * time.Second, IsError: true}
		}
		return appmsg.ToastMsg{Message: "Copied to clipboard", Duration: 2 * time.Second}
	}
}

// IsFocused returns whether the plugin is focused.
func (p *Plugin) IsFocused() bool { return p.focused }

// SetFocused sets the focus state.
func (p *Plugin) SetFocused(f bool) { p.focused = f }

// Commands returns the available plugin commands.
func (p *Plugin) Commands() []plugin.Command {
	return []plugin.Command{
		{ID: "add", Name: "Add Todo", Description: "Create a new todo", Context: "todos", Priority: 1, Category: plugin.CategoryEdit},
		{ID: "edit", Name: "Edit Todo", Description: "Edit the selected todo", Context: "todos", Priority: 2, Category: plugin.CategoryEdit},
		{ID: "delete", Name: "Delete Todo", Description: "Delete the selected todo", Context: "todos", Priority: 3, Category: plugin.CategoryActions},
		{ID: "export", Name: "Export", Description: "Export todos as Markdown or JSON", Context: "todos", Priority: 4, Category: plugin.CategoryActions},
		{ID: "yank", Name: "Yank Text", Description: "Copy the selected todo text", Context: "todos", Priority: 5, Category: plugin.CategoryActions},
	}
}

// FocusContext returns the current focus context string.
func (p *Plugin) FocusContext() string {
	if p.mode == modeConfirm {
		return "todos-confirm"
	}
	return "todos"
}

// ConsumesTextInput reports whether a text field currently owns the
// keyboard, which suppresses single-key global shortcuts.
func (p *Plugin) ConsumesTextInput() bool {
	return p.mode == modeAdd || p.mode == modeEdit
}

// Diagnostics reports plugin health for the diagnostics overlay.
func (p *Plugin) Diagnostics() []plugin.Diagnostic {
	diags := []plugin.Diagnostic{}

	storeDiag := plugin.Diagnostic{ID: "todos.store", Status: "ok", Detail: p.ctx.Store.Path()}
	if p.loadErr != nil {
		storeDiag.Status = "degraded"
		storeDiag.Detail = p.loadErr.Error()
	}
	diags = append(diags, storeDiag)

	watchDiag := plugin.Diagnostic{ID: "todos.watcher", Status: "ok", Detail: "watching for external edits"}
	if p.watcherErr != nil {
		watchDiag.Status = "degraded"
		watchDiag.Detail = p.watcherErr.Error()
	}
	diags = append(diags, watchDiag)

	journalDiag := plugin.Diagnostic{ID: "todos.journal", Status: "disabled", Detail: "event journal off"}
	if p.ctx.Journal != nil {
		journalDiag.Status = "ok"
		journalDiag.Detail = p.ctx.Journal.Path()
	}
	diags = append(diags, journalDiag)

	return diags
}
