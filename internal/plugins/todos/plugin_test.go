package todos

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/wilbur182/grudge/internal/config"
	"github.com/wilbur182/grudge/internal/interaction"
	"github.com/wilbur182/grudge/internal/palette"
	"github.com/wilbur182/grudge/internal/plugin"
	"github.com/wilbur182/grudge/internal/store"
)

const (
	testW = 80
	testH = 24
)

// newTestPlugin builds an initialized plugin over a temp-dir store with a
// discard logger and no journal.
func newTestPlugin(t *testing.T) *Plugin {
	t.Helper()
	dir := t.TempDir()
	st := store.New(filepath.Join(dir, "todos.json"))
	if err := st.Load(); err != nil {
		t.Fatalf("load store: %v", err)
	}

	p := New()
	ctx := &plugin.Context{
		ConfigDir: dir,
		Config:    config.Default(),
		Store:     st,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if err := p.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(p.Stop)
	return p
}

// seedTodos adds todos through the store and delivers them the way the
// startup load would, then renders once so mouse regions and modal focus
// exist.
func seedTodos(t *testing.T, p *Plugin, texts ...string) {
	t.Helper()
	for _, text := range texts {
		if _, err := p.ctx.Store.Add(text); err != nil {
			t.Fatalf("add %q: %v", text, err)
		}
	}
	p.Update(TodosLoadedMsg{Todos: p.ctx.Store.List()})
	p.View(testW, testH)
}

// press delivers a key and renders, like one pass of the event loop.
func press(p *Plugin, msg tea.KeyMsg) tea.Cmd {
	_, cmd := p.Update(msg)
	p.View(testW, testH)
	return cmd
}

func pressRune(p *Plugin, r rune) tea.Cmd {
	return press(p, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func typeText(p *Plugin, s string) {
	for _, r := range s {
		pressRune(p, r)
	}
}

func click(p *Plugin, x, y int) tea.Cmd {
	_, cmd := p.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	p.View(testW, testH)
	return cmd
}

func motion(p *Plugin, x, y int) {
	p.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion})
	p.View(testW, testH)
}

// completeFirstTodo walks the full ceremony on the first row: threshold
// clicks via enter, then every confirm stage via y.
func completeFirstTodo(t *testing.T, p *Plugin) tea.Cmd {
	t.Helper()
	for i := 0; i < interaction.DefaultClickThreshold; i++ {
		press(p, tea.KeyMsg{Type: tea.KeyEnter})
	}
	if p.mode != modeConfirm {
		t.Fatalf("mode = %d after threshold clicks, want confirm dialog", p.mode)
	}
	var cmd tea.Cmd
	for i := 0; i < interaction.Stages(); i++ {
		cmd = pressRune(p, 'y')
	}
	if p.mode != modeList {
		t.Fatalf("mode = %d after full confirm chain, want list", p.mode)
	}
	return cmd
}

func stripView(p *Plugin) string {
	return ansi.Strip(p.View(testW, testH))
}

func TestPluginIdentity(t *testing.T) {
	p := New()
	if p == nil {
		t.Fatal("expected non-nil plugin")
	}
	if p.ID() != "todos" {
		t.Errorf("ID = %q, want todos", p.ID())
	}
	if p.Name() != "Todos" {
		t.Errorf("Name = %q, want Todos", p.Name())
	}
	if p.Icon() != "✓" {
		t.Errorf("Icon = %q, want ✓", p.Icon())
	}
}

func TestInitDefaults(t *testing.T) {
	p := newTestPlugin(t)
	if !p.loading {
		t.Error("expected loading after Init")
	}
	if p.mode != modeList {
		t.Errorf("mode = %d, want list", p.mode)
	}
	if p.kind {
		t.Error("kind variant enabled without the flag")
	}
	if p.tuning != interaction.DefaultTuning() {
		t.Errorf("tuning = %+v, want defaults", p.tuning)
	}

	diags := p.Diagnostics()
	if len(diags) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", len(diags))
	}
	if diags[0].ID != "todos.store" || diags[0].Status != "ok" {
		t.Errorf("store diagnostic = %+v", diags[0])
	}
	if diags[1].ID != "todos.watcher" || diags[1].Status != "ok" {
		t.Errorf("watcher diagnostic = %+v", diags[1])
	}
	if diags[2].ID != "todos.journal" || diags[2].Status != "disabled" {
		t.Errorf("journal diagnostic = %+v", diags[2])
	}
}

func TestStartReturnsLoadCommand(t *testing.T) {
	p := newTestPlugin(t)
	if cmd := p.Start(); cmd == nil {
		t.Error("expected non-nil start command")
	}
}

func TestLoadedPopulatesListAndControls(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p, "buy milk", "walk dog")

	if p.loading {
		t.Error("still loading after TodosLoadedMsg")
	}
	if len(p.todos) != 2 {
		t.Fatalf("got %d todos, want 2", len(p.todos))
	}
	for _, todo := range p.todos {
		if p.controls[todo.ID] == nil {
			t.Errorf("no control for %q", todo.Text)
		}
	}

	view := stripView(p)
	if !strings.Contains(view, "buy milk") || !strings.Contains(view, "walk dog") {
		t.Errorf("view missing todo text:\n%s", view)
	}
	if !strings.Contains(view, "done") {
		t.Errorf("view missing the done control:\n%s", view)
	}
	if !strings.Contains(view, "(2 open, 0 done)") {
		t.Errorf("view missing counts header:\n%s", view)
	}
}

func TestLoadErrorShowsRetry(t *testing.T) {
	p := newTestPlugin(t)
	p.Update(TodosLoadedMsg{Err: errors.New("disk exploded")})

	view := stripView(p)
	if !strings.Contains(view, "disk exploded") {
		t.Errorf("view missing error:\n%s", view)
	}
	if !strings.Contains(view, "r to retry") {
		t.Errorf("view missing retry hint:\n%s", view)
	}

	cmd := pressRune(p, 'r')
	if cmd == nil {
		t.Error("retry returned no command")
	}
	if !p.loading {
		t.Error("retry did not enter loading state")
	}
	if p.loadErr != nil {
		t.Error("retry kept the old error")
	}
}

func TestEmptyListHint(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p)
	view := stripView(p)
	if !strings.Contains(view, "No todos yet") {
		t.Errorf("view missing empty hint:\n%s", view)
	}
}

func TestAddFlowThroughModal(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p)

	pressRune(p, 'a')
	if p.mode != modeAdd {
		t.Fatalf("mode = %d after a, want add modal", p.mode)
	}
	if !p.ConsumesTextInput() {
		t.Error("add modal does not consume text input")
	}
	if view := stripView(p); !strings.Contains(view, "Add Todo") {
		t.Errorf("view missing modal title:\n%s", view)
	}

	typeText(p, "pay rent")
	press(p, tea.KeyMsg{Type: tea.KeyEnter})

	if p.mode != modeList {
		t.Fatalf("mode = %d after save, want list", p.mode)
	}
	if p.ConsumesTextInput() {
		t.Error("list mode still consumes text input")
	}
	if p.ctx.Store.Len() != 1 {
		t.Fatalf("store has %d todos, want 1", p.ctx.Store.Len())
	}
	if p.todos[0].Text != "pay rent" {
		t.Errorf("saved text = %q, want %q", p.todos[0].Text, "pay rent")
	}
	if p.cursor != 0 {
		t.Errorf("cursor = %d, want the new todo selected", p.cursor)
	}
}

func TestAddRejectsEmptyText(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p)

	pressRune(p, 'a')
	cmd := press(p, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("empty save returned no toast command")
	}
	if p.mode != modeAdd {
		t.Error("empty save closed the modal")
	}
	if p.ctx.Store.Len() != 0 {
		t.Errorf("store has %d todos, want 0", p.ctx.Store.Len())
	}
}

func TestEscCancelsAddModal(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p)

	pressRune(p, 'a')
	typeText(p, "never mind")
	press(p, tea.KeyMsg{Type: tea.KeyEsc})

	if p.mode != modeList {
		t.Errorf("mode = %d after esc, want list", p.mode)
	}
	if p.ctx.Store.Len() != 0 {
		t.Error("cancelled add still saved")
	}
}

func TestEditFlowPrefillsAndSaves(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p, "one", "two")

	press(p, tea.KeyMsg{Type: tea.KeyDown})
	pressRune(p, 'e')

	if p.mode != modeEdit {
		t.Fatalf("mode = %d after e, want edit modal", p.mode)
	}
	if p.editID != p.todos[1].ID {
		t.Errorf("editID = %q, want %q", p.editID, p.todos[1].ID)
	}
	if p.taskInput.Value() != "two" {
		t.Errorf("input prefill = %q, want %q", p.taskInput.Value(), "two")
	}

	typeText(p, "!")
	press(p, tea.KeyMsg{Type: tea.KeyEnter})

	got, err := p.ctx.Store.Get(p.todos[1].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Text != "two!" {
		t.Errorf("text after edit = %q, want %q", got.Text, "two!")
	}
}

func TestDeleteFlow(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p, "keep me", "delete me")

	press(p, tea.KeyMsg{Type: tea.KeyDown})
	pressRune(p, 'd')
	if p.mode != modeDelete {
		t.Fatalf("mode = %d after d, want delete modal", p.mode)
	}
	if view := stripView(p); !strings.Contains(view, "delete me") {
		t.Errorf("delete modal missing todo text:\n%s", view)
	}

	// The delete button holds initial focus.
	cmd := press(p, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("delete returned no toast command")
	}
	if p.mode != modeList {
		t.Errorf("mode = %d after delete, want list", p.mode)
	}
	if p.ctx.Store.Len() != 1 {
		t.Fatalf("store has %d todos, want 1", p.ctx.Store.Len())
	}
	if p.todos[0].Text != "keep me" {
		t.Errorf("survivor = %q, want %q", p.todos[0].Text, "keep me")
	}
}

func TestEscCancelsDelete(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p, "still here")

	pressRune(p, 'd')
	press(p, tea.KeyMsg{Type: tea.KeyEsc})
	if p.mode != modeList {
		t.Errorf("mode = %d after esc, want list", p.mode)
	}
	if p.ctx.Store.Len() != 1 {
		t.Error("cancelled delete removed the todo")
	}
}

func TestThresholdClicksOpenConfirm(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p, "stubborn task")
	ctrl := p.controls[p.todos[0].ID]

	for i := 0; i < interaction.DefaultClickThreshold-1; i++ {
		press(p, tea.KeyMsg{Type: tea.KeyEnter})
		if p.mode != modeList {
			t.Fatalf("dialog opened after %d activations", i+1)
		}
	}
	if ctrl.DialogOpen() {
		t.Fatal("control dialog open below threshold")
	}

	press(p, tea.KeyMsg{Type: tea.KeyEnter})
	if p.mode != modeConfirm {
		t.Fatalf("mode = %d at threshold, want confirm dialog", p.mode)
	}
	if p.confirmID != p.todos[0].ID {
		t.Errorf("confirmID = %q, want %q", p.confirmID, p.todos[0].ID)
	}
	if ctrl.Stage() != 1 {
		t.Errorf("stage = %d, want 1", ctrl.Stage())
	}
	if view := stripView(p); !strings.Contains(view, "Are you sure") {
		t.Errorf("view missing stage 1 message:\n%s", view)
	}
}

func TestConfirmChainCompletesTodo(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p, "stubborn task")
	id := p.todos[0].ID

	for i := 0; i < interaction.DefaultClickThreshold; i++ {
		press(p, tea.KeyMsg{Type: tea.KeyEnter})
	}

	pressRune(p, 'y')
	if got := p.controls[id].Stage(); got != 2 {
		t.Fatalf("stage after first y = %d, want 2", got)
	}
	if view := stripView(p); !strings.Contains(view, "Really?") {
		t.Errorf("view missing stage 2 message:\n%s", view)
	}

	pressRune(p, 'y')
	if got := p.controls[id].Stage(); got != 3 {
		t.Fatalf("stage after second y = %d, want 3", got)
	}
	if view := stripView(p); !strings.Contains(view, "FINAL WARNING") {
		t.Errorf("view missing stage 3 message:\n%s", view)
	}

	cmd := pressRune(p, 'y')
	if cmd == nil {
		t.Error("completion returned no toast command")
	}
	if p.mode != modeList {
		t.Errorf("mode = %d after final y, want list", p.mode)
	}
	got, err := p.ctx.Store.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Completed {
		t.Error("todo not completed in the store")
	}
	if !p.controls[id].Complete() {
		t.Error("control not complete")
	}
	if view := stripView(p); !strings.Contains(view, "✓ stubborn task") {
		t.Errorf("completed row missing checkmark:\n%s", view)
	}
}

func TestConfirmCancelKeepsGate(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p, "stubborn task")
	id := p.todos[0].ID

	for i := 0; i < interaction.DefaultClickThreshold; i++ {
		press(p, tea.KeyMsg{Type: tea.KeyEnter})
	}
	pressRune(p, 'n')

	if p.mode != modeList {
		t.Fatalf("mode = %d after n, want list", p.mode)
	}
	got, _ := p.ctx.Store.Get(id)
	if got.Completed {
		t.Fatal("cancel completed the todo")
	}
	if clicks := p.controls[id].State().ClickCount; clicks != interaction.DefaultClickThreshold {
		t.Errorf("ClickCount = %d after cancel, want %d", clicks, interaction.DefaultClickThreshold)
	}

	// The gate stays met: one more activation reopens stage one.
	press(p, tea.KeyMsg{Type: tea.KeyEnter})
	if p.mode != modeConfirm {
		t.Error("post-cancel activation did not reopen the dialog")
	}
	if got := p.controls[id].Stage(); got != 1 {
		t.Errorf("reopened stage = %d, want 1", got)
	}
}

func TestEscCancelsConfirm(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p, "stubborn task")

	for i := 0; i < interaction.DefaultClickThreshold; i++ {
		press(p, tea.KeyMsg{Type: tea.KeyEnter})
	}
	press(p, tea.KeyMsg{Type: tea.KeyEsc})

	if p.mode != modeList {
		t.Errorf("mode = %d after esc, want list", p.mode)
	}
	if got, _ := p.ctx.Store.Get(p.todos[0].ID); got.Completed {
		t.Error("esc completed the todo")
	}
}

func TestReopenResetsTheCeremony(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p, "on again off again")
	id := p.todos[0].ID

	completeFirstTodo(t, p)

	// Activating a completed row reopens it and resets its control.
	press(p, tea.KeyMsg{Type: tea.KeyEnter})
	got, err := p.ctx.Store.Get(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Completed {
		t.Fatal("reopen left the todo completed")
	}
	if p.controls[id].State() != interaction.NewState() {
		t.Errorf("control not reset on reopen: %+v", p.controls[id].State())
	}

	// The whole walk applies again, and the callback fires again.
	completeFirstTodo(t, p)
	got, _ = p.ctx.Store.Get(id)
	if !got.Completed {
		t.Error("second completion did not reach the store")
	}
}

func TestKindControlSkipsCeremony(t *testing.T) {
	p := newTestPlugin(t)
	p.kind = true
	seedTodos(t, p, "easy task")

	cmd := press(p, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("completion returned no toast command")
	}
	if p.mode != modeList {
		t.Errorf("mode = %d, kind control opened a dialog", p.mode)
	}
	got, _ := p.ctx.Store.Get(p.todos[0].ID)
	if !got.Completed {
		t.Error("kind control did not complete the todo")
	}
}

func TestPaletteCommandsRoute(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p, "something")

	p.Update(palette.CommandSelectedMsg{CommandID: "add"})
	if p.mode != modeAdd {
		t.Errorf("mode = %d after add command, want add modal", p.mode)
	}
	press(p, tea.KeyMsg{Type: tea.KeyEsc})

	p.Update(palette.CommandSelectedMsg{CommandID: "export"})
	if p.mode != modeExport {
		t.Errorf("mode = %d after export command, want export modal", p.mode)
	}
}

func TestCommandsDeclared(t *testing.T) {
	p := New()
	cmds := p.Commands()
	if len(cmds) != 5 {
		t.Fatalf("got %d commands, want 5", len(cmds))
	}
	want := []string{"add", "edit", "delete", "export", "yank"}
	for i, id := range want {
		if cmds[i].ID != id {
			t.Errorf("command %d = %q, want %q", i, cmds[i].ID, id)
		}
		if cmds[i].Context != "todos" {
			t.Errorf("command %q context = %q, want todos", id, cmds[i].Context)
		}
	}
}

func TestFocusContextFollowsMode(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p, "task")

	if got := p.FocusContext(); got != "todos" {
		t.Errorf("FocusContext = %q, want todos", got)
	}
	for i := 0; i < interaction.DefaultClickThreshold; i++ {
		press(p, tea.KeyMsg{Type: tea.KeyEnter})
	}
	if got := p.FocusContext(); got != "todos-confirm" {
		t.Errorf("FocusContext in dialog = %q, want todos-confirm", got)
	}
}

func TestExportModalFormatSelection(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p, "task one", "task two")

	pressRune(p, 'x')
	if p.mode != modeExport {
		t.Fatalf("mode = %d after x, want export modal", p.mode)
	}
	view := stripView(p)
	if !strings.Contains(view, "Export Todos") || !strings.Contains(view, "Preview") {
		t.Errorf("export modal missing sections:\n%s", view)
	}
	if p.exportFormatIdx != 0 {
		t.Fatalf("initial format = %d, want 0", p.exportFormatIdx)
	}

	press(p, tea.KeyMsg{Type: tea.KeyDown})
	if p.exportFormatIdx != 1 {
		t.Errorf("format after down = %d, want 1", p.exportFormatIdx)
	}
	if p.exportFormat() != "JSON" {
		t.Errorf("format = %q, want JSON", p.exportFormat())
	}

	press(p, tea.KeyMsg{Type: tea.KeyEsc})
	if p.mode != modeList {
		t.Errorf("mode = %d after esc, want list", p.mode)
	}
}

func TestExportCopyClosesModal(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p, "task")

	pressRune(p, 'x')
	press(p, tea.KeyMsg{Type: tea.KeyTab}) // focus the copy button
	cmd := press(p, tea.KeyMsg{Type: tea.KeyEnter})

	if cmd == nil {
		t.Error("copy returned no command")
	}
	if p.mode != modeList {
		t.Errorf("mode = %d after copy, want list", p.mode)
	}
}

func TestYankReturnsClipboardCmd(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p, "copy this")
	if cmd := pressRune(p, 'y'); cmd == nil {
		t.Error("yank returned no command")
	}
}

func TestCursorNavigation(t *testing.T) {
	p := newTestPlugin(t)
	texts := make([]string, 25)
	for i := range texts {
		texts[i] = fmt.Sprintf("todo %d", i)
	}
	seedTodos(t, p, texts...)

	pressRune(p, 'G')
	if p.cursor != 24 {
		t.Errorf("cursor after G = %d, want 24", p.cursor)
	}
	if p.scrollOff != 5 {
		t.Errorf("scrollOff after G = %d, want 5", p.scrollOff)
	}

	pressRune(p, 'g')
	if p.cursor != 0 {
		t.Errorf("cursor after g = %d, want 0", p.cursor)
	}
	if p.scrollOff != 0 {
		t.Errorf("scrollOff after g = %d, want 0", p.scrollOff)
	}

	pressRune(p, 'j')
	pressRune(p, 'j')
	pressRune(p, 'k')
	if p.cursor != 1 {
		t.Errorf("cursor after jjk = %d, want 1", p.cursor)
	}
}

func TestClickRowMovesCursor(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p, "first", "second", "third")

	click(p, contentX+1, listTopY+1)
	if p.cursor != 1 {
		t.Errorf("cursor = %d after row click, want 1", p.cursor)
	}
}

func TestClickControlCountsAsActivation(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p, "first", "second")
	press(p, tea.KeyMsg{Type: tea.KeyDown}) // cursor away from row 0

	x, _, ok := p.controlGeometry(p.todos[0], p.rowWidth())
	if !ok {
		t.Fatal("no control geometry for an open todo")
	}
	click(p, contentX+x, listTopY)

	if got := p.controls[p.todos[0].ID].State().ClickCount; got != 1 {
		t.Errorf("ClickCount = %d after control click, want 1", got)
	}
	if p.cursor != 0 {
		t.Errorf("cursor = %d, control click should select its row", p.cursor)
	}
}

func TestDoubleClickRowOpensEdit(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p, "double me")

	click(p, contentX+1, listTopY)
	click(p, contentX+1, listTopY)

	if p.mode != modeEdit {
		t.Fatalf("mode = %d after double click, want edit modal", p.mode)
	}
	if p.editID != p.todos[0].ID {
		t.Errorf("editID = %q, want %q", p.editID, p.todos[0].ID)
	}
}

func TestWheelMovesCursor(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p, "a", "b", "c")

	p.Update(tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	if p.cursor != 1 {
		t.Errorf("cursor = %d after wheel down, want 1", p.cursor)
	}
	p.Update(tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	if p.cursor != 0 {
		t.Errorf("cursor = %d after wheel up, want 0", p.cursor)
	}
}

func TestHoverMakesControlEscape(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p, "slippery", "bystander")
	id := p.todos[0].ID

	restX, _, ok := p.controlGeometry(p.todos[0], p.rowWidth())
	if !ok {
		t.Fatal("no control geometry")
	}

	motion(p, contentX+restX, listTopY)
	ctrl := p.controls[id]
	if ctrl.OffsetX() == 0 {
		t.Fatal("hover did not displace the control")
	}
	if ctrl.OffsetX() >= 0 {
		t.Errorf("first escape offset = %d, want leftward", ctrl.OffsetX())
	}
	if !p.coord.IsActive(id) {
		t.Error("hovered control does not hold the displacement slot")
	}

	// Pointer elsewhere on the same row: the offset survives.
	motion(p, contentX+1, listTopY)
	if ctrl.OffsetX() == 0 {
		t.Error("offset reset while the pointer stayed on the row")
	}

	// Pointer on another row: the offset resets and the slot releases.
	motion(p, contentX+1, listTopY+1)
	if ctrl.OffsetX() != 0 {
		t.Errorf("offset = %d after leaving the row, want 0", ctrl.OffsetX())
	}
	if p.coord.ActiveID() != "" {
		t.Errorf("slot still held by %q", p.coord.ActiveID())
	}
}

func TestHoverSiblingStealsSlot(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p, "first", "second")
	first, second := p.todos[0].ID, p.todos[1].ID

	restX, _, _ := p.controlGeometry(p.todos[0], p.rowWidth())
	motion(p, contentX+restX, listTopY)
	if !p.coord.IsActive(first) {
		t.Fatal("first control did not claim the slot")
	}

	restX2, _, _ := p.controlGeometry(p.todos[1], p.rowWidth())
	motion(p, contentX+restX2, listTopY+1)
	if !p.coord.IsActive(second) {
		t.Error("second control did not steal the slot")
	}
	if p.controls[first].OffsetX() != 0 {
		t.Error("displaced sibling still renders an offset")
	}
	if p.controls[first].State().OffsetX != 0 {
		t.Error("sibling's stored displacement was not reset")
	}
}

func TestHitMapTracksDisplacedControl(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p, "chase me")

	restX, bw, ok := p.controlGeometry(p.todos[0], p.rowWidth())
	if !ok {
		t.Fatal("no control geometry")
	}

	// One hover; the view re-registers the control at its new position.
	motion(p, contentX+restX, listTopY)

	newX, _, ok := p.controlGeometry(p.todos[0], p.rowWidth())
	if !ok {
		t.Fatal("control geometry vanished after hover")
	}
	if newX >= restX {
		t.Fatalf("control did not move left: rest %d, now %d", restX, newX)
	}

	if r := p.mouseHandler.HitMap.Test(contentX+newX, listTopY); r == nil || r.ID != regionTodoControl {
		t.Error("displaced position does not hit the control region")
	}
	if r := p.mouseHandler.HitMap.Test(contentX+restX+bw-1, listTopY); r == nil || r.ID != regionTodoRow {
		t.Error("old resting position still hits the control region")
	}
}

func TestCompletedRowHasNoControl(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p, "finish me")
	completeFirstTodo(t, p)

	if _, _, ok := p.controlGeometry(p.todos[0], p.rowWidth()); ok {
		t.Error("completed todo still has control geometry")
	}
}

func TestTuningFromConfig(t *testing.T) {
	if got := tuningFromConfig(nil); got != interaction.DefaultTuning() {
		t.Errorf("nil config tuning = %+v, want defaults", got)
	}
	if got := tuningFromConfig(config.Default()); got != interaction.DefaultTuning() {
		t.Errorf("default config tuning = %+v, want defaults", got)
	}

	cfg := config.Default()
	cfg.Controls.ClicksToConfirm = 5
	if got := tuningFromConfig(cfg).ClickThreshold; got != 5 {
		t.Errorf("ClickThreshold = %d, want 5", got)
	}
}

func TestWindowSizeUpdatesDimensions(t *testing.T) {
	p := newTestPlugin(t)
	p.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	if p.width != 100 || p.height != 30 {
		t.Errorf("size = %dx%d, want 100x30", p.width, p.height)
	}
}

func TestStoreChangedTriggersReload(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p, "task")
	if _, cmd := p.Update(StoreChangedMsg{}); cmd == nil {
		t.Error("external change returned no reload command")
	}
}

func TestExternalDeleteClosesConfirm(t *testing.T) {
	p := newTestPlugin(t)
	seedTodos(t, p, "vanishing")

	for i := 0; i < interaction.DefaultClickThreshold; i++ {
		press(p, tea.KeyMsg{Type: tea.KeyEnter})
	}
	if p.mode != modeConfirm {
		t.Fatal("confirm dialog did not open")
	}

	// The todo disappears in an external edit mid-dialog.
	p.Update(TodosLoadedMsg{Todos: nil})
	if p.mode != modeList {
		t.Errorf("mode = %d after the todo vanished, want list", p.mode)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	p := newTestPlugin(t)
	p.Stop()
	p.Stop()
	if p.watcher != nil {
		t.Error("watcher survived Stop")
	}
}
