package plugin

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type stubPlugin struct {
	id         string
	initErr    error
	initPanic  bool
	startPanic bool
	startCmd   tea.Cmd
	stops      *[]string
}

func (s *stubPlugin) ID() string   { return s.id }
func (s *stubPlugin) Name() string { return s.id }
func (s *stubPlugin) Icon() string { return "?" }

func (s *stubPlugin) Init(ctx *Context) error {
	if s.initPanic {
		panic("init exploded")
	}
	return s.initErr
}

func (s *stubPlugin) Start() tea.Cmd {
	if s.startPanic {
		panic("start exploded")
	}
	return s.startCmd
}

func (s *stubPlugin) Stop() {
	if s.stops != nil {
		*s.stops = append(*s.stops, s.id)
	}
}

func (s *stubPlugin) Update(msg tea.Msg) (Plugin, tea.Cmd) { return s, nil }
func (s *stubPlugin) View(width, height int) string        { return "" }
func (s *stubPlugin) IsFocused() bool                      { return false }
func (s *stubPlugin) SetFocused(bool)                      {}
func (s *stubPlugin) Commands() []Command                  { return nil }
func (s *stubPlugin) FocusContext() string                 { return s.id }

func TestRegisterAddsActivePlugin(t *testing.T) {
	r := NewRegistry(&Context{})
	p := &stubPlugin{id: "todos"}

	r.Register(p)

	plugins := r.Plugins()
	if len(plugins) != 1 || plugins[0] != p {
		t.Fatalf("Plugins() = %v, want the one registered plugin", plugins)
	}
	if len(r.Unavailable()) != 0 {
		t.Fatal("healthy plugin should not be marked unavailable")
	}
}

func TestRegisterInitErrorDegradesSilently(t *testing.T) {
	r := NewRegistry(&Context{})
	r.Register(&stubPlugin{id: "broken", initErr: errors.New("no database")})

	if len(r.Plugins()) != 0 {
		t.Fatal("failed plugin should not appear in Plugins()")
	}
	if reason := r.Unavailable()["broken"]; reason != "no database" {
		t.Fatalf("Unavailable reason = %q, want %q", reason, "no database")
	}
}

func TestRegisterInitPanicIsRecovered(t *testing.T) {
	r := NewRegistry(&Context{})
	r.Register(&stubPlugin{id: "panicky", initPanic: true})

	if len(r.Plugins()) != 0 {
		t.Fatal("panicking plugin should not be active")
	}
	if _, ok := r.Unavailable()["panicky"]; !ok {
		t.Fatal("panicking plugin should be recorded as unavailable")
	}
}

func TestStartCollectsCommandsAndRecoversPanics(t *testing.T) {
	r := NewRegistry(&Context{})
	marker := func() tea.Msg { return "started" }
	r.Register(&stubPlugin{id: "a", startCmd: marker})
	r.Register(&stubPlugin{id: "b", startPanic: true})
	r.Register(&stubPlugin{id: "c"})

	cmds := r.Start()
	if len(cmds) != 1 {
		t.Fatalf("Start returned %d commands, want 1", len(cmds))
	}
	if msg := cmds[0](); msg != "started" {
		t.Fatalf("start command produced %v, want %q", msg, "started")
	}
}

func TestStopRunsInReverseOrder(t *testing.T) {
	var stops []string
	r := NewRegistry(&Context{})
	r.Register(&stubPlugin{id: "first", stops: &stops})
	r.Register(&stubPlugin{id: "second", stops: &stops})

	r.Stop()
	if len(stops) != 2 || stops[0] != "second" || stops[1] != "first" {
		t.Fatalf("stop order = %v, want [second first]", stops)
	}
}

func TestReplaceSwapsPluginAtIndex(t *testing.T) {
	r := NewRegistry(&Context{})
	r.Register(&stubPlugin{id: "old"})

	swapped := &stubPlugin{id: "new"}
	r.Replace(0, swapped)
	if got := r.Plugins()[0]; got != swapped {
		t.Fatal("Replace should store the new plugin value")
	}

	r.Replace(7, &stubPlugin{id: "stray"})
	if n := len(r.Plugins()); n != 1 {
		t.Fatalf("out-of-range Replace changed plugin count to %d", n)
	}
}

func TestPluginsReturnsSnapshot(t *testing.T) {
	r := NewRegistry(&Context{})
	r.Register(&stubPlugin{id: "todos"})

	snapshot := r.Plugins()
	snapshot[0] = &stubPlugin{id: "imposter"}

	if r.Plugins()[0].ID() != "todos" {
		t.Fatal("mutating the returned slice must not affect the registry")
	}
}
