package keymap

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// sequenceTimeout bounds the gap between keys of a multi-key sequence.
const sequenceTimeout = 500 * time.Millisecond

// Command is a named action that keys and palette entries resolve to.
type Command struct {
	ID      string
	Name    string
	Handler func() tea.Cmd
	Context string
}

// Binding ties a key, or a space-separated sequence like "g g", to a
// command ID within one context.
type Binding struct {
	Key     string
	Command string
	Context string
}

// Registry resolves key presses to commands. Lookup precedence is user
// overrides, then the active context, then "global".
type Registry struct {
	mu        sync.RWMutex
	commands  map[string]Command
	bindings  map[string][]Binding
	overrides map[string]string

	pending   string
	pendingAt time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		commands:  make(map[string]Command),
		bindings:  make(map[string][]Binding),
		overrides: make(map[string]string),
	}
}

func (r *Registry) RegisterCommand(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[cmd.ID] = cmd
}

func (r *Registry) RegisterBinding(b Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[b.Context] = append(r.bindings[b.Context], b)
}

// RegisterPluginBinding lets plugins bind keys without importing this
// package's types. It satisfies plugin.BindingRegistrar.
func (r *Registry) RegisterPluginBinding(key, command, context string) {
	r.RegisterBinding(Binding{Key: key, Command: command, Context: context})
}

// ApplyOverrides merges config-file key overrides into the registry.
// An override points a key at a command, shadowing every binding.
func (r *Registry) ApplyOverrides(overrides map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, id := range overrides {
		r.overrides[key] = id
	}
}

// Handle resolves one key press. A key that begins a bound sequence is
// held pending and returns nil; the next press within sequenceTimeout
// completes or abandons it. Unbound keys return nil.
func (r *Registry) Handle(key tea.KeyMsg, activeContext string) tea.Cmd {
	r.mu.Lock()
	defer r.mu.Unlock()

	keyStr := keyToString(key)

	if seq, ok := r.takePending(keyStr); ok {
		if cmd := r.resolve(seq, activeContext); cmd != nil {
			return cmd
		}
		// Sequence fell through; the second key still gets a chance to
		// match on its own below.
	}

	if r.startsSequence(keyStr, activeContext) {
		r.pending = keyStr
		r.pendingAt = time.Now()
		return nil
	}

	return r.resolve(keyStr, activeContext)
}

// takePending consumes a live pending prefix, returning the combined
// sequence. Expired prefixes are discarded.
func (r *Registry) takePending(next string) (string, bool) {
	if r.pending == "" {
		return "", false
	}
	prefix := r.pending
	r.pending = ""
	if time.Since(r.pendingAt) >= sequenceTimeout {
		return "", false
	}
	return prefix + " " + next, true
}

// resolve maps a key string to a command, honoring precedence.
func (r *Registry) resolve(key, activeContext string) tea.Cmd {
	if id, ok := r.overrides[key]; ok {
		if cmd := r.invoke(id); cmd != nil {
			return cmd
		}
	}
	if activeContext != "" && activeContext != "global" {
		if cmd, ok := r.resolveIn(key, activeContext); ok {
			return cmd
		}
	}
	cmd, _ := r.resolveIn(key, "global")
	return cmd
}

func (r *Registry) resolveIn(key, context string) (tea.Cmd, bool) {
	for _, b := range r.bindings[context] {
		if b.Key != key {
			continue
		}
		if cmd := r.invoke(b.Command); cmd != nil {
			return cmd, true
		}
	}
	return nil, false
}

// invoke runs the handler for a command ID, nil when the command is
// unknown or has no handler.
func (r *Registry) invoke(id string) tea.Cmd {
	cmd, ok := r.commands[id]
	if !ok || cmd.Handler == nil {
		return nil
	}
	return cmd.Handler()
}

// startsSequence reports whether any binding or override continues past
// this key.
func (r *Registry) startsSequence(key, activeContext string) bool {
	prefix := key + " "

	contexts := []string{"global"}
	if activeContext != "" && activeContext != "global" {
		contexts = append(contexts, activeContext)
	}
	for _, ctx := range contexts {
		for _, b := range r.bindings[ctx] {
			if strings.HasPrefix(b.Key, prefix) {
				return true
			}
		}
	}
	for k := range r.overrides {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

// ResetPending abandons a half-typed sequence.
func (r *Registry) ResetPending() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = ""
}

// HasPending reports whether a sequence prefix is waiting for its next
// key.
func (r *Registry) HasPending() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pending != "" && time.Since(r.pendingAt) < sequenceTimeout
}

// BindingsForContext returns a copy of the bindings registered under one
// context.
func (r *Registry) BindingsForContext(context string) []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Binding(nil), r.bindings[context]...)
}

// AllContexts lists every context with at least one binding.
func (r *Registry) AllContexts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.bindings))
	for ctx := range r.bindings {
		out = append(out, ctx)
	}
	return out
}

// keyToString renders a key press in binding syntax. bubbletea's own
// names already match ("ctrl+k", "shift+tab", "esc"); space is the one
// key that stringifies as a literal blank.
func keyToString(key tea.KeyMsg) string {
	if key.Type == tea.KeySpace {
		return "space"
	}
	return key.String()
}
