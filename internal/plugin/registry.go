package plugin

import (
	"fmt"
	"log/slog"
	"maps"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Registry owns the set of loaded plugins. A plugin whose Init fails is
// parked in the failed map rather than aborting startup, so the shell
// can report it in diagnostics while the rest of the app keeps working.
type Registry struct {
	mu     sync.RWMutex
	active []Plugin
	failed map[string]string // plugin ID -> init failure
	ctx    *Context
}

// NewRegistry builds an empty registry. ctx is handed to every plugin
// at Init time; tests may pass nil.
func NewRegistry(ctx *Context) *Registry {
	return &Registry{
		failed: make(map[string]string),
		ctx:    ctx,
	}
}

// Register initializes p and adds it to the active set. Init errors and
// panics are recorded instead of propagated.
func (r *Registry) Register(p Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.initPlugin(p); err != nil {
		r.failed[p.ID()] = err.Error()
		r.log().Debug("plugin unavailable", "id", p.ID(), "reason", err)
		return
	}
	r.active = append(r.active, p)
}

func (r *Registry) initPlugin(p Plugin) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("init panic: %v", rec)
		}
	}()
	return p.Init(r.ctx)
}

// Start collects the initial commands from every active plugin.
func (r *Registry) Start() []tea.Cmd {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var cmds []tea.Cmd
	for _, p := range r.active {
		var cmd tea.Cmd
		r.protect("start", p, func() { cmd = p.Start() })
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

// Stop shuts plugins down in reverse registration order.
func (r *Registry) Stop() {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.active) - 1; i >= 0; i-- {
		p := r.active[i]
		r.protect("stop", p, p.Stop)
	}
}

// protect runs fn, logging a recovered panic instead of letting it
// unwind through the event loop.
func (r *Registry) protect(phase string, p Plugin, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log().Error("plugin panic", "phase", phase, "id", p.ID(), "error", rec)
		}
	}()
	fn()
}

func (r *Registry) log() *slog.Logger {
	if r.ctx != nil && r.ctx.Logger != nil {
		return r.ctx.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Plugins returns a snapshot of the active plugins in registration
// order. Indexes are stable and match Replace.
func (r *Registry) Plugins() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Plugin(nil), r.active...)
}

// Replace stores the updated plugin value returned from Update back at
// index i. Out-of-range indexes are ignored.
func (r *Registry) Replace(i int, p Plugin) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i >= 0 && i < len(r.active) {
		r.active[i] = p
	}
}

// Unavailable reports the plugins that failed Init, keyed by ID.
func (r *Registry) Unavailable() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.failed)
}

// Context returns the shared context plugins were initialized with.
func (r *Registry) Context() *Context {
	return r.ctx
}
