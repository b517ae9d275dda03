package palette

import (
	"strings"

	"github.com/wilbur182/grudge/internal/keymap"
	"github.com/wilbur182/grudge/internal/plugin"
)

// Layer ranks how close a command sits to the user's current focus.
// Lower values sort first.
type Layer int

const (
	LayerCurrentMode Layer = iota
	LayerPlugin
	LayerGlobal
)

// PaletteEntry is one searchable command row.
type PaletteEntry struct {
	Key         string
	CommandID   string
	Name        string
	Description string
	Category    plugin.Category
	Context     string
	Layer       Layer

	// Set by filtering: fuzzy score and the name runes to highlight.
	Score       int
	MatchRanges []MatchRange

	// Number of contexts carrying this command, for grouped display.
	ContextCount int
}

// BuildEntries collects every key binding known to the registry and
// joins it with plugin command metadata. One entry per binding context
// and command ID pair.
func BuildEntries(km *keymap.Registry, plugins []plugin.Plugin, activeContext string) []PaletteEntry {
	meta := commandMeta(plugins)

	seen := make(map[string]bool)
	var entries []PaletteEntry
	for _, ctx := range km.AllContexts() {
		for _, b := range km.BindingsForContext(ctx) {
			id := b.Command + ":" + b.Context
			if seen[id] {
				continue
			}
			seen[id] = true
			entries = append(entries, newEntry(b, meta[id], activeContext))
		}
	}
	return entries
}

// commandMeta indexes plugin commands by "id:context" so the same
// command ID can carry different metadata in different contexts.
func commandMeta(plugins []plugin.Plugin) map[string]plugin.Command {
	meta := make(map[string]plugin.Command)
	for _, p := range plugins {
		for _, cmd := range p.Commands() {
			meta[cmd.ID+":"+cmd.Context] = cmd
		}
	}
	return meta
}

// newEntry builds a palette row from a binding. Bindings without plugin
// metadata fall back to a name derived from the command ID.
func newEntry(b keymap.Binding, cmd plugin.Command, activeContext string) PaletteEntry {
	e := PaletteEntry{
		Key:         b.Key,
		CommandID:   b.Command,
		Context:     b.Context,
		Layer:       classifyLayer(b.Context, activeContext),
		Name:        cmd.Name,
		Description: cmd.Description,
		Category:    cmd.Category,
	}
	if e.Name == "" {
		e.Name = titleFromID(b.Command)
	}
	if e.Description == "" {
		e.Description = e.Name
	}
	if e.Category == "" {
		e.Category = inferCategory(b.Command)
	}
	return e
}

// classifyLayer decides which layer a binding context belongs to
// relative to the current focus. Plugin base contexts and foreign
// plugin contexts both land on LayerPlugin.
func classifyLayer(bindingCtx, activeCtx string) Layer {
	switch {
	case bindingCtx == activeCtx:
		return LayerCurrentMode
	case bindingCtx == "global":
		return LayerGlobal
	default:
		return LayerPlugin
	}
}

// titleFromID turns "reset-click-state" into "Reset click state".
func titleFromID(id string) string {
	if id == "" {
		return ""
	}
	words := strings.Split(id, "-")
	if r := []rune(words[0]); len(r) > 0 {
		words[0] = strings.ToUpper(string(r[:1])) + string(r[1:])
	}
	return strings.Join(words, " ")
}

// categoryHints maps command ID substrings to categories. Groups are
// checked in order so navigation words win over editing words.
var categoryHints = []struct {
	cat   plugin.Category
	words []string
}{
	{plugin.CategoryNavigation, []string{"scroll", "cursor", "next", "prev", "top", "bottom", "focus"}},
	{plugin.CategorySearch, []string{"search", "find"}},
	{plugin.CategoryView, []string{"view", "show", "toggle", "theme"}},
	{plugin.CategoryEdit, []string{"edit", "delete", "add", "remove"}},
	{plugin.CategorySystem, []string{"quit", "refresh", "help"}},
}

// inferCategory guesses a category for commands whose plugin supplied
// none.
func inferCategory(id string) plugin.Category {
	lower := strings.ToLower(id)
	for _, h := range categoryHints {
		for _, w := range h.words {
			if strings.Contains(lower, w) {
				return h.cat
			}
		}
	}
	return plugin.CategoryActions
}

// FilterEntriesForContext keeps entries from one context plus global.
func FilterEntriesForContext(entries []PaletteEntry, activeContext string) []PaletteEntry {
	var out []PaletteEntry
	for _, e := range entries {
		if e.Context == activeContext || e.Context == "global" {
			out = append(out, e)
		}
	}
	return out
}

// GroupEntriesByCommand collapses duplicate command IDs across contexts
// into one entry, keeping the most specific layer and recording how
// many contexts carry the command.
func GroupEntriesByCommand(entries []PaletteEntry) []PaletteEntry {
	byID := make(map[string][]PaletteEntry)
	for _, e := range entries {
		byID[e.CommandID] = append(byID[e.CommandID], e)
	}

	out := make([]PaletteEntry, 0, len(byID))
	for _, group := range byID {
		best := group[0]
		for _, e := range group[1:] {
			if e.Layer < best.Layer {
				best = e
			}
		}
		best.ContextCount = len(group)
		out = append(out, best)
	}
	return out
}
