// Package markdown renders markdown into styled terminal lines via
// glamour. Output is cached because bubbletea re-renders the whole
// screen on every event.
package markdown

import (
	"encoding/binary"
	"log/slog"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/glamour"
	"github.com/wilbur182/grudge/internal/styles"
)

const (
	// Below this width glamour output degrades badly; plain word
	// wrapping reads better.
	minMarkdownWidth = 30

	// The cache is dropped wholesale once it grows past this.
	maxCacheEntries = 100
)

// Renderer turns markdown into lines ready for a viewport. Rendered
// output is cached by style, width, and a content hash; the underlying
// glamour renderer is rebuilt when the style or width changes. Safe for
// concurrent use.
type Renderer struct {
	mu    sync.RWMutex
	glam  *glamour.TermRenderer
	style string
	width int
	cache map[uint64][]string
}

// NewRenderer returns a renderer with an empty cache. The glamour
// instance is built lazily on first render.
func NewRenderer() *Renderer {
	return &Renderer{cache: make(map[uint64][]string)}
}

// RenderContent renders content into lines no wider than width. On any
// glamour failure it degrades to plain word wrapping.
func (r *Renderer) RenderContent(content string, width int) []string {
	if content == "" {
		return nil
	}
	if width < minMarkdownWidth {
		return wrapPlain(content, width)
	}

	style := styles.GetMarkdownTheme()
	key := renderKey(style, content, width)

	r.mu.RLock()
	lines, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		return lines
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if lines, ok := r.cache[key]; ok {
		return lines
	}

	lines = r.renderLocked(style, content, width)
	if len(r.cache) >= maxCacheEntries {
		clear(r.cache)
	}
	r.cache[key] = lines
	return lines
}

// renderLocked runs content through glamour, rebuilding the renderer
// first if the style or wrap width moved since the last call. The
// caller holds the write lock.
func (r *Renderer) renderLocked(style, content string, width int) []string {
	if r.glam == nil || r.style != style || r.width != width {
		g, err := glamour.NewTermRenderer(
			glamour.WithStylePath(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			slog.Debug("glamour init failed", "style", style, "error", err)
			return wrapPlain(content, width)
		}
		r.glam = g
		r.style = style
		r.width = width
		clear(r.cache)
	}

	out, err := r.glam.Render(content)
	if err != nil {
		slog.Debug("glamour render failed", "error", err)
		return wrapPlain(content, width)
	}
	return strings.Split(strings.TrimRight(out, "\n\r\t "), "\n")
}

func renderKey(style, content string, width int) uint64 {
	h := xxhash.New()
	h.WriteString(style)
	h.Write(binary.AppendUvarint(nil, uint64(width)))
	h.WriteString(content)
	return h.Sum64()
}

// wrapPlain is the no-markdown fallback: collapse all whitespace runs
// and greedy-wrap at maxWidth columns.
func wrapPlain(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{text}
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > maxWidth {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}
