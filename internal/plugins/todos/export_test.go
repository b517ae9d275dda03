package todos

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/wilbur182/grudge/internal/store"
)

func exportFixture() []store.Todo {
	return []store.Todo{
		{ID: "1", Text: "buy milk", CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		{ID: "2", Text: "ship it", Completed: true, CreatedAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)},
	}
}

func TestExportMarkdownShape(t *testing.T) {
	out := ExportMarkdown(exportFixture())
	if !strings.HasPrefix(out, "# Todos\n\n") {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, "Exported ") {
		t.Error("missing export timestamp line")
	}
	openIdx := strings.Index(out, "- [ ] buy milk\n")
	doneIdx := strings.Index(out, "- [x] ship it\n")
	if openIdx < 0 || doneIdx < 0 {
		t.Fatalf("missing task lines:\n%s", out)
	}
	if doneIdx < openIdx {
		t.Error("export reordered the list")
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("export missing trailing newline")
	}
}

func TestExportMarkdownEmptyList(t *testing.T) {
	out := ExportMarkdown(nil)
	if !strings.HasPrefix(out, "# Todos\n\n") {
		t.Errorf("missing header: %q", out)
	}
	if strings.Contains(out, "- [") {
		t.Errorf("empty list produced task lines:\n%s", out)
	}
}

func TestExportTodosFilter(t *testing.T) {
	p := &Plugin{todos: exportFixture(), exportIncludeDone: true}
	if got := len(p.exportTodos()); got != 2 {
		t.Fatalf("with completed included got %d todos, want 2", got)
	}

	p.exportIncludeDone = false
	filtered := p.exportTodos()
	if len(filtered) != 1 || filtered[0].ID != "1" {
		t.Fatalf("filtered export = %+v, want only the open todo", filtered)
	}
	if !p.exportHasItems() {
		t.Error("exportHasItems() = false with an open todo present")
	}

	p.todos = []store.Todo{{ID: "2", Text: "ship it", Completed: true}}
	if p.exportHasItems() {
		t.Error("exportHasItems() = true when every todo is filtered out")
	}
}

func TestExportJSONRoundTrip(t *testing.T) {
	in := exportFixture()
	out, err := ExportJSON(in)
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("export missing trailing newline")
	}

	var back []store.Todo
	if err := json.Unmarshal([]byte(out), &back); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(back) != len(in) {
		t.Fatalf("round trip lost todos: %d -> %d", len(in), len(back))
	}
	for i := range in {
		if back[i].ID != in[i].ID || back[i].Text != in[i].Text || back[i].Completed != in[i].Completed {
			t.Errorf("todo %d round trip mismatch: %+v vs %+v", i, back[i], in[i])
		}
	}
}

func TestHighlightLinesMarksTruncation(t *testing.T) {
	src := strings.Repeat("- [ ] task\n", 10)
	lines := highlightLines(src, "markdown", 40, exportPreviewLines)
	if len(lines) != exportPreviewLines+1 {
		t.Fatalf("got %d lines, want %d content lines plus a marker", len(lines), exportPreviewLines)
	}
	if !strings.Contains(lines[len(lines)-1], "…") {
		t.Errorf("last line %q is not the truncation marker", lines[len(lines)-1])
	}
}

func TestHighlightLinesShortInputHasNoMarker(t *testing.T) {
	lines := highlightLines("# Todos\n", "markdown", 40, exportPreviewLines)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if strings.Contains(lines[0], "…") {
		t.Errorf("short input grew a truncation marker: %q", lines[0])
	}
}

func TestHighlightLinesUnknownLanguageStillRenders(t *testing.T) {
	lines := highlightLines("alpha\nbeta\n", "no-such-language", 40, exportPreviewLines)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if ansi.Strip(lines[0]) != "alpha" || ansi.Strip(lines[1]) != "beta" {
		t.Errorf("content mangled: %q %q", ansi.Strip(lines[0]), ansi.Strip(lines[1]))
	}
}

func TestHighlightLinesRespectsWidth(t *testing.T) {
	long := strings.Repeat("x", 200)
	lines := highlightLines(long+"\n", "markdown", 24, exportPreviewLines)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if w := ansi.StringWidth(lines[0]); w > 24 {
		t.Errorf("line width %d exceeds 24", w)
	}
}
