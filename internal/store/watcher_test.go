package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewWatcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Stop()

	if w.fileName != "todos.json" {
		t.Errorf("fileName = %q, want %q", w.fileName, "todos.json")
	}
	if w.events == nil {
		t.Error("events channel not initialized")
	}
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	w, err := NewWatcher("/nonexistent/dir/todos.json")
	if err == nil {
		t.Error("NewWatcher() should error for a missing directory")
		w.Stop()
	}
}

func TestWatcher_SignalsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todos.json")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte(`[]`), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	select {
	case <-w.Events():
	case <-time.After(500 * time.Millisecond):
		t.Error("timeout waiting for write event")
	}
}

func TestWatcher_SignalsOnAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todos.json")
	if err := os.WriteFile(path, []byte(`[]`), 0644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Stop()

	// Same replace-by-rename sequence the store's save uses.
	tmp := path + ".swap"
	if err := os.WriteFile(tmp, []byte(`[{"id":"x","text":"t"}]`), 0644); err != nil {
		t.Fatalf("failed to write temp: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("failed to rename: %v", err)
	}

	select {
	case <-w.Events():
	case <-time.After(500 * time.Millisecond):
		t.Error("timeout waiting for rename event")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todos.json")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Stop()

	other := filepath.Join(dir, "unrelated.txt")
	if err := os.WriteFile(other, []byte("noise"), 0644); err != nil {
		t.Fatalf("failed to write unrelated file: %v", err)
	}

	select {
	case <-w.Events():
		t.Error("received event for an unrelated file")
	case <-time.After(300 * time.Millisecond):
		// No event, as expected
	}
}

func TestWatcher_Stop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todos.json")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}

	w.Stop()
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(path, []byte(`[]`), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	select {
	case _, ok := <-w.Events():
		if ok {
			t.Error("received event after watcher stopped")
		}
	case <-time.After(200 * time.Millisecond):
		// Also acceptable - no event after stop
	}
}
