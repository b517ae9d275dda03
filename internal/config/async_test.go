package config

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func newTestSaver(t *testing.T) *AsyncSaver {
	t.Helper()
	SetTestConfigPath(filepath.Join(t.TempDir(), "config.json"))
	t.Cleanup(ResetTestConfigPath)

	s := newAsyncSaver(slog.New(slog.NewTextHandler(io.Discard, nil)), 20*time.Millisecond)
	t.Cleanup(s.Close)
	return s
}

func TestAsyncSaverCoalescesBurst(t *testing.T) {
	s := newTestSaver(t)

	cfg := Default()
	for i := 1; i <= 5; i++ {
		cfg.Controls.ClicksToConfirm = i
		s.Save(cfg)
	}
	s.Close()

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() after save: %v", err)
	}
	if got.Controls.ClicksToConfirm != 5 {
		t.Errorf("ClicksToConfirm = %d, want last queued value 5", got.Controls.ClicksToConfirm)
	}
}

func TestAsyncSaverCloseFlushesPending(t *testing.T) {
	s := newTestSaver(t)

	cfg := Default()
	cfg.UI.Theme.Name = "nord"
	s.Save(cfg)
	// Close before the debounce window elapses; the write must still land.
	s.Close()

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() after save: %v", err)
	}
	if got.UI.Theme.Name != "nord" {
		t.Errorf("Theme.Name = %q, want %q", got.UI.Theme.Name, "nord")
	}
}

func TestAsyncSaverSnapshotsAtCallTime(t *testing.T) {
	s := newTestSaver(t)

	cfg := Default()
	cfg.UI.ShowClock = true
	s.Save(cfg)
	cfg.UI.ShowClock = false
	cfg.Keymap.Overrides["z"] = "quit"
	s.Close()

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() after save: %v", err)
	}
	if !got.UI.ShowClock {
		t.Error("ShowClock = false, want the value from when Save was called")
	}
	if _, ok := got.Keymap.Overrides["z"]; ok {
		t.Error("override added after Save leaked into the snapshot")
	}
}

func TestAsyncSaverWritesAfterQuietPeriod(t *testing.T) {
	s := newTestSaver(t)

	cfg := Default()
	cfg.Controls.EscapeMax = 12
	s.Save(cfg)

	deadline := time.Now().Add(2 * time.Second)
	for {
		got, err := Load()
		if err == nil && got.Controls.EscapeMax == 12 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("debounced write never landed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestAsyncSaverIgnoresSaveAfterClose(t *testing.T) {
	s := newTestSaver(t)
	s.Close()

	cfg := Default()
	cfg.UI.Theme.Name = "dracula"
	s.Save(cfg)

	got, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if got.UI.Theme.Name == "dracula" {
		t.Error("Save after Close still wrote to disk")
	}
}
