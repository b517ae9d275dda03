package fdmonitor

import (
	"testing"
	"time"
)

func resetSampler() {
	mu.Lock()
	defer mu.Unlock()
	lastCheck = time.Time{}
	lastCount = 0
}

func TestCountBestEffort(t *testing.T) {
	// Sandboxed environments may hide the FD directory; -1 is a valid
	// answer there. A zero count is not: reading the directory itself
	// holds a descriptor.
	if c := Count(); c == 0 {
		t.Error("Count() = 0, want positive or -1")
	}
}

func TestCheckRateLimits(t *testing.T) {
	resetSampler()

	first, _ := Check(nil)
	if first < 0 {
		t.Skip("FD counting unsupported in this environment")
	}

	second, warned := Check(nil)
	if warned {
		t.Error("rate-limited check should never warn")
	}
	if second != first {
		t.Errorf("rate-limited check returned %d, want cached %d", second, first)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct{ target, want string }{
		{"pipe:[48151]", "pipe"},
		{"pipe", "pipe"},
		{"socket:[62342]", "socket"},
		{"anon_inode:[eventpoll]", "anon"},
		{"/home/u/.local/state/grudge/journal.db", "database"},
		{"/home/u/.local/state/grudge/journal.db-wal", "database"},
		{"/home/u/.config/grudge/config.json", "json"},
		{"/nonexistent/trace.jsonl", "jsonl"},
		{"/nonexistent/some.log", "file"},
	}
	for _, c := range cases {
		if got := classify(c.target); got != c.want {
			t.Errorf("classify(%q) = %q, want %q", c.target, got, c.want)
		}
	}
}

func TestDebugInfoBucketsOpenFDs(t *testing.T) {
	if Count() < 0 {
		t.Skip("FD counting unsupported in this environment")
	}

	total := 0
	for _, n := range DebugInfo() {
		total += n
	}
	if total == 0 {
		t.Error("DebugInfo categorized nothing while Count sees open FDs")
	}
}
