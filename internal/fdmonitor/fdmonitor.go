// Package fdmonitor counts the process's open file descriptors. The
// shell polls it under --debug to catch descriptor leaks early.
package fdmonitor

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	warnThreshold = 200
	critThreshold = 500

	// checkInterval rate-limits Check so a polling caller cannot spam
	// the log.
	checkInterval = 10 * time.Second
)

var (
	mu        sync.Mutex
	lastCheck time.Time
	lastCount int
)

// fdDir returns the directory listing this process's descriptors, or
// "" on platforms without one.
func fdDir() string {
	switch runtime.GOOS {
	case "darwin":
		return "/dev/fd"
	case "linux":
		return fmt.Sprintf("/proc/%d/fd", os.Getpid())
	}
	return ""
}

// Count returns the number of open file descriptors, or -1 where the
// platform offers no way to tell.
func Count() int {
	dir := fdDir()
	if dir == "" {
		return -1
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return -1
	}
	return len(entries)
}

// Check samples the FD count and logs when it crosses a threshold.
// Calls within checkInterval of the last sample return the cached count
// without logging. Returns the count and whether it warned.
func Check(logger *slog.Logger) (count int, warned bool) {
	mu.Lock()
	defer mu.Unlock()

	if time.Since(lastCheck) < checkInterval {
		return lastCount, false
	}

	count = Count()
	if count < 0 {
		return count, false
	}
	lastCheck = time.Now()
	lastCount = count

	msg, threshold := "", 0
	switch {
	case count >= critThreshold:
		msg, threshold = "critical FD count", critThreshold
	case count >= warnThreshold:
		msg, threshold = "high FD count", warnThreshold
	default:
		return count, false
	}
	if logger != nil {
		logger.Warn(msg, "count", count, "threshold", threshold)
	}
	return count, true
}

// DebugInfo buckets open descriptors by what they point at. Empty on
// platforms without an FD directory.
func DebugInfo() map[string]int {
	info := make(map[string]int)
	dir := fdDir()
	if dir == "" {
		return info
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return info
	}
	for _, e := range entries {
		target, err := os.Readlink(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		info[classify(target)]++
	}
	return info
}

// classify names the bucket for one readlink target.
func classify(target string) string {
	switch {
	case target == "pipe" || strings.HasPrefix(target, "pipe:"):
		return "pipe"
	case strings.HasPrefix(target, "socket") || strings.HasPrefix(target, "["):
		return "socket"
	case strings.HasPrefix(target, "anon_inode"):
		return "anon"
	}

	switch filepath.Ext(target) {
	case ".jsonl":
		return "jsonl"
	case ".json":
		return "json"
	case ".sqlite", ".db", ".db-wal", ".db-shm":
		return "database"
	}

	if st, err := os.Stat(target); err == nil && st.IsDir() {
		return "directory"
	}
	return "file"
}
