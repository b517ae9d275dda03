package version

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/wilbur182/grudge/internal/config"
)

const cacheTTL = 3 * time.Hour

// cacheEntry is the on-disk record of the last release check.
type cacheEntry struct {
	LatestVersion  string    `json:"latestVersion"`
	CurrentVersion string    `json:"currentVersion"`
	CheckedAt      time.Time `json:"checkedAt"`
	HasUpdate      bool      `json:"hasUpdate"`
}

// fresh reports whether the entry can stand in for a live check: same
// running version, checked within the TTL. A version change in either
// direction invalidates it.
func (e cacheEntry) fresh(currentVersion string) bool {
	return e.CurrentVersion == currentVersion && time.Since(e.CheckedAt) < cacheTTL
}

func cachePath() string {
	return filepath.Join(config.StateDir(), "version_cache.json")
}

func loadCache() (cacheEntry, bool) {
	data, err := os.ReadFile(cachePath())
	if err != nil {
		return cacheEntry{}, false
	}
	var e cacheEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return cacheEntry{}, false
	}
	return e, true
}

// saveCache is best effort. A failed write just means the next launch
// checks again.
func saveCache(e cacheEntry) {
	path := cachePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return
	}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(path, data, 0644)
}
