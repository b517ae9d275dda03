package version

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// UpdateAvailableMsg is delivered to the app when a newer release exists.
type UpdateAvailableMsg struct {
	CurrentVersion string
	LatestVersion  string
	UpdateURL      string
	ReleaseNotes   string
}

// CheckAsync returns a command that looks for a newer release in the
// background. A cache hit with no update produces no message at all,
// and neither does a network failure; the next launch retries.
func CheckAsync(currentVersion string) tea.Cmd {
	return func() tea.Msg {
		if isDevBuild(currentVersion) {
			return nil
		}

		if e, ok := loadCache(); ok && e.fresh(currentVersion) {
			if !e.HasUpdate {
				return nil
			}
			return UpdateAvailableMsg{
				CurrentVersion: currentVersion,
				LatestVersion:  e.LatestVersion,
			}
		}

		rel, err := fetchLatest()
		if err != nil {
			return nil
		}

		hasUpdate := isNewer(rel.TagName, currentVersion)
		saveCache(cacheEntry{
			LatestVersion:  rel.TagName,
			CurrentVersion: currentVersion,
			CheckedAt:      time.Now(),
			HasUpdate:      hasUpdate,
		})

		if !hasUpdate {
			return nil
		}
		return UpdateAvailableMsg{
			CurrentVersion: currentVersion,
			LatestVersion:  rel.TagName,
			UpdateURL:      rel.HTMLURL,
			ReleaseNotes:   rel.Body,
		}
	}
}
