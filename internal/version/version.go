// Package version checks GitHub for newer grudge releases. The check
// is best effort: failures stay silent, and a small disk cache keeps
// repeated launches from hammering the API.
package version

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const latestReleaseURL = "https://api.github.com/repos/wilbur182/grudge/releases/latest"

// release is the part of the GitHub release payload we read.
type release struct {
	TagName string `json:"tag_name"`
	Body    string `json:"body"`
	HTMLURL string `json:"html_url"`
}

func fetchLatest() (release, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(latestReleaseURL)
	if err != nil {
		return release{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return release{}, fmt.Errorf("github api: %s", resp.Status)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return release{}, err
	}
	return rel, nil
}

// isDevBuild reports whether v names an unreleased build. Those never
// check for updates.
func isDevBuild(v string) bool {
	switch v {
	case "", "unknown", "devel":
		return true
	}
	return strings.HasPrefix(v, "devel+")
}

// isNewer reports whether latest is a strictly newer release than
// current. Tags may carry a leading "v"; anything unparseable compares
// as 0.0.0.
func isNewer(latest, current string) bool {
	l, c := parseSemver(latest), parseSemver(current)
	if l[0] != c[0] {
		return l[0] > c[0]
	}
	if l[1] != c[1] {
		return l[1] > c[1]
	}
	return l[2] > c[2]
}

// parseSemver reads major.minor.patch from a tag, dropping any
// pre-release or build suffix. Malformed fields parse as zero.
func parseSemver(v string) [3]int {
	v = strings.TrimPrefix(v, "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}

	var out [3]int
	for i := range out {
		part, rest, _ := strings.Cut(v, ".")
		n, err := strconv.Atoi(part)
		if err != nil {
			break
		}
		out[i] = n
		v = rest
	}
	return out
}
