package palette

import (
	"sort"
	"strings"
	"unicode"
)

// Scoring weights for fuzzy matching.
const (
	matchScore       = 1  // Base score per matched character
	consecutiveBonus = 5  // Bonus when a match directly follows the previous one
	wordStartBonus   = 10 // Bonus for matching the first character of a word
)

// Field weights for entry scoring.
const (
	nameWeight = 3
	keyWeight  = 2
	descWeight = 1
)

// Layer boosts applied to matching entries so contextually closer commands
// rank above global ones at equal match quality.
const (
	currentModeBoost = 30
	pluginBoost      = 15
)

// MatchRange is a half-open [Start, End) rune range for match highlighting.
type MatchRange struct {
	Start int
	End   int
}

// FuzzyMatch scores query against target using greedy subsequence matching.
// Returns 0 and nil ranges when the query is empty or does not match.
// Consecutive matches and word-start matches score higher.
func FuzzyMatch(query, target string) (int, []MatchRange) {
	if query == "" {
		return 0, nil
	}

	queryRunes := []rune(strings.ToLower(query))
	targetRunes := []rune(strings.ToLower(target))

	score := 0
	var matched []int
	prevIdx := -2 // Not adjacent to index 0

	ti := 0
	for _, qr := range queryRunes {
		found := false
		for ; ti < len(targetRunes); ti++ {
			if targetRunes[ti] == qr {
				score += matchScore
				if ti == prevIdx+1 {
					score += consecutiveBonus
				}
				if isWordStart(targetRunes, ti) {
					score += wordStartBonus
				}
				matched = append(matched, ti)
				prevIdx = ti
				ti++
				found = true
				break
			}
		}
		if !found {
			return 0, nil
		}
	}

	return score, mergeRanges(matched)
}

// isWordStart reports whether the rune at idx begins a word.
func isWordStart(runes []rune, idx int) bool {
	if idx == 0 {
		return true
	}
	prev := runes[idx-1]
	return prev == '-' || prev == '_' || prev == '.' || prev == '/' || unicode.IsSpace(prev)
}

// mergeRanges collapses adjacent match indices into half-open ranges.
func mergeRanges(indices []int) []MatchRange {
	if len(indices) == 0 {
		return nil
	}

	var ranges []MatchRange
	start := indices[0]
	end := indices[0] + 1

	for _, idx := range indices[1:] {
		if idx == end {
			end = idx + 1
			continue
		}
		ranges = append(ranges, MatchRange{Start: start, End: end})
		start = idx
		end = idx + 1
	}
	ranges = append(ranges, MatchRange{Start: start, End: end})

	return ranges
}

// ScoreEntry computes and stores the entry's score for a query.
// Name matches weigh most, then key, then description. Match ranges are
// recorded for the name only since that is what gets highlighted.
// Matching entries get a layer boost so current-mode commands rank first.
func ScoreEntry(entry *PaletteEntry, query string) {
	entry.Score = 0
	entry.MatchRanges = nil

	if query == "" {
		return
	}

	nameScore, nameRanges := FuzzyMatch(query, entry.Name)
	keyScore, _ := FuzzyMatch(query, entry.Key)
	descScore, _ := FuzzyMatch(query, entry.Description)

	total := nameScore*nameWeight + keyScore*keyWeight + descScore*descWeight
	if total == 0 {
		return
	}

	switch entry.Layer {
	case LayerCurrentMode:
		total += currentModeBoost
	case LayerPlugin:
		total += pluginBoost
	}

	entry.Score = total
	entry.MatchRanges = nameRanges
}

// FilterEntries returns entries matching the query, best first.
// An empty query returns all entries ordered by layer.
func FilterEntries(entries []PaletteEntry, query string) []PaletteEntry {
	result := make([]PaletteEntry, 0, len(entries))

	if query == "" {
		result = append(result, entries...)
		SortEntries(result)
		return result
	}

	for _, e := range entries {
		ScoreEntry(&e, query)
		if e.Score > 0 {
			result = append(result, e)
		}
	}

	SortEntries(result)
	return result
}

// SortEntries orders by score descending, then layer, then name.
func SortEntries(entries []PaletteEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if entries[i].Layer != entries[j].Layer {
			return entries[i].Layer < entries[j].Layer
		}
		return entries[i].Name < entries[j].Name
	})
}
