// Package similarity scores short titles against each other and finds
// duplicates and prerequisite candidates among a user's concepts.
package similarity

import "strings"

// Score bands used across the service
const (
	Exact       = 1.0
	Containment = 0.9

	// DefaultThreshold is the duplicate cut-off for FindSimilar
	DefaultThreshold = 0.7
	// NearDuplicate marks scores that are too close to be a prerequisite
	NearDuplicate = 0.85
	// PrerequisiteMin and PrerequisiteMax bound the prerequisite-candidate band
	PrerequisiteMin = 0.4
	PrerequisiteMax = 0.75
)

// Score returns a similarity in [0,1] between two short strings. It is a
// containment and word-overlap heuristic, not an edit distance:
// equal after lowercase+trim is 1, containment either way is 0.9, otherwise the
// shared word count over the larger word set. The empty string is contained in
// every other string, so it scores 0.9 against anything non-empty.
func Score(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	if a == b {
		return Exact
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return Containment
	}

	wordsA := wordSet(a)
	wordsB := wordSet(b)
	common := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			common++
		}
	}
	if common == 0 {
		return 0
	}
	return float64(common) / float64(max(len(wordsA), len(wordsB)))
}

func wordSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
