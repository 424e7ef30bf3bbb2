package similarity

import (
	"sort"
	"strings"

	"recall/backend/internal/concept"
)

// Match is one concept scored against a query title
type Match struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// Detector runs Score against a snapshot of concepts
type Detector struct {
	threshold float64
}

// NewDetector creates a detector whose FindDuplicate uses threshold.
// A non-positive threshold selects DefaultThreshold.
func NewDetector(threshold float64) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Detector{threshold: threshold}
}

// Threshold returns the duplicate threshold in use
func (d *Detector) Threshold() float64 {
	return d.threshold
}

// FindSimilar returns every concept scoring at least threshold against title,
// highest score first. Equal scores keep snapshot order.
func (d *Detector) FindSimilar(title string, concepts []*concept.Concept, threshold float64) []Match {
	if threshold <= 0 {
		threshold = d.threshold
	}
	return collect(title, concepts, func(s float64) bool { return s >= threshold })
}

// FindDuplicate returns the best match at or above the detector threshold, if any.
// Concept creation uses it to return the existing record instead of adding a new one.
func (d *Detector) FindDuplicate(title string, concepts []*concept.Concept) (Match, bool) {
	matches := d.FindSimilar(title, concepts, d.threshold)
	if len(matches) == 0 {
		return Match{}, false
	}
	return matches[0], true
}

// PrerequisiteCandidates returns concepts in the mid band [PrerequisiteMin, PrerequisiteMax].
// Anything above NearDuplicate is a duplicate, never a prerequisite.
func (d *Detector) PrerequisiteCandidates(title string, concepts []*concept.Concept) []Match {
	return collect(title, concepts, func(s float64) bool {
		return s >= PrerequisiteMin && s <= PrerequisiteMax
	})
}

// collect skips blank titles on both sides: they would contain-match everything.
func collect(title string, concepts []*concept.Concept, keep func(float64) bool) []Match {
	matches := make([]Match, 0)
	if strings.TrimSpace(title) == "" {
		return matches
	}
	for _, c := range concepts {
		if strings.TrimSpace(c.Title) == "" {
			continue
		}
		s := Score(title, c.Title)
		if keep(s) {
			matches = append(matches, Match{ID: c.ID, Title: c.Title, Score: s})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
