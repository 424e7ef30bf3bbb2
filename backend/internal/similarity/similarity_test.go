package similarity

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"recall/backend/internal/concept"
)

func TestScore(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"Hash Table", "hash table ", 1.0},
		{"", "  ", 1.0},
		{"Hash Table", "", 0.9},
		{" ", "x", 0.9},
		{"Hash", "Hash Table Collisions", 0.9},
		{"binary search tree", "Tree", 0.9},
		{"Two Sum", "Three Sum", 0.5},
		{"merge sort algorithm", "quick sort", 1.0 / 3.0},
		{"Graphs", "Heaps", 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"|"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.a, tt.b), 1e-9)
		})
	}
}

func TestScore_TwoSumThreeSum(t *testing.T) {
	s := Score("Two Sum", "Three Sum")
	assert.Greater(t, s, 0.0)
	assert.Less(t, s, 1.0)
}

func TestScore_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("a string is identical to itself", prop.ForAll(
		func(s string) bool {
			return Score(s, s) == 1.0
		},
		gen.AnyString(),
	))

	properties.Property("score stays in [0,1] and is symmetric", prop.ForAll(
		func(a, b string) bool {
			ab, ba := Score(a, b), Score(b, a)
			return ab >= 0 && ab <= 1 && ab == ba
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func snapshot() []*concept.Concept {
	return []*concept.Concept{
		{ID: "1", Title: "Two Sum"},
		{ID: "2", Title: "valid anagram "},
		{ID: "3", Title: "Valid Parentheses"},
		{ID: "4", Title: "Anagram Groups"},
		{ID: "5", Title: "Anagram"},
	}
}

func TestDetector_FindDuplicate(t *testing.T) {
	d := NewDetector(0)
	assert.Equal(t, DefaultThreshold, d.Threshold())

	m, ok := d.FindDuplicate("Valid Anagram", snapshot())
	assert.True(t, ok)
	assert.Equal(t, "2", m.ID)
	assert.Equal(t, 1.0, m.Score)

	_, ok = d.FindDuplicate("Dijkstra", snapshot())
	assert.False(t, ok)
}

func TestDetector_BlankTitlesNeverMatch(t *testing.T) {
	d := NewDetector(0.7)
	concepts := append(snapshot(), &concept.Concept{ID: "blank", Title: "  "})

	assert.Empty(t, d.FindSimilar("", concepts, 0.1))
	_, ok := d.FindDuplicate("  ", concepts)
	assert.False(t, ok)

	for _, m := range d.FindSimilar("Anagram", concepts, 0.1) {
		assert.NotEqual(t, "blank", m.ID)
	}
}

func TestDetector_FindSimilarSortedDescending(t *testing.T) {
	d := NewDetector(0.7)
	matches := d.FindSimilar("Valid Anagram", snapshot(), 0.5)

	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	// exact first, containment next, then half-overlap titles in snapshot order
	assert.Equal(t, []string{"2", "5", "3", "4"}, ids)
}

func TestDetector_PrerequisiteCandidatesBand(t *testing.T) {
	d := NewDetector(0.7)
	matches := d.PrerequisiteCandidates("Valid Anagram", snapshot())

	for _, m := range matches {
		assert.GreaterOrEqual(t, m.Score, PrerequisiteMin)
		assert.LessOrEqual(t, m.Score, PrerequisiteMax)
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"3", "4"}, ids)
}
