package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recall/backend/internal/concept"
	apperrors "recall/backend/pkg/errors"
)

func TestClassify_TitleChecks(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		name    string
		in      concept.Concept
		wantCat string
		wantSub string
	}{
		{
			name:    "data structure from title",
			in:      concept.Concept{Title: "Binary Search Tree"},
			wantCat: CategoryDataStructures,
			wantSub: SubTrees,
		},
		{
			name:    "hash wins over array",
			in:      concept.Concept{Title: "Hash Array Mapped Trie"},
			wantCat: CategoryDataStructures,
			wantSub: SubHashTables,
		},
		{
			name:    "problem beats data structure mention",
			in:      concept.Concept{Title: "Two Sum Problem", Summary: "uses a hash map"},
			wantCat: CategoryAlgorithms,
		},
		{
			name:    "string problem",
			in:      concept.Concept{Title: "Valid Anagram"},
			wantCat: CategoryAlgorithms,
			wantSub: SubStringAlgorithms,
		},
		{
			name:    "graph problem from summary",
			in:      concept.Concept{Title: "Number of Islands Problem", Summary: "count connected components of a grid graph"},
			wantCat: CategoryAlgorithms,
			wantSub: SubGraphAlgorithms,
		},
		{
			name:    "domain keywords match inside words",
			in:      concept.Concept{Title: "Count Subgraph Isomorphisms Problem"},
			wantCat: CategoryAlgorithms,
			wantSub: SubGraphAlgorithms,
		},
		{
			name:    "inorder is an ordering problem",
			in:      concept.Concept{Title: "Validate Inorder Sequence"},
			wantCat: CategoryAlgorithms,
			wantSub: SubSortingAlgorithms,
		},
		{
			name:    "problem without a known domain",
			in:      concept.Concept{Title: "Check Balance"},
			wantCat: CategoryAlgorithms,
		},
		{
			name:    "dynamic programming problem",
			in:      concept.Concept{Title: "Climbing Stairs Problem", KeyPoints: []string{"classic dp with memoization"}},
			wantCat: CategoryAlgorithms,
			wantSub: SubDynamicProgram,
		},
		{
			name:    "frequency technique",
			in:      concept.Concept{Title: "Frequency Counting Technique"},
			wantCat: CategoryTechnique,
			wantSub: SubFrequencyCounting,
		},
		{
			name:    "dfs technique",
			in:      concept.Concept{Title: "Depth First Search Method"},
			wantCat: CategoryTechnique,
			wantSub: SubDFS,
		},
		{
			name:    "technique without a known pattern",
			in:      concept.Concept{Title: "Greedy Algorithm"},
			wantCat: CategoryTechnique,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(&tt.in)
			assert.Equal(t, tt.wantCat, got.Category)
			assert.Equal(t, tt.wantSub, got.Subcategory)
			assert.Equal(t, SourceStructural, got.Source)
		})
	}
}

func TestClassify_KeywordFallback(t *testing.T) {
	c := NewClassifier(nil)

	got := c.Classify(&concept.Concept{Title: "Sliding Window Maximum"})
	assert.Equal(t, Result{Category: CategoryTechnique, Subcategory: SubSlidingWindow, Source: SourceKeywords}, got)

	got = c.Classify(&concept.Concept{Title: "Compound Interest", Summary: "grow savings and investment over time"})
	assert.Equal(t, "Finance", got.Category)
	assert.Equal(t, "Investment", got.Subcategory)

	got = c.Classify(&concept.Concept{Title: "Stoicism"})
	assert.Equal(t, "Philosophy", got.Category)
}

func TestClassify_DefaultIsAlgorithms(t *testing.T) {
	c := NewClassifier(nil)
	got := c.Classify(&concept.Concept{Title: "Xyzzy"})
	assert.Equal(t, Result{Category: CategoryAlgorithms, Source: SourceDefault}, got)
}

func TestClassify_Deterministic(t *testing.T) {
	c := NewClassifier(nil)
	in := &concept.Concept{Title: "Binary Search Tree"}
	first := c.Classify(in)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, c.Classify(in))
	}
}

func TestClassify_SuppliedCategoryWins(t *testing.T) {
	c := NewClassifier(nil)

	got := c.Classify(&concept.Concept{Title: "Binary Search Tree", Category: "leetcode"})
	assert.Equal(t, Result{Category: "LeetCode Problems", Source: SourceNormalized}, got)

	got = c.Classify(&concept.Concept{Title: "Binary Search Tree", Category: "Uncategorized"})
	assert.Equal(t, CategoryDataStructures, got.Category)
	assert.Equal(t, SourceStructural, got.Source)
}

func TestNormalizeCategory(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		in      string
		wantCat string
		wantSub string
		ok      bool
	}{
		{"Data Structures", "Data Structures", "", true},
		{"data structures > tries", "Data Structures", "Tries", true},
		{"Backend Engineering>Databases", "Backend Engineering", "Databases", true},
		{"frontend > Svelte", "Frontend Engineering", "Svelte", true},
		{"dsa > Heaps", "Data Structures and Algorithms", "Heaps", true},
		{"Sets in Python", "Python", "", true},
		{"NoSQL stores", "Backend Engineering", "Databases", true},
		{"Personal budgeting", "Finance", "Personal Finance", true},
		{"uncategorized", "", "", false},
		{"   ", "", "", false},
		{"Quilting", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := c.NormalizeCategory(tt.in)
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.wantCat, got.Category)
			assert.Equal(t, tt.wantSub, got.Subcategory)
		})
	}
}

func TestLoadTaxonomy_Reduced(t *testing.T) {
	tax, err := LoadTaxonomy("testdata/reduced.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cooking", "Cooking > Baking", "Cooking > Grilling", "Gardening"}, tax.Labels())

	c := NewClassifier(tax)

	got := c.Classify(&concept.Concept{Title: "Sourdough", Category: "bread basics"})
	assert.Equal(t, "Cooking", got.Category)
	assert.Equal(t, "Baking", got.Subcategory)

	got = c.Classify(&concept.Concept{Title: "Composting at home", Summary: "soil and compost"})
	assert.Equal(t, "Gardening", got.Category)

	got = c.Classify(&concept.Concept{Title: "Zzz"})
	assert.Equal(t, Result{Category: "Cooking", Source: SourceDefault}, got)
}

func TestLoadTaxonomy_Invalid(t *testing.T) {
	_, err := LoadTaxonomy("testdata/bad_alias.yaml")
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeClassification))

	_, err = LoadTaxonomy("testdata/missing.yaml")
	require.Error(t, err)
}

func TestNewClassifier_UnvalidatedTaxonomy(t *testing.T) {
	tax := &Taxonomy{
		Default:    "Cooking",
		Categories: []Category{{Name: "Cooking", Keywords: []string{"oven"}}},
	}
	c := NewClassifier(tax)
	assert.Equal(t, "Cooking", c.Classify(&concept.Concept{Title: "Oven temperatures"}).Category)

	broken := NewClassifier(&Taxonomy{Default: "Nope"})
	assert.Equal(t, DefaultTaxonomy().Labels(), broken.Taxonomy().Labels())
}
