package concept

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleConcepts() []*Concept {
	return []*Concept{
		{ID: "a", Title: "Hash Table"},
		{ID: "b", Title: "Hash Table Collisions"},
		{ID: "c", Title: "Binary Search"},
		{ID: "d", Title: "Search"},
	}
}

func TestIndex_ResolveByID(t *testing.T) {
	idx := NewIndex(sampleConcepts())

	got, ok := idx.Resolve(IDRef("c", ""), "a")
	assert.True(t, ok)
	assert.Equal(t, "c", got.ID)

	_, ok = idx.Resolve(IDRef("a", ""), "a")
	assert.False(t, ok, "a reference to the owner must not resolve")
}

func TestIndex_ResolveDanglingIDFallsBackToTitle(t *testing.T) {
	idx := NewIndex(sampleConcepts())

	got, ok := idx.Resolve(IDRef("deleted", "binary search"), "a")
	assert.True(t, ok)
	assert.Equal(t, "c", got.ID)

	_, ok = idx.Resolve(IDRef("deleted", ""), "a")
	assert.False(t, ok)
}

func TestIndex_ResolveByTitle(t *testing.T) {
	idx := NewIndex(sampleConcepts())

	t.Run("exact title beats earlier substring", func(t *testing.T) {
		got, ok := idx.Resolve(TitleRef("SEARCH "), "x")
		assert.True(t, ok)
		assert.Equal(t, "d", got.ID)
	})

	t.Run("substring follows collection order", func(t *testing.T) {
		got, ok := idx.Resolve(TitleRef("hash"), "x")
		assert.True(t, ok)
		assert.Equal(t, "a", got.ID)
	})

	t.Run("reference containing a title", func(t *testing.T) {
		got, ok := idx.Resolve(TitleRef("Iterative Binary Search Variants"), "x")
		assert.True(t, ok)
		assert.Equal(t, "c", got.ID)
	})

	t.Run("owner skipped", func(t *testing.T) {
		got, ok := idx.Resolve(TitleRef("Hash Table"), "a")
		assert.True(t, ok)
		assert.Equal(t, "b", got.ID)
	})

	t.Run("unresolved", func(t *testing.T) {
		_, ok := idx.Resolve(TitleRef("Dynamic Programming"), "x")
		assert.False(t, ok)
	})
}

func TestReference_Matches(t *testing.T) {
	c := &Concept{ID: "a", Title: "Hash  Table"}
	assert.True(t, IDRef("a", "").Matches(c))
	assert.True(t, IDRef("zz", " hash table").Matches(c))
	assert.True(t, TitleRef("HASH TABLE").Matches(c))
	assert.False(t, TitleRef("hash").Matches(c))
	assert.False(t, IDRef("zz", "").Matches(c))
}

func TestSplitCategory(t *testing.T) {
	main, sub := SplitCategory("Data Structures > Trees")
	assert.Equal(t, "Data Structures", main)
	assert.Equal(t, "Trees", sub)

	main, sub = SplitCategory("Algorithms")
	assert.Equal(t, "Algorithms", main)
	assert.Empty(t, sub)

	c := &Concept{}
	assert.Equal(t, DefaultLane, c.MainCategory())
	assert.Equal(t, "A > B", JoinCategory("A", "B"))
}
