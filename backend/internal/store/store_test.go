package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recall/backend/internal/concept"
	apperrors "recall/backend/pkg/errors"
)

func ptr[T any](v T) *T { return &v }

func fixtureConcepts(prefix, userID string) []*concept.Concept {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return []*concept.Concept{
		{
			ID:               prefix + "-hash",
			UserID:           userID,
			Title:            "Hash Table",
			Category:         "Data Structures > Hash Tables",
			Summary:          "Key/value lookup in constant time",
			KeyPoints:        []string{"hashing", "buckets"},
			MasteryLevel:     concept.MasteryIntermediate,
			LearningProgress: ptr(0.5),
			PracticeCount:    ptr(3),
			PersonalRating:   ptr(4),
			Occurrences:      []string{prefix + "-conv-1"},
			RelatedConcepts:  concept.ListField(`["Arrays",{"id":"x","title":"Hashing"}]`),
			CreatedAt:        base,
		},
		{
			ID:            prefix + "-arrays",
			UserID:        userID,
			Title:         "Arrays",
			Category:      "Data Structures > Arrays",
			Prerequisites: concept.ListField(`"[\"Memory\"]"`),
			CreatedAt:     base.Add(time.Minute),
		},
		{
			ID:        prefix + "-other",
			UserID:    userID + "-other",
			Title:     "Stoicism",
			CreatedAt: base.Add(2 * time.Minute),
		},
	}
}

// runStoreContract exercises behavior every backend shares
func runStoreContract(t *testing.T, s Store, prefix string) {
	ctx := context.Background()
	userID := prefix + "-user"

	for _, c := range fixtureConcepts(prefix, userID) {
		require.NoError(t, s.CreateConcept(ctx, c))
	}

	t.Run("get keeps list encodings", func(t *testing.T) {
		got, err := s.GetConcept(ctx, prefix+"-hash")
		require.NoError(t, err)
		assert.Equal(t, "Hash Table", got.Title)
		assert.Equal(t, []string{"hashing", "buckets"}, got.KeyPoints)
		assert.Equal(t, concept.MasteryIntermediate, got.MasteryLevel)
		require.NotNil(t, got.LearningProgress)
		assert.InDelta(t, 0.5, *got.LearningProgress, 1e-9)
		require.NotNil(t, got.PracticeCount)
		assert.Equal(t, 3, *got.PracticeCount)
		assert.Nil(t, got.ReviewCount)
		assert.Nil(t, got.ConfidenceScore)
		assert.Equal(t, []string{prefix + "-conv-1"}, got.Occurrences)
		assert.JSONEq(t, `["Arrays",{"id":"x","title":"Hashing"}]`, string(got.RelatedConcepts))

		arrays, err := s.GetConcept(ctx, prefix+"-arrays")
		require.NoError(t, err)
		assert.Equal(t, []string{"Memory"}, titles(arrays.Prerequisites))
		assert.Empty(t, arrays.RelatedConcepts)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.GetConcept(ctx, prefix+"-missing")
		assert.True(t, apperrors.IsNotFound(err))
		assert.True(t, apperrors.IsNotFound(s.UpdateRelatedConcepts(ctx, prefix+"-missing", concept.ListField(`[]`))))
		assert.True(t, apperrors.IsNotFound(s.AddOccurrence(ctx, prefix+"-missing", "conv")))
	})

	t.Run("list is per user and ordered", func(t *testing.T) {
		list, err := s.ListConcepts(ctx, userID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, prefix+"-hash", list[0].ID)
		assert.Equal(t, prefix+"-arrays", list[1].ID)
	})

	t.Run("update related concepts", func(t *testing.T) {
		next := concept.ListField(`["Arrays",{"id":"x","title":"Hashing"},{"id":"y","title":"Sets"}]`)
		require.NoError(t, s.UpdateRelatedConcepts(ctx, prefix+"-hash", next))

		got, err := s.GetConcept(ctx, prefix+"-hash")
		require.NoError(t, err)
		assert.JSONEq(t, string(next), string(got.RelatedConcepts))
	})

	t.Run("occurrences are idempotent", func(t *testing.T) {
		require.NoError(t, s.AddOccurrence(ctx, prefix+"-arrays", prefix+"-conv-1"))
		require.NoError(t, s.AddOccurrence(ctx, prefix+"-arrays", prefix+"-conv-1"))

		got, err := s.GetConcept(ctx, prefix+"-arrays")
		require.NoError(t, err)
		assert.Equal(t, []string{prefix + "-conv-1"}, got.Occurrences)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.DeleteConcept(ctx, prefix+"-arrays"))
		require.NoError(t, s.DeleteConcept(ctx, prefix+"-arrays"))

		_, err := s.GetConcept(ctx, prefix+"-arrays")
		assert.True(t, apperrors.IsNotFound(err))

		list, err := s.ListConcepts(ctx, userID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, prefix+"-hash", list[0].ID)
	})
}

func titles(field concept.ListField) []string {
	out := make([]string, 0)
	for _, ref := range field.References() {
		out = append(out, ref.DisplayTitle())
	}
	return out
}

func TestMemoryStore_Contract(t *testing.T) {
	runStoreContract(t, NewMemoryStore(), "mem")
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(&concept.Concept{ID: "a", Title: "Alpha", RelatedConcepts: concept.ListField(`[]`)})

	got, err := s.GetConcept(ctx, "a")
	require.NoError(t, err)
	got.Title = "changed"
	got.RelatedConcepts = concept.ListField(`["x"]`)

	again, err := s.GetConcept(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", again.Title)
	assert.Equal(t, `[]`, string(again.RelatedConcepts))
}

func TestMemoryStore_DuplicateID(t *testing.T) {
	s := NewMemoryStore(&concept.Concept{ID: "a", Title: "Alpha"})
	assert.Error(t, s.CreateConcept(context.Background(), &concept.Concept{ID: "a", Title: "Again"}))
}
