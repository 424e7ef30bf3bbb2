// Package store persists concepts. Every backend keeps relationship fields as
// the raw JSON they were written with so that mixed encodings survive a round trip.
package store

import (
	"context"

	"recall/backend/internal/concept"
)

// Store is the concept persistence used by the service layer
type Store interface {
	// GetConcept returns *errors.ErrConceptNotFound for unknown ids
	GetConcept(ctx context.Context, id string) (*concept.Concept, error)
	// ListConcepts returns a user's concepts oldest first. The order is stable
	// so that the same stored data always yields the same graph.
	ListConcepts(ctx context.Context, userID string) ([]*concept.Concept, error)
	CreateConcept(ctx context.Context, c *concept.Concept) error
	UpdateRelatedConcepts(ctx context.Context, id string, related concept.ListField) error
	// AddOccurrence records that a concept came up in a conversation
	AddOccurrence(ctx context.Context, conceptID, conversationID string) error
	// DeleteConcept removes a concept and its occurrences. Unknown ids are a no-op.
	DeleteConcept(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

func cloneConcept(c *concept.Concept) *concept.Concept {
	cp := *c
	cp.KeyPoints = append([]string(nil), c.KeyPoints...)
	cp.Occurrences = append([]string(nil), c.Occurrences...)
	cp.RelatedConcepts = append(concept.ListField(nil), c.RelatedConcepts...)
	cp.Prerequisites = append(concept.ListField(nil), c.Prerequisites...)
	return &cp
}
