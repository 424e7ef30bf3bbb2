package store

import (
	"context"
	"fmt"
	"sync"

	"recall/backend/internal/concept"
	apperrors "recall/backend/pkg/errors"
)

// MemoryStore keeps concepts in process. It backs tests, the CLI and
// STORE_BACKEND=memory.
type MemoryStore struct {
	mu       sync.RWMutex
	concepts map[string]*concept.Concept
	order    []string
}

// NewMemoryStore creates a store seeded with the given concepts
func NewMemoryStore(seed ...*concept.Concept) *MemoryStore {
	s := &MemoryStore{concepts: make(map[string]*concept.Concept)}
	for _, c := range seed {
		s.concepts[c.ID] = cloneConcept(c)
		s.order = append(s.order, c.ID)
	}
	return s
}

func (s *MemoryStore) GetConcept(_ context.Context, id string) (*concept.Concept, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.concepts[id]
	if !ok {
		return nil, apperrors.NewConceptNotFound(id)
	}
	return cloneConcept(c), nil
}

// ListConcepts returns concepts in insertion order
func (s *MemoryStore) ListConcepts(_ context.Context, userID string) ([]*concept.Concept, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*concept.Concept, 0, len(s.order))
	for _, id := range s.order {
		c := s.concepts[id]
		if userID != "" && c.UserID != userID {
			continue
		}
		out = append(out, cloneConcept(c))
	}
	return out, nil
}

func (s *MemoryStore) CreateConcept(_ context.Context, c *concept.Concept) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.concepts[c.ID]; exists {
		return fmt.Errorf("concept %s already exists", c.ID)
	}
	s.concepts[c.ID] = cloneConcept(c)
	s.order = append(s.order, c.ID)
	return nil
}

func (s *MemoryStore) UpdateRelatedConcepts(_ context.Context, id string, related concept.ListField) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.concepts[id]
	if !ok {
		return apperrors.NewConceptNotFound(id)
	}
	c.RelatedConcepts = append(concept.ListField(nil), related...)
	return nil
}

func (s *MemoryStore) AddOccurrence(_ context.Context, conceptID, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.concepts[conceptID]
	if !ok {
		return apperrors.NewConceptNotFound(conceptID)
	}
	for _, existing := range c.Occurrences {
		if existing == conversationID {
			return nil
		}
	}
	c.Occurrences = append(c.Occurrences, conversationID)
	return nil
}

func (s *MemoryStore) DeleteConcept(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.concepts[id]; !ok {
		return nil
	}
	delete(s.concepts, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }
