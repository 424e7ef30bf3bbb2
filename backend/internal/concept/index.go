package concept

import "strings"

// Index resolves references against one snapshot of concepts.
// Lookups follow collection order, so resolution is deterministic for a given snapshot.
type Index struct {
	concepts []*Concept
	byID     map[string]*Concept
	lowered  []string
}

// NewIndex indexes the given concepts. The slice is not copied; callers must not
// mutate it while the index is in use.
func NewIndex(concepts []*Concept) *Index {
	idx := &Index{
		concepts: concepts,
		byID:     make(map[string]*Concept, len(concepts)),
		lowered:  make([]string, len(concepts)),
	}
	for i, c := range concepts {
		if _, dup := idx.byID[c.ID]; !dup {
			idx.byID[c.ID] = c
		}
		idx.lowered[i] = strings.ToLower(strings.TrimSpace(c.Title))
	}
	return idx
}

// Len returns the number of indexed concepts
func (idx *Index) Len() int {
	return len(idx.concepts)
}

// Get returns the concept with the given id
func (idx *Index) Get(id string) (*Concept, bool) {
	c, ok := idx.byID[id]
	return c, ok
}

// Resolve finds the concept a reference points at, skipping excludeID (the
// concept that owns the reference). ById references fall back to their title hint.
// ByTitle references match an equal title first, then the first concept whose
// title contains the reference or is contained in it. Unresolved references
// return false and are expected to be dropped by the caller.
func (idx *Index) Resolve(ref Reference, excludeID string) (*Concept, bool) {
	if ref.Kind == ByID {
		if c, ok := idx.byID[ref.Value]; ok {
			if c.ID == excludeID {
				return nil, false
			}
			return c, true
		}
	}
	return idx.resolveTitle(ref.DisplayTitle(), excludeID)
}

func (idx *Index) resolveTitle(title, excludeID string) (*Concept, bool) {
	needle := strings.ToLower(strings.TrimSpace(title))
	if needle == "" {
		return nil, false
	}
	for i, c := range idx.concepts {
		if c.ID != excludeID && idx.lowered[i] == needle {
			return c, true
		}
	}
	for i, c := range idx.concepts {
		if c.ID == excludeID || idx.lowered[i] == "" {
			continue
		}
		if strings.Contains(idx.lowered[i], needle) || strings.Contains(needle, idx.lowered[i]) {
			return c, true
		}
	}
	return nil, false
}
