package graph

import (
	"strings"

	"go.uber.org/zap"

	"recall/backend/internal/concept"
	"recall/backend/pkg/logger"
)

// Inferencer builds the uncapped edge set of a snapshot
type Inferencer struct {
	families []KeywordFamily
	logger   *zap.Logger
}

// NewInferencer creates an inferencer; nil families selects DefaultFamilies
func NewInferencer(families []KeywordFamily) *Inferencer {
	if families == nil {
		families = DefaultFamilies()
	}
	lowered := make([]KeywordFamily, 0, len(families))
	for _, f := range families {
		terms := make([]string, 0, len(f.Terms))
		for _, term := range f.Terms {
			if term = strings.ToLower(strings.TrimSpace(term)); term != "" {
				terms = append(terms, term)
			}
		}
		lowered = append(lowered, KeywordFamily{Name: f.Name, Terms: terms})
	}
	return &Inferencer{
		families: lowered,
		logger:   logger.Named("graph"),
	}
}

// BuildEdges walks the concepts in snapshot order and runs all four passes
// (prerequisite, related, lexical, shared occurrence) for one concept before
// moving to the next. A pair is connected at most once: whichever pass reaches
// it first decides its type and weight. Dangling references are dropped.
func (inf *Inferencer) BuildEdges(concepts []*concept.Concept) []Edge {
	edges, _ := inf.buildEdges(concepts)
	return edges
}

func (inf *Inferencer) buildEdges(concepts []*concept.Concept) ([]Edge, int) {
	idx := concept.NewIndex(concepts)
	set := newEdgeSet()
	unresolved := 0

	resolve := func(owner *concept.Concept, field string, refs []concept.Reference, add func(target *concept.Concept)) {
		for _, ref := range refs {
			target, ok := idx.Resolve(ref, owner.ID)
			if !ok {
				unresolved++
				inf.logger.Debug("Dropping unresolved reference",
					zap.String("concept_id", owner.ID),
					zap.String("field", field),
					zap.String("reference", ref.Value),
				)
				continue
			}
			add(target)
		}
	}

	titles := make([]string, len(concepts))
	mains := make([]string, len(concepts))
	occurrences := make([]map[string]struct{}, len(concepts))
	for i, c := range concepts {
		titles[i] = strings.ToLower(c.Title)
		mains[i], _ = concept.SplitCategory(c.Category)
		occurrences[i] = make(map[string]struct{}, len(c.Occurrences))
		for _, conv := range c.Occurrences {
			occurrences[i][conv] = struct{}{}
		}
	}

	for i, c := range concepts {
		resolve(c, "prerequisites", c.Prerequisites.References(), func(target *concept.Concept) {
			set.add(Edge{From: target.ID, To: c.ID, Weight: WeightPrerequisite, Type: EdgePrerequisite})
		})

		resolve(c, "relatedConcepts", c.RelatedConcepts.References(), func(target *concept.Concept) {
			set.add(Edge{From: c.ID, To: target.ID, Weight: WeightRelated, Type: EdgeRelated})
		})

		for j, other := range concepts {
			if i == j || set.connected(c.ID, other.ID) {
				continue
			}
			if w, ok := inf.lexicalWeight(titles[i], titles[j], mains[i], mains[j]); ok {
				set.add(Edge{From: c.ID, To: other.ID, Weight: w, Type: EdgeRelated})
			}
		}

		if len(occurrences[i]) == 0 {
			continue
		}
		for j, other := range concepts {
			if i == j || set.connected(c.ID, other.ID) {
				continue
			}
			if sharesAny(occurrences[i], occurrences[j]) {
				set.add(Edge{From: c.ID, To: other.ID, Weight: WeightConversation, Type: EdgeConversation, Label: LabelConversation})
			}
		}
	}

	return set.edges, unresolved
}

// lexicalWeight scores two lowercased titles: hash+table across the pair,
// then a shared keyword family, then the same non-empty main category.
func (inf *Inferencer) lexicalWeight(a, b, mainA, mainB string) (float64, bool) {
	if (strings.Contains(a, "hash") && strings.Contains(b, "table")) ||
		(strings.Contains(a, "table") && strings.Contains(b, "hash")) {
		return WeightHashTable, true
	}
	for _, family := range inf.families {
		if containsTerm(a, family.Terms) && containsTerm(b, family.Terms) {
			return WeightFamily, true
		}
	}
	if mainA != "" && strings.EqualFold(mainA, mainB) {
		return WeightSameCategory, true
	}
	return 0, false
}

func containsTerm(title string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(title, term) {
			return true
		}
	}
	return false
}

func sharesAny(a, b map[string]struct{}) bool {
	if len(b) < len(a) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}

// edgeSet keeps insertion order and rejects a second edge for the same unordered pair
type edgeSet struct {
	edges []Edge
	pairs map[[2]string]struct{}
}

func newEdgeSet() *edgeSet {
	return &edgeSet{
		edges: make([]Edge, 0),
		pairs: make(map[[2]string]struct{}),
	}
}

func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

func (s *edgeSet) connected(a, b string) bool {
	_, ok := s.pairs[pairKey(a, b)]
	return ok
}

func (s *edgeSet) add(e Edge) bool {
	if e.From == e.To || s.connected(e.From, e.To) {
		return false
	}
	s.pairs[pairKey(e.From, e.To)] = struct{}{}
	s.edges = append(s.edges, e)
	return true
}
