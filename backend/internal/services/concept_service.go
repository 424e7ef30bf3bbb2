// Package services composes the concept engine with persistence, caching and metrics.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"recall/backend/internal/adapter"
	"recall/backend/internal/cache"
	"recall/backend/internal/classify"
	"recall/backend/internal/concept"
	"recall/backend/internal/constants"
	"recall/backend/internal/graph"
	"recall/backend/internal/mastery"
	"recall/backend/internal/metrics"
	"recall/backend/internal/relationship"
	"recall/backend/internal/similarity"
	"recall/backend/internal/store"
	"recall/backend/pkg/logger"
)

// SourceSuggested marks a category that came from the LLM and normalized cleanly
const SourceSuggested classify.Source = "suggested"

// Suggester proposes a category for a title. *adapter.CategorySuggester implements it.
type Suggester interface {
	Suggest(ctx context.Context, title, summary string, labels []string) (adapter.Suggestion, error)
}

// Dependencies wires a ConceptService. Only Store is required.
type Dependencies struct {
	Store      store.Store
	Classifier *classify.Classifier
	Detector   *similarity.Detector
	Builder    *graph.Builder
	Cache      cache.Cache
	Metrics    *metrics.Registry
	Suggester  Suggester
	// Fingerprint is mixed into graph cache keys; it must change whenever the
	// builder configuration does.
	Fingerprint string
}

// ConceptService is the application API over the concept engine
type ConceptService struct {
	store       store.Store
	classifier  *classify.Classifier
	detector    *similarity.Detector
	builder     *graph.Builder
	maintainer  *relationship.Maintainer
	cache       cache.Cache
	metrics     *metrics.Registry
	suggester   Suggester
	fingerprint string
	logger      *zap.Logger
}

// NewConceptService fills unset dependencies with defaults
func NewConceptService(deps Dependencies) *ConceptService {
	if deps.Classifier == nil {
		deps.Classifier = classify.NewClassifier(nil)
	}
	if deps.Detector == nil {
		deps.Detector = similarity.NewDetector(similarity.DefaultThreshold)
	}
	if deps.Builder == nil {
		deps.Builder = graph.NewBuilder(nil, nil, graph.DefaultMaxEdgesPerNode)
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewMemoryCache(constants.DefaultGraphCacheTTL)
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewRegistry()
	}
	if deps.Fingerprint == "" {
		deps.Fingerprint = constants.GraphFormatVersion
	}

	return &ConceptService{
		store:       deps.Store,
		classifier:  deps.Classifier,
		detector:    deps.Detector,
		builder:     deps.Builder,
		maintainer:  relationship.NewMaintainer(deps.Store),
		cache:       deps.Cache,
		metrics:     deps.Metrics,
		suggester:   deps.Suggester,
		fingerprint: deps.Fingerprint,
		logger:      logger.Named("concept_service"),
	}
}

// BuildGraph returns the JSON-encoded graph of a user's concepts. Results are
// cached under the hash of the snapshot.
func (s *ConceptService) BuildGraph(ctx context.Context, userID string) ([]byte, error) {
	concepts, err := s.store.ListConcepts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load concepts: %w", err)
	}

	snapshot, err := json.Marshal(concepts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	key := cache.Key(userID, append([]byte(s.fingerprint+"|"), snapshot...))

	if cached, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("Graph cache read failed", zap.String("user_id", userID), zap.Error(err))
	} else if ok {
		s.metrics.RecordGraphCacheHit()
		return cached, nil
	}

	start := time.Now()
	g := s.builder.Build(concepts)
	s.metrics.RecordGraphBuild(time.Since(start), g.Stats.Concepts, g.Stats.EdgesInferred, g.Stats.EdgesKept, g.Stats.Unresolved)

	body, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("failed to encode graph: %w", err)
	}
	if err := s.cache.Set(ctx, key, body); err != nil {
		s.logger.Warn("Graph cache write failed", zap.String("user_id", userID), zap.Error(err))
	}

	s.logger.Debug("Graph built for user",
		zap.String("user_id", userID),
		zap.Int("concepts", g.Stats.Concepts),
		zap.Int("edges", g.Stats.EdgesKept),
	)
	return body, nil
}

// Classify assigns a category to an unsaved concept
func (s *ConceptService) Classify(_ context.Context, in *concept.Concept) classify.Result {
	res := s.classifier.Classify(in)
	s.metrics.RecordClassification(string(res.Source))
	return res
}

// FindSimilar scores title against the user's concepts. threshold <= 0 uses
// the detector default.
func (s *ConceptService) FindSimilar(ctx context.Context, userID, title string, threshold float64) ([]similarity.Match, error) {
	concepts, err := s.store.ListConcepts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load concepts: %w", err)
	}
	return s.detector.FindSimilar(title, concepts, threshold), nil
}

// ConceptView is a stored concept with its derived understanding score
type ConceptView struct {
	*concept.Concept
	Understanding int            `json:"understanding"`
	Bucket        mastery.Bucket `json:"bucket"`
}

// GetConcept loads one concept and scores it
func (s *ConceptService) GetConcept(ctx context.Context, id string) (*ConceptView, error) {
	c, err := s.store.GetConcept(ctx, id)
	if err != nil {
		return nil, err
	}
	score := mastery.Score(c)
	return &ConceptView{Concept: c, Understanding: score, Bucket: mastery.BucketOf(score)}, nil
}

// CreateResult is the outcome of CreateConcept. Duplicate is true when an
// existing concept matched the title and was returned instead.
type CreateResult struct {
	Concept                *concept.Concept   `json:"concept"`
	Duplicate              bool               `json:"duplicate"`
	Match                  *similarity.Match  `json:"match,omitempty"`
	Classification         classify.Result    `json:"classification"`
	PrerequisiteCandidates []similarity.Match `json:"prerequisiteCandidates"`
}

// CreateConcept stores a new concept unless one with a near-identical title
// already exists for the user. New concepts are classified and get a fresh id;
// references to themselves and repeated references are dropped before storing.
func (s *ConceptService) CreateConcept(ctx context.Context, in *concept.Concept) (*CreateResult, error) {
	existing, err := s.store.ListConcepts(ctx, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load concepts: %w", err)
	}

	if match, ok := s.detector.FindDuplicate(in.Title, existing); ok {
		for _, c := range existing {
			if c.ID == match.ID {
				s.logger.Info("Duplicate concept, returning existing",
					zap.String("title", in.Title),
					zap.String("concept_id", c.ID),
					zap.Float64("score", match.Score),
				)
				m := match
				return &CreateResult{
					Concept:                c,
					Duplicate:              true,
					Match:                  &m,
					Classification:         resultFromCategory(c.Category),
					PrerequisiteCandidates: []similarity.Match{},
				}, nil
			}
		}
	}

	c := *in
	c.Title = strings.TrimSpace(c.Title)
	res := s.Classify(ctx, &c)
	c.Category = res.Label()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.RelatedConcepts = c.RelatedConcepts.Dedupe(&c)
	c.Prerequisites = c.Prerequisites.Dedupe(&c)

	if err := s.store.CreateConcept(ctx, &c); err != nil {
		return nil, err
	}
	s.invalidate(ctx, c.UserID)

	s.logger.Info("Concept created",
		zap.String("concept_id", c.ID),
		zap.String("category", c.Category),
		zap.String("classification_source", string(res.Source)),
	)
	return &CreateResult{
		Concept:                &c,
		Classification:         res,
		PrerequisiteCandidates: s.detector.PrerequisiteCandidates(c.Title, existing),
	}, nil
}

// Link makes two concepts reference each other
func (s *ConceptService) Link(ctx context.Context, aID, bID string) (relationship.Result, error) {
	res, err := s.maintainer.Link(ctx, aID, bID)
	s.recordRelationship("link", res, err)
	if err == nil && res.Changed {
		s.invalidateFor(ctx, aID)
	}
	return res, err
}

// Unlink removes every reference between two concepts
func (s *ConceptService) Unlink(ctx context.Context, aID, bID string) (relationship.Result, error) {
	res, err := s.maintainer.Unlink(ctx, aID, bID)
	s.recordRelationship("unlink", res, err)
	if err == nil && res.Changed {
		s.invalidateFor(ctx, aID)
	}
	return res, err
}

// RecordOccurrence notes that a concept came up in a conversation
func (s *ConceptService) RecordOccurrence(ctx context.Context, conceptID, conversationID string) error {
	if err := s.store.AddOccurrence(ctx, conceptID, conversationID); err != nil {
		return err
	}
	s.invalidateFor(ctx, conceptID)
	return nil
}

// SuggestCategory asks the LLM for a category and normalizes the answer.
// Without a suggester, or when the answer fails or does not normalize, the
// rule-based classifier decides.
func (s *ConceptService) SuggestCategory(ctx context.Context, title, summary string) classify.Result {
	in := &concept.Concept{Title: title, Summary: summary}
	if s.suggester == nil {
		s.metrics.RecordSuggestion("disabled")
		return s.Classify(ctx, in)
	}

	suggestion, err := s.suggester.Suggest(ctx, title, summary, s.classifier.Taxonomy().Labels())
	if err != nil {
		s.logger.Warn("Category suggestion failed, using classifier",
			zap.String("title", title),
			zap.Error(err),
		)
		s.metrics.RecordSuggestion("fallback")
		return s.Classify(ctx, in)
	}

	res, ok := s.classifier.NormalizeCategory(suggestion.Label())
	if !ok {
		s.logger.Debug("Suggested category did not normalize",
			zap.String("title", title),
			zap.String("suggestion", suggestion.Label()),
		)
		s.metrics.RecordSuggestion("fallback")
		return s.Classify(ctx, in)
	}

	s.metrics.RecordSuggestion("ok")
	res.Source = SourceSuggested
	return res
}

func (s *ConceptService) recordRelationship(op string, res relationship.Result, err error) {
	outcome := "unchanged"
	switch {
	case err != nil:
		outcome = "error"
	case !res.Success:
		outcome = string(res.Reason)
	case res.Changed:
		outcome = "changed"
	}
	s.metrics.RecordRelationshipOp(op, outcome)
}

// invalidateFor drops the cached graphs of the concept's owner
func (s *ConceptService) invalidateFor(ctx context.Context, conceptID string) {
	c, err := s.store.GetConcept(ctx, conceptID)
	if err != nil {
		s.logger.Warn("Could not resolve concept owner for cache invalidation",
			zap.String("concept_id", conceptID),
			zap.Error(err),
		)
		return
	}
	s.invalidate(ctx, c.UserID)
}

func (s *ConceptService) invalidate(ctx context.Context, userID string) {
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		s.logger.Warn("Graph cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func resultFromCategory(category string) classify.Result {
	main, sub := concept.SplitCategory(category)
	return classify.Result{Category: main, Subcategory: sub, Source: classify.SourceNormalized}
}
