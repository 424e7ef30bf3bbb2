package store

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"recall/backend/internal/concept"
	apperrors "recall/backend/pkg/errors"
	"recall/backend/pkg/logger"
)

// Neo4jStore keeps concepts as (:Concept) nodes. Relationship lists are JSON
// text properties; occurrences are (:Concept)-[:OCCURS_IN]->(:Conversation).
type Neo4jStore struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewNeo4jStore creates a store over an open driver
func NewNeo4jStore(driver neo4j.DriverWithContext) *Neo4jStore {
	return &Neo4jStore{
		driver: driver,
		logger: logger.Named("neo4j_store"),
	}
}

// Close closes the Neo4j driver connection
func (r *Neo4jStore) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

// EnsureSchema creates the constraints and indexes the store relies on
func (r *Neo4jStore) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	statements := []string{
		"CREATE CONSTRAINT concept_id_unique IF NOT EXISTS FOR (c:Concept) REQUIRE c.id IS UNIQUE",
		"CREATE CONSTRAINT conversation_id_unique IF NOT EXISTS FOR (v:Conversation) REQUIRE v.id IS UNIQUE",
		"CREATE INDEX concept_user_id IF NOT EXISTS FOR (c:Concept) ON (c.user_id)",
	}
	for _, stmt := range statements {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

const conceptReturn = `
	RETURN
		c.id as id,
		c.user_id as user_id,
		c.title as title,
		c.category as category,
		c.summary as summary,
		c.key_points as key_points,
		c.mastery_level as mastery_level,
		c.learning_progress as learning_progress,
		c.practice_count as practice_count,
		c.review_count as review_count,
		c.confidence_score as confidence_score,
		c.personal_rating as personal_rating,
		c.related_concepts as related_concepts,
		c.prerequisites as prerequisites,
		c.created_at as created_at,
		[(c)-[:OCCURS_IN]->(v:Conversation) | v.id] as occurrences
`

// GetConcept loads one concept by id
func (r *Neo4jStore) GetConcept(ctx context.Context, id string) (*concept.Concept, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `MATCH (c:Concept {id: $id})` + conceptReturn

	result, err := session.Run(ctx, query, map[string]interface{}{
		"id": id,
	})
	if err != nil {
		return nil, apperrors.NewStoreQueryFailed("get concept", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, apperrors.NewStoreQueryFailed("get concept", err)
		}
		return nil, apperrors.NewConceptNotFound(id)
	}
	return conceptFromRecord(result.Record()), nil
}

// ListConcepts returns the user's concepts ordered by creation time, then id
func (r *Neo4jStore) ListConcepts(ctx context.Context, userID string) ([]*concept.Concept, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (c:Concept)
		WHERE $userID = '' OR c.user_id = $userID
		WITH c ORDER BY c.created_at ASC, c.id ASC
	` + conceptReturn

	result, err := session.Run(ctx, query, map[string]interface{}{
		"userID": userID,
	})
	if err != nil {
		return nil, apperrors.NewStoreQueryFailed("list concepts", err)
	}

	concepts := make([]*concept.Concept, 0)
	for result.Next(ctx) {
		concepts = append(concepts, conceptFromRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewStoreQueryFailed("iterate concepts", err)
	}
	return concepts, nil
}

// CreateConcept writes a new concept node and its occurrences
func (r *Neo4jStore) CreateConcept(ctx context.Context, c *concept.Concept) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		CREATE (c:Concept {
			id: $id,
			user_id: $userID,
			title: $title,
			category: $category,
			summary: $summary,
			key_points: $keyPoints,
			mastery_level: $masteryLevel,
			learning_progress: $learningProgress,
			practice_count: $practiceCount,
			review_count: $reviewCount,
			confidence_score: $confidenceScore,
			personal_rating: $personalRating,
			related_concepts: $relatedConcepts,
			prerequisites: $prerequisites,
			created_at: datetime($createdAt)
		})
		WITH c
		UNWIND $occurrences AS convID
		MERGE (v:Conversation {id: convID})
		MERGE (c)-[:OCCURS_IN]->(v)
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"id":               c.ID,
		"userID":           c.UserID,
		"title":            c.Title,
		"category":         c.Category,
		"summary":          c.Summary,
		"keyPoints":        stringsOrEmpty(c.KeyPoints),
		"masteryLevel":     string(c.MasteryLevel),
		"learningProgress": optionalFloat(c.LearningProgress),
		"practiceCount":    optionalInt(c.PracticeCount),
		"reviewCount":      optionalInt(c.ReviewCount),
		"confidenceScore":  optionalFloat(c.ConfidenceScore),
		"personalRating":   optionalInt(c.PersonalRating),
		"relatedConcepts":  listText(c.RelatedConcepts),
		"prerequisites":    listText(c.Prerequisites),
		"createdAt":        createdAt.UTC().Format(time.RFC3339Nano),
		"occurrences":      stringsOrEmpty(c.Occurrences),
	})
	if err != nil {
		return apperrors.NewStoreQueryFailed("create concept", err)
	}

	r.logger.Info("Concept created",
		zap.String("concept_id", c.ID),
		zap.String("user_id", c.UserID),
	)
	return nil
}

// UpdateRelatedConcepts replaces the stored relatedConcepts text
func (r *Neo4jStore) UpdateRelatedConcepts(ctx context.Context, id string, related concept.ListField) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MATCH (c:Concept {id: $id})
		SET c.related_concepts = $related
		RETURN c.id as id
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"id":      id,
		"related": listText(related),
	})
	if err != nil {
		return apperrors.NewStoreQueryFailed("update related concepts", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return apperrors.NewStoreQueryFailed("update related concepts", err)
		}
		return apperrors.NewConceptNotFound(id)
	}
	return nil
}

// AddOccurrence links a concept to a conversation node
func (r *Neo4jStore) AddOccurrence(ctx context.Context, conceptID, conversationID string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MATCH (c:Concept {id: $conceptID})
		MERGE (v:Conversation {id: $conversationID})
		MERGE (c)-[:OCCURS_IN]->(v)
		RETURN c.id as id
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"conceptID":      conceptID,
		"conversationID": conversationID,
	})
	if err != nil {
		return apperrors.NewStoreQueryFailed("add occurrence", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return apperrors.NewStoreQueryFailed("add occurrence", err)
		}
		return apperrors.NewConceptNotFound(conceptID)
	}
	return nil
}

// DeleteConcept removes a concept node and its relationships
func (r *Neo4jStore) DeleteConcept(ctx context.Context, id string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.Run(ctx, "MATCH (c:Concept {id: $id}) DETACH DELETE c", map[string]interface{}{"id": id})
	if err != nil {
		return apperrors.NewStoreQueryFailed("delete concept", err)
	}
	return nil
}

func conceptFromRecord(record *neo4j.Record) *concept.Concept {
	return &concept.Concept{
		ID:               getStringFromRecord(record, "id"),
		UserID:           getStringFromRecord(record, "user_id"),
		Title:            getStringFromRecord(record, "title"),
		Category:         getStringFromRecord(record, "category"),
		Summary:          getStringFromRecord(record, "summary"),
		KeyPoints:        getStringSliceFromRecord(record, "key_points"),
		MasteryLevel:     concept.MasteryLevel(getStringFromRecord(record, "mastery_level")),
		LearningProgress: getOptionalFloatFromRecord(record, "learning_progress"),
		PracticeCount:    getOptionalIntFromRecord(record, "practice_count"),
		ReviewCount:      getOptionalIntFromRecord(record, "review_count"),
		ConfidenceScore:  getOptionalFloatFromRecord(record, "confidence_score"),
		PersonalRating:   getOptionalIntFromRecord(record, "personal_rating"),
		RelatedConcepts:  getListFieldFromRecord(record, "related_concepts"),
		Prerequisites:    getListFieldFromRecord(record, "prerequisites"),
		CreatedAt:        getTimeFromRecord(record, "created_at"),
		Occurrences:      sortedStrings(getStringSliceFromRecord(record, "occurrences")),
	}
}
