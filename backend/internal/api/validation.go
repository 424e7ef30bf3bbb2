package api

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"recall/backend/internal/concept"
)

// validate is a singleton validator instance
var validate = validator.New()

// ClassifyRequest is the body of POST /api/concepts/classify
type ClassifyRequest struct {
	Title     string   `json:"title" validate:"required,max=500"`
	Summary   string   `json:"summary" validate:"max=10000"`
	KeyPoints []string `json:"keyPoints" validate:"omitempty,max=100,dive,max=2000"`
	Category  string   `json:"category" validate:"max=200"`
}

// SimilarRequest is the body of POST /api/concepts/similar
type SimilarRequest struct {
	UserID    string   `json:"userId" validate:"required,max=128"`
	Title     string   `json:"title" validate:"required,max=500"`
	Threshold *float64 `json:"threshold" validate:"omitempty,gt=0,lte=1"`
}

// CreateConceptRequest is the body of POST /api/concepts
type CreateConceptRequest struct {
	UserID           string          `json:"userId" validate:"required,max=128"`
	Title            string          `json:"title" validate:"required,max=500"`
	Category         string          `json:"category" validate:"max=200"`
	Summary          string          `json:"summary" validate:"max=10000"`
	KeyPoints        []string        `json:"keyPoints" validate:"omitempty,max=100,dive,max=2000"`
	MasteryLevel     string          `json:"masteryLevel" validate:"omitempty,oneof=BEGINNER INTERMEDIATE ADVANCED EXPERT"`
	LearningProgress *float64        `json:"learningProgress" validate:"omitempty,gte=0,lte=100"`
	PracticeCount    *int            `json:"practiceCount" validate:"omitempty,gte=0"`
	ReviewCount      *int            `json:"reviewCount" validate:"omitempty,gte=0"`
	ConfidenceScore  *float64        `json:"confidenceScore" validate:"omitempty,gte=0,lte=100"`
	PersonalRating   *int            `json:"personalRating" validate:"omitempty,gte=0,lte=5"`
	Occurrences      []string        `json:"occurrences" validate:"omitempty,max=1000,dive,required"`
	RelatedConcepts  json.RawMessage `json:"relatedConcepts"`
	Prerequisites    json.RawMessage `json:"prerequisites"`
}

// toConcept copies the request into an unsaved concept. Relationship fields
// keep the raw JSON the client sent.
func (r *CreateConceptRequest) toConcept() *concept.Concept {
	c := &concept.Concept{
		UserID:           r.UserID,
		Title:            r.Title,
		Category:         r.Category,
		Summary:          r.Summary,
		KeyPoints:        r.KeyPoints,
		MasteryLevel:     concept.MasteryLevel(r.MasteryLevel),
		LearningProgress: r.LearningProgress,
		PracticeCount:    r.PracticeCount,
		ReviewCount:      r.ReviewCount,
		ConfidenceScore:  r.ConfidenceScore,
		PersonalRating:   r.PersonalRating,
		Occurrences:      r.Occurrences,
	}
	if len(r.RelatedConcepts) > 0 && string(r.RelatedConcepts) != "null" {
		c.RelatedConcepts = concept.ListField(r.RelatedConcepts)
	}
	if len(r.Prerequisites) > 0 && string(r.Prerequisites) != "null" {
		c.Prerequisites = concept.ListField(r.Prerequisites)
	}
	return c
}

// LinkRequest is the body of POST /api/concepts/link and /unlink
type LinkRequest struct {
	ConceptID        string `json:"conceptId" validate:"required,max=128"`
	RelatedConceptID string `json:"relatedConceptId" validate:"required,max=128"`
}

// SuggestCategoryRequest is the body of POST /api/concepts/suggest-category
type SuggestCategoryRequest struct {
	Title   string `json:"title" validate:"required,max=500"`
	Summary string `json:"summary" validate:"max=10000"`
}

// OccurrenceRequest is the body of POST /api/concepts/occurrences
type OccurrenceRequest struct {
	ConceptID      string `json:"conceptId" validate:"required,max=128"`
	ConversationID string `json:"conversationId" validate:"required,max=128"`
}

// validateRequest runs the struct tags and returns the first failure in a
// readable form
func validateRequest(req interface{}) error {
	if req == nil {
		return errors.New("request cannot be nil")
	}
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, e := range validationErrs {
		field := e.Field()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min", "gte", "gt":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max", "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}
