package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recall/backend/internal/concept"
	"recall/backend/internal/relationship"
	"recall/backend/internal/similarity"
	apperrors "recall/backend/pkg/errors"
)

func (h *Handler) getGraph(c *gin.Context) {
	userID := c.Param("userId")

	body, err := h.service.BuildGraph(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to build graph", zap.String("user_id", userID), zap.Error(err))
		c.JSON(failureStatus(err), gin.H{"error": "Failed to build graph"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func (h *Handler) getConcept(c *gin.Context) {
	id := c.Param("id")

	view, err := h.service.GetConcept(c.Request.Context(), id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Concept not found"})
			return
		}
		h.logger.Error("Failed to fetch concept", zap.String("concept_id", id), zap.Error(err))
		c.JSON(failureStatus(err), gin.H{"error": "Failed to fetch concept"})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) createConcept(c *gin.Context) {
	var req CreateConceptRequest
	if !bind(c, &req) {
		return
	}

	res, err := h.service.CreateConcept(c.Request.Context(), req.toConcept())
	if err != nil {
		h.logger.Error("Failed to create concept", zap.String("title", req.Title), zap.Error(err))
		c.JSON(failureStatus(err), gin.H{"error": "Failed to create concept"})
		return
	}

	status := http.StatusCreated
	if res.Duplicate {
		status = http.StatusOK
	}
	c.JSON(status, res)
}

func (h *Handler) recordOccurrence(c *gin.Context) {
	var req OccurrenceRequest
	if !bind(c, &req) {
		return
	}
	id := req.ConceptID

	if err := h.service.RecordOccurrence(c.Request.Context(), id, req.ConversationID); err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Concept not found"})
			return
		}
		h.logger.Error("Failed to record occurrence", zap.String("concept_id", id), zap.Error(err))
		c.JSON(failureStatus(err), gin.H{"error": "Failed to record occurrence"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}

func (h *Handler) classify(c *gin.Context) {
	var req ClassifyRequest
	if !bind(c, &req) {
		return
	}

	res := h.service.Classify(c.Request.Context(), &concept.Concept{
		Title:     req.Title,
		Summary:   req.Summary,
		KeyPoints: req.KeyPoints,
		Category:  req.Category,
	})
	c.JSON(http.StatusOK, gin.H{
		"category":    res.Category,
		"subcategory": res.Subcategory,
	})
}

func (h *Handler) findSimilar(c *gin.Context) {
	var req SimilarRequest
	if !bind(c, &req) {
		return
	}

	threshold := 0.0
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	matches, err := h.service.FindSimilar(c.Request.Context(), req.UserID, req.Title, threshold)
	if err != nil {
		h.logger.Error("Failed to find similar concepts", zap.String("user_id", req.UserID), zap.Error(err))
		c.JSON(failureStatus(err), gin.H{"error": "Failed to find similar concepts"})
		return
	}
	if matches == nil {
		matches = []similarity.Match{}
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

func (h *Handler) link(c *gin.Context) {
	var req LinkRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.service.Link(c.Request.Context(), req.ConceptID, req.RelatedConceptID)
	h.writeRelationship(c, "link", req, res, err)
}

func (h *Handler) unlink(c *gin.Context) {
	var req LinkRequest
	if !bind(c, &req) {
		return
	}
	res, err := h.service.Unlink(c.Request.Context(), req.ConceptID, req.RelatedConceptID)
	h.writeRelationship(c, "unlink", req, res, err)
}

func (h *Handler) writeRelationship(c *gin.Context, op string, req LinkRequest, res relationship.Result, err error) {
	if err != nil {
		h.logger.Error("Relationship update failed",
			zap.String("operation", op),
			zap.String("concept_id", req.ConceptID),
			zap.String("related_concept_id", req.RelatedConceptID),
			zap.Error(err),
		)
		c.JSON(failureStatus(err), gin.H{"success": false, "message": "Failed to update relationship"})
		return
	}

	status := http.StatusOK
	switch res.Reason {
	case relationship.ReasonSelfLink:
		status = http.StatusBadRequest
	case relationship.ReasonNotFound:
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"success": res.Success, "message": res.Message})
}

func (h *Handler) suggestCategory(c *gin.Context) {
	var req SuggestCategoryRequest
	if !bind(c, &req) {
		return
	}

	res := h.service.SuggestCategory(c.Request.Context(), req.Title, req.Summary)
	c.JSON(http.StatusOK, gin.H{
		"category":    res.Category,
		"subcategory": res.Subcategory,
		"source":      res.Source,
	})
}

// failureStatus answers 503 for failures worth retrying (store outages) and 500 otherwise
func failureStatus(err error) int {
	if apperrors.IsRetryable(err) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// bind decodes and validates the JSON body, answering 400 on failure
func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	if err := validateRequest(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}
