// Package api exposes the concept service over HTTP with gin.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recall/backend/internal/metrics"
	"recall/backend/internal/services"
)

// Handler serves the concept API
type Handler struct {
	service *services.ConceptService
	logger  *zap.Logger
}

// NewRouter builds the gin engine with middleware and all routes
func NewRouter(service *services.ConceptService, reg *metrics.Registry, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())
	router.Use(metricsMiddleware(reg))
	router.Use(cors())

	h := &Handler{service: service, logger: log}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(reg.Handler()))

	api := router.Group("/api")
	{
		api.GET("/users/:userId/graph", h.getGraph)

		api.POST("/concepts", h.createConcept)
		api.GET("/concepts/:id", h.getConcept)
		api.POST("/concepts/occurrences", h.recordOccurrence)
		api.POST("/concepts/classify", h.classify)
		api.POST("/concepts/similar", h.findSimilar)
		api.POST("/concepts/link", h.link)
		api.POST("/concepts/unlink", h.unlink)
		api.POST("/concepts/suggest-category", h.suggestCategory)
	}

	return router
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}

// metricsMiddleware labels requests by route template, not raw path
func metricsMiddleware(reg *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reg.HTTPRequestsInFlight.Inc()
		defer reg.HTTPRequestsInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		reg.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start), c.Writer.Size())
	}
}

// cors allows the browser front-end to call the API from another origin
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
