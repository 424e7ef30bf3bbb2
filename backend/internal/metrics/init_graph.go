package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphBuildsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "recall_graph_builds_total",
			Help: "Total number of graph requests by cache outcome",
		},
		[]string{"cache"},
	)

	r.GraphBuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recall_graph_build_duration_seconds",
			Help:    "Time spent inferring edges and laying out a graph",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
	)

	r.GraphConcepts = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recall_graph_concepts",
			Help:    "Number of concepts per built graph",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000},
		},
	)

	r.GraphEdgesKept = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recall_graph_edges_kept",
			Help:    "Number of edges kept after the per-node cap",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000},
		},
	)

	r.GraphEdgesDropped = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "recall_graph_edges_dropped_total",
			Help: "Total number of inferred edges dropped by the per-node cap",
		},
	)

	r.GraphUnresolvedRef = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "recall_graph_unresolved_references_total",
			Help: "Total number of relationship references that matched no concept",
		},
	)
}

func (r *Registry) initRelationshipMetrics() {
	r.RelationshipOpsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "recall_relationship_operations_total",
			Help: "Total number of link/unlink requests by outcome",
		},
		[]string{"operation", "outcome"},
	)
}

func (r *Registry) initClassificationMetrics() {
	r.ClassificationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "recall_classifications_total",
			Help: "Total number of classifications by decision path",
		},
		[]string{"source"},
	)

	r.SuggestionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "recall_category_suggestions_total",
			Help: "Total number of LLM category suggestions by status",
		},
		[]string{"status"},
	)
}
