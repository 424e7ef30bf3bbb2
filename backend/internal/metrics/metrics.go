package metrics

import (
	"strconv"
	"time"
)

// RecordHTTPRequest records one API request against its route template.
// Negative sizes (nothing written) are not observed.
func (r *Registry) RecordHTTPRequest(method, route string, code int, duration time.Duration, size int) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	if size >= 0 {
		r.HTTPResponseSizeBytes.WithLabelValues(route).Observe(float64(size))
	}
}

// RecordGraphCacheHit records a graph served from the cache
func (r *Registry) RecordGraphCacheHit() {
	r.GraphBuildsTotal.WithLabelValues("hit").Inc()
}

// RecordGraphBuild records a freshly built graph
func (r *Registry) RecordGraphBuild(duration time.Duration, concepts, inferred, kept, unresolved int) {
	r.GraphBuildsTotal.WithLabelValues("miss").Inc()
	r.GraphBuildDuration.Observe(duration.Seconds())
	r.GraphConcepts.Observe(float64(concepts))
	r.GraphEdgesKept.Observe(float64(kept))
	if inferred > kept {
		r.GraphEdgesDropped.Add(float64(inferred - kept))
	}
	if unresolved > 0 {
		r.GraphUnresolvedRef.Add(float64(unresolved))
	}
}

// RecordRelationshipOp records a link or unlink outcome
// (changed, unchanged, self_link, not_found, error)
func (r *Registry) RecordRelationshipOp(operation, outcome string) {
	r.RelationshipOpsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordClassification records which decision path produced a category
func (r *Registry) RecordClassification(source string) {
	r.ClassificationsTotal.WithLabelValues(source).Inc()
}

// RecordSuggestion records an LLM suggestion attempt (ok, fallback, disabled)
func (r *Registry) RecordSuggestion(status string) {
	r.SuggestionsTotal.WithLabelValues(status).Inc()
}
