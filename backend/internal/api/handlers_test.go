package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recall/backend/internal/concept"
	"recall/backend/internal/metrics"
	"recall/backend/internal/services"
	"recall/backend/internal/store"
	apperrors "recall/backend/pkg/errors"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	st := store.NewMemoryStore(
		&concept.Concept{ID: "a", UserID: "u1", Title: "Hash Table", Category: "Data Structures > Hash Tables", CreatedAt: base},
		&concept.Concept{ID: "b", UserID: "u1", Title: "Arrays", Category: "Data Structures > Arrays", CreatedAt: base.Add(time.Minute)},
	)
	reg := metrics.NewRegistry()
	svc := services.NewConceptService(services.Dependencies{Store: st, Metrics: reg})
	return NewRouter(svc, reg, zap.NewNop()), st
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestGraphEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, "GET", "/api/users/u1/graph", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Len(t, body["nodes"], 2)
	assert.Contains(t, body, "edges")
	assert.Contains(t, body, "lanes")
}

func TestGraphEndpoint_UnknownUserIsEmpty(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, "GET", "/api/users/nobody/graph", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["nodes"])
}

func TestClassifyEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, "POST", "/api/concepts/classify", `{"title":"Valid Anagram","category":"data structures"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Data Structures", decode(t, w)["category"])

	w = doJSON(router, "POST", "/api/concepts/classify", `{"summary":"no title"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "Title")
}

func TestSimilarEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, "POST", "/api/concepts/similar", `{"userId":"u1","title":"hash tables"}`)
	require.Equal(t, http.StatusOK, w.Code)
	matches := decode(t, w)["matches"].([]interface{})
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].(map[string]interface{})["id"])

	w = doJSON(router, "POST", "/api/concepts/similar", `{"userId":"u1","title":"x","threshold":1.5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateEndpoint(t *testing.T) {
	router, st := newTestRouter(t)

	w := doJSON(router, "POST", "/api/concepts", `{"userId":"u1","title":"Stoicism","relatedConcepts":["Ethics",{"id":"a"}]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode(t, w)["concept"].(map[string]interface{})
	id := created["id"].(string)
	assert.NotEmpty(t, id)

	stored, err := st.GetConcept(t.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, `["Ethics",{"id":"a"}]`, string(stored.RelatedConcepts))

	w = doJSON(router, "POST", "/api/concepts", `{"userId":"u1","title":"hash table"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["duplicate"])

	w = doJSON(router, "POST", "/api/concepts", `{"userId":"u1","title":"X","masteryLevel":"GURU"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetConceptEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, "GET", "/api/concepts/a", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Hash Table", body["title"])
	assert.Equal(t, float64(25), body["understanding"])

	w = doJSON(router, "GET", "/api/concepts/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLinkEndpoints(t *testing.T) {
	router, st := newTestRouter(t)

	w := doJSON(router, "POST", "/api/concepts/link", `{"conceptId":"a","relatedConceptId":"b"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["success"])

	a, err := st.GetConcept(t.Context(), "a")
	require.NoError(t, err)
	b, err := st.GetConcept(t.Context(), "b")
	require.NoError(t, err)
	assert.True(t, a.RelatedConcepts.Contains(b))
	assert.True(t, b.RelatedConcepts.Contains(a))

	w = doJSON(router, "POST", "/api/concepts/unlink", `{"conceptId":"b","relatedConceptId":"a"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["success"])

	a, err = st.GetConcept(t.Context(), "a")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(a.RelatedConcepts))
}

func TestLinkEndpoint_Rejections(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, "POST", "/api/concepts/link", `{"conceptId":"a","relatedConceptId":"a"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["message"])

	w = doJSON(router, "POST", "/api/concepts/link", `{"conceptId":"a","relatedConceptId":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decode(t, w)["message"], "ghost")

	w = doJSON(router, "POST", "/api/concepts/unlink", `{"conceptId":"a"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggestCategoryEndpoint_Disabled(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, "POST", "/api/concepts/suggest-category", `{"title":"Merge Sort"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.NotEmpty(t, body["category"])
	assert.NotEqual(t, "suggested", body["source"])
}

func TestOccurrenceEndpoint(t *testing.T) {
	router, st := newTestRouter(t)

	w := doJSON(router, "POST", "/api/concepts/occurrences", `{"conceptId":"a","conversationId":"conv-1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	a, err := st.GetConcept(t.Context(), "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"conv-1"}, a.Occurrences)

	w = doJSON(router, "POST", "/api/concepts/occurrences", `{"conceptId":"ghost","conversationId":"conv-1"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// brokenStore fails every listing the way a dropped database connection does
type brokenStore struct {
	*store.MemoryStore
	err error
}

func (b *brokenStore) ListConcepts(context.Context, string) ([]*concept.Concept, error) {
	return nil, b.err
}

func TestStoreFailureStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	newRouter := func(err error) *gin.Engine {
		st := &brokenStore{MemoryStore: store.NewMemoryStore(), err: err}
		reg := metrics.NewRegistry()
		return NewRouter(services.NewConceptService(services.Dependencies{Store: st, Metrics: reg}), reg, zap.NewNop())
	}

	w := doJSON(newRouter(apperrors.NewStoreQueryFailed("list concepts", errors.New("connection reset"))), "GET", "/api/users/u1/graph", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Failed to build graph", decode(t, w)["error"])

	w = doJSON(newRouter(errors.New("corrupt row")), "POST", "/api/concepts/similar", `{"userId":"u1","title":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	doJSON(router, "GET", "/health", "")
	w := doJSON(router, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `recall_api_requests_total{code="200",method="GET",route="/health"} 1`))
	assert.Contains(t, w.Body.String(), `recall_api_response_size_bytes_count{route="/health"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, "OPTIONS", "/api/concepts/link", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
