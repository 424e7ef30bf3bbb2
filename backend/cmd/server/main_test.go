package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"recall/backend/internal/api"
	"recall/backend/internal/metrics"
	"recall/backend/internal/store"
	"recall/backend/pkg/config"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		Env:                "development",
		StoreBackend:       config.StoreMemory,
		GraphCacheTTL:      time.Minute,
		MaxEdgesPerNode:    5,
		DuplicateThreshold: 0.7,
	}
}

func newRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := metrics.NewRegistry()
	app, err := wire(context.Background(), cfg, reg)
	require.NoError(t, err)
	t.Cleanup(func() { app.close(zap.NewNop()) })

	return api.NewRouter(app.service, reg, zap.NewNop())
}

func TestHealthEndpoint(t *testing.T) {
	router := newRouter(t, memoryConfig())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "ok", response["status"])
}

func TestCreateEndpoint_InvalidRequest(t *testing.T) {
	router := newRouter(t, memoryConfig())

	// Test missing fields
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/concepts", bytes.NewBuffer([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLinkEndpoint_InvalidRequest(t *testing.T) {
	router := newRouter(t, memoryConfig())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/concepts/link", bytes.NewBuffer([]byte(`{"conceptId":"a"}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWire_SQLiteRoundTrip(t *testing.T) {
	cfg := memoryConfig()
	cfg.StoreBackend = config.StoreSQLite
	cfg.DatabaseDSN = filepath.Join(t.TempDir(), "recall.db")
	router := newRouter(t, cfg)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/concepts", bytes.NewBuffer([]byte(`{"userId":"u1","title":"Binary Search"}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/users/u1/graph", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Nodes []map[string]interface{} `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Nodes, 1)
}

func TestWire_Failures(t *testing.T) {
	t.Run("missing taxonomy file", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.TaxonomyFile = filepath.Join(t.TempDir(), "missing.yaml")
		_, err := wire(context.Background(), cfg, metrics.NewRegistry())
		assert.Error(t, err)
	})

	t.Run("unknown store backend", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.StoreBackend = "cassandra"
		_, err := wire(context.Background(), cfg, metrics.NewRegistry())
		assert.Error(t, err)
	})
}

func TestWire_MemoryBackend(t *testing.T) {
	app, err := wire(context.Background(), memoryConfig(), metrics.NewRegistry())
	require.NoError(t, err)
	defer app.close(zap.NewNop())

	_, ok := app.store.(*store.MemoryStore)
	assert.True(t, ok)
}

func TestFingerprint(t *testing.T) {
	a := memoryConfig()
	b := memoryConfig()
	b.MaxEdgesPerNode = 3

	assert.NotEqual(t, fingerprint(a), fingerprint(b))
	assert.Equal(t, fingerprint(a), fingerprint(memoryConfig()))
}
