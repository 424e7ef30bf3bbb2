package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"recall/backend/internal/adapter"
	"recall/backend/internal/cache"
	"recall/backend/internal/classify"
	"recall/backend/internal/constants"
	"recall/backend/internal/graph"
	"recall/backend/internal/metrics"
	"recall/backend/internal/services"
	"recall/backend/internal/similarity"
	"recall/backend/internal/store"
	"recall/backend/pkg/config"
)

// application holds the wired service and the resources to release on exit
type application struct {
	service *services.ConceptService
	store   store.Store
	cache   cache.Cache
}

func (a *application) close(log *zap.Logger) {
	if err := a.cache.Close(); err != nil {
		log.Warn("Failed to close graph cache", zap.Error(err))
	}
	if err := a.store.Close(context.Background()); err != nil {
		log.Warn("Failed to close store", zap.Error(err))
	}
}

// wire builds every dependency named by the configuration
func wire(ctx context.Context, cfg *config.Config, reg *metrics.Registry) (*application, error) {
	taxonomy := classify.DefaultTaxonomy()
	if cfg.TaxonomyFile != "" {
		t, err := classify.LoadTaxonomy(cfg.TaxonomyFile)
		if err != nil {
			return nil, err
		}
		taxonomy = t
	}

	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	graphCache, err := openCache(ctx, cfg)
	if err != nil {
		_ = st.Close(ctx)
		return nil, err
	}

	deps := services.Dependencies{
		Store:       st,
		Classifier:  classify.NewClassifier(taxonomy),
		Detector:    similarity.NewDetector(cfg.DuplicateThreshold),
		Builder:     graph.NewBuilder(nil, nil, cfg.MaxEdgesPerNode),
		Cache:       graphCache,
		Metrics:     reg,
		Fingerprint: fingerprint(cfg),
	}
	if cfg.SuggestionsEnabled() {
		deps.Suggester = adapter.NewCategorySuggester(cfg.LiteLLMURL, cfg.OpenAIAPIKey, cfg.ModelID)
	}

	return &application{
		service: services.NewConceptService(deps),
		store:   st,
		cache:   graphCache,
	}, nil
}

func openCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	ttl := cfg.GraphCacheTTL
	if ttl == 0 {
		ttl = constants.DefaultGraphCacheTTL
	}
	if cfg.RedisAddr != "" {
		return cache.NewRedisCache(ctx, cfg.RedisAddr, ttl)
	}
	return cache.NewMemoryCache(ttl), nil
}

// fingerprint changes whenever a setting that shapes the graph changes, so
// instances with different settings sharing one Redis never serve each other's graphs
func fingerprint(cfg *config.Config) string {
	return fmt.Sprintf("%s|edges=%d|taxonomy=%s", constants.GraphFormatVersion, cfg.MaxEdgesPerNode, cfg.TaxonomyFile)
}
