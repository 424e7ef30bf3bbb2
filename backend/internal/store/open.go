package store

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"recall/backend/pkg/config"
	apperrors "recall/backend/pkg/errors"
)

// Open connects the backend named by cfg.StoreBackend and prepares its schema
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case config.StoreNeo4j:
		driver, err := neo4j.NewDriverWithContext(
			cfg.Neo4jURI,
			neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
		)
		if err != nil {
			return nil, apperrors.NewStoreConnectionFailed("neo4j", err)
		}
		if err := driver.VerifyConnectivity(ctx); err != nil {
			_ = driver.Close(ctx)
			return nil, apperrors.NewStoreConnectionFailed("neo4j", err)
		}
		s := NewNeo4jStore(driver)
		if err := s.EnsureSchema(ctx); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		return s, nil

	case config.StorePostgres, config.StoreSQLite:
		db, err := OpenGorm(cfg.StoreBackend, cfg.DatabaseDSN, cfg.IsProduction())
		if err != nil {
			return nil, err
		}
		return NewGormStore(db)

	case config.StoreMemory:
		return NewMemoryStore(), nil
	}
	return nil, apperrors.NewConfigValidationFailed("STORE_BACKEND", fmt.Sprintf("unknown backend %q", cfg.StoreBackend))
}
