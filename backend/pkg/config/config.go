package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	apperrors "recall/backend/pkg/errors"
)

// Store backends
const (
	StoreMemory   = "memory"
	StoreNeo4j    = "neo4j"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Storage
	StoreBackend  string
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	DatabaseDSN   string

	// Graph cache
	RedisAddr     string
	GraphCacheTTL time.Duration

	// Engine tuning
	TaxonomyFile       string
	MaxEdgesPerNode    int
	DuplicateThreshold float64

	// Category suggestion
	LiteLLMURL   string
	OpenAIAPIKey string
	ModelID      string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		StoreBackend:       strings.ToLower(getEnv("STORE_BACKEND", StoreMemory)),
		Neo4jURI:           getEnv("NEO4J_URI", ""),
		Neo4jUser:          getEnv("NEO4J_USER", ""),
		Neo4jPassword:      getEnv("NEO4J_PASSWORD", ""),
		DatabaseDSN:        getEnv("DATABASE_DSN", ""),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		GraphCacheTTL:      time.Duration(getEnvInt("GRAPH_CACHE_TTL_SECONDS", 300)) * time.Second,
		TaxonomyFile:       getEnv("TAXONOMY_FILE", ""),
		MaxEdgesPerNode:    getEnvInt("MAX_EDGES_PER_NODE", 5),
		DuplicateThreshold: getEnvFloat("DUPLICATE_THRESHOLD", 0.7),
		LiteLLMURL:         getEnv("LITELLM_URL", ""),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		ModelID:            getEnv("MODEL_ID", "gpt-4o-mini"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreMemory:
	case StoreNeo4j:
		if c.Neo4jURI == "" {
			return apperrors.NewConfigMissingRequired("NEO4J_URI")
		}
		if c.Neo4jUser == "" {
			return apperrors.NewConfigMissingRequired("NEO4J_USER")
		}
		if c.Neo4jPassword == "" {
			return apperrors.NewConfigMissingRequired("NEO4J_PASSWORD")
		}
	case StorePostgres, StoreSQLite:
		if c.DatabaseDSN == "" {
			return apperrors.NewConfigMissingRequired("DATABASE_DSN")
		}
	default:
		return apperrors.NewConfigValidationFailed("STORE_BACKEND", fmt.Sprintf("unknown backend %q", c.StoreBackend))
	}

	if c.MaxEdgesPerNode < 1 {
		return apperrors.NewConfigValidationFailed("MAX_EDGES_PER_NODE", "must be at least 1")
	}
	if c.DuplicateThreshold <= 0 || c.DuplicateThreshold > 1 {
		return apperrors.NewConfigValidationFailed("DUPLICATE_THRESHOLD", "must be in (0,1]")
	}
	if c.GraphCacheTTL < 0 {
		return apperrors.NewConfigValidationFailed("GRAPH_CACHE_TTL_SECONDS", "must not be negative")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SuggestionsEnabled reports whether an LLM endpoint is configured
func (c *Config) SuggestionsEnabled() bool {
	return c.LiteLLMURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var result float64
		if _, err := fmt.Sscanf(value, "%f", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
