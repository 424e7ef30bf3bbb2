package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/require"
)

// TestNeo4jStore requires a running Neo4j instance
// Set NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD environment variables
func TestNeo4jStore_Contract(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver := createTestDriver(t)
	defer driver.Close(ctx)

	repo := NewNeo4jStore(driver)
	require.NoError(t, repo.EnsureSchema(ctx))

	prefix := "test-" + time.Now().Format("20060102150405")

	// Clean up
	defer func() {
		session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
		defer session.Close(ctx)
		_, _ = session.Run(ctx, "MATCH (c:Concept) WHERE c.id STARTS WITH $prefix DETACH DELETE c", map[string]interface{}{"prefix": prefix})
		_, _ = session.Run(ctx, "MATCH (v:Conversation) WHERE v.id STARTS WITH $prefix DETACH DELETE v", map[string]interface{}{"prefix": prefix})
	}()

	runStoreContract(t, repo, prefix)

	require.NoError(t, repo.DeleteConcept(ctx, prefix+"-other"))
}

func createTestDriver(t *testing.T) neo4j.DriverWithContext {
	t.Helper()
	uri := os.Getenv("NEO4J_URI")
	user := os.Getenv("NEO4J_USER")
	password := os.Getenv("NEO4J_PASSWORD")
	if uri == "" || user == "" {
		t.Skip("set NEO4J_URI, NEO4J_USER and NEO4J_PASSWORD to run Neo4j store tests")
	}

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		t.Skipf("Neo4j not reachable: %v", err)
	}

	return driver
}
