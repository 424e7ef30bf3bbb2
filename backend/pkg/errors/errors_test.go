package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"store query", NewStoreQueryFailed("list concepts", errors.New("connection reset")), true},
		{"wrapped store query", fmt.Errorf("failed to load concepts: %w", NewStoreQueryFailed("list concepts", nil)), true},
		{"store connection", NewStoreConnectionFailed("neo4j", errors.New("dial tcp")), true},
		{"retryable llm", NewLLMFailed("m", 3, true, errors.New("429")), true},
		{"final llm", NewLLMFailed("m", 1, false, errors.New("400")), false},
		{"not found", NewConceptNotFound("c1"), false},
		{"context", NewContextCancelled("list concepts", context.Canceled), false},
		{"plain", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestIsErrorType_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewStoreQueryFailed("get concept", errors.New("timeout")))

	assert.True(t, IsErrorType(err, ErrorTypeStore))
	assert.False(t, IsErrorType(err, ErrorTypeLLM))
	assert.Contains(t, err.Error(), "store operation failed: get concept")
}
