package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeStore represents concept persistence errors
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeGraph represents graph build errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeRelationship represents rejected link/unlink requests
	ErrorTypeRelationship ErrorType = "relationship"
	// ErrorTypeClassification represents taxonomy loading errors
	ErrorTypeClassification ErrorType = "classification"
	// ErrorTypeLLM represents category suggestion failures
	ErrorTypeLLM ErrorType = "llm"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContext represents context cancellation/timeout errors
	ErrorTypeContext ErrorType = "context"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// ErrorKind exposes the category to IsErrorType through wrapping types
func (e *BaseError) ErrorKind() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Store Errors

// ErrConceptNotFound is returned when a concept id does not resolve to a stored record
type ErrConceptNotFound struct {
	*BaseError
	ConceptID string
}

func NewConceptNotFound(conceptID string) *ErrConceptNotFound {
	return &ErrConceptNotFound{
		BaseError: NewBaseError(ErrorTypeStore, fmt.Sprintf("concept not found: %s", conceptID), nil),
		ConceptID: conceptID,
	}
}

// ErrStoreQueryFailed is returned when the backing database rejects an operation
type ErrStoreQueryFailed struct {
	*BaseError
	Operation string
}

func NewStoreQueryFailed(operation string, err error) *ErrStoreQueryFailed {
	return &ErrStoreQueryFailed{
		BaseError: NewBaseError(ErrorTypeStore, fmt.Sprintf("store operation failed: %s", operation), err),
		Operation: operation,
	}
}

// ErrStoreConnectionFailed is returned when a store backend cannot be reached
type ErrStoreConnectionFailed struct {
	*BaseError
	Backend string
}

func NewStoreConnectionFailed(backend string, err error) *ErrStoreConnectionFailed {
	return &ErrStoreConnectionFailed{
		BaseError: NewBaseError(ErrorTypeStore, fmt.Sprintf("failed to connect to %s", backend), err),
		Backend:   backend,
	}
}

// IsNotFound reports whether err is, or wraps, a concept-not-found error
func IsNotFound(err error) bool {
	var nf *ErrConceptNotFound
	return errors.As(err, &nf)
}

// Relationship Errors

// ErrSelfLink is returned when a concept is linked to itself
type ErrSelfLink struct {
	*BaseError
	ConceptID string
}

func NewSelfLink(conceptID string) *ErrSelfLink {
	return &ErrSelfLink{
		BaseError: NewBaseError(ErrorTypeRelationship, "a concept cannot be linked to itself", nil),
		ConceptID: conceptID,
	}
}

// ErrPartialWrite is returned when the second half of a symmetric write failed and the
// first half could not be restored either
type ErrPartialWrite struct {
	*BaseError
	ConceptID string
}

func NewPartialWrite(conceptID string, err error) *ErrPartialWrite {
	return &ErrPartialWrite{
		BaseError: NewBaseError(ErrorTypeRelationship, fmt.Sprintf("relationship left one-sided on %s", conceptID), err),
		ConceptID: conceptID,
	}
}

// Classification Errors

// ErrTaxonomyInvalid is returned when a taxonomy file cannot be used
type ErrTaxonomyInvalid struct {
	*BaseError
	Path string
}

func NewTaxonomyInvalid(path, reason string, err error) *ErrTaxonomyInvalid {
	return &ErrTaxonomyInvalid{
		BaseError: NewBaseError(ErrorTypeClassification, fmt.Sprintf("invalid taxonomy %s: %s", path, reason), err),
		Path:      path,
	}
}

// LLM Errors

// ErrLLMFailed is returned when the category suggestion request fails
type ErrLLMFailed struct {
	*BaseError
	Model     string
	Attempts  int
	Retryable bool
}

func NewLLMFailed(model string, attempts int, retryable bool, err error) *ErrLLMFailed {
	return &ErrLLMFailed{
		BaseError: NewBaseError(ErrorTypeLLM, fmt.Sprintf("LLM request failed after %d attempts", attempts), err),
		Model:     model,
		Attempts:  attempts,
		Retryable: retryable,
	}
}

// ErrLLMNoResponse is returned when the LLM returns no choices
var ErrLLMNoResponse = NewBaseError(ErrorTypeLLM, "no response from LLM", nil)

// Context Errors

// ErrContextCancelled is returned when context is cancelled
type ErrContextCancelled struct {
	*BaseError
	Operation string
}

func NewContextCancelled(operation string, err error) *ErrContextCancelled {
	return &ErrContextCancelled{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context cancelled: %s", operation), err),
		Operation: operation,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

type kinded interface {
	ErrorKind() ErrorType
}

// IsErrorType checks if an error, or anything it wraps, is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	for err != nil {
		if k, ok := err.(kinded); ok && k.ErrorKind() == errType {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if IsErrorType(err, ErrorTypeContext) {
		return false
	}
	var llmErr *ErrLLMFailed
	if errors.As(err, &llmErr) {
		return llmErr.Retryable
	}
	var connErr *ErrStoreConnectionFailed
	if errors.As(err, &connErr) {
		return true
	}
	var queryErr *ErrStoreQueryFailed
	return errors.As(err, &queryErr)
}
