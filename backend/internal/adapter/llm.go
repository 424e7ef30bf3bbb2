package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	apperrors "recall/backend/pkg/errors"
	"recall/backend/pkg/logger"
)

const defaultMaxRetries = 3

// CategorySuggester asks an LLM (via LiteLLM or any OpenAI-compatible endpoint)
// for a "Main > Sub" category. The answer is free text; callers normalize it.
type CategorySuggester struct {
	client     *openai.Client
	model      string
	mu         sync.RWMutex // Protects model field for concurrent access
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

// NewCategorySuggester creates a suggester for the given endpoint
func NewCategorySuggester(baseURL, apiKey, modelID string) *CategorySuggester {
	// LiteLLM accepts any key when none is configured
	if apiKey == "" {
		apiKey = "dummy-key"
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = strings.TrimRight(baseURL, "/") + "/v1"

	return &CategorySuggester{
		client:     openai.NewClientWithConfig(config),
		model:      modelID,
		maxRetries: defaultMaxRetries,
		backoff:    time.Second,
		logger:     logger.Named("category_suggester"),
	}
}

// SetModel updates the model used by this suggester
func (s *CategorySuggester) SetModel(model string) {
	if model != "" {
		s.mu.Lock()
		s.model = model
		s.mu.Unlock()
		s.logger.Debug("Suggester model updated", zap.String("model", model))
	}
}

// GetModel returns the current model
func (s *CategorySuggester) GetModel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// Suggestion is the model's raw answer
type Suggestion struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
}

// Label joins the suggestion as "Main > Sub"
func (s Suggestion) Label() string {
	main := strings.TrimSpace(s.Category)
	sub := strings.TrimSpace(s.Subcategory)
	if sub == "" || strings.Contains(main, ">") {
		return main
	}
	return main + " > " + sub
}

// Suggest asks for the category of one concept. labels are the known
// taxonomy labels offered to the model as options.
func (s *CategorySuggester) Suggest(ctx context.Context, title, summary string, labels []string) (Suggestion, error) {
	currentModel := s.GetModel()

	req := openai.ChatCompletionRequest{
		Model: currentModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(labels)},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(title, summary)},
		},
		Temperature: 0.1,
	}

	// Retry with linear backoff
	var resp openai.ChatCompletionResponse
	var err error
	attempts := 0
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		attempts++
		if attempt > 0 {
			backoff := time.Duration(attempt) * s.backoff
			s.logger.Warn("Retrying category suggestion",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return Suggestion{}, apperrors.NewContextCancelled("suggest category", ctx.Err())
			case <-time.After(backoff):
			}
		}

		resp, err = s.client.CreateChatCompletion(ctx, req)
		if err == nil {
			break
		}

		s.logger.Error("Category suggestion request failed",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.String("model", currentModel),
		)
		if !retryable(err) || ctx.Err() != nil {
			break
		}
	}

	if err != nil {
		return Suggestion{}, apperrors.NewLLMFailed(currentModel, attempts, retryable(err), err)
	}
	if len(resp.Choices) == 0 {
		return Suggestion{}, apperrors.ErrLLMNoResponse
	}

	suggestion := parseSuggestion(resp.Choices[0].Message.Content)
	if suggestion.Category == "" {
		return Suggestion{}, apperrors.ErrLLMNoResponse
	}

	s.logger.Debug("Category suggested",
		zap.String("model", currentModel),
		zap.String("title", title),
		zap.String("category", suggestion.Label()),
	)
	return suggestion, nil
}

// retryable reports whether a failed request is worth repeating: transport
// errors, rate limits and server errors are; other API errors are not.
func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= 500
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func systemPrompt(labels []string) string {
	var b strings.Builder
	b.WriteString("You categorize learning notes. Answer with JSON only: ")
	b.WriteString(`{"category": "<main category>", "subcategory": "<subcategory or empty>"}.`)
	if len(labels) > 0 {
		b.WriteString(" Prefer one of these categories:\n")
		for _, label := range labels {
			b.WriteString("- ")
			b.WriteString(label)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func userPrompt(title, summary string) string {
	if summary == "" {
		return fmt.Sprintf("Title: %s", title)
	}
	return fmt.Sprintf("Title: %s\nSummary: %s", title, summary)
}

// parseSuggestion accepts a JSON object (optionally inside a code fence) or a
// bare "Main > Sub" line.
func parseSuggestion(content string) Suggestion {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var s Suggestion
	if start := strings.Index(content, "{"); start >= 0 {
		if end := strings.LastIndex(content, "}"); end > start {
			if err := json.Unmarshal([]byte(content[start:end+1]), &s); err == nil {
				s.Category = strings.TrimSpace(s.Category)
				s.Subcategory = strings.TrimSpace(s.Subcategory)
				return s
			}
		}
	}

	line, _, _ := strings.Cut(content, "\n")
	line = strings.Trim(strings.TrimSpace(line), `"'`)
	return Suggestion{Category: line}
}
