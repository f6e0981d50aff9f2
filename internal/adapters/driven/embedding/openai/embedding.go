// Package openai provides an embedding service adapter using the OpenAI API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	oai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/doclens/doclens-cli/internal/core/domain"
	"github.com/doclens/doclens-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel           = "text-embedding-3-small"
	DefaultTimeout         = 30 * time.Second
	DefaultRequestInterval = 200 * time.Millisecond

	// maxInputRunes bounds the text sent per request. Conservative for
	// the 8191-token limit of the text-embedding-3 models; inputs are
	// truncated rather than rejected.
	maxInputRunes = 20000
)

// Model dimensions for OpenAI embedding models.
var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// ModelDimensions returns the vector dimension for a known model, falling
// back to 1536 for unknown ones. Used to size the store and cache even
// when no API key is configured (degraded mode).
func ModelDimensions(model string) int {
	if dims, ok := modelDimensions[model]; ok {
		return dims
	}
	return 1536
}

// Config holds configuration for the OpenAI embedding service.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL overrides the API base URL for Azure or compatible APIs.
	BaseURL string

	// Model is the embedding model to use (default: text-embedding-3-small).
	Model string

	// Timeout bounds each request (default: 30s).
	Timeout time.Duration

	// RequestInterval is the minimum gap between requests, enforced by a
	// single gate shared across all callers (default: 200ms).
	RequestInterval time.Duration

	// Dimensions overrides the default dimension for the model.
	Dimensions int
}

// EmbeddingService generates embeddings using the OpenAI API.
type EmbeddingService struct {
	client     *oai.Client
	model      string
	dimensions int
	timeout    time.Duration
	limiter    *rate.Limiter
}

// New creates a new OpenAI embedding service.
// An empty API key is an error; the caller decides whether that means
// degraded mode (nil service) or a hard failure.
func New(cfg Config) (*EmbeddingService, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestInterval <= 0 {
		cfg.RequestInterval = DefaultRequestInterval
	}

	dimensions := cfg.Dimensions
	if dimensions == 0 {
		var ok bool
		dimensions, ok = modelDimensions[cfg.Model]
		if !ok {
			dimensions = 1536 // Default fallback
		}
	}

	clientCfg := oai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &EmbeddingService{
		client:     oai.NewClientWithConfig(clientCfg),
		model:      cfg.Model,
		dimensions: dimensions,
		timeout:    cfg.Timeout,
		limiter:    rate.NewLimiter(rate.Every(cfg.RequestInterval), 1),
	}, nil
}

// Embed generates a vector embedding for the given text.
// The input is truncated to the provider's limit rather than rejected.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty input text", domain.ErrProviderRejected)
	}

	// Shared gate: concurrent callers queue here, so bulk and
	// single-document generation cannot jointly exceed the rate limit.
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateEmbeddings(ctx, oai.EmbeddingRequest{
		Model: oai.EmbeddingModel(s.model),
		Input: []string{domain.TruncateRunes(text, maxInputRunes)},
	})
	if err != nil {
		return nil, translateError(err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", domain.ErrProviderUnavailable)
	}

	embedding := resp.Data[0].Embedding
	vec := make([]float32, len(embedding))
	copy(vec, embedding)
	return vec, nil
}

// EmbedBatch generates embeddings for multiple texts. Each text is a
// separate request behind the shared gate; outcomes are independent and
// one rejection never cancels the remaining items.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) []driven.BatchItem {
	items := make([]driven.BatchItem, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		items[i] = driven.BatchItem{Embedding: vec, Err: err}
	}
	return items
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ready reports whether the service is configured.
func (s *EmbeddingService) Ready() bool {
	return s.client != nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// translateError maps provider failures onto the closed domain error set.
// A timed-out call is indistinguishable from an unreachable provider.
func translateError(err error) error {
	var apiErr *oai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 401, 403:
			return fmt.Errorf("%w: %s", domain.ErrProviderAuth, apiErr.Message)
		case 400, 404, 413, 422, 429:
			return fmt.Errorf("%w: %s", domain.ErrProviderRejected, apiErr.Message)
		default:
			return fmt.Errorf("%w: %s", domain.ErrProviderUnavailable, apiErr.Message)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
}
