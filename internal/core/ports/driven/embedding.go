package driven

import "context"

// BatchItem is the outcome of embedding a single text within a batch.
// Outcomes are independent: one failing item never cancels the rest.
type BatchItem struct {
	// Embedding is the generated vector, nil when Err is set.
	Embedding []float32

	// Err is the per-item failure, one of the domain provider errors.
	Err error
}

// EmbeddingService generates vector embeddings from text.
// This is an optional service - when nil, embedding generation and
// semantic search are disabled.
//
// Implementations own rate limiting (a single shared gate, so concurrent
// bulk and single-document generation cannot jointly exceed the provider's
// limit), input truncation, and translation of provider failures into
// domain errors (ErrProviderUnavailable, ErrProviderAuth,
// ErrProviderRejected).
//
// Implementations may include:
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	// The returned vector has exactly Dimensions() elements.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts with the shared
	// rate gate between requests. The result always has one item per
	// input text, in input order.
	EmbedBatch(ctx context.Context, texts []string) []BatchItem

	// Dimensions returns the embedding vector size (e.g., 768, 1536).
	// This is determined by the model and must match the cache and store
	// configuration.
	Dimensions() int

	// ModelName returns the model identifier. Every generated vector is
	// tagged with it; vectors from different models are never compared.
	ModelName() string

	// Ready reports whether the service is configured and usable.
	Ready() bool

	// Close releases resources.
	Close() error
}
