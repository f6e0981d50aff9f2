package driving

import (
	"context"
	"time"

	"github.com/doclens/doclens-cli/internal/core/domain"
)

// FailedDocument records one document that could not be embedded during a
// bulk run, with a human-readable reason.
type FailedDocument struct {
	// DocumentID identifies the failed document.
	DocumentID string `json:"document_id"`

	// Reason describes why it failed. Never empty.
	Reason string `json:"reason"`
}

// BulkResult is the complete accounting of one bulk generation run.
// Every document the run picked up appears exactly once, as a success or
// in Failed; individual failures never abort the run.
type BulkResult struct {
	// Processed is the number of documents the run attempted.
	Processed int `json:"processed"`

	// Succeeded is the number durably embedded AND cached.
	Succeeded int `json:"succeeded"`

	// Failed lists every document that did not reach that state.
	Failed []FailedDocument `json:"failed,omitempty"`

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration `json:"elapsed"`
}

// RefreshResult reports a cache rebuild.
type RefreshResult struct {
	// Loaded is the number of entries now in the cache.
	Loaded int `json:"loaded"`

	// SkippedStale is the number of stored vectors excluded because they
	// were produced by a model other than the active one.
	SkippedStale int `json:"skipped_stale"`
}

// Provider status values reported by Stats.
const (
	ProviderStatusReady       = "ready"
	ProviderStatusUnavailable = "unavailable"
)

// ManagerStats is a read-only health and coverage report.
type ManagerStats struct {
	// TotalDocuments is the number of documents in the store.
	TotalDocuments int `json:"total_documents"`

	// WithEmbeddings is the number carrying a well-formed vector.
	WithEmbeddings int `json:"with_embeddings"`

	// WithoutEmbeddings is the number still lacking one.
	WithoutEmbeddings int `json:"without_embeddings"`

	// ProviderStatus is "ready" or "unavailable".
	ProviderStatus string `json:"provider_status"`

	// Model is the active embedding model.
	Model string `json:"model"`

	// Cache describes the in-memory index.
	Cache domain.CacheStats `json:"cache"`
}

// EmbeddingsManager orchestrates embedding generation and keeps the vector
// cache consistent with the store. It is the only entry point callers use;
// partial failure is absorbed here and reported, not propagated.
type EmbeddingsManager interface {
	// GenerateMissing embeds every document currently lacking a vector
	// under the active model, writes each vector to the store and upserts
	// the cache. It continues through individual failures and returns a
	// full accounting.
	GenerateMissing(ctx context.Context) (*BulkResult, error)

	// GenerateFor embeds a single document, overwriting any prior vector.
	// Re-generation is not an error; model upgrades are the intended use.
	// Returns domain.ErrNotFound if the document does not exist.
	GenerateFor(ctx context.Context, documentID string) error

	// RefreshCache clears the in-memory cache and reloads every valid
	// vector from the store. This is the explicit repair mechanism for
	// cache/store divergence, typically run at process start.
	RefreshCache(ctx context.Context) (*RefreshResult, error)

	// Stats reports store coverage, provider status and cache statistics.
	// It works in degraded mode.
	Stats(ctx context.Context) (*ManagerStats, error)
}
