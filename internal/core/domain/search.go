package domain

// Default search tunables. Both can be overridden per query and through
// configuration.
const (
	// DefaultSearchLimit bounds the number of results when the caller
	// does not supply a limit.
	DefaultSearchLimit = 10

	// DefaultMinScore excludes results with near-zero similarity. Cosine
	// scores below this are noise for typical embedding models.
	DefaultMinScore = 0.15

	// PreviewRunes is the length of the content preview carried by cache
	// entries and returned with search results.
	PreviewRunes = 200
)

// SearchOptions controls a similarity query.
type SearchOptions struct {
	// Limit is the maximum number of results.
	// Values <= 0 select DefaultSearchLimit.
	Limit int

	// MinScore excludes results whose cosine similarity is below it.
	// Zero selects DefaultMinScore; pass a negative value to disable
	// the threshold entirely.
	MinScore float64
}

// Normalized returns a copy with defaults applied for unset fields.
func (o SearchOptions) Normalized() SearchOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultSearchLimit
	}
	if o.MinScore == 0 {
		o.MinScore = DefaultMinScore
	}
	return o
}

// SearchResult is a ranked similarity match against the vector cache.
type SearchResult struct {
	// DocumentID identifies the matched document.
	DocumentID string

	// Title is the document title at the time the entry was cached.
	Title string

	// Score is the cosine similarity in [-1, 1] against the query vector.
	Score float64

	// Preview is a bounded-length prefix of the document content.
	Preview string
}

// CacheEntry is the read-optimised in-memory projection of a document.
// It holds no fields the canonical store does not also hold.
type CacheEntry struct {
	// DocumentID identifies the source document.
	DocumentID string

	// Embedding is the vector, always exactly the configured dimension.
	Embedding []float32

	// Title is the document title.
	Title string

	// Preview is a bounded-length prefix of the content.
	Preview string
}

// CacheStats describes the in-memory index for observability.
type CacheStats struct {
	// Entries is the number of cached vectors.
	Entries int

	// EstimatedBytes approximates the memory held by the cache, computed
	// from entry count and vector dimension. Observability only.
	EstimatedBytes int64
}
