package driven

import (
	"context"

	"github.com/doclens/doclens-cli/internal/core/domain"
)

// VectorCache is the in-memory similarity index over document embeddings.
// It is a read-optimised mirror of the store, never a source of truth:
// it is process-local, lost on restart, and rebuilt with a refresh.
//
// Implementations must support concurrent readers and atomic upserts -
// a reader never observes a torn entry.
type VectorCache interface {
	// Upsert inserts or replaces the entry for a document.
	// Returns domain.ErrDimensionMismatch if the vector length does not
	// match the configured dimension; prior state is left unchanged.
	// This is the single admission-control point: no vector of the wrong
	// shape is ever cached.
	Upsert(ctx context.Context, entry domain.CacheEntry) error

	// Remove deletes the entry for a document.
	// Removing an absent ID is a no-op, not an error.
	Remove(ctx context.Context, documentID string)

	// Search returns up to limit entries ranked by descending cosine
	// similarity against the query vector, excluding scores below
	// minScore. Ties are broken by document ID so output is
	// deterministic. A non-positive limit yields an empty result.
	Search(ctx context.Context, query []float32, limit int, minScore float64) ([]domain.SearchResult, error)

	// Clear removes every entry.
	Clear(ctx context.Context)

	// Stats returns entry count and an estimated memory footprint.
	Stats(ctx context.Context) domain.CacheStats
}
