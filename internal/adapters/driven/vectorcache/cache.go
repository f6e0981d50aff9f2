// Package vectorcache provides the in-memory similarity index.
//
// The cache is a process-local, read-optimised mirror of the document
// store. Entries are whole-value replaced under a write lock, so readers
// never observe a torn entry. Search is brute-force cosine similarity;
// at the document counts doclens targets, a linear scan is faster than
// maintaining an approximate index.
package vectorcache

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/doclens/doclens-cli/internal/core/domain"
	"github.com/doclens/doclens-cli/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.VectorCache = (*Cache)(nil)

// entryOverheadBytes approximates per-entry bookkeeping (map bucket, strings,
// slice headers) on top of the raw vector. Observability only.
const entryOverheadBytes = 112

// entry is the stored projection of a document. Immutable once inserted;
// upserts replace the whole value.
type entry struct {
	embedding []float32
	title     string
	preview   string
}

// Cache is an in-memory vector index guarded by a reader-writer lock.
type Cache struct {
	mu         sync.RWMutex
	dimensions int
	entries    map[string]entry
}

// New creates a cache that admits only vectors of the given dimension.
func New(dimensions int) *Cache {
	return &Cache{
		dimensions: dimensions,
		entries:    make(map[string]entry),
	}
}

// Dimensions returns the configured vector dimension.
func (c *Cache) Dimensions() int {
	return c.dimensions
}

// Upsert inserts or replaces the entry for a document.
// A vector of the wrong length is rejected with domain.ErrDimensionMismatch
// and prior state is left unchanged.
func (c *Cache) Upsert(_ context.Context, e domain.CacheEntry) error {
	if len(e.Embedding) != c.dimensions {
		return fmt.Errorf("%w: got %d, want %d", domain.ErrDimensionMismatch, len(e.Embedding), c.dimensions)
	}

	// Copy the vector so later mutation by the caller cannot reach a
	// stored entry.
	vec := make([]float32, len(e.Embedding))
	copy(vec, e.Embedding)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[e.DocumentID] = entry{
		embedding: vec,
		title:     e.Title,
		preview:   domain.TruncateRunes(e.Preview, domain.PreviewRunes),
	}
	return nil
}

// Remove deletes the entry for a document. Idempotent.
func (c *Cache) Remove(_ context.Context, documentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, documentID)
}

// Search returns up to limit entries ranked by descending cosine similarity,
// excluding scores below minScore. Equal scores are ordered by document ID.
func (c *Cache) Search(_ context.Context, query []float32, limit int, minScore float64) ([]domain.SearchResult, error) {
	if len(query) != c.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, want %d", domain.ErrDimensionMismatch, len(query), c.dimensions)
	}
	if limit <= 0 {
		return []domain.SearchResult{}, nil
	}

	c.mu.RLock()
	results := make([]domain.SearchResult, 0, len(c.entries))
	for id, e := range c.entries {
		score := CosineSimilarity(query, e.embedding)
		if score < minScore {
			continue
		}
		results = append(results, domain.SearchResult{
			DocumentID: id,
			Title:      e.title,
			Score:      score,
			Preview:    e.preview,
		})
	}
	c.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocumentID < results[j].DocumentID
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Clear removes every entry.
func (c *Cache) Clear(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Stats returns entry count and an estimated memory footprint.
func (c *Cache) Stats(_ context.Context) domain.CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := len(c.entries)
	perEntry := int64(c.dimensions)*4 + entryOverheadBytes
	return domain.CacheStats{
		Entries:        n,
		EstimatedBytes: int64(n) * perEntry,
	}
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 and 1, where 1 means identical direction.
// Mismatched lengths or a zero-norm vector yield 0 - never NaN, never
// a panic.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
