// Package memory provides in-memory implementations of driven ports,
// used by service tests and as a lightweight stand-in for SQLite.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/doclens/doclens-cli/internal/core/domain"
	"github.com/doclens/doclens-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu         sync.RWMutex
	dimensions int
	documents  map[string]domain.Document
}

// NewDocumentStore creates a new in-memory document store validating
// vectors against the given dimension.
func NewDocumentStore(dimensions int) *DocumentStore {
	return &DocumentStore{
		dimensions: dimensions,
		documents:  make(map[string]domain.Document),
	}
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	s.documents[doc.ID] = *doc
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns all documents ordered by creation time.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(domain.Document) bool { return true }), nil
}

// DeleteDocument removes a document. Idempotent.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	return nil
}

// ListWithoutEmbedding returns up to limit documents needing embedding
// under the given model.
func (s *DocumentStore) ListWithoutEmbedding(_ context.Context, model string, limit int) ([]domain.Document, error) {
	if limit <= 0 {
		return []domain.Document{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.collect(func(d domain.Document) bool {
		return !d.HasEmbedding(s.dimensions) || d.EmbeddingModel != model
	})
	if len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// ListWithEmbedding returns every document with a well-formed vector.
func (s *DocumentStore) ListWithEmbedding(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(d domain.Document) bool {
		return d.HasEmbedding(s.dimensions)
	}), nil
}

// UpdateEmbedding writes a vector for a document.
func (s *DocumentStore) UpdateEmbedding(_ context.Context, id string, vector []float32, model string, at time.Time) error {
	if len(vector) != s.dimensions {
		return fmt.Errorf("%w: got %d, want %d", domain.ErrDimensionMismatch, len(vector), s.dimensions)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok {
		return domain.ErrNotFound
	}

	vec := make([]float32, len(vector))
	copy(vec, vector)
	doc.Embedding = vec
	doc.EmbeddingModel = model
	doc.EmbeddedAt = at
	doc.UpdatedAt = time.Now().UTC()
	s.documents[id] = doc
	return nil
}

// CountWithEmbedding returns the number of documents carrying a valid
// vector produced by the given model.
func (s *DocumentStore) CountWithEmbedding(_ context.Context, model string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, d := range s.documents {
		if d.HasEmbedding(s.dimensions) && d.EmbeddingModel == model {
			count++
		}
	}
	return count, nil
}

// CountWithoutEmbedding returns the number of documents that need embedding
// under the given model. Mirrors the ListWithoutEmbedding predicate.
func (s *DocumentStore) CountWithoutEmbedding(_ context.Context, model string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, d := range s.documents {
		if !d.HasEmbedding(s.dimensions) || d.EmbeddingModel != model {
			count++
		}
	}
	return count, nil
}

// collect returns matching documents ordered by creation time, then ID.
// Callers must hold at least a read lock.
func (s *DocumentStore) collect(match func(domain.Document) bool) []domain.Document {
	docs := make([]domain.Document, 0, len(s.documents))
	for _, d := range s.documents {
		if match(d) {
			docs = append(docs, d)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].CreatedAt.Before(docs[j].CreatedAt)
		}
		return docs[i].ID < docs[j].ID
	})
	return docs
}
