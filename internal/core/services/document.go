package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/doclens/doclens-cli/internal/core/domain"
	"github.com/doclens/doclens-cli/internal/core/ports/driven"
	"github.com/doclens/doclens-cli/internal/core/ports/driving"
	"github.com/doclens/doclens-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService provides minimal document management.
type DocumentService struct {
	docStore driven.DocumentStore
	cache    driven.VectorCache
}

// NewDocumentService creates a new document service.
func NewDocumentService(docStore driven.DocumentStore, cache driven.VectorCache) *DocumentService {
	return &DocumentService{
		docStore: docStore,
		cache:    cache,
	}
}

// Add stores a new document without an embedding.
func (s *DocumentService) Add(ctx context.Context, doc domain.Document) error {
	if strings.TrimSpace(doc.ID) == "" {
		return fmt.Errorf("document ID is required")
	}
	if strings.TrimSpace(doc.Content) == "" {
		return fmt.Errorf("document content is required")
	}

	// New documents never carry a vector; generation assigns one later.
	doc.Embedding = nil
	doc.EmbeddingModel = ""

	if err := s.docStore.SaveDocument(ctx, &doc); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	logger.Debug("Added document %s", doc.ID)
	return nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, id)
}

// List returns all documents without content bodies.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx)
}

// Remove deletes a document from the store and drops its cache entry.
func (s *DocumentService) Remove(ctx context.Context, id string) error {
	if err := s.docStore.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	s.cache.Remove(ctx, id)
	logger.Debug("Removed document %s", id)
	return nil
}
