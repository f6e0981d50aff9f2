package driven

import (
	"context"
	"time"

	"github.com/doclens/doclens-cli/internal/core/domain"
)

// DocumentStore persists documents and their embedding vectors.
// Backed by SQLite; the database file is shared with the ingestion
// collaborator, which writes documents without embeddings.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all documents, without their content bodies.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// DeleteDocument removes a document. Deleting an absent ID is a no-op.
	DeleteDocument(ctx context.Context, id string) error

	// ListWithoutEmbedding returns up to limit documents that need
	// embedding under the given model: documents with no vector, with a
	// malformed vector, or with a vector produced by a different model.
	ListWithoutEmbedding(ctx context.Context, model string, limit int) ([]domain.Document, error)

	// ListWithEmbedding returns every document carrying a well-formed
	// vector. Used by cache refresh.
	ListWithEmbedding(ctx context.Context) ([]domain.Document, error)

	// UpdateEmbedding writes a vector for a document.
	// Returns domain.ErrNotFound if the document no longer exists (race
	// with deletion) and domain.ErrDimensionMismatch if the vector does
	// not match the configured dimension.
	UpdateEmbedding(ctx context.Context, id string, vector []float32, model string, at time.Time) error

	// CountWithEmbedding returns the number of documents carrying a
	// well-formed vector produced by the given model.
	CountWithEmbedding(ctx context.Context, model string) (int, error)

	// CountWithoutEmbedding returns the number of documents that need
	// embedding under the given model. Uses the same predicate as
	// ListWithoutEmbedding, so coverage counts and generation picks
	// always agree.
	CountWithoutEmbedding(ctx context.Context, model string) (int, error)
}
