package driving

import (
	"context"

	"github.com/doclens/doclens-cli/internal/core/domain"
)

// DocumentService exposes minimal document management to the operator.
// Ingestion proper is the upstream collaborator's job; these operations
// exist so the tool is usable standalone and in tests.
type DocumentService interface {
	// Add stores a new document without an embedding.
	Add(ctx context.Context, doc domain.Document) error

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List returns all documents without content bodies.
	List(ctx context.Context) ([]domain.Document, error)

	// Remove deletes a document from the store and drops its cache
	// entry. Removing an absent ID is a no-op.
	Remove(ctx context.Context, id string) error
}
