package driving

import (
	"context"

	"github.com/doclens/doclens-cli/internal/core/domain"
)

// SearchService answers natural-language queries with ranked documents.
type SearchService interface {
	// Search embeds the query text and ranks cached documents by cosine
	// similarity. Returns domain.ErrInvalidQuery for blank queries and
	// domain.ErrSearchUnavailable when the query cannot be embedded.
	// An empty cache yields an empty result, not an error.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
