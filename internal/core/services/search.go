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

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService answers free-text queries by embedding the query and
// ranking the vector cache.
type SearchService struct {
	embedder driven.EmbeddingService // optional, nil in degraded mode
	cache    driven.VectorCache
}

// NewSearchService creates a new search service.
// The embedder is optional (can be nil); without it every search reports
// unavailable rather than silently returning nothing.
func NewSearchService(embedder driven.EmbeddingService, cache driven.VectorCache) *SearchService {
	return &SearchService{
		embedder: embedder,
		cache:    cache,
	}
}

// Search embeds the query text and ranks cached documents by cosine
// similarity.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidQuery
	}

	if s.embedder == nil || !s.embedder.Ready() {
		logger.Warn("Search unavailable: no embedding provider configured")
		return nil, domain.ErrSearchUnavailable
	}

	opts = opts.Normalized()
	logger.Debug("Limit: %d, MinScore: %.2f", opts.Limit, opts.MinScore)

	// A provider failure fails the whole query. Empty results must mean
	// "no matches", never "search degraded".
	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err)
	}
	logger.Debug("Query embedding: %d dimensions", len(embedding))

	results, err := s.cache.Search(ctx, embedding, opts.Limit, opts.MinScore)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	logger.Info("Search returned %d results", len(results))
	return results, nil
}
