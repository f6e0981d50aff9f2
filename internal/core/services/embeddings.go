package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/doclens/doclens-cli/internal/core/domain"
	"github.com/doclens/doclens-cli/internal/core/ports/driven"
	"github.com/doclens/doclens-cli/internal/core/ports/driving"
	"github.com/doclens/doclens-cli/internal/logger"
)

// Ensure EmbeddingsService implements the interface.
var _ driving.EmbeddingsManager = (*EmbeddingsService)(nil)

// Bulk generation defaults.
const (
	// defaultBatchSize bounds how many missing documents one bulk run
	// picks up from the store.
	defaultBatchSize = 256

	// defaultWorkers bounds in-flight documents during a bulk run. The
	// provider's shared rate gate serialises the actual requests; workers
	// overlap store and cache writes with provider waits.
	defaultWorkers = 4
)

// EmbeddingsService orchestrates embedding generation and keeps the vector
// cache consistent with the store. It is the boundary where partial failure
// is absorbed into a report instead of propagating as a hard error.
type EmbeddingsService struct {
	docStore driven.DocumentStore
	cache    driven.VectorCache
	embedder driven.EmbeddingService // optional, nil in degraded mode
	model    string

	batchSize int
	workers   int
}

// NewEmbeddingsService creates a new embeddings manager.
// The embedder is optional (can be nil); model is the active embedding
// model and must be set even in degraded mode, because it decides which
// stored vectors are current and which are stale.
func NewEmbeddingsService(
	docStore driven.DocumentStore,
	cache driven.VectorCache,
	embedder driven.EmbeddingService,
	model string,
) *EmbeddingsService {
	return &EmbeddingsService{
		docStore:  docStore,
		cache:     cache,
		embedder:  embedder,
		model:     model,
		batchSize: defaultBatchSize,
		workers:   defaultWorkers,
	}
}

// SetBatchSize overrides how many documents one bulk run picks up.
func (s *EmbeddingsService) SetBatchSize(n int) {
	if n > 0 {
		s.batchSize = n
	}
}

// SetWorkers overrides the bulk run concurrency bound.
func (s *EmbeddingsService) SetWorkers(n int) {
	if n > 0 {
		s.workers = n
	}
}

// providerReady reports whether embedding generation is possible.
func (s *EmbeddingsService) providerReady() bool {
	return s.embedder != nil && s.embedder.Ready()
}

// GenerateMissing embeds every document currently lacking a vector under
// the active model. Individual failures are recorded, never fatal: the
// returned BulkResult accounts for every picked-up document exactly once.
func (s *EmbeddingsService) GenerateMissing(ctx context.Context) (*driving.BulkResult, error) {
	logger.Section("Bulk Embedding Generation")

	if !s.providerReady() {
		return nil, domain.ErrProviderUnavailable
	}

	start := time.Now()

	docs, err := s.docStore.ListWithoutEmbedding(ctx, s.model, s.batchSize)
	if err != nil {
		return nil, fmt.Errorf("list documents without embedding: %w", err)
	}
	logger.Info("Found %d documents needing embedding (model %s)", len(docs), s.model)

	result := &driving.BulkResult{Processed: len(docs)}
	if len(docs) == 0 {
		result.Elapsed = time.Since(start)
		return result, nil
	}

	// Bounded concurrency; per-document outcomes are collected under a
	// lock and may complete out of order.
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, s.workers)
	)

	for i := range docs {
		doc := docs[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if err := s.embedOne(ctx, &doc); err != nil {
				logger.Warn("Embedding %s failed: %v", doc.ID, err)
				mu.Lock()
				result.Failed = append(result.Failed, driving.FailedDocument{
					DocumentID: doc.ID,
					Reason:     err.Error(),
				})
				mu.Unlock()
				return
			}

			mu.Lock()
			result.Succeeded++
			mu.Unlock()
		}()
	}
	wg.Wait()

	// Deterministic report order regardless of completion order.
	sort.Slice(result.Failed, func(i, j int) bool {
		return result.Failed[i].DocumentID < result.Failed[j].DocumentID
	})

	result.Elapsed = time.Since(start)
	logger.Info("Bulk run complete: %d processed, %d succeeded, %d failed in %s",
		result.Processed, result.Succeeded, len(result.Failed), result.Elapsed)
	return result, nil
}

// GenerateFor embeds a single document, overwriting any prior vector.
func (s *EmbeddingsService) GenerateFor(ctx context.Context, documentID string) error {
	logger.Section("Single Embedding Generation")

	if !s.providerReady() {
		return domain.ErrProviderUnavailable
	}

	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
		}
		return fmt.Errorf("get document %s: %w", documentID, err)
	}

	return s.embedOne(ctx, doc)
}

// embedOne runs the full pipeline for one document: provider call, durable
// store write, cache upsert. Success means BOTH writes landed; a cache
// rejection after a durable write still counts as failure for the run,
// because store/cache consistency is the success condition.
func (s *EmbeddingsService) embedOne(ctx context.Context, doc *domain.Document) error {
	vector, err := s.embedder.Embed(ctx, doc.Content)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.docStore.UpdateEmbedding(ctx, doc.ID, vector, s.model, now); err != nil {
		return fmt.Errorf("store embedding: %w", err)
	}

	entry := domain.CacheEntry{
		DocumentID: doc.ID,
		Embedding:  vector,
		Title:      doc.Title,
		Preview:    doc.Preview(domain.PreviewRunes),
	}
	if err := s.cache.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("cache embedding (stored durably, cache rejected): %w", err)
	}

	logger.Debug("Embedded %s (%d dimensions)", doc.ID, len(vector))
	return nil
}

// RefreshCache clears the in-memory cache and reloads every current-model
// vector from the store. Vectors produced by another model are excluded
// from search and reported as stale; re-running generation replaces them.
func (s *EmbeddingsService) RefreshCache(ctx context.Context) (*driving.RefreshResult, error) {
	logger.Section("Cache Refresh")

	docs, err := s.docStore.ListWithEmbedding(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents with embedding: %w", err)
	}

	s.cache.Clear(ctx)

	result := &driving.RefreshResult{}
	for i := range docs {
		doc := docs[i]
		if doc.EmbeddingModel != s.model {
			logger.Debug("Skipping %s: embedded with %q, active model is %q",
				doc.ID, doc.EmbeddingModel, s.model)
			result.SkippedStale++
			continue
		}

		entry := domain.CacheEntry{
			DocumentID: doc.ID,
			Embedding:  doc.Embedding,
			Title:      doc.Title,
			Preview:    doc.Preview(domain.PreviewRunes),
		}
		if err := s.cache.Upsert(ctx, entry); err != nil {
			// A mismatched dimension here means the store and cache
			// disagree about the model configuration; the vector is
			// unusable under the active model.
			logger.Warn("Skipping %s: %v", doc.ID, err)
			result.SkippedStale++
			continue
		}
		result.Loaded++
	}

	logger.Info("Cache refreshed: %d loaded, %d stale skipped", result.Loaded, result.SkippedStale)
	return result, nil
}

// Stats reports store coverage, provider status and cache statistics.
// It requires no provider and keeps working in degraded mode.
func (s *EmbeddingsService) Stats(ctx context.Context) (*driving.ManagerStats, error) {
	withEmb, err := s.docStore.CountWithEmbedding(ctx, s.model)
	if err != nil {
		return nil, fmt.Errorf("count with embedding: %w", err)
	}
	withoutEmb, err := s.docStore.CountWithoutEmbedding(ctx, s.model)
	if err != nil {
		return nil, fmt.Errorf("count without embedding: %w", err)
	}

	status := driving.ProviderStatusUnavailable
	if s.providerReady() {
		status = driving.ProviderStatusReady
	}

	return &driving.ManagerStats{
		TotalDocuments:    withEmb + withoutEmb,
		WithEmbeddings:    withEmb,
		WithoutEmbeddings: withoutEmb,
		ProviderStatus:    status,
		Model:             s.model,
		Cache:             s.cache.Stats(ctx),
	}, nil
}
