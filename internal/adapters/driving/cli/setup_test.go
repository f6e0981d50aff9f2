package cli

import (
	"context"
	"time"

	"github.com/doclens/doclens-cli/internal/adapters/driven/storage/memory"
	"github.com/doclens/doclens-cli/internal/adapters/driven/vectorcache"
	"github.com/doclens/doclens-cli/internal/core/domain"
	"github.com/doclens/doclens-cli/internal/core/ports/driven"
	"github.com/doclens/doclens-cli/internal/core/services"
)

const testDimensions = 3

// stubEmbedder returns a fixed vector for every input.
type stubEmbedder struct {
	vector []float32
	err    error
}

func (s *stubEmbedder) Embed(context.Context, string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vector, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) []driven.BatchItem {
	items := make([]driven.BatchItem, len(texts))
	for i := range texts {
		vec, err := s.Embed(ctx, texts[i])
		items[i] = driven.BatchItem{Embedding: vec, Err: err}
	}
	return items
}

func (s *stubEmbedder) Dimensions() int   { return testDimensions }
func (s *stubEmbedder) ModelName() string { return "stub-model" }
func (s *stubEmbedder) Ready() bool       { return true }
func (s *stubEmbedder) Close() error      { return nil }

// testServices holds the fakes wired by setupTestServices for assertions.
type testServices struct {
	store    *memory.DocumentStore
	cache    *vectorcache.Cache
	embedder *stubEmbedder
}

// setupTestServices wires the commands to in-memory fakes and marks the
// services ready so initServices is skipped. The returned cleanup restores
// the previous wiring.
func setupTestServices() (*testServices, func()) {
	prevManager := embeddingsManager
	prevSearch := searchService
	prevDocs := documentService
	prevSettings := settings
	prevReady := servicesReady

	ts := &testServices{
		store:    memory.NewDocumentStore(testDimensions),
		cache:    vectorcache.New(testDimensions),
		embedder: &stubEmbedder{vector: []float32{1, 0, 0}},
	}

	settings = domain.DefaultSettings()
	embeddingsManager = services.NewEmbeddingsService(ts.store, ts.cache, ts.embedder, "stub-model")
	searchService = services.NewSearchService(ts.embedder, ts.cache)
	documentService = services.NewDocumentService(ts.store, ts.cache)
	servicesReady = true

	return ts, func() {
		embeddingsManager = prevManager
		searchService = prevSearch
		documentService = prevDocs
		settings = prevSettings
		servicesReady = prevReady
	}
}

// seedEmbeddedDoc stores a document with a current-model vector in both
// the store and the cache.
func (ts *testServices) seedEmbeddedDoc(id, title string, vector []float32) error {
	ctx := context.Background()
	doc := domain.Document{ID: id, Title: title, Content: "content of " + id}
	if err := ts.store.SaveDocument(ctx, &doc); err != nil {
		return err
	}
	if err := ts.store.UpdateEmbedding(ctx, id, vector, "stub-model", time.Now()); err != nil {
		return err
	}
	return ts.cache.Upsert(ctx, domain.CacheEntry{
		DocumentID: id,
		Embedding:  vector,
		Title:      title,
		Preview:    doc.Preview(domain.PreviewRunes),
	})
}
