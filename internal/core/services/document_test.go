package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doclens/doclens-cli/internal/adapters/driven/storage/memory"
	"github.com/doclens/doclens-cli/internal/adapters/driven/vectorcache"
	"github.com/doclens/doclens-cli/internal/core/domain"
)

func newDocumentFixture() (*DocumentService, *memory.DocumentStore, *vectorcache.Cache) {
	store := memory.NewDocumentStore(testDimensions)
	cache := vectorcache.New(testDimensions)
	return NewDocumentService(store, cache), store, cache
}

func TestDocumentAdd_StoresWithoutEmbedding(t *testing.T) {
	svc, store, _ := newDocumentFixture()
	ctx := context.Background()

	err := svc.Add(ctx, domain.Document{
		ID:        "doc1",
		Title:     "Title",
		Content:   "body",
		Embedding: []float32{1, 2, 3}, // must be stripped
	})
	require.NoError(t, err)

	doc, err := store.GetDocument(ctx, "doc1")
	require.NoError(t, err)
	assert.Nil(t, doc.Embedding)
	assert.Empty(t, doc.EmbeddingModel)
}

func TestDocumentAdd_Validation(t *testing.T) {
	svc, _, _ := newDocumentFixture()
	ctx := context.Background()

	assert.Error(t, svc.Add(ctx, domain.Document{ID: "", Content: "body"}))
	assert.Error(t, svc.Add(ctx, domain.Document{ID: "doc1", Content: "  "}))
}

func TestDocumentGet_NotFound(t *testing.T) {
	svc, _, _ := newDocumentFixture()

	_, err := svc.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentRemove_DropsCacheEntry(t *testing.T) {
	svc, store, cache := newDocumentFixture()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc1", Content: "body"}))
	require.NoError(t, cache.Upsert(ctx, domain.CacheEntry{DocumentID: "doc1", Embedding: []float32{1, 0, 0}}))

	require.NoError(t, svc.Remove(ctx, "doc1"))

	_, err := store.GetDocument(ctx, "doc1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, cache.Stats(ctx).Entries)
}

func TestDocumentRemove_Idempotent(t *testing.T) {
	svc, _, _ := newDocumentFixture()

	assert.NoError(t, svc.Remove(context.Background(), "missing"))
}

func TestDocumentList(t *testing.T) {
	svc, store, _ := newDocumentFixture()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc1", Content: "a"}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc2", Content: "b"}))

	docs, err := svc.List(ctx)

	require.NoError(t, err)
	assert.Len(t, docs, 2)
}
