package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doclens/doclens-cli/internal/core/domain"
)

func TestRefreshCmd_ReloadsCache(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, ts.seedEmbeddedDoc("doc1", "Kept", []float32{1, 0, 0}))
	// Cache poisoned with an entry the store does not have.
	require.NoError(t, ts.cache.Upsert(ctx, domain.CacheEntry{DocumentID: "ghost", Embedding: []float32{0, 0, 1}}))

	out, err := execute(t, "refresh")

	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 1 embeddings")
	assert.Equal(t, 1, ts.cache.Stats(ctx).Entries)
}

func TestRefreshCmd_ReportsStale(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ctx := context.Background()

	doc := domain.Document{ID: "doc1", Content: "a"}
	require.NoError(t, ts.store.SaveDocument(ctx, &doc))
	require.NoError(t, ts.store.UpdateEmbedding(ctx, "doc1", []float32{1, 0, 0}, "retired-model", time.Now()))

	out, err := execute(t, "refresh")

	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 0 embeddings")
	assert.Contains(t, out, "Skipped 1 stale embeddings")
	assert.Equal(t, 0, ts.cache.Stats(ctx).Entries)
}
