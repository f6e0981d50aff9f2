package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doclens/doclens-cli/internal/core/domain"
)

const testDimensions = 3

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), testDimensions)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	store := newTestStore(t)
	assert.FileExists(t, store.Path())
}

func TestNewStore_RejectsInvalidDimensions(t *testing.T) {
	_, err := NewStore(t.TempDir(), 0)
	assert.Error(t, err)
}

func TestNewStore_MigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir, testDimensions)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening must not re-run applied migrations.
	store, err = NewStore(dir, testDimensions)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := domain.Document{ID: "doc1", Title: "Title", Content: "body text"}
	require.NoError(t, store.SaveDocument(ctx, &doc))

	got, err := store.GetDocument(ctx, "doc1")
	require.NoError(t, err)
	assert.Equal(t, "doc1", got.ID)
	assert.Equal(t, "Title", got.Title)
	assert.Equal(t, "body text", got.Content)
	assert.Nil(t, got.Embedding)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestStore_GetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetDocument(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc1", Content: "v1"}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc1", Content: "v2"}))

	got, err := store.GetDocument(ctx, "doc1")
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Content)
}

func TestStore_DeleteIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc1", Content: "body"}))
	require.NoError(t, store.DeleteDocument(ctx, "doc1"))
	require.NoError(t, store.DeleteDocument(ctx, "doc1"))

	_, err := store.GetDocument(ctx, "doc1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_EmbeddingRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc1", Content: "body"}))

	vector := []float32{0.25, -1.5, 3.75}
	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.UpdateEmbedding(ctx, "doc1", vector, "model-a", at))

	got, err := store.GetDocument(ctx, "doc1")
	require.NoError(t, err)
	assert.Equal(t, vector, got.Embedding)
	assert.Equal(t, "model-a", got.EmbeddingModel)
	assert.WithinDuration(t, at, got.EmbeddedAt, time.Second)
}

func TestStore_UpdateEmbedding_WrongDimension(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc1", Content: "body"}))

	err := store.UpdateEmbedding(ctx, "doc1", []float32{1, 2}, "model-a", time.Now())

	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestStore_UpdateEmbedding_NotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.UpdateEmbedding(context.Background(), "missing", []float32{1, 2, 3}, "model-a", time.Now())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_MalformedBlobTreatedAsAbsent(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, testDimensions)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc1", Content: "body"}))
	require.NoError(t, store.UpdateEmbedding(ctx, "doc1", []float32{1, 2, 3}, "model-a", time.Now()))
	require.NoError(t, store.Close())

	// Reopen under a wider model: stored 3-float blobs are now malformed.
	store, err = NewStore(dir, 4)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.GetDocument(ctx, "doc1")
	require.NoError(t, err)
	assert.Nil(t, got.Embedding)
	assert.Empty(t, got.EmbeddingModel)

	without, err := store.CountWithoutEmbedding(ctx, "model-a")
	require.NoError(t, err)
	assert.Equal(t, 1, without)
}

func TestStore_ListWithoutEmbedding_ModelAware(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "plain", Content: "a"}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "current", Content: "b"}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "stale", Content: "c"}))
	require.NoError(t, store.UpdateEmbedding(ctx, "current", []float32{1, 0, 0}, "model-a", time.Now()))
	require.NoError(t, store.UpdateEmbedding(ctx, "stale", []float32{0, 1, 0}, "model-b", time.Now()))

	docs, err := store.ListWithoutEmbedding(ctx, "model-a", 10)

	require.NoError(t, err)
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	assert.ElementsMatch(t, []string{"plain", "stale"}, ids)
}

func TestStore_ListWithoutEmbedding_Limit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: id, Content: id}))
	}

	docs, err := store.ListWithoutEmbedding(ctx, "model-a", 2)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	docs, err = store.ListWithoutEmbedding(ctx, "model-a", 0)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestStore_ListWithEmbedding(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "a", Content: "a"}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "b", Content: "b"}))
	require.NoError(t, store.UpdateEmbedding(ctx, "a", []float32{1, 0, 0}, "model-a", time.Now()))

	docs, err := store.ListWithEmbedding(ctx)

	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, []float32{1, 0, 0}, docs[0].Embedding)
}

func TestStore_Counts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "a", Content: "a"}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "b", Content: "b"}))
	require.NoError(t, store.UpdateEmbedding(ctx, "a", []float32{1, 0, 0}, "model-a", time.Now()))

	with, err := store.CountWithEmbedding(ctx, "model-a")
	require.NoError(t, err)
	without, err := store.CountWithoutEmbedding(ctx, "model-a")
	require.NoError(t, err)

	assert.Equal(t, 1, with)
	assert.Equal(t, 1, without)
}

func TestStore_Counts_StaleModelIsMissing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "stale", Content: "a"}))
	require.NoError(t, store.UpdateEmbedding(ctx, "stale", []float32{0, 1, 0}, "model-b", time.Now()))

	// A vector from another model counts as missing, matching
	// ListWithoutEmbedding.
	with, err := store.CountWithEmbedding(ctx, "model-a")
	require.NoError(t, err)
	without, err := store.CountWithoutEmbedding(ctx, "model-a")
	require.NoError(t, err)
	assert.Equal(t, 0, with)
	assert.Equal(t, 1, without)

	with, err = store.CountWithEmbedding(ctx, "model-b")
	require.NoError(t, err)
	without, err = store.CountWithoutEmbedding(ctx, "model-b")
	require.NoError(t, err)
	assert.Equal(t, 1, with)
	assert.Equal(t, 0, without)
}

func TestFloat32SliceRoundTrip(t *testing.T) {
	vectors := [][]float32{
		{0.1, -0.2, 0.3},
		{0},
		nil,
	}

	for _, vec := range vectors {
		got := bytesToFloat32Slice(float32SliceToBytes(vec))
		if len(vec) == 0 {
			assert.Nil(t, got)
			continue
		}
		assert.Equal(t, vec, got)
	}
}
