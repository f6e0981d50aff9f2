package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doclens/doclens-cli/internal/core/domain"
)

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// newMockAPI returns a server speaking the OpenAI embeddings wire format
// and a pointer to the last decoded request.
func newMockAPI(t *testing.T, status int, vector []float32) (*httptest.Server, *embeddingsRequest) {
	t.Helper()
	lastReq := &embeddingsRequest{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/embeddings", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(lastReq))

		if status != http.StatusOK {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "mock failure", "type": "mock"},
			})
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  lastReq.Model,
			"data": []map[string]any{
				{"object": "embedding", "index": 0, "embedding": vector},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, lastReq
}

func newTestService(t *testing.T, baseURL string) *EmbeddingService {
	t.Helper()
	svc, err := New(Config{
		APIKey:          "test-key",
		BaseURL:         baseURL + "/v1",
		Model:           "text-embedding-3-small",
		RequestInterval: time.Millisecond,
	})
	require.NoError(t, err)
	return svc
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{APIKey: "  "})
	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	svc, err := New(Config{APIKey: "test-key"})

	require.NoError(t, err)
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, 1536, svc.Dimensions())
	assert.True(t, svc.Ready())
}

func TestModelDimensions(t *testing.T) {
	assert.Equal(t, 1536, ModelDimensions("text-embedding-3-small"))
	assert.Equal(t, 3072, ModelDimensions("text-embedding-3-large"))
	assert.Equal(t, 1536, ModelDimensions("unknown-model"))
}

func TestEmbed_Success(t *testing.T) {
	srv, lastReq := newMockAPI(t, http.StatusOK, []float32{0.1, 0.2, 0.3})
	svc := newTestService(t, srv.URL)

	vec, err := svc.Embed(context.Background(), "hello world")

	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0.1, 0.2, 0.3}, vec, 1e-6)
	assert.Equal(t, "text-embedding-3-small", lastReq.Model)
	require.Len(t, lastReq.Input, 1)
	assert.Equal(t, "hello world", lastReq.Input[0])
}

func TestEmbed_TruncatesOversizedInput(t *testing.T) {
	srv, lastReq := newMockAPI(t, http.StatusOK, []float32{0.1})
	svc := newTestService(t, srv.URL)

	_, err := svc.Embed(context.Background(), strings.Repeat("x", maxInputRunes+500))

	require.NoError(t, err)
	require.Len(t, lastReq.Input, 1)
	assert.Len(t, lastReq.Input[0], maxInputRunes)
}

func TestEmbed_EmptyInputRejectedLocally(t *testing.T) {
	srv, lastReq := newMockAPI(t, http.StatusOK, []float32{0.1})
	svc := newTestService(t, srv.URL)

	_, err := svc.Embed(context.Background(), "   ")

	assert.ErrorIs(t, err, domain.ErrProviderRejected)
	assert.Empty(t, lastReq.Input, "empty input must never reach the provider")
}

func TestEmbed_ErrorTranslation(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, domain.ErrProviderAuth},
		{"forbidden", http.StatusForbidden, domain.ErrProviderAuth},
		{"bad request", http.StatusBadRequest, domain.ErrProviderRejected},
		{"payload too large", http.StatusRequestEntityTooLarge, domain.ErrProviderRejected},
		{"rate limited", http.StatusTooManyRequests, domain.ErrProviderRejected},
		{"server error", http.StatusInternalServerError, domain.ErrProviderUnavailable},
		{"bad gateway", http.StatusBadGateway, domain.ErrProviderUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newMockAPI(t, tt.status, nil)
			svc := newTestService(t, srv.URL)

			_, err := svc.Embed(context.Background(), "hello")

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEmbed_UnreachableProvider(t *testing.T) {
	srv, _ := newMockAPI(t, http.StatusOK, []float32{0.1})
	svc := newTestService(t, srv.URL)
	srv.Close()

	_, err := svc.Embed(context.Background(), "hello")

	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestEmbedBatch_IndependentOutcomes(t *testing.T) {
	srv, _ := newMockAPI(t, http.StatusOK, []float32{0.1, 0.2})
	svc := newTestService(t, srv.URL)

	items := svc.EmbedBatch(context.Background(), []string{"one", "", "three"})

	require.Len(t, items, 3)
	assert.NoError(t, items[0].Err)
	assert.NotNil(t, items[0].Embedding)
	assert.ErrorIs(t, items[1].Err, domain.ErrProviderRejected)
	assert.Nil(t, items[1].Embedding)
	assert.NoError(t, items[2].Err)
}

func TestEmbed_CancelledContext(t *testing.T) {
	srv, _ := newMockAPI(t, http.StatusOK, []float32{0.1})
	svc := newTestService(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Embed(ctx, "hello")

	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}
