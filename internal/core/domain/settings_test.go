package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmbeddingProvider_IsValid(t *testing.T) {
	assert.True(t, ProviderOpenAI.IsValid())
	assert.True(t, ProviderOllama.IsValid())
	assert.False(t, EmbeddingProvider("cohere").IsValid())
	assert.False(t, EmbeddingProvider("").IsValid())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, ProviderOpenAI, s.Provider)
	assert.Equal(t, "text-embedding-3-small", s.Model)
	assert.Empty(t, s.APIKey)
	assert.Equal(t, 200*time.Millisecond, s.RequestInterval)
	assert.Equal(t, 30*time.Second, s.RequestTimeout)
	assert.Equal(t, DefaultSearchLimit, s.SearchLimit)
	assert.Equal(t, DefaultMinScore, s.MinScore)
	assert.Equal(t, 256, s.BatchSize)
}
