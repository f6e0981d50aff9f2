package domain

import "time"

// EmbeddingProvider identifies an embedding backend.
type EmbeddingProvider string

// Available embedding providers.
const (
	// ProviderOpenAI is the OpenAI cloud embeddings API.
	ProviderOpenAI EmbeddingProvider = "openai"

	// ProviderOllama is a local Ollama instance.
	ProviderOllama EmbeddingProvider = "ollama"
)

// IsValid returns true if the provider is recognised.
func (p EmbeddingProvider) IsValid() bool {
	switch p {
	case ProviderOpenAI, ProviderOllama:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p EmbeddingProvider) String() string {
	return string(p)
}

// Settings holds operator-facing configuration.
// Absence of provider credentials is a valid state: the tool runs in
// degraded mode where everything except embedding generation and
// semantic search keeps working.
type Settings struct {
	// Provider selects the embedding backend.
	Provider EmbeddingProvider

	// Model is the embedding model identifier. The model determines the
	// vector dimension and tags every vector it produces.
	Model string

	// APIKey authenticates against the provider. May be empty for local
	// providers, or supplied via environment instead.
	APIKey string

	// BaseURL overrides the provider endpoint (Azure, proxies, local).
	BaseURL string

	// RequestInterval is the minimum gap between provider requests,
	// shared across all callers.
	RequestInterval time.Duration

	// RequestTimeout bounds each provider call.
	RequestTimeout time.Duration

	// SearchLimit is the default result limit for searches.
	SearchLimit int

	// MinScore is the default similarity threshold for searches.
	MinScore float64

	// BatchSize bounds how many missing documents one bulk run picks up.
	BatchSize int

	// DataDir is where the document database lives.
	DataDir string
}

// Default settings values.
const (
	DefaultRequestInterval = 200 * time.Millisecond
	DefaultRequestTimeout  = 30 * time.Second
	DefaultBatchSize       = 256
)

// DefaultSettings returns the baseline configuration.
func DefaultSettings() Settings {
	return Settings{
		Provider:        ProviderOpenAI,
		Model:           "text-embedding-3-small",
		RequestInterval: DefaultRequestInterval,
		RequestTimeout:  DefaultRequestTimeout,
		SearchLimit:     DefaultSearchLimit,
		MinScore:        DefaultMinScore,
		BatchSize:       DefaultBatchSize,
	}
}
