package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/doclens/doclens-cli/internal/core/domain"
	"github.com/doclens/doclens-cli/internal/core/ports/driven"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// EnvAPIKey is consulted when the config file carries no API key.
const EnvAPIKey = "OPENAI_API_KEY"

// fileSettings is the on-disk TOML layout.
type fileSettings struct {
	Provider struct {
		Name              string `toml:"name"`
		Model             string `toml:"model"`
		APIKey            string `toml:"api_key"`
		BaseURL           string `toml:"base_url"`
		RequestIntervalMS int64  `toml:"request_interval_ms"`
		RequestTimeoutMS  int64  `toml:"request_timeout_ms"`
	} `toml:"provider"`
	Search struct {
		Limit    int     `toml:"limit"`
		MinScore float64 `toml:"min_score"`
	} `toml:"search"`
	Embeddings struct {
		BatchSize int `toml:"batch_size"`
	} `toml:"embeddings"`
	Storage struct {
		DataDir string `toml:"data_dir"`
	} `toml:"storage"`
}

// SettingsStore is a file-based implementation of driven.SettingsStore
// using TOML.
type SettingsStore struct {
	mu       sync.RWMutex
	filePath string
}

// NewSettingsStore creates a TOML-based settings store.
// If configDir is empty, defaults to ~/.doclens.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".doclens")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	return &SettingsStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Path returns the config file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}

// Load returns stored settings with defaults applied for missing fields.
// A missing file yields pure defaults. An API key from the environment
// fills in when the file has none.
func (s *SettingsStore) Load() (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s.applyEnv(settings), nil
		}
		return settings, fmt.Errorf("reading config: %w", err)
	}

	var raw fileSettings
	if err := toml.Unmarshal(data, &raw); err != nil {
		return settings, fmt.Errorf("parsing config: %w", err)
	}

	if raw.Provider.Name != "" {
		settings.Provider = domain.EmbeddingProvider(raw.Provider.Name)
	}
	if raw.Provider.Model != "" {
		settings.Model = raw.Provider.Model
	}
	if raw.Provider.APIKey != "" {
		settings.APIKey = raw.Provider.APIKey
	}
	if raw.Provider.BaseURL != "" {
		settings.BaseURL = raw.Provider.BaseURL
	}
	if raw.Provider.RequestIntervalMS > 0 {
		settings.RequestInterval = time.Duration(raw.Provider.RequestIntervalMS) * time.Millisecond
	}
	if raw.Provider.RequestTimeoutMS > 0 {
		settings.RequestTimeout = time.Duration(raw.Provider.RequestTimeoutMS) * time.Millisecond
	}
	if raw.Search.Limit > 0 {
		settings.SearchLimit = raw.Search.Limit
	}
	if raw.Search.MinScore != 0 {
		settings.MinScore = raw.Search.MinScore
	}
	if raw.Embeddings.BatchSize > 0 {
		settings.BatchSize = raw.Embeddings.BatchSize
	}
	if raw.Storage.DataDir != "" {
		settings.DataDir = raw.Storage.DataDir
	}

	return s.applyEnv(settings), nil
}

// Save writes the settings back to disk.
func (s *SettingsStore) Save(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raw fileSettings
	raw.Provider.Name = settings.Provider.String()
	raw.Provider.Model = settings.Model
	raw.Provider.APIKey = settings.APIKey
	raw.Provider.BaseURL = settings.BaseURL
	raw.Provider.RequestIntervalMS = settings.RequestInterval.Milliseconds()
	raw.Provider.RequestTimeoutMS = settings.RequestTimeout.Milliseconds()
	raw.Search.Limit = settings.SearchLimit
	raw.Search.MinScore = settings.MinScore
	raw.Embeddings.BatchSize = settings.BatchSize
	raw.Storage.DataDir = settings.DataDir

	data, err := toml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	// Config holds credentials; keep it owner-readable only.
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// applyEnv fills the API key from the environment when the file has none.
func (s *SettingsStore) applyEnv(settings domain.Settings) domain.Settings {
	if settings.APIKey == "" {
		settings.APIKey = os.Getenv(EnvAPIKey)
	}
	return settings
}
