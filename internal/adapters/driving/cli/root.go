// Package cli provides the cobra-based command line interface for doclens.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doclens/doclens-cli/internal/adapters/driven/config/file"
	"github.com/doclens/doclens-cli/internal/adapters/driven/embedding/ollama"
	"github.com/doclens/doclens-cli/internal/adapters/driven/embedding/openai"
	"github.com/doclens/doclens-cli/internal/adapters/driven/storage/sqlite"
	"github.com/doclens/doclens-cli/internal/adapters/driven/vectorcache"
	"github.com/doclens/doclens-cli/internal/core/domain"
	"github.com/doclens/doclens-cli/internal/core/ports/driven"
	"github.com/doclens/doclens-cli/internal/core/ports/driving"
	"github.com/doclens/doclens-cli/internal/core/services"
	"github.com/doclens/doclens-cli/internal/logger"
)

// Wired services. Production wiring happens in initServices; tests inject
// their own implementations and set servicesReady.
var (
	embeddingsManager driving.EmbeddingsManager
	searchService     driving.SearchService
	documentService   driving.DocumentService
	settings          domain.Settings

	servicesReady bool
	storeCloser   func() error
)

var (
	flagVerbose   bool
	flagConfigDir string
	flagDataDir   string
)

var rootCmd = &cobra.Command{
	Use:   "doclens",
	Short: "Semantic search over a document repository",
	Long: `doclens augments a shared document store with semantic search:
it generates embedding vectors for stored documents through an external
provider, keeps them consistent between the durable store and an in-memory
index, and answers natural-language queries ranked by cosine similarity.

Without provider credentials the tool runs in degraded mode: document
management and coverage stats keep working; generation and search report
unavailable.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		if skipServiceInit(cmd) {
			return nil
		}
		return initServices(cmd.Context())
	},
	PersistentPostRunE: func(*cobra.Command, []string) error {
		return closeServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.doclens)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.doclens/data)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// skipServiceInit reports whether cmd can run without the full service
// wiring. Config commands must work before any credentials exist.
func skipServiceInit(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "version", "help", "config", "completion":
			return true
		}
	}
	return false
}

// initServices builds the production wiring: settings, store, cache,
// provider, services. The cache is rebuilt from the store on every start
// because it is process-local and not persisted.
func initServices(ctx context.Context) error {
	if servicesReady {
		return nil
	}

	settingsStore, err := file.NewSettingsStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("open settings: %w", err)
	}
	settings, err = settingsStore.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	embedder, dimensions, err := buildEmbedder(settings)
	if err != nil {
		return err
	}
	if embedder == nil {
		logger.Info("No provider credentials; running in degraded mode")
	}

	dataDir := flagDataDir
	if dataDir == "" {
		dataDir = settings.DataDir
	}
	store, err := sqlite.NewStore(dataDir, dimensions)
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}
	storeCloser = store.Close

	cache := vectorcache.New(dimensions)

	manager := services.NewEmbeddingsService(store, cache, embedder, settings.Model)
	manager.SetBatchSize(settings.BatchSize)
	embeddingsManager = manager
	searchService = services.NewSearchService(embedder, cache)
	documentService = services.NewDocumentService(store, cache)

	// Warm the cache. Each process starts cold; the store is the source
	// of truth.
	if _, err := manager.RefreshCache(ctx); err != nil {
		return fmt.Errorf("warm cache: %w", err)
	}

	servicesReady = true
	return nil
}

// buildEmbedder creates the embedding service for the configured provider.
// A nil embedder (with valid dimensions) means degraded mode.
func buildEmbedder(s domain.Settings) (driven.EmbeddingService, int, error) {
	switch s.Provider {
	case domain.ProviderOpenAI:
		dimensions := openai.ModelDimensions(s.Model)
		if s.APIKey == "" {
			return nil, dimensions, nil
		}
		svc, err := openai.New(openai.Config{
			APIKey:          s.APIKey,
			BaseURL:         s.BaseURL,
			Model:           s.Model,
			Timeout:         s.RequestTimeout,
			RequestInterval: s.RequestInterval,
		})
		if err != nil {
			return nil, 0, fmt.Errorf("configure openai provider: %w", err)
		}
		return svc, svc.Dimensions(), nil

	case domain.ProviderOllama:
		svc := ollama.New(ollama.Config{
			BaseURL:         s.BaseURL,
			Model:           s.Model,
			Timeout:         s.RequestTimeout,
			RequestInterval: s.RequestInterval,
		})
		return svc, svc.Dimensions(), nil

	default:
		return nil, 0, fmt.Errorf("unknown embedding provider %q", s.Provider)
	}
}

// closeServices releases resources acquired by initServices.
func closeServices() error {
	if storeCloser != nil {
		err := storeCloser()
		storeCloser = nil
		return err
	}
	return nil
}
