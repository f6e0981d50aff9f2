package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doclens/doclens-cli/internal/adapters/driven/config/file"
	"github.com/doclens/doclens-cli/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage doclens configuration",
	Long: `View and change configuration values.

Available keys:
  provider          embedding provider (openai, ollama)
  model             embedding model name
  api-key           provider API key (openai only)
  base-url          provider base URL override
  request-interval  minimum delay between provider requests (e.g. 200ms)
  request-timeout   per-request timeout (e.g. 30s)
  search-limit      default maximum search results
  min-score         default minimum similarity score
  batch-size        documents fetched per bulk generation run`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a single configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfig() (*file.SettingsStore, domain.Settings, error) {
	store, err := file.NewSettingsStore(flagConfigDir)
	if err != nil {
		return nil, domain.Settings{}, fmt.Errorf("open settings: %w", err)
	}
	s, err := store.Load()
	if err != nil {
		return nil, domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return store, s, nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	_, s, err := loadConfig()
	if err != nil {
		return err
	}

	cmd.Println("[Provider]")
	cmd.Printf("  provider:          %s\n", s.Provider)
	cmd.Printf("  model:             %s\n", s.Model)
	cmd.Printf("  api-key:           %s\n", maskSecret(s.APIKey))
	if s.BaseURL != "" {
		cmd.Printf("  base-url:          %s\n", s.BaseURL)
	}
	cmd.Printf("  request-interval:  %s\n", s.RequestInterval)
	cmd.Printf("  request-timeout:   %s\n", s.RequestTimeout)
	cmd.Println()
	cmd.Println("[Search]")
	cmd.Printf("  search-limit:      %d\n", s.SearchLimit)
	cmd.Printf("  min-score:         %.2f\n", s.MinScore)
	cmd.Println()
	cmd.Println("[Embeddings]")
	cmd.Printf("  batch-size:        %d\n", s.BatchSize)
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	_, s, err := loadConfig()
	if err != nil {
		return err
	}

	switch args[0] {
	case "provider":
		cmd.Println(s.Provider)
	case "model":
		cmd.Println(s.Model)
	case "api-key":
		cmd.Println(maskSecret(s.APIKey))
	case "base-url":
		cmd.Println(s.BaseURL)
	case "request-interval":
		cmd.Println(s.RequestInterval)
	case "request-timeout":
		cmd.Println(s.RequestTimeout)
	case "search-limit":
		cmd.Println(s.SearchLimit)
	case "min-score":
		cmd.Println(s.MinScore)
	case "batch-size":
		cmd.Println(s.BatchSize)
	default:
		return fmt.Errorf("unknown config key %q", args[0])
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	store, s, err := loadConfig()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	if err := applyConfigValue(&s, key, value); err != nil {
		return err
	}

	if err := store.Save(s); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

func applyConfigValue(s *domain.Settings, key, value string) error {
	switch key {
	case "provider":
		p := domain.EmbeddingProvider(strings.ToLower(value))
		if p != domain.ProviderOpenAI && p != domain.ProviderOllama {
			return fmt.Errorf("unknown provider %q (expected openai or ollama)", value)
		}
		s.Provider = p
	case "model":
		s.Model = value
	case "api-key":
		s.APIKey = value
	case "base-url":
		s.BaseURL = value
	case "request-interval":
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid duration %q", value)
		}
		s.RequestInterval = d
	case "request-timeout":
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid duration %q", value)
		}
		s.RequestTimeout = d
	case "search-limit":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid search limit %q", value)
		}
		s.SearchLimit = n
	case "min-score":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid score %q", value)
		}
		s.MinScore = f
	case "batch-size":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid batch size %q", value)
		}
		s.BatchSize = n
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
