package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild the vector cache from persisted embeddings",
	Long: `Clears the in-memory vector cache and reloads every persisted embedding
that matches the active model. Vectors generated under a different model are
skipped; run 'doclens generate' to bring them up to date.`,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	if embeddingsManager == nil {
		return errors.New("embeddings manager not configured")
	}

	result, err := embeddingsManager.RefreshCache(context.Background())
	if err != nil {
		return fmt.Errorf("refresh cache: %w", err)
	}

	cmd.Printf("Loaded %d embeddings into the cache\n", result.Loaded)
	if result.SkippedStale > 0 {
		cmd.Printf("Skipped %d stale embeddings (different model); run 'doclens generate' to refresh them\n", result.SkippedStale)
	}
	return nil
}
