package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doclens/doclens-cli/internal/core/ports/driving"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show embedding coverage and cache statistics",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	if embeddingsManager == nil {
		return errors.New("embeddings manager not configured")
	}

	stats, err := embeddingsManager.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("collect stats: %w", err)
	}

	if statsJSON {
		return outputJSON(cmd, stats)
	}
	return outputStatsTable(cmd, stats)
}

func outputStatsTable(cmd *cobra.Command, stats *driving.ManagerStats) error {
	cmd.Printf("Documents:          %d\n", stats.TotalDocuments)
	cmd.Printf("With embeddings:    %d\n", stats.WithEmbeddings)
	cmd.Printf("Without embeddings: %d\n", stats.WithoutEmbeddings)
	cmd.Printf("Provider:           %s\n", stats.ProviderStatus)
	if stats.Model != "" {
		cmd.Printf("Model:              %s\n", stats.Model)
	}
	cmd.Printf("Cache entries:      %d\n", stats.Cache.Entries)
	cmd.Printf("Cache size:         %s\n", formatBytes(stats.Cache.EstimatedBytes))
	return nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
