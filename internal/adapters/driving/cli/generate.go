package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/doclens/doclens-cli/internal/core/domain"
	"github.com/doclens/doclens-cli/internal/core/ports/driving"
)

var generateJSON bool

var generateCmd = &cobra.Command{
	Use:   "generate [doc-id]",
	Short: "Generate embeddings for stored documents",
	Long: `Generates embedding vectors through the configured provider.

Without an argument, embeds every document that lacks a vector under the
active model, tolerating per-document failures and reporting a complete
accounting. With a document ID, embeds just that document, overwriting any
prior vector (re-generation after a model upgrade is the intended use).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if embeddingsManager == nil {
		return errors.New("embeddings manager not configured")
	}

	ctx := context.Background()

	if len(args) == 1 {
		return runGenerateOne(ctx, cmd, args[0])
	}
	return runGenerateAll(ctx, cmd)
}

func runGenerateOne(ctx context.Context, cmd *cobra.Command, docID string) error {
	if err := embeddingsManager.GenerateFor(ctx, docID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("document %q does not exist", docID)
		case errors.Is(err, domain.ErrProviderUnavailable):
			return fmt.Errorf("embedding provider unavailable; configure credentials with 'doclens config'")
		default:
			return fmt.Errorf("generate embedding: %w", err)
		}
	}

	cmd.Printf("Embedded document %s\n", docID)
	return nil
}

func runGenerateAll(ctx context.Context, cmd *cobra.Command) error {
	result, err := embeddingsManager.GenerateMissing(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrProviderUnavailable) {
			return fmt.Errorf("embedding provider unavailable; configure credentials with 'doclens config'")
		}
		return fmt.Errorf("generate embeddings: %w", err)
	}

	if generateJSON {
		return outputJSON(cmd, result)
	}
	return outputBulkResult(cmd, result)
}

func outputBulkResult(cmd *cobra.Command, result *driving.BulkResult) error {
	cmd.Printf("Processed: %d\n", result.Processed)
	cmd.Printf("Succeeded: %d\n", result.Succeeded)
	cmd.Printf("Failed:    %d\n", len(result.Failed))
	cmd.Printf("Elapsed:   %s\n", result.Elapsed.Round(time.Millisecond))

	if len(result.Failed) > 0 {
		cmd.Println()
		cmd.Println("Failures:")
		for _, f := range result.Failed {
			cmd.Printf("  %s: %s\n", f.DocumentID, f.Reason)
		}
	}
	return nil
}

// outputJSON writes any value as indented JSON.
func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
