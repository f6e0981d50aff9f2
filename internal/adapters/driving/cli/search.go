package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doclens/doclens-cli/internal/core/domain"
)

var (
	searchLimit    int
	searchMinScore float64
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search documents by semantic similarity",
	Long: `Embeds the query text and ranks stored documents by cosine similarity
against the in-memory vector cache. Results below the minimum score are
dropped; pass a negative --min-score to see everything.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default from config)")
	searchCmd.Flags().Float64Var(&searchMinScore, "min-score", 0, "minimum similarity score (default from config)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	ctx := context.Background()
	opts := domain.SearchOptions{
		Limit:    searchLimit,
		MinScore: searchMinScore,
	}
	if opts.Limit <= 0 {
		opts.Limit = settings.SearchLimit
	}
	if opts.MinScore == 0 && !cmd.Flags().Changed("min-score") {
		opts.MinScore = settings.MinScore
	}

	results, err := searchService.Search(ctx, query, opts)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidQuery):
			return errors.New("query must not be empty")
		case errors.Is(err, domain.ErrSearchUnavailable):
			return fmt.Errorf("search unavailable: %v", err)
		default:
			return fmt.Errorf("search failed: %w", err)
		}
	}

	if searchJSON {
		return outputJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		title := results[i].Title
		if title == "" {
			title = results[i].DocumentID
		}

		cmd.Printf("  [%d] %s (%.3f)\n", i+1, title, results[i].Score)
		if results[i].Preview != "" {
			cmd.Printf("      %s\n", results[i].Preview)
		}
		cmd.Println()
	}

	return nil
}
