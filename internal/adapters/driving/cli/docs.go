package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/doclens/doclens-cli/internal/core/domain"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage stored documents",
	Long:  `Add, list, view, or remove documents from the local store.`,
}

var docsAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a document",
	Long: `Stores a new document. Content is read from --content, --file, or stdin.
The document starts without an embedding; run 'doclens generate' afterwards.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocsAdd,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	RunE:  runDocsList,
}

var docsShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsShow,
}

var docsRmCmd = &cobra.Command{
	Use:   "rm [doc-id]",
	Short: "Remove a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsRm,
}

var (
	docsAddContent string
	docsAddFile    string
	docsListJSON   bool
)

func init() {
	docsAddCmd.Flags().StringVar(&docsAddContent, "content", "", "document body text")
	docsAddCmd.Flags().StringVarP(&docsAddFile, "file", "f", "", "read document body from a file")
	docsListCmd.Flags().BoolVar(&docsListJSON, "json", false, "output documents as JSON")

	docsCmd.AddCommand(docsAddCmd)
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsShowCmd)
	docsCmd.AddCommand(docsRmCmd)
	rootCmd.AddCommand(docsCmd)
}

func runDocsAdd(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	content, err := readDocContent(cmd)
	if err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return errors.New("document content must not be empty")
	}

	doc := domain.Document{
		ID:      uuid.New().String(),
		Title:   args[0],
		Content: content,
	}

	if err := documentService.Add(context.Background(), doc); err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}

	cmd.Printf("Added document %s\n", doc.ID)
	return nil
}

// readDocContent resolves the document body from --content, --file, or stdin,
// in that order of precedence.
func readDocContent(cmd *cobra.Command) (string, error) {
	if docsAddContent != "" {
		return docsAddContent, nil
	}
	if docsAddFile != "" {
		data, err := os.ReadFile(docsAddFile)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", docsAddFile, err)
		}
		return string(data), nil
	}

	stat, err := os.Stdin.Stat()
	if err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	return "", errors.New("no content provided; use --content, --file, or pipe via stdin")
}

func runDocsList(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if docsListJSON {
		return outputJSON(cmd, docs)
	}

	if len(docs) == 0 {
		cmd.Println("No documents stored.")
		return nil
	}

	for i := range docs {
		marker := " "
		if len(docs[i].Embedding) > 0 {
			marker = "*"
		}
		cmd.Printf("  [%s] %s  %s\n", marker, docs[i].ID, docs[i].Title)
	}
	cmd.Println()
	cmd.Printf("Total: %d documents (* = embedded)\n", len(docs))
	return nil
}

func runDocsShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Get(context.Background(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("document %q does not exist", args[0])
		}
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Title:    %s\n", doc.Title)
	cmd.Printf("  Created:  %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:  %s\n", doc.UpdatedAt.Format("2006-01-02 15:04:05"))
	if len(doc.Embedding) > 0 {
		cmd.Printf("  Embedded: %s (%s, %d dims)\n",
			doc.EmbeddedAt.Format("2006-01-02 15:04:05"), doc.EmbeddingModel, len(doc.Embedding))
	} else {
		cmd.Printf("  Embedded: no\n")
	}
	cmd.Println()
	cmd.Println(doc.Content)
	return nil
}

func runDocsRm(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	if err := documentService.Remove(context.Background(), args[0]); err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}

	cmd.Printf("Removed document %s\n", args[0])
	return nil
}
