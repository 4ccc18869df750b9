package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var showSource bool

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a document and its summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showSource, "source", false, "print the full source text instead of the summary")
	rootCmd.AddCommand(showCmd)
}

// parseDocumentID parses a CLI document id argument.
func parseDocumentID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid document id %q", arg)
	}
	return id, nil
}

func runShow(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	id, err := parseDocumentID(args[0])
	if err != nil {
		return err
	}

	doc, err := libraryService.GetWithImages(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("loading document %d: %w", id, err)
	}

	cmd.Printf("Document %d: %s\n\n", doc.Document.ID, doc.Document.Title)
	cmd.Printf("  Status:   %s\n", statusLabel(doc.Document.Status))
	cmd.Printf("  Created:  %s\n", doc.Document.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:  %s\n", doc.Document.UpdatedAt.Format("2006-01-02 15:04:05"))
	for _, img := range doc.Images {
		cmd.Printf("  Page %d:   %s\n", img.Position, img.ImageURI)
	}
	cmd.Println()

	if showSource {
		cmd.Println(doc.Document.SourceText)
		return nil
	}

	if doc.Document.SummaryText == "" {
		cmd.Println("No summary yet. Run: scandoc summarize", doc.Document.ID)
		return nil
	}
	cmd.Println(doc.Document.SummaryText)
	return nil
}
