package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a document as a plain-text file",
	Long: `Writes the document's title and summary to a text file in the export
directory and prints the created path. Documents without a summary export
their source text instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}
	if exporter == nil {
		return errors.New("exporter not configured")
	}

	id, err := parseDocumentID(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	doc, err := libraryService.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("loading document %d: %w", id, err)
	}

	body := doc.SummaryText
	if body == "" {
		body = doc.SourceText
	}

	path, err := exporter.Export(ctx, doc.Title, body)
	if err != nil {
		return fmt.Errorf("exporting document %d: %w", id, err)
	}

	cmd.Printf("Exported to %s\n", path)
	return nil
}
