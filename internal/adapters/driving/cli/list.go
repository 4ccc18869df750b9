package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scandoc-cli/internal/core/domain"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all documents",
	Long:  `Lists every saved document, newest first, with its summary status.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	items, err := libraryService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if listJSON {
		return outputItemsJSON(cmd, items)
	}
	return outputItemsTable(cmd, items)
}

func outputItemsJSON(cmd *cobra.Command, items []domain.DocumentListItem) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling documents: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputItemsTable(cmd *cobra.Command, items []domain.DocumentListItem) error {
	if len(items) == 0 {
		cmd.Println("No documents yet. Add one with: scandoc add <file>")
		return nil
	}

	for i := range items {
		doc := items[i].Document
		cmd.Printf("  [%d] %s (%s)\n", doc.ID, doc.Title, statusLabel(doc.Status))
		cmd.Printf("      Created: %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
		if items[i].CoverURI != "" {
			cmd.Printf("      Cover:   %s\n", items[i].CoverURI)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(items))
	return nil
}

func statusLabel(status domain.SummaryStatus) string {
	switch status {
	case domain.StatusReady:
		return "ready"
	case domain.StatusError:
		return "error"
	default:
		return "pending"
	}
}
