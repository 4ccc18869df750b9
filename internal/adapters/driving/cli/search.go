package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search documents",
	Long: `Performs a full-text search across titles, source text, and summaries.
Whitespace-separated terms are combined with AND and matched as prefixes,
so "inv mar" finds "Invoice March".`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	items, err := libraryService.Search(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputItemsJSON(cmd, items)
	}

	if len(items) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	return outputItemsTable(cmd, items)
}
