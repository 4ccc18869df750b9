package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a document",
	Long:  `Removes a document, its page images, and its search index entry.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	id, err := parseDocumentID(args[0])
	if err != nil {
		return err
	}

	if err := libraryService.Delete(cmd.Context(), id); err != nil {
		return fmt.Errorf("deleting document %d: %w", id, err)
	}

	cmd.Printf("Deleted document %d.\n", id)
	return nil
}
