package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var summarizeBullets int

var summarizeCmd = &cobra.Command{
	Use:   "summarize [id]",
	Short: "Summarize a stored document",
	Long: `Runs AI summarization for the document's source text and stores the
result. Re-running on a READY or ERROR document repeats the whole
pipeline, which makes this the retry command after a failure.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().IntVarP(&summarizeBullets, "bullets", "b", 0, "maximum bullets in the summary (0 = default)")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	if scanService == nil {
		return errors.New("scan service not configured")
	}

	id, err := parseDocumentID(args[0])
	if err != nil {
		return err
	}

	cmd.Printf("Summarizing document %d...\n", id)
	if err := scanService.StartSummaryFor(cmd.Context(), id, summarizeBullets); err != nil {
		return fmt.Errorf("summarizing document %d: %w", id, err)
	}

	if libraryService != nil {
		doc, err := libraryService.Get(cmd.Context(), id)
		if err == nil {
			cmd.Printf("\n%s\n", doc.SummaryText)
		}
	}
	return nil
}
