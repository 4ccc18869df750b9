package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	addTitle     string
	addSummarize bool
	addBullets   int
)

var addCmd = &cobra.Command{
	Use:   "add [file]",
	Short: "Add a text file to the library",
	Long: `Reads recognized text from a file (or stdin when no file is given) and
stores it as a new document with status PENDING.

With --summarize, runs AI summarization immediately after ingesting.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "document title (defaults to the file name)")
	addCmd.Flags().BoolVarP(&addSummarize, "summarize", "s", false, "summarize right after adding")
	addCmd.Flags().IntVarP(&addBullets, "bullets", "b", 0, "maximum bullets in the summary (0 = default)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if scanService == nil {
		return errors.New("scan service not configured")
	}

	var (
		text  string
		title = addTitle
	)

	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		text = string(data)
		if title == "" {
			base := filepath.Base(args[0])
			title = strings.TrimSuffix(base, filepath.Ext(base))
		}
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	ctx := cmd.Context()
	id, err := scanService.IngestText(ctx, title, text)
	if err != nil {
		return fmt.Errorf("adding document: %w", err)
	}
	cmd.Printf("Added document %d.\n", id)

	if !addSummarize {
		return nil
	}

	cmd.Println("Summarizing...")
	if err := scanService.StartSummaryFor(ctx, id, addBullets); err != nil {
		return fmt.Errorf("summarizing document %d: %w", id, err)
	}

	if libraryService != nil {
		doc, err := libraryService.Get(ctx, id)
		if err == nil {
			cmd.Printf("\n%s\n", doc.SummaryText)
		}
	}
	return nil
}
