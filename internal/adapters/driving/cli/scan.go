package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	scanText    string
	scanBullets int
)

var scanCmd = &cobra.Command{
	Use:   "scan [image]",
	Short: "Save a scanned page with its recognized text",
	Long: `Runs the scan pipeline for a captured page image: the recognized text
(from --text or stdin) is summarized into an unsaved preview, then the
preview is persisted together with the page image.

OCR itself happens outside scandoc; pass its output via --text.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanText, "text", "x", "", "file holding the recognized text (stdin when omitted)")
	scanCmd.Flags().IntVarP(&scanBullets, "bullets", "b", 0, "maximum bullets in the summary (0 = default)")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	if scanService == nil {
		return errors.New("scan service not configured")
	}

	imagePath := args[0]
	if _, err := os.Stat(imagePath); err != nil {
		return fmt.Errorf("reading image %s: %w", imagePath, err)
	}

	text, err := readScanText(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	cmd.Println("Summarizing...")
	if err := scanService.AddFromOCR(ctx, text, scanBullets); err != nil {
		return fmt.Errorf("summarizing scanned text: %w", err)
	}

	if state := scanService.State(); len(state.Previews) > 0 {
		preview := state.Previews[0]
		cmd.Printf("\n%s\n", preview.Title)
		if preview.Summary != "" {
			cmd.Printf("%s\n", preview.Summary)
		}
	}

	id, err := scanService.ConfirmSave(ctx, imagePath)
	if err != nil {
		return fmt.Errorf("saving scan: %w", err)
	}

	cmd.Printf("\nSaved document %d.\n", id)
	return nil
}

// readScanText loads the recognized text from --text or stdin.
func readScanText(cmd *cobra.Command) (string, error) {
	if scanText != "" {
		data, err := os.ReadFile(scanText)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", scanText, err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}
