package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/scandoc-cli/internal/logger"
)

var (
	watchSummarize bool
	watchBullets   int
)

// watchSettleDelay is how long a new file must stay quiet before it is
// ingested, so half-written files are not picked up.
const watchSettleDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and ingest new text files",
	Long: `Watches a directory and adds every new .txt file as a document.
This pairs with scanner software that drops recognized text into a folder.

With --summarize, each ingested document is summarized immediately.
Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVarP(&watchSummarize, "summarize", "s", false, "summarize each ingested file")
	watchCmd.Flags().IntVarP(&watchBullets, "bullets", "b", 0, "maximum bullets in the summary (0 = default)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if scanService == nil {
		return errors.New("scan service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("checking watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	cmd.Printf("Watching %s for new .txt files. Press Ctrl+C to stop.\n", dir)

	ctx := cmd.Context()
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(watchSettleDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if strings.ToLower(filepath.Ext(event.Name)) != ".txt" {
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < watchSettleDelay {
					continue
				}
				delete(pending, path)
				ingestFile(ctx, cmd, path)
			}
		}
	}
}

// ingestFile adds one settled text file as a document.
func ingestFile(ctx context.Context, cmd *cobra.Command, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("reading %s: %v", path, err)
		return
	}
	if strings.TrimSpace(string(data)) == "" {
		logger.Debug("skipping empty file %s", path)
		return
	}

	base := filepath.Base(path)
	title := strings.TrimSuffix(base, filepath.Ext(base))

	id, err := scanService.IngestText(ctx, title, string(data))
	if err != nil {
		logger.Warn("ingesting %s: %v", path, err)
		return
	}
	cmd.Printf("Added document %d from %s.\n", id, base)

	if !watchSummarize {
		return
	}
	if err := scanService.StartSummaryFor(ctx, id, watchBullets); err != nil {
		logger.Warn("summarizing document %d: %v", id, err)
		return
	}
	cmd.Printf("Summarized document %d.\n", id)
}
