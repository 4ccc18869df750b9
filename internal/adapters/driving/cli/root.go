// Package cli implements the scandoc command-line interface using cobra.
// Commands talk to the core through the driving port interfaces; wiring
// happens in main before Execute runs.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scandoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scandoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scandoc-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services used by the commands. Set via SetServices before Execute.
var (
	scanService    driving.ScanService
	libraryService driving.LibraryService
	configStore    driven.ConfigStore
	generator      driven.TextGenerator
	exporter       driven.Exporter
)

// verbose enables debug logging for all commands.
var verbose bool

var rootCmd = &cobra.Command{
	Use:   "scandoc",
	Short: "Scanned document library with AI summaries",
	Long: `Scandoc stores scanned documents, summarizes them with an AI model,
and keeps everything searchable with full-text search.

Typical flow:
  scandoc add notes.txt --summarize   # ingest and summarize a text file
  scandoc list                        # browse the library
  scandoc search "invoice"            # prefix full-text search
  scandoc tui                         # interactive browser`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

// Services bundles everything the commands need.
type Services struct {
	Scan      driving.ScanService
	Library   driving.LibraryService
	Config    driven.ConfigStore
	Generator driven.TextGenerator
	Exporter  driven.Exporter
}

// SetServices injects the core services the commands run against.
func SetServices(s Services) {
	scanService = s.Scan
	libraryService = s.Library
	configStore = s.Config
	generator = s.Generator
	exporter = s.Exporter
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command. The context cancels long-running commands
// (watch, tui, mcp) on shutdown.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
