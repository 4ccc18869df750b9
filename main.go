// Command scandoc is a scanned-document library with AI summaries.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/scandoc-cli/internal/adapters/driven/config/file"
	exporttext "github.com/custodia-labs/scandoc-cli/internal/adapters/driven/export/text"
	imagefile "github.com/custodia-labs/scandoc-cli/internal/adapters/driven/imagestore/file"
	"github.com/custodia-labs/scandoc-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/scandoc-cli/internal/adapters/driven/textgen"
	"github.com/custodia-labs/scandoc-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/scandoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scandoc-cli/internal/core/services"
	"github.com/custodia-labs/scandoc-cli/internal/logger"
)

const thumbnailWidth = 320

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env so OPENAI_API_KEY can live next to the binary in dev.
	_ = godotenv.Load()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("initializing config store: %w", err)
	}

	promptStore, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("initializing prompt store: %w", err)
	}

	dataDir := configStore.GetString("data.dir")
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening document store: %w", err)
	}
	defer store.Close()

	images, err := imagefile.NewImageStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening image store: %w", err)
	}

	exporter, err := exporttext.NewExporter(dataDir)
	if err != nil {
		return fmt.Errorf("opening export directory: %w", err)
	}

	generator := newGenerator(configStore)

	summarizer := services.NewSummarizerService(generator, promptStore)
	scan := services.NewScanService(store, images, summarizer, func(data []byte) ([]byte, error) {
		return imagefile.MakeThumbnail(data, thumbnailWidth)
	})
	library := services.NewLibraryService(store, images)

	cli.SetServices(cli.Services{
		Scan:      scan,
		Library:   library,
		Config:    configStore,
		Generator: generator,
		Exporter:  exporter,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.Execute(ctx)
}

// newGenerator builds the text-generation client from config and environment.
// Returns nil when the provider needs an API key and none is set: browsing,
// search and config commands still work, and summarization reports a
// friendly error.
func newGenerator(configStore driven.ConfigStore) driven.TextGenerator {
	provider := configStore.GetString("ai.provider")

	cfg := textgen.Config{
		Provider: provider,
		APIKey:   resolveAPIKey(configStore, provider),
		BaseURL:  configStore.GetString("ai.base_url"),
		Model:    configStore.GetString("ai.model"),
	}
	if timeout := configStore.GetInt("ai.timeout_seconds"); timeout > 0 {
		cfg.Timeout = time.Duration(timeout) * time.Second
	}

	if cfg.APIKey == "" && textgen.NeedsAPIKey(provider) {
		logger.Debug("no API key configured, text generation disabled")
		return nil
	}

	client, err := textgen.New(cfg)
	if err != nil {
		logger.Warn("text generation unavailable: %v", err)
		return nil
	}
	return client
}

// resolveAPIKey prefers the stored key, then the provider's conventional
// environment variable.
func resolveAPIKey(configStore driven.ConfigStore, provider string) string {
	if key := configStore.GetString("ai.api_key"); key != "" {
		return key
	}
	if provider == textgen.ProviderAnthropic {
		return os.Getenv("ANTHROPIC_API_KEY")
	}
	return os.Getenv("OPENAI_API_KEY")
}
