// Package text provides a plain-text document exporter writing to the
// local filesystem.
package text

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/scandoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scandoc-cli/internal/logger"
)

// Ensure Exporter implements the interface.
var _ driven.Exporter = (*Exporter)(nil)

// maxSlugLength bounds the title-derived part of exported file names.
const maxSlugLength = 40

// Exporter writes documents as plain-text files into an export directory.
type Exporter struct {
	exportDir string
}

// NewExporter creates a text exporter rooted at dataDir/exports. An empty
// dataDir selects ~/.scandoc/data.
func NewExporter(dataDir string) (*Exporter, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".scandoc", "data")
	}

	exportDir := filepath.Join(dataDir, "exports")
	if err := os.MkdirAll(exportDir, 0700); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}

	return &Exporter{exportDir: exportDir}, nil
}

// Export writes the document as "<title>\n\n<body>\n" and returns the path
// of the created file.
func (e *Exporter) Export(ctx context.Context, title, body string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s-%s.txt", slugify(title), time.Now().UTC().Format("20060102-150405"))
	path := filepath.Join(e.exportDir, name)

	content := strings.TrimSpace(title) + "\n\n" + strings.TrimSpace(body) + "\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return "", fmt.Errorf("writing export file: %w", err)
	}

	logger.Debug("exported %q to %s", title, path)
	return path, nil
}

// slugify reduces a title to a safe file name fragment.
func slugify(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
		if b.Len() >= maxSlugLength {
			break
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "document"
	}
	return slug
}
