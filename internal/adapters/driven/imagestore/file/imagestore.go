// Package file stores page images as JPEG files on the local filesystem.
package file

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/scandoc-cli/internal/core/ports/driven"
)

// Ensure ImageStore implements the interface.
var _ driven.ImageStore = (*ImageStore)(nil)

// ImageStore persists page images as individual files under an images
// directory and hands out file:// URIs as references.
type ImageStore struct {
	dir string
}

// NewImageStore creates an image store rooted at dataDir/images.
// If dataDir is empty, defaults to ~/.scandoc/data.
func NewImageStore(dataDir string) (*ImageStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".scandoc", "data")
	}

	dir := filepath.Join(dataDir, "images")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating images directory: %w", err)
	}

	return &ImageStore{dir: dir}, nil
}

// Dir returns the images directory path.
func (s *ImageStore) Dir() string {
	return s.dir
}

// SaveImage writes the bytes to a new uniquely named file and returns its
// file:// URI.
func (s *ImageStore) SaveImage(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("image data is empty")
	}

	path := filepath.Join(s.dir, "scan_"+uuid.NewString()+".jpg")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("writing image file: %w", err)
	}

	return "file://" + path, nil
}

// LoadImage reads back the bytes behind a file:// reference.
func (s *ImageStore) LoadImage(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := refToPath(ref)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image file: %w", err)
	}
	return data, nil
}

// DeleteImage removes the file behind a reference. A missing file is fine.
func (s *ImageStore) DeleteImage(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := refToPath(ref)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing image file: %w", err)
	}
	return nil
}

// refToPath resolves a reference to a filesystem path. Both file:// URIs and
// plain paths are accepted.
func refToPath(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("image reference is empty")
	}

	if strings.HasPrefix(ref, "file://") {
		u, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("parsing image reference %q: %w", ref, err)
		}
		return u.Path, nil
	}
	return ref, nil
}
