package driving

import (
	"context"

	"github.com/custodia-labs/scandoc-cli/internal/core/domain"
)

// LibraryService exposes the saved-document collection to consumers:
// listing, searching, inspection, and deletion.
type LibraryService interface {
	// List returns all documents with cover images, newest first.
	List(ctx context.Context) ([]domain.DocumentListItem, error)

	// Search runs a prefix-match full-text query. Empty query lists all.
	Search(ctx context.Context, query string) ([]domain.DocumentListItem, error)

	// Get retrieves a single document.
	Get(ctx context.Context, id int64) (*domain.Document, error)

	// GetWithImages retrieves a document and its page images.
	GetWithImages(ctx context.Context, id int64) (*domain.DocumentWithImages, error)

	// Delete removes a document, its images, and its search index entry.
	Delete(ctx context.Context, id int64) error

	// ObserveList streams List results, re-emitting after every mutation.
	ObserveList(ctx context.Context) <-chan []domain.DocumentListItem

	// ObserveSearch streams Search results, re-emitting after every mutation.
	ObserveSearch(ctx context.Context, query string) <-chan []domain.DocumentListItem
}
