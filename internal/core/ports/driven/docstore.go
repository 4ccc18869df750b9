package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/scandoc-cli/internal/core/domain"
)

// DocumentStore persists documents, their page images, and the derived
// full-text index. It is the single writer of that state: every mutation goes
// through one of these operations, and each mutating operation leaves the
// index consistent with the row it just wrote before returning.
//
// Backed by SQLite with an FTS5 index.
type DocumentStore interface {
	// Insert creates a document with status PENDING and an empty summary,
	// and returns the assigned id.
	Insert(ctx context.Context, title, sourceText string) (int64, error)

	// AttachImages replaces all images of a document with the given set.
	// Duplicate positions within the set are rejected.
	AttachImages(ctx context.Context, documentID int64, images []domain.DocumentImage) error

	// UpdateSummary atomically writes summary text, status, and updatedAt,
	// reindexing the document in the same transaction.
	UpdateSummary(ctx context.Context, id int64, summary string, status domain.SummaryStatus, updatedAt time.Time) error

	// Delete removes the document, its images, and its index entry.
	// All three complete or none do.
	Delete(ctx context.Context, id int64) error

	// GetDocument retrieves a document by id.
	GetDocument(ctx context.Context, id int64) (*domain.Document, error)

	// GetDocumentWithImages retrieves a document and its images, position order.
	GetDocumentWithImages(ctx context.Context, id int64) (*domain.DocumentWithImages, error)

	// ListAll returns every document with its cover image, newest first.
	ListAll(ctx context.Context) ([]domain.DocumentListItem, error)

	// Search runs a prefix-match boolean-AND full-text query over title,
	// source text, and summary. An empty query matches everything. Results
	// are shaped and ordered like ListAll.
	Search(ctx context.Context, query string) ([]domain.DocumentListItem, error)

	// ObserveDocument streams the document's state: the current snapshot
	// immediately, then again after every mutation affecting the id.
	// A nil element means the document does not exist. The channel closes
	// when ctx is done.
	ObserveDocument(ctx context.Context, id int64) <-chan *domain.Document

	// ObserveDocumentWithImages is ObserveDocument including the image set.
	ObserveDocumentWithImages(ctx context.Context, id int64) <-chan *domain.DocumentWithImages

	// ObserveList streams ListAll results, re-emitting after every mutation.
	ObserveList(ctx context.Context) <-chan []domain.DocumentListItem

	// ObserveSearch streams Search results, re-emitting after every mutation.
	ObserveSearch(ctx context.Context, query string) <-chan []domain.DocumentListItem

	// Close releases the underlying storage.
	Close() error
}
