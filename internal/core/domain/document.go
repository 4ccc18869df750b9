package domain

import "time"

// SummaryStatus tracks where a document is in its summarisation lifecycle.
type SummaryStatus string

const (
	// StatusPending means no summarisation has completed since the last mutation.
	StatusPending SummaryStatus = "PENDING"

	// StatusReady means SummaryText holds the last successful summary.
	StatusReady SummaryStatus = "READY"

	// StatusError means the last summarisation attempt failed. SummaryText is
	// either empty or a human-readable failure note, never a stale partial result.
	StatusError SummaryStatus = "ERROR"
)

// Valid reports whether s is one of the known lifecycle states.
func (s SummaryStatus) Valid() bool {
	switch s {
	case StatusPending, StatusReady, StatusError:
		return true
	}
	return false
}

// Document is a scanned document with its OCR text and AI summary.
type Document struct {
	// ID is assigned by the store, monotonically increasing.
	ID int64

	// Title is derived from the summary's first line or set by the user.
	Title string

	// SourceText is the OCR-extracted text. Immutable once set.
	SourceText string

	// SummaryText is empty until a summarisation succeeds.
	SummaryText string

	// Status is the summarisation lifecycle state.
	Status SummaryStatus

	// CreatedAt is when the document was first saved.
	CreatedAt time.Time

	// UpdatedAt is bumped on every mutation. Never before CreatedAt.
	UpdatedAt time.Time
}

// DocumentImage is one captured page image attached to a document.
// Position 0 is the cover.
type DocumentImage struct {
	ImageID    int64
	DocumentID int64

	// Position orders the images within a document. Unique per document.
	Position int

	// ImageURI is an opaque reference to the stored image bytes.
	ImageURI string

	// Thumbnail is an optional small pre-rendered preview.
	Thumbnail []byte
}

// DocumentWithImages pairs a document with all of its images, in position order.
type DocumentWithImages struct {
	Document Document
	Images   []DocumentImage
}

// DocumentListItem is a document row decorated with its cover image,
// as returned by list and search queries.
type DocumentListItem struct {
	Document Document

	// CoverURI is the position-0 image reference, if any.
	CoverURI string

	// CoverThumb is the position-0 thumbnail, if any.
	CoverThumb []byte
}

// Preview is an in-memory document produced from OCR text that has not been
// persisted yet. It becomes a Document when the user confirms the save.
type Preview struct {
	Title      string
	SourceText string
	Summary    string
	CreatedAt  time.Time
}
