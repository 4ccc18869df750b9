package driving

import (
	"context"

	"github.com/custodia-labs/scandoc-cli/internal/core/domain"
)

// ScanState is the observable state of the scan lifecycle controller.
type ScanState struct {
	// Previews holds unsaved documents, most recent first.
	Previews []domain.Preview

	// Loading is true while a summarisation run is in progress.
	Loading bool

	// Err holds the last surfaced error message, empty when none.
	Err string
}

// ScanService coordinates OCR text and stored documents into summarisation
// runs, and tracks the preview/loading/error state consumers observe.
type ScanService interface {
	// AddFromOCR summarises freshly captured text and prepends the result
	// to the preview list. The preview is not persisted until ConfirmSave.
	AddFromOCR(ctx context.Context, text string, bulletCount int) error

	// IngestText persists raw text directly as a PENDING document, without
	// a preview or an image. Used for file and watch-directory ingestion.
	IngestText(ctx context.Context, title, text string) (int64, error)

	// StartSummaryFor summarises a stored document's source text and writes
	// the outcome back: READY with the summary body on success, ERROR with
	// the failure message otherwise. Calling it again on a READY or ERROR
	// document re-runs the whole pipeline, so it doubles as the retry entry
	// point. A call for a document that already has a run in flight returns
	// domain.ErrSummaryInFlight and does nothing.
	StartSummaryFor(ctx context.Context, documentID int64, bulletCount int) error

	// RetrySummary re-runs the pipeline for a document. Alias for
	// StartSummaryFor, kept for call-site clarity.
	RetrySummary(ctx context.Context, documentID int64, bulletCount int) error

	// ConfirmSave persists the newest preview together with its cover image
	// and reports the assigned document id. Fails without mutating the
	// store when there is no preview or the image cannot be loaded.
	ConfirmSave(ctx context.Context, imageRef string) (int64, error)

	// State returns a snapshot of the controller state.
	State() ScanState

	// Subscribe streams state snapshots: one immediately, then one after
	// every change. The channel closes when ctx is done.
	Subscribe(ctx context.Context) <-chan ScanState
}
