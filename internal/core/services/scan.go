package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/scandoc-cli/internal/core/domain"
	"github.com/custodia-labs/scandoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scandoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scandoc-cli/internal/logger"
)

// Ensure ScanService implements the interface.
var _ driving.ScanService = (*ScanService)(nil)

// Thumbnailer renders a small preview from full image bytes. Optional; when
// absent, saved documents simply carry no thumbnail.
type Thumbnailer func(data []byte) ([]byte, error)

// ScanService coordinates OCR text and stored documents into summarisation
// runs and tracks the observable preview/loading/error state.
//
// Runs are serialised per document id: a second StartSummaryFor while one is
// in flight returns domain.ErrSummaryInFlight instead of issuing duplicate
// remote calls.
type ScanService struct {
	store      driven.DocumentStore
	images     driven.ImageStore
	summarizer driving.SummarizerService
	thumbnail  Thumbnailer

	mu       sync.Mutex
	state    driving.ScanState
	inFlight map[int64]struct{}
	subs     map[int]chan driving.ScanState
	nextSub  int
}

// NewScanService creates a scan lifecycle controller.
func NewScanService(
	store driven.DocumentStore,
	images driven.ImageStore,
	summarizer driving.SummarizerService,
	thumbnail Thumbnailer,
) *ScanService {
	return &ScanService{
		store:      store,
		images:     images,
		summarizer: summarizer,
		thumbnail:  thumbnail,
		inFlight:   make(map[int64]struct{}),
		subs:       make(map[int]chan driving.ScanState),
	}
}

// AddFromOCR summarises freshly captured text and prepends the result to the
// preview list. Nothing is persisted until ConfirmSave.
func (s *ScanService) AddFromOCR(ctx context.Context, text string, bulletCount int) error {
	s.setLoading(true)
	defer s.setLoading(false)

	raw := s.summarizer.Summarize(ctx, text, bulletCount)
	if err := ctx.Err(); err != nil {
		s.setError(err.Error())
		return err
	}

	title, body := ExtractTitleAndSummary(raw)
	preview := domain.Preview{
		Title:      title,
		SourceText: text,
		Summary:    body,
		CreatedAt:  time.Now().UTC(),
	}

	s.mu.Lock()
	s.state.Previews = append([]domain.Preview{preview}, s.state.Previews...)
	s.broadcastLocked()
	s.mu.Unlock()

	logger.Debug("added preview %q from OCR text (%d chars)", title, len(text))
	return nil
}

// IngestText persists raw text directly as a PENDING document.
func (s *ScanService) IngestText(ctx context.Context, title, text string) (int64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, fmt.Errorf("source text is blank: %w", domain.ErrInvalidInput)
	}
	if title == "" {
		title = "Untitled"
	}

	id, err := s.store.Insert(ctx, title, text)
	if err != nil {
		err = fmt.Errorf("saving document: %w", err)
		s.setError(err.Error())
		return 0, err
	}

	logger.Debug("ingested document %d %q (%d chars)", id, title, len(text))
	return id, nil
}

// StartSummaryFor summarises a stored document's source text and writes the
// outcome back: READY with the extracted summary body on success, ERROR with
// the failure message otherwise. Re-running on a READY or ERROR document
// repeats the whole pipeline, so this is also the retry entry point.
func (s *ScanService) StartSummaryFor(ctx context.Context, documentID int64, bulletCount int) error {
	if !s.markInFlight(documentID) {
		logger.Debug("summary already in flight for document %d", documentID)
		return domain.ErrSummaryInFlight
	}
	defer s.clearInFlight(documentID)

	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		err = fmt.Errorf("loading document %d: %w", documentID, err)
		s.setError(err.Error())
		return err
	}

	raw := s.summarizer.Summarize(ctx, doc.SourceText, bulletCount)
	if err := ctx.Err(); err != nil {
		// Cancelled mid-run: leave the stored row untouched.
		s.setError(err.Error())
		return err
	}

	_, body := ExtractTitleAndSummary(raw)
	if err := s.store.UpdateSummary(ctx, documentID, body, domain.StatusReady, time.Now().UTC()); err != nil {
		err = fmt.Errorf("storing summary for document %d: %w", documentID, err)
		s.writeErrorStatus(documentID, err)
		s.setError(err.Error())
		return err
	}

	logger.Debug("document %d summarised, status READY", documentID)
	return nil
}

// RetrySummary re-runs the pipeline for a document.
func (s *ScanService) RetrySummary(ctx context.Context, documentID int64, bulletCount int) error {
	return s.StartSummaryFor(ctx, documentID, bulletCount)
}

// ConfirmSave persists the newest preview with its cover image and returns
// the assigned document id. The preview stays in place if anything fails
// before the insert; failures after it surface loudly instead of being
// papered over.
func (s *ScanService) ConfirmSave(ctx context.Context, imageRef string) (int64, error) {
	s.mu.Lock()
	if len(s.state.Previews) == 0 {
		s.mu.Unlock()
		s.setError("Nothing to save.")
		return 0, domain.ErrNothingToSave
	}
	preview := s.state.Previews[0]
	s.mu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)

	data, err := s.images.LoadImage(ctx, imageRef)
	if err != nil {
		err = fmt.Errorf("loading scan image: %w", err)
		s.setError(err.Error())
		return 0, err
	}

	// Copy the capture into managed storage so the document's cover outlives
	// the scanner's temporary file.
	ref, err := s.images.SaveImage(ctx, data)
	if err != nil {
		err = fmt.Errorf("saving scan image: %w", err)
		s.setError(err.Error())
		return 0, err
	}

	var thumb []byte
	if s.thumbnail != nil {
		if thumb, err = s.thumbnail(data); err != nil {
			logger.Warn("thumbnail generation failed: %v", err)
			thumb = nil
		}
	}

	title := preview.Title
	if title == "" {
		title = "Untitled"
	}

	id, err := s.store.Insert(ctx, title, preview.SourceText)
	if err != nil {
		err = fmt.Errorf("saving document: %w", err)
		s.setError(err.Error())
		return 0, err
	}

	if err := s.store.AttachImages(ctx, id, []domain.DocumentImage{
		{Position: 0, ImageURI: ref, Thumbnail: thumb},
	}); err != nil {
		err = fmt.Errorf("attaching image to document %d: %w", id, err)
		s.setError(err.Error())
		return 0, err
	}

	if err := s.store.UpdateSummary(ctx, id, preview.Summary, domain.StatusReady, time.Now().UTC()); err != nil {
		err = fmt.Errorf("storing summary for document %d: %w", id, err)
		s.setError(err.Error())
		return 0, err
	}

	s.mu.Lock()
	if len(s.state.Previews) > 0 && s.state.Previews[0] == preview {
		s.state.Previews = s.state.Previews[1:]
	}
	s.broadcastLocked()
	s.mu.Unlock()

	logger.Info("saved document %d %q", id, title)
	return id, nil
}

// State returns a snapshot of the controller state.
func (s *ScanService) State() driving.ScanState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe streams state snapshots: one immediately, then one after every
// change. The channel closes when ctx is done.
func (s *ScanService) Subscribe(ctx context.Context) <-chan driving.ScanState {
	out := make(chan driving.ScanState, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = out
	out <- s.snapshotLocked()
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
		close(out)
	}()

	return out
}

// markInFlight records a running summarisation. Returns false if one is
// already running for the document.
func (s *ScanService) markInFlight(documentID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, running := s.inFlight[documentID]; running {
		return false
	}
	s.inFlight[documentID] = struct{}{}
	s.state.Loading = true
	s.broadcastLocked()
	return true
}

// clearInFlight removes the running marker and drops the loading flag when
// no runs remain.
func (s *ScanService) clearInFlight(documentID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inFlight, documentID)
	s.state.Loading = len(s.inFlight) > 0
	s.broadcastLocked()
}

// writeErrorStatus marks the document ERROR with the failure message.
// Best effort: if even this write fails, the error survives only as the
// in-memory error signal.
func (s *ScanService) writeErrorStatus(documentID int64, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.store.UpdateSummary(ctx, documentID, cause.Error(), domain.StatusError, time.Now().UTC()); err != nil {
		logger.Warn("recording ERROR status for document %d: %v", documentID, err)
	}
}

func (s *ScanService) setLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if loading {
		s.state.Loading = true
	} else {
		s.state.Loading = len(s.inFlight) > 0
	}
	s.broadcastLocked()
}

func (s *ScanService) setError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Err = msg
	s.broadcastLocked()
}

// snapshotLocked copies the state so subscribers never share the preview
// slice with the service. Caller must hold mu.
func (s *ScanService) snapshotLocked() driving.ScanState {
	snapshot := s.state
	snapshot.Previews = append([]domain.Preview(nil), s.state.Previews...)
	return snapshot
}

// broadcastLocked pushes the current state to every subscriber, replacing a
// pending unread snapshot rather than blocking. Caller must hold mu.
func (s *ScanService) broadcastLocked() {
	snapshot := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}
