package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scandoc-cli/internal/core/domain"
)

// summaryUpdate records one UpdateSummary call.
type summaryUpdate struct {
	id      int64
	summary string
	status  domain.SummaryStatus
}

// fakeDocStore is an in-memory DocumentStore for service tests.
type fakeDocStore struct {
	mu      sync.Mutex
	nextID  int64
	docs    map[int64]*domain.Document
	images  map[int64][]domain.DocumentImage
	updates []summaryUpdate

	insertErr error
	updateErr error
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{
		nextID: 1,
		docs:   make(map[int64]*domain.Document),
		images: make(map[int64][]domain.DocumentImage),
	}
}

func (f *fakeDocStore) Insert(_ context.Context, title, sourceText string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return 0, f.insertErr
	}
	id := f.nextID
	f.nextID++
	now := time.Now().UTC()
	f.docs[id] = &domain.Document{
		ID: id, Title: title, SourceText: sourceText,
		Status: domain.StatusPending, CreatedAt: now, UpdatedAt: now,
	}
	return id, nil
}

func (f *fakeDocStore) AttachImages(_ context.Context, documentID int64, images []domain.DocumentImage) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.docs[documentID]; !ok {
		return domain.ErrNotFound
	}
	f.images[documentID] = images
	return nil
}

func (f *fakeDocStore) UpdateSummary(_ context.Context, id int64, summary string, status domain.SummaryStatus, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return f.updateErr
	}
	doc, ok := f.docs[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.SummaryText = summary
	doc.Status = status
	doc.UpdatedAt = updatedAt
	f.updates = append(f.updates, summaryUpdate{id: id, summary: summary, status: status})
	return nil
}

func (f *fakeDocStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.docs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.docs, id)
	delete(f.images, id)
	return nil
}

func (f *fakeDocStore) GetDocument(_ context.Context, id int64) (*domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeDocStore) GetDocumentWithImages(ctx context.Context, id int64) (*domain.DocumentWithImages, error) {
	doc, err := f.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return &domain.DocumentWithImages{Document: *doc, Images: f.images[id]}, nil
}

func (f *fakeDocStore) ListAll(context.Context) ([]domain.DocumentListItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items := make([]domain.DocumentListItem, 0, len(f.docs))
	for _, doc := range f.docs {
		items = append(items, domain.DocumentListItem{Document: *doc})
	}
	return items, nil
}

func (f *fakeDocStore) Search(ctx context.Context, _ string) ([]domain.DocumentListItem, error) {
	return f.ListAll(ctx)
}

func (f *fakeDocStore) ObserveDocument(ctx context.Context, id int64) <-chan *domain.Document {
	ch := make(chan *domain.Document, 1)
	doc, err := f.GetDocument(ctx, id)
	if err == nil {
		ch <- doc
	}
	return ch
}

func (f *fakeDocStore) ObserveDocumentWithImages(ctx context.Context, id int64) <-chan *domain.DocumentWithImages {
	ch := make(chan *domain.DocumentWithImages, 1)
	doc, err := f.GetDocumentWithImages(ctx, id)
	if err == nil {
		ch <- doc
	}
	return ch
}

func (f *fakeDocStore) ObserveList(ctx context.Context) <-chan []domain.DocumentListItem {
	ch := make(chan []domain.DocumentListItem, 1)
	items, _ := f.ListAll(ctx)
	ch <- items
	return ch
}

func (f *fakeDocStore) ObserveSearch(ctx context.Context, query string) <-chan []domain.DocumentListItem {
	ch := make(chan []domain.DocumentListItem, 1)
	items, _ := f.Search(ctx, query)
	ch <- items
	return ch
}

func (f *fakeDocStore) Close() error { return nil }

// fakeImageStore keeps image blobs in a map keyed by generated refs.
type fakeImageStore struct {
	mu      sync.Mutex
	next    int
	blobs   map[string][]byte
	deleted []string
	loadErr error
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{blobs: make(map[string][]byte)}
}

func (f *fakeImageStore) put(data []byte) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	ref := fmt.Sprintf("file:///fake/%d.jpg", f.next)
	f.blobs[ref] = data
	return ref
}

func (f *fakeImageStore) SaveImage(_ context.Context, data []byte) (string, error) {
	return f.put(data), nil
}

func (f *fakeImageStore) LoadImage(_ context.Context, ref string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loadErr != nil {
		return nil, f.loadErr
	}
	data, ok := f.blobs[ref]
	if !ok {
		return nil, fmt.Errorf("no image at %q", ref)
	}
	return data, nil
}

func (f *fakeImageStore) DeleteImage(_ context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.blobs, ref)
	f.deleted = append(f.deleted, ref)
	return nil
}

// scriptedSummarizer returns canned output and records inputs.
type scriptedSummarizer struct {
	mu      sync.Mutex
	output  string
	inputs  []string
	bullets []int
	block   chan struct{} // when set, Summarize waits for it to close
}

func (s *scriptedSummarizer) Summarize(_ context.Context, sourceText string, bulletCount int) string {
	s.mu.Lock()
	s.inputs = append(s.inputs, sourceText)
	s.bullets = append(s.bullets, bulletCount)
	block := s.block
	s.mu.Unlock()

	if block != nil {
		<-block
	}
	return s.output
}

func newTestScanService(store *fakeDocStore, images *fakeImageStore, sum *scriptedSummarizer) *ScanService {
	return NewScanService(store, images, sum, nil)
}

// ==================== AddFromOCR ====================

func TestAddFromOCR_PrependsPreview(t *testing.T) {
	store := newFakeDocStore()
	images := newFakeImageStore()
	sum := &scriptedSummarizer{output: "First Title\n- bullet one"}
	svc := newTestScanService(store, images, sum)
	ctx := context.Background()

	require.NoError(t, svc.AddFromOCR(ctx, "older scan text", 6))

	sum.output = "Second Title\n- bullet two"
	require.NoError(t, svc.AddFromOCR(ctx, "newer scan text", 6))

	state := svc.State()
	require.Len(t, state.Previews, 2)
	assert.Equal(t, "Second Title", state.Previews[0].Title)
	assert.Equal(t, "- bullet two", state.Previews[0].Summary)
	assert.Equal(t, "newer scan text", state.Previews[0].SourceText)
	assert.Equal(t, "First Title", state.Previews[1].Title)
	assert.False(t, state.Loading)

	// Nothing persisted yet.
	items, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAddFromOCR_CancelledContext(t *testing.T) {
	store := newFakeDocStore()
	sum := &scriptedSummarizer{output: "irrelevant"}
	svc := newTestScanService(store, newFakeImageStore(), sum)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.AddFromOCR(ctx, "text", 6)
	assert.ErrorIs(t, err, context.Canceled)

	state := svc.State()
	assert.Empty(t, state.Previews)
	assert.NotEmpty(t, state.Err)
}

// ==================== IngestText ====================

func TestIngestText_CreatesPendingDocument(t *testing.T) {
	store := newFakeDocStore()
	svc := newTestScanService(store, newFakeImageStore(), &scriptedSummarizer{})
	ctx := context.Background()

	id, err := svc.IngestText(ctx, "Meeting notes", "notes body")
	require.NoError(t, err)

	doc, err := store.GetDocument(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Meeting notes", doc.Title)
	assert.Equal(t, domain.StatusPending, doc.Status)

	// A blank title falls back to Untitled.
	id, err = svc.IngestText(ctx, "", "body")
	require.NoError(t, err)
	doc, err = store.GetDocument(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Untitled", doc.Title)
}

func TestIngestText_RejectsBlankText(t *testing.T) {
	svc := newTestScanService(newFakeDocStore(), newFakeImageStore(), &scriptedSummarizer{})

	_, err := svc.IngestText(context.Background(), "Title", "   \n ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ==================== StartSummaryFor ====================

func TestStartSummaryFor_WritesReadyWithBody(t *testing.T) {
	store := newFakeDocStore()
	sum := &scriptedSummarizer{output: "Report Title\n- merged bullet"}
	svc := newTestScanService(store, newFakeImageStore(), sum)
	ctx := context.Background()

	id, err := store.Insert(ctx, "Report", "long source text")
	require.NoError(t, err)

	require.NoError(t, svc.StartSummaryFor(ctx, id, 6))

	doc, err := store.GetDocument(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, doc.Status)
	// The stored summary is the extracted body, not the raw title+body text.
	assert.Equal(t, "- merged bullet", doc.SummaryText)

	require.Len(t, sum.inputs, 1)
	assert.Equal(t, "long source text", sum.inputs[0])
}

func TestStartSummaryFor_NotFound(t *testing.T) {
	store := newFakeDocStore()
	sum := &scriptedSummarizer{output: "x"}
	svc := newTestScanService(store, newFakeImageStore(), sum)

	err := svc.StartSummaryFor(context.Background(), 404, 6)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, sum.inputs, "no remote call for a missing document")
	assert.NotEmpty(t, svc.State().Err)
}

func TestStartSummaryFor_StoreFailureWritesError(t *testing.T) {
	store := newFakeDocStore()
	sum := &scriptedSummarizer{output: "Title\n- body"}
	svc := newTestScanService(store, newFakeImageStore(), sum)
	ctx := context.Background()

	id, err := store.Insert(ctx, "Doc", "text")
	require.NoError(t, err)

	// First write fails, the best-effort ERROR write succeeds.
	store.updateErr = fmt.Errorf("disk full")
	err = svc.StartSummaryFor(ctx, id, 6)
	require.Error(t, err)

	store.mu.Lock()
	store.updateErr = nil
	store.mu.Unlock()

	assert.NotEmpty(t, svc.State().Err)
}

func TestStartSummaryFor_IgnoresConcurrentRun(t *testing.T) {
	store := newFakeDocStore()
	sum := &scriptedSummarizer{output: "Title\n- body", block: make(chan struct{})}
	svc := newTestScanService(store, newFakeImageStore(), sum)
	ctx := context.Background()

	id, err := store.Insert(ctx, "Doc", "text")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- svc.StartSummaryFor(ctx, id, 6)
	}()

	// Wait for the first run to reach the generator.
	require.Eventually(t, func() bool {
		sum.mu.Lock()
		defer sum.mu.Unlock()
		return len(sum.inputs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	assert.True(t, svc.State().Loading)

	err = svc.StartSummaryFor(ctx, id, 6)
	assert.ErrorIs(t, err, domain.ErrSummaryInFlight)

	close(sum.block)
	require.NoError(t, <-done)

	// Only the first run reached the generator.
	sum.mu.Lock()
	assert.Len(t, sum.inputs, 1)
	sum.mu.Unlock()
	assert.False(t, svc.State().Loading)
}

func TestStartSummaryFor_CancelledBeforeWrite(t *testing.T) {
	store := newFakeDocStore()
	sum := &scriptedSummarizer{output: "(error: context canceled)"}
	svc := newTestScanService(store, newFakeImageStore(), sum)

	id, err := store.Insert(context.Background(), "Doc", "text")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = svc.StartSummaryFor(ctx, id, 6)
	assert.ErrorIs(t, err, context.Canceled)

	// The stored row is untouched.
	doc, err := store.GetDocument(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, doc.Status)
	assert.Empty(t, doc.SummaryText)
}

func TestRetrySummary_RerunsPipeline(t *testing.T) {
	store := newFakeDocStore()
	sum := &scriptedSummarizer{output: "Title\n- second attempt"}
	svc := newTestScanService(store, newFakeImageStore(), sum)
	ctx := context.Background()

	id, err := store.Insert(ctx, "Doc", "text")
	require.NoError(t, err)
	require.NoError(t, store.UpdateSummary(ctx, id, "earlier failure", domain.StatusError, time.Now()))

	require.NoError(t, svc.RetrySummary(ctx, id, 6))

	doc, err := store.GetDocument(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, doc.Status)
	assert.Equal(t, "- second attempt", doc.SummaryText)
}

// ==================== ConfirmSave ====================

func TestConfirmSave_PersistsPreview(t *testing.T) {
	store := newFakeDocStore()
	images := newFakeImageStore()
	sum := &scriptedSummarizer{output: "Receipt\n- total 42"}
	svc := newTestScanService(store, images, sum)
	ctx := context.Background()

	require.NoError(t, svc.AddFromOCR(ctx, "receipt text", 6))
	ref := images.put([]byte{0xFF, 0xD8})

	id, err := svc.ConfirmSave(ctx, ref)
	require.NoError(t, err)
	require.Positive(t, id)

	doc, err := store.GetDocumentWithImages(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Receipt", doc.Document.Title)
	assert.Equal(t, "receipt text", doc.Document.SourceText)
	assert.Equal(t, "- total 42", doc.Document.SummaryText)
	assert.Equal(t, domain.StatusReady, doc.Document.Status)
	require.Len(t, doc.Images, 1)
	assert.Zero(t, doc.Images[0].Position)

	// The preview was consumed.
	assert.Empty(t, svc.State().Previews)
}

func TestConfirmSave_NoPreview(t *testing.T) {
	store := newFakeDocStore()
	svc := newTestScanService(store, newFakeImageStore(), &scriptedSummarizer{})

	_, err := svc.ConfirmSave(context.Background(), "file:///any.jpg")
	assert.ErrorIs(t, err, domain.ErrNothingToSave)
	assert.Equal(t, "Nothing to save.", svc.State().Err)

	items, listErr := store.ListAll(context.Background())
	require.NoError(t, listErr)
	assert.Empty(t, items, "no store mutation on missing preview")
}

func TestConfirmSave_ImageLoadFailure(t *testing.T) {
	store := newFakeDocStore()
	images := newFakeImageStore()
	sum := &scriptedSummarizer{output: "Title\n- body"}
	svc := newTestScanService(store, images, sum)
	ctx := context.Background()

	require.NoError(t, svc.AddFromOCR(ctx, "text", 6))
	images.loadErr = fmt.Errorf("unreadable")

	_, err := svc.ConfirmSave(ctx, "file:///broken.jpg")
	require.Error(t, err)
	assert.NotEmpty(t, svc.State().Err)

	// The preview survives for another attempt.
	assert.Len(t, svc.State().Previews, 1)

	items, listErr := store.ListAll(ctx)
	require.NoError(t, listErr)
	assert.Empty(t, items)
}

// ==================== Subscribe ====================

func TestSubscribe_EmitsSnapshotThenChanges(t *testing.T) {
	store := newFakeDocStore()
	sum := &scriptedSummarizer{output: "Title\n- body"}
	svc := newTestScanService(store, newFakeImageStore(), sum)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := svc.Subscribe(ctx)

	state := receiveSnapshot(t, ch)
	assert.Empty(t, state.Previews)

	require.NoError(t, svc.AddFromOCR(context.Background(), "text", 6))

	// The latest snapshot carries the new preview. Intermediate loading
	// states may have been coalesced away.
	require.Eventually(t, func() bool {
		select {
		case state = <-ch:
			return len(state.Previews) == 1
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "Title", state.Previews[0].Title)
}

func TestSubscribe_ClosesOnCancel(t *testing.T) {
	svc := newTestScanService(newFakeDocStore(), newFakeImageStore(), &scriptedSummarizer{})
	ctx, cancel := context.WithCancel(context.Background())

	ch := svc.Subscribe(ctx)
	receiveSnapshot(t, ch)
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

// receiveSnapshot waits for the next emission on ch.
func receiveSnapshot[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for emission")
		panic("unreachable")
	}
}
