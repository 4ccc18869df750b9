package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scandoc-cli/internal/core/domain"
)

// fakeLibrary serves a fixed set of documents.
type fakeLibrary struct {
	docs       map[int64]domain.Document
	lastQuery  string
	listCalled bool
}

func newFakeLibrary(docs ...domain.Document) *fakeLibrary {
	f := &fakeLibrary{docs: make(map[int64]domain.Document)}
	for _, doc := range docs {
		f.docs[doc.ID] = doc
	}
	return f
}

func (f *fakeLibrary) items() []domain.DocumentListItem {
	items := make([]domain.DocumentListItem, 0, len(f.docs))
	for _, doc := range f.docs {
		items = append(items, domain.DocumentListItem{Document: doc})
	}
	return items
}

func (f *fakeLibrary) List(context.Context) ([]domain.DocumentListItem, error) {
	f.listCalled = true
	return f.items(), nil
}

func (f *fakeLibrary) Search(_ context.Context, query string) ([]domain.DocumentListItem, error) {
	f.lastQuery = query
	return f.items(), nil
}

func (f *fakeLibrary) Get(_ context.Context, id int64) (*domain.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (f *fakeLibrary) GetWithImages(_ context.Context, id int64) (*domain.DocumentWithImages, error) {
	doc, err := f.Get(context.Background(), id)
	if err != nil {
		return nil, err
	}
	return &domain.DocumentWithImages{Document: *doc}, nil
}

func (f *fakeLibrary) Delete(_ context.Context, id int64) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeLibrary) ObserveList(context.Context) <-chan []domain.DocumentListItem {
	ch := make(chan []domain.DocumentListItem, 1)
	ch <- f.items()
	return ch
}

func (f *fakeLibrary) ObserveSearch(context.Context, string) <-chan []domain.DocumentListItem {
	ch := make(chan []domain.DocumentListItem, 1)
	ch <- f.items()
	return ch
}

func testDocument(id int64, title string) domain.Document {
	return domain.Document{
		ID:          id,
		Title:       title,
		SourceText:  "source of " + title,
		SummaryText: "- summary of " + title,
		Status:      domain.StatusReady,
		CreatedAt:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewServer_RequiresLibrary(t *testing.T) {
	_, err := NewServer(&Ports{})
	assert.ErrorIs(t, err, ErrMissingLibraryService)

	server, err := NewServer(&Ports{Library: newFakeLibrary()})
	require.NoError(t, err)
	assert.NotNil(t, server)
}

func TestHandleSearch(t *testing.T) {
	lib := newFakeLibrary(testDocument(1, "Invoice March"))
	server, err := NewServer(&Ports{Library: lib})
	require.NoError(t, err)

	_, output, err := server.handleSearch(context.Background(), nil, SearchInput{Query: "invoice"})
	require.NoError(t, err)

	assert.Equal(t, "invoice", lib.lastQuery)
	assert.Equal(t, 1, output.Count)
	require.Len(t, output.Results, 1)
	assert.Equal(t, int64(1), output.Results[0].ID)
	assert.Equal(t, "Invoice March", output.Results[0].Title)
	assert.Equal(t, "READY", output.Results[0].Status)
}

func TestHandleGetDocument(t *testing.T) {
	lib := newFakeLibrary(testDocument(7, "Report"))
	server, err := NewServer(&Ports{Library: lib})
	require.NoError(t, err)

	_, output, err := server.handleGetDocument(context.Background(), nil, GetDocumentInput{ID: 7})
	require.NoError(t, err)
	assert.Equal(t, "Report", output.Title)
	assert.Equal(t, "source of Report", output.SourceText)

	_, _, err = server.handleGetDocument(context.Background(), nil, GetDocumentInput{ID: 99})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExtractDocumentID(t *testing.T) {
	assert.Equal(t, int64(42), extractDocumentID("scandoc://documents/42"))
	assert.Zero(t, extractDocumentID("scandoc://documents/abc"))
	assert.Zero(t, extractDocumentID("scandoc://documents/-1"))
	assert.Zero(t, extractDocumentID("other://documents/42"))
	assert.Zero(t, extractDocumentID("scandoc://documents/"))
}
