package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/scandoc-cli/internal/core/domain"
	"github.com/custodia-labs/scandoc-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scandoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scandoc-cli/internal/logger"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// LibraryService exposes the saved-document collection. It delegates
// persistence and index consistency entirely to the document store and adds
// image-file cleanup on deletion.
type LibraryService struct {
	store  driven.DocumentStore
	images driven.ImageStore
}

// NewLibraryService creates a library service over the given stores.
func NewLibraryService(store driven.DocumentStore, images driven.ImageStore) *LibraryService {
	return &LibraryService{
		store:  store,
		images: images,
	}
}

// List returns all documents with cover images, newest first.
func (s *LibraryService) List(ctx context.Context) ([]domain.DocumentListItem, error) {
	return s.store.ListAll(ctx)
}

// Search runs a prefix-match full-text query. An empty query lists all.
func (s *LibraryService) Search(ctx context.Context, query string) ([]domain.DocumentListItem, error) {
	return s.store.Search(ctx, query)
}

// Get retrieves a single document.
func (s *LibraryService) Get(ctx context.Context, id int64) (*domain.Document, error) {
	return s.store.GetDocument(ctx, id)
}

// GetWithImages retrieves a document and its page images.
func (s *LibraryService) GetWithImages(ctx context.Context, id int64) (*domain.DocumentWithImages, error) {
	return s.store.GetDocumentWithImages(ctx, id)
}

// Delete removes a document, its images, and its search index entry. Image
// files are cleaned up best effort after the store delete succeeds.
func (s *LibraryService) Delete(ctx context.Context, id int64) error {
	doc, err := s.store.GetDocumentWithImages(ctx, id)
	if err != nil {
		return fmt.Errorf("loading document %d: %w", id, err)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting document %d: %w", id, err)
	}

	for _, img := range doc.Images {
		if err := s.images.DeleteImage(ctx, img.ImageURI); err != nil {
			logger.Warn("removing image %q of deleted document %d: %v", img.ImageURI, id, err)
		}
	}

	logger.Info("deleted document %d %q", id, doc.Document.Title)
	return nil
}

// ObserveList streams List results, re-emitting after every mutation.
func (s *LibraryService) ObserveList(ctx context.Context) <-chan []domain.DocumentListItem {
	return s.store.ObserveList(ctx)
}

// ObserveSearch streams Search results, re-emitting after every mutation.
func (s *LibraryService) ObserveSearch(ctx context.Context, query string) <-chan []domain.DocumentListItem {
	return s.store.ObserveSearch(ctx, query)
}
