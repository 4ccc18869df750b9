package sqlite

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/scandoc-cli/internal/core/domain"
	"github.com/custodia-labs/scandoc-cli/internal/logger"
)

// notifier fans mutation events out to observers. Each subscriber gets a
// buffered signal channel; a slow subscriber coalesces pending signals
// instead of blocking the mutating call.
type notifier struct {
	mu   sync.Mutex
	subs map[int]chan int64
	next int
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[int]chan int64)}
}

// subscribe registers a new observer and returns its id and signal channel.
func (n *notifier) subscribe() (int, chan int64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++
	ch := make(chan int64, 1)
	n.subs[id] = ch
	return id, ch
}

// unsubscribe removes an observer.
func (n *notifier) unsubscribe(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subs, id)
}

// publish signals every observer that the given document changed.
func (n *notifier) publish(documentID int64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs {
		select {
		case ch <- documentID:
		default:
			// Signal already pending; the observer will requery anyway.
		}
	}
}

// observe runs the subscribe-emit-requery loop shared by all Observe methods.
// It emits the current snapshot immediately, then re-emits after every
// mutation that passes the relevant filter. Snapshots that fail to load are
// skipped rather than emitted. The returned channel closes when ctx is done.
func observe[T any](
	ctx context.Context,
	n *notifier,
	relevant func(documentID int64) bool,
	query func(context.Context) (T, bool),
) <-chan T {
	out := make(chan T, 1)
	subID, signal := n.subscribe()

	go func() {
		defer close(out)
		defer n.unsubscribe(subID)

		emit := func() {
			snapshot, ok := query(ctx)
			if !ok {
				return
			}
			select {
			case out <- snapshot:
			case <-ctx.Done():
			}
		}

		emit()

		for {
			select {
			case <-ctx.Done():
				return
			case changed := <-signal:
				if relevant(changed) {
					emit()
				}
			}
		}
	}()

	return out
}

// anyDocument accepts every mutation; used by list and search observers.
func anyDocument(int64) bool { return true }

// onlyDocument restricts an observer to mutations of a single document.
func onlyDocument(id int64) func(int64) bool {
	return func(changed int64) bool { return changed == id }
}

// ObserveDocument streams the document's state: the current snapshot
// immediately, then again after every mutation of that id. A nil element
// means the document does not exist.
func (s *Store) ObserveDocument(ctx context.Context, id int64) <-chan *domain.Document {
	return observe(ctx, s.notifier, onlyDocument(id), func(ctx context.Context) (*domain.Document, bool) {
		doc, err := s.GetDocument(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, true
			}
			logger.Warn("observe document %d: %v", id, err)
			return nil, false
		}
		return doc, true
	})
}

// ObserveDocumentWithImages is ObserveDocument including the image set.
func (s *Store) ObserveDocumentWithImages(ctx context.Context, id int64) <-chan *domain.DocumentWithImages {
	return observe(ctx, s.notifier, onlyDocument(id), func(ctx context.Context) (*domain.DocumentWithImages, bool) {
		doc, err := s.GetDocumentWithImages(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, true
			}
			logger.Warn("observe document %d with images: %v", id, err)
			return nil, false
		}
		return doc, true
	})
}

// ObserveList streams ListAll results, re-emitting after every mutation.
func (s *Store) ObserveList(ctx context.Context) <-chan []domain.DocumentListItem {
	return observe(ctx, s.notifier, anyDocument, func(ctx context.Context) ([]domain.DocumentListItem, bool) {
		items, err := s.ListAll(ctx)
		if err != nil {
			logger.Warn("observe list: %v", err)
			return nil, false
		}
		return items, true
	})
}

// ObserveSearch streams Search results, re-emitting after every mutation.
func (s *Store) ObserveSearch(ctx context.Context, query string) <-chan []domain.DocumentListItem {
	return observe(ctx, s.notifier, anyDocument, func(ctx context.Context) ([]domain.DocumentListItem, bool) {
		items, err := s.Search(ctx, query)
		if err != nil {
			logger.Warn("observe search %q: %v", query, err)
			return nil, false
		}
		return items, true
	})
}
