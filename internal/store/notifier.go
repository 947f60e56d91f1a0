package store

import (
	"sync"

	"github.com/veldt-io/binstock/internal/models"
)

// Notifier fans full item snapshots out to subscribers. It deliberately
// knows nothing about what consumes the snapshots; the websocket hub is
// one subscriber, a test can be another.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]func([]models.Item)
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func([]models.Item))}
}

// Subscribe registers a callback and returns its unsubscribe handle.
// After the handle runs, no further snapshots are delivered.
func (n *Notifier) Subscribe(fn func([]models.Item)) func() {
	n.mu.Lock()
	id := n.next
	n.next++
	n.subs[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

// HasSubscribers reports whether anyone is listening, so callers can
// skip building a snapshot nobody wants.
func (n *Notifier) HasSubscribers() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs) > 0
}

// Publish delivers the snapshot to every current subscriber. Callbacks
// run outside the lock so a subscriber may unsubscribe from within one.
func (n *Notifier) Publish(items []models.Item) {
	n.mu.Lock()
	fns := make([]func([]models.Item), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(items)
	}
}
