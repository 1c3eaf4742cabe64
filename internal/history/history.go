// Package history records recently viewed items in recency order.
package history

import (
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Tracker keeps one entry per identity, ordered from least to most recently
// recorded. Recording an item already present moves it to the most recent
// position instead of duplicating it.
type Tracker[T any] struct {
	mu      sync.Mutex
	entries *orderedmap.OrderedMap[int64, T]
	key     func(T) int64
	limit   int
}

// New creates a Tracker. key extracts the identity used for deduplication.
// A limit of 0 means unbounded; otherwise the oldest entries are evicted.
func New[T any](limit int, key func(T) int64) *Tracker[T] {
	return &Tracker[T]{
		entries: orderedmap.New[int64, T](),
		key:     key,
		limit:   limit,
	}
}

// Record marks item as the most recently viewed.
func (h *Tracker[T]) Record(item T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.key(item)
	h.entries.Delete(id)
	h.entries.Set(id, item)

	for h.limit > 0 && h.entries.Len() > h.limit {
		h.entries.Delete(h.entries.Oldest().Key)
	}
}

// Update replaces the stored copy of item without changing its position.
// Items never recorded are ignored.
func (h *Tracker[T]) Update(item T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.key(item)
	if _, ok := h.entries.Get(id); ok {
		h.entries.Set(id, item)
	}
}

// Remove drops item. Removing an absent item is a no-op.
func (h *Tracker[T]) Remove(item T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries.Delete(h.key(item))
}

// List returns the entries with the most recently recorded last.
func (h *Tracker[T]) List() []T {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]T, 0, h.entries.Len())
	for pair := h.entries.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Len returns the number of tracked entries.
func (h *Tracker[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries.Len()
}
