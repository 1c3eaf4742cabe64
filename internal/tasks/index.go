package tasks

import "sort"

// PrioritizedIndex keeps timed items sorted by start time. Items without a
// start time sort after every timed item, in insertion order.
type PrioritizedIndex struct {
	items []Item
}

// NewPrioritizedIndex creates an empty index.
func NewPrioritizedIndex() *PrioritizedIndex {
	return &PrioritizedIndex{}
}

// Upsert inserts item in sorted position, replacing any entry with the same ID.
func (idx *PrioritizedIndex) Upsert(item Item) {
	idx.Remove(item.ItemID())

	w, timed := item.Window()
	pos := len(idx.items)
	if timed {
		// first entry that must come after item: untimed, or starting strictly later
		pos = sort.Search(len(idx.items), func(i int) bool {
			ow, ok := idx.items[i].Window()
			return !ok || ow.Start.After(w.Start)
		})
	}

	idx.items = append(idx.items, nil)
	copy(idx.items[pos+1:], idx.items[pos:])
	idx.items[pos] = item
}

// Remove drops the entry with the given ID. Missing IDs are ignored.
func (idx *PrioritizedIndex) Remove(id int64) {
	for i, it := range idx.items {
		if it.ItemID() == id {
			idx.items = append(idx.items[:i], idx.items[i+1:]...)
			return
		}
	}
}

// Contains reports whether an entry with the given ID is indexed.
func (idx *PrioritizedIndex) Contains(id int64) bool {
	for _, it := range idx.items {
		if it.ItemID() == id {
			return true
		}
	}
	return false
}

// Snapshot returns the entries in order. The slice is a copy; the items are not.
func (idx *PrioritizedIndex) Snapshot() []Item {
	out := make([]Item, len(idx.items))
	copy(out, idx.items)
	return out
}

// Len returns the number of indexed entries.
func (idx *PrioritizedIndex) Len() int {
	return len(idx.items)
}
