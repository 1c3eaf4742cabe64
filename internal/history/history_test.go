package history

import (
	"reflect"
	"testing"
)

type entry struct {
	id    int64
	label string
}

func newTestTracker(limit int) *Tracker[entry] {
	return New(limit, func(e entry) int64 { return e.id })
}

func ids(list []entry) []int64 {
	out := make([]int64, 0, len(list))
	for _, e := range list {
		out = append(out, e.id)
	}
	return out
}

func TestRecordOrder(t *testing.T) {
	h := newTestTracker(0)
	h.Record(entry{id: 1})
	h.Record(entry{id: 2})
	h.Record(entry{id: 3})

	got := ids(h.List())
	want := []int64{1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRecordMovesExistingToBack(t *testing.T) {
	h := newTestTracker(0)
	h.Record(entry{id: 1})
	h.Record(entry{id: 2})
	h.Record(entry{id: 1})

	got := ids(h.List())
	want := []int64{2, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if h.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", h.Len())
	}
}

func TestRemove(t *testing.T) {
	h := newTestTracker(0)
	h.Record(entry{id: 1})
	h.Record(entry{id: 2})

	h.Remove(entry{id: 1})
	h.Remove(entry{id: 42}) // absent: no-op

	got := ids(h.List())
	want := []int64{2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestUpdateKeepsPosition(t *testing.T) {
	h := newTestTracker(0)
	h.Record(entry{id: 1, label: "old"})
	h.Record(entry{id: 2})

	h.Update(entry{id: 1, label: "new"})
	h.Update(entry{id: 3, label: "never recorded"})

	list := h.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(list))
	}
	if list[0].id != 1 || list[0].label != "new" {
		t.Errorf("expected refreshed entry 1 first, got %+v", list[0])
	}
}

func TestLimitEvictsOldest(t *testing.T) {
	h := newTestTracker(2)
	h.Record(entry{id: 1})
	h.Record(entry{id: 2})
	h.Record(entry{id: 3})

	got := ids(h.List())
	want := []int64{2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
