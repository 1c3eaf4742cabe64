package events

import (
	"testing"
	"time"
)

func TestTypedEvent_TaskCreated(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	payload := TaskCreatedPayload{ItemPayload{ID: 7, Kind: "subtask", Title: "write docs", Status: "NEW", EpicID: 3, StartTime: &start}}
	evt := NewTypedEvent(SourceManager, payload)

	if evt.Type != EventTaskCreated {
		t.Fatalf("expected type %q, got %q", EventTaskCreated, evt.Type)
	}
	got, ok := ExtractPayload[TaskCreatedPayload](evt)
	if !ok {
		t.Fatal("ExtractPayload returned false")
	}
	if got.ID != 7 || got.EpicID != 3 {
		t.Fatalf("expected id 7 epic 3, got id %d epic %d", got.ID, got.EpicID)
	}
	if got.StartTime == nil || !got.StartTime.Equal(start) {
		t.Fatalf("expected start %v, got %v", start, got.StartTime)
	}
}

func TestTypedEvent_TaskRejected(t *testing.T) {
	evt := NewTypedEventWithBoard(SourceManager, TaskRejectedPayload{Op: "create", Kind: "task", Reason: "overlap"}, "b1")

	if evt.BoardID != "b1" {
		t.Fatalf("expected board b1, got %q", evt.BoardID)
	}
	got, ok := ExtractPayload[TaskRejectedPayload](evt)
	if !ok {
		t.Fatal("ExtractPayload returned false")
	}
	if got.Reason != "overlap" || got.Op != "create" {
		t.Fatalf("unexpected payload %+v", got)
	}
}

func TestExtractPayload_WrongType(t *testing.T) {
	evt := NewTypedEvent(SourceManager, EpicRolledUpPayload{EpicID: 1, Status: "DONE"})
	if _, ok := ExtractPayload[TaskDeletedPayload](evt); ok {
		t.Fatal("expected false for mismatched payload type")
	}
	got, ok := ExtractPayload[EpicRolledUpPayload](evt)
	if !ok || got.Status != "DONE" {
		t.Fatalf("expected DONE rollup, got %+v (ok=%v)", got, ok)
	}
}
