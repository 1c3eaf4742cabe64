package events

import (
	"encoding/json"
	"time"
)

// EventPayload is the interface all typed payloads implement.
type EventPayload interface {
	EventType() EventType
}

// =============================================================================
// ITEM LIFECYCLE
// =============================================================================

// ItemPayload describes a task, epic or subtask after a mutation.
type ItemPayload struct {
	ID        int64      `json:"id"`
	Kind      string     `json:"kind"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	EpicID    int64      `json:"epic_id,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"`
}

type TaskCreatedPayload struct {
	ItemPayload
}

func (TaskCreatedPayload) EventType() EventType { return EventTaskCreated }

type TaskUpdatedPayload struct {
	ItemPayload
	// PreviousEpicID is set when a subtask moved to another epic.
	PreviousEpicID int64 `json:"previous_epic_id,omitempty"`
}

func (TaskUpdatedPayload) EventType() EventType { return EventTaskUpdated }

type TaskDeletedPayload struct {
	ItemPayload
	// Cascade is true when the item was removed as part of deleting its epic
	// or a bulk clear.
	Cascade bool `json:"cascade,omitempty"`
}

func (TaskDeletedPayload) EventType() EventType { return EventTaskDeleted }

type TaskRejectedPayload struct {
	Op     string `json:"op"`
	Kind   string `json:"kind"`
	ID     int64  `json:"id,omitempty"`
	Reason string `json:"reason"`
}

func (TaskRejectedPayload) EventType() EventType { return EventTaskRejected }

type EpicRolledUpPayload struct {
	EpicID       int64      `json:"epic_id"`
	Status       string     `json:"status"`
	SubTaskCount int        `json:"subtask_count"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	EndTime      *time.Time `json:"end_time,omitempty"`
}

func (EpicRolledUpPayload) EventType() EventType { return EventEpicRolledUp }

// =============================================================================
// TYPED EVENT CONSTRUCTORS
// =============================================================================

func NewTypedEvent(source EventSource, payload EventPayload) Event {
	return NewEvent(payload.EventType(), source, toMap(payload))
}

func NewTypedEventWithBoard(source EventSource, payload EventPayload, boardID string) Event {
	return NewEventWithBoard(payload.EventType(), source, toMap(payload), boardID)
}

func toMap(v any) map[string]any {
	var result map[string]any
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return result
}

// =============================================================================
// TYPED PAYLOAD EXTRACTORS
// =============================================================================

func ExtractPayload[T EventPayload](e Event) (T, bool) {
	var result T
	if e.Type != result.EventType() {
		return result, false
	}
	data, err := json.Marshal(e.Payload)
	if err != nil {
		return result, false
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, false
	}
	return result, true
}
