// Package tasks provides the in-memory task manager: tasks, epics and subtasks
// with time-window validation and epic status rollup.
package tasks

import (
	"slices"
	"time"
)

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusNew        Status = "NEW"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Valid returns true if the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// Kind identifies which store an item lives in.
type Kind string

const (
	KindTask    Kind = "task"
	KindEpic    Kind = "epic"
	KindSubTask Kind = "subtask"
)

// Window is the half-open interval [Start, End) occupied by a timed item.
type Window struct {
	Start time.Time
	End   time.Time
}

// Item is implemented by *Task, *Epic and *SubTask.
type Item interface {
	ItemID() int64
	ItemKind() Kind
	// Window returns the item's time window, or false when it has no start time.
	Window() (Window, bool)
	clone() Item
}

// Task is a plain unit of work.
type Task struct {
	ID          int64         `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Status      Status        `json:"status"`
	StartTime   *time.Time    `json:"start_time,omitempty"`
	Duration    time.Duration `json:"duration"`
}

// EndTime returns StartTime + Duration, or false when StartTime is nil.
func (t *Task) EndTime() (time.Time, bool) {
	if t.StartTime == nil {
		return time.Time{}, false
	}
	return t.StartTime.Add(t.Duration), true
}

func (t *Task) ItemID() int64  { return t.ID }
func (t *Task) ItemKind() Kind { return KindTask }

func (t *Task) Window() (Window, bool) {
	end, ok := t.EndTime()
	if !ok {
		return Window{}, false
	}
	return Window{Start: *t.StartTime, End: end}, true
}

func (t *Task) clone() Item {
	c := *t
	c.StartTime = cloneTime(t.StartTime)
	return &c
}

// Epic groups subtasks. Its status and window are derived from them.
type Epic struct {
	Task
	SubTaskIDs []int64    `json:"subtask_ids"`
	End        *time.Time `json:"end_time,omitempty"`
}

// EndTime returns the latest end among the epic's timed subtasks.
func (e *Epic) EndTime() (time.Time, bool) {
	if e.StartTime == nil || e.End == nil {
		return time.Time{}, false
	}
	return *e.End, true
}

func (e *Epic) ItemKind() Kind { return KindEpic }

func (e *Epic) Window() (Window, bool) {
	end, ok := e.EndTime()
	if !ok {
		return Window{}, false
	}
	return Window{Start: *e.StartTime, End: end}, true
}

func (e *Epic) clone() Item {
	c := *e
	c.StartTime = cloneTime(e.StartTime)
	c.End = cloneTime(e.End)
	c.SubTaskIDs = slices.Clone(e.SubTaskIDs)
	return &c
}

func (e *Epic) addSubTask(id int64) {
	if !slices.Contains(e.SubTaskIDs, id) {
		e.SubTaskIDs = append(e.SubTaskIDs, id)
	}
}

func (e *Epic) removeSubTask(id int64) {
	e.SubTaskIDs = slices.DeleteFunc(e.SubTaskIDs, func(v int64) bool { return v == id })
}

// SubTask is a task that belongs to exactly one epic.
type SubTask struct {
	Task
	EpicID int64 `json:"epic_id"`
}

func (s *SubTask) ItemKind() Kind { return KindSubTask }

func (s *SubTask) clone() Item {
	c := *s
	c.StartTime = cloneTime(s.StartTime)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
