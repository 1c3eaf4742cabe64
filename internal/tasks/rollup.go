package tasks

import "time"

// rollupStatus derives an epic status from its subtask statuses.
func rollupStatus(statuses []Status) Status {
	if len(statuses) == 0 {
		return StatusNew
	}
	allNew, allDone := true, true
	for _, s := range statuses {
		if s != StatusNew {
			allNew = false
		}
		if s != StatusDone {
			allDone = false
		}
	}
	switch {
	case allNew:
		return StatusNew
	case allDone:
		return StatusDone
	default:
		return StatusInProgress
	}
}

// epicWindow is the derived time window of an epic.
type epicWindow struct {
	start    *time.Time
	end      *time.Time
	duration time.Duration
}

// rollupWindow spans the earliest start and latest end of the timed subtasks.
// Duration is the sum of their durations. Untimed subtasks are ignored.
func rollupWindow(subs []*SubTask) epicWindow {
	var w epicWindow
	for _, s := range subs {
		sw, ok := s.Window()
		if !ok {
			continue
		}
		if w.start == nil || sw.Start.Before(*w.start) {
			w.start = &sw.Start
		}
		if w.end == nil || sw.End.After(*w.end) {
			w.end = &sw.End
		}
		w.duration += s.Duration
	}
	return w
}

// applyRollup recomputes status and window of e from subs, which must be
// the subtasks listed in e.SubTaskIDs.
func applyRollup(e *Epic, subs []*SubTask) {
	statuses := make([]Status, 0, len(subs))
	for _, s := range subs {
		statuses = append(statuses, s.Status)
	}
	e.Status = rollupStatus(statuses)

	w := rollupWindow(subs)
	e.StartTime = w.start
	e.End = w.end
	e.Duration = w.duration
}
