package tasks

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTimeWindow is matched by every *WindowError.
	ErrInvalidTimeWindow = errors.New("invalid time window")
	ErrUnknownParentEpic = errors.New("unknown parent epic")
	ErrUnknownIdentity   = errors.New("unknown identity")
	ErrIdentityInUse     = errors.New("identity already in use")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidDuration   = errors.New("invalid duration")

	// ErrNotFound is returned by internal lookups. Public operations report
	// ErrUnknownIdentity instead.
	ErrNotFound = errors.New("not found")
)

// Boundary names the edge of a candidate window that conflicted.
type Boundary string

const (
	BoundaryStart Boundary = "start"
	BoundaryEnd   Boundary = "end"
)

// WindowError reports an overlap between a candidate and an indexed item.
type WindowError struct {
	Boundary Boundary
	// ConflictID is the ID of one indexed item the candidate collides with.
	ConflictID int64
}

func (e *WindowError) Error() string {
	if e.Boundary == BoundaryStart {
		return fmt.Sprintf("new task cannot start during another task's execution (conflicts with %d)", e.ConflictID)
	}
	return fmt.Sprintf("new task cannot end after another task's start (conflicts with %d)", e.ConflictID)
}

func (e *WindowError) Is(target error) bool {
	return target == ErrInvalidTimeWindow
}
