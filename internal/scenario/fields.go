package scenario

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dohr-michael/tracker/internal/config"
	"github.com/dohr-michael/tracker/internal/tasks"
)

// ErrBadField reports a malformed key=value argument.
var ErrBadField = errors.New("bad field")

// Fields holds item attributes given as key=value pairs or scenario step
// keys. Nil means the attribute was not given.
type Fields struct {
	ID          int64
	Title       *string
	Description *string
	Status      *tasks.Status
	Start       *time.Time
	NoStart     bool // start=none clears the start time
	Duration    *time.Duration
	EpicID      *int64
}

// ParseFields parses key=value arguments. Known keys: id, title,
// description, status, start, duration, epic.
func ParseFields(args []string, tf config.TimeFormat) (Fields, error) {
	var f Fields
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return Fields{}, fmt.Errorf("%q: expected key=value: %w", arg, ErrBadField)
		}
		if err := f.set(strings.ToLower(strings.TrimSpace(key)), value, tf); err != nil {
			return Fields{}, err
		}
	}
	return f, nil
}

func (f *Fields) set(key, value string, tf config.TimeFormat) error {
	switch key {
	case "id":
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("id %q: %w", value, ErrBadField)
		}
		f.ID = id
	case "title":
		f.Title = &value
	case "description", "desc":
		f.Description = &value
	case "status":
		s := tasks.Status(strings.ToUpper(value))
		f.Status = &s
	case "start":
		if value == "" || strings.EqualFold(value, "none") {
			f.Start, f.NoStart = nil, true
			return nil
		}
		t, err := tf.Parse(value)
		if err != nil {
			return fmt.Errorf("start: %w", err)
		}
		f.Start, f.NoStart = &t, false
	case "duration":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("duration %q: %w", value, ErrBadField)
		}
		f.Duration = &d
	case "epic":
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("epic %q: %w", value, ErrBadField)
		}
		f.EpicID = &id
	default:
		return fmt.Errorf("unknown key %q: %w", key, ErrBadField)
	}
	return nil
}

// Task applies the fields on top of base. A timed task without an explicit
// or inherited duration gets defaultDuration.
func (f Fields) Task(base tasks.Task, defaultDuration time.Duration) tasks.Task {
	t := base
	if f.ID != 0 {
		t.ID = f.ID
	}
	if f.Title != nil {
		t.Title = *f.Title
	}
	if f.Description != nil {
		t.Description = *f.Description
	}
	if f.Status != nil {
		t.Status = *f.Status
	}
	switch {
	case f.NoStart:
		t.StartTime = nil
	case f.Start != nil:
		start := *f.Start
		t.StartTime = &start
	}
	if f.Duration != nil {
		t.Duration = *f.Duration
	} else if t.StartTime != nil && t.Duration == 0 {
		t.Duration = defaultDuration
	}
	return t
}

// Epic applies the identity, title and description to base. Derived epic
// attributes are ignored.
func (f Fields) Epic(base tasks.Epic) tasks.Epic {
	e := base
	if f.ID != 0 {
		e.ID = f.ID
	}
	if f.Title != nil {
		e.Title = *f.Title
	}
	if f.Description != nil {
		e.Description = *f.Description
	}
	return e
}

// SubTask applies the fields on top of base, including the parent epic.
func (f Fields) SubTask(base tasks.SubTask, defaultDuration time.Duration) tasks.SubTask {
	s := base
	s.Task = f.Task(base.Task, defaultDuration)
	if f.EpicID != nil {
		s.EpicID = *f.EpicID
	}
	return s
}
