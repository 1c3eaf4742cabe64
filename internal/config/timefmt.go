package config

import (
	"fmt"
	"time"
)

// TimeFormat parses and prints wall-clock times the way the display
// settings ask for.
type TimeFormat struct {
	Layout   string
	Location *time.Location
}

// TimeFormat resolves the display layout and timezone.
func (c DisplayConfig) TimeFormat() (TimeFormat, error) {
	loc, err := c.Location()
	if err != nil {
		return TimeFormat{}, err
	}
	return TimeFormat{Layout: c.TimeLayout, Location: loc}, nil
}

// Parse accepts RFC 3339 or the configured layout, read in the configured
// location.
func (f TimeFormat) Parse(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(f.layout(), s, f.location())
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q (layout %q): %w", s, f.layout(), err)
	}
	return t, nil
}

// Format prints t in the configured location and layout.
func (f TimeFormat) Format(t time.Time) string {
	return t.In(f.location()).Format(f.layout())
}

func (f TimeFormat) layout() string {
	if f.Layout == "" {
		return "2006-01-02 15:04"
	}
	return f.Layout
}

func (f TimeFormat) location() *time.Location {
	if f.Location == nil {
		return time.Local
	}
	return f.Location
}
