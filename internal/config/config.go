package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Config is the root configuration for tracker.
type Config struct {
	History  HistoryConfig  `json:"history"`
	Events   EventsConfig   `json:"events"`
	Log      LogConfig      `json:"log"`
	Display  DisplayConfig  `json:"display"`
	Scenario ScenarioConfig `json:"scenario"`
}

// HistoryConfig configures the recently-viewed list.
type HistoryConfig struct {
	Limit int `json:"limit"` // max entries kept (0 = unbounded)
}

// EventsConfig holds event bus settings.
type EventsConfig struct {
	BufferSize int `json:"buffer_size"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `json:"level"` // "debug" | "info" | "warn" | "error"
}

// SlogLevel maps Level to a slog.Level. Unknown values fall back to warn.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// DisplayConfig controls how times and statuses are printed and parsed.
type DisplayConfig struct {
	TimeLayout string `json:"time_layout"` // Go reference layout
	Timezone   string `json:"timezone"`    // IANA name or "Local"
	Color      string `json:"color"`       // "auto" | "always" | "never"
}

// Location resolves Timezone.
func (c DisplayConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ScenarioConfig holds defaults for scenario files.
type ScenarioConfig struct {
	DefaultDuration Duration `json:"default_duration,omitempty"` // used when a timed item omits duration
}

// Duration wraps time.Duration for JSON unmarshaling.
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}
