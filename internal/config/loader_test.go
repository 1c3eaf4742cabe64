package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.jsonc")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	content := `{
	// This is a JSONC comment
	"history": {"limit": 10},
	"events": {"buffer_size": 32},
	"log": {"level": "${{ .Env.TRACKER_TEST_LEVEL }}"},
	"display": {
		"time_layout": "02/01 15:04",
		"timezone": "UTC",
		"color": "never", // trailing comma below
	},
	"scenario": {"default_duration": "45m"},
}`
	t.Setenv("TRACKER_TEST_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.History.Limit != 10 {
		t.Errorf("expected history limit 10, got %d", cfg.History.Limit)
	}
	if cfg.Events.BufferSize != 32 {
		t.Errorf("expected buffer 32, got %d", cfg.Events.BufferSize)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.Log.Level)
	}
	if cfg.Log.SlogLevel() != slog.LevelDebug {
		t.Errorf("expected slog debug, got %v", cfg.Log.SlogLevel())
	}
	if cfg.Display.TimeLayout != "02/01 15:04" {
		t.Errorf("expected custom layout, got %q", cfg.Display.TimeLayout)
	}
	if cfg.Display.Color != "never" {
		t.Errorf("expected color never, got %q", cfg.Display.Color)
	}
	if cfg.Scenario.DefaultDuration.Duration() != 45*time.Minute {
		t.Errorf("expected default duration 45m, got %s", cfg.Scenario.DefaultDuration.Duration())
	}
	loc, err := cfg.Display.Location()
	if err != nil || loc != time.UTC {
		t.Errorf("expected UTC location, got %v (%v)", loc, err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TRACKER_LOG_LEVEL", "")

	cfg, err := Load(writeConfig(t, `{}`))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.History.Limit != 0 {
		t.Errorf("expected unbounded history, got %d", cfg.History.Limit)
	}
	if cfg.Events.BufferSize != 256 {
		t.Errorf("expected default buffer 256, got %d", cfg.Events.BufferSize)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected default log level warn, got %q", cfg.Log.Level)
	}
	if cfg.Display.TimeLayout != "2006-01-02 15:04" {
		t.Errorf("expected default layout, got %q", cfg.Display.TimeLayout)
	}
	if cfg.Display.Timezone != "Local" || cfg.Display.Color != "auto" {
		t.Errorf("expected Local/auto, got %q/%q", cfg.Display.Timezone, cfg.Display.Color)
	}
}

func TestLoadDefaults_LogLevelFromEnv(t *testing.T) {
	t.Setenv("TRACKER_LOG_LEVEL", "info")

	cfg := Default()
	if cfg.Log.Level != "info" {
		t.Errorf("expected log level from env 'info', got %q", cfg.Log.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.jsonc")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadInvalid(t *testing.T) {
	if _, err := Load(writeConfig(t, `{"history": `)); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSlogLevelFallback(t *testing.T) {
	if got := (LogConfig{Level: "loud"}).SlogLevel(); got != slog.LevelWarn {
		t.Errorf("expected warn fallback, got %v", got)
	}
}

func TestExpandEnvTemplates(t *testing.T) {
	t.Setenv("TEST_KEY", "my-secret")
	result := expandEnvTemplates(`{"key": "${{ .Env.TEST_KEY }}"}`)
	expected := `{"key": "my-secret"}`
	if result != expected {
		t.Errorf("expected %s, got %s", expected, result)
	}
}
