package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Reloader re-reads the .env and config files on demand. A config that
// loads and validates replaces the current one and is handed to every
// listener; anything else leaves the current config in place.
type Reloader struct {
	configPath string
	dotenvPath string
	current    atomic.Pointer[Config]

	mu        sync.Mutex // serializes Reload and OnReload
	listeners []func(*Config)
}

// NewReloader creates a Reloader starting from initial.
func NewReloader(configPath, dotenvPath string, initial *Config) *Reloader {
	r := &Reloader{configPath: configPath, dotenvPath: dotenvPath}
	r.current.Store(initial)
	return r
}

// Current returns the config in effect.
func (r *Reloader) Current() *Config {
	return r.current.Load()
}

// OnReload registers fn to run, in registration order, after each
// successful reload.
func (r *Reloader) OnReload(fn func(*Config)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// Reload applies the .env file in override mode, then loads the config.
// A missing config file yields the defaults, as at startup.
func (r *Reloader) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ReloadDotenv(r.dotenvPath); err != nil {
		return fmt.Errorf("reload dotenv: %w", err)
	}

	cfg, err := Load(r.configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		cfg = Default()
	case err != nil:
		return fmt.Errorf("reload config: %w", err)
	}
	if _, err := cfg.Display.TimeFormat(); err != nil {
		return fmt.Errorf("reload config: %w", err)
	}

	r.current.Store(cfg)
	slog.Debug("config reloaded", "path", r.configPath, "listeners", len(r.listeners))

	for _, fn := range r.listeners {
		fn(cfg)
	}
	return nil
}
