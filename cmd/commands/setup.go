package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/tracker/internal/config"
	"github.com/dohr-michael/tracker/internal/events"
	"github.com/dohr-michael/tracker/internal/render"
)

// env is what every subcommand needs: config, logging, bus and renderer.
type env struct {
	configPath string
	cfg        *config.Config
	bus        *events.Bus
	renderer   *render.Renderer
	format     config.TimeFormat
}

// setup loads the config (defaults when the file is missing), installs
// the default logger and starts the event bus. Call close when done.
func setup(cmd *cli.Command) (*env, error) {
	configPath := cmd.String("config")
	cfg, err := config.Load(configPath)
	missing := errors.Is(err, fs.ErrNotExist)
	switch {
	case missing:
		cfg = config.Default()
	case err != nil:
		return nil, err
	}

	level := cfg.Log.SlogLevel()
	if cmd.Bool("debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	if missing {
		slog.Warn("config not found, using defaults", "path", configPath)
	}

	format, err := cfg.Display.TimeFormat()
	if err != nil {
		return nil, fmt.Errorf("display settings: %w", err)
	}

	bus := events.NewBus(cfg.Events.BufferSize)
	bus.Subscribe(func(e events.Event) {
		slog.Debug("event", "type", e.Type, "source", e.Source, "board", e.BoardID, "payload", e.Payload)
	})

	return &env{
		configPath: configPath,
		cfg:        cfg,
		bus:        bus,
		format:     format,
		renderer: render.New(render.Options{
			Format: format,
			Color:  render.ColorEnabled(cfg.Display.Color, os.Stdout),
		}),
	}, nil
}

func (e *env) close() {
	if dropped := e.bus.Dropped(); dropped > 0 {
		slog.Warn("events dropped", "count", dropped)
	}
	e.bus.Close()
}
