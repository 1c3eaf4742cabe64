// Package shell implements the interactive line shell on top of a task
// manager. Lines are split with POSIX shell quoting rules.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"mvdan.cc/sh/v3/shell"

	"github.com/dohr-michael/tracker/internal/config"
	"github.com/dohr-michael/tracker/internal/events"
	"github.com/dohr-michael/tracker/internal/render"
	"github.com/dohr-michael/tracker/internal/tasks"
)

// ErrUsage reports a malformed command line.
var ErrUsage = errors.New("usage")

// Options configures a Shell.
type Options struct {
	Manager         *tasks.Manager
	Bus             *events.Bus // optional; enables the events command
	Renderer        *render.Renderer
	DefaultDuration time.Duration
	Reloader        *config.Reloader // optional; enables the reload command
	ColorFile       *os.File         // terminal checked when display.color is auto
	In              io.Reader
	Out             io.Writer
	Prompt          string // printed before each line when set
	Logger          *slog.Logger
}

// Shell reads commands line by line and runs them against a manager.
type Shell struct {
	m               *tasks.Manager
	bus             *events.Bus
	render          *render.Renderer
	defaultDuration time.Duration
	reloader        *config.Reloader
	colorFile       *os.File
	in              io.Reader
	out             io.Writer
	prompt          string
	logger          *slog.Logger
}

// New creates a Shell. When a Reloader is given, reloaded display and
// scenario settings apply to the following commands.
func New(opts Options) *Shell {
	s := &Shell{
		m:               opts.Manager,
		bus:             opts.Bus,
		render:          opts.Renderer,
		defaultDuration: opts.DefaultDuration,
		reloader:        opts.Reloader,
		colorFile:       opts.ColorFile,
		in:              opts.In,
		out:             opts.Out,
		prompt:          opts.Prompt,
		logger:          opts.Logger,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.render == nil {
		s.render = render.New(render.Options{})
	}
	if s.reloader != nil {
		s.reloader.OnReload(s.apply)
	}
	return s
}

// apply swaps in settings from a reloaded config. A bad timezone keeps the
// previous display settings.
func (s *Shell) apply(cfg *config.Config) {
	s.defaultDuration = cfg.Scenario.DefaultDuration.Duration()

	tf, err := cfg.Display.TimeFormat()
	if err != nil {
		s.logger.Warn("keeping display settings", "error", err)
		return
	}
	s.render = render.New(render.Options{
		Format: tf,
		Color:  render.ColorEnabled(cfg.Display.Color, s.colorFile),
		Width:  s.render.Options().Width,
	})
}

// Run reads commands until EOF, quit or ctx is done. Command errors are
// printed and do not stop the loop.
func (s *Shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.prompt != "" {
			fmt.Fprint(s.out, s.prompt)
		}
		if !scanner.Scan() {
			break
		}

		quit, err := s.Exec(scanner.Text())
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

// Exec runs a single command line. quit is true after quit or exit.
func (s *Shell) Exec(line string) (quit bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false, nil
	}

	args, err := shell.Fields(line, os.Getenv)
	if err != nil {
		return false, fmt.Errorf("parse line: %w", err)
	}
	if len(args) == 0 {
		return false, nil
	}

	name, rest := strings.ToLower(args[0]), args[1:]
	if name == "quit" || name == "exit" {
		return true, nil
	}
	cmd, ok := commands[name]
	if !ok {
		return false, fmt.Errorf("unknown command %q (try help)", name)
	}
	s.logger.Debug("shell command", "command", name, "args", len(rest))
	return false, cmd.run(s, rest)
}
