package commands

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/dohr-michael/tracker/internal/config"
	"github.com/dohr-michael/tracker/internal/events"
	"github.com/dohr-michael/tracker/internal/shell"
	"github.com/dohr-michael/tracker/internal/tasks"
)

// NewShellCommand returns the shell subcommand.
func NewShellCommand() *cli.Command {
	return &cli.Command{
		Name:   "shell",
		Usage:  "Manage an in-memory board interactively (reads commands from stdin)",
		Action: runShell,
	}
}

func runShell(ctx context.Context, cmd *cli.Command) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	m := tasks.NewManager(tasks.ManagerConfig{
		History: tasks.NewHistory(e.cfg.History.Limit),
		Bus:     e.bus,
		Source:  events.SourceShell,
	})

	prompt := ""
	if term.IsTerminal(int(os.Stdin.Fd())) {
		prompt = "tracker> "
	}

	sh := shell.New(shell.Options{
		Manager:         m,
		Bus:             e.bus,
		Renderer:        e.renderer,
		DefaultDuration: e.cfg.Scenario.DefaultDuration.Duration(),
		Reloader:        config.NewReloader(e.configPath, config.DotenvPath(), e.cfg),
		ColorFile:       os.Stdout,
		In:              os.Stdin,
		Out:             os.Stdout,
		Prompt:          prompt,
	})
	return sh.Run(ctx)
}
