package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/tracker/internal/scenario"
)

// NewRunCommand returns the run subcommand.
func NewRunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Replay YAML scenario files and check their expectations",
		ArgsUsage: "<glob>...",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "show",
				Usage: "Print the final board of each scenario",
			},
		},
		Action: runScenarios,
	}
}

func runScenarios(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("usage: tracker run <glob>...")
	}

	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	paths, err := scenario.Expand(cmd.Args().Slice())
	if err != nil {
		return err
	}

	runner := &scenario.Runner{
		Format:          e.format,
		DefaultDuration: e.cfg.Scenario.DefaultDuration.Duration(),
		HistoryLimit:    e.cfg.History.Limit,
		Bus:             e.bus,
	}

	failed := 0
	for _, path := range paths {
		sc, err := scenario.Load(path)
		if err != nil {
			return err
		}
		res, err := runner.Run(ctx, sc)
		if err != nil {
			return err
		}
		if err := e.renderer.Result(os.Stdout, res); err != nil {
			return err
		}
		if cmd.Bool("show") {
			if err := e.renderer.Items(os.Stdout, res.Manager.PrioritizedTasks()); err != nil {
				return err
			}
			fmt.Println()
		}
		if !res.OK() {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(paths))
	}
	return nil
}
