package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/tracker/internal/config"
)

// NewConfigCommand returns the config subcommand.
func NewConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show resolved paths and the effective configuration",
		Action: func(_ context.Context, cmd *cli.Command) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			state := "found"
			if _, err := os.Stat(e.configPath); err != nil {
				state = "missing, using defaults"
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Home:\t%s\n", config.TrackerPath())
			fmt.Fprintf(w, "Config:\t%s (%s)\n", e.configPath, state)
			fmt.Fprintf(w, "Dotenv:\t%s\n", config.DotenvPath())
			fmt.Fprintln(w, "\t")
			fmt.Fprintf(w, "history.limit\t%d\n", e.cfg.History.Limit)
			fmt.Fprintf(w, "events.buffer_size\t%d\n", e.cfg.Events.BufferSize)
			fmt.Fprintf(w, "log.level\t%s\n", e.cfg.Log.Level)
			fmt.Fprintf(w, "display.time_layout\t%s\n", e.cfg.Display.TimeLayout)
			fmt.Fprintf(w, "display.timezone\t%s\n", e.cfg.Display.Timezone)
			fmt.Fprintf(w, "display.color\t%s\n", e.cfg.Display.Color)
			fmt.Fprintf(w, "scenario.default_duration\t%s\n", e.cfg.Scenario.DefaultDuration.Duration())
			return w.Flush()
		},
	}
}
