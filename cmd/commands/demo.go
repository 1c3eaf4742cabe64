package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/tracker/internal/tasks"
)

// NewDemoCommand returns the demo subcommand.
func NewDemoCommand() *cli.Command {
	return &cli.Command{
		Name:   "demo",
		Usage:  "Seed an example board and print it",
		Action: runDemo,
	}
}

func runDemo(_ context.Context, cmd *cli.Command) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	m := tasks.NewManager(tasks.ManagerConfig{
		History: tasks.NewHistory(e.cfg.History.Limit),
		Bus:     e.bus,
	})

	y, mo, d := time.Now().In(e.format.Location).Date()
	day := time.Date(y, mo, d+1, 0, 0, 0, 0, e.format.Location)
	at := func(h int) *time.Time {
		t := day.Add(time.Duration(h) * time.Hour)
		return &t
	}

	if _, err := m.CreateTask(tasks.Task{Title: "Plan the week", Status: tasks.StatusDone, StartTime: at(9), Duration: time.Hour}); err != nil {
		return err
	}
	if _, err := m.CreateTask(tasks.Task{Title: "Inbox zero", Description: "Whenever there is *time*."}); err != nil {
		return err
	}
	epicID, err := m.CreateEpic(tasks.Epic{Task: tasks.Task{
		Title:       "Release 1.0",
		Description: "## Checklist\n\n- build artifacts\n- publish notes",
	}})
	if err != nil {
		return err
	}
	for _, sub := range []tasks.SubTask{
		{Task: tasks.Task{Title: "Build artifacts", Status: tasks.StatusInProgress, StartTime: at(10), Duration: 2 * time.Hour}, EpicID: epicID},
		{Task: tasks.Task{Title: "Publish notes", StartTime: at(14), Duration: 30 * time.Minute}, EpicID: epicID},
	} {
		if _, err := m.CreateSubTask(sub); err != nil {
			return err
		}
	}

	// Overlaps "Build artifacts" and is rejected.
	if _, err := m.CreateTask(tasks.Task{Title: "Dentist", StartTime: at(11), Duration: time.Hour}); err != nil {
		fmt.Printf("rejected %q: %v\n\n", "Dentist", err)
	}

	fmt.Println("Prioritized:")
	if err := e.renderer.Items(os.Stdout, m.PrioritizedTasks()); err != nil {
		return err
	}

	epic, err := m.GetByID(epicID)
	if err != nil {
		return err
	}
	fmt.Println()
	return e.renderer.Item(os.Stdout, epic)
}
