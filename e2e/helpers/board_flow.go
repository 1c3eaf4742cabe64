// Command board_flow drives the tracker shell end to end with a scripted
// session and checks the resulting board.
//
// Usage: board_flow -timeout 10s
//
// Exit codes:
//
//	0 = all checks passed
//	1 = a check failed
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dohr-michael/tracker/internal/config"
	"github.com/dohr-michael/tracker/internal/events"
	"github.com/dohr-michael/tracker/internal/render"
	"github.com/dohr-michael/tracker/internal/shell"
	"github.com/dohr-michael/tracker/internal/tasks"
)

const script = `
add epic title="Release 1.0"
add subtask epic=1 title=Build start="2024-03-01 10:00" duration=2h status=in_progress
add subtask epic=1 title=Publish start="2024-03-01 14:00" duration=30m
add task title=Dentist start="2024-03-01 11:00" duration=1h
add task title=Lunch start="2024-03-01 12:00" duration=1h
update 3 status=done
show 1
prioritized
quit
`

func main() {
	timeout := flag.Duration("timeout", 10*time.Second, "Overall timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ── Step 1: Run the scripted session ────────────────────────────────
	bus := events.NewBus(64)
	defer bus.Close()

	m := tasks.NewManager(tasks.ManagerConfig{Bus: bus, Source: events.SourceShell})
	var out bytes.Buffer
	sh := shell.New(shell.Options{
		Manager: m,
		Bus:     bus,
		Renderer: render.New(render.Options{
			Format: config.TimeFormat{Layout: "2006-01-02 15:04", Location: time.UTC},
		}),
		In:  strings.NewReader(script),
		Out: &out,
	})
	if err := sh.Run(ctx); err != nil {
		return fmt.Errorf("shell: %w", err)
	}
	fmt.Printf("CHECK session finished (%d bytes of output)\n", out.Len())

	// ── Step 2: The overlapping task was rejected, the touching one kept ──
	if !strings.Contains(out.String(), "error: create task: new task cannot start during another task's execution") {
		return fmt.Errorf("expected overlap rejection, got:\n%s", out.String())
	}
	if n := len(m.Tasks()); n != 1 {
		return fmt.Errorf("expected 1 stored task, got %d", n)
	}
	fmt.Println("CHECK overlap rejected, adjacent task accepted")

	// ── Step 3: The epic rolled up from its subtasks ────────────────────
	epics := m.Epics()
	if len(epics) != 1 {
		return fmt.Errorf("expected 1 epic, got %d", len(epics))
	}
	epic := epics[0]
	if epic.Status != tasks.StatusInProgress {
		return fmt.Errorf("expected epic IN_PROGRESS, got %s", epic.Status)
	}
	w, ok := epic.Window()
	if !ok || w.End.Sub(w.Start) != 4*time.Hour+30*time.Minute {
		return fmt.Errorf("expected epic window 10:00-14:30, got %+v (timed=%v)", w, ok)
	}
	fmt.Println("CHECK epic status and window rolled up")

	// ── Step 4: Lifecycle events reached the bus ────────────────────────
	var created, rejected int
	deadline := time.Now().Add(time.Second)
	for {
		created, rejected = countEvents(bus.History(64))
		if created+rejected >= 5 || time.Now().After(deadline) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if created != 4 || rejected != 1 {
		return fmt.Errorf("expected 4 created and 1 rejected events, got %d and %d", created, rejected)
	}
	fmt.Println("CHECK lifecycle events published")
	return nil
}

func countEvents(list []events.Event) (created, rejected int) {
	for _, e := range list {
		switch e.Type {
		case events.EventTaskCreated:
			created++
		case events.EventTaskRejected:
			rejected++
		}
	}
	return created, rejected
}
