package render

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dohr-michael/tracker/internal/config"
	"github.com/dohr-michael/tracker/internal/events"
	"github.com/dohr-michael/tracker/internal/scenario"
	"github.com/dohr-michael/tracker/internal/tasks"
)

func newTestRenderer(color bool) *Renderer {
	return New(Options{
		Format: config.TimeFormat{Layout: "2006-01-02 15:04", Location: time.UTC},
		Color:  color,
	})
}

func at(h, m int) *time.Time {
	t := time.Date(2024, 3, 1, h, m, 0, 0, time.UTC)
	return &t
}

func TestItemsTable(t *testing.T) {
	r := newTestRenderer(false)
	items := []tasks.Item{
		&tasks.Task{ID: 1, Title: "Write docs", Status: tasks.StatusNew, StartTime: at(10, 0), Duration: time.Hour},
		&tasks.SubTask{Task: tasks.Task{ID: 3, Title: "Build", Status: tasks.StatusDone}, EpicID: 2},
	}

	var buf bytes.Buffer
	if err := r.Items(&buf, items); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[0], "TITLE") {
		t.Errorf("unexpected header %q", lines[0])
	}
	for _, want := range []string{"2024-03-01 10:00", "2024-03-01 11:00", "1h0m0s", "Write docs"} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("expected row 1 to contain %q, got %q", want, lines[1])
		}
	}
	for _, want := range []string{"subtask", "DONE", "Build"} {
		if !strings.Contains(lines[2], want) {
			t.Errorf("expected row 2 to contain %q, got %q", want, lines[2])
		}
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Error("expected no escape sequences without color")
	}
}

func TestItemsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := newTestRenderer(false).Items(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "No items.\n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestStatusPadding(t *testing.T) {
	r := newTestRenderer(false)
	if got := r.Status(tasks.StatusNew); got != "NEW        " {
		t.Errorf("expected padded status, got %q", got)
	}

	colored := newTestRenderer(true).Status(tasks.StatusDone)
	if !strings.Contains(colored, "DONE") || colored == r.Status(tasks.StatusDone) {
		t.Errorf("expected styled status, got %q", colored)
	}
}

func TestItemDetail(t *testing.T) {
	r := newTestRenderer(false)
	epic := &tasks.Epic{
		Task:       tasks.Task{ID: 2, Title: "Release", Status: tasks.StatusInProgress, StartTime: at(10, 0), Duration: 2 * time.Hour, Description: "Ship **everything**."},
		SubTaskIDs: []int64{3, 4},
		End:        at(15, 0),
	}

	var buf bytes.Buffer
	if err := r.Item(&buf, epic); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Kind:        epic", "Status:      IN_PROGRESS", "End:         2024-03-01 15:00", "Subtasks:    3, 4", "Description:", "everything"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestEvents(t *testing.T) {
	r := newTestRenderer(false)
	evt := events.NewTypedEvent(events.SourceShell, events.TaskCreatedPayload{ItemPayload: events.ItemPayload{ID: 7, Kind: "task", Title: "x"}})

	var buf bytes.Buffer
	if err := r.Events(&buf, []events.Event{evt}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"task.created", "shell", "id=7", "kind=task"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestResult(t *testing.T) {
	sc, err := scenario.Parse([]byte(`
name: sample
steps:
  - op: create_task
    as: a
    title: A
    expect_status: DONE
`))
	if err != nil {
		t.Fatal(err)
	}
	runner := &scenario.Runner{Format: config.TimeFormat{Layout: "2006-01-02 15:04", Location: time.UTC}}
	res, err := runner.Run(context.Background(), sc)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := newTestRenderer(false).Result(&buf, res); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "FAIL  sample (1/1 steps failed)") {
		t.Errorf("unexpected summary:\n%s", out)
	}
	if !strings.Contains(out, "step 1 create_task: status of a: expected DONE, got NEW") {
		t.Errorf("expected failure detail, got:\n%s", out)
	}
}

func TestColorEnabled(t *testing.T) {
	if !ColorEnabled("always", nil) {
		t.Error("expected always to enable color")
	}
	if ColorEnabled("never", os.Stdout) {
		t.Error("expected never to disable color")
	}

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if ColorEnabled("auto", f) {
		t.Error("expected a regular file not to be a terminal")
	}
	if ColorEnabled("auto", nil) {
		t.Error("expected nil file to disable color")
	}
}

func TestMarkdownPlain(t *testing.T) {
	out, err := newTestRenderer(false).Markdown("hello world")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "hello world") {
		t.Errorf("expected text to survive rendering, got %q", out)
	}
}
