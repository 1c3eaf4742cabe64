// Package render prints tasks, events and scenario results for the CLI.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"charm.land/lipgloss/v2"
	"golang.org/x/term"

	"github.com/dohr-michael/tracker/internal/config"
	"github.com/dohr-michael/tracker/internal/tasks"
)

// Basic ANSI colors keep every escape sequence the same length so
// tabwriter columns still line up when colored.
var (
	newStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	inProgressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	doneStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

const statusWidth = len(tasks.StatusInProgress)

// Options controls how a Renderer prints.
type Options struct {
	Format config.TimeFormat
	Color  bool
	Width  int // word wrap for descriptions; default 80
}

// ColorEnabled resolves a display.color mode. "auto" colors only when f is
// a terminal.
func ColorEnabled(mode string, f *os.File) bool {
	switch strings.ToLower(mode) {
	case "always":
		return true
	case "never":
		return false
	default:
		return f != nil && term.IsTerminal(int(f.Fd()))
	}
}

// Renderer prints tables and detail views.
type Renderer struct {
	opts Options
}

// New creates a Renderer.
func New(opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = 80
	}
	return &Renderer{opts: opts}
}

// Options returns the renderer's settings.
func (r *Renderer) Options() Options {
	return r.opts
}

// Status returns a status padded to a fixed width, colored when enabled.
func (r *Renderer) Status(s tasks.Status) string {
	padded := fmt.Sprintf("%-*s", statusWidth, s)
	if !r.opts.Color {
		return padded
	}
	switch s {
	case tasks.StatusNew:
		return newStyle.Render(padded)
	case tasks.StatusInProgress:
		return inProgressStyle.Render(padded)
	case tasks.StatusDone:
		return doneStyle.Render(padded)
	default:
		return failStyle.Render(padded)
	}
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.opts.Color {
		return text
	}
	return s.Render(text)
}

// Items prints a table of tasks, epics and subtasks in the given order.
func (r *Renderer) Items(w io.Writer, items []tasks.Item) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No items.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tKIND\tSTATUS\tSTART\tEND\tDURATION\tEPIC\tTITLE")
	for _, item := range items {
		t := header(item)
		start, end := r.window(item)
		epic := "-"
		if sub, ok := item.(*tasks.SubTask); ok {
			epic = fmt.Sprint(sub.EpicID)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID,
			item.ItemKind(),
			r.Status(t.Status),
			start,
			end,
			duration(t.Duration),
			epic,
			t.Title,
		)
	}
	return tw.Flush()
}

// Tasks prints plain tasks.
func (r *Renderer) Tasks(w io.Writer, list []tasks.Task) error {
	items := make([]tasks.Item, len(list))
	for i := range list {
		items[i] = &list[i]
	}
	return r.Items(w, items)
}

// Epics prints epics.
func (r *Renderer) Epics(w io.Writer, list []tasks.Epic) error {
	items := make([]tasks.Item, len(list))
	for i := range list {
		items[i] = &list[i]
	}
	return r.Items(w, items)
}

// SubTasks prints subtasks.
func (r *Renderer) SubTasks(w io.Writer, list []tasks.SubTask) error {
	items := make([]tasks.Item, len(list))
	for i := range list {
		items[i] = &list[i]
	}
	return r.Items(w, items)
}

// Item prints the detail view of one item. Descriptions are rendered as
// markdown.
func (r *Renderer) Item(w io.Writer, item tasks.Item) error {
	t := header(item)
	start, end := r.window(item)

	fmt.Fprintf(w, "ID:          %d\n", t.ID)
	fmt.Fprintf(w, "Kind:        %s\n", item.ItemKind())
	fmt.Fprintf(w, "Title:       %s\n", t.Title)
	fmt.Fprintf(w, "Status:      %s\n", strings.TrimSpace(r.Status(t.Status)))
	fmt.Fprintf(w, "Start:       %s\n", start)
	fmt.Fprintf(w, "End:         %s\n", end)
	fmt.Fprintf(w, "Duration:    %s\n", duration(t.Duration))

	switch v := item.(type) {
	case *tasks.SubTask:
		fmt.Fprintf(w, "Epic:        %d\n", v.EpicID)
	case *tasks.Epic:
		ids := make([]string, len(v.SubTaskIDs))
		for i, id := range v.SubTaskIDs {
			ids[i] = fmt.Sprint(id)
		}
		if len(ids) == 0 {
			ids = []string{"-"}
		}
		fmt.Fprintf(w, "Subtasks:    %s\n", strings.Join(ids, ", "))
	}

	if t.Description == "" {
		return nil
	}
	desc, err := r.Markdown(t.Description)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "\nDescription:\n%s\n", strings.TrimRight(desc, "\n"))
	return err
}

func (r *Renderer) window(item tasks.Item) (string, string) {
	w, ok := item.Window()
	if !ok {
		return "-", "-"
	}
	return r.opts.Format.Format(w.Start), r.opts.Format.Format(w.End)
}

func duration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	return d.String()
}

func header(item tasks.Item) tasks.Task {
	switch v := item.(type) {
	case *tasks.Task:
		return *v
	case *tasks.Epic:
		return v.Task
	case *tasks.SubTask:
		return v.Task
	}
	return tasks.Task{ID: item.ItemID()}
}
