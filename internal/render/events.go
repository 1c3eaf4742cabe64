package render

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dohr-michael/tracker/internal/events"
)

// Events prints recent bus events, oldest first.
func (r *Renderer) Events(w io.Writer, list []events.Event) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No events.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tTYPE\tSOURCE\tDETAILS")
	for _, e := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			r.clock(e.Timestamp),
			e.Type,
			e.Source,
			details(e.Payload),
		)
	}
	return tw.Flush()
}

func (r *Renderer) clock(t time.Time) string {
	if loc := r.opts.Format.Location; loc != nil {
		t = t.In(loc)
	}
	return t.Format("15:04:05.000")
}

// details flattens a payload into sorted key=value pairs.
func details(payload map[string]any) string {
	parts := make([]string, 0, len(payload))
	for _, k := range slices.Sorted(maps.Keys(payload)) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, payload[k]))
	}
	return strings.Join(parts, " ")
}
