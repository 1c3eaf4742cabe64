package render

import (
	"fmt"
	"io"

	"github.com/dohr-michael/tracker/internal/scenario"
)

// Result prints a scenario outcome: one summary line, then every failed
// step with its unmet expectations.
func (r *Renderer) Result(w io.Writer, res *scenario.Result) error {
	failed := res.Failed()
	if len(failed) == 0 {
		_, err := fmt.Fprintf(w, "%s  %s (%d steps)\n", r.style(doneStyle, "PASS"), res.Name, len(res.Steps))
		return err
	}

	fmt.Fprintf(w, "%s  %s (%d/%d steps failed)\n", r.style(failStyle, "FAIL"), res.Name, len(failed), len(res.Steps))
	for _, s := range failed {
		for _, f := range s.Failures {
			fmt.Fprintf(w, "  step %d %s: %s\n", s.Index, s.Op, f)
		}
	}
	return nil
}
