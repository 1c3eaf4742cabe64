package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dohr-michael/tracker/internal/config"
	"github.com/dohr-michael/tracker/internal/events"
	"github.com/dohr-michael/tracker/internal/tasks"
)

// Runner replays scenarios. Each Run uses a fresh manager.
type Runner struct {
	Format          config.TimeFormat
	DefaultDuration time.Duration
	HistoryLimit    int
	Bus             *events.Bus  // optional
	Logger          *slog.Logger // default: slog.Default()
}

// StepResult is the outcome of one step.
type StepResult struct {
	Index    int // 1-based
	Op       Op
	ID       int64    // identity the step created or acted on
	Err      error    // error returned by the manager, if any
	Failures []string // unmet expectations
}

// OK reports whether every expectation of the step held.
func (s StepResult) OK() bool {
	return len(s.Failures) == 0
}

// Result is the outcome of one scenario run.
type Result struct {
	Name    string
	Path    string
	Steps   []StepResult
	Manager *tasks.Manager // final state, for display
}

// Failed returns the steps with unmet expectations.
func (r *Result) Failed() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if !s.OK() {
			out = append(out, s)
		}
	}
	return out
}

// OK reports whether every step passed.
func (r *Result) OK() bool {
	return len(r.Failed()) == 0
}

// run holds the per-scenario state.
type run struct {
	*Runner
	m       *tasks.Manager
	aliases map[string]int64
}

// Run executes every step of sc. A returned error means the scenario itself
// is broken (unknown alias, bad time) or ctx was cancelled; failed
// expectations are reported in the Result.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*Result, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	st := &run{
		Runner: r,
		m: tasks.NewManager(tasks.ManagerConfig{
			History: tasks.NewHistory(r.HistoryLimit),
			Bus:     r.Bus,
			Logger:  logger,
			Source:  events.SourceScenario,
		}),
		aliases: make(map[string]int64),
	}
	res := &Result{Name: sc.Name, Path: sc.Path, Manager: st.m}

	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		sr, err := st.step(step)
		if err != nil {
			return res, fmt.Errorf("%s: step %d (%s): %w", sc.Name, i+1, step.Op, err)
		}
		sr.Index = i + 1
		sr.Op = step.Op
		if !sr.OK() {
			logger.Info("scenario expectation failed", "scenario", sc.Name, "step", sr.Index, "op", step.Op, "failures", sr.Failures)
		} else {
			logger.Debug("scenario step passed", "scenario", sc.Name, "step", sr.Index, "op", step.Op, "id", sr.ID)
		}
		res.Steps = append(res.Steps, sr)
	}
	return res, nil
}

func (st *run) step(step Step) (StepResult, error) {
	var sr StepResult

	f, err := st.fields(step)
	if err != nil {
		return sr, err
	}
	var ref int64
	if step.Op.needsRef() {
		if ref, err = st.resolve(step.Ref); err != nil {
			return sr, err
		}
	}

	var opErr error
	switch step.Op {
	case OpCreateTask:
		sr.ID, opErr = st.m.CreateTask(f.Task(tasks.Task{}, st.DefaultDuration))
	case OpCreateEpic:
		sr.ID, opErr = st.m.CreateEpic(f.Epic(tasks.Epic{}))
	case OpCreateSubTask:
		sr.ID, opErr = st.m.CreateSubTask(f.SubTask(tasks.SubTask{}, st.DefaultDuration))
	case OpUpdateTask, OpUpdateEpic, OpUpdateSubTask:
		sr.ID = ref
		opErr = st.update(step.Op, ref, f)
	case OpGet:
		sr.ID = ref
		_, opErr = st.m.GetByID(ref)
	case OpDelete:
		sr.ID = ref
		opErr = st.m.DeleteByID(ref)
	case OpDeleteAllTasks:
		st.m.DeleteAllTasks()
	case OpDeleteAllEpics:
		st.m.DeleteAllEpics()
	case OpDeleteAllSubTasks:
		st.m.DeleteAllSubTasks()
	case OpCheck:
	}
	sr.Err = opErr

	if opErr == nil && step.As != "" && sr.ID != 0 {
		st.aliases[step.As] = sr.ID
	}

	sr.Failures = st.checkError(step, opErr)
	failures, err := st.checkState(step)
	if err != nil {
		return sr, err
	}
	sr.Failures = append(sr.Failures, failures...)
	return sr, nil
}

// update merges the step fields onto the stored item, so a step only needs
// to name what changes. A missing item or a kind mismatch is left for the
// manager to report.
func (st *run) update(op Op, id int64, f Fields) error {
	item, _ := st.peek(id)
	switch op {
	case OpUpdateTask:
		var base tasks.Task
		if v, ok := item.(*tasks.Task); ok {
			base = *v
		}
		return st.m.UpdateTask(id, f.Task(base, st.DefaultDuration))
	case OpUpdateEpic:
		var base tasks.Epic
		if v, ok := item.(*tasks.Epic); ok {
			base = *v
		}
		return st.m.UpdateEpic(id, f.Epic(base))
	default:
		var base tasks.SubTask
		if v, ok := item.(*tasks.SubTask); ok {
			base = *v
		}
		return st.m.UpdateSubTask(id, f.SubTask(base, st.DefaultDuration))
	}
}

// fields converts the step's item keys, resolving the epic alias.
func (st *run) fields(step Step) (Fields, error) {
	var args []string
	add := func(key, value string) {
		if value != "" {
			args = append(args, key+"="+value)
		}
	}
	if step.ID != 0 {
		add("id", strconv.FormatInt(step.ID, 10))
	}
	add("title", step.Title)
	add("description", step.Description)
	add("status", step.Status)
	add("start", step.Start)
	add("duration", step.Duration)
	if step.Epic != "" {
		id, err := st.resolve(step.Epic)
		if err != nil {
			return Fields{}, err
		}
		add("epic", strconv.FormatInt(id, 10))
	}
	return ParseFields(args, st.Format)
}

// resolve turns an alias or numeric identity into an identity. Numeric
// identities are passed through even when nothing holds them yet.
func (st *run) resolve(name string) (int64, error) {
	if id, ok := st.aliases[name]; ok {
		return id, nil
	}
	if id, err := strconv.ParseInt(name, 10, 64); err == nil {
		return id, nil
	}
	return 0, fmt.Errorf("%w: unknown alias %q", ErrInvalidScenario, name)
}

// peek finds an item without recording it in history.
func (st *run) peek(id int64) (tasks.Item, bool) {
	item, err := st.m.Lookup(id)
	return item, err == nil
}

func (st *run) checkError(step Step, err error) []string {
	switch {
	case step.ExpectError == "" && err != nil:
		return []string{fmt.Sprintf("unexpected error: %v", err)}
	case step.ExpectError == "":
		return nil
	case err == nil:
		return []string{fmt.Sprintf("expected error %s, got none", step.ExpectError)}
	case step.ExpectError == "any":
		return nil
	case !errors.Is(err, errorCodes[step.ExpectError]):
		return []string{fmt.Sprintf("expected error %s, got %v", step.ExpectError, err)}
	}
	return nil
}

func (st *run) checkState(step Step) ([]string, error) {
	var failures []string
	fail := func(format string, args ...any) {
		failures = append(failures, fmt.Sprintf(format, args...))
	}

	needsTarget := step.ExpectStatus != "" || step.ExpectStart != "" || step.ExpectEnd != "" || step.ExpectSubTasks != nil
	if needsTarget {
		name := step.target()
		if name == "" {
			return nil, fmt.Errorf("%w: item expectations need as or ref", ErrInvalidScenario)
		}
		id, err := st.resolve(name)
		if err != nil {
			return nil, err
		}
		item, ok := st.peek(id)
		if !ok {
			fail("item %s (%d) does not exist", name, id)
		} else {
			f, err := st.itemFailures(step, item)
			if err != nil {
				return nil, err
			}
			failures = append(failures, f...)
		}
	}

	if step.ExpectOrder != nil {
		want, err := st.resolveAll(step.ExpectOrder)
		if err != nil {
			return nil, err
		}
		if got := itemIDs(st.m.PrioritizedTasks()); !slices.Equal(got, want) {
			fail("prioritized order: expected %v, got %v", want, got)
		}
	}
	if step.ExpectHistory != nil {
		want, err := st.resolveAll(step.ExpectHistory)
		if err != nil {
			return nil, err
		}
		if got := itemIDs(st.m.History()); !slices.Equal(got, want) {
			fail("history: expected %v, got %v", want, got)
		}
	}
	return failures, nil
}

func (st *run) itemFailures(step Step, item tasks.Item) ([]string, error) {
	var failures []string
	fail := func(format string, args ...any) {
		failures = append(failures, fmt.Sprintf(format, args...))
	}

	if step.ExpectStatus != "" {
		want := tasks.Status(strings.ToUpper(step.ExpectStatus))
		if got := statusOf(item); got != want {
			fail("status of %s: expected %s, got %s", step.target(), want, got)
		}
	}

	w, timed := item.Window()
	check := func(label, expect string, got time.Time) error {
		if expect == "" {
			return nil
		}
		if strings.EqualFold(expect, "none") {
			if timed {
				fail("%s of %s: expected none, got %s", label, step.target(), st.Format.Format(got))
			}
			return nil
		}
		want, err := st.Format.Parse(expect)
		if err != nil {
			return fmt.Errorf("%w: expect_%s: %w", ErrInvalidScenario, label, err)
		}
		if !timed {
			fail("%s of %s: expected %s, got none", label, step.target(), st.Format.Format(want))
		} else if !got.Equal(want) {
			fail("%s of %s: expected %s, got %s", label, step.target(), st.Format.Format(want), st.Format.Format(got))
		}
		return nil
	}
	if err := check("start", step.ExpectStart, w.Start); err != nil {
		return nil, err
	}
	if err := check("end", step.ExpectEnd, w.End); err != nil {
		return nil, err
	}

	if step.ExpectSubTasks != nil {
		want, err := st.resolveAll(step.ExpectSubTasks)
		if err != nil {
			return nil, err
		}
		subs, err := st.m.EpicSubTasks(item.ItemID())
		if err != nil {
			fail("subtasks of %s: %v", step.target(), err)
		} else {
			got := make([]int64, 0, len(subs))
			for _, s := range subs {
				got = append(got, s.ID)
			}
			if !slices.Equal(got, want) {
				fail("subtasks of %s: expected %v, got %v", step.target(), want, got)
			}
		}
	}
	return failures, nil
}

func (st *run) resolveAll(names []string) ([]int64, error) {
	out := make([]int64, 0, len(names))
	for _, name := range names {
		id, err := st.resolve(name)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func statusOf(item tasks.Item) tasks.Status {
	switch v := item.(type) {
	case *tasks.Task:
		return v.Status
	case *tasks.Epic:
		return v.Status
	case *tasks.SubTask:
		return v.Status
	}
	return ""
}

func itemIDs(items []tasks.Item) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ItemID())
	}
	return out
}
