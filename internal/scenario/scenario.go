// Package scenario loads YAML scenario files and replays them against a
// fresh task manager, checking the expectations attached to each step.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidScenario = errors.New("invalid scenario")
	ErrNoMatch         = errors.New("pattern matched no files")
)

// Op names a manager operation a step performs.
type Op string

const (
	OpCreateTask        Op = "create_task"
	OpCreateEpic        Op = "create_epic"
	OpCreateSubTask     Op = "create_subtask"
	OpUpdateTask        Op = "update_task"
	OpUpdateEpic        Op = "update_epic"
	OpUpdateSubTask     Op = "update_subtask"
	OpGet               Op = "get"
	OpDelete            Op = "delete"
	OpDeleteAllTasks    Op = "delete_all_tasks"
	OpDeleteAllEpics    Op = "delete_all_epics"
	OpDeleteAllSubTasks Op = "delete_all_subtasks"
	OpCheck             Op = "check" // expectations only
)

var knownOps = []Op{
	OpCreateTask, OpCreateEpic, OpCreateSubTask,
	OpUpdateTask, OpUpdateEpic, OpUpdateSubTask,
	OpGet, OpDelete,
	OpDeleteAllTasks, OpDeleteAllEpics, OpDeleteAllSubTasks,
	OpCheck,
}

// needsRef reports whether the op acts on an existing item.
func (o Op) needsRef() bool {
	switch o {
	case OpUpdateTask, OpUpdateEpic, OpUpdateSubTask, OpGet, OpDelete:
		return true
	}
	return false
}

// Scenario is a named sequence of steps.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`

	Path string `yaml:"-"`
}

// Step is one operation plus optional expectations checked right after it.
//
// Items are named with "as" when created and referenced with "ref"
// afterwards; "ref" and "epic" also accept numeric identities.
type Step struct {
	Op          Op     `yaml:"op"`
	As          string `yaml:"as,omitempty"`
	Ref         string `yaml:"ref,omitempty"`
	ID          int64  `yaml:"id,omitempty"`
	Title       string `yaml:"title,omitempty"`
	Description string `yaml:"description,omitempty"`
	Status      string `yaml:"status,omitempty"`
	Start       string `yaml:"start,omitempty"`
	Duration    string `yaml:"duration,omitempty"`
	Epic        string `yaml:"epic,omitempty"`

	ExpectError    string   `yaml:"expect_error,omitempty"` // error code, or "any"
	ExpectStatus   string   `yaml:"expect_status,omitempty"`
	ExpectStart    string   `yaml:"expect_start,omitempty"` // time, or "none"
	ExpectEnd      string   `yaml:"expect_end,omitempty"`   // time, or "none"
	ExpectOrder    []string `yaml:"expect_order,omitempty"`
	ExpectHistory  []string `yaml:"expect_history,omitempty"`
	ExpectSubTasks []string `yaml:"expect_subtasks,omitempty"`
}

// target returns the alias or identity the step's expectations refer to.
func (s Step) target() string {
	if s.Ref != "" {
		return s.Ref
	}
	return s.As
}

// Parse decodes a scenario document. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sc.Path = path
	if sc.Name == "" {
		sc.Name = path
	}
	return sc, nil
}

func (sc *Scenario) validate() error {
	if len(sc.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidScenario)
	}
	for i, step := range sc.Steps {
		if !slices.Contains(knownOps, step.Op) {
			return fmt.Errorf("%w: step %d: unknown op %q", ErrInvalidScenario, i+1, step.Op)
		}
		if step.Op.needsRef() && step.Ref == "" {
			return fmt.Errorf("%w: step %d: %s needs ref", ErrInvalidScenario, i+1, step.Op)
		}
		if step.ExpectError != "" && step.ExpectError != "any" {
			if _, ok := errorCodes[step.ExpectError]; !ok {
				return fmt.Errorf("%w: step %d: unknown error code %q", ErrInvalidScenario, i+1, step.ExpectError)
			}
		}
	}
	return nil
}

// Expand resolves glob patterns (with ** support) into a sorted list of
// files. Each pattern must match at least one file.
func Expand(patterns []string) ([]string, error) {
	var out []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%q: %w", pattern, ErrNoMatch)
		}
		out = append(out, matches...)
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}
