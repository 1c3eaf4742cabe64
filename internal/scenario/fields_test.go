package scenario

import (
	"errors"
	"testing"
	"time"

	"github.com/dohr-michael/tracker/internal/config"
	"github.com/dohr-michael/tracker/internal/tasks"
)

var utc = config.TimeFormat{Layout: "2006-01-02 15:04", Location: time.UTC}

func TestParseFields(t *testing.T) {
	f, err := ParseFields([]string{
		"title=Write docs",
		"description=with = sign",
		"status=in_progress",
		"start=2024-03-01 10:00",
		"duration=90m",
		"epic=3",
		"id=12",
	}, utc)
	if err != nil {
		t.Fatal(err)
	}

	if f.ID != 12 || *f.Title != "Write docs" || *f.Description != "with = sign" {
		t.Errorf("unexpected text fields %+v", f)
	}
	if *f.Status != tasks.StatusInProgress {
		t.Errorf("expected IN_PROGRESS, got %s", *f.Status)
	}
	if !f.Start.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start %v", f.Start)
	}
	if *f.Duration != 90*time.Minute || *f.EpicID != 3 {
		t.Errorf("unexpected duration/epic %v / %v", *f.Duration, *f.EpicID)
	}
}

func TestParseFieldsErrors(t *testing.T) {
	for _, arg := range []string{"title", "colour=red", "duration=soon", "epic=x", "id=-1", "start=later"} {
		if _, err := ParseFields([]string{arg}, utc); err == nil {
			t.Errorf("%q: expected error", arg)
		} else if arg != "start=later" && !errors.Is(err, ErrBadField) {
			t.Errorf("%q: expected ErrBadField, got %v", arg, err)
		}
	}
}

func TestFieldsTaskMerge(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	base := tasks.Task{ID: 4, Title: "old", Description: "desc", Status: tasks.StatusNew, StartTime: &start, Duration: time.Hour}

	f, err := ParseFields([]string{"title=new", "start=none"}, utc)
	if err != nil {
		t.Fatal(err)
	}
	got := f.Task(base, 0)

	if got.ID != 4 || got.Title != "new" || got.Description != "desc" {
		t.Errorf("unexpected merge %+v", got)
	}
	if got.StartTime != nil {
		t.Errorf("expected start cleared, got %v", got.StartTime)
	}
	if base.StartTime == nil {
		t.Error("expected base to be left untouched")
	}
}

func TestFieldsDefaultDuration(t *testing.T) {
	f, err := ParseFields([]string{"start=2024-03-01 10:00"}, utc)
	if err != nil {
		t.Fatal(err)
	}
	if got := f.Task(tasks.Task{}, 30*time.Minute); got.Duration != 30*time.Minute {
		t.Errorf("expected default duration 30m, got %s", got.Duration)
	}

	f, err = ParseFields([]string{"title=untimed"}, utc)
	if err != nil {
		t.Fatal(err)
	}
	if got := f.Task(tasks.Task{}, 30*time.Minute); got.Duration != 0 {
		t.Errorf("expected untimed task to keep zero duration, got %s", got.Duration)
	}
}

func TestFieldsSubTaskAndEpic(t *testing.T) {
	f, err := ParseFields([]string{"title=child", "epic=7", "status=done"}, utc)
	if err != nil {
		t.Fatal(err)
	}

	sub := f.SubTask(tasks.SubTask{EpicID: 1}, 0)
	if sub.EpicID != 7 || sub.Title != "child" || sub.Status != tasks.StatusDone {
		t.Errorf("unexpected subtask %+v", sub)
	}

	epic := f.Epic(tasks.Epic{Task: tasks.Task{Status: tasks.StatusInProgress}})
	if epic.Title != "child" || epic.Status != tasks.StatusInProgress {
		t.Errorf("expected epic to take title only, got %+v", epic)
	}
}
