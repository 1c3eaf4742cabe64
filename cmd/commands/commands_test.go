package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeScenario(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	writeScenario(t, dir, "ok.yaml", `
name: ok
steps:
  - op: create_task
    as: a
    title: A
    expect_status: NEW
`)
	missingConfig := filepath.Join(dir, "missing.jsonc")

	err := NewRootCommand().Run(context.Background(), []string{"tracker", "-c", missingConfig, "run", filepath.Join(dir, "*.yaml")})
	if err != nil {
		t.Fatalf("expected passing run, got %v", err)
	}

	writeScenario(t, dir, "bad.yaml", `
name: bad
steps:
  - op: create_task
    as: a
    title: A
    expect_status: DONE
`)
	err = NewRootCommand().Run(context.Background(), []string{"tracker", "-c", missingConfig, "run", filepath.Join(dir, "*.yaml")})
	if err == nil {
		t.Fatal("expected failing scenario to fail the run")
	}
}

func TestRunCommandNeedsArgs(t *testing.T) {
	err := NewRootCommand().Run(context.Background(), []string{"tracker", "run"})
	if err == nil {
		t.Fatal("expected usage error")
	}
}

func TestRunCommandBrokenConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.jsonc")
	if err := os.WriteFile(configPath, []byte(`{"log": `), 0o644); err != nil {
		t.Fatal(err)
	}
	writeScenario(t, dir, "ok.yaml", "steps:\n  - op: check\n")

	err := NewRootCommand().Run(context.Background(), []string{"tracker", "-c", configPath, "run", filepath.Join(dir, "ok.yaml")})
	if err == nil {
		t.Fatal("expected broken config to be reported")
	}
}

func TestDemoCommand(t *testing.T) {
	missingConfig := filepath.Join(t.TempDir(), "missing.jsonc")
	if err := NewRootCommand().Run(context.Background(), []string{"tracker", "-c", missingConfig, "demo"}); err != nil {
		t.Fatal(err)
	}
}

func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TRACKER_PATH", dir)
	configPath := filepath.Join(dir, "config.jsonc")
	if err := os.WriteFile(configPath, []byte(`{"history": {"limit": 3}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := NewRootCommand().Run(context.Background(), []string{"tracker", "-c", configPath, "config"}); err != nil {
		t.Fatal(err)
	}
}
