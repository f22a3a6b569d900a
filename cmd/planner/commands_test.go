package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const planRequest = `
settings:
  start_date: "2026-10-12"
  end_date: "2026-10-16"
tasks:
  - id: research
    name: Research topic
    priority: 1
    estimated_duration_minutes: 60
  - id: write
    name: Write report
    priority: 2
    estimated_duration_minutes: 120
`

func writeRequest(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "request.yaml")
	require.NoError(t, os.WriteFile(path, []byte(planRequest), 0o600))

	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	errExecute := cmd.Execute()

	return out.String(), errExecute
}

func TestCommands(t *testing.T) {
	path := writeRequest(t)

	t.Run(
		"1. schedule yaml",
		func(t *testing.T) {
			output, errExecute := execute(t, "schedule", path)
			require.NoError(t, errExecute)
			require.Contains(t, output, "task_id: research")
			require.Contains(t, output, "total_scheduled_minutes: 180")
		},
	)

	t.Run(
		"2. schedule json",
		func(t *testing.T) {
			output, errExecute := execute(t, "schedule", path, "-o", "json")
			require.NoError(t, errExecute)
			require.Contains(t, output, `"task_id": "write"`)
		},
	)

	t.Run(
		"3. deps",
		func(t *testing.T) {
			output, errExecute := execute(t, "deps", path)
			require.NoError(t, errExecute)
			require.Contains(t, output, "write:")
			require.Contains(t, output, "- research")
		},
	)

	t.Run(
		"4. environment overrides defaults",
		func(t *testing.T) {
			t.Setenv("PLANNER_WORKDAY_END", "10:00")

			_, errExecute := execute(t, "schedule", path)
			require.NoError(t, errExecute)
		},
	)

	t.Run(
		"5. missing explicit config",
		func(t *testing.T) {
			_, errExecute := execute(t, "--config", filepath.Join(t.TempDir(), "none.yaml"), "schedule", path)
			require.Error(t, errExecute)
		},
	)

	t.Run(
		"6. missing request",
		func(t *testing.T) {
			_, errExecute := execute(t, "schedule", filepath.Join(t.TempDir(), "none.yaml"))
			require.Error(t, errExecute)
		},
	)
}
