package state_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coretide/codearmor/internal/state"
	"github.com/coretide/codearmor/internal/types"
)

func summaryPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), state.SummaryPath)
}

func TestLoadRunSummary_NotFound(t *testing.T) {
	_, err := state.LoadRunSummary(summaryPath(t))
	assert.ErrorIs(t, err, state.ErrNotFound)
}

func TestLoadRunSummary_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run-summary.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tasks: [unclosed\n"), 0o644))

	_, err := state.LoadRunSummary(path)
	var perr *state.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, path, perr.Path)
	assert.Contains(t, err.Error(), "parse error in")
}

func TestSaveAndLoad(t *testing.T) {
	path := summaryPath(t)
	in := &types.RunSummary{
		Project:              "shop",
		Version:              "1.0.0",
		TotalTasksRun:        2,
		TotalFailures:        1,
		TotalDurationSeconds: 75,
		Tasks: []types.TaskMetric{
			{Task: "quickBuild", Outcome: types.OutcomeSuccess, DurationSeconds: 30, CompletedAt: "2026-10-19T10:00:00Z"},
			{Task: ":api:codeQuality", Outcome: types.OutcomeFailure, DurationSeconds: 45, CompletedAt: "2026-10-19T10:01:00Z"},
		},
	}

	require.NoError(t, state.SaveRunSummary(path, in))
	assert.NoFileExists(t, path+".tmp")

	out, err := state.LoadRunSummary(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSaveRunSummary_Overwrites(t *testing.T) {
	path := summaryPath(t)
	require.NoError(t, state.SaveRunSummary(path, &types.RunSummary{Project: "old"}))
	require.NoError(t, state.SaveRunSummary(path, &types.RunSummary{Project: "new"}))

	out, err := state.LoadRunSummary(path)
	require.NoError(t, err)
	assert.Equal(t, "new", out.Project)
}

func TestLoadOrNew(t *testing.T) {
	out, err := state.LoadOrNew(summaryPath(t))
	require.NoError(t, err)
	assert.Equal(t, &types.RunSummary{}, out)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n\t- nope"), 0o644))
	_, err = state.LoadOrNew(path)
	assert.Error(t, err)
}
