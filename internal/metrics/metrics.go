// Package metrics records aggregate task runs into a RunSummary and prints
// the run summary box.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/coretide/codearmor/internal/types"
)

// MaxTaskHistory is how many task runs a summary keeps. Older entries are
// dropped and the totals cover the retained runs only.
const MaxTaskHistory = 100

// RecordTaskMetrics appends a TaskMetric for the finished task to
// summary.Tasks, drops entries beyond MaxTaskHistory and calls
// UpdateMetricTotals to refresh the totals.
//
// Callers treat a failure to persist the summary afterwards as a warning;
// the task outcome stands either way.
func RecordTaskMetrics(summary *types.RunSummary, task string, outcome types.Outcome, durationSeconds int) {
	summary.Tasks = append(summary.Tasks, types.TaskMetric{
		Task:            task,
		Outcome:         outcome,
		DurationSeconds: durationSeconds,
		CompletedAt:     time.Now().UTC().Format(time.RFC3339),
	})
	if n := len(summary.Tasks); n > MaxTaskHistory {
		summary.Tasks = append([]types.TaskMetric(nil), summary.Tasks[n-MaxTaskHistory:]...)
	}
	UpdateMetricTotals(summary)
}

// ResetForVersion clears the recorded runs when version differs from the
// version the summary was recorded for. It reports whether it reset.
func ResetForVersion(summary *types.RunSummary, version string) bool {
	if version == "" || summary.Version == "" || summary.Version == version {
		return false
	}
	*summary = types.RunSummary{Project: summary.Project}
	return true
}

// UpdateMetricTotals recalculates the totals from summary.Tasks. It
// overwrites previously stored totals, so it is safe to call repeatedly.
func UpdateMetricTotals(summary *types.RunSummary) {
	total, failures := 0, 0
	for _, t := range summary.Tasks {
		total += t.DurationSeconds
		if t.Outcome == types.OutcomeFailure {
			failures++
		}
	}
	summary.TotalTasksRun = len(summary.Tasks)
	summary.TotalFailures = failures
	summary.TotalDurationSeconds = total
}

// PrintRunSummary writes a box-draw table summarizing the latest task run
// and the totals so far.
func PrintRunSummary(w io.Writer, summary *types.RunSummary) {
	const line = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
	fmt.Fprintf(w, "\n%s\n", line)
	fmt.Fprintln(w, "CODEARMOR RUN SUMMARY")
	fmt.Fprintf(w, "%s\n", line)
	if n := len(summary.Tasks); n > 0 {
		last := summary.Tasks[n-1]
		fmt.Fprintf(w, "  %-22s %s\n", "Task:", last.Task)
		fmt.Fprintf(w, "  %-22s %s\n", "Outcome:", last.Outcome)
		fmt.Fprintf(w, "  %-22s %s\n", "Duration:", formatDuration(last.DurationSeconds))
	}
	if summary.Version != "" {
		fmt.Fprintf(w, "  %-22s %s\n", "Version:", summary.Version)
	}
	fmt.Fprintf(w, "  %-22s %d (%d failed)\n", "Runs Recorded:", summary.TotalTasksRun, summary.TotalFailures)
	fmt.Fprintf(w, "  %-22s %s\n", "Total Time:", formatDuration(summary.TotalDurationSeconds))
	fmt.Fprintf(w, "%s\n\n", line)
}

// formatDuration converts a duration in seconds to a human-readable string.
// Examples: "0s", "45s", "3m 15s", "1h 2m 30s".
func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "0s"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
