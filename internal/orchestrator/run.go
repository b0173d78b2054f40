package orchestrator

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/coretide/codearmor/internal/compose"
	"github.com/coretide/codearmor/internal/exclusion"
	"github.com/coretide/codearmor/internal/metrics"
	"github.com/coretide/codearmor/internal/state"
	"github.com/coretide/codearmor/internal/types"
)

// RunOptions tunes RunTask.
type RunOptions struct {
	// GradleArgs are passed to Gradle before the task name.
	GradleArgs []string
	// Verbose shows the detailed exclusion patterns for logExclusionInfo.
	Verbose bool
}

// NormalizeTaskName accepts a root task written with a leading colon
// (":codeQuality") and returns the plan's name for it.
func NormalizeTaskName(name string) string {
	if strings.Count(name, ":") == 1 && strings.HasPrefix(name, ":") {
		return name[1:]
	}
	return name
}

// GradleArgs returns the Gradle command line that runs nodes: the init
// script, the -D properties of the nodes' projects, the derived version,
// extra, then the tasks themselves. When nodes span several projects only
// the properties they agree on are passed; each project's own values come
// from the init script.
func GradleArgs(c *Context, res *Result, nodes []types.TaskNode, extra []string) []string {
	args := []string{"--init-script", c.InitScriptPath()}
	args = append(args, sharedSystemProperties(res, nodes)...)
	if res.Version != "" {
		args = append(args, "-Pversion="+res.Version)
	}
	args = append(args, extra...)

	// Root tasks are addressed absolutely so Gradle does not also run the
	// same-named task in every sub-project.
	for _, node := range nodes {
		target := node.QualifiedName()
		if !strings.HasPrefix(target, ":") {
			target = ":" + target
		}
		args = append(args, target)
	}
	return args
}

func sharedSystemProperties(res *Result, nodes []types.TaskNode) []string {
	var shared []string
	for i, node := range nodes {
		var props []string
		if p, ok := res.Find(node.Project); ok && p.Settings != nil {
			props = p.Settings.SystemProperties()
		}
		if i == 0 {
			shared = props
			continue
		}
		keep := map[string]bool{}
		for _, prop := range props {
			keep[prop] = true
		}
		shared = slices.DeleteFunc(shared, func(prop string) bool { return !keep[prop] })
	}
	return shared
}

// RunTask runs the named plan task. Action tasks run in-process; aggregates
// run through Gradle with the init script, and their outcome is recorded in
// the run summary. An unqualified name with no root task runs that task in
// every project that has it.
func RunTask(ctx context.Context, c *Context, res *Result, name string, opts RunOptions) error {
	name = NormalizeTaskName(name)
	deps, err := compose.Resolve(res.Plan, name)
	if err != nil {
		return err
	}
	nodes := res.Plan.Select(name)

	if nodes[0].Kind == types.TaskKindAction {
		exclusion.Report(c.Log, c.Config, opts.Verbose)
		return nil
	}

	label := nodes[0].QualifiedName()
	if len(nodes) > 1 {
		label = name
	}

	if _, err := WriteInitScript(c, res); err != nil {
		return err
	}
	c.Log.Section("🛡️ codearmor " + label)
	c.Log.Info("running " + strings.Join(deps, ", "))

	start := time.Now()
	runErr := c.BuildSystem.Run(ctx, GradleArgs(c, res, nodes, opts.GradleArgs)...)
	seconds := int(time.Since(start).Seconds())

	outcome := types.OutcomeSuccess
	if runErr != nil {
		outcome = types.OutcomeFailure
	}
	record(c, res, label, outcome, seconds)

	if runErr != nil {
		return fmt.Errorf("%s failed: %w", label, runErr)
	}
	c.Log.Success(label + " completed")
	return nil
}

// record appends the run to the summary file and prints the summary box.
// Persistence failures are logged, never returned.
func record(c *Context, res *Result, task string, outcome types.Outcome, seconds int) {
	path := c.SummaryPath()
	summary, err := state.LoadOrNew(path)
	if err != nil {
		c.Log.Warning(fmt.Sprintf("could not read run summary, starting a new one: %v", err))
		summary = &types.RunSummary{}
	}
	if metrics.ResetForVersion(summary, res.Version) {
		c.Log.Verbosef("📊 Version changed to %s, starting a new run summary", res.Version)
	}
	summary.Project = res.Workspace.Root.Name
	if res.Version != "" {
		summary.Version = res.Version
	}
	metrics.RecordTaskMetrics(summary, task, outcome, seconds)
	if err := state.SaveRunSummary(path, summary); err != nil {
		c.Log.Warning(fmt.Sprintf("could not save run summary: %v", err))
	}
	metrics.PrintRunSummary(c.Log.Writer(), summary)
}
