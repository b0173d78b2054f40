package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/coretide/codearmor/internal/compose"
	"github.com/coretide/codearmor/internal/orchestrator"
	"github.com/coretide/codearmor/internal/types"
)

var planFlags struct {
	format string
	write  bool
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the composed task graph",
	Long: "Print the aggregate tasks codearmor registers and the tool tasks each one runs.\n" +
		"With --write, also write the Gradle init script to " + compose.InitScriptPath + ".",
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planFlags.format, "format", "text", "output format (text|yaml|gradle)")
	planCmd.Flags().BoolVar(&planFlags.write, "write", false, "write the Gradle init script")
}

func runPlan(cmd *cobra.Command, args []string) error {
	c, err := commandContext(cmd)
	if err != nil {
		return err
	}
	return showPlan(c, cmd.OutOrStdout(), planFlags.format, planFlags.write)
}

// showPlan is the testable core of the plan command.
func showPlan(c *orchestrator.Context, w io.Writer, format string, write bool) error {
	res, err := orchestrator.Analyze(c)
	if err != nil {
		return err
	}

	switch format {
	case "text", "":
		if err := printPlan(w, res.Plan); err != nil {
			return err
		}
	case "yaml":
		if err := yaml.NewEncoder(w).Encode(res.Plan); err != nil {
			return err
		}
	case "gradle":
		if err := compose.RenderInitScript(w, res.Plan, orchestrator.InitScriptOptions(c.Log.IsVerbose(), res)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q: supported formats are text, yaml and gradle", format)
	}

	if write {
		path, err := orchestrator.WriteInitScript(c, res)
		if err != nil {
			return err
		}
		c.Log.Success("wrote " + path)
	}
	return nil
}

// printPlan lists every task with its direct dependencies and, for
// aggregates, the tool tasks it ultimately runs.
func printPlan(w io.Writer, plan *types.Plan) error {
	for _, task := range plan.Tasks {
		fmt.Fprintf(w, "%s  [%s]\n", task.QualifiedName(), task.Group)
		fmt.Fprintf(w, "    %s\n", task.Description)
		if task.Kind == types.TaskKindAction {
			fmt.Fprintln(w, "    runs: (in-process report)")
			continue
		}
		fmt.Fprintf(w, "    dependsOn: %s\n", strings.Join(task.DependsOn, ", "))
		resolved, err := compose.Resolve(plan, task.QualifiedName())
		if err != nil {
			return err
		}
		if strings.Join(resolved, ",") != strings.Join(task.DependsOn, ",") {
			fmt.Fprintf(w, "    runs: %s\n", strings.Join(resolved, ", "))
		}
		for _, warning := range task.Warnings {
			fmt.Fprintf(w, "    %s\n", warning)
		}
	}
	return nil
}
