package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coretide/codearmor/internal/orchestrator"
)

var runFlags struct {
	preflight bool
	verbose   bool
}

var runCmd = &cobra.Command{
	Use:   "run <task> [-- gradle args...]",
	Short: "Run an aggregate task through Gradle",
	Long: "Run quickBuild, formatCode, codeQuality, fullAnalysis, logExclusionInfo, allCodeQuality,\n" +
		"or a module-qualified name such as :api:codeQuality. Arguments after -- go to Gradle.",
	Args: cobra.MinimumNArgs(1),
	RunE: runTask,
}

func init() {
	runCmd.Flags().BoolVar(&runFlags.preflight, "preflight", false, "run assemble and test before the task")
	runCmd.Flags().BoolVar(&runFlags.verbose, "verbose", false, "show detailed exclusion patterns for logExclusionInfo")
}

// runTask implements the "run" subcommand:
//  1. Build the context (config, env, flags).
//  2. CheckDependencies: a Gradle launcher, and git when git features are on.
//  3. Configure: scaffold missing tool files, write the init script and
//     install git hooks.
//  4. Optionally run the pre-flight assemble and test.
//  5. Run the task; the outcome is recorded in
//     build/reports/codearmor/run-summary.yaml.
func runTask(cmd *cobra.Command, args []string) error {
	task, gradleArgs := args[0], []string(nil)
	if dash := cmd.ArgsLenAtDash(); dash >= 0 {
		if dash != 1 {
			return fmt.Errorf("expected exactly one task before --, got %d", dash)
		}
		gradleArgs = args[dash:]
	} else if len(args) > 1 {
		return fmt.Errorf("expected one task, got %d; pass Gradle arguments after --", len(args))
	}

	c, err := commandContext(cmd)
	if err != nil {
		return err
	}
	if err := orchestrator.CheckDependencies(c.BuildSystem, c.Config); err != nil {
		return fmt.Errorf("dependency check failed: %w", err)
	}

	res, err := orchestrator.Configure(cmd.Context(), c)
	if err != nil {
		return err
	}
	if runFlags.preflight {
		if err := orchestrator.EnsureProjectReady(cmd.Context(), c.BuildSystem, c.Log); err != nil {
			return err
		}
	}
	return orchestrator.RunTask(cmd.Context(), c, res, task, orchestrator.RunOptions{
		GradleArgs: gradleArgs,
		Verbose:    runFlags.verbose,
	})
}
