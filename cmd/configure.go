package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/coretide/codearmor/internal/orchestrator"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Apply codearmor to the project without running Gradle",
	Long: "Scaffold missing tool config files, write the Gradle init script and install git hooks.\n" +
		"Pass the init script to your own Gradle invocations with --init-script.",
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

func runConfigure(cmd *cobra.Command, args []string) error {
	c, err := commandContext(cmd)
	if err != nil {
		return err
	}
	return configureProject(cmd.Context(), c, cmd.OutOrStdout())
}

func configureProject(ctx context.Context, c *orchestrator.Context, w io.Writer) error {
	res, err := orchestrator.Configure(ctx, c)
	if err != nil {
		return err
	}

	for _, path := range res.Scaffolded {
		c.Log.Success("created " + path)
	}
	for _, name := range res.Hooks.Preserved {
		c.Log.Info(name + " hook preserved")
	}
	c.Log.Success(fmt.Sprintf("configured %d project(s), %d tasks", len(res.Projects), len(res.Plan.Tasks)))
	fmt.Fprintf(w, "\ngradle --init-script %s <task>\n", c.InitScriptPath())
	return nil
}
