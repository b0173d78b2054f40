package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/coretide/codearmor/internal/orchestrator"
	"github.com/coretide/codearmor/internal/tools"
)

var toolsFlags struct {
	project string
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Show the resolved tool settings",
	Long: "Print, as yaml, the Checkstyle, SpotBugs, Spotless, JaCoCo, OWASP, SonarQube, Veracode and\n" +
		"resource settings resolved for each project. Secrets are reported as set or unset only.",
	Args: cobra.NoArgs,
	RunE: runTools,
}

func init() {
	toolsCmd.Flags().StringVarP(&toolsFlags.project, "project", "p", "", "only this project path (e.g. :api)")
}

func runTools(cmd *cobra.Command, args []string) error {
	c, err := commandContext(cmd)
	if err != nil {
		return err
	}
	return showTools(c, cmd.OutOrStdout(), toolsFlags.project)
}

func showTools(c *orchestrator.Context, w io.Writer, project string) error {
	res, err := orchestrator.Analyze(c)
	if err != nil {
		return err
	}

	var settings []*tools.Settings
	if project != "" {
		p, ok := res.Find(project)
		if !ok {
			return fmt.Errorf("unknown project %q", project)
		}
		settings = append(settings, p.Settings)
	} else {
		for _, p := range res.Projects {
			settings = append(settings, p.Settings)
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(settings)
}
