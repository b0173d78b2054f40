package cmd

import (
	"github.com/spf13/cobra"

	"github.com/coretide/codearmor/internal/exclusion"
	"github.com/coretide/codearmor/internal/orchestrator"
)

var exclusionsFlags struct {
	verbose bool
}

var exclusionsCmd = &cobra.Command{
	Use:   "exclusions",
	Short: "Show the coverage exclusion patterns",
	Long: "Print the logExclusionInfo report without invoking Gradle: default and user patterns,\n" +
		"the JaCoCo and SonarQube forms derived from them, and the coverage thresholds.",
	Args: cobra.NoArgs,
	RunE: runExclusions,
}

func init() {
	exclusionsCmd.Flags().BoolVar(&exclusionsFlags.verbose, "verbose", false, "list every pattern")
}

func runExclusions(cmd *cobra.Command, args []string) error {
	c, err := commandContext(cmd)
	if err != nil {
		return err
	}
	showExclusions(c, exclusionsFlags.verbose)
	return nil
}

func showExclusions(c *orchestrator.Context, verbose bool) {
	exclusion.Report(c.Log, c.Config, verbose)
}
