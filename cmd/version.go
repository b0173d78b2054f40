package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/coretide/codearmor/internal/git"
	"github.com/coretide/codearmor/internal/orchestrator"
)

var versionFlags struct {
	commit bool
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the project version derived from git",
	Long: "Print the version codearmor passes to Gradle: the CI tag, the nearest v-tag\n" +
		"(with -SNAPSHOT when HEAD is past it), or " + git.DefaultVersion + ".\n" +
		"Use --version on the root command for the codearmor version itself.",
	Args: cobra.NoArgs,
	RunE: runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&versionFlags.commit, "commit", false, "also print the short commit hash")
}

func runVersion(cmd *cobra.Command, args []string) error {
	c, err := commandContext(cmd)
	if err != nil {
		return err
	}
	printVersion(c, cmd.OutOrStdout(), versionFlags.commit)
	return nil
}

func printVersion(c *orchestrator.Context, w io.Writer, commit bool) {
	v := git.DeriveVersion(c.ProjectRoot, c.Lookup, c.Log)
	if !commit {
		fmt.Fprintln(w, v)
		return
	}
	fmt.Fprintf(w, "%s (%s)\n", v, git.CommitHash(c.ProjectRoot))
}
