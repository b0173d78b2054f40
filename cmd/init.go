package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/coretide/codearmor/internal/config"
	"github.com/coretide/codearmor/internal/log"
	"github.com/coretide/codearmor/internal/scaffold"
)

var initFlags struct {
	force bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize codearmor in a Gradle project",
	Long: "Write a commented " + config.FileName + " with every option at its default, plus the default\n" +
		"Checkstyle, SpotBugs, OWASP and license header files under config/.",
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initFlags.force, "force", false, "Overwrite existing files")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := projectDir(rootFlags.dir)
	if err != nil {
		return err
	}
	level := log.LevelEssential
	if cmd.Flags().Changed("log-level") {
		if level, err = log.ParseLevel(rootFlags.logLevel); err != nil {
			return err
		}
	}
	return initProject(dir, initFlags.force, cmd.OutOrStdout(), log.New(level, cmd.OutOrStdout()))
}

// initProject is the testable core of the init command. It does not load
// codearmor.yaml, so a broken config can be replaced with --force.
func initProject(dir string, force bool, w io.Writer, l *log.Logger) error {
	created, err := scaffold.InitProject(dir, force, l)
	if err != nil {
		return err
	}
	if len(created) == 0 {
		l.Info("nothing to do, codearmor is already initialized")
		return nil
	}
	fmt.Fprintf(w, "\nproject initialized: edit %s, then run: codearmor run quickBuild\n", config.FileName)
	return nil
}
