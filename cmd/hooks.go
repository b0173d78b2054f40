package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coretide/codearmor/internal/git"
	"github.com/coretide/codearmor/internal/orchestrator"
)

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Install the git pre-commit and pre-push hooks",
	Long: "Install .git/hooks/pre-commit (codearmor run formatCode) and .git/hooks/pre-push\n" +
		"(codearmor run fullAnalysis) as enabled by preCommitEnabled and prePushEnabled.\n" +
		"Existing hooks with different content are left in place.",
	Args: cobra.NoArgs,
	RunE: runHooks,
}

func runHooks(cmd *cobra.Command, args []string) error {
	c, err := commandContext(cmd)
	if err != nil {
		return err
	}
	return installHooks(c)
}

// installHooks ignores enableGitHooks: running the command is the opt-in.
func installHooks(c *orchestrator.Context) error {
	opts := git.HookOptions{PreCommit: c.Config.PreCommitEnabled, PrePush: c.Config.PrePushEnabled}
	if !opts.PreCommit && !opts.PrePush {
		c.Log.Info("preCommitEnabled and prePushEnabled are both off, nothing to install")
		return nil
	}
	res, err := git.InstallHooks(c.ProjectRoot, opts, c.Log)
	if errors.Is(err, git.ErrNoHooksDir) {
		c.Log.Warning(fmt.Sprintf("no .git/hooks directory in %s, is this a git repository?", c.ProjectRoot))
		return nil
	}
	if err != nil {
		return err
	}
	for _, name := range res.Installed {
		c.Log.Success("installed " + name)
	}
	return nil
}
