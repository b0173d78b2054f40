package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/coretide/codearmor/internal/orchestrator"
)

var detectFlags struct {
	format string
}

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Show the detected project classification",
	Long:  "Scan the build files and sources and print each project's classification.",
	Args:  cobra.NoArgs,
	RunE:  runDetect,
}

func init() {
	detectCmd.Flags().StringVar(&detectFlags.format, "format", "text", "output format (text|yaml)")
}

func runDetect(cmd *cobra.Command, args []string) error {
	c, err := commandContext(cmd)
	if err != nil {
		return err
	}
	return detectProject(c, cmd.OutOrStdout(), detectFlags.format)
}

// detectReport is the yaml shape of `codearmor detect`.
type detectReport struct {
	Root        string               `yaml:"root"`
	MultiModule bool                 `yaml:"multi_module"`
	Version     string               `yaml:"version,omitempty"`
	Projects    []detectProjectEntry `yaml:"projects"`
}

type detectProjectEntry struct {
	Name  string `yaml:"name"`
	Path  string `yaml:"path"`
	Type  string `yaml:"type"`
	Group string `yaml:"group,omitempty"`
}

// detectProject is the testable core of the detect command.
func detectProject(c *orchestrator.Context, w io.Writer, format string) error {
	res, err := orchestrator.Analyze(c)
	if err != nil {
		return err
	}

	report := detectReport{
		Root:        res.Workspace.Root.Name,
		MultiModule: res.Workspace.MultiModule,
		Version:     res.Version,
	}
	for _, p := range res.Projects {
		report.Projects = append(report.Projects, detectProjectEntry{
			Name:  p.Descriptor.Name,
			Path:  p.Descriptor.Path,
			Type:  string(p.Type),
			Group: p.Descriptor.Group,
		})
	}

	switch format {
	case "yaml":
		return yaml.NewEncoder(w).Encode(report)
	case "text", "":
		shape := "single-module"
		if report.MultiModule {
			shape = fmt.Sprintf("multi-module, %d modules", len(report.Projects))
		}
		fmt.Fprintf(w, "%s (%s)\n", report.Root, shape)
		for _, p := range res.Projects {
			fmt.Fprintf(w, "  %-20s %-12s %s\n", p.Descriptor.Name, p.Descriptor.Path, p.Type.DisplayName())
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q: supported formats are text and yaml", format)
	}
}
