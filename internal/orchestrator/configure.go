package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/coretide/codearmor/internal/compose"
	"github.com/coretide/codearmor/internal/detect"
	"github.com/coretide/codearmor/internal/exclusion"
	"github.com/coretide/codearmor/internal/git"
	"github.com/coretide/codearmor/internal/log"
	"github.com/coretide/codearmor/internal/scaffold"
	"github.com/coretide/codearmor/internal/tools"
	"github.com/coretide/codearmor/internal/types"
)

const initScriptRel = compose.InitScriptPath

// Project is one configured project: its scan, classification and resolved
// tool settings.
type Project struct {
	Descriptor types.Descriptor `yaml:"descriptor"`
	Type       types.ProjectType `yaml:"type"`
	Settings   *tools.Settings   `yaml:"settings"`
}

// Result is the outcome of Analyze or Configure.
type Result struct {
	Workspace types.Workspace `yaml:"workspace"`
	// Projects that receive tasks: the root in a single-module build,
	// every sub-project otherwise.
	Projects []Project `yaml:"projects"`
	// Root settings; in a multi-module build they only feed the -D
	// properties of root tasks.
	Root    Project     `yaml:"root"`
	Plan    *types.Plan `yaml:"plan"`
	Version string      `yaml:"version"`
	Commit  string      `yaml:"commit"`

	Scaffolded []string       `yaml:"scaffolded,omitempty"`
	Hooks      git.HookResult `yaml:"-"`
}

// Find returns the configured project at path (":" for the root).
func (r *Result) Find(path string) (Project, bool) {
	if path == "" || path == ":" {
		return r.Root, true
	}
	for _, p := range r.Projects {
		if p.Descriptor.Path == path {
			return p, true
		}
	}
	return Project{}, false
}

// Analyze scans and classifies the workspace, derives the version, resolves
// every project's tool settings and composes the plan. It writes nothing.
func Analyze(c *Context) (*Result, error) {
	cfg, l := c.Config, c.Log

	ws, err := detect.ScanWorkspace(c.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("scan workspace: %w", err)
	}
	if cfg.MultiModule && !ws.MultiModule {
		l.Verbose("ℹ️ multiModule is set, configuring sub-projects only")
		ws.MultiModule = true
	}
	if ws.MultiModule && len(ws.Subprojects) == 0 {
		l.Warning("multi-module build has no configurable sub-projects, no tasks will be registered")
	}

	res := &Result{Workspace: ws}
	if cfg.EnableVersionFromGit {
		res.Version = git.DeriveVersion(c.ProjectRoot, c.Lookup, l)
		l.Essential("📋 Project version set to: " + res.Version)
	}
	res.Commit = git.CommitHash(c.ProjectRoot)

	override, err := typeOverride(c, ws.MultiModule)
	if err != nil {
		return nil, err
	}

	configured := []types.Descriptor{ws.Root}
	if ws.MultiModule {
		configured = ws.Subprojects
		l.Essential(fmt.Sprintf("🏗️ Multi-module project detected with %d modules", len(ws.Subprojects)))
	}

	classes := map[string]types.ProjectType{}
	newProject := func(d types.Descriptor) Project {
		pt := detect.Classify(d)
		if override != "" && d.IsRoot() {
			pt = override
		}
		classes[d.Path] = pt
		l.Verbosef("🔍 Detected project type for %s: %s", d.Name, pt.DisplayName())
		pc := tools.ProjectContext{Descriptor: d, Type: pt, Version: res.Version, Commit: res.Commit}
		return Project{Descriptor: d, Type: pt, Settings: tools.Resolve(pc, cfg, c.Lookup, l)}
	}

	for _, d := range configured {
		res.Projects = append(res.Projects, newProject(d))
	}
	if ws.MultiModule {
		res.Root = newProject(ws.Root)
	} else {
		res.Root = res.Projects[0]
	}

	res.Plan = compose.ComposeWorkspace(ws, classes, cfg, c.Lookup)
	attachExclusionReport(res.Plan, c)
	return res, nil
}

// typeOverride returns the configured projectType when autoDetect is off,
// or "" to detect. Sub-projects are always detected, so a multi-module build
// ignores projectType.
func typeOverride(c *Context, multiModule bool) (types.ProjectType, error) {
	cfg := c.Config
	if cfg.ProjectType == "" {
		if !cfg.AutoDetect {
			c.Log.Warning("autoDetect is off but no projectType is set, detecting anyway")
		}
		return "", nil
	}
	pt, err := types.ParseProjectType(cfg.ProjectType)
	if err != nil {
		return "", err
	}
	switch {
	case cfg.AutoDetect:
		c.Log.Verbosef("ℹ️ autoDetect is on, ignoring projectType %s", pt)
		return "", nil
	case multiModule:
		c.Log.Verbosef("ℹ️ projectType %s is ignored for multi-module builds, sub-projects are detected", pt)
		return "", nil
	}
	c.Log.Verbosef("🔧 Using configured project type %s", pt)
	return pt, nil
}

// attachExclusionReport fills the logExclusionInfo nodes with the rendered
// exclusion report so the init script prints it.
func attachExclusionReport(plan *types.Plan, c *Context) {
	var buf bytes.Buffer
	exclusion.Report(log.New(c.Log.Level(), &buf), c.Config, false)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for i := range plan.Tasks {
		if plan.Tasks[i].Name == types.TaskLogExclusionInfo {
			plan.Tasks[i].Notes = lines
		}
	}
}

// Configure runs Analyze, then applies it to the project: scaffolds default
// tool files, writes the Gradle init script and installs git hooks.
func Configure(ctx context.Context, c *Context) (*Result, error) {
	res, err := Analyze(c)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, p := range res.Projects {
		created, err := scaffold.ForProject(p.Descriptor.Dir, p.Descriptor.Group, p.Settings, c.Log)
		if err != nil {
			return nil, fmt.Errorf("scaffold %s: %w", p.Descriptor.Name, err)
		}
		res.Scaffolded = append(res.Scaffolded, created...)
	}

	if _, err := WriteInitScript(c, res); err != nil {
		return nil, err
	}

	if c.Config.EnableGitHooks {
		res.Hooks, err = InstallHooks(c)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// InstallHooks installs the enabled git hooks. A missing .git/hooks directory
// is not an error.
func InstallHooks(c *Context) (git.HookResult, error) {
	opts := git.HookOptions{PreCommit: c.Config.PreCommitEnabled, PrePush: c.Config.PrePushEnabled}
	res, err := git.InstallHooks(c.ProjectRoot, opts, c.Log)
	if errors.Is(err, git.ErrNoHooksDir) {
		return res, nil
	}
	return res, err
}

// TokenFilters returns the processResources token replacement for every
// configured project that has one.
func TokenFilters(res *Result) map[string]compose.TokenFilter {
	filters := map[string]compose.TokenFilter{}
	for _, p := range res.Projects {
		if r := p.Settings.Resources; r != nil {
			filters[p.Descriptor.Path] = compose.TokenFilter{Patterns: r.Patterns, Tokens: r.Tokens}
		}
	}
	return filters
}

// InitScriptOptions collects the per-project plugin setup, the plugin
// classpath and the token filters for rendering res.Plan.
func InitScriptOptions(verbose bool, res *Result) compose.ScriptOptions {
	opts := compose.ScriptOptions{
		Verbose:      verbose,
		TokenFilters: TokenFilters(res),
		Setup:        map[string]string{},
	}
	settings := make([]*tools.Settings, 0, len(res.Projects))
	for _, p := range res.Projects {
		if p.Settings == nil {
			continue
		}
		settings = append(settings, p.Settings)
		if setup := p.Settings.GradleSetup(); setup != "" {
			opts.Setup[p.Descriptor.Path] = setup
		}
	}
	opts.Classpath = tools.Classpath(settings...)
	return opts
}

// WriteInitScript renders the plan to the init script location and returns
// its absolute path.
func WriteInitScript(c *Context, res *Result) (string, error) {
	path := c.InitScriptPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create directory for %s: %w", path, err)
	}

	var buf bytes.Buffer
	if err := compose.RenderInitScript(&buf, res.Plan, InitScriptOptions(c.Log.IsVerbose(), res)); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	c.Log.Verbosef("📝 Wrote Gradle init script %s", path)
	return path, nil
}
