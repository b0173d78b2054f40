package orchestrator_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coretide/codearmor/internal/config"
	"github.com/coretide/codearmor/internal/orchestrator"
	"github.com/coretide/codearmor/internal/tools"
	"github.com/coretide/codearmor/internal/types"
)

func TestAnalyze_SingleModule(t *testing.T) {
	dir := javaApp(t)
	c, _, _ := newContext(t, dir, nil)

	res, err := orchestrator.Analyze(c)
	require.NoError(t, err)

	assert.False(t, res.Workspace.MultiModule)
	require.Len(t, res.Projects, 1)
	p := res.Projects[0]
	assert.Equal(t, "orders", p.Descriptor.Name)
	assert.Equal(t, types.JavaApplication, p.Type)
	assert.NotNil(t, p.Settings.Resources)
	assert.Equal(t, p, res.Root)

	assert.Equal(t, []string{"quickBuild", "formatCode", "codeQuality", "fullAnalysis", "logExclusionInfo"}, res.Plan.Names())
	info, ok := res.Plan.Find(types.TaskLogExclusionInfo)
	require.True(t, ok)
	assert.Contains(t, strings.Join(info.Notes, "\n"), "CodeArmor Exclusion Information")

	assert.NoFileExists(t, filepath.Join(dir, tools.DefaultCheckstyleConfig), "Analyze writes nothing")
}

func TestAnalyze_MultiModule(t *testing.T) {
	dir := workspace(t)
	c, _, _ := newContext(t, dir, nil)

	res, err := orchestrator.Analyze(c)
	require.NoError(t, err)

	assert.True(t, res.Workspace.MultiModule)
	require.Len(t, res.Projects, 2)
	assert.Equal(t, ":api", res.Projects[0].Descriptor.Path)
	assert.Equal(t, types.KotlinApplication, res.Projects[0].Type)
	assert.Equal(t, "dev.shop", res.Projects[0].Descriptor.Group)
	assert.Equal(t, types.JavaLibrary, res.Projects[1].Type)
	assert.Nil(t, res.Projects[0].Settings.Checkstyle)
	assert.NotNil(t, res.Projects[1].Settings.Checkstyle)

	all, ok := res.Plan.Find(types.TaskAllCodeQuality)
	require.True(t, ok)
	assert.Equal(t, []string{":api:codeQuality", ":lib:codeQuality"}, all.DependsOn)
	assert.False(t, res.Plan.Has(":bom:codeQuality"))

	root, ok := res.Find(":")
	require.True(t, ok)
	assert.Equal(t, "shop", root.Descriptor.Name)
	api, ok := res.Find(":api")
	require.True(t, ok)
	assert.Equal(t, "api", api.Descriptor.Name)
	_, ok = res.Find(":bom")
	assert.False(t, ok)
}

func TestAnalyze_ProjectTypeIgnoredWhileAutoDetecting(t *testing.T) {
	c, _, _ := newContext(t, javaApp(t), func(cfg *config.Config) { cfg.ProjectType = "kotlin_library" })

	res, err := orchestrator.Analyze(c)
	require.NoError(t, err)
	assert.Equal(t, types.JavaApplication, res.Projects[0].Type)
	assert.NotNil(t, res.Projects[0].Settings.Checkstyle)
}

func TestAnalyze_ProjectTypeOverride(t *testing.T) {
	c, _, _ := newContext(t, javaApp(t), func(cfg *config.Config) {
		cfg.AutoDetect = false
		cfg.ProjectType = "kotlin_library"
	})

	res, err := orchestrator.Analyze(c)
	require.NoError(t, err)
	assert.Equal(t, types.KotlinLibrary, res.Projects[0].Type)
	assert.Nil(t, res.Projects[0].Settings.Checkstyle)
}

func TestAnalyze_ProjectTypeNotAppliedToSubprojects(t *testing.T) {
	c, _, _ := newContext(t, workspace(t), func(cfg *config.Config) {
		cfg.AutoDetect = false
		cfg.ProjectType = "java_library"
	})

	res, err := orchestrator.Analyze(c)
	require.NoError(t, err)
	api, ok := res.Find(":api")
	require.True(t, ok)
	assert.Equal(t, types.KotlinApplication, api.Type)
}

func TestAnalyze_InvalidProjectType(t *testing.T) {
	c, _, _ := newContext(t, javaApp(t), func(cfg *config.Config) { cfg.ProjectType = "SCALA" })
	_, err := orchestrator.Analyze(c)
	assert.Error(t, err)
}

func TestAnalyze_AutoDetectOffWithoutType(t *testing.T) {
	c, _, out := newContext(t, javaApp(t), func(cfg *config.Config) { cfg.AutoDetect = false })
	res, err := orchestrator.Analyze(c)
	require.NoError(t, err)
	assert.Equal(t, types.JavaApplication, res.Projects[0].Type)
	assert.Contains(t, out.String(), "autoDetect is off")
}

func TestAnalyze_ForcedMultiModule(t *testing.T) {
	c, _, out := newContext(t, javaApp(t), func(cfg *config.Config) { cfg.MultiModule = true })
	res, err := orchestrator.Analyze(c)
	require.NoError(t, err)
	assert.True(t, res.Workspace.MultiModule)
	assert.Empty(t, res.Projects)
	assert.False(t, res.Plan.Has(types.TaskCodeQuality))
	assert.Empty(t, res.Plan.Tasks)
	assert.Contains(t, out.String(), "no configurable sub-projects")
}

func TestAnalyze_BomOnlyWorkspaceIsMultiModule(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "settings.gradle.kts", `rootProject.name = "platform"`+"\n"+`include("bom")`+"\n")
	writeFile(t, dir, "build.gradle.kts", "plugins { java }\n")
	writeFile(t, dir, "bom/build.gradle.kts", "plugins { `java-platform` }\n")
	c, _, _ := newContext(t, dir, nil)

	res, err := orchestrator.Analyze(c)
	require.NoError(t, err)
	assert.True(t, res.Workspace.MultiModule)
	assert.Empty(t, res.Workspace.Subprojects)
	assert.False(t, res.Plan.Has(types.TaskCodeQuality), "the root gets no single-module tasks")
	assert.Equal(t, "platform", res.Root.Descriptor.Name)
}

func TestAnalyze_VersionFromGit(t *testing.T) {
	dir := javaApp(t)
	c, _, _ := newContext(t, dir, func(cfg *config.Config) { cfg.EnableVersionFromGit = true })
	c.Lookup = config.MapLookup(map[string]string{"CI_COMMIT_TAG": "v3.1.0"})

	res, err := orchestrator.Analyze(c)
	require.NoError(t, err)
	assert.Equal(t, "3.1.0", res.Version)
	assert.Equal(t, "3.1.0", res.Projects[0].Settings.Resources.Tokens["appVersion"])
}

func TestConfigure_WritesFiles(t *testing.T) {
	dir := javaApp(t)
	c, _, _ := newContext(t, dir, nil)

	res, err := orchestrator.Configure(context.Background(), c)
	require.NoError(t, err)

	assert.NotEmpty(t, res.Scaffolded)
	assert.FileExists(t, filepath.Join(dir, tools.DefaultCheckstyleConfig))
	assert.FileExists(t, filepath.Join(dir, tools.DefaultSpotbugsExclude))

	script, err := os.ReadFile(c.InitScriptPath())
	require.NoError(t, err)
	assert.Contains(t, string(script), "p.tasks.register('codeQuality')")
	assert.Contains(t, string(script), "processResources")
	assert.Contains(t, string(script), "classpath '"+tools.SpotbugsPluginArtifact+"'")
	assert.Contains(t, string(script), "p.pluginManager.apply('checkstyle')")
	assert.Contains(t, string(script), "limit.minimum = new BigDecimal(")

	again, err := orchestrator.Configure(context.Background(), c)
	require.NoError(t, err)
	assert.Empty(t, again.Scaffolded)
}

func TestConfigure_InstallsHooks(t *testing.T) {
	dir := javaApp(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git", "hooks"), 0o755))
	c, _, _ := newContext(t, dir, func(cfg *config.Config) { cfg.EnableGitHooks = true })

	res, err := orchestrator.Configure(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, []string{"pre-commit", "pre-push"}, res.Hooks.Installed)
	assert.FileExists(t, filepath.Join(dir, ".git", "hooks", "pre-push"))
}

func TestConfigure_NoGitDirIsNotAnError(t *testing.T) {
	c, _, _ := newContext(t, javaApp(t), func(cfg *config.Config) { cfg.EnableGitHooks = true })
	res, err := orchestrator.Configure(context.Background(), c)
	require.NoError(t, err)
	assert.Empty(t, res.Hooks.Installed)
}

func TestConfigure_Cancelled(t *testing.T) {
	c, _, _ := newContext(t, javaApp(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := orchestrator.Configure(ctx, c)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokenFilters(t *testing.T) {
	c, _, _ := newContext(t, workspace(t), nil)
	res, err := orchestrator.Analyze(c)
	require.NoError(t, err)

	filters := orchestrator.TokenFilters(res)
	assert.Len(t, filters, 1, "only the Kotlin application processes resources")
	assert.Contains(t, filters, ":api")
}
