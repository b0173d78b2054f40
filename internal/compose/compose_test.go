package compose_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coretide/codearmor/internal/compose"
	"github.com/coretide/codearmor/internal/config"
	"github.com/coretide/codearmor/internal/types"
)

var (
	noEnv    = config.MapLookup(nil)
	credsEnv = config.MapLookup(map[string]string{
		compose.EnvVeracodeUsername: "ci",
		compose.EnvVeracodePassword: "secret",
	})
	rootDesc = types.Descriptor{Name: "shop", Path: ":"}
)

func withToggles(t config.Toggles) *config.Config {
	cfg := config.Default()
	cfg.Toggles = t
	return cfg
}

func allOn() config.Toggles {
	return config.Toggles{Jacoco: true, Checkstyle: true, Spotbugs: true, Spotless: true, Owasp: true, Veracode: true, Sonarqube: true}
}

func find(t *testing.T, tasks []types.TaskNode, name string) (types.TaskNode, bool) {
	t.Helper()
	for _, task := range tasks {
		if task.Name == name {
			return task, true
		}
	}
	return types.TaskNode{}, false
}

func TestComposeProject_Defaults(t *testing.T) {
	tasks := compose.ComposeProject(rootDesc, types.JavaLibrary, config.Default(), noEnv)

	var names []string
	for _, task := range tasks {
		names = append(names, task.Name)
	}
	assert.Equal(t, []string{"quickBuild", "formatCode", "codeQuality", "fullAnalysis", "logExclusionInfo"}, names)

	quick, _ := find(t, tasks, types.TaskQuickBuild)
	assert.Equal(t, []string{"assemble", "test"}, quick.DependsOn)

	format, _ := find(t, tasks, types.TaskFormatCode)
	assert.Equal(t, []string{"spotlessApply"}, format.DependsOn)

	quality, _ := find(t, tasks, types.TaskCodeQuality)
	assert.Equal(t, []string{
		"checkstyleMain", "checkstyleTest", "spotlessCheck", "spotbugsMain",
		"jacocoTestReport", "jacocoTestCoverageVerification", "sonar",
	}, quality.DependsOn)

	full, _ := find(t, tasks, types.TaskFullAnalysis)
	assert.Equal(t, []string{"codeQuality", "dependencyCheckAnalyze"}, full.DependsOn)
	assert.Empty(t, full.Warnings)

	info, _ := find(t, tasks, types.TaskLogExclusionInfo)
	assert.Equal(t, types.TaskKindAction, info.Kind)
	assert.Empty(t, info.DependsOn)
}

func TestComposeProject_NoQualityToolsSkipsQualityTier(t *testing.T) {
	cfg := withToggles(config.Toggles{Owasp: true})
	tasks := compose.ComposeProject(rootDesc, types.JavaLibrary, cfg, noEnv)

	_, hasQuality := find(t, tasks, types.TaskCodeQuality)
	assert.False(t, hasQuality)
	_, hasFormat := find(t, tasks, types.TaskFormatCode)
	assert.False(t, hasFormat)

	full, ok := find(t, tasks, types.TaskFullAnalysis)
	require.True(t, ok)
	assert.Equal(t, []string{"dependencyCheckAnalyze"}, full.DependsOn)
}

func TestComposeProject_EveryQualityToggleOffForAnyType(t *testing.T) {
	for _, pt := range types.AllProjectTypes {
		tasks := compose.ComposeProject(rootDesc, pt, withToggles(config.Toggles{}), noEnv)
		_, hasQuality := find(t, tasks, types.TaskCodeQuality)
		assert.False(t, hasQuality, string(pt))
		_, hasFull := find(t, tasks, types.TaskFullAnalysis)
		assert.False(t, hasFull, string(pt))
	}
}

func TestComposeProject_KotlinNeverGetsCheckstyle(t *testing.T) {
	for _, pt := range []types.ProjectType{types.KotlinLibrary, types.KotlinApplication} {
		tasks := compose.ComposeProject(rootDesc, pt, withToggles(allOn()), credsEnv)
		quality, ok := find(t, tasks, types.TaskCodeQuality)
		require.True(t, ok)
		assert.NotContains(t, quality.DependsOn, types.ToolCheckstyleMain)
		assert.NotContains(t, quality.DependsOn, types.ToolCheckstyleTest)
	}
}

func TestComposeProject_CheckstyleOnlyKotlinHasNoQualityTier(t *testing.T) {
	cfg := withToggles(config.Toggles{Checkstyle: true})

	kotlin := compose.ComposeProject(rootDesc, types.KotlinLibrary, cfg, noEnv)
	_, ok := find(t, kotlin, types.TaskCodeQuality)
	assert.False(t, ok)

	mixed := compose.ComposeProject(rootDesc, types.MixedLibrary, cfg, noEnv)
	quality, ok := find(t, mixed, types.TaskCodeQuality)
	require.True(t, ok)
	assert.Equal(t, []string{"checkstyleMain", "checkstyleTest"}, quality.DependsOn)
}

func TestComposeProject_VeracodeCredentials(t *testing.T) {
	tests := []struct {
		name        string
		env         config.LookupFunc
		wantDeps    []string
		wantWarning bool
	}{
		{"both set", credsEnv, []string{"dependencyCheckAnalyze", "veracodeUpload"}, false},
		{"none set", noEnv, []string{"dependencyCheckAnalyze"}, true},
		{"username only", config.MapLookup(map[string]string{compose.EnvVeracodeUsername: "ci"}), []string{"dependencyCheckAnalyze"}, true},
		{"empty values count as set", config.MapLookup(map[string]string{compose.EnvVeracodeUsername: "", compose.EnvVeracodePassword: ""}), []string{"dependencyCheckAnalyze", "veracodeUpload"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := withToggles(config.Toggles{Owasp: true, Veracode: true})
			tasks := compose.ComposeProject(rootDesc, types.JavaLibrary, cfg, tt.env)

			full, ok := find(t, tasks, types.TaskFullAnalysis)
			require.True(t, ok)
			assert.Equal(t, tt.wantDeps, full.DependsOn)
			if tt.wantWarning {
				assert.Equal(t, []string{compose.VeracodeSkippedWarning}, full.Warnings)
			} else {
				assert.Empty(t, full.Warnings)
			}
		})
	}
}

func TestComposeProject_VeracodeOnlyWithoutCredentials(t *testing.T) {
	cfg := withToggles(config.Toggles{Veracode: true})
	tasks := compose.ComposeProject(rootDesc, types.JavaLibrary, cfg, noEnv)

	_, ok := find(t, tasks, types.TaskFullAnalysis)
	assert.False(t, ok, "an aggregate with no dependencies must not be created")
}

func TestComposeProject_NoAggregateIsEmpty(t *testing.T) {
	toggles := []config.Toggles{
		{},
		{Spotless: true},
		{Veracode: true},
		{Checkstyle: true, Veracode: true},
		allOn(),
	}
	for _, tg := range toggles {
		for _, pt := range types.AllProjectTypes {
			for _, env := range []config.LookupFunc{noEnv, credsEnv} {
				for _, task := range compose.ComposeProject(rootDesc, pt, withToggles(tg), env) {
					if task.Kind == types.TaskKindAggregate {
						assert.NotEmpty(t, task.DependsOn, "%s for %s %+v", task.Name, pt, tg)
					}
				}
			}
		}
	}
}

func TestComposeWorkspace_SingleModule(t *testing.T) {
	ws := types.Workspace{Root: rootDesc}
	plan := compose.ComposeWorkspace(ws, map[string]types.ProjectType{":": types.JavaApplication}, config.Default(), noEnv)

	assert.True(t, plan.Has("codeQuality"))
	assert.False(t, plan.Has("allCodeQuality"))
}

func TestComposeWorkspace_MultiModule(t *testing.T) {
	ws := types.Workspace{
		Root: rootDesc,
		Subprojects: []types.Descriptor{
			{Name: "api", Path: ":api"},
			{Name: "app", Path: ":app"},
		},
		MultiModule: true,
	}
	classes := map[string]types.ProjectType{":api": types.JavaLibrary, ":app": types.KotlinApplication}
	plan := compose.ComposeWorkspace(ws, classes, config.Default(), noEnv)

	assert.True(t, plan.Has(":api:codeQuality"))
	assert.True(t, plan.Has(":app:codeQuality"))
	assert.False(t, plan.Has("codeQuality"))

	all, ok := plan.Find("allCodeQuality")
	require.True(t, ok)
	assert.Equal(t, []string{":api:codeQuality", ":app:codeQuality"}, all.DependsOn)
}

func TestComposeWorkspace_MultiModuleWithoutQuality(t *testing.T) {
	ws := types.Workspace{
		Root:        rootDesc,
		Subprojects: []types.Descriptor{{Name: "api", Path: ":api"}},
		MultiModule: true,
	}
	plan := compose.ComposeWorkspace(ws, nil, withToggles(config.Toggles{Owasp: true}), noEnv)

	assert.False(t, plan.Has("allCodeQuality"))
	assert.True(t, plan.Has(":api:fullAnalysis"))
}

func TestResolve(t *testing.T) {
	ws := types.Workspace{
		Root:        rootDesc,
		Subprojects: []types.Descriptor{{Name: "api", Path: ":api"}},
		MultiModule: true,
	}
	cfg := withToggles(config.Toggles{Spotless: true, Jacoco: true, Owasp: true})
	plan := compose.ComposeWorkspace(ws, map[string]types.ProjectType{":api": types.JavaLibrary}, cfg, noEnv)

	got, err := compose.Resolve(plan, ":api:fullAnalysis")
	require.NoError(t, err)
	assert.Equal(t, []string{
		":api:spotlessCheck", ":api:jacocoTestReport", ":api:jacocoTestCoverageVerification",
		":api:dependencyCheckAnalyze",
	}, got)

	got, err = compose.Resolve(plan, "allCodeQuality")
	require.NoError(t, err)
	assert.Equal(t, []string{":api:spotlessCheck", ":api:jacocoTestReport", ":api:jacocoTestCoverageVerification"}, got)

	got, err = compose.Resolve(plan, ":api:logExclusionInfo")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = compose.Resolve(plan, "securityScan")
	assert.ErrorIs(t, err, compose.ErrUnknownTask)
	_, err = compose.Resolve(plan, ":lib:codeQuality")
	assert.ErrorIs(t, err, compose.ErrUnknownTask)
}

func TestResolve_BareNameSpansSubprojects(t *testing.T) {
	ws := types.Workspace{
		Root:        rootDesc,
		Subprojects: []types.Descriptor{{Name: "api", Path: ":api"}, {Name: "lib", Path: ":lib"}},
		MultiModule: true,
	}
	classes := map[string]types.ProjectType{":api": types.KotlinApplication, ":lib": types.JavaLibrary}
	plan := compose.ComposeWorkspace(ws, classes, withToggles(config.Toggles{Spotless: true}), noEnv)

	got, err := compose.Resolve(plan, "formatCode")
	require.NoError(t, err)
	assert.Equal(t, []string{":api:spotlessApply", ":lib:spotlessApply"}, got)
}

func TestRenderInitScript(t *testing.T) {
	cfg := withToggles(config.Toggles{Owasp: true, Veracode: true, Jacoco: true})
	plan := compose.ComposeWorkspace(types.Workspace{Root: rootDesc}, nil, cfg, noEnv)

	var buf bytes.Buffer
	require.NoError(t, compose.RenderInitScript(&buf, plan, compose.ScriptOptions{}))
	out := buf.String()

	assert.Contains(t, out, "if (p.path == ':') {")
	assert.Contains(t, out, "p.tasks.register('codeQuality')")
	assert.Contains(t, out, "t.dependsOn('jacocoTestReport', 'jacocoTestCoverageVerification')")
	assert.Contains(t, out, "t.dependsOn('codeQuality', 'dependencyCheckAnalyze')")
	assert.Contains(t, out, "println('"+compose.VeracodeSkippedWarning+"')")
	assert.NotContains(t, out, "Ready to push", "notes are verbose only")

	buf.Reset()
	require.NoError(t, compose.RenderInitScript(&buf, plan, compose.ScriptOptions{Verbose: true}))
	assert.Contains(t, buf.String(), "println('🚀 Ready to push to SCM!')")
}

func TestRenderInitScript_EscapesQuotes(t *testing.T) {
	plan := &types.Plan{Tasks: []types.TaskNode{{
		Name:        "quickBuild",
		Project:     ":",
		Description: "it's fast",
		Kind:        types.TaskKindAggregate,
		DependsOn:   []string{"assemble"},
	}}}

	var buf bytes.Buffer
	require.NoError(t, compose.RenderInitScript(&buf, plan, compose.ScriptOptions{}))
	assert.Contains(t, buf.String(), `t.description = 'it\'s fast'`)
}

func TestRenderInitScript_TokenFilters(t *testing.T) {
	ws := types.Workspace{
		Root:        rootDesc,
		Subprojects: []types.Descriptor{{Name: "api", Path: ":api"}, {Name: "lib", Path: ":lib"}},
		MultiModule: true,
	}
	plan := compose.ComposeWorkspace(ws, nil, config.Default(), noEnv)

	var buf bytes.Buffer
	require.NoError(t, compose.RenderInitScript(&buf, plan, compose.ScriptOptions{
		TokenFilters: map[string]compose.TokenFilter{
			":api": {
				Patterns: []string{"**/application.yml"},
				Tokens:   map[string]string{"gitVersion": "abc1234", "appVersion": "1.2.0"},
			},
		},
	}))
	out := buf.String()

	assert.Equal(t, 1, strings.Count(out, "processResources"))
	assert.Contains(t, out, "t.filesMatching(['**/application.yml'])")
	assert.Contains(t, out, "d.filter([tokens: ['appVersion': '1.2.0', 'gitVersion': 'abc1234']], org.apache.tools.ant.filters.ReplaceTokens)")

	api := strings.Index(out, "if (p.path == ':api')")
	lib := strings.Index(out, "if (p.path == ':lib')")
	filter := strings.Index(out, "processResources")
	require.True(t, api >= 0 && lib >= 0)
	assert.True(t, api < filter && filter < lib, "filter belongs to :api")
}

func TestRenderInitScript_PluginSetup(t *testing.T) {
	plan := compose.ComposeWorkspace(types.Workspace{Root: rootDesc}, nil, config.Default(), noEnv)

	var buf bytes.Buffer
	require.NoError(t, compose.RenderInitScript(&buf, plan, compose.ScriptOptions{
		Classpath: []string{"com.github.spotbugs.snom:spotbugs-gradle-plugin:6.2.2"},
		Setup:     map[string]string{":": "p.pluginManager.apply('checkstyle')\np.pluginManager.apply('jacoco')\n"},
	}))
	out := buf.String()

	assert.Contains(t, out, "initscript {\n    repositories {\n        gradlePluginPortal()\n    }")
	assert.Contains(t, out, "        classpath 'com.github.spotbugs.snom:spotbugs-gradle-plugin:6.2.2'")
	assert.Contains(t, out, "            p.pluginManager.apply('checkstyle')\n            p.pluginManager.apply('jacoco')\n")

	apply := strings.Index(out, "p.pluginManager.apply('checkstyle')")
	register := strings.Index(out, "p.tasks.register(")
	assert.True(t, apply < register, "plugins are applied before the aggregates depend on their tasks")
	assert.Less(t, strings.Index(out, "initscript {"), strings.Index(out, "gradle.allprojects"))
}

func TestRenderInitScript_NoClasspathNoInitscriptBlock(t *testing.T) {
	plan := compose.ComposeWorkspace(types.Workspace{Root: rootDesc}, nil, config.Default(), noEnv)

	var buf bytes.Buffer
	require.NoError(t, compose.RenderInitScript(&buf, plan, compose.ScriptOptions{}))
	assert.NotContains(t, buf.String(), "initscript {")
}
