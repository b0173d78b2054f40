// Package compose decides which aggregate tasks a project gets and which tool
// tasks each aggregate depends on.
//
// Composition is a pure function of the classification, the feature toggles
// and, for Veracode only, whether credentials are present in the environment.
// An aggregate is never created with an empty dependency list.
package compose

import (
	"fmt"
	"strings"

	"github.com/coretide/codearmor/internal/config"
	"github.com/coretide/codearmor/internal/detect"
	"github.com/coretide/codearmor/internal/types"
)

// Veracode credential variables. Both must be present for veracodeUpload to
// join fullAnalysis.
const (
	EnvVeracodeUsername = "VERACODE_USERNAME"
	EnvVeracodePassword = "VERACODE_PASSWORD"
)

// VeracodeSkippedWarning is shown when fullAnalysis completes without the
// Veracode upload.
const VeracodeSkippedWarning = "⚠️ Veracode credentials not found - scan skipped"

// Task groups, as shown by `gradle tasks`.
const (
	groupBuild        = "build"
	groupFormatting   = "formatting"
	groupVerification = "verification"
)

// HasVeracodeCredentials reports whether both credential variables are set.
func HasVeracodeCredentials(lookup config.LookupFunc) bool {
	if lookup == nil {
		return false
	}
	_, user := lookup(EnvVeracodeUsername)
	_, pass := lookup(EnvVeracodePassword)
	return user && pass
}

// HasQualityTools reports whether the quality tier would have any dependency.
func HasQualityTools(t config.Toggles, pt types.ProjectType) bool {
	return t.Jacoco || (t.Checkstyle && detect.NeedsCheckstyle(pt)) || t.Spotbugs || t.Spotless || t.Sonarqube
}

// HasSecurityTools reports whether the full-analysis tier is requested.
func HasSecurityTools(t config.Toggles) bool {
	return t.Owasp || t.Veracode
}

// ComposeProject returns the tasks for one project in registration order:
// quickBuild, formatCode, codeQuality, fullAnalysis, logExclusionInfo.
func ComposeProject(d types.Descriptor, pt types.ProjectType, cfg *config.Config, lookup config.LookupFunc) []types.TaskNode {
	project := d.Path
	if project == "" {
		project = ":"
	}
	t := cfg.Toggles

	tasks := []types.TaskNode{quickBuild(project, d.Name)}

	if format, ok := formatCode(project, cfg, pt); ok {
		tasks = append(tasks, format)
	}

	quality, hasQuality := codeQuality(project, d.Name, t, pt)
	if hasQuality {
		tasks = append(tasks, quality)
	}

	if HasSecurityTools(t) {
		if full, ok := fullAnalysis(project, d.Name, t, hasQuality, HasVeracodeCredentials(lookup)); ok {
			tasks = append(tasks, full)
		}
	}

	tasks = append(tasks, types.TaskNode{
		Name:        types.TaskLogExclusionInfo,
		Project:     project,
		Group:       groupVerification,
		Description: "📋 Log coverage exclusion information for debugging",
		Kind:        types.TaskKindAction,
	})
	return tasks
}

func quickBuild(project, name string) types.TaskNode {
	return types.TaskNode{
		Name:        types.TaskQuickBuild,
		Project:     project,
		Group:       groupBuild,
		Description: "⚡ Fast development build (compile + test only, no quality checks)",
		Kind:        types.TaskKindAggregate,
		DependsOn:   []string{types.ToolAssemble, types.ToolTest},
		Notes: []string{
			"⚡ Quick build completed for " + name,
			"🚀 Ready for development (no quality checks)",
			"💡 Run 'codearmor run codeQuality' before pushing",
		},
	}
}

func formatCode(project string, cfg *config.Config, pt types.ProjectType) (types.TaskNode, bool) {
	if !cfg.Spotless {
		return types.TaskNode{}, false
	}
	var formatters []string
	if pt.HasJava() {
		formatters = append(formatters, strings.ToLower(cfg.JavaFormatter))
	}
	if pt.HasKotlin() {
		formatters = append(formatters, strings.ToLower(cfg.KotlinFormatter))
	}
	return types.TaskNode{
		Name:        types.TaskFormatCode,
		Project:     project,
		Group:       groupFormatting,
		Description: "⚡ Quick code formatting (development workflow)",
		Kind:        types.TaskKindAggregate,
		DependsOn:   []string{types.ToolSpotlessApply},
		Notes: []string{
			"✅ Code formatting completed successfully",
			"🎨 Spotless formatting applied using " + strings.Join(formatters, " and "),
		},
	}, true
}

func codeQuality(project, name string, t config.Toggles, pt types.ProjectType) (types.TaskNode, bool) {
	if !HasQualityTools(t, pt) {
		return types.TaskNode{}, false
	}
	node := types.TaskNode{
		Name:        types.TaskCodeQuality,
		Project:     project,
		Group:       groupVerification,
		Description: "🔍 All code quality checks",
		Kind:        types.TaskKindAggregate,
		Notes:       []string{"✅ Pre-push code quality checks completed for " + name},
	}
	checkstyle := t.Checkstyle && detect.NeedsCheckstyle(pt)

	if checkstyle {
		node.DependsOn = append(node.DependsOn, types.ToolCheckstyleMain, types.ToolCheckstyleTest)
	}
	if t.Spotless {
		node.DependsOn = append(node.DependsOn, types.ToolSpotlessCheck)
	}
	if t.Spotbugs {
		node.DependsOn = append(node.DependsOn, types.ToolSpotbugsMain)
	}
	if t.Jacoco {
		node.DependsOn = append(node.DependsOn, types.ToolJacocoReport, types.ToolJacocoVerification)
	}
	if t.Sonarqube {
		node.DependsOn = append(node.DependsOn, types.ToolSonar)
	}

	if t.Jacoco {
		node.Notes = append(node.Notes, "📊 JaCoCo coverage: build/reports/jacoco/test/html/index.html")
	}
	if t.Spotbugs {
		node.Notes = append(node.Notes, "📊 SpotBugs report: build/reports/spotbugs/main.html")
	}
	if checkstyle {
		node.Notes = append(node.Notes, "📊 Checkstyle report: build/reports/checkstyle/main.html")
	}
	if t.Sonarqube {
		node.Notes = append(node.Notes, "🔍 SonarQube analysis uploaded")
	}
	node.Notes = append(node.Notes, "🚀 Ready to push to SCM!")
	return node, true
}

func fullAnalysis(project, name string, t config.Toggles, hasQuality, veracodeCreds bool) (types.TaskNode, bool) {
	node := types.TaskNode{
		Name:        types.TaskFullAnalysis,
		Project:     project,
		Group:       groupVerification,
		Description: "🔒 Full security + quality analysis",
		Kind:        types.TaskKindAggregate,
		Notes:       []string{"✅ Full analysis completed for " + name},
	}
	if hasQuality {
		node.DependsOn = append(node.DependsOn, types.TaskCodeQuality)
	}
	if t.Owasp {
		node.DependsOn = append(node.DependsOn, types.ToolDependencyCheckAnalyze)
		node.Notes = append(node.Notes, "📊 OWASP report: build/reports/dependency-check/dependency-check-report.html")
	}
	if t.Veracode {
		if veracodeCreds {
			node.DependsOn = append(node.DependsOn, types.ToolVeracodeUpload)
			node.Notes = append(node.Notes, "🔍 Veracode scan uploaded")
		} else {
			node.Warnings = append(node.Warnings, VeracodeSkippedWarning)
		}
	}
	if len(node.DependsOn) == 0 {
		return types.TaskNode{}, false
	}
	node.Notes = append(node.Notes, "🎯 Complete analysis pipeline finished!")
	return node, true
}

// ComposeWorkspace composes every configured project of ws. classes maps a
// Gradle project path to its classification.
//
// A single-module workspace gets the root project's tasks. A multi-module
// workspace gets each sub-project's tasks plus a root allCodeQuality that
// depends on every sub-project codeQuality; allCodeQuality is omitted when no
// sub-project has one.
func ComposeWorkspace(ws types.Workspace, classes map[string]types.ProjectType, cfg *config.Config, lookup config.LookupFunc) *types.Plan {
	plan := &types.Plan{}

	if !ws.MultiModule {
		plan.Tasks = ComposeProject(ws.Root, classOf(classes, ws.Root), cfg, lookup)
		return plan
	}

	all := types.TaskNode{
		Name:        types.TaskAllCodeQuality,
		Project:     ":",
		Group:       groupVerification,
		Description: "Runs code quality checks on all modules",
		Kind:        types.TaskKindAggregate,
	}
	for _, sub := range ws.Subprojects {
		tasks := ComposeProject(sub, classOf(classes, sub), cfg, lookup)
		plan.Tasks = append(plan.Tasks, tasks...)
		for _, task := range tasks {
			if task.Name == types.TaskCodeQuality {
				all.DependsOn = append(all.DependsOn, sub.TaskPath(task.Name))
			}
		}
	}
	if len(all.DependsOn) > 0 {
		all.Notes = []string{fmt.Sprintf("✅ Code quality checks completed for %d modules", len(all.DependsOn))}
		plan.Tasks = append(plan.Tasks, all)
	}
	return plan
}

func classOf(classes map[string]types.ProjectType, d types.Descriptor) types.ProjectType {
	if pt, ok := classes[d.Path]; ok {
		return pt
	}
	return detect.Classify(d)
}
