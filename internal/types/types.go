// Package types defines the shared structs and typed constants used across
// codearmor: project classification, project descriptors, the composed task
// graph, and the run summary persisted after `codearmor run`.
package types

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Project classification
// ---------------------------------------------------------------------------

// ProjectType is the six-way classification of a buildable unit.
type ProjectType string

const (
	JavaApplication   ProjectType = "JAVA_APPLICATION"
	JavaLibrary       ProjectType = "JAVA_LIBRARY"
	KotlinApplication ProjectType = "KOTLIN_APPLICATION"
	KotlinLibrary     ProjectType = "KOTLIN_LIBRARY"
	MixedApplication  ProjectType = "MIXED_APPLICATION"
	MixedLibrary      ProjectType = "MIXED_LIBRARY"
)

// AllProjectTypes lists every classification in declaration order.
var AllProjectTypes = []ProjectType{
	JavaApplication,
	JavaLibrary,
	KotlinApplication,
	KotlinLibrary,
	MixedApplication,
	MixedLibrary,
}

var projectTypeNames = map[ProjectType]string{
	JavaApplication:   "Java Application",
	JavaLibrary:       "Java Library",
	KotlinApplication: "Kotlin Application",
	KotlinLibrary:     "Kotlin Library",
	MixedApplication:  "Mixed Application",
	MixedLibrary:      "Mixed Library",
}

// DisplayName returns the human-readable name, e.g. "Kotlin Library".
func (p ProjectType) DisplayName() string {
	if name, ok := projectTypeNames[p]; ok {
		return name
	}
	return string(p)
}

// Valid reports whether p is one of the six known classifications.
func (p ProjectType) Valid() bool {
	_, ok := projectTypeNames[p]
	return ok
}

// IsApplication reports whether p is one of the *_APPLICATION values.
func (p ProjectType) IsApplication() bool {
	return p == JavaApplication || p == KotlinApplication || p == MixedApplication
}

// HasJava reports whether Java sources are part of the classification (JAVA_* or MIXED_*).
func (p ProjectType) HasJava() bool {
	return p == JavaApplication || p == JavaLibrary || p == MixedApplication || p == MixedLibrary
}

// HasKotlin reports whether Kotlin sources are part of the classification (KOTLIN_* or MIXED_*).
func (p ProjectType) HasKotlin() bool {
	return p == KotlinApplication || p == KotlinLibrary || p == MixedApplication || p == MixedLibrary
}

// ParseProjectType accepts the enum spelling case-insensitively, with either
// underscores or hyphens ("kotlin-library").
func ParseProjectType(s string) (ProjectType, error) {
	norm := ProjectType(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")))
	if !norm.Valid() {
		return "", fmt.Errorf("unknown project type %q", s)
	}
	return norm, nil
}

// ---------------------------------------------------------------------------
// Project descriptors
// ---------------------------------------------------------------------------

// Capabilities records which Gradle plugins a build file applies.
type Capabilities struct {
	Java        bool `yaml:"java"`
	JavaLibrary bool `yaml:"java_library"`
	Application bool `yaml:"application"`
	Kotlin      bool `yaml:"kotlin"`
	SpringBoot  bool `yaml:"spring_boot"`
}

// Descriptor is a read-only snapshot of one buildable unit. It is produced by
// scanning and is never mutated by classification or task composition.
type Descriptor struct {
	Name           string       `yaml:"name"`
	Path           string       `yaml:"path"` // Gradle project path; ":" for the root
	Dir            string       `yaml:"dir"`
	Group          string       `yaml:"group,omitempty"`
	Capabilities   Capabilities `yaml:"capabilities"`
	HasJavaFiles   bool         `yaml:"has_java_files"`
	HasKotlinFiles bool         `yaml:"has_kotlin_files"`
	HasBuildFile   bool         `yaml:"has_build_file"`
}

// IsRoot reports whether d describes the root project.
func (d Descriptor) IsRoot() bool {
	return d.Path == "" || d.Path == ":"
}

// TaskPath qualifies a task name with the project path (":api:codeQuality").
// Root tasks are returned unqualified.
func (d Descriptor) TaskPath(task string) string {
	if d.IsRoot() {
		return task
	}
	return d.Path + ":" + task
}

// Workspace is a root project together with its configured sub-projects.
type Workspace struct {
	Root        Descriptor   `yaml:"root"`
	Subprojects []Descriptor `yaml:"subprojects,omitempty"`
	MultiModule bool         `yaml:"multi_module"`
}

// ---------------------------------------------------------------------------
// Task graph
// ---------------------------------------------------------------------------

// Aggregate task names registered by codearmor.
const (
	TaskQuickBuild       = "quickBuild"
	TaskFormatCode       = "formatCode"
	TaskCodeQuality      = "codeQuality"
	TaskFullAnalysis     = "fullAnalysis"
	TaskLogExclusionInfo = "logExclusionInfo"
	TaskAllCodeQuality   = "allCodeQuality"
)

// Underlying tool task names provided by Gradle and the third-party plugins.
const (
	ToolAssemble               = "assemble"
	ToolTest                   = "test"
	ToolSpotlessApply          = "spotlessApply"
	ToolSpotlessCheck          = "spotlessCheck"
	ToolCheckstyleMain         = "checkstyleMain"
	ToolCheckstyleTest         = "checkstyleTest"
	ToolSpotbugsMain           = "spotbugsMain"
	ToolJacocoReport           = "jacocoTestReport"
	ToolJacocoVerification     = "jacocoTestCoverageVerification"
	ToolSonar                  = "sonar"
	ToolDependencyCheckAnalyze = "dependencyCheckAnalyze"
	ToolVeracodeUpload         = "veracodeUpload"
)

// TaskKind distinguishes dependency-only aggregates from tasks that perform
// work themselves.
type TaskKind string

const (
	TaskKindAggregate TaskKind = "aggregate"
	TaskKindAction    TaskKind = "action"
)

// TaskNode is one task registered with the host build. DependsOn is ordered
// and holds task names, optionally project-qualified.
type TaskNode struct {
	Name        string   `yaml:"name"`
	Project     string   `yaml:"project"`
	Group       string   `yaml:"group"`
	Description string   `yaml:"description"`
	Kind        TaskKind `yaml:"kind"`
	DependsOn   []string `yaml:"depends_on,omitempty"`
	Notes       []string `yaml:"notes,omitempty"`    // verbose completion messages
	Warnings    []string `yaml:"warnings,omitempty"` // always shown at completion
}

// QualifiedName returns the project-qualified task name.
func (n TaskNode) QualifiedName() string {
	if n.Project == "" || n.Project == ":" {
		return n.Name
	}
	return n.Project + ":" + n.Name
}

// Plan is the composed task graph for a workspace, in registration order.
type Plan struct {
	Tasks []TaskNode `yaml:"tasks"`
}

// Find returns the node with the given (optionally project-qualified) name.
func (p *Plan) Find(name string) (TaskNode, bool) {
	for _, t := range p.Tasks {
		if t.QualifiedName() == name {
			return t, true
		}
	}
	return TaskNode{}, false
}

// Select returns the nodes a task name addresses on the command line. A
// node with exactly that qualified name wins; otherwise an unqualified name
// selects the same-named task of every project, in plan order.
func (p *Plan) Select(name string) []TaskNode {
	if n, ok := p.Find(name); ok {
		return []TaskNode{n}
	}
	if strings.Contains(name, ":") {
		return nil
	}
	var out []TaskNode
	for _, t := range p.Tasks {
		if t.Name == name {
			out = append(out, t)
		}
	}
	return out
}

// Has reports whether a node with the qualified name exists.
func (p *Plan) Has(name string) bool {
	_, ok := p.Find(name)
	return ok
}

// Names returns the qualified names of every node in order.
func (p *Plan) Names() []string {
	names := make([]string, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		names = append(names, t.QualifiedName())
	}
	return names
}

// ---------------------------------------------------------------------------
// Run summary (build/reports/codearmor/run-summary.yaml)
// ---------------------------------------------------------------------------

// Outcome is the result of running one aggregate task.
type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeFailure Outcome = "FAILURE"
)

// TaskMetric records the outcome of a single aggregate run.
type TaskMetric struct {
	Task            string  `yaml:"task"`
	Outcome         Outcome `yaml:"outcome"`
	DurationSeconds int     `yaml:"duration_seconds"`
	CompletedAt     string  `yaml:"completed_at"`
}

// RunSummary is the persisted record of `codearmor run` invocations.
type RunSummary struct {
	Project              string       `yaml:"project"`
	Version              string       `yaml:"version"`
	TotalTasksRun        int          `yaml:"total_tasks_run"`
	TotalFailures        int          `yaml:"total_failures"`
	TotalDurationSeconds int          `yaml:"total_duration_seconds"`
	Tasks                []TaskMetric `yaml:"tasks"`
}
