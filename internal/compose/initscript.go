package compose

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"

	"github.com/coretide/codearmor/internal/types"
)

// InitScriptPath is where `codearmor plan --write` places the init script,
// relative to the project root. Pass it to Gradle with --init-script.
const InitScriptPath = "build/codearmor/codearmor.init.gradle"

// ScriptOptions controls RenderInitScript.
type ScriptOptions struct {
	// Verbose includes aggregate completion notes in doLast blocks. Warnings
	// and action task output are always included.
	Verbose bool
	// TokenFilters maps a project path to the processResources token
	// replacement applied on that project.
	TokenFilters map[string]TokenFilter
	// Classpath lists the plugin artifacts the initscript block resolves
	// from the Gradle plugin portal.
	Classpath []string
	// Setup maps a project path to Groovy statements run on that project
	// before its tasks are registered. The statements refer to the project
	// as p.
	Setup map[string]string
}

// TokenFilter replaces @token@ markers in resources matching Patterns.
type TokenFilter struct {
	Patterns []string
	Tokens   map[string]string
}

type scriptProject struct {
	Path  string
	Tasks []types.TaskNode
}

var initScriptTmpl = template.Must(template.New("init").Funcs(template.FuncMap{
	"q":      GroovyString,
	"list":   GroovyList,
	"lines":  func(types.TaskNode) []string { return nil },
	"filter": func(string) *TokenFilter { return nil },
	"setup":  func(string) []string { return nil },
	"tokens": GroovyMap,
}).Parse(`// Generated by codearmor. Do not edit; run 'codearmor plan --write' to regenerate.
{{- if .Classpath}}
initscript {
    repositories {
        gradlePluginPortal()
    }
    dependencies {
{{- range .Classpath}}
        classpath {{q .}}
{{- end}}
    }
}
{{- end}}
gradle.allprojects { p ->
    p.afterEvaluate {
{{- range .Projects}}
        if (p.path == {{q .Path}}) {
{{- range setup .Path}}
            {{.}}
{{- end}}
{{- range .Tasks}}
            if (p.tasks.findByName({{q .Name}}) == null) p.tasks.register({{q .Name}}) { t ->
                t.group = {{q .Group}}
                t.description = {{q .Description}}
{{- if .DependsOn}}
                t.dependsOn({{list .DependsOn}})
{{- end}}
{{- $lines := lines .}}{{if $lines}}
                t.doLast {
{{- range $lines}}
                    println({{q .}})
{{- end}}
                }
{{- end}}
            }
{{- end}}
{{- with filter .Path}}
            p.tasks.matching { it.name == 'processResources' }.configureEach { t ->
                t.filesMatching([{{list .Patterns}}]) { d ->
                    d.filter([tokens: [{{tokens .Tokens}}]], org.apache.tools.ant.filters.ReplaceTokens)
                }
            }
{{- end}}
        }
{{- end}}
    }
}
`))

// RenderInitScript writes a Gradle init script that applies and configures
// the tool plugins on each project and registers every task in plan.
func RenderInitScript(w io.Writer, plan *types.Plan, opts ScriptOptions) error {
	var projects []scriptProject
	index := map[string]int{}
	for _, task := range plan.Tasks {
		path := task.Project
		if path == "" {
			path = ":"
		}
		i, ok := index[path]
		if !ok {
			i = len(projects)
			index[path] = i
			projects = append(projects, scriptProject{Path: path})
		}
		projects[i].Tasks = append(projects[i].Tasks, task)
	}

	tmpl, err := initScriptTmpl.Clone()
	if err != nil {
		return err
	}
	tmpl.Funcs(template.FuncMap{
		"lines": func(n types.TaskNode) []string {
			var out []string
			if opts.Verbose || n.Kind == types.TaskKindAction {
				out = append(out, n.Notes...)
			}
			return append(out, n.Warnings...)
		},
		"filter": func(path string) *TokenFilter {
			if f, ok := opts.TokenFilters[path]; ok {
				return &f
			}
			return nil
		},
		"setup": func(path string) []string {
			block := strings.TrimRight(opts.Setup[path], "\n")
			if block == "" {
				return nil
			}
			return strings.Split(block, "\n")
		},
	})

	data := struct {
		Classpath []string
		Projects  []scriptProject
	}{opts.Classpath, projects}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render init script: %w", err)
	}
	return nil
}

// GroovyString quotes s as a single-quoted Groovy string, which does not
// interpolate.
func GroovyString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`)
	return "'" + r.Replace(s) + "'"
}

// GroovyList renders items as comma-separated Groovy strings, without
// brackets.
func GroovyList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = GroovyString(item)
	}
	return strings.Join(quoted, ", ")
}

// GroovyMap renders m as Groovy map entries sorted by key, without
// brackets.
func GroovyMap(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = GroovyString(k) + ": " + GroovyString(m[k])
	}
	return strings.Join(pairs, ", ")
}
