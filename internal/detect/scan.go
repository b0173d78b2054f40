package detect

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar"

	"github.com/coretide/codearmor/internal/types"
)

// Build and settings file names, Kotlin DSL first.
var (
	buildFileNames    = []string{"build.gradle.kts", "build.gradle"}
	settingsFileNames = []string{"settings.gradle.kts", "settings.gradle"}
)

// Source globs, matched against slash-separated paths relative to src/.
const (
	javaSourceGlob   = "**/*.java"
	kotlinSourceGlob = "**/*.kt"
)

// Sub-projects that never receive quality tasks.
var ignoredSubprojects = map[string]bool{"bom": true, "examples": true}

// Gradle plugin ids mapped onto capabilities.
const (
	pluginJava        = "java"
	pluginJavaLibrary = "java-library"
	pluginApplication = "application"
	pluginKotlinJVM   = "org.jetbrains.kotlin.jvm"
	pluginSpringBoot  = "org.springframework.boot"
)

var (
	// id("java"), id 'org.springframework.boot' version '3.3.0'
	pluginIDRe = regexp.MustCompile(`\bid\s*\(?\s*["']([\w.\-]+)["']`)
	// apply plugin: 'java'
	applyPluginRe = regexp.MustCompile(`apply\s*\(?\s*plugin\s*[:=]\s*["']([\w.\-]+)["']`)
	// kotlin("jvm")
	kotlinShorthandRe = regexp.MustCompile(`\bkotlin\s*\(\s*["']jvm["']\s*\)`)
	// alias(libs.plugins.spring.boot)
	aliasRe = regexp.MustCompile(`\balias\s*\(\s*libs\.plugins\.([\w.\-]+)\s*\)`)
	// bare `java`, application, `java-library` lines inside plugins {}
	barePluginRe = regexp.MustCompile("(?m)^\\s*`?([a-z][\\w\\-]*)`?\\s*$")
	groupRe      = regexp.MustCompile(`(?m)^\s*group\s*(?:=\s*)?["']([^"']+)["']`)
	pluginsRe    = regexp.MustCompile(`(?m)^\s*plugins\s*\{`)

	rootNameRe = regexp.MustCompile(`rootProject\.name\s*=\s*["']([^"']+)["']`)
	includeRe  = regexp.MustCompile(`(?m)^\s*include\b(.*)$`)
	quotedRe   = regexp.MustCompile(`["']([^"']+)["']`)
)

// Settings is what codearmor reads from settings.gradle(.kts).
type Settings struct {
	RootName string
	Includes []string // Gradle paths without the leading colon, e.g. "api", "libs:core"
}

// ScanProject builds the descriptor for the project in dir. name and path
// are the Gradle project name and path (":" for the root). A project with no
// build file yields a descriptor with HasBuildFile false.
func ScanProject(dir, name, path string) (types.Descriptor, error) {
	d := types.Descriptor{Name: name, Path: path, Dir: dir}

	content, found, err := readFirst(dir, buildFileNames)
	if err != nil {
		return d, err
	}
	if found {
		d.HasBuildFile = true
		d.Capabilities = ParseCapabilities(content)
		d.Group = parseGroup(content)
	}

	d.HasJavaFiles, d.HasKotlinFiles, err = scanSources(filepath.Join(dir, "src"))
	if err != nil {
		return d, fmt.Errorf("scan sources of %s: %w", name, err)
	}
	return d, nil
}

// ParseCapabilities extracts applied plugins from build script text.
func ParseCapabilities(script string) types.Capabilities {
	var c types.Capabilities
	apply := func(id string) {
		switch id {
		case pluginJava:
			c.Java = true
		case pluginJavaLibrary:
			c.JavaLibrary = true
		case pluginApplication:
			c.Application = true
		case pluginKotlinJVM:
			c.Kotlin = true
		case pluginSpringBoot:
			c.SpringBoot = true
		}
	}

	for _, m := range pluginIDRe.FindAllStringSubmatch(script, -1) {
		apply(m[1])
	}
	for _, m := range applyPluginRe.FindAllStringSubmatch(script, -1) {
		apply(m[1])
	}
	if kotlinShorthandRe.MatchString(script) {
		c.Kotlin = true
	}
	for _, m := range aliasRe.FindAllStringSubmatch(script, -1) {
		alias := strings.ReplaceAll(m[1], "-", ".")
		switch {
		case strings.Contains(alias, "spring.boot"):
			c.SpringBoot = true
		case strings.Contains(alias, "kotlin.jvm"):
			c.Kotlin = true
		}
	}
	if block, ok := pluginsBlock(script); ok {
		for _, m := range barePluginRe.FindAllStringSubmatch(block, -1) {
			apply(m[1])
		}
	}
	return c
}

// pluginsBlock returns the body of the first top-level plugins { } block.
func pluginsBlock(script string) (string, bool) {
	loc := pluginsRe.FindStringIndex(script)
	if loc == nil {
		return "", false
	}
	depth := 1
	start := loc[1]
	for i := start; i < len(script); i++ {
		switch script[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return script[start:i], true
			}
		}
	}
	return script[start:], true
}

func parseGroup(script string) string {
	if m := groupRe.FindStringSubmatch(script); m != nil {
		return m[1]
	}
	return ""
}

// scanSources walks srcDir looking for Java and Kotlin files, stopping once
// both have been seen. A missing srcDir is not an error.
func scanSources(srcDir string) (hasJava, hasKotlin bool, err error) {
	if _, statErr := os.Stat(srcDir); errors.Is(statErr, fs.ErrNotExist) {
		return false, false, nil
	}

	err = filepath.WalkDir(srcDir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			if path != srcDir && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(srcDir, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if !hasJava {
			if ok, _ := doublestar.Match(javaSourceGlob, rel); ok {
				hasJava = true
			}
		}
		if !hasKotlin {
			if ok, _ := doublestar.Match(kotlinSourceGlob, rel); ok {
				hasKotlin = true
			}
		}
		if hasJava && hasKotlin {
			return fs.SkipAll
		}
		return nil
	})
	return hasJava, hasKotlin, err
}

// ScanSettings reads settings.gradle(.kts) in root. A missing settings file
// yields an empty Settings.
func ScanSettings(root string) (Settings, error) {
	var s Settings
	content, found, err := readFirst(root, settingsFileNames)
	if err != nil || !found {
		return s, err
	}

	if m := rootNameRe.FindStringSubmatch(content); m != nil {
		s.RootName = m[1]
	}
	seen := map[string]bool{}
	for _, line := range includeRe.FindAllStringSubmatch(content, -1) {
		for _, q := range quotedRe.FindAllStringSubmatch(line[1], -1) {
			p := strings.TrimPrefix(q[1], ":")
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			s.Includes = append(s.Includes, p)
		}
	}
	return s, nil
}

// ScanWorkspace scans the root project and every included sub-project.
// Sub-projects named bom or examples, and those without a build file, are
// dropped after the multi-module decision is made.
func ScanWorkspace(root string) (types.Workspace, error) {
	var ws types.Workspace

	settings, err := ScanSettings(root)
	if err != nil {
		return ws, fmt.Errorf("read settings: %w", err)
	}
	rootName := settings.RootName
	if rootName == "" {
		abs, absErr := filepath.Abs(root)
		if absErr != nil {
			return ws, absErr
		}
		rootName = filepath.Base(abs)
	}

	ws.Root, err = ScanProject(root, rootName, ":")
	if err != nil {
		return ws, err
	}
	ws.MultiModule = IsMultiModule(settings)

	for _, include := range settings.Includes {
		segments := strings.Split(include, ":")
		name := segments[len(segments)-1]
		if ignoredSubprojects[name] {
			continue
		}
		sub, err := ScanProject(filepath.Join(root, filepath.Join(segments...)), name, ":"+include)
		if err != nil {
			return ws, err
		}
		if !sub.HasBuildFile {
			continue
		}
		if sub.Group == "" {
			sub.Group = ws.Root.Group
		}
		ws.Subprojects = append(ws.Subprojects, sub)
	}
	return ws, nil
}

// readFirst returns the content of the first existing file among names in dir.
func readFirst(dir string, names []string) (string, bool, error) {
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return string(data), true, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", false, fmt.Errorf("read %s: %w", name, err)
		}
	}
	return "", false, nil
}
