package orchestrator_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coretide/codearmor/internal/config"
	"github.com/coretide/codearmor/internal/log"
	"github.com/coretide/codearmor/internal/orchestrator"
)

// fakeBuild records Run calls instead of starting Gradle.
type fakeBuild struct {
	initialized bool
	runs        [][]string
	buildErr    error
	testErr     error
	runErr      error
}

func (f *fakeBuild) Build(context.Context) error { return f.buildErr }
func (f *fakeBuild) Test(context.Context) error  { return f.testErr }
func (f *fakeBuild) IsInitialized() bool         { return f.initialized }

func (f *fakeBuild) Run(_ context.Context, args ...string) error {
	f.runs = append(f.runs, args)
	return f.runErr
}

// writeFile creates root/rel with content, making parent directories.
func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// javaApp lays out a single-module Java application.
func javaApp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "settings.gradle.kts", `rootProject.name = "orders"`+"\n")
	writeFile(t, dir, "build.gradle.kts", `plugins {
    id("java")
    id("application")
}

group = "dev.shop"
`)
	writeFile(t, dir, "src/main/java/dev/shop/App.java", "package dev.shop;\nclass App {}\n")
	writeFile(t, dir, "src/main/resources/application.yml", "version: @appVersion@\n")
	return dir
}

// workspace lays out a multi-module build with a Kotlin service, a Java
// library and a bom that must be ignored.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "settings.gradle.kts", `rootProject.name = "shop"
include("api", "lib", "bom")
`)
	writeFile(t, dir, "build.gradle.kts", `group = "dev.shop"`+"\n")
	writeFile(t, dir, "api/build.gradle.kts", `plugins {
    kotlin("jvm")
    id("org.springframework.boot") version "3.3.0"
}
`)
	writeFile(t, dir, "api/src/main/kotlin/dev/shop/Api.kt", "package dev.shop\n")
	writeFile(t, dir, "lib/build.gradle", "plugins {\n    id 'java-library'\n}\n")
	writeFile(t, dir, "lib/src/main/java/dev/shop/Lib.java", "package dev.shop;\n")
	writeFile(t, dir, "bom/build.gradle.kts", "plugins { `java-platform` }\n")
	return dir
}

// newContext returns a Context over dir with git features off, a fake build
// and a logger writing to the returned buffer.
func newContext(t *testing.T, dir string, mutate func(*config.Config)) (*orchestrator.Context, *fakeBuild, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.EnableGitHooks = false
	cfg.EnableVersionFromGit = false
	if mutate != nil {
		mutate(cfg)
	}
	var buf bytes.Buffer
	fb := &fakeBuild{initialized: true}
	return &orchestrator.Context{
		ProjectRoot: dir,
		Config:      cfg,
		Log:         log.New(log.LevelEssential, &buf),
		Lookup:      config.MapLookup(nil),
		BuildSystem: fb,
	}, fb, &buf
}
