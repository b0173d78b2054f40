package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coretide/codearmor/internal/config"
	"github.com/coretide/codearmor/internal/orchestrator"
)

// quietConfig turns off the git features so fixtures need no repository.
const quietConfig = "enableGitHooks: false\nenableVersionFromGit: false\n"

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
	writeFile(t, dir, config.FileName, quietConfig)
	writeFile(t, dir, "settings.gradle", "rootProject.name = 'orders'\n")
	writeFile(t, dir, "build.gradle", "plugins {\n    id 'java'\n    id 'application'\n}\n\ngroup = 'dev.shop'\n")
	writeFile(t, dir, "src/main/java/dev/shop/App.java", "package dev.shop;\nclass App {}\n")
	return dir
}

// multiModule lays out a Kotlin service and a Java library under one root.
func multiModule(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, config.FileName, quietConfig)
	writeFile(t, dir, "settings.gradle.kts", "rootProject.name = \"shop\"\ninclude(\"api\", \"lib\")\n")
	writeFile(t, dir, "build.gradle.kts", "group = \"dev.shop\"\n")
	writeFile(t, dir, "api/build.gradle.kts", "plugins {\n    kotlin(\"jvm\")\n    id(\"org.springframework.boot\") version \"3.3.0\"\n}\n")
	writeFile(t, dir, "api/src/main/kotlin/dev/shop/Api.kt", "package dev.shop\n")
	writeFile(t, dir, "lib/build.gradle", "plugins {\n    id 'java-library'\n}\n")
	writeFile(t, dir, "lib/src/main/java/dev/shop/Lib.java", "package dev.shop;\n")
	return dir
}

// testContext builds a Context over dir the way the root command does,
// with output captured in the returned buffer.
func testContext(t *testing.T, dir string) (*orchestrator.Context, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	c, err := newContext(contextOptions{dir: dir}, &buf)
	require.NoError(t, err)
	c.Lookup = config.MapLookup(nil)
	return c, &buf
}
