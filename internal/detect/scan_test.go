package detect_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coretide/codearmor/internal/detect"
	"github.com/coretide/codearmor/internal/types"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParseCapabilities(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   types.Capabilities
	}{
		{
			name: "kotlin dsl ids",
			script: `plugins {
    id("java-library")
    id("org.springframework.boot") version "3.3.0"
}`,
			want: types.Capabilities{JavaLibrary: true, SpringBoot: true},
		},
		{
			name: "kotlin dsl shorthand and bare plugins",
			script: "plugins {\n    `java-library`\n    application\n    kotlin(\"jvm\") version \"2.0.0\"\n}\n",
			want: types.Capabilities{JavaLibrary: true, Application: true, Kotlin: true},
		},
		{
			name: "groovy dsl",
			script: `plugins {
    id 'java'
    id 'org.jetbrains.kotlin.jvm' version '2.0.0'
}`,
			want: types.Capabilities{Java: true, Kotlin: true},
		},
		{
			name:   "legacy apply plugin",
			script: "apply plugin: 'application'\n",
			want:   types.Capabilities{Application: true},
		},
		{
			name:   "version catalog aliases",
			script: "plugins {\n    alias(libs.plugins.spring.boot)\n    alias(libs.plugins.kotlin.jvm)\n}\n",
			want:   types.Capabilities{SpringBoot: true, Kotlin: true},
		},
		{
			name:   "bare words outside plugins block are ignored",
			script: "dependencies {\n    java\n}\n",
			want:   types.Capabilities{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detect.ParseCapabilities(tt.script))
		})
	}
}

func TestScanProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "build.gradle.kts"), "plugins { id(\"java\") }\ngroup = \"dev.example\"\n")
	writeFile(t, filepath.Join(dir, "src/main/java/dev/example/App.java"), "class App {}")
	writeFile(t, filepath.Join(dir, "src/test/kotlin/dev/example/AppTest.kt"), "class AppTest")

	d, err := detect.ScanProject(dir, "shop", ":")
	require.NoError(t, err)

	assert.True(t, d.HasBuildFile)
	assert.True(t, d.Capabilities.Java)
	assert.True(t, d.HasJavaFiles)
	assert.True(t, d.HasKotlinFiles)
	assert.Equal(t, "dev.example", d.Group)
	assert.Equal(t, types.MixedLibrary, detect.Classify(d))
}

func TestScanProject_NoBuildFileNoSources(t *testing.T) {
	d, err := detect.ScanProject(t.TempDir(), "empty", ":empty")
	require.NoError(t, err)

	assert.False(t, d.HasBuildFile)
	assert.False(t, d.HasJavaFiles)
	assert.False(t, d.HasKotlinFiles)
}

func TestScanSettings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "settings.gradle"), `rootProject.name = 'shop'
include ':api', ':web'
include 'libs:core'
includeBuild 'build-logic'
`)

	s, err := detect.ScanSettings(dir)
	require.NoError(t, err)
	assert.Equal(t, "shop", s.RootName)
	assert.Equal(t, []string{"api", "web", "libs:core"}, s.Includes)
}

func TestScanWorkspace(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "settings.gradle.kts"), `rootProject.name = "shop"
include("api", "orders-service", "bom", "examples", "docs")
`)
	writeFile(t, filepath.Join(root, "build.gradle.kts"), "group = \"dev.shop\"\n")
	writeFile(t, filepath.Join(root, "api/build.gradle.kts"), "plugins { `java-library` }\n")
	writeFile(t, filepath.Join(root, "orders-service/build.gradle.kts"), "plugins { kotlin(\"jvm\") }\n")
	writeFile(t, filepath.Join(root, "bom/build.gradle.kts"), "plugins { `java-platform` }\n")
	writeFile(t, filepath.Join(root, "examples/build.gradle.kts"), "plugins { java }\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "docs"), 0o755))

	ws, err := detect.ScanWorkspace(root)
	require.NoError(t, err)

	assert.Equal(t, "shop", ws.Root.Name)
	assert.True(t, ws.MultiModule)
	require.Len(t, ws.Subprojects, 2)

	api, orders := ws.Subprojects[0], ws.Subprojects[1]
	assert.Equal(t, ":api", api.Path)
	assert.Equal(t, "dev.shop", api.Group)
	assert.Equal(t, types.JavaLibrary, detect.Classify(api))
	assert.Equal(t, ":orders-service", orders.Path)
	assert.Equal(t, types.KotlinApplication, detect.Classify(orders))
}

func TestScanWorkspace_OnlyIgnoredSubprojects(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "settings.gradle.kts"), `rootProject.name = "platform"
include("bom")
`)
	writeFile(t, filepath.Join(root, "build.gradle.kts"), "plugins { java }\n")
	writeFile(t, filepath.Join(root, "bom/build.gradle.kts"), "plugins { `java-platform` }\n")

	ws, err := detect.ScanWorkspace(root)
	require.NoError(t, err)
	assert.True(t, ws.MultiModule, "an included bom still makes the root multi-module")
	assert.Empty(t, ws.Subprojects)
}

func TestScanWorkspace_SingleModule(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "build.gradle"), "apply plugin: 'java'\n")

	ws, err := detect.ScanWorkspace(root)
	require.NoError(t, err)
	assert.False(t, ws.MultiModule)
	assert.Equal(t, filepath.Base(root), ws.Root.Name)
}
