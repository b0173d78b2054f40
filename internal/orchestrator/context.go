// Package orchestrator contains the configure pipeline behind every codearmor
// command: scanning and classifying the workspace, resolving tool settings,
// scaffolding defaults, composing the task plan, and running its tasks
// through Gradle.
package orchestrator

import (
	"path/filepath"

	"github.com/coretide/codearmor/internal/build"
	"github.com/coretide/codearmor/internal/config"
	"github.com/coretide/codearmor/internal/log"
	"github.com/coretide/codearmor/internal/state"
)

// Context carries what every command needs. It is built once by the root
// command after config loading and passed to the pipeline functions.
type Context struct {
	// Absolute path to the project root directory
	ProjectRoot string

	// Effective configuration (codearmor.yaml + env + CLI flags)
	Config *config.Config

	Log *log.Logger

	// Environment lookup; nil means os.LookupEnv
	Lookup config.LookupFunc

	// Gradle launcher for the project
	BuildSystem build.BuildSystem
}

// InitScriptPath is the absolute path of the generated Gradle init script.
func (c *Context) InitScriptPath() string {
	return filepath.Join(c.ProjectRoot, filepath.FromSlash(initScriptRel))
}

// SummaryPath is the absolute path of the run summary file.
func (c *Context) SummaryPath() string {
	return filepath.Join(c.ProjectRoot, filepath.FromSlash(state.SummaryPath))
}
