package tools

import (
	"github.com/coretide/codearmor/internal/log"
)

// applicationFilePatterns are the resources whose @token@ markers are
// replaced by processResources.
var applicationFilePatterns = []string{
	"**/application.yaml",
	"**/application.yml",
	"**/application.properties",
	"**/application-*.yaml",
	"**/application-*.yml",
	"**/application-*.properties",
}

// ResourceSettings is the processResources token replacement.
type ResourceSettings struct {
	Patterns []string          `yaml:"patterns"`
	Tokens   map[string]string `yaml:"tokens"`
}

func resolveResources(pc ProjectContext, l *log.Logger) *ResourceSettings {
	commit := pc.Commit
	if commit == "" {
		commit = "unknown"
	}
	s := &ResourceSettings{
		Patterns: applicationFilePatterns,
		Tokens: map[string]string{
			"appVersion": pc.Version,
			"gitVersion": commit,
		},
	}
	l.Verbose("📝 Resource processing configured with tokens:")
	l.Verbosef("   • appVersion: %s", pc.Version)
	l.Verbosef("   • gitVersion: %s", commit)
	return s
}
