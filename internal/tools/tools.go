// Package tools resolves the per-tool configuration codearmor applies to a
// project: Checkstyle, SpotBugs, Spotless, JaCoCo, OWASP dependency-check,
// SonarQube, Veracode and resource token replacement.
//
// Settings are plain values. Disabled tools have nil sections. GradleSetup
// renders the plugin applications and extension configuration written into
// the init script; Sonar and OWASP settings also reach Gradle as -D system
// properties.
package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/coretide/codearmor/internal/config"
	"github.com/coretide/codearmor/internal/log"
	"github.com/coretide/codearmor/internal/types"
)

// Default file locations, relative to the project directory.
const (
	DefaultCheckstyleConfig      = "config/checkstyle/checkstyle.xml"
	DefaultCheckstyleSuppression = "config/checkstyle/suppressions.xml"
	DefaultSpotbugsExclude       = "config/spotbugs/spotbugs-exclude.xml"
	DefaultOwaspSuppression      = "config/owasp/suppressions.xml"
	DefaultLicenseHeader         = "config/spotless/license-header.txt"
)

// ProjectContext is what Resolve needs to know about one project.
type ProjectContext struct {
	Descriptor types.Descriptor
	Type       types.ProjectType
	Version    string
	Commit     string
}

// Settings is the resolved tool configuration for one project.
type Settings struct {
	Project    string              `yaml:"project"`
	Type       types.ProjectType   `yaml:"type"`
	Checkstyle *CheckstyleSettings `yaml:"checkstyle,omitempty"`
	Spotbugs   *SpotbugsSettings   `yaml:"spotbugs,omitempty"`
	Spotless   *SpotlessSettings   `yaml:"spotless,omitempty"`
	Jacoco     *JacocoSettings     `yaml:"jacoco,omitempty"`
	Owasp      *OwaspSettings      `yaml:"owasp,omitempty"`
	Sonar      *SonarSettings      `yaml:"sonar,omitempty"`
	Veracode   *VeracodeSettings   `yaml:"veracode,omitempty"`
	Resources  *ResourceSettings   `yaml:"resources,omitempty"`
}

// Resolve computes the settings for pc from cfg. lookup supplies environment
// variables; l receives the per-tool configuration lines.
func Resolve(pc ProjectContext, cfg *config.Config, lookup config.LookupFunc, l *log.Logger) *Settings {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	s := &Settings{Project: pc.Descriptor.Path, Type: pc.Type}

	if cfg.Checkstyle && pc.Type.HasJava() {
		s.Checkstyle = resolveCheckstyle(cfg, l)
	}
	if cfg.Spotbugs {
		s.Spotbugs = resolveSpotbugs(pc.Descriptor.Dir, cfg, l)
	}
	if cfg.Spotless {
		s.Spotless = resolveSpotless(pc, cfg, l)
	}
	if cfg.Jacoco {
		s.Jacoco = resolveJacoco(cfg, l)
	}
	if cfg.Owasp {
		s.Owasp = resolveOwasp(cfg, lookup, l)
	}
	if cfg.Sonarqube {
		s.Sonar = resolveSonar(pc, cfg, lookup, l)
	}
	if cfg.Veracode {
		s.Veracode = resolveVeracode(lookup, l)
	}
	if cfg.EnableResourceProcessing && (pc.Type == types.JavaApplication || pc.Type == types.KotlinApplication) {
		s.Resources = resolveResources(pc, l)
	}
	return s
}

// SystemProperties returns the -D arguments Gradle needs for the Sonar and
// OWASP settings, sorted by key.
func (s *Settings) SystemProperties() []string {
	props := map[string]string{}
	if s.Sonar != nil {
		for k, v := range s.Sonar.Properties {
			props[k] = v
		}
		if s.Sonar.token != "" {
			props["sonar.token"] = s.Sonar.token
		}
	}
	if s.Owasp != nil {
		for k, v := range s.Owasp.SystemProperties {
			props[k] = v
		}
		if s.Owasp.nvdAPIKey != "" {
			props["nvd.api.key"] = s.Owasp.nvdAPIKey
		}
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]string, 0, len(keys))
	for _, k := range keys {
		args = append(args, fmt.Sprintf("-D%s=%s", k, props[k]))
	}
	return args
}

// orDefault returns path when set, otherwise def.
func orDefault(path, def string) string {
	if path != "" {
		return path
	}
	return def
}

// exists reports whether rel (relative to dir unless absolute) exists.
func exists(dir, rel string) bool {
	p := rel
	if !filepath.IsAbs(p) {
		p = filepath.Join(dir, rel)
	}
	_, err := os.Stat(p)
	return err == nil
}
