package tools

import (
	"strings"

	"github.com/coretide/codearmor/internal/config"
	"github.com/coretide/codearmor/internal/log"
)

// CheckstyleSettings configures the checkstyle plugin.
type CheckstyleSettings struct {
	ToolVersion      string            `yaml:"toolVersion"`
	MaxWarnings      int               `yaml:"maxWarnings"`
	MaxErrors        int               `yaml:"maxErrors"`
	IgnoreFailures   bool              `yaml:"ignoreFailures"`
	ShowViolations   bool              `yaml:"showViolations"`
	ConfigFile       string            `yaml:"configFile"`
	SuppressionFile  string            `yaml:"suppressionFile"`
	ConfigProperties map[string]string `yaml:"configProperties"`
	Includes         []string          `yaml:"includes"`
	Excludes         []string          `yaml:"excludes"`
	XMLReport        bool              `yaml:"xmlReport"`
	HTMLReport       bool              `yaml:"htmlReport"`
	SarifReport      bool              `yaml:"sarifReport"`
}

func resolveCheckstyle(cfg *config.Config, l *log.Logger) *CheckstyleSettings {
	c := cfg.CheckstyleConfig
	s := &CheckstyleSettings{
		ToolVersion:     c.ToolVersion,
		MaxWarnings:     c.MaxWarnings,
		MaxErrors:       c.MaxErrors,
		IgnoreFailures:  c.IgnoreFailures,
		ShowViolations:  c.ShowViolations,
		ConfigFile:      orDefault(c.ConfigFile, DefaultCheckstyleConfig),
		SuppressionFile: orDefault(c.SuppressionFile, DefaultCheckstyleSuppression),
		Includes:        c.TargetIncludes,
		Excludes:        c.TargetExcludes,
		XMLReport:       c.XMLReports,
		HTMLReport:      c.HTMLReports,
		SarifReport:     c.SarifReports,
	}
	s.ConfigProperties = map[string]string{"checkstyle.suppressions.file": s.SuppressionFile}
	for k, v := range c.ConfigProperties {
		s.ConfigProperties[k] = v
	}

	l.Verbose("🔧 Checkstyle configuration:")
	l.Verbosef("   • Tool version: %s", s.ToolVersion)
	l.Verbosef("   • Config file: %s", s.ConfigFile)
	l.Verbosef("   • Suppression file: %s", s.SuppressionFile)
	l.Verbosef("   • Max warnings: %d", s.MaxWarnings)
	l.Verbosef("   • Max errors: %d", s.MaxErrors)
	return s
}

// SpotbugsSettings configures the com.github.spotbugs plugin.
type SpotbugsSettings struct {
	ToolVersion     string            `yaml:"toolVersion"`
	Effort          string            `yaml:"effort"`
	ReportLevel     string            `yaml:"reportLevel"`
	IgnoreFailures  bool              `yaml:"ignoreFailures"`
	ShowStackTraces bool              `yaml:"showStackTraces"`
	ShowProgress    bool              `yaml:"showProgress"`
	ExcludeFile     string            `yaml:"excludeFile"`
	IncludeFile     string            `yaml:"includeFile,omitempty"`
	MaxHeap         string            `yaml:"maxHeap,omitempty"`
	TimeoutMillis   int               `yaml:"timeoutMillis,omitempty"`
	Visitors        []string          `yaml:"visitors,omitempty"`
	ExtraArgs       []string          `yaml:"extraArgs,omitempty"`
	Reports         map[string]string `yaml:"reports"` // format -> path, for spotbugsMain
}

func resolveSpotbugs(dir string, cfg *config.Config, l *log.Logger) *SpotbugsSettings {
	c := cfg.SpotbugsConfig
	s := &SpotbugsSettings{
		ToolVersion:     c.ToolVersion,
		Effort:          strings.ToUpper(c.Effort),
		ReportLevel:     strings.ToUpper(c.ReportLevel),
		IgnoreFailures:  c.IgnoreFailures,
		ShowStackTraces: c.ShowStackTraces,
		ShowProgress:    c.ShowProgress,
		ExcludeFile:     orDefault(c.ExcludeFile, DefaultSpotbugsExclude),
		MaxHeap:         c.MaxHeap,
		TimeoutMillis:   c.TimeoutMillis,
		Visitors:        c.BugCategories,
		ExtraArgs:       c.ExtraArgs,
		Reports:         map[string]string{},
	}
	if c.IncludeFile != "" {
		if exists(dir, c.IncludeFile) {
			s.IncludeFile = c.IncludeFile
		} else {
			l.Warning("SpotBugs include file not found: " + c.IncludeFile)
		}
	}

	const task = "spotbugsMain"
	for _, r := range []struct {
		on   bool
		name string
		ext  string
	}{
		{c.XMLReports, "xml", "xml"},
		{c.HTMLReports, "html", "html"},
		{c.TextReports, "text", "txt"},
		{c.SarifReports, "sarif", "sarif"},
	} {
		if r.on {
			s.Reports[r.name] = "build/reports/spotbugs/" + task + "." + r.ext
		}
	}

	l.Verbose("🔧 SpotBugs configuration:")
	l.Verbosef("   • Tool version: %s", s.ToolVersion)
	l.Verbosef("   • Effort: %s", s.Effort)
	l.Verbosef("   • Report level: %s", s.ReportLevel)
	if s.MaxHeap != "" {
		l.Verbosef("   • Max heap: %s", s.MaxHeap)
	}
	if s.TimeoutMillis > 0 {
		l.Verbosef("   • Timeout: %dms", s.TimeoutMillis)
	}
	if len(s.Visitors) > 0 {
		l.Verbosef("   • Bug categories: %s", strings.Join(s.Visitors, ", "))
	}
	return s
}
