package tools

import (
	"fmt"
	"strings"

	"github.com/coretide/codearmor/internal/config"
	"github.com/coretide/codearmor/internal/exclusion"
	"github.com/coretide/codearmor/internal/log"
)

// JacocoToolVersion is the JaCoCo agent version codearmor pins.
const JacocoToolVersion = "0.8.12"

// JacocoSettings configures jacocoTestReport and
// jacocoTestCoverageVerification.
type JacocoSettings struct {
	ToolVersion      string         `yaml:"toolVersion"`
	XMLReport        bool           `yaml:"xmlReport"`
	HTMLReport       bool           `yaml:"htmlReport"`
	CSVReport        bool           `yaml:"csvReport"`
	ReportExclusions []string       `yaml:"reportExclusions"`
	Rules            []CoverageRule `yaml:"rules"`
}

// CoverageRule is one jacocoTestCoverageVerification violation rule.
type CoverageRule struct {
	Element  string   `yaml:"element,omitempty"` // empty means BUNDLE
	Counter  string   `yaml:"counter,omitempty"` // empty means INSTRUCTION
	Minimum  float64  `yaml:"minimum"`
	Includes []string `yaml:"includes,omitempty"`
	Excludes []string `yaml:"excludes,omitempty"`
}

func resolveJacoco(cfg *config.Config, l *log.Logger) *JacocoSettings {
	s := &JacocoSettings{
		ToolVersion:      JacocoToolVersion,
		XMLReport:        true,
		HTMLReport:       true,
		ReportExclusions: exclusion.JacocoReport(cfg),
		Rules: []CoverageRule{
			{Minimum: cfg.CoverageMinimum},
			{
				Element:  "CLASS",
				Counter:  "LINE",
				Minimum:  cfg.CoverageClassMinimum,
				Includes: cfg.CoverageInclusions,
				Excludes: exclusion.JacocoVerification(cfg),
			},
		},
	}
	l.Verbosef("🔧 JaCoCo %s: minimum %.0f%%, class minimum %.0f%%, %d report exclusions",
		s.ToolVersion, cfg.CoverageMinimum*100, cfg.CoverageClassMinimum*100, len(s.ReportExclusions))
	return s
}

// EnvSonarHostURL overrides sonarHostUrl.
const EnvSonarHostURL = "SONAR_HOST_URL"

// Sonar report locations.
const (
	jacocoXMLReport     = "build/reports/jacoco/test/jacocoTestReport.xml"
	spotbugsXMLReport   = "build/reports/spotbugs/main.xml"
	checkstyleXMLReport = "build/reports/checkstyle/main.xml"
	owaspXMLReport      = "build/reports/dependency-check/dependency-check-report.xml"
	owaspHTMLReport     = "build/reports/dependency-check/dependency-check-report.html"
)

var sonarExclusions = []string{"build/**", "target/**", "**/*.proto", "src/main/resources/**", "**/generated/**"}

// SonarSettings configures the org.sonarqube plugin.
type SonarSettings struct {
	HostURL      string            `yaml:"hostUrl"`
	ProjectKey   string            `yaml:"projectKey"`
	DashboardURL string            `yaml:"dashboardUrl"`
	TokenSet     bool              `yaml:"tokenSet"`
	Properties   map[string]string `yaml:"properties"`

	token string
}

func resolveSonar(pc ProjectContext, cfg *config.Config, lookup config.LookupFunc, l *log.Logger) *SonarSettings {
	d := pc.Descriptor
	host := cfg.SonarHostURL
	if v, ok := lookup(EnvSonarHostURL); ok && v != "" {
		host = v
	}
	key := cfg.SonarProjectKey
	if key == "" {
		key = d.Group + ":" + d.Name
	}
	name := cfg.SonarProjectName
	if name == "" {
		name = d.Name
	}

	p := map[string]string{
		"sonar.scm.provider":                   "git",
		"sonar.host.url":                       host,
		"sonar.projectKey":                     key,
		"sonar.projectName":                    name,
		"sonar.sourceEncoding":                 "UTF-8",
		"sonar.java.coveragePlugin":            "jacoco",
		"sonar.coverage.jacoco.xmlReportPaths": jacocoXMLReport,
		"sonar.coverage.minimum":               fmt.Sprintf("%d", int(cfg.CoverageMinimum*100+1e-9)),
		"sonar.coverage.exclusions":            strings.Join(exclusion.Sonar(cfg), ","),
		"sonar.exclusions":                     strings.Join(sonarExclusions, ","),
		"sonar.qualitygate.wait":               fmt.Sprintf("%t", cfg.SonarQualityGateWait),
		"sonar.duplicated_lines_density":       "15",
		"sonar.maintainability_rating":         "C",
		"sonar.reliability_rating":             "C",
		"sonar.security_rating":                "C",
	}
	if pc.Version != "" {
		p["sonar.projectVersion"] = pc.Version
	}

	jv := cfg.SonarJavaVersion
	switch {
	case pc.Type.HasJava() && pc.Type.HasKotlin():
		p["sonar.sources"] = "src/main/java,src/main/kotlin"
		p["sonar.tests"] = "src/test/java,src/test/kotlin"
		p["sonar.java.source"], p["sonar.java.target"] = jv, jv
		p["sonar.kotlin.source"], p["sonar.kotlin.target"] = jv, jv
		p["sonar.java.binaries"] = "build/classes/java/main,build/classes/kotlin/main"
		p["sonar.java.test.binaries"] = "build/classes/java/test,build/classes/kotlin/test"
	case pc.Type.HasKotlin():
		p["sonar.sources"] = "src/main/kotlin"
		p["sonar.tests"] = "src/test/kotlin"
		p["sonar.kotlin.source"], p["sonar.kotlin.target"] = jv, jv
		p["sonar.kotlin.binaries"] = "build/classes/kotlin/main"
		p["sonar.kotlin.test.binaries"] = "build/classes/kotlin/test"
	default:
		p["sonar.sources"] = "src/main/java"
		p["sonar.tests"] = "src/test/java"
		p["sonar.java.source"], p["sonar.java.target"] = jv, jv
		p["sonar.java.binaries"] = "build/classes/java/main"
		p["sonar.java.test.binaries"] = "build/classes/java/test"
	}

	if cfg.Spotbugs {
		p["sonar.java.spotbugs.reportPaths"] = spotbugsXMLReport
	}
	if cfg.Checkstyle && pc.Type.HasJava() {
		p["sonar.java.checkstyle.reportPaths"] = checkstyleXMLReport
	}
	if cfg.Owasp {
		p["sonar.dependencyCheck.reportPath"] = owaspXMLReport
		p["sonar.dependencyCheck.htmlReportPath"] = owaspHTMLReport
	}

	s := &SonarSettings{
		HostURL:      host,
		ProjectKey:   key,
		DashboardURL: strings.TrimSuffix(host, "/") + "/dashboard?id=" + key,
		TokenSet:     cfg.SonarToken != "",
		Properties:   p,
		token:        cfg.SonarToken,
	}
	l.Verbosef("🔍 SonarQube: %s (project %s)", host, key)
	return s
}
