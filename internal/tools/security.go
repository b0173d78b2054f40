package tools

import (
	"strconv"

	"github.com/coretide/codearmor/internal/compose"
	"github.com/coretide/codearmor/internal/config"
	"github.com/coretide/codearmor/internal/log"
)

// EnvNVDAPIKey supplies the NVD API key when owaspNvdApiKey is unset.
const EnvNVDAPIKey = "NVD_API_KEY"

const (
	owaspOutputDir   = "build/reports/dependency-check"
	nvdAPIEndpoint   = "https://services.nvd.nist.gov/rest/json/cves/2.0/"
	nvdAPIKeyRequest = "https://nvd.nist.gov/developers/request-an-api-key"
)

// Analyzers dependency-check runs for JVM projects; the rest are switched off.
var owaspAnalyzers = map[string]bool{
	"assembly":  false,
	"nuspec":    false,
	"nugetconf": false,
	"central":   false,
	"nexus":     false,
	"node":      false,
	"nodeAudit": false,
	"retirejs":  false,
	"ossindex":  false,
	"jar":       true,
	"archive":   true,
	"filename":  true,
}

// OwaspSettings configures the org.owasp.dependencycheck plugin.
type OwaspSettings struct {
	FailBuildOnCVSS  float64           `yaml:"failBuildOnCVSS"`
	Formats          []string          `yaml:"formats"`
	OutputDirectory  string            `yaml:"outputDirectory"`
	AutoUpdate       bool              `yaml:"autoUpdate"`
	SuppressionFile  string            `yaml:"suppressionFile"`
	NvdAPIKeySet     bool              `yaml:"nvdApiKeySet"`
	SystemProperties map[string]string `yaml:"systemProperties"`

	nvdAPIKey string
}

func resolveOwasp(cfg *config.Config, lookup config.LookupFunc, l *log.Logger) *OwaspSettings {
	s := &OwaspSettings{
		FailBuildOnCVSS: cfg.OwaspFailBuildOnCVSS,
		Formats:         []string{"HTML", "XML", "JSON"},
		OutputDirectory: owaspOutputDir,
		AutoUpdate:      cfg.OwaspAutoUpdate,
		SuppressionFile: orDefault(cfg.OwaspSuppressionFile, DefaultOwaspSuppression),
	}

	cvss := strconv.FormatFloat(cfg.OwaspFailBuildOnCVSS, 'f', -1, 64)
	props := map[string]string{
		"dependencycheck.autoUpdate":      strconv.FormatBool(cfg.OwaspAutoUpdate),
		"dependencycheck.failBuildOnCVSS": cvss,
		"dependencycheck.formats":         "HTML,XML,JSON",
		"dependencycheck.outputDirectory": owaspOutputDir,
		"dependencycheck.writeReports":    "true",
		"dependencycheck.reportFormat":    "ALL",
	}
	for name, on := range owaspAnalyzers {
		props["analyzer."+name+".enabled"] = strconv.FormatBool(on)
	}

	key := cfg.OwaspNvdAPIKey
	if key == "" {
		key, _ = lookup(EnvNVDAPIKey)
	}
	if key != "" {
		s.nvdAPIKey = key
		s.NvdAPIKeySet = true
		props["nvd.api.delay"] = strconv.Itoa(cfg.OwaspNvdAPIDelay)
		props["nvd.api.max.retry.count"] = strconv.Itoa(cfg.OwaspNvdMaxRetryCount)
		props["nvd.api.valid.for.hours"] = strconv.Itoa(cfg.OwaspNvdValidForHours)
		props["nvd.api.datafeed.validation.enabled"] = "true"
		props["nvd.api.endpoint"] = nvdAPIEndpoint
		l.Verbose("🔑 Using NVD API key for faster vulnerability lookups")
	} else {
		l.Verbose("⚠️ No NVD API key configured. Using slower public access.")
		l.Verbosef("💡 Set %s or owaspNvdApiKey to speed up scans; get a free key at %s", EnvNVDAPIKey, nvdAPIKeyRequest)
	}
	s.SystemProperties = props
	return s
}

// VeracodeSettings reports whether veracodeUpload can run.
type VeracodeSettings struct {
	CredentialsPresent bool `yaml:"credentialsPresent"`
}

func resolveVeracode(lookup config.LookupFunc, l *log.Logger) *VeracodeSettings {
	s := &VeracodeSettings{CredentialsPresent: compose.HasVeracodeCredentials(lookup)}
	if !s.CredentialsPresent {
		l.Verbosef("⚠️ %s / %s not set, veracodeUpload will be skipped", compose.EnvVeracodeUsername, compose.EnvVeracodePassword)
	}
	return s
}
