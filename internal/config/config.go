// Package config provides codearmor configuration loading.
// Config is read from codearmor.yaml in the project root. A missing file
// returns defaults without error. CODEARMOR_* environment variables override
// file values for top-level options, and CLI flags (bound via cobra) override
// both by mutating the returned struct after loading.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the project root.
const FileName = "codearmor.yaml"

// Default values for top-level Config fields.
const (
	DefaultCoverageMinimum      = 0.30
	DefaultCoverageClassMinimum = 0.25
	DefaultOwaspFailBuildOnCVSS = 9.0
	DefaultOwaspNvdAPIDelay     = 4000
	DefaultOwaspNvdMaxRetries   = 10
	DefaultOwaspNvdValidHours   = 24
	DefaultSonarHostURL         = "http://localhost:9000"
	DefaultSonarJavaVersion     = "11"
	DefaultLogLevel             = "ESSENTIAL"
	DefaultJavaFormatter        = JavaFormatterEclipse
	DefaultKotlinFormatter      = KotlinFormatterKtlint
)

// Java formatter choices for Spotless.
const (
	JavaFormatterEclipse  = "ECLIPSE"
	JavaFormatterGoogle   = "GOOGLE_JAVA_FORMAT"
	JavaFormatterPalantir = "PALANTIR_JAVA_FORMAT"
	JavaFormatterCustom   = "CUSTOM"
)

// Kotlin formatter choices for Spotless.
const (
	KotlinFormatterKtlint = "KTLINT"
	KotlinFormatterKtfmt  = "KTFMT"
	KotlinFormatterCustom = "CUSTOM"
)

// Toggles is the feature toggle set: one switch per integrated tool.
type Toggles struct {
	Jacoco     bool `yaml:"jacoco"`
	Checkstyle bool `yaml:"checkstyle"`
	Spotbugs   bool `yaml:"spotbugs"`
	Spotless   bool `yaml:"spotless"`
	Owasp      bool `yaml:"owasp"`
	Veracode   bool `yaml:"veracode"`
	Sonarqube  bool `yaml:"sonarqube"`
}

// Config holds every codearmor option.
type Config struct {
	AutoDetect  bool   `yaml:"autoDetect"`
	ProjectType string `yaml:"projectType"`
	MultiModule bool   `yaml:"multiModule"`

	Toggles `yaml:",inline"`

	CoverageMinimum                  float64  `yaml:"coverageMinimum"`
	CoverageClassMinimum             float64  `yaml:"coverageClassMinimum"`
	CoverageInclusions               []string `yaml:"coverageInclusions"`
	CoverageExclusions               []string `yaml:"coverageExclusions"`
	CoverageIncludeDefaultExclusions bool     `yaml:"coverageIncludeDefaultExclusions"`

	OwaspFailBuildOnCVSS  float64 `yaml:"owaspFailBuildOnCVSS"`
	OwaspSuppressionFile  string  `yaml:"owaspSuppressionFile"`
	OwaspAutoUpdate       bool    `yaml:"owaspAutoUpdate"`
	OwaspNvdAPIKey        string  `yaml:"owaspNvdApiKey"`
	OwaspNvdAPIDelay      int     `yaml:"owaspNvdApiDelay"`
	OwaspNvdMaxRetryCount int     `yaml:"owaspNvdMaxRetryCount"`
	OwaspNvdValidForHours int     `yaml:"owaspNvdValidForHours"`

	SonarHostURL         string `yaml:"sonarHostUrl"`
	SonarProjectKey      string `yaml:"sonarProjectKey"`
	SonarProjectName     string `yaml:"sonarProjectName"`
	SonarToken           string `yaml:"sonarToken"`
	SonarQualityGateWait bool   `yaml:"sonarQualityGateWait"`
	SonarJavaVersion     string `yaml:"sonarJavaVersion"`

	VeracodeUsername string `yaml:"veracodeUsername"`
	VeracodePassword string `yaml:"veracodePassword"`

	EnableGitHooks           bool `yaml:"enableGitHooks"`
	PreCommitEnabled         bool `yaml:"preCommitEnabled"`
	PrePushEnabled           bool `yaml:"prePushEnabled"`
	EnableVersionFromGit     bool `yaml:"enableVersionFromGit"`
	EnableResourceProcessing bool `yaml:"enableResourceProcessing"`

	SpotlessApplyLicenseHeader bool                  `yaml:"spotlessApplyLicenseHeader"`
	SpotlessFormats            SpotlessFormats       `yaml:"spotlessFormats"`
	JavaFormatter              string                `yaml:"javaFormatter"`
	JavaFormatterConfig        JavaFormatterConfig   `yaml:"javaFormatterConfig"`
	KotlinFormatter            string                `yaml:"kotlinFormatter"`
	KotlinFormatterConfig      KotlinFormatterConfig `yaml:"kotlinFormatterConfig"`
	CheckstyleConfig           CheckstyleConfig      `yaml:"checkstyleConfig"`
	SpotbugsConfig             SpotbugsConfig        `yaml:"spotbugsConfig"`

	LogLevel string `yaml:"logLevel"`
}

// CheckstyleConfig tunes the Checkstyle integration.
type CheckstyleConfig struct {
	ToolVersion        string            `yaml:"toolVersion"`
	MaxWarnings        int               `yaml:"maxWarnings"`
	MaxErrors          int               `yaml:"maxErrors"`
	IgnoreFailures     bool              `yaml:"ignoreFailures"`
	ShowViolations     bool              `yaml:"showViolations"`
	ConfigFile         string            `yaml:"configFile"`
	SuppressionFile    string            `yaml:"suppressionFile"`
	XMLReports         bool              `yaml:"xmlReports"`
	HTMLReports        bool              `yaml:"htmlReports"`
	SarifReports       bool              `yaml:"sarifReports"`
	TargetIncludes     []string          `yaml:"targetIncludes"`
	TargetExcludes     []string          `yaml:"targetExcludes"`
	ConfigProperties   map[string]string `yaml:"configProperties"`
	EnableRulesSummary bool              `yaml:"enableRulesSummary"`
}

// SpotbugsConfig tunes the SpotBugs integration.
type SpotbugsConfig struct {
	ToolVersion     string   `yaml:"toolVersion"`
	Effort          string   `yaml:"effort"`
	ReportLevel     string   `yaml:"reportLevel"`
	IgnoreFailures  bool     `yaml:"ignoreFailures"`
	ShowStackTraces bool     `yaml:"showStackTraces"`
	ShowProgress    bool     `yaml:"showProgress"`
	ExcludeFile     string   `yaml:"excludeFile"`
	IncludeFile     string   `yaml:"includeFile"`
	XMLReports      bool     `yaml:"xmlReports"`
	HTMLReports     bool     `yaml:"htmlReports"`
	TextReports     bool     `yaml:"textReports"`
	SarifReports    bool     `yaml:"sarifReports"`
	MaxHeap         string   `yaml:"maxHeap"`
	TimeoutMillis   int      `yaml:"timeout"`
	BugCategories   []string `yaml:"bugCategories"`
	ExtraArgs       []string `yaml:"extraArgs"`
}

// JavaFormatterConfig tunes the Spotless Java step.
type JavaFormatterConfig struct {
	GoogleJavaFormatVersion   string   `yaml:"googleJavaFormatVersion"`
	GoogleJavaFormatAOSP      bool     `yaml:"googleJavaFormatAOSP"`
	EclipseVersion            string   `yaml:"eclipseVersion"`
	EclipseConfigFile         string   `yaml:"eclipseConfigFile"`
	PalantirJavaFormatVersion string   `yaml:"palantirJavaFormatVersion"`
	CustomFormatterCommand    string   `yaml:"customFormatterCommand"`
	CustomFormatterArgs       []string `yaml:"customFormatterArgs"`
	IndentSize                int      `yaml:"indentSize"`
	RemoveUnusedImports       bool     `yaml:"removeUnusedImports"`
	EndWithNewline            bool     `yaml:"endWithNewline"`
	TrimTrailingWhitespace    bool     `yaml:"trimTrailingWhitespace"`
	LeadingTabsToSpaces       bool     `yaml:"leadingTabsToSpaces"`
	LineEndings               string   `yaml:"lineEndings"`
	TargetIncludes            []string `yaml:"targetIncludes"`
	TargetExcludes            []string `yaml:"targetExcludes"`
	ImportOrderFile           string   `yaml:"importOrderFile"`
}

// KotlinFormatterConfig tunes the Spotless Kotlin step.
type KotlinFormatterConfig struct {
	KtlintVersion               string            `yaml:"ktlintVersion"`
	KtlintEditorConfigOverrides map[string]string `yaml:"ktlintEditorConfigOverrides"`
	KtfmtVersion                string            `yaml:"ktfmtVersion"`
	KtfmtStyle                  string            `yaml:"ktfmtStyle"`
	CustomFormatterCommand      string            `yaml:"customFormatterCommand"`
	CustomFormatterArgs         []string          `yaml:"customFormatterArgs"`
	EndWithNewline              bool              `yaml:"endWithNewline"`
	TrimTrailingWhitespace      bool              `yaml:"trimTrailingWhitespace"`
	TargetIncludes              []string          `yaml:"targetIncludes"`
	TargetExcludes              []string          `yaml:"targetExcludes"`
}

// SpotlessFormats switches on the non-JVM Spotless formats.
type SpotlessFormats struct {
	JSON                 bool   `yaml:"json"`
	XML                  bool   `yaml:"xml"`
	YAML                 bool   `yaml:"yaml"`
	Properties           bool   `yaml:"properties"`
	Markdown             bool   `yaml:"markdown"`
	HTML                 bool   `yaml:"html"`
	CSS                  bool   `yaml:"css"`
	SQL                  bool   `yaml:"sql"`
	JSONIndentSpaces     int    `yaml:"jsonIndentSpaces"`
	YAMLTabWidth         int    `yaml:"yamlTabWidth"`
	YAMLPrintWidth       int    `yaml:"yamlPrintWidth"`
	MarkdownTabWidth     int    `yaml:"markdownTabWidth"`
	MarkdownPrintWidth   int    `yaml:"markdownPrintWidth"`
	MarkdownProseWrap    string `yaml:"markdownProseWrap"`
	HTMLTabWidth         int    `yaml:"htmlTabWidth"`
	HTMLPrintWidth       int    `yaml:"htmlPrintWidth"`
	HTMLBracketSameLine  bool   `yaml:"htmlBracketSameLine"`
	CSSTabWidth          int    `yaml:"cssTabWidth"`
	CSSPrintWidth        int    `yaml:"cssPrintWidth"`
	CSSSingleQuote       bool   `yaml:"cssSingleQuote"`
	SQLUppercaseKeywords bool   `yaml:"sqlUppercaseKeywords"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		AutoDetect: true,
		Toggles: Toggles{
			Jacoco:     true,
			Checkstyle: true,
			Spotbugs:   true,
			Spotless:   true,
			Owasp:      true,
			Veracode:   false,
			Sonarqube:  true,
		},
		CoverageMinimum:                  DefaultCoverageMinimum,
		CoverageClassMinimum:             DefaultCoverageClassMinimum,
		CoverageIncludeDefaultExclusions: true,
		OwaspFailBuildOnCVSS:             DefaultOwaspFailBuildOnCVSS,
		OwaspNvdAPIDelay:                 DefaultOwaspNvdAPIDelay,
		OwaspNvdMaxRetryCount:            DefaultOwaspNvdMaxRetries,
		OwaspNvdValidForHours:            DefaultOwaspNvdValidHours,
		SonarHostURL:                     DefaultSonarHostURL,
		SonarJavaVersion:                 DefaultSonarJavaVersion,
		EnableGitHooks:                   true,
		PreCommitEnabled:                 true,
		PrePushEnabled:                   true,
		EnableVersionFromGit:             true,
		EnableResourceProcessing:         true,
		SpotlessFormats: SpotlessFormats{
			JSONIndentSpaces:     2,
			YAMLTabWidth:         2,
			YAMLPrintWidth:       120,
			MarkdownTabWidth:     2,
			MarkdownPrintWidth:   120,
			MarkdownProseWrap:    "preserve",
			HTMLTabWidth:         2,
			HTMLPrintWidth:       120,
			CSSTabWidth:          2,
			CSSPrintWidth:        120,
			SQLUppercaseKeywords: true,
		},
		JavaFormatter: DefaultJavaFormatter,
		JavaFormatterConfig: JavaFormatterConfig{
			GoogleJavaFormatVersion:   "1.15",
			GoogleJavaFormatAOSP:      true,
			EclipseVersion:            "4.26",
			PalantirJavaFormatVersion: "2.28",
			IndentSize:                4,
			RemoveUnusedImports:       true,
			EndWithNewline:            true,
			TrimTrailingWhitespace:    true,
			LeadingTabsToSpaces:       true,
			LineEndings:               "UNIX",
			TargetIncludes:            []string{"src/main/java/**/*.java", "src/test/java/**/*.java"},
			TargetExcludes:            []string{"**/generated/**", "**/build/**"},
		},
		KotlinFormatter: DefaultKotlinFormatter,
		KotlinFormatterConfig: KotlinFormatterConfig{
			KtlintVersion:          "1.6.0",
			KtfmtVersion:           "0.46",
			KtfmtStyle:             "KOTLINLANG",
			EndWithNewline:         true,
			TrimTrailingWhitespace: true,
			TargetIncludes:         []string{"src/main/kotlin/**/*.kt", "src/test/kotlin/**/*.kt"},
			TargetExcludes:         []string{"**/generated/**", "**/build/**"},
		},
		CheckstyleConfig: CheckstyleConfig{
			ToolVersion:        "10.20.1",
			ShowViolations:     true,
			XMLReports:         true,
			HTMLReports:        true,
			TargetIncludes:     []string{"src/main/java/**/*.java", "src/test/java/**/*.java"},
			TargetExcludes:     []string{"**/generated/**", "**/build/**", "**/target/**"},
			EnableRulesSummary: true,
		},
		SpotbugsConfig: SpotbugsConfig{
			ToolVersion:     "4.8.6",
			Effort:          "MAX",
			ReportLevel:     "HIGH",
			ShowStackTraces: true,
			ShowProgress:    true,
			XMLReports:      true,
			HTMLReports:     true,
		},
		LogLevel: DefaultLogLevel,
	}
}

// LoadConfig reads codearmor.yaml at path and returns a Config.
// If the file does not exist, defaults are returned without error.
// The file is decoded over the defaults, so keys absent from the file keep
// their default value while keys present (including explicit false/0) win.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

