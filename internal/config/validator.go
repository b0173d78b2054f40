package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/coretide/codearmor/internal/log"
	"github.com/coretide/codearmor/internal/types"
)

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string // the config key, e.g. "coverageMinimum"
	Value   any    // the invalid value
	Message string // human-readable description
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Enumerations accepted by the tool sections.
var (
	validJavaFormatters   = []string{JavaFormatterEclipse, JavaFormatterGoogle, JavaFormatterPalantir, JavaFormatterCustom}
	validKotlinFormatters = []string{KotlinFormatterKtlint, KotlinFormatterKtfmt, KotlinFormatterCustom}
	validKtfmtStyles      = []string{"KOTLINLANG", "GOOGLE", "META"}
	validLineEndings      = []string{"UNIX", "WINDOWS", "MAC_CLASSIC", "PLATFORM_NATIVE", "GIT_ATTRIBUTES"}
	validSpotbugsEfforts  = []string{"MIN", "LESS", "DEFAULT", "MORE", "MAX"}
	validSpotbugsLevels   = []string{"LOW", "MEDIUM", "DEFAULT", "HIGH"}
)

// Validate checks the Config for invalid values and returns all errors found.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors

	errs = append(errs, c.validateThresholds()...)
	errs = append(errs, c.validateEnums()...)
	errs = append(errs, c.validateOwasp()...)

	return errs
}

func (c *Config) validateThresholds() []ValidationError {
	var errs []ValidationError
	if c.CoverageMinimum < 0 || c.CoverageMinimum > 1 {
		errs = append(errs, ValidationError{"coverageMinimum", c.CoverageMinimum, "must be between 0 and 1"})
	}
	if c.CoverageClassMinimum < 0 || c.CoverageClassMinimum > 1 {
		errs = append(errs, ValidationError{"coverageClassMinimum", c.CoverageClassMinimum, "must be between 0 and 1"})
	}
	if c.OwaspFailBuildOnCVSS < 0 || c.OwaspFailBuildOnCVSS > 10 {
		errs = append(errs, ValidationError{"owaspFailBuildOnCVSS", c.OwaspFailBuildOnCVSS, "must be between 0 and 10"})
	}
	if c.CheckstyleConfig.MaxWarnings < 0 {
		errs = append(errs, ValidationError{"checkstyleConfig.maxWarnings", c.CheckstyleConfig.MaxWarnings, "must not be negative"})
	}
	if c.CheckstyleConfig.MaxErrors < 0 {
		errs = append(errs, ValidationError{"checkstyleConfig.maxErrors", c.CheckstyleConfig.MaxErrors, "must not be negative"})
	}
	return errs
}

func (c *Config) validateEnums() []ValidationError {
	var errs []ValidationError
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, ValidationError{"logLevel", c.LogLevel, "must be ESSENTIAL or VERBOSE"})
	}
	if c.ProjectType != "" {
		if _, err := types.ParseProjectType(c.ProjectType); err != nil {
			errs = append(errs, ValidationError{"projectType", c.ProjectType, "must be one of " + projectTypeList()})
		}
	}
	checks := []struct {
		field string
		value string
		valid []string
	}{
		{"javaFormatter", c.JavaFormatter, validJavaFormatters},
		{"kotlinFormatter", c.KotlinFormatter, validKotlinFormatters},
		{"kotlinFormatterConfig.ktfmtStyle", c.KotlinFormatterConfig.KtfmtStyle, validKtfmtStyles},
		{"javaFormatterConfig.lineEndings", c.JavaFormatterConfig.LineEndings, validLineEndings},
		{"spotbugsConfig.effort", c.SpotbugsConfig.Effort, validSpotbugsEfforts},
		{"spotbugsConfig.reportLevel", c.SpotbugsConfig.ReportLevel, validSpotbugsLevels},
	}
	for _, chk := range checks {
		if !slices.Contains(chk.valid, strings.ToUpper(chk.value)) {
			errs = append(errs, ValidationError{chk.field, chk.value, "must be one of " + strings.Join(chk.valid, ", ")})
		}
	}
	return errs
}

func (c *Config) validateOwasp() []ValidationError {
	var errs []ValidationError
	if c.OwaspNvdAPIDelay < 0 {
		errs = append(errs, ValidationError{"owaspNvdApiDelay", c.OwaspNvdAPIDelay, "must not be negative"})
	}
	if c.OwaspNvdMaxRetryCount < 0 {
		errs = append(errs, ValidationError{"owaspNvdMaxRetryCount", c.OwaspNvdMaxRetryCount, "must not be negative"})
	}
	if c.OwaspNvdValidForHours < 0 {
		errs = append(errs, ValidationError{"owaspNvdValidForHours", c.OwaspNvdValidForHours, "must not be negative"})
	}
	return errs
}

func projectTypeList() string {
	names := make([]string, 0, len(types.AllProjectTypes))
	for _, pt := range types.AllProjectTypes {
		names = append(names, string(pt))
	}
	return strings.Join(names, ", ")
}
