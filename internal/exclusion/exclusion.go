// Package exclusion generates the coverage exclusion patterns handed to
// JaCoCo and SonarQube, and renders the logExclusionInfo report.
package exclusion

import (
	"fmt"
	"strings"

	"github.com/coretide/codearmor/internal/config"
	"github.com/coretide/codearmor/internal/log"
)

// Defaults are the class-name fragments excluded from coverage unless
// coverageIncludeDefaultExclusions is false.
var Defaults = []string{
	"annotation",
	"model",
	"dto",
	"entity",
	"entities",
	"mapper",
	"util",
	"utils",
	"helper",
	"helpers",
	"config",
	"Application",
	"Config",
	"Configuration",
	"Repository",
	"generated",
	"Test",
	"Mock",
	"Stubs",
	"Dummy",
	"Fake",
	"Abstract",
	"Base",
	"Exception",
	"Error",
	"logging",
}

// Combined returns the defaults (when enabled) followed by the user patterns.
func Combined(cfg *config.Config) []string {
	var out []string
	if cfg.CoverageIncludeDefaultExclusions {
		out = append(out, Defaults...)
	}
	return append(out, cfg.CoverageExclusions...)
}

// JacocoReport returns class-file globs for the JaCoCo report task.
func JacocoReport(cfg *config.Config) []string {
	return expand(Combined(cfg), func(p string) []string {
		return []string{"**/*" + p + "*.class", "**/" + p + "/**/*.class"}
	})
}

// JacocoVerification returns class-name patterns for the JaCoCo CLASS rule.
func JacocoVerification(cfg *config.Config) []string {
	return expand(Combined(cfg), func(p string) []string {
		return []string{"*" + p + "*", "*." + strings.ToLower(p) + ".*"}
	})
}

// Sonar returns sonar.coverage.exclusions globs.
func Sonar(cfg *config.Config) []string {
	return expand(Combined(cfg), func(p string) []string {
		return []string{"**/*" + p + "*", "**/" + p + "/**"}
	})
}

func expand(patterns []string, f func(string) []string) []string {
	out := make([]string, 0, 2*len(patterns))
	for _, p := range patterns {
		out = append(out, f(p)...)
	}
	return out
}

const rule = "============================================================"

// Report writes the logExclusionInfo output. Detailed patterns are shown
// when verbose is set or the logger runs at VERBOSE.
func Report(l *log.Logger, cfg *config.Config, verbose bool) {
	detailed := verbose || l.IsVerbose()
	combined := Combined(cfg)

	l.Essential("🛡️ CodeArmor Exclusion Information")
	l.Essential(rule)
	l.Essential("📊 Summary:")
	if cfg.CoverageIncludeDefaultExclusions {
		l.Essential(fmt.Sprintf("  • Default exclusions: %d", len(Defaults)))
	} else {
		l.Essential("  • Default exclusions: DISABLED")
	}
	l.Essential(fmt.Sprintf("  • User exclusions: %d", len(cfg.CoverageExclusions)))
	l.Essential(fmt.Sprintf("  • Total patterns: %d", len(combined)))

	if detailed {
		l.Essential("\n📋 Detailed Patterns:")
		if cfg.CoverageIncludeDefaultExclusions {
			list(l, "  Default patterns:", Defaults)
		}
		if len(cfg.CoverageExclusions) > 0 {
			list(l, "  User patterns:", cfg.CoverageExclusions)
		}
		l.Essential("\n🔧 Generated Exclusions:")
		list(l, "  JaCoCo Report exclusions:", JacocoReport(cfg))
		list(l, "  JaCoCo Verification exclusions:", JacocoVerification(cfg))
		list(l, "  SonarQube exclusions:", Sonar(cfg))
	} else {
		l.Essential("\n💡 Use --verbose or set logLevel: VERBOSE to see detailed patterns")
	}

	l.Essential("\n📈 Coverage Settings:")
	l.Essential(fmt.Sprintf("  • Minimum coverage: %d%%", percent(cfg.CoverageMinimum)))
	l.Essential(fmt.Sprintf("  • Class minimum coverage: %d%%", percent(cfg.CoverageClassMinimum)))
	if len(cfg.CoverageInclusions) > 0 {
		l.Essential("  • Coverage inclusions: " + strings.Join(cfg.CoverageInclusions, ", "))
	}
	l.Essential(rule)
}

func list(l *log.Logger, title string, patterns []string) {
	l.Essential(title)
	for _, p := range patterns {
		l.Essential("    - " + p)
	}
}

// percent truncates a 0..1 ratio to a whole percentage.
func percent(ratio float64) int {
	return int(ratio*100 + 1e-9)
}
