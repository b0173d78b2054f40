package tools

import (
	"fmt"
	"strings"

	"github.com/coretide/codearmor/internal/config"
	"github.com/coretide/codearmor/internal/log"
)

// SpotlessSettings configures the com.diffplug.spotless plugin.
type SpotlessSettings struct {
	Java              *FormatterStep `yaml:"java,omitempty"`
	Kotlin            *FormatterStep `yaml:"kotlin,omitempty"`
	Formats           []FormatStep   `yaml:"formats,omitempty"`
	LicenseHeaderFile string         `yaml:"licenseHeaderFile,omitempty"`
}

// FormatterStep is the Java or Kotlin step: which formatter, which version,
// and the common whitespace rules.
type FormatterStep struct {
	Formatter              string            `yaml:"formatter"`
	Version                string            `yaml:"version,omitempty"`
	Style                  string            `yaml:"style,omitempty"`
	ConfigFile             string            `yaml:"configFile,omitempty"`
	Command                []string          `yaml:"command,omitempty"`
	EditorConfigOverrides  map[string]string `yaml:"editorConfigOverrides,omitempty"`
	Targets                []string          `yaml:"targets"`
	Excludes               []string          `yaml:"excludes"`
	IndentSize             int               `yaml:"indentSize,omitempty"`
	RemoveUnusedImports    bool              `yaml:"removeUnusedImports,omitempty"`
	EndWithNewline         bool              `yaml:"endWithNewline"`
	TrimTrailingWhitespace bool              `yaml:"trimTrailingWhitespace"`
	ImportOrderFile        string            `yaml:"importOrderFile,omitempty"`
}

// FormatStep is one of the non-JVM formats (json, xml, yaml, ...).
type FormatStep struct {
	Name     string         `yaml:"name"`
	Targets  []string       `yaml:"targets"`
	Excludes []string       `yaml:"excludes"`
	Step     string         `yaml:"step,omitempty"`
	Options  map[string]any `yaml:"options,omitempty"`
}

func resolveSpotless(pc ProjectContext, cfg *config.Config, l *log.Logger) *SpotlessSettings {
	s := &SpotlessSettings{}
	if pc.Type.HasJava() {
		s.Java = javaStep(pc.Descriptor.Dir, cfg, l)
	}
	if pc.Type.HasKotlin() {
		s.Kotlin = kotlinStep(cfg, l)
	}
	s.Formats = extraFormats(cfg.SpotlessFormats)
	if cfg.SpotlessApplyLicenseHeader {
		s.LicenseHeaderFile = DefaultLicenseHeader
	}
	return s
}

func javaStep(dir string, cfg *config.Config, l *log.Logger) *FormatterStep {
	c := cfg.JavaFormatterConfig
	step := &FormatterStep{
		Targets:                c.TargetIncludes,
		Excludes:               c.TargetExcludes,
		RemoveUnusedImports:    c.RemoveUnusedImports,
		EndWithNewline:         c.EndWithNewline,
		TrimTrailingWhitespace: c.TrimTrailingWhitespace,
	}
	if c.LeadingTabsToSpaces {
		step.IndentSize = c.IndentSize
	}

	googleJavaFormat := func() {
		step.Formatter = config.JavaFormatterGoogle
		step.Version = c.GoogleJavaFormatVersion
		if c.GoogleJavaFormatAOSP {
			step.Style = "AOSP"
		}
	}

	switch strings.ToUpper(cfg.JavaFormatter) {
	case config.JavaFormatterGoogle:
		googleJavaFormat()
	case config.JavaFormatterPalantir:
		step.Formatter = config.JavaFormatterPalantir
		step.Version = c.PalantirJavaFormatVersion
	case config.JavaFormatterCustom:
		if c.CustomFormatterCommand == "" {
			l.Error("Custom Java formatter selected but no command specified, using google-java-format")
			googleJavaFormat()
			break
		}
		step.Formatter = config.JavaFormatterCustom
		step.Command = append([]string{c.CustomFormatterCommand}, c.CustomFormatterArgs...)
	default:
		step.Formatter = config.JavaFormatterEclipse
		step.Version = c.EclipseVersion
		if c.EclipseConfigFile != "" {
			if exists(dir, c.EclipseConfigFile) {
				step.ConfigFile = c.EclipseConfigFile
			} else {
				l.Warning(fmt.Sprintf("Eclipse config file not found: %s, using default", c.EclipseConfigFile))
			}
		}
	}

	if c.ImportOrderFile != "" {
		if exists(dir, c.ImportOrderFile) {
			step.ImportOrderFile = c.ImportOrderFile
		} else {
			l.Verbosef("⚠️ Import order file not found: %s", c.ImportOrderFile)
		}
	}
	l.Verbosef("🎨 Configured Java Spotless with %s %s", strings.ToLower(step.Formatter), step.Version)
	return step
}

func kotlinStep(cfg *config.Config, l *log.Logger) *FormatterStep {
	c := cfg.KotlinFormatterConfig
	step := &FormatterStep{
		Targets:                c.TargetIncludes,
		Excludes:               c.TargetExcludes,
		EndWithNewline:         c.EndWithNewline,
		TrimTrailingWhitespace: c.TrimTrailingWhitespace,
	}

	ktlint := func() {
		step.Formatter = config.KotlinFormatterKtlint
		step.Version = c.KtlintVersion
		step.EditorConfigOverrides = c.KtlintEditorConfigOverrides
	}

	switch strings.ToUpper(cfg.KotlinFormatter) {
	case config.KotlinFormatterKtfmt:
		step.Formatter = config.KotlinFormatterKtfmt
		step.Version = c.KtfmtVersion
		step.Style = strings.ToUpper(c.KtfmtStyle)
	case config.KotlinFormatterCustom:
		if c.CustomFormatterCommand == "" {
			l.Error("Custom Kotlin formatter selected but no command specified, using ktlint")
			ktlint()
			break
		}
		step.Formatter = config.KotlinFormatterCustom
		step.Command = append([]string{c.CustomFormatterCommand}, c.CustomFormatterArgs...)
	default:
		ktlint()
	}
	l.Verbosef("🎨 Configured Kotlin Spotless with %s %s", strings.ToLower(step.Formatter), step.Version)
	return step
}

var (
	excludeWeb   = []string{"**/build/**", "**/generated/**", "**/node_modules/**"}
	excludeJVM   = []string{"**/build/**", "**/generated/**", "**/target/**"}
	excludeAsset = []string{"**/build/**", "**/generated/**", "**/node_modules/**", "**/dist/**"}
)

func extraFormats(f config.SpotlessFormats) []FormatStep {
	var out []FormatStep
	if f.JSON {
		out = append(out, FormatStep{"json", []string{"**/*.json"}, excludeWeb, "gson",
			map[string]any{"indentSpaces": f.JSONIndentSpaces}})
	}
	if f.XML {
		out = append(out, FormatStep{"xml", []string{"**/*.xml"}, excludeJVM, "eclipseWtp", nil})
	}
	if f.YAML {
		out = append(out, FormatStep{"yaml", []string{"**/*.yml", "**/*.yaml"}, excludeWeb, "prettier",
			map[string]any{"tabWidth": f.YAMLTabWidth, "printWidth": f.YAMLPrintWidth, "parser": "yaml"}})
	}
	if f.Properties {
		out = append(out, FormatStep{"properties", []string{"**/*.properties"}, excludeJVM, "", nil})
	}
	if f.Markdown {
		out = append(out, FormatStep{"markdown", []string{"**/*.md", "**/*.markdown"}, excludeWeb, "prettier",
			map[string]any{"tabWidth": f.MarkdownTabWidth, "printWidth": f.MarkdownPrintWidth, "proseWrap": f.MarkdownProseWrap, "parser": "markdown"}})
	}
	if f.HTML {
		out = append(out, FormatStep{"html", []string{"**/*.html", "**/*.htm"}, excludeAsset, "prettier",
			map[string]any{"tabWidth": f.HTMLTabWidth, "printWidth": f.HTMLPrintWidth, "bracketSameLine": f.HTMLBracketSameLine, "parser": "html"}})
	}
	if f.CSS {
		out = append(out, FormatStep{"css", []string{"**/*.css", "**/*.scss", "**/*.sass", "**/*.less"}, excludeAsset, "prettier",
			map[string]any{"tabWidth": f.CSSTabWidth, "printWidth": f.CSSPrintWidth, "singleQuote": f.CSSSingleQuote, "parser": "css"}})
	}
	if f.SQL {
		step := ""
		if f.SQLUppercaseKeywords {
			step = "sqlUppercase"
		}
		out = append(out, FormatStep{"sql", []string{"**/*.sql"}, excludeJVM, step, nil})
	}
	return out
}
