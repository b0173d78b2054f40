package tools

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/coretide/codearmor/internal/compose"
	"github.com/coretide/codearmor/internal/config"
)

// Plugin artifacts resolved by the init script's initscript block.
const (
	SpotbugsPluginArtifact = "com.github.spotbugs.snom:spotbugs-gradle-plugin:6.2.2"
	SpotlessPluginArtifact = "com.diffplug.spotless:spotless-plugin-gradle:7.1.0"
	OwaspPluginArtifact    = "org.owasp:dependency-check-gradle:12.1.3"
	SonarPluginArtifact    = "org.sonarsource.scanner.gradle:sonarqube-gradle-plugin:6.2.0.5505"
)

// Plugins on the init script classpath are applied by class; their ids do
// not resolve from an init script.
const (
	spotbugsPluginClass = "com.github.spotbugs.snom.SpotBugsPlugin"
	spotlessPluginClass = "com.diffplug.gradle.spotless.SpotlessPlugin"
	owaspPluginClass    = "org.owasp.dependencycheck.gradle.DependencyCheckPlugin"
	sonarPluginClass    = "org.sonarqube.gradle.SonarQubePlugin"
)

// Classpath returns the plugin artifacts the given settings need, sorted
// and without duplicates. Checkstyle and JaCoCo ship with Gradle.
func Classpath(settings ...*Settings) []string {
	seen := map[string]bool{}
	for _, s := range settings {
		if s == nil {
			continue
		}
		if s.Spotbugs != nil {
			seen[SpotbugsPluginArtifact] = true
		}
		if s.Spotless != nil {
			seen[SpotlessPluginArtifact] = true
		}
		if s.Owasp != nil {
			seen[OwaspPluginArtifact] = true
		}
		if s.Sonar != nil {
			seen[SonarPluginArtifact] = true
		}
	}
	out := make([]string, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// groovyBlock accumulates indented Groovy statements.
type groovyBlock struct {
	b     strings.Builder
	depth int
}

func (g *groovyBlock) line(format string, args ...any) {
	g.b.WriteString(strings.Repeat("    ", g.depth))
	fmt.Fprintf(&g.b, format, args...)
	g.b.WriteByte('\n')
}

// open writes a line ending in " {" and indents until the matching close.
func (g *groovyBlock) open(format string, args ...any) {
	g.b.WriteString(strings.Repeat("    ", g.depth))
	fmt.Fprintf(&g.b, format, args...)
	g.b.WriteString(" {\n")
	g.depth++
}

func (g *groovyBlock) close() {
	g.depth--
	g.line("}")
}

var q = compose.GroovyString

func list(items []string) string { return "[" + compose.GroovyList(items) + "]" }

func bigDecimal(v float64) string {
	return "new BigDecimal(" + q(strconv.FormatFloat(v, 'f', -1, 64)) + ")"
}

// GradleSetup renders the Groovy statements that apply and configure the
// enabled tool plugins on the project bound to p.
func (s *Settings) GradleSetup() string {
	g := &groovyBlock{}
	if s.Checkstyle != nil {
		s.Checkstyle.writeGradle(g)
	}
	if s.Spotbugs != nil {
		s.Spotbugs.writeGradle(g)
	}
	if s.Spotless != nil {
		s.Spotless.writeGradle(g)
	}
	if s.Jacoco != nil {
		s.Jacoco.writeGradle(g)
	}
	if s.Owasp != nil {
		s.Owasp.writeGradle(g)
		notCompatibleWithConfigurationCache(g, "dependencyCheck", "OWASP dependency check uses runtime project access")
	}
	if s.Sonar != nil {
		s.Sonar.writeGradle(g)
		notCompatibleWithConfigurationCache(g, "sonar", "SonarQube uses runtime project access")
	}
	if s.Veracode != nil {
		g.open("p.tasks.matching { it.name == 'veracodeUpload' }.configureEach { t ->")
		g.line("t.group = 'verification'")
		g.line("t.doLast { println('✅ Veracode upload completed') }")
		g.close()
		notCompatibleWithConfigurationCache(g, "veracode", "Veracode uses runtime project access")
	}
	return g.b.String()
}

func notCompatibleWithConfigurationCache(g *groovyBlock, nameContains, reason string) {
	g.open("p.tasks.matching { it.name.contains(%s) }.configureEach { t ->", q(nameContains))
	g.line("t.notCompatibleWithConfigurationCache(%s)", q(reason))
	g.close()
}

func (c *CheckstyleSettings) writeGradle(g *groovyBlock) {
	g.line("p.pluginManager.apply('checkstyle')")
	g.open("p.extensions.getByName('checkstyle').with { e ->")
	g.line("e.toolVersion = %s", q(c.ToolVersion))
	g.line("e.maxWarnings = %d", c.MaxWarnings)
	g.line("e.maxErrors = %d", c.MaxErrors)
	g.line("e.ignoreFailures = %t", c.IgnoreFailures)
	g.line("e.showViolations = %t", c.ShowViolations)
	g.line("e.configFile = p.file(%s)", q(c.ConfigFile))
	g.line("e.configProperties = [%s]", compose.GroovyMap(c.ConfigProperties))
	g.close()
	g.open("p.tasks.withType(org.gradle.api.plugins.quality.Checkstyle).configureEach { t ->")
	if len(c.Includes) > 0 {
		g.line("t.include(%s)", list(c.Includes))
	}
	if len(c.Excludes) > 0 {
		g.line("t.exclude(%s)", list(c.Excludes))
	}
	g.line("t.reports.xml.required = %t", c.XMLReport)
	g.line("t.reports.html.required = %t", c.HTMLReport)
	g.line("t.reports.sarif.required = %t", c.SarifReport)
	g.close()
}

func (c *SpotbugsSettings) writeGradle(g *groovyBlock) {
	g.line("p.pluginManager.apply(%s)", spotbugsPluginClass)
	g.open("p.extensions.getByName('spotbugs').with { e ->")
	g.line("e.toolVersion = %s", q(c.ToolVersion))
	if c.Effort != "" {
		g.line("e.effort = com.github.spotbugs.snom.Effort.valueOf(%s)", q(c.Effort))
	}
	if c.ReportLevel != "" {
		g.line("e.reportLevel = com.github.spotbugs.snom.Confidence.valueOf(%s)", q(c.ReportLevel))
	}
	g.line("e.ignoreFailures = %t", c.IgnoreFailures)
	g.line("e.showStackTraces = %t", c.ShowStackTraces)
	g.line("e.showProgress = %t", c.ShowProgress)
	g.line("e.excludeFilter = p.file(%s)", q(c.ExcludeFile))
	if c.IncludeFile != "" {
		g.line("e.includeFilter = p.file(%s)", q(c.IncludeFile))
	}
	if c.MaxHeap != "" {
		g.line("e.maxHeapSize = %s", q(c.MaxHeap))
	}
	if len(c.Visitors) > 0 {
		g.line("e.visitors = %s", list(c.Visitors))
	}
	if len(c.ExtraArgs) > 0 {
		g.line("e.extraArgs = %s", list(c.ExtraArgs))
	}
	g.close()

	formats := make([]string, 0, len(c.Reports))
	for f := range c.Reports {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	if len(formats) == 0 && c.TimeoutMillis <= 0 {
		return
	}
	g.open("p.tasks.matching { it.name == 'spotbugsMain' }.configureEach { t ->")
	if c.TimeoutMillis > 0 {
		g.line("t.timeout = java.time.Duration.ofMillis(%d)", c.TimeoutMillis)
	}
	for _, f := range formats {
		g.open("t.reports.create(%s) { r ->", q(f))
		g.line("r.required = true")
		g.line("r.outputLocation = p.file(%s)", q(c.Reports[f]))
		g.close()
	}
	g.close()
}

func (c *SpotlessSettings) writeGradle(g *groovyBlock) {
	g.line("p.pluginManager.apply(%s)", spotlessPluginClass)
	g.open("p.extensions.getByName('spotless').with { e ->")
	if c.Java != nil {
		g.open("e.java { f ->")
		c.Java.writeTargets(g)
		c.Java.writeFormatter(g)
		if c.Java.ImportOrderFile != "" {
			g.line("f.importOrderFile(%s)", q(c.Java.ImportOrderFile))
		}
		if c.Java.RemoveUnusedImports {
			g.line("f.removeUnusedImports()")
		}
		c.Java.writeWhitespace(g)
		if c.LicenseHeaderFile != "" {
			g.line("f.licenseHeaderFile(%s)", q(c.LicenseHeaderFile))
		}
		g.close()
	}
	if c.Kotlin != nil {
		g.open("e.kotlin { f ->")
		c.Kotlin.writeTargets(g)
		c.Kotlin.writeFormatter(g)
		c.Kotlin.writeWhitespace(g)
		if c.LicenseHeaderFile != "" {
			g.line("f.licenseHeaderFile(%s)", q(c.LicenseHeaderFile))
		}
		g.close()
	}
	for _, f := range c.Formats {
		f.writeGradle(g)
	}
	g.close()
}

func (f *FormatterStep) writeTargets(g *groovyBlock) {
	if len(f.Targets) > 0 {
		g.line("f.target(%s)", list(f.Targets))
	}
	if len(f.Excludes) > 0 {
		g.line("f.targetExclude(%s)", list(f.Excludes))
	}
}

func (f *FormatterStep) writeFormatter(g *groovyBlock) {
	switch f.Formatter {
	case config.JavaFormatterGoogle:
		if f.Style == "AOSP" {
			g.line("f.googleJavaFormat(%s).aosp()", q(f.Version))
		} else {
			g.line("f.googleJavaFormat(%s)", q(f.Version))
		}
	case config.JavaFormatterPalantir:
		g.line("f.palantirJavaFormat(%s)", q(f.Version))
	case config.JavaFormatterEclipse:
		if f.ConfigFile != "" {
			g.line("f.eclipse(%s).configFile(%s)", q(f.Version), q(f.ConfigFile))
		} else {
			g.line("f.eclipse(%s)", q(f.Version))
		}
	case config.KotlinFormatterKtlint:
		if len(f.EditorConfigOverrides) > 0 {
			g.line("f.ktlint(%s).editorConfigOverride([%s])", q(f.Version), compose.GroovyMap(f.EditorConfigOverrides))
		} else {
			g.line("f.ktlint(%s)", q(f.Version))
		}
	case config.KotlinFormatterKtfmt:
		switch f.Style {
		case "GOOGLE":
			g.line("f.ktfmt(%s).googleStyle()", q(f.Version))
		case "KOTLINLANG":
			g.line("f.ktfmt(%s).kotlinlangStyle()", q(f.Version))
		default:
			g.line("f.ktfmt(%s)", q(f.Version))
		}
	case config.JavaFormatterCustom: // same value as config.KotlinFormatterCustom
		if len(f.Command) > 0 {
			g.line("f.nativeCmd('custom', %s, %s)", q(f.Command[0]), list(f.Command[1:]))
		}
	}
}

func (f *FormatterStep) writeWhitespace(g *groovyBlock) {
	if f.IndentSize > 0 {
		g.line("f.leadingTabsToSpaces(%d)", f.IndentSize)
	}
	if f.TrimTrailingWhitespace {
		g.line("f.trimTrailingWhitespace()")
	}
	if f.EndWithNewline {
		g.line("f.endWithNewline()")
	}
}

func (s FormatStep) writeGradle(g *groovyBlock) {
	switch s.Name {
	case "json", "sql":
		g.open("e.%s { f ->", s.Name)
	default:
		g.open("e.format(%s) { f ->", q(s.Name))
	}
	g.line("f.target(%s)", list(s.Targets))
	if len(s.Excludes) > 0 {
		g.line("f.targetExclude(%s)", list(s.Excludes))
	}
	switch s.Step {
	case "gson":
		g.line("f.gson().indentWithSpaces(%v)", s.Options["indentSpaces"])
	case "eclipseWtp":
		g.line("f.eclipseWtp(com.diffplug.spotless.extra.wtp.EclipseWtpFormatterStep.XML)")
	case "prettier":
		g.line("f.prettier().config([%s])", groovyOptions(s.Options))
	case "sqlUppercase":
		g.line("f.dbeaver()")
	default:
		if s.Name == "sql" {
			g.line("f.dbeaver()")
		}
		g.line("f.trimTrailingWhitespace()")
		g.line("f.endWithNewline()")
	}
	g.close()
}

// groovyOptions renders a prettier option map sorted by key. Strings are
// quoted; numbers and booleans are written as literals.
func groovyOptions(opts map[string]any) string {
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		v := opts[k]
		if s, ok := v.(string); ok {
			pairs[i] = q(k) + ": " + q(s)
		} else {
			pairs[i] = fmt.Sprintf("%s: %v", q(k), v)
		}
	}
	return strings.Join(pairs, ", ")
}

func (c *JacocoSettings) writeGradle(g *groovyBlock) {
	g.line("p.pluginManager.apply('jacoco')")
	g.line("p.extensions.getByName('jacoco').toolVersion = %s", q(c.ToolVersion))

	g.open("p.tasks.matching { it.name == 'jacocoTestReport' }.configureEach { t ->")
	g.line("t.dependsOn('test')")
	g.line("t.reports.xml.required = %t", c.XMLReport)
	g.line("t.reports.html.required = %t", c.HTMLReport)
	g.line("t.reports.csv.required = %t", c.CSVReport)
	if len(c.ReportExclusions) > 0 {
		g.line("t.classDirectories.setFrom(p.files(t.classDirectories.files.collect { d -> p.fileTree(dir: d, exclude: %s) }))", list(c.ReportExclusions))
	}
	g.close()

	g.open("p.tasks.matching { it.name == 'jacocoTestCoverageVerification' }.configureEach { t ->")
	g.line("t.dependsOn('jacocoTestReport')")
	g.open("t.violationRules { rules ->")
	for _, r := range c.Rules {
		g.open("rules.rule { rule ->")
		if r.Element != "" {
			g.line("rule.element = %s", q(r.Element))
		}
		if len(r.Includes) > 0 {
			g.line("rule.includes = %s", list(r.Includes))
		}
		if len(r.Excludes) > 0 {
			g.line("rule.excludes = %s", list(r.Excludes))
		}
		g.open("rule.limit { limit ->")
		if r.Counter != "" {
			g.line("limit.counter = %s", q(r.Counter))
		}
		g.line("limit.minimum = %s", bigDecimal(r.Minimum))
		g.close()
		g.close()
	}
	g.close()
	g.close()
}

func (c *OwaspSettings) writeGradle(g *groovyBlock) {
	g.line("p.pluginManager.apply(%s)", owaspPluginClass)
	g.open("p.extensions.getByName('dependencyCheck').with { e ->")
	g.line("e.failBuildOnCVSS = %sf", strconv.FormatFloat(c.FailBuildOnCVSS, 'f', -1, 32))
	g.line("e.formats = %s", list(c.Formats))
	g.line("e.autoUpdate = %t", c.AutoUpdate)
	g.line("e.suppressionFile = p.file(%s).path", q(c.SuppressionFile))
	if c.NvdAPIKeySet {
		// The key itself stays on the command line as -Dnvd.api.key.
		g.line("if (System.getProperty('nvd.api.key')) e.nvd.apiKey = System.getProperty('nvd.api.key')")
	}
	g.close()
}

// The token is not written; the scanner reads it from -Dsonar.token.
func (c *SonarSettings) writeGradle(g *groovyBlock) {
	g.line("p.pluginManager.apply(%s)", sonarPluginClass)
	keys := make([]string, 0, len(c.Properties))
	for k := range c.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	g.open("p.extensions.getByName('sonar').properties { sp ->")
	for _, k := range keys {
		g.line("sp.property(%s, %s)", q(k), q(c.Properties[k]))
	}
	g.close()
}
