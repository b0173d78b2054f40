package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// CODEARMOR_COVERAGE_MINIMUM=0.5.
const EnvPrefix = "CODEARMOR"

// envOverride binds one viper key to the Config field it overrides.
type envOverride struct {
	key   string
	apply func(v *viper.Viper, c *Config)
}

// envOverrides lists the top-level options that may be overridden from the
// environment. Nested tool sections are file-only.
var envOverrides = []envOverride{
	{"auto_detect", func(v *viper.Viper, c *Config) { c.AutoDetect = v.GetBool("auto_detect") }},
	{"project_type", func(v *viper.Viper, c *Config) { c.ProjectType = v.GetString("project_type") }},
	{"multi_module", func(v *viper.Viper, c *Config) { c.MultiModule = v.GetBool("multi_module") }},
	{"jacoco", func(v *viper.Viper, c *Config) { c.Jacoco = v.GetBool("jacoco") }},
	{"checkstyle", func(v *viper.Viper, c *Config) { c.Checkstyle = v.GetBool("checkstyle") }},
	{"spotbugs", func(v *viper.Viper, c *Config) { c.Spotbugs = v.GetBool("spotbugs") }},
	{"spotless", func(v *viper.Viper, c *Config) { c.Spotless = v.GetBool("spotless") }},
	{"owasp", func(v *viper.Viper, c *Config) { c.Owasp = v.GetBool("owasp") }},
	{"veracode", func(v *viper.Viper, c *Config) { c.Veracode = v.GetBool("veracode") }},
	{"sonarqube", func(v *viper.Viper, c *Config) { c.Sonarqube = v.GetBool("sonarqube") }},
	{"coverage_minimum", func(v *viper.Viper, c *Config) { c.CoverageMinimum = v.GetFloat64("coverage_minimum") }},
	{"coverage_class_minimum", func(v *viper.Viper, c *Config) { c.CoverageClassMinimum = v.GetFloat64("coverage_class_minimum") }},
	{"owasp_fail_build_on_cvss", func(v *viper.Viper, c *Config) { c.OwaspFailBuildOnCVSS = v.GetFloat64("owasp_fail_build_on_cvss") }},
	{"owasp_auto_update", func(v *viper.Viper, c *Config) { c.OwaspAutoUpdate = v.GetBool("owasp_auto_update") }},
	{"sonar_host_url", func(v *viper.Viper, c *Config) { c.SonarHostURL = v.GetString("sonar_host_url") }},
	{"sonar_project_key", func(v *viper.Viper, c *Config) { c.SonarProjectKey = v.GetString("sonar_project_key") }},
	{"sonar_token", func(v *viper.Viper, c *Config) { c.SonarToken = v.GetString("sonar_token") }},
	{"enable_git_hooks", func(v *viper.Viper, c *Config) { c.EnableGitHooks = v.GetBool("enable_git_hooks") }},
	{"enable_version_from_git", func(v *viper.Viper, c *Config) { c.EnableVersionFromGit = v.GetBool("enable_version_from_git") }},
	{"log_level", func(v *viper.Viper, c *Config) { c.LogLevel = v.GetString("log_level") }},
}

// NewEnv returns a viper instance reading CODEARMOR_* variables.
func NewEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// ApplyEnv overrides cfg with every CODEARMOR_* variable that is set and
// non-empty, and returns the keys that were applied.
func ApplyEnv(cfg *Config, v *viper.Viper) []string {
	var applied []string
	for _, o := range envOverrides {
		if !v.IsSet(o.key) {
			continue
		}
		o.apply(v, cfg)
		applied = append(applied, o.key)
	}
	return applied
}

// LookupFunc reads one environment variable. os.LookupEnv satisfies it;
// tests pass a map-backed fake.
type LookupFunc func(key string) (string, bool)

// MapLookup returns a LookupFunc backed by m.
func MapLookup(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}
