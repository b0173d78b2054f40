// Package templates holds the files codearmor writes into a project. All of
// them are compiled into the binary via //go:embed.
//
//   - init/ holds the default tool configuration scaffolded under config/ and
//     the sample codearmor.yaml written by `codearmor init`.
//   - hooks/ holds the git hooks installed by `codearmor hooks`.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

// Init holds the scaffolded project files.
//
//go:embed init
var Init embed.FS

// Hooks holds the git hook scripts.
//
//go:embed hooks
var Hooks embed.FS

// Paths of the embedded files, relative to their FS.
const (
	CheckstyleConfig      = "init/config/checkstyle/checkstyle.xml"
	CheckstyleSuppression = "init/config/checkstyle/suppressions.xml"
	SpotbugsExclude       = "init/config/spotbugs/spotbugs-exclude.xml"
	OwaspSuppression      = "init/config/owasp/suppressions.xml"
	LicenseHeader         = "init/config/spotless/license-header.txt.tmpl"
	SampleConfig          = "init/codearmor.yaml"

	PreCommitHook = "hooks/pre-commit"
	PrePushHook   = "hooks/pre-push"
)

// Read returns the embedded file at name from Init or Hooks.
func Read(name string) ([]byte, error) {
	if data, err := Init.ReadFile(name); err == nil {
		return data, nil
	}
	return Hooks.ReadFile(name)
}

// RenderLicenseHeader renders the Spotless license header for group.
// $YEAR is left for Spotless to fill in.
func RenderLicenseHeader(group string) ([]byte, error) {
	if group == "" {
		group = "the original author or authors"
	}
	raw, err := Init.ReadFile(LicenseHeader)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New("license").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse license header: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Group string }{group}); err != nil {
		return nil, fmt.Errorf("render license header: %w", err)
	}
	return buf.Bytes(), nil
}
