// Package detect classifies a Gradle project as Java, Kotlin or Mixed crossed
// with Application or Library, and scans build files and source trees to
// produce the descriptors that classification runs over.
package detect

import (
	"strings"

	"github.com/coretide/codearmor/internal/types"
)

// applicationSuffixes mark a project as an application by name alone.
var applicationSuffixes = []string{"-app", "-service"}

// Classify returns the classification of d. It is total: a descriptor with no
// Java or Kotlin signal is JAVA_LIBRARY.
//
// Precedence is Mixed, then Kotlin, then Java. A signal is either an applied
// plugin or source files of that language.
func Classify(d types.Descriptor) types.ProjectType {
	kotlin := d.Capabilities.Kotlin || d.HasKotlinFiles
	java := d.Capabilities.Java || d.Capabilities.JavaLibrary || d.Capabilities.Application || d.HasJavaFiles
	app := IsApplication(d)

	switch {
	case kotlin && java:
		return pick(app, types.MixedApplication, types.MixedLibrary)
	case kotlin:
		return pick(app, types.KotlinApplication, types.KotlinLibrary)
	case java:
		return pick(app, types.JavaApplication, types.JavaLibrary)
	default:
		return types.JavaLibrary
	}
}

// IsApplication reports whether d looks like a deployable application: the
// application or Spring Boot plugin is applied, or the name ends in -app or
// -service.
func IsApplication(d types.Descriptor) bool {
	if d.Capabilities.Application || d.Capabilities.SpringBoot {
		return true
	}
	for _, suffix := range applicationSuffixes {
		if strings.HasSuffix(d.Name, suffix) {
			return true
		}
	}
	return false
}

// NeedsCheckstyle reports whether the Java style checker applies to pt.
// Kotlin-only projects never need it.
func NeedsCheckstyle(pt types.ProjectType) bool {
	return pt.HasJava()
}

// IsMultiModule reports whether the settings file includes at least one
// sub-project. Sub-projects dropped later (bom, examples, no build file)
// still count.
func IsMultiModule(s Settings) bool {
	return len(s.Includes) > 0
}

func pick(app bool, ifApp, ifLib types.ProjectType) types.ProjectType {
	if app {
		return ifApp
	}
	return ifLib
}
