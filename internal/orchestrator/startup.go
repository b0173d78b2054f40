package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/coretide/codearmor/internal/build"
	"github.com/coretide/codearmor/internal/config"
	"github.com/coretide/codearmor/internal/log"
)

// launcher is satisfied by build.GradleBuildSystem.
type launcher interface {
	Launcher() (string, error)
}

// CheckDependencies verifies that the binaries codearmor shells out to are
// available:
//   - a Gradle launcher (./gradlew or gradle on PATH)
//   - "git", when git hooks or version derivation are enabled
//
// Returns a descriptive error listing every missing binary; nil if all are
// present.
func CheckDependencies(bs build.BuildSystem, cfg *config.Config) error {
	var missing []string
	if l, ok := bs.(launcher); ok {
		if _, err := l.Launcher(); err != nil {
			missing = append(missing, "gradle (./gradlew or gradle on PATH)")
		}
	}
	if cfg.EnableGitHooks || cfg.EnableVersionFromGit {
		if _, err := exec.LookPath("git"); err != nil {
			missing = append(missing, "git")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required binaries: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ErrNotGradleProject is returned when the project root holds no Gradle
// build or settings script.
var ErrNotGradleProject = errors.New("no build.gradle(.kts) or settings.gradle(.kts) found")

// EnsureProjectReady runs a pre-flight assemble and test before a full
// analysis. A directory without a Gradle build is an error; a build or test
// failure returns an error that already includes the last 50 lines of output.
func EnsureProjectReady(ctx context.Context, bs build.BuildSystem, l *log.Logger) error {
	if !bs.IsInitialized() {
		return ErrNotGradleProject
	}

	l.Info("running pre-flight build check")
	if err := bs.Build(ctx); err != nil {
		return fmt.Errorf("pre-flight build failed (last 50 lines of output above):\n%w", err)
	}
	l.Success("pre-flight build passed")

	l.Info("running pre-flight test check")
	if err := bs.Test(ctx); err != nil {
		return fmt.Errorf("pre-flight tests failed (last 50 lines of output above):\n%w", err)
	}
	l.Success("pre-flight tests passed")
	return nil
}
