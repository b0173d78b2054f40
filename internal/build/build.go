// Package build runs Gradle for codearmor.
package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// tailLines is how much Gradle output a failure error carries.
const tailLines = 50

// tailBytes bounds the retained output when lines are very long.
const tailBytes = 64 * 1024

// ErrNoLauncher is returned when neither ./gradlew nor gradle on PATH exist.
var ErrNoLauncher = errors.New("no Gradle launcher: add the Gradle wrapper (./gradlew) or install gradle")

// BuildSystem defines the build lifecycle operations codearmor drives.
type BuildSystem interface {
	// Build compiles the project.
	Build(ctx context.Context) error

	// Test runs the project's test suite.
	Test(ctx context.Context) error

	// Run invokes the build with arbitrary tasks and flags.
	Run(ctx context.Context, args ...string) error

	// IsInitialized reports whether the directory holds a Gradle build.
	IsInitialized() bool
}

// GradleBuildSystem implements BuildSystem with the Gradle wrapper, falling
// back to gradle on PATH. Commands use exec.CommandContext with an explicit
// args slice; there is no shell eval.
type GradleBuildSystem struct {
	projectRoot string
	out         io.Writer
}

// NewGradleBuildSystem creates a GradleBuildSystem rooted at projectRoot that
// streams Gradle output to out. A nil out discards it.
func NewGradleBuildSystem(projectRoot string, out io.Writer) *GradleBuildSystem {
	if out == nil {
		out = io.Discard
	}
	return &GradleBuildSystem{projectRoot: projectRoot, out: out}
}

// IsInitialized returns true if a Gradle build or settings script exists in
// the project root.
func (g *GradleBuildSystem) IsInitialized() bool {
	for _, name := range []string{"build.gradle.kts", "build.gradle", "settings.gradle.kts", "settings.gradle"} {
		if _, err := os.Stat(filepath.Join(g.projectRoot, name)); err == nil {
			return true
		}
	}
	return false
}

// Launcher returns the Gradle executable: the wrapper when present,
// otherwise gradle from PATH.
func (g *GradleBuildSystem) Launcher() (string, error) {
	wrapper := filepath.Join(g.projectRoot, "gradlew")
	if info, err := os.Stat(wrapper); err == nil && !info.IsDir() && info.Mode().Perm()&0o111 != 0 {
		return wrapper, nil
	}
	if path, err := exec.LookPath("gradle"); err == nil {
		return path, nil
	}
	return "", ErrNoLauncher
}

// Build runs gradle assemble.
func (g *GradleBuildSystem) Build(ctx context.Context) error {
	return g.Run(ctx, "assemble")
}

// Test runs gradle test.
func (g *GradleBuildSystem) Test(ctx context.Context) error {
	return g.Run(ctx, "test")
}

// Run streams Gradle output to the configured writer and returns an error
// containing the last 50 lines of output on failure.
func (g *GradleBuildSystem) Run(ctx context.Context, args ...string) error {
	launcher, err := g.Launcher()
	if err != nil {
		return err
	}

	var tail tailBuffer
	w := io.MultiWriter(g.out, &tail)
	cmd := exec.CommandContext(ctx, launcher, args...)
	cmd.Dir = g.projectRoot
	cmd.Stdout = w
	cmd.Stderr = w
	if err := cmd.Run(); err != nil {
		return wrapOutput(fmt.Errorf("gradle %s: %w", strings.Join(args, " "), err), tail.Bytes())
	}
	return nil
}

// tailBuffer keeps roughly the last tailLines lines written to it.
type tailBuffer struct {
	buf bytes.Buffer
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf.Write(p)
	if t.buf.Len() > tailBytes {
		t.trim()
	}
	return len(p), nil
}

// trim keeps the last tailLines lines, and at most the last tailBytes bytes
// of those.
func (t *tailBuffer) trim() {
	data := t.buf.Bytes()
	start, n := 0, 0
	for i := len(data) - 1; i >= 0; i-- {
		if data[i] == '\n' {
			n++
			if n > tailLines {
				start = i + 1
				break
			}
		}
	}
	if len(data)-start > tailBytes {
		start = len(data) - tailBytes
	}
	if start == 0 {
		return
	}
	kept := append([]byte(nil), data[start:]...)
	t.buf.Reset()
	t.buf.Write(kept)
}

func (t *tailBuffer) Bytes() []byte { return t.buf.Bytes() }

// wrapOutput returns an error that includes the last 50 lines of command output.
func wrapOutput(err error, output []byte) error {
	lines := strings.Split(strings.TrimRight(string(output), "\n"), "\n")
	if len(lines) > tailLines {
		lines = lines[len(lines)-tailLines:]
	}
	return fmt.Errorf("%w\n%s", err, strings.Join(lines, "\n"))
}
