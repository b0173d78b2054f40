// Package git derives the project version from tags and installs the
// codearmor git hooks.
package git

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/coretide/codearmor/internal/config"
	"github.com/coretide/codearmor/internal/log"
	"github.com/coretide/codearmor/internal/templates"
)

// DefaultVersion is used when no tag can be found.
const DefaultVersion = "0.0.1-SNAPSHOT"

// UnknownCommit is returned by CommitHash when HEAD cannot be resolved.
const UnknownCommit = "unknown"

// CI variables consulted before the repository.
const (
	EnvCICommitTag = "CI_COMMIT_TAG"
	EnvGitHubRef   = "GITHUB_REF"
)

const githubTagPrefix = "refs/tags/v"

// DeriveVersion returns the project version for dir. It never fails:
//   - CI_COMMIT_TAG starting with v, or GITHUB_REF under refs/tags/v, wins;
//   - without a .git directory the default version is used;
//   - an exact tag on HEAD is the version;
//   - otherwise the latest reachable tag gets a -SNAPSHOT suffix;
//   - with no tags at all the default version is used.
func DeriveVersion(dir string, lookup config.LookupFunc, l *log.Logger) string {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if tag, ok := lookup(EnvCICommitTag); ok && strings.HasPrefix(tag, "v") {
		return stripV(tag)
	}
	if ref, ok := lookup(EnvGitHubRef); ok && strings.HasPrefix(ref, githubTagPrefix) {
		return stripV("v" + strings.TrimPrefix(ref, githubTagPrefix))
	}

	gitDir := filepath.Join(dir, ".git")
	_, statErr := os.Stat(gitDir)
	l.Verbose("🔍 Git version detection:")
	l.Verbosef("   Project directory: %s", dir)
	l.Verbosef("   Git directory exists: %t", statErr == nil)
	if statErr != nil {
		l.Essential("   ⚠️ No .git directory found, using default version")
		return DefaultVersion
	}

	if tag, err := output(dir, "describe", "--tags", "--exact-match", "HEAD"); err == nil && tag != "" {
		l.Verbosef("   ✅ Found exact tag: %s", tag)
		return stripV(tag)
	}
	l.Verbose("   ℹ️ No exact tag found (normal if not on tagged commit)")

	if tag, err := output(dir, "describe", "--tags", "--abbrev=0"); err == nil && tag != "" {
		version := stripV(tag) + "-SNAPSHOT"
		l.Verbosef("   ✅ Found latest tag: %s, using: %s", tag, version)
		return version
	}

	if _, err := output(dir, "log", "--oneline", "-1"); err == nil {
		l.Verbose("   ℹ️ Repository has commits but no tags")
	} else {
		l.Verbose("   ℹ️ Repository appears to be empty (no commits)")
	}
	return DefaultVersion
}

// stripV drops the leading v of a semver tag. Other tags are returned as is.
func stripV(tag string) string {
	if semver.IsValid(tag) {
		return strings.TrimPrefix(tag, "v")
	}
	return tag
}

// CommitHash returns the short hash of HEAD, or UnknownCommit.
func CommitHash(dir string) string {
	hash, err := output(dir, "rev-parse", "--short", "HEAD")
	if err != nil || hash == "" {
		return UnknownCommit
	}
	return hash
}

func output(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w\n%s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(string(out)), nil
}

// HookOptions selects the hooks InstallHooks writes.
type HookOptions struct {
	PreCommit bool
	PrePush   bool
}

// HookResult is what InstallHooks did.
type HookResult struct {
	Installed []string
	Preserved []string
}

// ErrNoHooksDir is returned when dir has no .git/hooks directory.
var ErrNoHooksDir = errors.New("git hooks directory not found")

// InstallHooks writes the codearmor pre-commit and pre-push hooks into
// dir/.git/hooks. A hook that already exists with different content is left
// alone and reported as preserved.
func InstallHooks(dir string, opts HookOptions, l *log.Logger) (HookResult, error) {
	var res HookResult
	hooksDir := filepath.Join(dir, ".git", "hooks")
	if info, err := os.Stat(hooksDir); err != nil || !info.IsDir() {
		l.Verbose("ℹ️ Git hooks directory not found. Skipping Git hooks setup.")
		return res, ErrNoHooksDir
	}

	for _, h := range []struct {
		on       bool
		name     string
		template string
		emoji    string
	}{
		{opts.PreCommit, "pre-commit", templates.PreCommitHook, "📜"},
		{opts.PrePush, "pre-push", templates.PrePushHook, "🫸"},
	} {
		if !h.on {
			continue
		}
		content, err := templates.Read(h.template)
		if err != nil {
			return res, fmt.Errorf("read %s template: %w", h.name, err)
		}

		path := filepath.Join(hooksDir, h.name)
		existing, err := os.ReadFile(path)
		switch {
		case err == nil && bytes.Equal(existing, content):
			res.Installed = append(res.Installed, h.name)
			continue
		case err == nil:
			l.Warning(fmt.Sprintf("%s hook already exists, leaving it in place", h.name))
			res.Preserved = append(res.Preserved, h.name)
			continue
		case !errors.Is(err, fs.ErrNotExist):
			return res, fmt.Errorf("read %s: %w", path, err)
		}

		l.Verbosef("%s🪝 Creating %s hook at %s...", h.emoji, h.name, path)
		if err := os.WriteFile(path, content, 0o755); err != nil {
			return res, fmt.Errorf("write %s: %w", path, err)
		}
		// WriteFile honours the umask; hooks must be executable.
		if err := os.Chmod(path, 0o755); err != nil {
			return res, fmt.Errorf("chmod %s: %w", path, err)
		}
		res.Installed = append(res.Installed, h.name)
	}

	if len(res.Installed) > 0 {
		l.Essential("🪝 Git hooks configured successfully")
	}
	return res, nil
}
