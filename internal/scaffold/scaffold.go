// Package scaffold writes codearmor's default tool configuration files into a
// project. Existing files are never touched unless a caller forces it.
package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/coretide/codearmor/internal/log"
	"github.com/coretide/codearmor/internal/templates"
	"github.com/coretide/codearmor/internal/tools"
)

// EnsureFile writes content to path when path does not exist, creating parent
// directories as needed. It reports whether it wrote the file.
func EnsureFile(path string, content []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

// ForProject scaffolds the default files the enabled tools in s refer to.
// Relative paths resolve against dir. Only the built-in Checkstyle locations
// are scaffolded; a user-supplied Checkstyle config is expected to exist.
// It returns the paths it created.
func ForProject(dir, group string, s *tools.Settings, l *log.Logger) ([]string, error) {
	type file struct {
		rel  string
		body func() ([]byte, error)
	}
	embedded := func(name string) func() ([]byte, error) {
		return func() ([]byte, error) { return templates.Read(name) }
	}

	var files []file
	if cs := s.Checkstyle; cs != nil {
		if cs.ConfigFile == tools.DefaultCheckstyleConfig {
			files = append(files, file{cs.ConfigFile, embedded(templates.CheckstyleConfig)})
		}
		if cs.SuppressionFile == tools.DefaultCheckstyleSuppression {
			files = append(files, file{cs.SuppressionFile, embedded(templates.CheckstyleSuppression)})
		}
	}
	if s.Spotbugs != nil {
		files = append(files, file{s.Spotbugs.ExcludeFile, embedded(templates.SpotbugsExclude)})
	}
	if s.Owasp != nil {
		files = append(files, file{s.Owasp.SuppressionFile, embedded(templates.OwaspSuppression)})
	}
	if s.Spotless != nil && s.Spotless.LicenseHeaderFile != "" {
		files = append(files, file{s.Spotless.LicenseHeaderFile, func() ([]byte, error) {
			return templates.RenderLicenseHeader(group)
		}})
	}

	var created []string
	for _, f := range files {
		path := resolve(dir, f.rel)
		if _, err := os.Stat(path); err == nil {
			l.Verbosef("   • %s exists, leaving it", f.rel)
			continue
		}
		content, err := f.body()
		if err != nil {
			return created, err
		}
		wrote, err := EnsureFile(path, content)
		if err != nil {
			return created, err
		}
		if wrote {
			l.Verbosef("📄 Created default %s", f.rel)
			created = append(created, path)
		}
	}
	return created, nil
}

// InitProject copies every file under the embedded init/ tree into dir:
// codearmor.yaml and the default config/ files. Existing files are skipped
// with a warning unless force is set.
func InitProject(dir string, force bool, l *log.Logger) ([]string, error) {
	var created []string
	err := fs.WalkDir(templates.Init, "init", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(path, "init/")
		var content []byte
		if path == templates.LicenseHeader {
			rel = strings.TrimSuffix(rel, ".tmpl")
			content, err = templates.RenderLicenseHeader("")
		} else {
			content, err = templates.Init.ReadFile(path)
		}
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}

		dst := filepath.Join(dir, filepath.FromSlash(rel))
		if !force {
			if _, statErr := os.Stat(dst); statErr == nil {
				l.Warning(fmt.Sprintf("%s already exists, skipping (use --force to overwrite)", rel))
				return nil
			}
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", dst, err)
		}
		if err := os.WriteFile(dst, content, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dst, err)
		}
		l.Success("created " + rel)
		created = append(created, dst)
		return nil
	})
	return created, err
}

func resolve(dir, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(dir, filepath.FromSlash(rel))
}
