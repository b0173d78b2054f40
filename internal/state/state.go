// Package state loads and saves the codearmor run summary,
// build/reports/codearmor/run-summary.yaml.
//
// Writes are atomic: data is marshalled to a .tmp file in the same
// directory, then os.Rename replaces the target in a single kernel call.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/coretide/codearmor/internal/types"
)

// SummaryPath is the run summary location relative to the project root.
const SummaryPath = "build/reports/codearmor/run-summary.yaml"

// ErrNotFound is returned by LoadRunSummary when the file does not exist.
var ErrNotFound = errors.New("run summary not found")

// ParseError is returned when the file exists but cannot be unmarshalled.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadRunSummary reads the run summary at path.
// Returns ErrNotFound if the file is absent, or *ParseError on malformed YAML.
func LoadRunSummary(path string) (*types.RunSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var summary types.RunSummary
	if err := yaml.Unmarshal(data, &summary); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &summary, nil
}

// LoadOrNew is LoadRunSummary that starts an empty summary when the file is
// missing.
func LoadOrNew(path string) (*types.RunSummary, error) {
	summary, err := LoadRunSummary(path)
	if errors.Is(err, ErrNotFound) {
		return &types.RunSummary{}, nil
	}
	return summary, err
}

// SaveRunSummary atomically writes summary to path, creating the parent
// directory.
func SaveRunSummary(path string, summary *types.RunSummary) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal run summary: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	return atomicWrite(path, data)
}

// atomicWrite writes data to path by first writing to path+".tmp",
// then calling os.Rename to replace the final target atomically.
func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp) // best-effort cleanup on rename failure
		return fmt.Errorf("rename %s -> %s: %w", tmp, path, err)
	}
	return nil
}
