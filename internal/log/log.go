// Package log provides leveled, colored terminal output for codearmor.
//
// A Logger is built once by the root command from the configured log level
// and passed explicitly to every component; there is no package-level level
// state. ESSENTIAL shows tagged messages and essential lines, VERBOSE adds
// the detailed per-tool lines.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Level controls how much output a Logger emits.
type Level string

const (
	LevelEssential Level = "ESSENTIAL"
	LevelVerbose   Level = "VERBOSE"
)

// ParseLevel accepts ESSENTIAL or VERBOSE, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case LevelEssential:
		return LevelEssential, nil
	case LevelVerbose:
		return LevelVerbose, nil
	default:
		return "", fmt.Errorf("unknown log level %q: supported levels are ESSENTIAL and VERBOSE", s)
	}
}

// sectionLine is the unicode box-draw separator used by Section.
const sectionLine = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

var (
	tagInfo    = color.New(color.FgWhite, color.Bold)
	tagSuccess = color.New(color.FgGreen)
	tagWarning = color.New(color.FgYellow, color.Bold)
	tagError   = color.New(color.FgRed)
	tagSection = color.New(color.FgCyan)
)

// Logger writes leveled messages to an io.Writer.
type Logger struct {
	level Level
	out   io.Writer
}

// New returns a Logger writing to out at the given level.
// A nil out writes to os.Stdout.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stdout
	}
	if level != LevelVerbose {
		level = LevelEssential
	}
	return &Logger{level: level, out: out}
}

// Discard returns a Logger that drops everything. Useful in tests.
func Discard() *Logger {
	return New(LevelEssential, io.Discard)
}

// Level returns the configured level.
func (l *Logger) Level() Level { return l.level }

// IsVerbose reports whether verbose lines are emitted.
func (l *Logger) IsVerbose() bool { return l.level == LevelVerbose }

// Writer returns the underlying output.
func (l *Logger) Writer() io.Writer { return l.out }

// Info prints a white [INFO] message.
func (l *Logger) Info(msg string) {
	fmt.Fprintf(l.out, "%s %s\n", tagInfo.Sprint("[INFO]"), msg)
}

// Success prints a green [SUCCESS] message.
func (l *Logger) Success(msg string) {
	fmt.Fprintf(l.out, "%s %s\n", tagSuccess.Sprint("[SUCCESS]"), msg)
}

// Warning prints a yellow [WARNING] message.
func (l *Logger) Warning(msg string) {
	fmt.Fprintf(l.out, "%s %s\n", tagWarning.Sprint("[WARNING]"), msg)
}

// Error prints a red [ERROR] message.
func (l *Logger) Error(msg string) {
	fmt.Fprintf(l.out, "%s %s\n", tagError.Sprint("[ERROR]"), msg)
}

// Essential prints msg untagged at both levels.
func (l *Logger) Essential(msg string) {
	fmt.Fprintln(l.out, msg)
}

// Verbose prints msg untagged only at VERBOSE.
func (l *Logger) Verbose(msg string) {
	if l.level == LevelVerbose {
		fmt.Fprintln(l.out, msg)
	}
}

// Verbosef is Verbose with formatting.
func (l *Logger) Verbosef(format string, args ...any) {
	if l.level == LevelVerbose {
		fmt.Fprintf(l.out, format+"\n", args...)
	}
}

// Section prints a cyan box-draw separator with a title.
func (l *Logger) Section(title string) {
	fmt.Fprintf(l.out, "\n%s\n", tagSection.Sprint(sectionLine))
	fmt.Fprintf(l.out, "%s\n", tagSection.Sprint(title))
	fmt.Fprintf(l.out, "%s\n\n", tagSection.Sprint(sectionLine))
}
