// Package scanlog provides the leveled, colorized console logger used
// throughout the scan orchestrator, in the style of the payment scanner
// this repo grew out of.
package scanlog

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

const (
	LevelDebug = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
)

// Logger handles formatted, leveled logging output with optional stable
// fields attached via With.
type Logger struct {
	level   int
	verbose bool
	fields  []string // pre-rendered "key=value" pairs, appended to each line
}

// New creates a logger; verbose enables Debug output.
func New(verbose bool) *Logger {
	level := LevelInfo
	if verbose {
		level = LevelDebug
	}
	return &Logger{level: level, verbose: verbose}
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level int) {
	l.level = level
}

// With returns a derived logger that appends the given key=value fields to
// every subsequent line, the way a scan tags its lines with scan_id/
// session/step_id.
func (l *Logger) With(fields ...string) *Logger {
	next := &Logger{level: l.level, verbose: l.verbose}
	next.fields = append(append([]string{}, l.fields...), fields...)
	return next
}

func (l *Logger) suffix() string {
	if len(l.fields) == 0 {
		return ""
	}
	return " [" + strings.Join(l.fields, " ") + "]"
}

func (l *Logger) line(tag, format string, args ...interface{}) string {
	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("15:04:05")
	return fmt.Sprintf("[%s] %s %s%s", timestamp, tag, msg, l.suffix())
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if l.verbose && l.level <= LevelDebug {
		fmt.Println(l.line(color.CyanString("DEBUG"), format, args...))
	}
}

func (l *Logger) Info(format string, args ...interface{}) {
	if l.level <= LevelInfo {
		fmt.Println(l.line(color.BlueString("INFO"), format, args...))
	}
}

func (l *Logger) Success(format string, args ...interface{}) {
	if l.level <= LevelInfo {
		fmt.Println(l.line(color.GreenString("✓"), format, args...))
	}
}

func (l *Logger) Warn(format string, args ...interface{}) {
	if l.level <= LevelWarn {
		fmt.Println(l.line(color.YellowString("WARN"), format, args...))
	}
}

func (l *Logger) Error(format string, args ...interface{}) {
	if l.level <= LevelError {
		fmt.Println(l.line(color.RedString("ERROR"), format, args...))
	}
}

// Critical logs and exits, matching the teacher's Logger.Critical.
func (l *Logger) Critical(format string, args ...interface{}) {
	fmt.Println(l.line(color.RedString("CRITICAL"), format, args...))
	os.Exit(1)
}

// Fatal logs a non-nil error and exits.
func (l *Logger) Fatal(err error) {
	if err != nil {
		fmt.Println(l.line(color.RedString("FATAL"), "%s", err.Error()))
		os.Exit(1)
	}
}

// Banner prints a formatted banner.
func (l *Logger) Banner(text string) {
	fmt.Println()
	fmt.Println(color.CyanString("═══════════════════════════════════════════════════════════"))
	fmt.Println(color.CyanString("  " + text))
	fmt.Println(color.CyanString("═══════════════════════════════════════════════════════════"))
	fmt.Println()
}

// Section prints a section header.
func (l *Logger) Section(text string) {
	fmt.Println()
	fmt.Println(color.YellowString("▶ " + text))
	fmt.Println(color.YellowString("───────────────────────────────────────────────────────────"))
}
