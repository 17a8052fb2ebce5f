// Package colors provides color output utilities.
package colors

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Color constants
const (
	Red    = "\033[0;31m"
	Green  = "\033[0;32m"
	Yellow = "\033[1;33m"
	Blue   = "\033[0;34m"
	Cyan   = "\033[0;36m"
	Reset  = "\033[0m"
)

const checkmark = "✓"

// Logger defines the interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var (
	debugEnabled    = false
	inErrorHandling = false
	errorMutex      sync.RWMutex
	logger          Logger
	loggerMu        sync.RWMutex
)

func init() {
	if val := os.Getenv("TMUX_CHATWATCH_DEBUG"); val == "true" || val == "1" {
		debugEnabled = true
	}
}

// SetDebug enables or disables debug output.
func SetDebug(enabled bool) {
	debugEnabled = enabled
}

// SetLogger sets the structured logger to mirror console output.
func SetLogger(l Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

func mirror(level string, msg string, args ...any) {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	if l == nil {
		return
	}
	switch level {
	case "debug":
		l.Debug(msg, args...)
	case "warn":
		l.Warn(msg, args...)
	case "error":
		l.Error(msg, args...)
	default:
		l.Info(msg, args...)
	}
}

// errorFallback logs an error message without using colors to avoid recursion.
func errorFallback(msg string) {
	// Direct write to stderr, ignore errors
	fmt.Fprintf(os.Stderr, "%s\n", msg)
}

// write prints a formatted line and reports write failures at most one
// level deep. A failure while already reporting a failure falls back to
// a plain stderr write instead of recursing.
func write(w *os.File, line string, what string) {
	_, err := fmt.Fprint(w, line)
	if err == nil {
		return
	}

	errorMutex.RLock()
	alreadyHandling := inErrorHandling
	errorMutex.RUnlock()

	if alreadyHandling {
		errorFallback("Error: failed to print " + what + " message: " + err.Error())
		return
	}

	errorMutex.Lock()
	inErrorHandling = true
	errorMutex.Unlock()
	defer func() {
		errorMutex.Lock()
		inErrorHandling = false
		errorMutex.Unlock()
	}()
	Warning("failed to print " + what + " message: " + err.Error())
}

// Error outputs an error message to stderr.
func Error(msgs ...string) {
	msg := strings.Join(msgs, " ")
	mirror("error", msg)
	write(os.Stderr, fmt.Sprintf("%sError:%s %s%s\n", Red, Reset, msg, Reset), "error")
}

// Success outputs a success message to stdout.
func Success(msgs ...string) {
	msg := strings.Join(msgs, " ")
	mirror("info", msg, "type", "success")
	write(os.Stdout, fmt.Sprintf("%s%s%s %s%s\n", Green, checkmark, Reset, msg, Reset), "success")
}

// Warning outputs a warning message to stderr.
func Warning(msgs ...string) {
	msg := strings.Join(msgs, " ")
	mirror("warn", msg)
	write(os.Stderr, fmt.Sprintf("%sWarning:%s %s%s\n", Yellow, Reset, msg, Reset), "warning")
}

// Info outputs an informational message to stdout.
func Info(msgs ...string) {
	msg := strings.Join(msgs, " ")
	mirror("info", msg)
	write(os.Stdout, fmt.Sprintf("%s%s%s\n", Blue, msg, Reset), "info")
}

// LogInfo outputs a log informational message to stderr.
func LogInfo(msgs ...string) {
	msg := strings.Join(msgs, " ")
	mirror("info", msg)
	write(os.Stderr, fmt.Sprintf("%s%s%s\n", Blue, msg, Reset), "log info")
}

// Debug outputs a debug message to stderr if debug is enabled.
func Debug(msgs ...string) {
	if !debugEnabled {
		return
	}
	msg := strings.Join(msgs, " ")
	mirror("debug", msg)
	write(os.Stderr, fmt.Sprintf("%sDebug:%s %s%s\n", Cyan, Reset, msg, Reset), "debug")
}
