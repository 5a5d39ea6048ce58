// Package logx provides structured logging for the dialog engine and its hosts.
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Logger writes level-prefixed log lines scoped to a component or session.
type Logger struct {
	scope string
}

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// All loggers share one writer so conversation output and log lines
// interleave predictably. Tests swap it for a buffer.
var (
	logWriter   io.Writer = os.Stderr
	logWriterMu sync.Mutex
)

// Debug logging is gated by environment so conversation transcripts stay
// readable by default.
var (
	debugEnabled bool
	debugScopes  map[string]bool // nil = all scopes
	debugMu      sync.RWMutex
)

func init() { //nolint:gochecknoinits // Required for env var initialization
	initDebugFromEnv()
}

func initDebugFromEnv() {
	debugMu.Lock()
	defer debugMu.Unlock()

	if debug := os.Getenv("DEBUG"); debug == "1" || strings.EqualFold(debug, "true") {
		debugEnabled = true
	}

	// DEBUG_SCOPES=engine,nlu restricts debug output to the named scopes.
	if scopes := os.Getenv("DEBUG_SCOPES"); scopes != "" {
		debugScopes = make(map[string]bool)
		for _, scope := range strings.Split(scopes, ",") {
			debugScopes[strings.TrimSpace(scope)] = true
		}
	}
}

// NewLogger creates a logger for the given scope (component name or session ID).
func NewLogger(scope string) *Logger {
	return &Logger{scope: scope}
}

// SetDebug configures debug logging programmatically, overriding the environment.
func SetDebug(enabled bool, scopes []string) {
	debugMu.Lock()
	defer debugMu.Unlock()

	debugEnabled = enabled
	if len(scopes) == 0 {
		debugScopes = nil
	} else {
		debugScopes = make(map[string]bool)
		for _, scope := range scopes {
			debugScopes[strings.TrimSpace(scope)] = true
		}
	}
}

// IsDebugEnabled returns whether debug logging is enabled for the given scope.
func IsDebugEnabled(scope string) bool {
	debugMu.RLock()
	defer debugMu.RUnlock()

	if !debugEnabled {
		return false
	}
	if debugScopes == nil {
		return true
	}
	return debugScopes[scope]
}

func (l *Logger) log(level Level, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	logWriterMu.Lock()
	defer logWriterMu.Unlock()
	fmt.Fprintf(logWriter, "[%s] %s: %s\n", l.scope, level, message)
}

func (l *Logger) Debug(format string, args ...any) {
	if !IsDebugEnabled(l.scope) {
		return
	}
	l.log(LevelDebug, format, args...)
}

func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, format, args...)
}

// WithScope returns a logger that shares the underlying writer under a new scope.
func (l *Logger) WithScope(scope string) *Logger {
	return &Logger{scope: scope}
}

var defaultLogger = NewLogger("rudder")

// Errorf logs and returns the formatted error.
// Use this when you need both logging and error returning:
//
//	err := logx.Errorf("flow load failed: %w", err).
func Errorf(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	defaultLogger.Error("%s", err.Error())
	return err
}

// Wrap logs msg + ": " + err.Error() and returns fmt.Errorf("%s: %w", msg, err).
// Use this when you need both logging and error wrapping:
//
//	if err != nil { return logx.Wrap(err, "db open") }.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	wrappedErr := fmt.Errorf("%s: %w", msg, err)
	defaultLogger.Error("%s", wrappedErr.Error())
	return wrappedErr
}
