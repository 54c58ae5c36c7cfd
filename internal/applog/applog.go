// Package applog is a small leveled logger fanning diagnostics out to
// stderr and, at trace level, to a log file.
package applog

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Level orders the severities this package understands.
type Level int

const (
	LevelTrace Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger writes every message at trace level or above to file,
// and messages at stderrLevel or above to stderr. It deliberately
// has no dependency on the standard *log.Logger's timestamp/caller
// flags beyond what New configures, so output stays diff-friendly in
// tests.
type Logger struct {
	stderr      *log.Logger
	file        *log.Logger
	stderrLevel Level
}

// New opens logPath (truncating any existing file) and returns a
// Logger that writes everything to it at trace level, while only
// forwarding messages at stderrLevel or above to stderr.
func New(logPath string, stderrLevel Level) (*Logger, error) {
	f, err := os.OpenFile(logPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", logPath, err)
	}
	return &Logger{
		stderr:      log.New(os.Stderr, "", log.LstdFlags),
		file:        log.New(f, "", log.LstdFlags),
		stderrLevel: stderrLevel,
	}, nil
}

// Discard returns a Logger whose messages go nowhere. Useful in tests
// and as a safe default when no logger is supplied.
func Discard() *Logger {
	return &Logger{
		stderr:      log.New(io.Discard, "", 0),
		file:        log.New(io.Discard, "", 0),
		stderrLevel: LevelError + 1,
	}
}

func (l *Logger) emit(level Level, format string, args ...interface{}) {
	msg := fmt.Sprintf("[%s] %s", level, fmt.Sprintf(format, args...))
	l.file.Println(msg)
	if level >= l.stderrLevel {
		l.stderr.Println(msg)
	}
}

func (l *Logger) Tracef(format string, args ...interface{}) { l.emit(LevelTrace, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.emit(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.emit(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.emit(LevelError, format, args...) }
