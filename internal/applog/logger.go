// Package applog builds the process logger: a text handler writing to the
// log file (or stderr in console mode) behind a hot-swappable level, teed
// into a ring of recent warnings for the status command.
package applog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	LogFileName = "taskbar-hider.log"

	// maxLogFileBytes triggers a one-generation rotation at startup.
	maxLogFileBytes = 1 << 20
	warningRingSize = 32
)

// Options selects the log destination and initial level.
type Options struct {
	// Dir receives LogFileName. Ignored when Console is set.
	Dir     string
	Console bool
	Level   slog.Level
	// Stderr overrides os.Stderr; used by tests.
	Stderr io.Writer
}

// Logger owns the log file and the level and warning state shared by every
// handler derived from it.
type Logger struct {
	*slog.Logger

	level    *slog.LevelVar
	warnings *Ring
	file     *os.File
	path     string
}

// New builds the logger. If the log file cannot be opened it falls back to
// stderr and reports the open error alongside a usable logger.
func New(opts Options) (*Logger, error) {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	l := &Logger{
		level:    new(slog.LevelVar),
		warnings: NewRing(warningRingSize),
	}
	l.level.Set(opts.Level)

	var out io.Writer = stderr
	var openErr error
	if !opts.Console {
		file, path, err := openLogFile(opts.Dir)
		if err != nil {
			openErr = err
		} else {
			out, l.file, l.path = file, file, path
		}
	}

	base := slog.NewTextHandler(out, &slog.HandlerOptions{Level: l.level})
	l.Logger = slog.New(NewTeeHandler(base, slog.LevelWarn, l.capture))
	return l, openErr
}

func openLogFile(dir string) (*os.File, string, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, "", errors.New("log directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, "", fmt.Errorf("create log directory: %w", err)
	}
	path := filepath.Join(dir, LogFileName)
	if info, err := os.Stat(path); err == nil && info.Size() > maxLogFileBytes {
		if err := os.Rename(path, path+".1"); err != nil {
			fmt.Fprintf(os.Stderr, "[applog] failed to rotate %s: %v\n", path, err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, "", fmt.Errorf("open log file: %w", err)
	}
	return file, path, nil
}

func (l *Logger) capture(ts time.Time, level slog.Level, msg string, group string) {
	l.warnings.Push(Entry{Time: ts, Level: strings.ToLower(level.String()), Message: msg, Source: group})
}

// SetLevel changes the level for every handler derived from l.
func (l *Logger) SetLevel(level slog.Level) {
	if l.level.Level() == level {
		return
	}
	l.level.Set(level)
	l.Info("[DEBUG-CONFIG] log level changed", "level", level.String())
}

// Level returns the current level.
func (l *Logger) Level() slog.Level {
	return l.level.Level()
}

// Path returns the log file path, or "" when logging to stderr.
func (l *Logger) Path() string {
	return l.path
}

// RecentWarnings returns the captured warnings and errors as status lines,
// oldest first.
func (l *Logger) RecentWarnings() []string {
	entries := l.warnings.Snapshot()
	if len(entries) == 0 {
		return nil
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.String()
	}
	return out
}

// Close flushes and closes the log file. Safe to call more than once.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	file := l.file
	l.file = nil
	syncErr := file.Sync()
	if errors.Is(syncErr, os.ErrClosed) {
		syncErr = nil
	}
	return errors.Join(syncErr, file.Close())
}
