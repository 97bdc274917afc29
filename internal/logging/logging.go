// Package logging provides the logger interface shared by every component.
// Lines are timestamped and written to stdout and, when configured, appended to a log file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ncruces/go-strftime"

	"github.com/raoulx24/log-janitor/internal/config"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// SlogLogger adapts *slog.Logger to Logger.
type SlogLogger struct {
	l *slog.Logger
}

func (s SlogLogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s SlogLogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s SlogLogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s SlogLogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }

func (s SlogLogger) With(args ...any) Logger { return SlogLogger{l: s.l.With(args...)} }

// New builds a logger writing to stdout and, if cfg.File is set, appending to that file.
// The returned closer releases the log file; it is never nil.
func New(cfg config.LoggingConfig, stdout io.Writer) (SlogLogger, io.Closer, error) {
	w := stdout
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return SlogLogger{}, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = io.MultiWriter(stdout, f)
		closer = f
	}

	level, err := parseLevel(cfg.Level)
	if err != nil {
		_ = closer.Close()
		return SlogLogger{}, nil, err
	}

	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = "%Y-%m-%d %H:%M:%S"
	}

	h := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				return slog.String(slog.TimeKey, strftime.Format(timeFormat, a.Value.Time()))
			}
			return a
		},
	})

	return SlogLogger{l: slog.New(h)}, closer, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(string, ...any) {}
func (Nop) Info(string, ...any)  {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Error(string, ...any) {}
func (Nop) With(...any) Logger   { return Nop{} }
