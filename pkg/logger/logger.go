package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Logger wraps slog.Logger so components can take a concrete logger dependency
type Logger struct {
	*slog.Logger
}

var (
	debugColor = color.New(color.FgCyan).SprintFunc()
	infoColor  = color.New(color.FgGreen).SprintFunc()
	warnColor  = color.New(color.FgYellow).SprintFunc()
	errorColor = color.New(color.FgRed, color.Bold).SprintFunc()
)

// ParseLevel converts a config string into a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a logger writing to stdout and installs it as the slog default
func New(level, format string) *Logger {
	l := NewWithWriter(os.Stdout, ParseLevel(level), format)
	slog.SetDefault(l.Logger)
	return l
}

// NewWithWriter creates a logger on an arbitrary writer. Format "json" emits JSON lines,
// anything else emits text with colored levels.
func NewWithWriter(w io.Writer, level slog.Level, format string) *Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		opts.ReplaceAttr = colorLevel
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// Nop returns a logger that discards everything, used by tests
func Nop() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// With returns a child logger carrying the given attributes
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

func colorLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) > 0 {
		return a
	}

	level, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}

	switch {
	case level >= slog.LevelError:
		a.Value = slog.StringValue(errorColor(level.String()))
	case level >= slog.LevelWarn:
		a.Value = slog.StringValue(warnColor(level.String()))
	case level >= slog.LevelInfo:
		a.Value = slog.StringValue(infoColor(level.String()))
	default:
		a.Value = slog.StringValue(debugColor(level.String()))
	}
	return a
}
