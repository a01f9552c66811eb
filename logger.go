package kmergo

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with kmergo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithRoot adds a table root field to the logger.
func (l *Logger) WithRoot(root string) *Logger {
	return &Logger{
		Logger: l.Logger.With("root", root),
	}
}

// WithK adds a k-mer length field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// LogTableLoad logs a table load.
func (l *Logger) LogTableLoad(ctx context.Context, root string, entries int64, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "table load failed",
			"root", root,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "table loaded",
			"root", root,
			"entries", entries,
			"duration", d,
		)
	}
}

// LogHaploScan logs a haplotype scan.
func (l *Logger) LogHaploScan(ctx context.Context, root string, groups int64, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "haplotype scan failed",
			"root", root,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "haplotype scan completed",
			"root", root,
			"groups", groups,
			"duration", d,
		)
	}
}

// LogVennMerge logs an N-way Venn classification.
func (l *Logger) LogVennMerge(ctx context.Context, roots []string, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "venn classification failed",
			"roots", roots,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "venn classification completed",
			"roots", roots,
			"nway", len(roots),
			"duration", d,
		)
	}
}
