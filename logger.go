package kmviz

import (
	"context"
	"errors"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with kmviz-specific context.
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
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithK adds a k (cluster count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithSession adds a session id field to the logger.
func (l *Logger) WithSession(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("session", id),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogInitialize logs a centroid initialization.
func (l *Logger) LogInitialize(ctx context.Context, method string, k, points int, err error) {
	if err != nil {
		l.Log(ctx, errorLevel(err), "initialize failed",
			"method", method,
			"k", k,
			"points", points,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "initialize completed",
			"method", method,
			"k", k,
			"points", points,
		)
	}
}

// LogStep logs a single assignment+update step.
func (l *Logger) LogStep(ctx context.Context, iteration int, converged bool, err error) {
	if err != nil {
		l.Log(ctx, errorLevel(err), "step failed",
			"iteration", iteration,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "step completed",
			"iteration", iteration,
			"converged", converged,
		)
	}
}

// LogRun logs a run to convergence.
func (l *Logger) LogRun(ctx context.Context, k, iterations int, converged bool, inertia float64, err error) {
	switch {
	case err != nil:
		l.Log(ctx, errorLevel(err), "run failed",
			"k", k,
			"error", err,
		)
	case !converged:
		l.WarnContext(ctx, "run hit iteration limit",
			"k", k,
			"iterations", iterations,
			"inertia", inertia,
		)
	default:
		l.InfoContext(ctx, "run converged",
			"k", k,
			"iterations", iterations,
			"inertia", inertia,
		)
	}
}

// errorLevel logs rejected input and cancellation at warn, everything else at error.
func errorLevel(err error) slog.Level {
	switch {
	case errors.Is(err, ErrInvalidArgument),
		errors.Is(err, ErrInsufficientData),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
