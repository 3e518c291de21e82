package logger

import (
	"context"
	"log/slog"
	"os"
)

// New returns a production-friendly structured logger for long-running
// processes. No business logic should depend on logging implementation details.
func New(appEnv string) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: levelFor(appEnv)})
	return slog.New(h)
}

// NewCLI returns a human-readable logger writing to stderr, so command output
// on stdout stays clean for pipes.
func NewCLI(appEnv string) *slog.Logger {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: levelFor(appEnv)})
	return slog.New(h)
}

func levelFor(appEnv string) slog.Level {
	if appEnv == "local" || appEnv == "dev" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

type ctxKey struct{}

// With stores a logger in context.
func With(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From gets a logger from context, falling back to slog.Default().
func From(ctx context.Context) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return slog.Default()
}
